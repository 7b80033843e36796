package authgate

import (
	"context"

	"github.com/routerd/authgate/core"
)

// Extension returns the AuthExtension attached by the Middleware. The boolean
// is false when authentication is disabled and nothing was attached.
func Extension(ctx context.Context) (core.AuthExtension, bool) {
	return core.FromContext(ctx)
}

// RequireLogged returns the claims of the request or core.ErrUnauthorized.
// A request that went through a disabled gate is treated as anonymous.
//
// Example:
//
//	func me(w http.ResponseWriter, r *http.Request) {
//	    claims, err := authgate.RequireLogged(r.Context())
//	    if err != nil {
//	        w.WriteHeader(authgate.StatusCode(err))
//	        return
//	    }
//	    fmt.Fprintf(w, "hello %s", claims.Username)
//	}
func RequireLogged(ctx context.Context) (*core.JwtClaims, error) {
	ext, _ := core.FromContext(ctx)
	return ext.RequireLogged()
}
