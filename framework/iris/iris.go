package authiris

import (
	"net/http"

	"github.com/kataras/iris/v12"

	"github.com/routerd/authgate"
	"github.com/routerd/authgate/core"
)

// ExtensionKey is the key the AuthExtension is stored under in c.Values().
const ExtensionKey = "auth"

// IrisMiddlewareConfig holds configuration for the Iris adapter.
type IrisMiddlewareConfig struct {
	errorHandler   func(iris.Context, error)
	tokenExtractor authgate.TokenExtractor
}

// New creates an Iris middleware backed by gate.
//
// The extension is stored both in the request context and in c.Values(), so
// handlers can use GetExtension(c) or authgate.RequireLogged on the request
// context.
func New(gate *authgate.Middleware, opts ...Option) iris.Handler {
	config := &IrisMiddlewareConfig{
		errorHandler:   defaultIrisErrorHandler,
		tokenExtractor: authgate.HeaderTokenExtractor,
	}

	for _, opt := range opts {
		opt(config)
	}

	return func(c iris.Context) {
		req := c.Request()
		decision, err := gate.Decide(req.Context(), func() (string, bool) {
			return config.tokenExtractor(req)
		})
		if err != nil {
			config.errorHandler(c, err)
			c.StopExecution()
			return
		}

		if decision.Outcome != core.Passthrough {
			c.ResetRequest(req.WithContext(decision.Attach(req.Context())))
			c.Values().Set(ExtensionKey, decision.Extension)
		}

		c.Next()
	}
}

// GetExtension returns the AuthExtension stored by the middleware. The
// boolean is false when the gate is disabled.
func GetExtension(c iris.Context) (core.AuthExtension, bool) {
	ext, ok := c.Values().Get(ExtensionKey).(core.AuthExtension)
	return ext, ok
}

// MustGetClaims returns the claims of a logged request or stops execution
// with a 401 error. This is a convenience function for handlers that require
// a logged in user.
//
// Example usage:
//
//	func ProtectedHandler(c iris.Context) {
//	    claims := authiris.MustGetClaims(c)
//	    if claims == nil {
//	        return // Error response already sent
//	    }
//	    c.JSON(iris.Map{"username": claims.Username})
//	}
func MustGetClaims(c iris.Context) *core.JwtClaims {
	claims, err := authgate.RequireLogged(c.Request().Context())
	if err != nil {
		defaultIrisErrorHandler(c, err)
		c.StopExecution()
		return nil
	}
	return claims
}

func defaultIrisErrorHandler(c iris.Context, err error) {
	switch status := authgate.StatusCode(err); status {
	case http.StatusBadRequest:
		_ = c.StopWithJSON(status, iris.Map{"message": "Bad request."})
	case http.StatusUnauthorized:
		_ = c.StopWithJSON(status, iris.Map{"message": "Unauthorized."})
	default:
		_ = c.StopWithJSON(http.StatusInternalServerError, iris.Map{"message": "Something went wrong while checking the accesstoken."})
	}
}
