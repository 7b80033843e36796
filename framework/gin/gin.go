package authgin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/routerd/authgate"
	"github.com/routerd/authgate/core"
)

// DefaultExtensionKey is the gin.Context key the AuthExtension is stored under.
const DefaultExtensionKey = "auth"

var (
	ErrMissingExtension = errors.New("no auth extension found in context")
	ErrInvalidExtension = errors.New("invalid auth extension type")
)

type ginMiddlewareConfig struct {
	errorHandler   func(*gin.Context, error)
	contextKey     string
	tokenExtractor authgate.TokenExtractor
}

// New creates a Gin middleware backed by gate.
//
// Requests passed through by a disabled gate carry no extension. Otherwise
// the AuthExtension is stored in the gin.Context under the configured key and
// in the request context, so authgate.RequireLogged(c.Request.Context()) works
// in handlers as well as RequireLogged(c).
func New(gate *authgate.Middleware, opts ...Option) gin.HandlerFunc {
	config := &ginMiddlewareConfig{
		errorHandler:   defaultGinErrorHandler,
		contextKey:     DefaultExtensionKey,
		tokenExtractor: authgate.HeaderTokenExtractor,
	}

	for _, opt := range opts {
		opt(config)
	}

	return func(c *gin.Context) {
		decision, err := gate.Decide(c.Request.Context(), func() (string, bool) {
			return config.tokenExtractor(c.Request)
		})
		if err != nil {
			config.errorHandler(c, err)
			c.Abort()
			return
		}

		if decision.Outcome != core.Passthrough {
			c.Request = c.Request.WithContext(decision.Attach(c.Request.Context()))
			c.Set(config.contextKey, decision.Extension)
		}

		c.Next()
	}
}

func defaultGinErrorHandler(c *gin.Context, err error) {
	switch authgate.StatusCode(err) {
	case http.StatusBadRequest:
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Bad request."})
	case http.StatusUnauthorized:
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized."})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Something went wrong while checking the accesstoken."})
	}
}

// GetExtension returns the AuthExtension stored by the middleware.
func GetExtension(c *gin.Context, contextKey string) (core.AuthExtension, error) {
	if contextKey == "" {
		contextKey = DefaultExtensionKey
	}
	value, exists := c.Get(contextKey)
	if !exists {
		return core.AuthExtension{}, ErrMissingExtension
	}

	ext, ok := value.(core.AuthExtension)
	if !ok {
		return core.AuthExtension{}, ErrInvalidExtension
	}

	return ext, nil
}

// RequireLogged returns the claims of a logged request, or aborts with 401
// and returns core.ErrUnauthorized.
func RequireLogged(c *gin.Context) (*core.JwtClaims, error) {
	claims, err := authgate.RequireLogged(c.Request.Context())
	if err != nil {
		defaultGinErrorHandler(c, err)
		return nil, err
	}
	return claims, nil
}
