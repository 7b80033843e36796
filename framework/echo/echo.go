package authecho

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/routerd/authgate"
	"github.com/routerd/authgate/core"
)

// DefaultExtensionKey is the echo.Context key the AuthExtension is stored under.
var DefaultExtensionKey = "auth"

// echoMiddlewareConfig holds all configuration for the middleware
type echoMiddlewareConfig struct {
	errorHandler   func(echo.Context, error) error
	contextKey     string
	tokenExtractor authgate.TokenExtractor
}

// New creates an Echo middleware backed by gate.
func New(gate *authgate.Middleware, opts ...Option) echo.MiddlewareFunc {
	config := &echoMiddlewareConfig{
		errorHandler:   defaultEchoErrorHandler,
		contextKey:     DefaultExtensionKey,
		tokenExtractor: authgate.HeaderTokenExtractor,
	}

	for _, opt := range opts {
		opt(config)
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			decision, err := gate.Decide(req.Context(), func() (string, bool) {
				return config.tokenExtractor(req)
			})
			if err != nil {
				return config.errorHandler(c, err)
			}

			if decision.Outcome != core.Passthrough {
				c.SetRequest(req.WithContext(decision.Attach(req.Context())))
				c.Set(config.contextKey, decision.Extension)
			}

			return next(c)
		}
	}
}

// defaultEchoErrorHandler hands an *echo.HTTPError to the echo error handler.
func defaultEchoErrorHandler(_ echo.Context, err error) error {
	switch status := authgate.StatusCode(err); status {
	case http.StatusBadRequest:
		return echo.NewHTTPError(status, "Bad request.").SetInternal(err)
	case http.StatusUnauthorized:
		return echo.NewHTTPError(status, "Unauthorized.").SetInternal(err)
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "Something went wrong while checking the accesstoken.").SetInternal(err)
	}
}

// GetExtension extracts the AuthExtension from the Echo context
func GetExtension(c echo.Context, contextKey string) (core.AuthExtension, bool) {
	if contextKey == "" {
		contextKey = DefaultExtensionKey
	}
	ext, ok := c.Get(contextKey).(core.AuthExtension)
	return ext, ok
}

// RequireLogged returns the claims of a logged request or a 401 *echo.HTTPError
// that handlers can return as is.
func RequireLogged(c echo.Context) (*core.JwtClaims, error) {
	claims, err := authgate.RequireLogged(c.Request().Context())
	if err != nil {
		return nil, defaultEchoErrorHandler(c, err)
	}
	return claims, nil
}
