package authiris

import (
	"github.com/kataras/iris/v12"

	"github.com/routerd/authgate"
)

// Option is a function that configures the Iris middleware.
type Option func(*IrisMiddlewareConfig)

// WithErrorHandler sets a custom error handler for the Iris middleware.
func WithErrorHandler(handler func(iris.Context, error)) Option {
	return func(config *IrisMiddlewareConfig) {
		config.errorHandler = handler
	}
}

// WithTokenExtractor sets a custom token extractor.
func WithTokenExtractor(extractor authgate.TokenExtractor) Option {
	return func(config *IrisMiddlewareConfig) {
		config.tokenExtractor = extractor
	}
}
