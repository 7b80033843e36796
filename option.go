package authgate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/routerd/authgate/core"
	"github.com/routerd/authgate/validate/jwtgo"
	"github.com/routerd/authgate/validator"
)

// Option configures the Middleware.
// Returns error for validation failures.
type Option func(*Middleware) error

// Backend builds the token validator for an Enabled policy.
type Backend func(policy validator.Enabled) (core.TokenValidator, error)

// Available backends.
var (
	// JWXBackend verifies tokens with lestrrat-go/jwx.
	JWXBackend Backend = validator.NewTokenValidator
	// JWTGoBackend verifies tokens with golang-jwt/jwt.
	JWTGoBackend Backend = jwtgo.NewTokenValidator
)

// BackendByName resolves "jwx" or "jwtgo" to a Backend.
func BackendByName(name string) (Backend, error) {
	switch strings.ToLower(name) {
	case "", "jwx":
		return JWXBackend, nil
	case "jwtgo":
		return JWTGoBackend, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
}

// WithPolicy pins the Middleware to p instead of the process-wide policy
// committed by Setup.
func WithPolicy(p validator.Policy) Option {
	return func(m *Middleware) error {
		if p == nil {
			return ErrPolicyNil
		}
		m.policy = func() validator.Policy { return p }
		return nil
	}
}

// WithCell makes the Middleware read its policy from cell instead of the
// process-wide one. An empty cell reads as Disabled.
func WithCell(cell *validator.Cell) Option {
	return func(m *Middleware) error {
		if cell == nil {
			return ErrCellNil
		}
		m.policy = cell.Policy
		return nil
	}
}

// WithBackend sets how tokens are verified.
//
// Default: JWXBackend
func WithBackend(b Backend) Option {
	return func(m *Middleware) error {
		if b == nil {
			return ErrBackendNil
		}
		m.backend = b
		return nil
	}
}

// WithErrorHandler sets the handler called when a request is rejected.
// See the ErrorHandler type for more information.
//
// Default: DefaultErrorHandler
func WithErrorHandler(h ErrorHandler) Option {
	return func(m *Middleware) error {
		if h == nil {
			return ErrErrorHandlerNil
		}
		m.errorHandler = h
		return nil
	}
}

// WithTokenExtractor sets the function to extract the token from the request.
//
// Default: HeaderTokenExtractor
func WithTokenExtractor(e TokenExtractor) Option {
	return func(m *Middleware) error {
		if e == nil {
			return ErrTokenExtractorNil
		}
		m.tokenExtractor = e
		return nil
	}
}

// WithLogger sets the logger for the middleware and its core.
//
// Default: the logrus standard logger
func WithLogger(logger Logger) Option {
	return func(m *Middleware) error {
		if logger == nil {
			return ErrLoggerNil
		}
		m.logger = logger
		return nil
	}
}

// WithMetrics sets the metrics sink.
//
// Default: NoopMetrics
func WithMetrics(metrics Metrics) Option {
	return func(m *Middleware) error {
		if metrics == nil {
			return ErrMetricsNil
		}
		m.metrics = metrics
		return nil
	}
}

// WithTracer sets the tracer.
//
// Default: NoopTracer
func WithTracer(tracer Tracer) Option {
	return func(m *Middleware) error {
		if tracer == nil {
			return ErrTracerNil
		}
		m.tracer = tracer
		return nil
	}
}

// Sentinel errors for configuration validation
var (
	ErrPolicyNil         = errors.New("policy cannot be nil")
	ErrCellNil           = errors.New("cell cannot be nil")
	ErrBackendNil        = errors.New("backend cannot be nil")
	ErrUnknownBackend    = errors.New("unknown backend")
	ErrErrorHandlerNil   = errors.New("errorHandler cannot be nil")
	ErrTokenExtractorNil = errors.New("tokenExtractor cannot be nil")
	ErrLoggerNil         = errors.New("logger cannot be nil")
	ErrMetricsNil        = errors.New("metrics cannot be nil")
	ErrTracerNil         = errors.New("tracer cannot be nil")
)
