package core

import "errors"

// Option is a function that configures the Core.
// Options return errors to enable validation during construction.
type Option func(*Core) error

// Configuration errors.
var (
	ErrValidatorNotSet = errors.New("validator is required but not set (use WithValidator option)")
	ErrValidatorNil    = errors.New("validator cannot be nil")
	ErrLoggerNil       = errors.New("logger cannot be nil")
)

// New creates a new Core instance with the provided options.
//
// The Core must be configured with a TokenValidator using WithValidator.
//
// Example:
//
//	c, err := core.New(
//	    core.WithValidator(v),
//	    core.WithLogger(logger),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
func New(opts ...Option) (*Core, error) {
	c := &Core{}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if c.validator == nil {
		return nil, ErrValidatorNotSet
	}

	return c, nil
}

// WithValidator sets the validator for the Core. This is a required option.
func WithValidator(validator TokenValidator) Option {
	return func(c *Core) error {
		if validator == nil {
			return ErrValidatorNil
		}
		c.validator = validator
		return nil
	}
}

// WithLogger sets an optional logger for the Core.
//
// When configured, the Core logs every decision at debug level, including the
// cause of rejected tokens, which never reaches the client.
func WithLogger(logger Logger) Option {
	return func(c *Core) error {
		if logger == nil {
			return ErrLoggerNil
		}
		c.logger = logger
		return nil
	}
}
