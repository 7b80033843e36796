package authgate

import (
	"fmt"

	"github.com/routerd/authgate/validator"
)

// defaultCell is the process-wide policy committed by Setup.
var defaultCell validator.Cell

// DefaultCell returns the process-wide cell written by Setup. Middleware built
// without WithPolicy or WithCell reads from it.
func DefaultCell() *validator.Cell {
	return &defaultCell
}

// DefaultPolicy returns the process-wide policy, Disabled until Setup commits
// an Enabled one.
func DefaultPolicy() validator.Policy {
	return defaultCell.Policy()
}

type setupConfig struct {
	keyPath    string
	logger     Logger
	cell       *validator.Cell
	policyOpts []validator.PolicyOption
}

// SetupOption configures Setup.
type SetupOption func(*setupConfig)

// WithKeyPath overrides the key file location.
//
// Default: validator.DefaultKeyPath ("./jwt_key.pem")
func WithKeyPath(path string) SetupOption {
	return func(c *setupConfig) {
		c.keyPath = path
	}
}

// WithSetupLogger sets the logger used for the startup line.
//
// Default: the logrus standard logger
func WithSetupLogger(logger Logger) SetupOption {
	return func(c *setupConfig) {
		c.logger = logger
	}
}

// WithSetupCell commits into cell instead of the process-wide one.
func WithSetupCell(cell *validator.Cell) SetupOption {
	return func(c *setupConfig) {
		c.cell = cell
	}
}

// WithPolicyOptions forwards options to validator.LoadPolicy.
func WithPolicyOptions(opts ...validator.PolicyOption) SetupOption {
	return func(c *setupConfig) {
		c.policyOpts = append(c.policyOpts, opts...)
	}
}

// Setup loads the validation policy and commits an Enabled one to the
// process-wide cell. It must run before the server starts accepting
// connections.
//
// A missing key file disables authentication and is not an error; the cell is
// left unset and reads as Disabled. A key file that cannot be parsed is
// returned as an error; callers should abort startup. Once an Enabled policy
// has been committed, later calls leave it untouched.
//
// Example:
//
//	if err := authgate.Setup(); err != nil {
//	    log.Fatalf("failed to set up JWT validation: %v", err)
//	}
func Setup(opts ...SetupOption) error {
	cfg := &setupConfig{
		keyPath: validator.DefaultKeyPath,
		cell:    &defaultCell,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = defaultLogger()
	}

	policy, err := validator.LoadPolicy(cfg.keyPath, cfg.policyOpts...)
	if err != nil {
		return fmt.Errorf("failed to load JWT validation policy: %w", err)
	}

	switch policy.(type) {
	case validator.Enabled:
		if !cfg.cell.Set(policy) {
			cfg.logger.Warnf("JWT validation policy already committed, ignoring key file `%s`.", cfg.keyPath)
			return nil
		}
		cfg.logger.Infof("Using JWT validation.")
	case validator.Disabled:
		if _, ok := cfg.cell.Get(); ok {
			cfg.logger.Debugf("Key file `%s` does not exist, keeping the committed JWT validation policy.", cfg.keyPath)
			return nil
		}
		cfg.logger.Infof("NOT using JWT validation, since file `%s` does not exist.", cfg.keyPath)
	}

	return nil
}
