package core

import (
	"context"
	"time"
)

// TokenValidator verifies a token and returns its identity claims.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*JwtClaims, error)
}

// Logger defines the logging interface shared by every layer of the gate.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Outcome is what the gate decided for one request.
type Outcome int

const (
	// Passthrough means authentication is disabled; nothing is attached.
	Passthrough Outcome = iota
	// Anonymous means no accesstoken was presented.
	Anonymous
	// Authenticated means a valid accesstoken was presented.
	Authenticated
)

// String returns the label used for logs, metrics and spans.
func (o Outcome) String() string {
	switch o {
	case Passthrough:
		return "passthrough"
	case Anonymous:
		return "anonymous"
	case Authenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Decision is the result of checking one request.
type Decision struct {
	Outcome   Outcome
	Extension AuthExtension
}

// Attach returns ctx carrying the decision's extension. A Passthrough
// decision leaves ctx untouched.
func (d Decision) Attach(ctx context.Context) context.Context {
	if d.Outcome == Passthrough {
		return ctx
	}
	return WithExtension(ctx, d.Extension)
}

// Core is the framework-agnostic decision engine of an enabled gate.
type Core struct {
	validator TokenValidator
	logger    Logger
}

// CheckToken turns the accesstoken of a request into a Decision:
//   - no token present: Anonymous with an empty extension
//   - token not visible ASCII text: ErrHeaderMalformed
//   - token rejected by the validator: ErrTokenInvalid
//   - otherwise: Authenticated with the decoded claims
//
// Every returned error satisfies errors.Is(err, ErrBadRequest).
func (c *Core) CheckToken(ctx context.Context, token string, present bool) (Decision, error) {
	if !present {
		if c.logger != nil {
			c.logger.Debugf("no accesstoken provided, continuing as anonymous")
		}
		return Decision{Outcome: Anonymous}, nil
	}

	if err := ValidateHeaderText(token); err != nil {
		if c.logger != nil {
			c.logger.Debugf("rejecting accesstoken: %v", err)
		}
		return Decision{}, err
	}

	start := time.Now()
	claims, err := c.validator.ValidateToken(ctx, token)
	duration := time.Since(start)
	if err != nil {
		if c.logger != nil {
			c.logger.Debugf("accesstoken validation failed after %s: %v", duration, err)
		}
		return Decision{}, NewBadRequest(ErrTokenInvalid, err)
	}

	if c.logger != nil {
		c.logger.Debugf("accesstoken validated in %s for user %d", duration, claims.UserID)
	}

	return Decision{
		Outcome:   Authenticated,
		Extension: AuthExtension{Claims: claims},
	}, nil
}

// ValidateHeaderText checks that a header value is visible ASCII text
// (tab and 0x20-0x7E). Obsolete text and control bytes are rejected.
func ValidateHeaderText(value string) error {
	for i := 0; i < len(value); i++ {
		b := value[i]
		if b == '\t' || (b >= 0x20 && b < 0x7f) {
			continue
		}
		return NewBadRequest(ErrHeaderMalformed, nil)
	}
	return nil
}
