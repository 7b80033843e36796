package validator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jws"

	"github.com/routerd/authgate/core"
)

// Private claim names carried by an accesstoken.
const (
	UserIDClaim   = "userid"
	UsernameClaim = "username"
)

// Validator verifies accesstokens against an Enabled policy using jwx.
type Validator struct {
	algorithm     jwa.SignatureAlgorithm // Required.
	key           any                    // Required.
	enforceExpiry bool
	leeway        time.Duration
	now           func() time.Time // Optional.
}

// Option is how options for the Validator are set up.
type Option func(*Validator) error

// WithClock replaces the wall clock used for the exp check.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) error {
		if now == nil {
			return errors.New("clock cannot be nil")
		}
		v.now = now
		return nil
	}
}

// New builds a Validator for the given policy.
func New(policy Enabled, opts ...Option) (*Validator, error) {
	if policy.Key == nil {
		return nil, errors.New("policy key is required but was nil")
	}
	if policy.Algorithm != jwa.ES256 {
		return nil, fmt.Errorf("unsupported signature algorithm: %s", policy.Algorithm)
	}
	if policy.Leeway < 0 {
		return nil, errors.New("leeway cannot be negative")
	}

	v := &Validator{
		algorithm:     policy.Algorithm,
		key:           policy.Key,
		enforceExpiry: policy.EnforceExpiry,
		leeway:        policy.Leeway,
		now:           time.Now,
	}

	for _, opt := range opts {
		if err := opt(v); err != nil {
			return nil, err
		}
	}

	return v, nil
}

// NewTokenValidator adapts New to the signature expected by the middleware
// backends.
func NewTokenValidator(policy Enabled) (core.TokenValidator, error) {
	return New(policy)
}

// ValidateToken verifies the signature and expiry of tokenString and returns
// its identity claims. Only exp is checked; nbf and iat are ignored.
func (v *Validator) ValidateToken(_ context.Context, tokenString string) (*core.JwtClaims, error) {
	if err := CheckTokenFormat(tokenString); err != nil {
		return nil, fmt.Errorf("could not parse the token: %w", err)
	}

	payload, err := jws.Verify([]byte(tokenString), jws.WithKey(v.algorithm, v.key))
	if err != nil {
		return nil, fmt.Errorf("could not parse the token: %w", err)
	}

	claims, err := DecodeClaims(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize token claims: %w", err)
	}

	if v.enforceExpiry {
		if err := CheckExpiry(claims.Expiry, v.now(), v.leeway); err != nil {
			return nil, fmt.Errorf("could not parse the token: %w", err)
		}
	}

	return claims, nil
}
