// Package jwtgo verifies accesstokens with the golang-jwt/jwt v5 package. It
// accepts exactly the tokens the default jwx validator accepts and can be
// selected as the middleware backend.
package jwtgo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/pkg/errors"

	"github.com/routerd/authgate/core"
	"github.com/routerd/authgate/validator"
)

// Option is how options for the validator are setup.
type Option func(*Validator)

// WithTimeFunc replaces the wall clock used for the exp check.
func WithTimeFunc(now func() time.Time) Option {
	return func(v *Validator) {
		if now != nil {
			v.now = now
		}
	}
}

// Validator verifies tokens against an Enabled policy.
type Validator struct {
	policy validator.Enabled
	now    func() time.Time
}

// New sets up a new Validator for the given policy.
func New(policy validator.Enabled, opts ...Option) (*Validator, error) {
	if policy.Key == nil {
		return nil, errors.New("policy key is required but was nil")
	}
	if policy.Algorithm != jwa.ES256 {
		return nil, errors.Errorf("unsupported signature algorithm: %s", policy.Algorithm)
	}

	v := &Validator{policy: policy, now: time.Now}
	for _, opt := range opts {
		opt(v)
	}

	return v, nil
}

// NewTokenValidator adapts New to the signature expected by the middleware
// backends.
func NewTokenValidator(policy validator.Enabled) (core.TokenValidator, error) {
	return New(policy)
}

// ValidateToken validates the passed in JWT using the golang-jwt package.
// The parser only verifies the signature; claims go through the shared
// strict decoding so both backends accept exactly the same tokens.
func (v *Validator) ValidateToken(_ context.Context, token string) (*core.JwtClaims, error) {
	if err := validator.CheckTokenFormat(token); err != nil {
		return nil, fmt.Errorf("could not parse the token: %w", err)
	}

	parser := v.parser()
	if _, err := parser.ParseWithClaims(token, jwt.MapClaims{}, v.keyFunc); err != nil {
		return nil, fmt.Errorf("could not parse the token: %w", err)
	}

	payload, err := parser.DecodeSegment(strings.Split(token, ".")[1])
	if err != nil {
		return nil, fmt.Errorf("could not parse the token: %w", err)
	}

	claims, err := validator.DecodeClaims(payload)
	if err != nil {
		return nil, errors.Wrap(err, "failed to deserialize token claims")
	}

	if v.policy.EnforceExpiry {
		if err := validator.CheckExpiry(claims.Expiry, v.now(), v.policy.Leeway); err != nil {
			return nil, fmt.Errorf("could not parse the token: %w", err)
		}
	}

	return claims, nil
}

func (v *Validator) parser() *jwt.Parser {
	return jwt.NewParser(
		jwt.WithValidMethods([]string{v.policy.Algorithm.String()}),
		jwt.WithoutClaimsValidation(),
	)
}

func (v *Validator) keyFunc(*jwt.Token) (any, error) {
	return v.policy.Key, nil
}
