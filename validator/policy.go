package validator

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
)

// DefaultKeyPath is where the gate looks for the EC public key.
const DefaultKeyPath = "./jwt_key.pem"

// DefaultLeeway is the clock skew tolerated when checking exp.
const DefaultLeeway = 60 * time.Second

// ErrKeyInvalid is returned when the key file exists but does not hold an
// EC key in PEM form.
var ErrKeyInvalid = errors.New("invalid EC key material")

// Policy is either Disabled or Enabled. No other implementations exist.
type Policy interface {
	isPolicy()
}

// Disabled turns authentication off for the process lifetime.
type Disabled struct{}

// Enabled holds the validation policy and decoding key.
type Enabled struct {
	Algorithm     jwa.SignatureAlgorithm
	EnforceExpiry bool
	Leeway        time.Duration
	Key           *ecdsa.PublicKey
}

func (Disabled) isPolicy() {}
func (Enabled) isPolicy()  {}

// PolicyOption tweaks the Enabled policy built by LoadPolicy.
type PolicyOption func(*Enabled)

// WithLeeway sets the clock skew tolerated when checking exp.
func WithLeeway(leeway time.Duration) PolicyOption {
	return func(e *Enabled) {
		e.Leeway = leeway
	}
}

// LoadPolicy reads the EC key at path and builds the validation policy.
//
// A missing file is not an error: it returns Disabled. A file that exists but
// does not parse as an EC key returns an error wrapping ErrKeyInvalid, which
// callers are expected to treat as fatal.
func LoadPolicy(path string, opts ...PolicyOption) (Policy, error) {
	pem, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Disabled{}, nil
		}
		return nil, fmt.Errorf("could not read key file %q: %w", path, err)
	}

	key, err := ParseECPublicKey(pem)
	if err != nil {
		return nil, fmt.Errorf("could not load key file %q: %w", path, err)
	}

	policy := Enabled{
		Algorithm:     jwa.ES256,
		EnforceExpiry: true,
		Leeway:        DefaultLeeway,
		Key:           key,
	}
	for _, opt := range opts {
		opt(&policy)
	}

	return policy, nil
}

// ParseECPublicKey parses a PEM encoded EC public key. Private keys are
// rejected: the verifying host only ever needs the public half.
func ParseECPublicKey(pem []byte) (*ecdsa.PublicKey, error) {
	key, err := jwk.ParseKey(pem, jwk.WithPEM(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrKeyInvalid, err)
	}

	if key.KeyType() != jwa.EC {
		return nil, fmt.Errorf("%w: expected an EC key but got %s", ErrKeyInvalid, key.KeyType())
	}

	public, ok := key.(jwk.ECDSAPublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: expected an EC public key but got a private key", ErrKeyInvalid)
	}

	var raw ecdsa.PublicKey
	if err := public.Raw(&raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrKeyInvalid, err)
	}

	return &raw, nil
}
