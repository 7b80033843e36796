package testutil

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// KeyFileName matches the file name the gate looks for by default.
const KeyFileName = "jwt_key.pem"

// NewKeyPair generates a fresh P-256 key pair.
func NewKeyPair(tb testing.TB) *ecdsa.PrivateKey {
	tb.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		tb.Fatalf("failed to generate EC key: %v", err)
	}
	return key
}

// PublicKeyPEM encodes the public half of key as a PKIX "PUBLIC KEY" block.
func PublicKeyPEM(tb testing.TB, key *ecdsa.PrivateKey) []byte {
	tb.Helper()

	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		tb.Fatalf("failed to marshal public key: %v", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
}

// PrivateKeyPEM encodes key as a SEC 1 "EC PRIVATE KEY" block.
func PrivateKeyPEM(tb testing.TB, key *ecdsa.PrivateKey) []byte {
	tb.Helper()

	der, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		tb.Fatalf("failed to marshal private key: %v", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: der})
}

// WriteKeyFile writes contents to a jwt_key.pem inside a fresh temporary
// directory and returns its path.
func WriteKeyFile(tb testing.TB, contents []byte) string {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), KeyFileName)
	if err := os.WriteFile(path, contents, 0o600); err != nil {
		tb.Fatalf("failed to write key file: %v", err)
	}
	return path
}

// MissingKeyPath returns a path inside a fresh temporary directory that does
// not exist.
func MissingKeyPath(tb testing.TB) string {
	tb.Helper()
	return filepath.Join(tb.TempDir(), KeyFileName)
}

// Token mints an ES256 accesstoken for the given identity.
func Token(tb testing.TB, key *ecdsa.PrivateKey, userID uint64, username string, exp time.Time) string {
	tb.Helper()

	return SignClaims(tb, jwa.ES256, key, map[string]any{
		"userid":          userID,
		"username":        username,
		jwt.ExpirationKey: exp,
	})
}

// SignClaims signs an arbitrary claim set with alg and key. It is used to
// build tokens the gate must reject.
func SignClaims(tb testing.TB, alg jwa.SignatureAlgorithm, key any, claims map[string]any) string {
	tb.Helper()

	token := jwt.New()
	for name, value := range claims {
		if err := token.Set(name, value); err != nil {
			tb.Fatalf("failed to set claim %q: %v", name, err)
		}
	}

	signed, err := jwt.Sign(token, jwt.WithKey(alg, key))
	if err != nil {
		tb.Fatalf("failed to sign token: %v", err)
	}
	return string(signed)
}

// SignPayload signs payload verbatim as an ES256 JWS. It covers claim
// encodings that a jwt.Token would normalise, such as null or fractional
// values.
func SignPayload(tb testing.TB, key *ecdsa.PrivateKey, payload string) string {
	tb.Helper()

	signed, err := jws.Sign([]byte(payload), jws.WithKey(jwa.ES256, key))
	if err != nil {
		tb.Fatalf("failed to sign payload: %v", err)
	}
	return string(signed)
}
