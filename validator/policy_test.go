package validator

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/routerd/authgate/internal/testutil"
)

func TestLoadPolicy(t *testing.T) {
	key := testutil.NewKeyPair(t)

	t.Run("missing file disables authentication", func(t *testing.T) {
		policy, err := LoadPolicy(testutil.MissingKeyPath(t))
		require.NoError(t, err)
		assert.Equal(t, Disabled{}, policy)
	})

	t.Run("public key enables ES256 with expiry", func(t *testing.T) {
		path := testutil.WriteKeyFile(t, testutil.PublicKeyPEM(t, key))

		policy, err := LoadPolicy(path)
		require.NoError(t, err)

		enabled, ok := policy.(Enabled)
		require.True(t, ok, "expected Enabled, got %T", policy)
		assert.Equal(t, jwa.ES256, enabled.Algorithm)
		assert.True(t, enabled.EnforceExpiry)
		assert.Equal(t, DefaultLeeway, enabled.Leeway)
		assert.True(t, key.PublicKey.Equal(enabled.Key))
	})

	t.Run("private key is a fatal error", func(t *testing.T) {
		path := testutil.WriteKeyFile(t, testutil.PrivateKeyPEM(t, key))

		policy, err := LoadPolicy(path)
		assert.ErrorIs(t, err, ErrKeyInvalid)
		assert.ErrorContains(t, err, "expected an EC public key but got a private key")
		assert.Nil(t, policy)
	})

	t.Run("leeway option", func(t *testing.T) {
		path := testutil.WriteKeyFile(t, testutil.PublicKeyPEM(t, key))

		policy, err := LoadPolicy(path, WithLeeway(5*time.Second))
		require.NoError(t, err)
		assert.Equal(t, 5*time.Second, policy.(Enabled).Leeway)
	})

	t.Run("garbage is a fatal error", func(t *testing.T) {
		path := testutil.WriteKeyFile(t, []byte("definitely not a key"))

		policy, err := LoadPolicy(path)
		assert.ErrorIs(t, err, ErrKeyInvalid)
		assert.Nil(t, policy)
	})

	t.Run("empty file is a fatal error", func(t *testing.T) {
		path := testutil.WriteKeyFile(t, nil)

		_, err := LoadPolicy(path)
		assert.ErrorIs(t, err, ErrKeyInvalid)
	})

	t.Run("non EC key is a fatal error", func(t *testing.T) {
		public, _, err := ed25519.GenerateKey(rand.Reader)
		require.NoError(t, err)
		der, err := x509.MarshalPKIXPublicKey(public)
		require.NoError(t, err)
		path := testutil.WriteKeyFile(t, pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))

		_, err = LoadPolicy(path)
		assert.ErrorIs(t, err, ErrKeyInvalid)
		assert.Contains(t, err.Error(), "expected an EC key")
	})

	t.Run("unreadable path is an error", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(dir, testutil.KeyFileName), 0o700))

		_, err := LoadPolicy(filepath.Join(dir, testutil.KeyFileName))
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrKeyInvalid)
	})
}

func TestPolicy_TypeSwitch(t *testing.T) {
	describe := func(p Policy) string {
		switch p.(type) {
		case Disabled:
			return "disabled"
		case Enabled:
			return "enabled"
		default:
			return "unknown"
		}
	}

	assert.Equal(t, "disabled", describe(Disabled{}))
	assert.Equal(t, "enabled", describe(Enabled{}))
}
