package jwtgo

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/routerd/authgate/core"
	"github.com/routerd/authgate/internal/testutil"
	"github.com/routerd/authgate/validator"
)

func Test_New(t *testing.T) {
	key := testutil.NewKeyPair(t)

	_, err := New(validator.Enabled{Algorithm: jwa.ES256})
	assert.EqualError(t, err, "policy key is required but was nil")

	_, err = New(validator.Enabled{Algorithm: jwa.ES384, Key: &key.PublicKey})
	assert.EqualError(t, err, "unsupported signature algorithm: ES384")

	v, err := New(validator.Enabled{Algorithm: jwa.ES256, Key: &key.PublicKey})
	require.NoError(t, err)
	assert.NotNil(t, v)
}

func Test_Validate(t *testing.T) {
	key := testutil.NewKeyPair(t)
	otherKey := testutil.NewKeyPair(t)
	future := time.Now().Add(time.Hour).Truncate(time.Second)
	past := time.Now().Add(-time.Hour).Truncate(time.Second)

	policy := validator.Enabled{
		Algorithm:     jwa.ES256,
		EnforceExpiry: true,
		Leeway:        validator.DefaultLeeway,
		Key:           &key.PublicKey,
	}

	testCases := []struct {
		name           string
		token          string
		expectedError  bool
		expectedClaims *core.JwtClaims
	}{
		{
			name:  "happy path",
			token: testutil.Token(t, key, 42, "alice", future),
			expectedClaims: &core.JwtClaims{
				UserID:   42,
				Username: "alice",
				Expiry:   uint64(future.Unix()),
			},
		},
		{
			name:          "errors on a different key",
			token:         testutil.Token(t, otherKey, 42, "alice", future),
			expectedError: true,
		},
		{
			name:          "errors on an expired token",
			token:         testutil.Token(t, key, 42, "alice", past),
			expectedError: true,
		},
		{
			name: "errors on wrong algorithm",
			token: testutil.SignClaims(t, jwa.HS256, []byte("secret"), map[string]any{
				"userid":          42,
				"username":        "alice",
				jwt.ExpirationKey: future,
			}),
			expectedError: true,
		},
		{
			name: "errors on missing exp",
			token: testutil.SignClaims(t, jwa.ES256, key, map[string]any{
				"userid":   42,
				"username": "alice",
			}),
			expectedError: true,
		},
		{
			name: "errors on missing userid",
			token: testutil.SignClaims(t, jwa.ES256, key, map[string]any{
				"username":        "alice",
				jwt.ExpirationKey: future,
			}),
			expectedError: true,
		},
		{
			name: "errors on missing username",
			token: testutil.SignClaims(t, jwa.ES256, key, map[string]any{
				"userid":          42,
				jwt.ExpirationKey: future,
			}),
			expectedError: true,
		},
		{
			name: "errors on negative userid",
			token: testutil.SignClaims(t, jwa.ES256, key, map[string]any{
				"userid":          -1,
				"username":        "alice",
				jwt.ExpirationKey: future,
			}),
			expectedError: true,
		},
		{
			name:          "errors on null userid",
			token:         testutil.SignPayload(t, key, fmt.Sprintf(`{"userid":null,"username":"alice","exp":%d}`, future.Unix())),
			expectedError: true,
		},
		{
			name:          "errors on null username",
			token:         testutil.SignPayload(t, key, fmt.Sprintf(`{"userid":42,"username":null,"exp":%d}`, future.Unix())),
			expectedError: true,
		},
		{
			name:          "errors on textual userid",
			token:         testutil.SignPayload(t, key, fmt.Sprintf(`{"userid":"42","username":"alice","exp":%d}`, future.Unix())),
			expectedError: true,
		},
		{
			name:          "errors on textual exp",
			token:         testutil.SignPayload(t, key, fmt.Sprintf(`{"userid":42,"username":"alice","exp":"%d"}`, future.Unix())),
			expectedError: true,
		},
		{
			name:          "errors on fractional exp",
			token:         testutil.SignPayload(t, key, fmt.Sprintf(`{"userid":42,"username":"alice","exp":%d.5}`, future.Unix())),
			expectedError: true,
		},
		{
			name:  "ignores a future nbf",
			token: testutil.SignPayload(t, key, fmt.Sprintf(`{"userid":42,"username":"alice","exp":%d,"nbf":%d}`, future.Unix(), future.Unix())),
			expectedClaims: &core.JwtClaims{
				UserID:   42,
				Username: "alice",
				Expiry:   uint64(future.Unix()),
			},
		},
		{
			name:  "ignores a future iat",
			token: testutil.SignPayload(t, key, fmt.Sprintf(`{"userid":42,"username":"alice","exp":%d,"iat":%d}`, future.Unix(), future.Unix())),
			expectedClaims: &core.JwtClaims{
				UserID:   42,
				Username: "alice",
				Expiry:   uint64(future.Unix()),
			},
		},
		{
			name:          "errors on wrong token format",
			token:         "not-a-token",
			expectedError: true,
		},
	}

	jwtgoValidator, err := New(policy)
	require.NoError(t, err)
	jwxValidator, err := validator.New(policy)
	require.NoError(t, err)

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			claims, err := jwtgoValidator.ValidateToken(context.Background(), testCase.token)
			_, jwxErr := jwxValidator.ValidateToken(context.Background(), testCase.token)

			assert.Equal(t, jwxErr != nil, err != nil, "backends disagree: jwtgo=%v jwx=%v", err, jwxErr)

			if testCase.expectedError {
				assert.Error(t, err)
				assert.Nil(t, claims)
				return
			}

			require.NoError(t, err)
			if diff := cmp.Diff(testCase.expectedClaims, claims); diff != "" {
				t.Errorf("claims mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func Test_ValidateWithoutExpiry(t *testing.T) {
	key := testutil.NewKeyPair(t)
	past := time.Now().Add(-time.Hour)

	v, err := New(validator.Enabled{Algorithm: jwa.ES256, Key: &key.PublicKey})
	require.NoError(t, err)

	claims, err := v.ValidateToken(context.Background(), testutil.Token(t, key, 3, "erin", past))
	require.NoError(t, err)
	assert.Equal(t, "erin", claims.Username)
}

func Test_WithTimeFunc(t *testing.T) {
	key := testutil.NewKeyPair(t)
	exp := time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC)
	token := testutil.Token(t, key, 42, "alice", exp)
	policy := validator.Enabled{Algorithm: jwa.ES256, EnforceExpiry: true, Leeway: validator.DefaultLeeway, Key: &key.PublicKey}

	v, err := New(policy, WithTimeFunc(func() time.Time { return exp.Add(30 * time.Second) }))
	require.NoError(t, err)
	_, err = v.ValidateToken(context.Background(), token)
	assert.NoError(t, err, "30s past exp is within the default leeway")

	v, err = New(policy, WithTimeFunc(func() time.Time { return exp.Add(2 * time.Minute) }))
	require.NoError(t, err)
	_, err = v.ValidateToken(context.Background(), token)
	assert.Error(t, err)
}

func Test_ValidateWithoutExpiryStillRequiresExp(t *testing.T) {
	key := testutil.NewKeyPair(t)

	v, err := New(validator.Enabled{Algorithm: jwa.ES256, Key: &key.PublicKey})
	require.NoError(t, err)

	_, err = v.ValidateToken(context.Background(), testutil.SignPayload(t, key, `{"userid":3,"username":"erin"}`))
	assert.ErrorContains(t, err, "failed to deserialize token claims")
}

func Test_NewTokenValidator(t *testing.T) {
	key := testutil.NewKeyPair(t)

	tv, err := NewTokenValidator(validator.Enabled{Algorithm: jwa.ES256, EnforceExpiry: true, Key: &key.PublicKey})
	require.NoError(t, err)

	claims, err := tv.ValidateToken(context.Background(), testutil.Token(t, key, 5, "frank", time.Now().Add(time.Hour)))
	require.NoError(t, err)
	assert.Equal(t, uint64(5), claims.UserID)
}
