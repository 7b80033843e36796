package authgin

import (
	"crypto/ecdsa"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/routerd/authgate"
	"github.com/routerd/authgate/core"
	"github.com/routerd/authgate/internal/testutil"
	"github.com/routerd/authgate/validator"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newGate(t *testing.T, policy validator.Policy) *authgate.Middleware {
	t.Helper()
	gate, err := authgate.New(authgate.WithPolicy(policy))
	require.NoError(t, err)
	return gate
}

func enabled(key *ecdsa.PrivateKey) validator.Enabled {
	return validator.Enabled{Algorithm: jwa.ES256, EnforceExpiry: true, Leeway: validator.DefaultLeeway, Key: &key.PublicKey}
}

func newRouter(gate *authgate.Middleware, opts ...Option) *gin.Engine {
	r := gin.New()
	r.Use(New(gate, opts...))
	r.GET("/whoami", func(c *gin.Context) {
		ext, err := GetExtension(c, "")
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"extension": false})
			return
		}
		c.JSON(http.StatusOK, gin.H{"extension": true, "logged": ext.IsLogged()})
	})
	r.GET("/me", func(c *gin.Context) {
		claims, err := RequireLogged(c)
		if err != nil {
			return
		}
		c.JSON(http.StatusOK, gin.H{"userid": claims.UserID, "username": claims.Username})
	})
	return r
}

func do(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set(authgate.HeaderName, token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestGinMiddleware(t *testing.T) {
	key := testutil.NewKeyPair(t)
	valid := testutil.Token(t, key, 42, "alice", time.Now().Add(time.Hour))
	expired := testutil.Token(t, key, 42, "alice", time.Now().Add(-time.Hour))

	testCases := []struct {
		name       string
		policy     validator.Policy
		path       string
		token      string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "disabled gate attaches nothing",
			policy:     validator.Disabled{},
			path:       "/whoami",
			token:      "garbage",
			wantStatus: http.StatusOK,
			wantBody:   `{"extension":false}`,
		},
		{
			name:       "anonymous request",
			policy:     enabled(key),
			path:       "/whoami",
			wantStatus: http.StatusOK,
			wantBody:   `{"extension":true,"logged":false}`,
		},
		{
			name:       "logged request",
			policy:     enabled(key),
			path:       "/me",
			token:      valid,
			wantStatus: http.StatusOK,
			wantBody:   `{"userid":42,"username":"alice"}`,
		},
		{
			name:       "anonymous request to a protected route",
			policy:     enabled(key),
			path:       "/me",
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"message":"Unauthorized."}`,
		},
		{
			name:       "expired token",
			policy:     enabled(key),
			path:       "/whoami",
			token:      expired,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"message":"Bad request."}`,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			rec := do(newRouter(newGate(t, testCase.policy)), testCase.path, testCase.token)

			assert.Equal(t, testCase.wantStatus, rec.Code)
			assert.JSONEq(t, testCase.wantBody, rec.Body.String())
		})
	}
}

func TestGinMiddleware_Options(t *testing.T) {
	key := testutil.NewKeyPair(t)
	gate := newGate(t, enabled(key))

	var handled error
	r := gin.New()
	r.Use(New(gate,
		WithContextKey("identity"),
		WithTokenExtractor(func(r *http.Request) (string, bool) {
			token := r.URL.Query().Get("token")
			return token, token != ""
		}),
		WithErrorHandler(func(c *gin.Context, err error) {
			handled = err
			c.String(http.StatusTeapot, "nope")
		}),
	))
	r.GET("/", func(c *gin.Context) {
		ext, err := GetExtension(c, "identity")
		require.NoError(t, err)
		c.String(http.StatusOK, ext.Claims.Username)
	})

	token := testutil.Token(t, key, 1, "bob", time.Now().Add(time.Hour))
	rec := do(r, "/?token="+token, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "bob", rec.Body.String())

	rec = do(r, "/?token=garbage", "")
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.ErrorIs(t, handled, core.ErrBadRequest)
}

func TestGetExtension(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, err := GetExtension(c, "")
	assert.ErrorIs(t, err, ErrMissingExtension)

	c.Set(DefaultExtensionKey, "not an extension")
	_, err = GetExtension(c, "")
	assert.ErrorIs(t, err, ErrInvalidExtension)

	c.Set(DefaultExtensionKey, core.AuthExtension{})
	ext, err := GetExtension(c, DefaultExtensionKey)
	require.NoError(t, err)
	assert.False(t, ext.IsLogged())
}
