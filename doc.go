/*
Package authgate provides an optional JWT authentication gate for net/http
request pipelines.

The gate validates the token carried in the accesstoken header against an EC
public key (ES256, expiry enforced), attaches the decoded identity to the
request context, and leaves it to downstream handlers to decide what to do
with (or without) that identity.

# Quick Start

	func main() {
	    // Reads ./jwt_key.pem. A missing file disables authentication.
	    if err := authgate.Setup(); err != nil {
	        log.Fatalf("failed to set up JWT validation: %v", err)
	    }

	    gate, err := authgate.New()
	    if err != nil {
	        log.Fatalf("failed to create the gate: %v", err)
	    }

	    mux := http.NewServeMux()
	    mux.HandleFunc("/me", func(w http.ResponseWriter, r *http.Request) {
	        claims, err := authgate.RequireLogged(r.Context())
	        if err != nil {
	            w.WriteHeader(authgate.StatusCode(err)) // 401
	            return
	        }
	        fmt.Fprintf(w, "hello %s", claims.Username)
	    })

	    http.ListenAndServe(":8080", gate.Handler(mux))
	}

# Request Flow

For every request the Middleware:

 1. passes it through untouched when the policy is Disabled
 2. attaches an anonymous core.AuthExtension when no accesstoken header is sent
 3. answers 400 when the header value is not visible ASCII text
 4. answers 400 when the token fails signature or expiry checks
 5. otherwise attaches core.AuthExtension with the decoded claims

The gate never answers 401 itself. Handlers that need a logged in user call
RequireLogged, which returns core.ErrUnauthorized for anonymous requests.

Expired, forged and malformed tokens all produce the same 400; the cause is
only visible in debug logs.

# Policy

Setup commits an Enabled policy to a process-wide cell exactly once; a missing
key file leaves the cell unset, which reads as Disabled. Middleware built
with New reads that cell on every request, so it can be constructed before
Setup runs. Tests and multi-gate programs can bypass the global state:

	gate, err := authgate.New(authgate.WithPolicy(policy))
	gate, err := authgate.New(authgate.WithCell(&cell))

# Backends

Tokens are verified by lestrrat-go/jwx by default. WithBackend(JWTGoBackend)
switches to golang-jwt/jwt; both accept the same tokens.

# Observability

	gate, err := authgate.New(
	    authgate.WithLogger(authgate.NewZapLogger(zapLogger.Sugar())),
	    authgate.WithMetrics(authgate.NewPrometheusMetrics(prometheus.DefaultRegisterer)),
	    authgate.WithTracer(authgate.NewOpenTelemetryTracer(otel.Tracer("authgate"))),
	)

Loggers for logrus (default), zap and zerolog are provided. Per-request
decisions are only logged at debug level.

# Other frameworks

Adapters for Gin, Echo, Iris and gRPC live under framework/. They share the
Middleware and call Decide directly.
*/
package authgate
