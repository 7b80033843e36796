package authgate

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/routerd/authgate/core"
	"github.com/routerd/authgate/validator"
)

const spanIntercept = "authgate.intercept"

// Middleware is the auth interceptor. It reads the policy on every request
// and either passes the request through, attaches an AuthExtension, or
// rejects it with a bad request.
type Middleware struct {
	policy         func() validator.Policy
	backend        Backend
	errorHandler   ErrorHandler
	tokenExtractor TokenExtractor
	logger         Logger
	metrics        Metrics
	tracer         Tracer

	// The policy is committed once, so the core built for the first
	// Enabled policy is reused for the process lifetime.
	mu       sync.Mutex
	compiled atomic.Pointer[core.Core]
}

// New constructs a new Middleware instance with the supplied options.
//
// Example:
//
//	if err := authgate.Setup(); err != nil {
//	    log.Fatal(err)
//	}
//	gate, err := authgate.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	http.ListenAndServe(":8080", gate.Handler(mux))
func New(opts ...Option) (*Middleware, error) {
	m := &Middleware{
		policy:         defaultCell.Policy,
		backend:        JWXBackend,
		errorHandler:   DefaultErrorHandler,
		tokenExtractor: HeaderTokenExtractor,
		metrics:        &NoopMetrics{},
		tracer:         &NoopTracer{},
	}

	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	if m.logger == nil {
		m.logger = defaultLogger()
	}

	// A pinned Enabled policy is compiled eagerly so that a broken backend
	// fails construction instead of the first request.
	if enabled, ok := m.policy().(validator.Enabled); ok {
		if _, err := m.coreFor(enabled); err != nil {
			return nil, fmt.Errorf("invalid middleware configuration: %w", err)
		}
	}

	return m, nil
}

// Handler wraps next with the gate.
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		decision, err := m.Decide(r.Context(), func() (string, bool) {
			return m.tokenExtractor(r)
		})
		if err != nil {
			m.errorHandler(w, r, err)
			return
		}

		if decision.Outcome != core.Passthrough {
			r = r.Clone(decision.Attach(r.Context()))
		}
		next.ServeHTTP(w, r)
	})
}

// Decide runs the gate for one request. extract is only called when the
// policy is Enabled, so a disabled gate never looks at the token.
//
// Transport adapters call Decide directly and attach the result with
// Decision.Attach.
func (m *Middleware) Decide(ctx context.Context, extract func() (string, bool)) (core.Decision, error) {
	switch policy := m.policy().(type) {
	case validator.Disabled:
		m.record(core.Passthrough)
		return core.Decision{Outcome: core.Passthrough}, nil
	case validator.Enabled:
		return m.decideEnabled(ctx, policy, extract)
	default:
		return core.Decision{}, fmt.Errorf("unknown policy type %T", policy)
	}
}

func (m *Middleware) decideEnabled(ctx context.Context, policy validator.Enabled, extract func() (string, bool)) (core.Decision, error) {
	ctx, span := m.tracer.StartSpan(ctx, spanIntercept)
	defer span.Finish()

	c, err := m.coreFor(policy)
	if err != nil {
		m.logger.Errorf("could not build the token validator: %v", err)
		span.SetTag("error", true)
		return core.Decision{}, err
	}

	token, present := extract()

	start := time.Now()
	decision, err := c.CheckToken(ctx, token, present)
	if present {
		m.metrics.ObserveHistogram(MetricVerifySeconds, time.Since(start).Seconds(), nil)
	}
	if err != nil {
		m.metrics.IncCounter(MetricRequests, map[string]string{"outcome": "rejected"})
		span.SetTag("outcome", "rejected")
		return core.Decision{}, err
	}

	m.record(decision.Outcome)
	span.SetTag("outcome", decision.Outcome.String())

	return decision, nil
}

func (m *Middleware) record(outcome core.Outcome) {
	m.metrics.IncCounter(MetricRequests, map[string]string{"outcome": outcome.String()})
}

func (m *Middleware) coreFor(policy validator.Enabled) (*core.Core, error) {
	if c := m.compiled.Load(); c != nil {
		return c, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if c := m.compiled.Load(); c != nil {
		return c, nil
	}

	tokens, err := m.backend(policy)
	if err != nil {
		return nil, err
	}

	c, err := core.New(
		core.WithValidator(tokens),
		core.WithLogger(m.logger),
	)
	if err != nil {
		return nil, err
	}

	m.compiled.Store(c)
	return c, nil
}
