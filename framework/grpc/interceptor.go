package authgrpc

import (
	"context"
	"errors"

	"google.golang.org/grpc"

	"github.com/routerd/authgate"
	"github.com/routerd/authgate/core"
)

// ErrGateNil is returned by New when no gate is given.
var ErrGateNil = errors.New("gate cannot be nil")

// Interceptor runs the authgate Middleware for gRPC servers.
type Interceptor struct {
	gate           *authgate.Middleware
	tokenExtractor TokenExtractor
	errorHandler   ErrorHandler
}

// New creates a gRPC interceptor backed by gate.
func New(gate *authgate.Middleware, opts ...Option) (*Interceptor, error) {
	if gate == nil {
		return nil, ErrGateNil
	}

	interceptor := &Interceptor{
		gate:           gate,
		tokenExtractor: MetadataTokenExtractor,
		errorHandler:   DefaultErrorHandler,
	}

	for _, opt := range opts {
		if err := opt(interceptor); err != nil {
			return nil, err
		}
	}

	return interceptor, nil
}

// UnaryServerInterceptor returns a grpc.UnaryServerInterceptor that runs the
// gate and makes the AuthExtension available in the handler context.
func (i *Interceptor) UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		_ *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		ctx, err := i.decide(ctx)
		if err != nil {
			return nil, err
		}
		return handler(ctx, req)
	}
}

// StreamServerInterceptor returns a grpc.StreamServerInterceptor that runs
// the gate and makes the AuthExtension available in the stream context.
func (i *Interceptor) StreamServerInterceptor() grpc.StreamServerInterceptor {
	return func(
		srv any,
		ss grpc.ServerStream,
		_ *grpc.StreamServerInfo,
		handler grpc.StreamHandler,
	) error {
		ctx, err := i.decide(ss.Context())
		if err != nil {
			return err
		}
		return handler(srv, &wrappedServerStream{ServerStream: ss, ctx: ctx})
	}
}

func (i *Interceptor) decide(ctx context.Context) (context.Context, error) {
	decision, err := i.gate.Decide(ctx, func() (string, bool) {
		return i.tokenExtractor(ctx)
	})
	if err != nil {
		return ctx, i.errorHandler(err)
	}
	return decision.Attach(ctx), nil
}

// RequireLogged returns the claims of a logged call or a codes.Unauthenticated
// status error.
func RequireLogged(ctx context.Context) (*core.JwtClaims, error) {
	claims, err := authgate.RequireLogged(ctx)
	if err != nil {
		return nil, DefaultErrorHandler(err)
	}
	return claims, nil
}

// wrappedServerStream wraps grpc.ServerStream with a custom context.
type wrappedServerStream struct {
	grpc.ServerStream
	ctx context.Context
}

// Context returns the wrapped context carrying the AuthExtension.
func (w *wrappedServerStream) Context() context.Context {
	return w.ctx
}
