package authgrpc

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/routerd/authgate/core"
)

// ErrorHandler converts an error of the gate into a gRPC status error.
type ErrorHandler func(error) error

// DefaultErrorHandler maps core.ErrBadRequest to codes.InvalidArgument,
// core.ErrUnauthorized to codes.Unauthenticated and everything else to
// codes.Internal. The cause is not leaked to the client.
func DefaultErrorHandler(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, core.ErrBadRequest):
		return status.Error(codes.InvalidArgument, "Bad request.")
	case errors.Is(err, core.ErrUnauthorized):
		return status.Error(codes.Unauthenticated, "Unauthorized.")
	default:
		return status.Error(codes.Internal, "Something went wrong while checking the accesstoken.")
	}
}
