package authgate

import (
	"errors"
	"net/http"

	"github.com/routerd/authgate/core"
)

// ErrorHandler is a handler which is called when the gate rejects a request.
// The err always satisfies errors.Is(err, core.ErrBadRequest) for token
// problems. The default handler will return a status code of 400 for
// core.ErrBadRequest, 401 for core.ErrUnauthorized, and 500 for all other
// errors. If you implement your own ErrorHandler you MUST not forward the
// request to the next handler.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// DefaultErrorHandler is the default error handler implementation for the
// Middleware. If an error handler is not provided via the WithErrorHandler
// option this will be used.
func DefaultErrorHandler(w http.ResponseWriter, _ *http.Request, err error) {
	w.Header().Set("Content-Type", "application/json")

	status := StatusCode(err)
	w.WriteHeader(status)

	switch status {
	case http.StatusBadRequest:
		_, _ = w.Write([]byte(`{"message":"Bad request."}`))
	case http.StatusUnauthorized:
		_, _ = w.Write([]byte(`{"message":"Unauthorized."}`))
	default:
		_, _ = w.Write([]byte(`{"message":"Something went wrong while checking the accesstoken."}`))
	}
}

// StatusCode maps an error of the gate to its HTTP status code. Handlers
// can use it with RequireLogged:
//
//	claims, err := authgate.RequireLogged(r.Context())
//	if err != nil {
//	    http.Error(w, err.Error(), authgate.StatusCode(err))
//	    return
//	}
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, core.ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
