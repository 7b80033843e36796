package core

import "context"

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey int

const (
	extensionKey contextKey = iota
)

// WithExtension stores the AuthExtension in the context.
// This is a helper for adapters to attach the result of CheckToken.
func WithExtension(ctx context.Context, ext AuthExtension) context.Context {
	return context.WithValue(ctx, extensionKey, ext)
}

// FromContext retrieves the AuthExtension from the context.
//
// The boolean is false when no gate attached an extension, which happens when
// authentication is disabled for the process. The returned extension is then
// the anonymous zero value.
//
// Example usage:
//
//	ext, _ := core.FromContext(r.Context())
//	if id, ok := ext.UserID(); ok {
//	    // ...
//	}
func FromContext(ctx context.Context) (AuthExtension, bool) {
	ext, ok := ctx.Value(extensionKey).(AuthExtension)
	return ext, ok
}

// MustFromContext retrieves the AuthExtension from the context or panics.
// Use only behind a gate that is known to be enabled.
func MustFromContext(ctx context.Context) AuthExtension {
	ext, ok := FromContext(ctx)
	if !ok {
		panic(ErrExtensionNotFound)
	}
	return ext
}

// HasExtension checks if an extension was attached to the context.
func HasExtension(ctx context.Context) bool {
	_, ok := FromContext(ctx)
	return ok
}
