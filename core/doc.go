/*
Package core provides the framework-agnostic part of the authentication gate:
the identity claims, the per-request AuthExtension, the error taxonomy and the
Core engine that turns an (optional) accesstoken into a Decision.

Transport adapters (net/http, Gin, Echo, Iris, gRPC) own token extraction and
policy lookup; everything after that happens here:

	┌─────────────────────────────────────────────┐
	│         Transport Adapters                  │
	│  (net/http, Gin, Echo, Iris, gRPC)          │
	└────────────────┬────────────────────────────┘
	                 │ token, present
	                 ▼
	┌─────────────────────────────────────────────┐
	│          Core (THIS PACKAGE)                │
	│  • header text check                        │
	│  • anonymous vs authenticated decision      │
	│  • error collapsing to ErrBadRequest        │
	└────────────────┬────────────────────────────┘
	                 │
	                 ▼
	┌─────────────────────────────────────────────┐
	│          TokenValidator                     │
	│  (ES256 signature + expiry, see validator)  │
	└─────────────────────────────────────────────┘

# Usage

	c, err := core.New(core.WithValidator(v))
	if err != nil {
	    log.Fatal(err)
	}

	decision, err := c.CheckToken(ctx, token, present)
	if err != nil {
	    // errors.Is(err, core.ErrBadRequest) is always true here
	    return err
	}
	ctx = decision.Attach(ctx)

Downstream handlers read the identity back with FromContext:

	ext, _ := core.FromContext(ctx)
	claims, err := ext.RequireLogged()
	if err != nil {
	    // core.ErrUnauthorized
	}

# Error Handling

Every failure of CheckToken satisfies errors.Is(err, ErrBadRequest). The
underlying cause (expired token, bad signature, malformed structure) is kept
in the chain for logging but is never used to pick a different status.
*/
package core
