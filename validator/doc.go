/*
Package validator loads the validation policy of the gate and verifies
accesstokens using the lestrrat-go/jwx v2 library.

# Policy

The policy is a sum type with exactly two variants:

  - Disabled: no key file was found, the gate lets every request through
  - Enabled: ES256 signatures, exp enforced (60s leeway), EC public key

LoadPolicy builds it from a PEM file:

	policy, err := validator.LoadPolicy(validator.DefaultKeyPath)
	if err != nil {
	    log.Fatalf("failed to load the JWT key: %v", err)
	}

	switch p := policy.(type) {
	case validator.Disabled:
	    // authentication off
	case validator.Enabled:
	    v, err := validator.New(p)
	    // ...
	}

A missing file yields Disabled and no error. A present but unparsable file is
an error wrapping ErrKeyInvalid.

# Process-wide state

Cell stores a policy that can be committed once. The first Set wins and later
calls are ignored, so reads need no locking:

	var cell validator.Cell
	cell.Set(policy)
	p := cell.Policy() // Disabled{} if nothing was committed

# Token format

Tokens are compact JWS signed with ES256 and carry:

	{
	  "userid":   42,          // unsigned integer, required
	  "username": "alice",     // string, required
	  "exp":      1767225600   // unix seconds, required
	}

Any failure (wrong key, wrong algorithm, expired, missing or mistyped claim,
malformed structure) is returned as an error; the middleware collapses all of
them into a bad request. Only exp is checked against the clock; nbf and iat
are ignored. A null, quoted or fractional number is a mistyped claim.
*/
package validator
