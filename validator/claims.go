package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/routerd/authgate/core"
)

// ErrTokenExpired is returned when exp lies further in the past than the
// policy leeway allows.
var ErrTokenExpired = errors.New("token is expired")

type rawClaims struct {
	UserID   json.RawMessage `json:"userid"`
	Username json.RawMessage `json:"username"`
	Expiry   json.RawMessage `json:"exp"`
}

// DecodeClaims decodes a verified JWS payload into identity claims. userid
// and exp must be non-negative JSON integers and username a JSON string.
// All three are required; other claims are ignored.
func DecodeClaims(payload []byte) (*core.JwtClaims, error) {
	var raw rawClaims
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("claims are not a JSON object: %w", err)
	}

	userID, err := unsignedClaim(UserIDClaim, raw.UserID)
	if err != nil {
		return nil, err
	}

	username, err := stringClaim(UsernameClaim, raw.Username)
	if err != nil {
		return nil, err
	}

	expiry, err := unsignedClaim("exp", raw.Expiry)
	if err != nil {
		return nil, err
	}

	return &core.JwtClaims{
		UserID:   userID,
		Username: username,
		Expiry:   expiry,
	}, nil
}

// CheckExpiry reports ErrTokenExpired when expiry is older than now minus
// leeway. nbf and iat are never consulted.
func CheckExpiry(expiry uint64, now time.Time, leeway time.Duration) error {
	if expiry > uint64(1<<63-1) {
		return nil
	}
	if int64(expiry) < now.Unix()-int64(leeway/time.Second) {
		return ErrTokenExpired
	}
	return nil
}

func unsignedClaim(name string, raw json.RawMessage) (uint64, error) {
	if len(raw) == 0 {
		return 0, fmt.Errorf("claim %q is required", name)
	}
	for _, c := range raw {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("claim %q must be an unsigned integer", name)
		}
	}
	value, err := strconv.ParseUint(string(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("claim %q must be an unsigned integer: %w", name, err)
	}
	return value, nil
}

func stringClaim(name string, raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", fmt.Errorf("claim %q is required", name)
	}
	if raw[0] != '"' {
		return "", fmt.Errorf("claim %q must be a string", name)
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", fmt.Errorf("claim %q must be a string: %w", name, err)
	}
	return value, nil
}
