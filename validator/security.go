package validator

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrTokenFormat is returned when a token is not shaped like a compact
	// JWS (header.payload.signature).
	ErrTokenFormat = errors.New("token is not a compact JWS")
	// ErrTokenTooLarge is returned for tokens larger than MaxTokenSize.
	ErrTokenTooLarge = errors.New("token exceeds maximum size")
)

// MaxTokenSize bounds the accesstoken before any decoding happens. An
// identity token with three claims is a few hundred bytes.
const MaxTokenSize = 16 * 1024

// CheckTokenFormat rejects tokens that cannot be an ES256 compact JWS before
// they reach the parser: empty, oversized, or with a segment count other
// than three.
func CheckTokenFormat(token string) error {
	if token == "" {
		return fmt.Errorf("%w: token is empty", ErrTokenFormat)
	}
	if len(token) > MaxTokenSize {
		return fmt.Errorf("%w (%d bytes)", ErrTokenTooLarge, MaxTokenSize)
	}
	if dots := strings.Count(token, "."); dots != 2 {
		return fmt.Errorf("%w: expected 3 segments but got %d", ErrTokenFormat, dots+1)
	}
	return nil
}
