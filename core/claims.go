package core

// JwtClaims are the identity claims carried by an accesstoken.
type JwtClaims struct {
	UserID   uint64 `json:"userid"`
	Username string `json:"username"`

	// Expiry is the expiration time as a UTC unix timestamp.
	Expiry uint64 `json:"exp"`
}

// AuthExtension is attached to the context of every request that passes
// through an enabled gate. The zero value is an anonymous request.
type AuthExtension struct {
	Claims *JwtClaims
}

// IsLogged reports whether the request carried a valid token.
func (a AuthExtension) IsLogged() bool {
	return a.Claims != nil
}

// RequireLogged returns the claims or ErrUnauthorized when the request is
// anonymous.
func (a AuthExtension) RequireLogged() (*JwtClaims, error) {
	if a.Claims == nil {
		return nil, ErrUnauthorized
	}
	return a.Claims, nil
}

// UserID returns the user id of a logged request.
func (a AuthExtension) UserID() (uint64, bool) {
	if a.Claims == nil {
		return 0, false
	}
	return a.Claims.UserID, true
}

// Username returns the username of a logged request.
func (a AuthExtension) Username() (string, bool) {
	if a.Claims == nil {
		return "", false
	}
	return a.Claims.Username, true
}
