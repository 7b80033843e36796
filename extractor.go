package authgate

import "net/http"

// HeaderName is the only header the gate reads a token from.
const HeaderName = "accesstoken"

// TokenExtractor is a function that takes a request as input and returns the
// raw token and whether one was presented at all. A present but empty value
// is still a token and will be rejected by validation.
type TokenExtractor func(r *http.Request) (token string, present bool)

// HeaderTokenExtractor is a TokenExtractor that reads the first accesstoken
// header of the request.
func HeaderTokenExtractor(r *http.Request) (string, bool) {
	values := r.Header.Values(HeaderName)
	if len(values) == 0 {
		return "", false
	}
	return values[0], true
}
