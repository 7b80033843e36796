package authgrpc

import (
	"context"

	"google.golang.org/grpc/metadata"

	"github.com/routerd/authgate"
)

// TokenExtractor extracts the accesstoken from gRPC metadata. present is false
// when no token was sent at all.
type TokenExtractor func(ctx context.Context) (token string, present bool)

// MetadataTokenExtractor reads the first "accesstoken" metadata entry.
//
// gRPC normalizes incoming metadata keys to lowercase, so this extractor only
// checks the lowercase key.
func MetadataTokenExtractor(ctx context.Context) (string, bool) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", false
	}

	values := md.Get(authgate.HeaderName)
	if len(values) == 0 {
		return "", false
	}
	return values[0], true
}
