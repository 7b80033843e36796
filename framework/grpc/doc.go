/*
Package authgrpc adapts the authgate middleware to gRPC servers.

The token is read from the "accesstoken" metadata entry. A call the HTTP gate
would answer with 400 fails with codes.InvalidArgument; RequireLogged fails
anonymous calls with codes.Unauthenticated.

	gate, err := authgate.New()
	if err != nil {
	    log.Fatal(err)
	}
	interceptor, err := authgrpc.New(gate)
	if err != nil {
	    log.Fatal(err)
	}

	server := grpc.NewServer(
	    grpc.UnaryInterceptor(interceptor.UnaryServerInterceptor()),
	    grpc.StreamInterceptor(interceptor.StreamServerInterceptor()),
	)

In handlers:

	func (s *server) GetProfile(ctx context.Context, req *pb.Request) (*pb.Profile, error) {
	    claims, err := authgrpc.RequireLogged(ctx)
	    if err != nil {
	        return nil, err
	    }
	    return &pb.Profile{Username: claims.Username}, nil
	}
*/
package authgrpc
