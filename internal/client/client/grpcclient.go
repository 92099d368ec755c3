package client

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/validation"

	gs "github.com/dmitrijs2005/gophauth/internal/server/grpc"
)

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      *gs.AuthServiceClient
	token       string
}

func withToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	md.Set("authorization", "Bearer "+token)
	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) tokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if s.token != "" {
		ctx = withToken(ctx, s.token)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewGRPCClient prepares a lazily connecting client for endpointURL.
// Extra dial options are appended after the defaults.
func NewGRPCClient(endpointURL string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.tokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, dialOpts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = gs.NewAuthServiceClient(conn)
	return c, nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) Token() string { return s.token }

func (s *GRPCClient) SetToken(token string) { s.token = token }

func (s *GRPCClient) Register(ctx context.Context, username, email string, password []byte) (*models.User, error) {
	res, err := s.client.Register(ctx, &validation.RegisterRequest{Username: username, Email: email, Password: string(password)})
	if err != nil {
		return nil, s.mapError(err)
	}
	s.token = res.Token
	return res.User, nil
}

func (s *GRPCClient) Login(ctx context.Context, username string, password []byte) (*models.User, error) {
	res, err := s.client.Login(ctx, &validation.LoginRequest{Username: username, Password: string(password)})
	if err != nil {
		return nil, s.mapError(err)
	}
	s.token = res.Token
	return res.User, nil
}

func (s *GRPCClient) Me(ctx context.Context) (*models.User, error) {
	u, err := s.client.Me(ctx, &gs.MeRequest{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return u, nil
}

func (s *GRPCClient) mapError(err error) error {
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated:
		return fmt.Errorf("%w: %s", ErrUnauthorized, st.Message())
	case codes.PermissionDenied:
		return fmt.Errorf("%w: %s", ErrForbidden, st.Message())
	case codes.AlreadyExists:
		return fmt.Errorf("%w: %s", ErrConflict, st.Message())
	case codes.InvalidArgument, codes.FailedPrecondition:
		return fmt.Errorf("%w: %s", ErrRejected, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return fmt.Errorf("%w: %s", ErrUnavailable, st.Message())
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
