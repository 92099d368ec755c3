// Package grpc exposes the auth service over gRPC. Messages are JSON-coded
// Go structs; the gate interceptor protects methods listed in Policy.
package grpc

import (
	"context"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/gate"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/respond"
	"github.com/dmitrijs2005/gophauth/internal/server/validation"
)

// Policy lists the protected methods. Me needs only a valid token.
var Policy = gate.Policy{
	MethodMe: nil,
}

// UserService is the subset of the user service the handlers call.
type UserService interface {
	Register(ctx context.Context, req validation.RegisterRequest) (*models.User, string, error)
	Login(ctx context.Context, req validation.LoginRequest) (*models.User, string, error)
	Me(ctx context.Context, userID string) (*models.User, error)
}

type GRPCServer struct {
	address string
	users   UserService
	gate    *gate.Gate
	logger  logging.Logger
	errors  respond.Writer
}

func NewGRPCServer(a string, l logging.Logger, us UserService, g *gate.Gate, production bool) *GRPCServer {
	return &GRPCServer{
		address: a,
		logger:  l.With("module", "grpc_server"),
		users:   us,
		gate:    g,
		errors:  respond.Writer{Production: production},
	}
}

// NewServer builds the grpc.Server with interceptors, the auth service and
// the standard health service registered.
func (s *GRPCServer) NewServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.gate.UnaryInterceptor(Policy)))

	srv.RegisterService(&AuthServiceDesc, s)

	hs := health.NewServer()
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)

	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := s.NewServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", s.address)

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
