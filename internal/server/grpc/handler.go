package grpc

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/validation"
)

func (s *GRPCServer) Register(ctx context.Context, req *validation.RegisterRequest) (*AuthReply, error) {

	s.logger.Info(ctx, "Registration request")

	user, token, err := s.users.Register(ctx, *req)
	if err != nil {
		s.logger.Debug(ctx, "registration rejected", "error", err)
		return nil, s.errors.Status(err)
	}

	s.logger.Info(ctx, "Registered", "username", req.Username)
	return &AuthReply{User: user, Token: token}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *validation.LoginRequest) (*AuthReply, error) {

	user, token, err := s.users.Login(ctx, *req)
	if err != nil {
		return nil, s.errors.Status(err)
	}

	return &AuthReply{User: user, Token: token}, nil
}

func (s *GRPCServer) Me(ctx context.Context, _ *MeRequest) (*models.User, error) {

	claims, ok := auth.ClaimsFromContext(ctx)
	if !ok {
		return nil, s.errors.Status(common.ErrorUnauthorized)
	}

	user, err := s.users.Me(ctx, claims.Subject)
	if err != nil {
		return nil, s.errors.Status(err)
	}

	return user, nil
}
