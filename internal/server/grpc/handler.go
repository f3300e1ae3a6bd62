package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/rpc"
	"github.com/dmitrijs2005/gophauth/internal/validation"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	msgUserExists         = "User already exists"
	msgInvalidCredentials = "Invalid credentials"
	msgInvalidToken       = "Invalid token"
	msgMissingToken       = "Missing token"
	msgInternal           = "Internal error"
)

func (s *GRPCServer) Register(ctx context.Context, req *rpc.RegisterRequest) (*rpc.RegisterResponse, error) {
	if err := s.auth.Register(ctx, req.Username, req.Password); err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "Registered", "username", req.Username)
	return &rpc.RegisterResponse{}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *rpc.LoginRequest) (*rpc.LoginResponse, error) {
	token, err := s.auth.Login(ctx, req.Username, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &rpc.LoginResponse{Token: token}, nil
}

func (s *GRPCServer) Whoami(ctx context.Context, _ *rpc.WhoamiRequest) (*rpc.WhoamiResponse, error) {
	id, ok := identityFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, msgMissingToken)
	}

	return &rpc.WhoamiResponse{Username: id.Username, IssuedAt: id.IssuedAt}, nil
}

// toStatus maps service errors to gRPC codes. Internal failures are logged
// and hidden behind a generic message.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	if reason, ok := validation.Reason(err); ok {
		return status.Error(codes.InvalidArgument, reason)
	}

	switch {
	case errors.Is(err, common.ErrDuplicateUsername):
		return status.Error(codes.AlreadyExists, msgUserExists)
	case errors.Is(err, common.ErrAuthenticationFailed):
		return status.Error(codes.Unauthenticated, msgInvalidCredentials)
	case errors.Is(err, common.ErrInvalidToken):
		return status.Error(codes.Unauthenticated, msgInvalidToken)
	default:
		s.logger.Error(ctx, "request failed", "error", err)
		return status.Error(codes.Internal, msgInternal)
	}
}
