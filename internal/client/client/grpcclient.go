package client

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/rpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type GRPCClient struct {
	conn   *grpc.ClientConn
	client *rpc.AuthServiceClient
}

var _ Client = (*GRPCClient)(nil)

// NewGRPCClient connects lazily to endpoint. Extra options are appended
// after the insecure credentials and the JSON codec.
func NewGRPCClient(endpoint string, opts ...grpc.DialOption) (*GRPCClient, error) {
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		rpc.DialCodec(),
	}, opts...)

	conn, err := grpc.NewClient(endpoint, opts...)
	if err != nil {
		return nil, err
	}
	return &GRPCClient{conn: conn, client: rpc.NewAuthServiceClient(conn)}, nil
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) Register(ctx context.Context, username, password string) error {
	_, err := s.client.Register(ctx, &rpc.RegisterRequest{Username: username, Password: password})
	return mapError(err, common.ErrAuthenticationFailed)
}

func (s *GRPCClient) Login(ctx context.Context, username, password string) (string, error) {
	resp, err := s.client.Login(ctx, &rpc.LoginRequest{Username: username, Password: password})
	if err != nil {
		return "", mapError(err, common.ErrAuthenticationFailed)
	}
	return resp.Token, nil
}

func (s *GRPCClient) Whoami(ctx context.Context, token string) (*Identity, error) {
	resp, err := s.client.Whoami(withAccessToken(ctx, token), &rpc.WhoamiRequest{})
	if err != nil {
		return nil, mapError(err, common.ErrInvalidToken)
	}
	return &Identity{Username: resp.Username, IssuedAt: resp.IssuedAt}, nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func mapError(err error, unauthenticated error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.InvalidArgument:
		return serverError(st.Message(), common.ErrInvalidInput)
	case codes.AlreadyExists:
		return serverError(st.Message(), common.ErrDuplicateUsername)
	case codes.Unauthenticated, codes.PermissionDenied:
		return serverError(st.Message(), unauthenticated)
	case codes.Unavailable, codes.DeadlineExceeded:
		return fmt.Errorf("%w: %s", ErrUnavailable, st.Message())
	case codes.Canceled:
		return context.Canceled
	default:
		return serverError(st.Message(), common.ErrorInternal)
	}
}
