package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/meridianbank/auth-service/internal/ports"
)

// AuthInternalService is the mesh-internal token validation surface other
// services call instead of sharing the signing secret.
type AuthInternalService interface {
	ValidateToken(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// TokenAuthenticator is the application-layer slice this adapter needs.
type TokenAuthenticator interface {
	Authenticate(ctx context.Context, accessToken string) (ports.AccessClaims, error)
}

type AuthInternalServer struct {
	service TokenAuthenticator
}

func NewAuthInternalServer(service TokenAuthenticator) *AuthInternalServer {
	return &AuthInternalServer{service: service}
}

func RegisterService(server grpc.ServiceRegistrar, svc AuthInternalService) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: "meridianbank.auth.v1.AuthInternalService",
		HandlerType: (*AuthInternalService)(nil),
		Methods: []grpc.MethodDesc{
			{
				MethodName: "ValidateToken",
				Handler:    validateTokenHandler(svc),
			},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "meridianbank/auth/v1/auth_internal.proto",
	}, svc)
}

func (s *AuthInternalServer) ValidateToken(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	tokenVal := req.GetFields()["token"]
	if tokenVal == nil || tokenVal.GetStringValue() == "" {
		return nil, status.Error(codes.InvalidArgument, "missing token")
	}

	claims, err := s.service.Authenticate(ctx, tokenVal.GetStringValue())
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, "invalid token")
	}

	roles := make([]any, 0, len(claims.Roles))
	for _, role := range claims.Roles {
		roles = append(roles, role)
	}

	resp, err := structpb.NewStruct(map[string]any{
		"valid":      true,
		"user_id":    claims.IdentityID.String(),
		"email":      claims.Email,
		"roles":      roles,
		"expires_at": claims.ExpiresAt.Unix(),
	})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "build response: %v", err)
	}
	return resp, nil
}

func validateTokenHandler(svc AuthInternalService) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		req := &structpb.Struct{}
		if err := dec(req); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return svc.ValidateToken(ctx, req)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: "/meridianbank.auth.v1.AuthInternalService/ValidateToken",
		}
		handler := func(ctx context.Context, req any) (any, error) {
			typed, ok := req.(*structpb.Struct)
			if !ok {
				return nil, status.Error(codes.InvalidArgument, "invalid request type")
			}
			return svc.ValidateToken(ctx, typed)
		}
		return interceptor(ctx, req, info, handler)
	}
}
