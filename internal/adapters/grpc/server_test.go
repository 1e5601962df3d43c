package grpc

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/meridianbank/auth-service/internal/domain"
	"github.com/meridianbank/auth-service/internal/ports"
)

type stubAuthenticator struct {
	validToken string
	claims     ports.AccessClaims
}

func (s *stubAuthenticator) Authenticate(_ context.Context, accessToken string) (ports.AccessClaims, error) {
	if accessToken != s.validToken {
		return ports.AccessClaims{}, domain.ErrInvalidToken("")
	}
	return s.claims, nil
}

func TestValidateToken(t *testing.T) {
	t.Parallel()

	identityID := uuid.New()
	expiresAt := time.Now().Add(15 * time.Minute).UTC()
	server := NewAuthInternalServer(&stubAuthenticator{
		validToken: "good-token",
		claims: ports.AccessClaims{
			IdentityID: identityID,
			Email:      "user@example.com",
			Roles:      []string{"CUSTOMER"},
			ExpiresAt:  expiresAt,
		},
	})

	req, err := structpb.NewStruct(map[string]any{"token": "good-token"})
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	resp, err := server.ValidateToken(context.Background(), req)
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}

	fields := resp.GetFields()
	if !fields["valid"].GetBoolValue() {
		t.Fatalf("expected valid=true")
	}
	if fields["user_id"].GetStringValue() != identityID.String() {
		t.Fatalf("unexpected user_id %q", fields["user_id"].GetStringValue())
	}
	if fields["email"].GetStringValue() != "user@example.com" {
		t.Fatalf("unexpected email %q", fields["email"].GetStringValue())
	}
	if int64(fields["expires_at"].GetNumberValue()) != expiresAt.Unix() {
		t.Fatalf("unexpected expires_at %v", fields["expires_at"].GetNumberValue())
	}
}

func TestValidateTokenRejectsMissingToken(t *testing.T) {
	t.Parallel()

	server := NewAuthInternalServer(&stubAuthenticator{validToken: "good-token"})

	for _, req := range []map[string]any{{}, {"token": ""}} {
		pb, err := structpb.NewStruct(req)
		if err != nil {
			t.Fatalf("build request: %v", err)
		}
		_, err = server.ValidateToken(context.Background(), pb)
		if status.Code(err) != codes.InvalidArgument {
			t.Fatalf("expected invalid argument, got %v", err)
		}
	}
}

func TestValidateTokenRejectsBadToken(t *testing.T) {
	t.Parallel()

	server := NewAuthInternalServer(&stubAuthenticator{validToken: "good-token"})
	req, _ := structpb.NewStruct(map[string]any{"token": "revoked-or-expired"})

	_, err := server.ValidateToken(context.Background(), req)
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
}
