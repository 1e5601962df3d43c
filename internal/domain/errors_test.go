package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOfUnwrapsThroughWrapping(t *testing.T) {
	t.Parallel()

	base := ErrConcurrentUpdate("")
	wrapped := fmt.Errorf("save identity: %w", base)
	if KindOf(wrapped) != KindConcurrentUpdate {
		t.Fatalf("expected concurrent update kind through fmt wrapping, got %v", KindOf(wrapped))
	}
	if KindOf(errors.New("plain")) != KindUnexpected {
		t.Fatalf("expected unexpected kind for untagged errors")
	}
	if KindOf(nil) != KindUnexpected {
		t.Fatalf("expected unexpected kind for nil")
	}
}

func TestErrorsIsMatchesByKind(t *testing.T) {
	t.Parallel()

	err := WrapError(KindInvalidToken, "token expired", errors.New("exp"))
	if !errors.Is(err, ErrInvalidToken("")) {
		t.Fatalf("expected kind match across different messages")
	}
	if errors.Is(err, ErrInvalidCredentials()) {
		t.Fatalf("kinds must not cross-match")
	}
}
