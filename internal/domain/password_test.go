package domain

import (
	"strings"
	"testing"
)

func TestValidatePassword(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		password  string
		wantError bool
	}{
		{name: "valid", password: "SecurePass123", wantError: false},
		{name: "too short", password: "Ab1", wantError: true},
		{name: "too long", password: strings.Repeat("Aa1", 50), wantError: true},
		{name: "no upper", password: "securepass123", wantError: true},
		{name: "no lower", password: "SECUREPASS123", wantError: true},
		{name: "no digit", password: "SecurePassword", wantError: true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := ValidatePassword(tc.password)
			if tc.wantError && err == nil {
				t.Fatalf("expected error, got nil")
			}
			if !tc.wantError && err != nil {
				t.Fatalf("expected nil error, got %v", err)
			}
			if err != nil && KindOf(err) != KindInvalidInput {
				t.Fatalf("expected invalid input kind, got %v", KindOf(err))
			}
		})
	}
}
