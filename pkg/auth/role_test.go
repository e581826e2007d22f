package auth

import (
	"testing"
	"time"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		input   string
		want    Role
		wantErr bool
	}{
		{"user", RoleUser, false},
		{"admin", RoleAdmin, false},
		{"superadmin", RoleSuperAdmin, false},
		{"root", "", true},
		{"", "", true},
		{"Admin", "", true},
	}

	for _, tt := range tests {
		got, err := ParseRole(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseRole(%q): expected error, got %q", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseRole(%q): unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseRole(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestRoleLevelOrdering(t *testing.T) {
	if !(RoleUser.Level() < RoleAdmin.Level() && RoleAdmin.Level() < RoleSuperAdmin.Level()) {
		t.Errorf("role levels not strictly increasing: user=%d admin=%d superadmin=%d",
			RoleUser.Level(), RoleAdmin.Level(), RoleSuperAdmin.Level())
	}

	if Role("unknown").Level() != 0 {
		t.Errorf("unknown role should have level 0, got %d", Role("unknown").Level())
	}
}

func TestRoleAtLeast(t *testing.T) {
	if !RoleSuperAdmin.AtLeast(RoleAdmin) {
		t.Error("superadmin should satisfy admin requirement")
	}
	if !RoleAdmin.AtLeast(RoleAdmin) {
		t.Error("admin should satisfy admin requirement")
	}
	if RoleUser.AtLeast(RoleAdmin) {
		t.Error("user should not satisfy admin requirement")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	const secret = "test-secret"

	p := Principal{UserID: "user-123", Role: RoleAdmin}

	tokenString, err := NewToken(p, secret, time.Hour)
	if err != nil {
		t.Fatalf("NewToken failed: %v", err)
	}

	got, err := ParseToken(tokenString, secret)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}

	if got != p {
		t.Errorf("ParseToken returned %+v, want %+v", got, p)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	tokenString, err := NewToken(Principal{UserID: "user-123", Role: RoleUser}, "secret-a", time.Hour)
	if err != nil {
		t.Fatalf("NewToken failed: %v", err)
	}

	if _, err := ParseToken(tokenString, "secret-b"); err == nil {
		t.Error("expected error for token signed with a different secret")
	}
}

func TestParseTokenUnknownRole(t *testing.T) {
	const secret = "test-secret"

	tokenString, err := NewToken(Principal{UserID: "user-123", Role: Role("root")}, secret, time.Hour)
	if err != nil {
		t.Fatalf("NewToken failed: %v", err)
	}

	if _, err := ParseToken(tokenString, secret); err == nil {
		t.Error("expected error for token carrying an unknown role")
	}
}
