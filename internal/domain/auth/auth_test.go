package auth

import (
	"testing"
	"time"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-passw0rd")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if err := CheckPassword(hash, "s3cret-passw0rd"); err != nil {
		t.Fatalf("expected password to match: %v", err)
	}
	if err := CheckPassword(hash, "wrong"); err == nil {
		t.Fatal("expected mismatch for wrong password")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("secret", Claims{UserID: "u1", Role: RoleManager}, time.Hour)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	claims, err := ParseToken("secret", token)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if claims.UserID != "u1" || claims.Role != RoleManager {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	if _, err := ParseToken("other-secret", token); err == nil {
		t.Fatal("expected parse failure with wrong secret")
	}
}

func TestTokenExpiry(t *testing.T) {
	token, err := GenerateToken("secret", Claims{UserID: "u1", Role: RoleEmployee}, -time.Minute)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if _, err := ParseToken("secret", token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestHasPermission(t *testing.T) {
	tests := []struct {
		role       string
		permission string
		want       bool
	}{
		{RoleEmployee, PermTimesheetsWrite, true},
		{RoleEmployee, PermTimesheetsReview, false},
		{RoleEmployee, PermPayrollRun, false},
		{RoleManager, PermLeaveApprove, true},
		{RoleManager, PermPayrollFinalize, false},
		{RoleHR, PermPayrollFinalize, true},
		{RoleHR, PermAuditRead, true},
		{"unknown", PermEmployeesRead, false},
	}
	for _, tc := range tests {
		if got := HasPermission(tc.role, tc.permission); got != tc.want {
			t.Fatalf("HasPermission(%s, %s) = %v, want %v", tc.role, tc.permission, got, tc.want)
		}
	}
}
