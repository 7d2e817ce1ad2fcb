package auth

import "testing"

func TestAccessTokenRoundtrip(t *testing.T) {
	token, err := GenerateAccessToken("u1", []string{"admin", "ops"}, "test-secret")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := ParseAccessToken(token, "test-secret")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != "u1" {
		t.Fatalf("Subject = %s, want u1", claims.Subject)
	}
	if len(claims.Roles) != 2 || claims.Roles[0] != "admin" {
		t.Fatalf("Roles = %v", claims.Roles)
	}
	if claims.ExpiresAt == nil || claims.ExpiresAt.Before(claims.IssuedAt.Time) {
		t.Fatal("expiry must be after issuance")
	}
}

func TestParseAccessTokenWrongSecret(t *testing.T) {
	token, err := GenerateAccessToken("u1", nil, "right-secret")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ParseAccessToken(token, "wrong-secret"); err == nil {
		t.Fatal("expected signature validation to fail")
	}
}

func TestParseAccessTokenGarbage(t *testing.T) {
	if _, err := ParseAccessToken("not.a.token", "secret"); err == nil {
		t.Fatal("expected parse failure")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "hunter2" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !CheckPassword("hunter2", hash) {
		t.Fatal("correct password must verify")
	}
	if CheckPassword("wrong", hash) {
		t.Fatal("wrong password must not verify")
	}
}

func TestIsAdmin(t *testing.T) {
	u := &UserContext{ID: "u1", Roles: []string{"viewer"}}
	if u.IsAdmin() {
		t.Fatal("viewer is not admin")
	}
	u.Roles = append(u.Roles, "admin")
	if !u.IsAdmin() {
		t.Fatal("expected admin")
	}
}
