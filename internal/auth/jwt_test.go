package auth

import (
	"testing"
	"time"

	"github.com/advocase-dev/advocase-store/pkg/schema"
)

func TestTokenRoundTrip(t *testing.T) {
	user := schema.User{ID: "u1", Role: schema.RoleParent}
	token, err := NewAccessToken("secret", "advocase", time.Hour, user)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	claims, err := ParseToken("secret", token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != "u1" || claims.Role != schema.RoleParent {
		t.Fatalf("claims = %+v", claims)
	}
	if claims.Issuer != "advocase" {
		t.Fatalf("issuer = %q", claims.Issuer)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := NewAccessToken("secret", "advocase", time.Hour, schema.User{ID: "u1", Role: schema.RoleAdmin})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := ParseToken("other", token); err == nil {
		t.Fatal("token verified with the wrong secret")
	}
}

func TestTokenExpired(t *testing.T) {
	token, err := NewAccessToken("secret", "advocase", -time.Minute, schema.User{ID: "u1", Role: schema.RoleParent})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := ParseToken("secret", token); err == nil {
		t.Fatal("expired token accepted")
	}
}
