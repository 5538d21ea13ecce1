package session

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type fakeJWTConfig struct {
	secret  string
	enabled bool
}

func (f fakeJWTConfig) GetJWTAccessSecret() string { return f.secret }
func (f fakeJWTConfig) IsBackendAuthEnabled() bool { return f.enabled }

func signAccessToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestResolveBackendToken(t *testing.T) {
	fx := newResolverFixture(t)
	fx.resolver.cfg = fakeJWTConfig{secret: "test-secret", enabled: true}

	raw := signAccessToken(t, "test-secret", jwt.MapClaims{
		"sub":     "user-42",
		"email":   "backend@example.com",
		"company": "Nike",
		"roles":   []string{"user"},
		"type":    "access",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	actor := fx.resolver.Resolve(context.Background(), Keys{BearerToken: raw})
	if actor == nil || actor.Kind != ActorBackend {
		t.Fatalf("expected backend actor, got %+v", actor)
	}
	if actor.ID != "user-42" || actor.Email != "backend@example.com" || actor.Company != "Nike" {
		t.Errorf("unexpected backend actor fields: %+v", actor)
	}
	if actor.Role != RoleUser {
		t.Errorf("expected role from claims, got %q", actor.Role)
	}
}

func TestResolveBackendDisabledIgnoresToken(t *testing.T) {
	fx := newResolverFixture(t)
	fx.resolver.cfg = fakeJWTConfig{secret: "test-secret", enabled: false}

	raw := signAccessToken(t, "test-secret", jwt.MapClaims{
		"sub":  "user-42",
		"type": "access",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	if actor := fx.resolver.Resolve(context.Background(), Keys{BearerToken: raw}); actor != nil {
		t.Fatalf("backend disabled must yield nil, got %+v", actor)
	}
}

func TestResolveBackendRejectsNonAccessToken(t *testing.T) {
	fx := newResolverFixture(t)
	fx.resolver.cfg = fakeJWTConfig{secret: "test-secret", enabled: true}

	raw := signAccessToken(t, "test-secret", jwt.MapClaims{
		"sub":  "user-42",
		"type": "refresh",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	if actor := fx.resolver.Resolve(context.Background(), Keys{BearerToken: raw}); actor != nil {
		t.Fatalf("refresh token must not resolve, got %+v", actor)
	}
}

func TestResolveBackendRejectsWrongSecret(t *testing.T) {
	fx := newResolverFixture(t)
	fx.resolver.cfg = fakeJWTConfig{secret: "right-secret", enabled: true}

	raw := signAccessToken(t, "wrong-secret", jwt.MapClaims{
		"sub":  "user-42",
		"type": "access",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	if actor := fx.resolver.Resolve(context.Background(), Keys{BearerToken: raw}); actor != nil {
		t.Fatalf("forged token must not resolve, got %+v", actor)
	}
}
