package services

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"taskflow/internal/models"
)

func TestAuthService_TokenRoundTrip(t *testing.T) {
	auth := NewAuthService("secret", 24*time.Hour, bcrypt.MinCost).(*authService)
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	auth.now = func() time.Time { return issued }

	token, err := auth.GenerateToken(&models.User{ID: "admin1", Email: "admin@example.com", Role: "admin"})
	if err != nil {
		t.Fatalf("GenerateToken err=%v", err)
	}
	claims, err := auth.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken err=%v", err)
	}
	if got := claims.Requester(); got != (models.Requester{ID: "admin1", Email: "admin@example.com", Role: "admin"}) {
		t.Fatalf("requester=%+v", got)
	}
	if !claims.ExpiresAt.Time.Equal(issued.Add(24 * time.Hour)) {
		t.Fatalf("expires=%v, want 24h after issue", claims.ExpiresAt.Time)
	}

	auth.now = func() time.Time { return issued.Add(25 * time.Hour) }
	if _, err := auth.ParseToken(token); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expired err=%v, want %v", err, ErrUnauthenticated)
	}
}

func TestAuthService_RejectsForeignTokens(t *testing.T) {
	auth := NewAuthService("secret", time.Hour, bcrypt.MinCost)
	other := NewAuthService("other-secret", time.Hour, bcrypt.MinCost)

	token, err := other.GenerateToken(&models.User{ID: "admin1", Role: "admin"})
	if err != nil {
		t.Fatalf("GenerateToken err=%v", err)
	}
	if _, err := auth.ParseToken(token); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("foreign signature err=%v, want %v", err, ErrUnauthenticated)
	}
	if _, err := auth.ParseToken("garbage"); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("garbage err=%v, want %v", err, ErrUnauthenticated)
	}

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"id": "admin1", "role": "admin"})
	raw, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none err=%v", err)
	}
	if _, err := auth.ParseToken(raw); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("alg=none err=%v, want %v", err, ErrUnauthenticated)
	}
}

func TestAuthService_Passwords(t *testing.T) {
	auth := NewAuthService("secret", time.Hour, bcrypt.MinCost)
	hash, err := auth.HashPassword("admin123")
	if err != nil {
		t.Fatalf("HashPassword err=%v", err)
	}
	if !auth.CheckPassword(hash, "admin123") {
		t.Fatalf("CheckPassword(correct)=false")
	}
	if auth.CheckPassword(hash, "admin124") {
		t.Fatalf("CheckPassword(wrong)=true")
	}
	if auth.CheckPassword("not-a-hash", "admin123") {
		t.Fatalf("CheckPassword(malformed hash)=true")
	}
}
