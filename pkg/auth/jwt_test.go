package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret-key-must-be-at-least-32-characters-long"

func newManager(t *testing.T) *JWTManager {
	t.Helper()
	m, err := NewJWTManager(testSecret, 15*time.Minute)
	if err != nil {
		t.Fatalf("Failed to create JWT manager: %v", err)
	}
	return m
}

func TestNewJWTManager_ShortSecret(t *testing.T) {
	if _, err := NewJWTManager("short", time.Minute); !errors.Is(err, ErrShortSecret) {
		t.Errorf("err = %v, want ErrShortSecret", err)
	}
}

func TestJWTManager_GenerateToken(t *testing.T) {
	m := newManager(t)

	tests := []struct {
		name    string
		subject string
		role    string
		wantErr error
	}{
		{"editor", "alice", RoleEditor, nil},
		{"service", "importer", RoleService, nil},
		{"empty subject", "", RoleEditor, ErrEmptySubject},
		{"empty role", "bob", "", ErrInvalidRole},
		{"unknown role", "bob", "admin", ErrInvalidRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := m.GenerateToken(tt.subject, tt.role)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("GenerateToken() error = %v", err)
			}
			if token == "" {
				t.Error("token is empty")
			}
		})
	}
}

func TestJWTManager_ValidateToken(t *testing.T) {
	m := newManager(t)
	token, err := m.GenerateToken("alice", RoleEditor)
	if err != nil {
		t.Fatal(err)
	}

	claims, err := m.ValidateToken(context.Background(), token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.Subject != "alice" || claims.Role != RoleEditor {
		t.Errorf("claims = %+v", claims)
	}
	if claims.Issuer != issuer {
		t.Errorf("issuer = %q", claims.Issuer)
	}
}

func TestJWTManager_ValidateToken_Rejects(t *testing.T) {
	m := newManager(t)

	other, err := NewJWTManager("another-secret-key-that-is-32-chars-or-more", time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	foreign, _ := other.GenerateToken("mallory", RoleEditor)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{Role: RoleEditor})
	unsigned, _ := none.SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{"empty", "", ErrMissingToken},
		{"garbage", "not.a.token", ErrInvalidToken},
		{"wrong secret", foreign, ErrInvalidToken},
		{"alg none", unsigned, ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := m.ValidateToken(context.Background(), tt.token); !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestJWTManager_ExpiredToken(t *testing.T) {
	m := newManager(t)
	issued := time.Now().Add(-time.Hour)
	m.now = func() time.Time { return issued }
	token, err := m.GenerateToken("alice", RoleEditor)
	if err != nil {
		t.Fatal(err)
	}

	m.now = time.Now
	if _, err := m.ValidateToken(context.Background(), token); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("err = %v, want ErrExpiredToken", err)
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", true},
		{"bearer   abc", "abc", true},
		{"Basic abc", "", false},
		{"Bearer", "", false},
		{"Bearer  ", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, err := BearerToken(tt.header)
		if (err == nil) != tt.ok {
			t.Errorf("BearerToken(%q) err = %v", tt.header, err)
			continue
		}
		if got != tt.want {
			t.Errorf("BearerToken(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}

func TestClaimsContext(t *testing.T) {
	if _, ok := ClaimsFromContext(context.Background()); ok {
		t.Error("empty context should carry no claims")
	}
	ctx := WithClaims(context.Background(), &Claims{Role: RoleService})
	claims, ok := ClaimsFromContext(ctx)
	if !ok || claims.Role != RoleService {
		t.Errorf("claims = %+v, ok = %v", claims, ok)
	}
}
