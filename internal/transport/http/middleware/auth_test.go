package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"mpadmin/internal/requestctx"
)

func signTestToken(t *testing.T, secret, subject string) string {
	t.Helper()
	claims := operatorClaims{
		Email: subject + "@console.local",
		Role:  "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return token
}

func TestAuthResolvesOperator(t *testing.T) {
	var got requestctx.Operator
	handler := Auth("test-secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = requestctx.GetOperator(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, "test-secret", "op-1"))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got.ID != "op-1" {
		t.Fatalf("expected operator op-1, got %q", got.ID)
	}
}

func TestAuthIgnoresInvalidToken(t *testing.T) {
	handler := Auth("test-secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requestctx.GetOperator(r.Context()); ok {
			t.Fatal("expected no operator for a token signed with the wrong secret")
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, "other-secret", "op-1"))
	handler.ServeHTTP(httptest.NewRecorder(), req)
}

func TestRequireOperatorRejectsAnonymous(t *testing.T) {
	handler := RequireOperator(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without an operator")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
