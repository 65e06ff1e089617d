package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgAuth "github.com/sgiraldob/vitrina-backend/pkg/auth"
	"github.com/sgiraldob/vitrina-backend/pkg/config"
)

type stubSessionChecker struct {
	active bool
	err    error
}

func (s stubSessionChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	return s.active, s.err
}

func jwtTestConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "vitrina-test",
		ExpirationMinutes: 15,
	}
}

func mintToken(t *testing.T, cfg config.JWTConfig, userID uuid.UUID) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg, time.Now(), pkgAuth.AccessTokenPayload{UserID: userID})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func runAuth(t *testing.T, checker stubSessionChecker, authorization string) (*httptest.ResponseRecorder, string) {
	t.Helper()
	cfg := jwtTestConfig()

	var seenUserID string
	handler := Auth(cfg, checker, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUserID = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tenants/acme/orders", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, seenUserID
}

func TestAuthAcceptsValidBearerToken(t *testing.T) {
	userID := uuid.New()
	token := mintToken(t, jwtTestConfig(), userID)

	rec, seenUserID := runAuth(t, stubSessionChecker{active: true}, "Bearer "+token)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d: %s", rec.Code, rec.Body.String())
	}
	if seenUserID != userID.String() {
		t.Fatalf("expected user %s in context, got %q", userID, seenUserID)
	}
}

func TestAuthRejectsMissingCredentials(t *testing.T) {
	rec, _ := runAuth(t, stubSessionChecker{active: true}, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestAuthRejectsGarbageToken(t *testing.T) {
	rec, _ := runAuth(t, stubSessionChecker{active: true}, "Bearer not.a.jwt")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestAuthRejectsRevokedSession(t *testing.T) {
	token := mintToken(t, jwtTestConfig(), uuid.New())
	rec, _ := runAuth(t, stubSessionChecker{active: false}, "Bearer "+token)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}
