package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func runCartToken(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, string) {
	t.Helper()
	var seen string
	handler := CartToken()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = CartTokenFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, seen
}

func TestCartTokenMintsCookieWhenMissing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/public/stores/acme", nil)
	rec, seen := runCartToken(t, req)

	if seen == "" {
		t.Fatal("expected a fingerprint in context")
	}
	if _, err := uuid.Parse(seen); err != nil {
		t.Fatalf("fingerprint is not a uuid: %v", err)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != CartCookieName {
		t.Fatalf("expected %s cookie, got %+v", CartCookieName, cookies)
	}
	if cookies[0].Value != seen {
		t.Fatal("cookie value must match the context fingerprint")
	}
	if cookies[0].SameSite != http.SameSiteLaxMode || !cookies[0].HttpOnly {
		t.Fatalf("unexpected cookie attributes: %+v", cookies[0])
	}
}

func TestCartTokenReusesExistingCookie(t *testing.T) {
	token := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/api/public/stores/acme", nil)
	req.AddCookie(&http.Cookie{Name: CartCookieName, Value: token})

	rec, seen := runCartToken(t, req)
	if seen != token {
		t.Fatalf("expected %s, got %s", token, seen)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatal("must not reissue a cookie when a valid one exists")
	}
}

func TestCartTokenReplacesMalformedCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/public/stores/acme", nil)
	req.AddCookie(&http.Cookie{Name: CartCookieName, Value: "definitely-not-a-uuid"})

	rec, seen := runCartToken(t, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("malformed cookie must never fail the request, got %d", rec.Code)
	}
	if _, err := uuid.Parse(seen); err != nil {
		t.Fatalf("expected a fresh uuid fingerprint, got %q", seen)
	}
	if len(rec.Result().Cookies()) != 1 {
		t.Fatal("expected a replacement cookie")
	}
}
