package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sgiraldob/vitrina-backend/pkg/config"
)

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(ctx context.Context) error {
	return s.err
}

func healthConfig() *config.Config {
	return &config.Config{App: config.AppConfig{Env: "dev"}}
}

func TestHealthLive(t *testing.T) {
	handler := HealthLive(healthConfig())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if rec.Header().Get("X-Vitrina-Env") != "dev" {
		t.Fatal("expected environment header")
	}
}

func TestHealthReadyChecksDependencies(t *testing.T) {
	handler := HealthReady(healthConfig(), nil, stubPinger{}, stubPinger{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHealthReadyFailsWhenDependencyDown(t *testing.T) {
	handler := HealthReady(healthConfig(), nil, stubPinger{err: errors.New("connection refused")}, stubPinger{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d: %s", rec.Code, rec.Body.String())
	}
}
