package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	sessionsvc "github.com/lechonexpress/backend/internal/session"
	"github.com/lechonexpress/backend/pkg/config"
	pkgerrors "github.com/lechonexpress/backend/pkg/errors"
)

type stubVerifier struct {
	identity *sessionsvc.Identity
	err      error
}

func (s *stubVerifier) Verify(ctx context.Context) (*sessionsvc.Identity, error) {
	return s.identity, s.err
}

func TestSessionCheckNoToken(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 10}
	handler := SessionCheck(cfg, &stubVerifier{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/session", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var envelope struct {
		Data sessionCheckResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.IsAuthenticated {
		t.Fatal("expected unauthenticated response")
	}
}

func TestSessionCheckRevokedSession(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 10}
	verifier := &stubVerifier{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "session revoked")}
	handler := SessionCheck(cfg, verifier, nil)

	token, _ := mintControllerToken(t, cfg)
	req := httptest.NewRequest(http.MethodGet, "/session", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var envelope struct {
		Data sessionCheckResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.IsAuthenticated {
		t.Fatal("expected unauthenticated response")
	}
}

func TestSessionCheckAuthenticated(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 10}
	customerID := uuid.New()
	verifier := &stubVerifier{identity: &sessionsvc.Identity{
		CustomerID:      customerID,
		DeliveryAddress: "123 Mabini St, Cebu City",
	}}
	handler := SessionCheck(cfg, verifier, nil)

	token, _ := mintControllerToken(t, cfg)
	req := httptest.NewRequest(http.MethodGet, "/session", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var envelope struct {
		Data sessionCheckResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !envelope.Data.IsAuthenticated {
		t.Fatal("expected authenticated response")
	}
	if envelope.Data.CustomerID != customerID.String() {
		t.Fatalf("expected customer %s got %s", customerID, envelope.Data.CustomerID)
	}
	if envelope.Data.DeliveryAddress != "123 Mabini St, Cebu City" {
		t.Fatalf("unexpected address %q", envelope.Data.DeliveryAddress)
	}
}
