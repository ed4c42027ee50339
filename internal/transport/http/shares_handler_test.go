package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/devmetrics/gitpulse/internal/config"
	"github.com/devmetrics/gitpulse/internal/processing/profiles"
	"github.com/devmetrics/gitpulse/internal/processing/shares"
)

func newSharesTestHandler(repo shares.ShareRepository, profileStore shares.ProfileStore) *SharesHandler {
	cfg := &config.Config{Share: config.ShareConfig{BaseURL: "http://localhost:8080"}}
	svc := shares.NewService(repo, profileStore, &stubAggregator{}, stubOutbox{}, stubViewStats{}, stubIDs{}, 30)
	return NewSharesHandler(cfg, svc)
}

func serveCreateShare(t *testing.T, h *SharesHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/shares", h.Create)

	req := httptest.NewRequest(http.MethodPost, "/api/shares", strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestCreateShare_OwnerMissing(t *testing.T) {
	h := newSharesTestHandler(
		&stubShareRepo{},
		&stubProfiles{err: profiles.ErrNotFound},
	)

	rec := serveCreateShare(t, h, `{"type":"dashboard"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d; body %s", rec.Code, http.StatusNotFound, rec.Body)
	}

	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatal(err)
	}
	if envelope.Error != "OWNER_NOT_FOUND" {
		t.Errorf("error code = %q, want %q", envelope.Error, "OWNER_NOT_FOUND")
	}
}

func TestCreateShare_UnknownType(t *testing.T) {
	h := newSharesTestHandler(
		&stubShareRepo{},
		&stubProfiles{owner: &shares.Owner{UserID: "user-1", Username: "octocat"}},
	)

	rec := serveCreateShare(t, h, `{"type":"timeline"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d; body %s", rec.Code, http.StatusBadRequest, rec.Body)
	}

	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatal(err)
	}
	if envelope.Error != "INVALID_SHARE_TYPE" {
		t.Errorf("error code = %q, want %q", envelope.Error, "INVALID_SHARE_TYPE")
	}
}
