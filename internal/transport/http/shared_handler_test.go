package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/devmetrics/gitpulse/internal/processing/shares"
	"github.com/devmetrics/gitpulse/internal/processing/stats"
)

type stubShareRepo struct {
	share *shares.Share
	err   error
}

func (s *stubShareRepo) Insert(context.Context, *shares.Share) error { return nil }
func (s *stubShareRepo) FindByID(context.Context, string) (*shares.Share, error) {
	return s.share, s.err
}
func (s *stubShareRepo) ListByOwner(context.Context, string) ([]shares.Share, error) {
	return nil, nil
}
func (s *stubShareRepo) Update(context.Context, *shares.Share) error { return nil }
func (s *stubShareRepo) Delete(context.Context, string) error        { return nil }
func (s *stubShareRepo) IncrementViewCount(context.Context, string) (int64, error) {
	return s.share.ViewCount + 1, nil
}

type stubProfiles struct {
	owner *shares.Owner
	err   error
}

func (s *stubProfiles) FindOwner(context.Context, string) (*shares.Owner, error) {
	return s.owner, s.err
}

type stubAggregator struct {
	data stats.Aggregate
	err  error
}

func (s *stubAggregator) Aggregate(context.Context, string, string, stats.Kind, bool) (stats.Aggregate, error) {
	return s.data, s.err
}

type stubOutbox struct{}

func (stubOutbox) EnqueueView(context.Context, string, time.Time) error { return nil }

type stubViewStats struct{}

func (stubViewStats) GetDaily(context.Context, string, int) ([]shares.DailyCount, error) {
	return nil, nil
}

type stubIDs struct{}

func (stubIDs) NewID() (string, error) { return "stub-id-000000000", nil }

func publicShare() *shares.Share {
	return &shares.Share{
		ShareID:   "abcDEF1234567890",
		OwnerID:   "user-1",
		Username:  "octocat",
		Type:      stats.KindDashboard,
		IsPublic:  true,
		ViewCount: 7,
		CreatedAt: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func newSharedTestHandler(repo shares.ShareRepository, profiles shares.ProfileStore, agg shares.Aggregator) *SharedHandler {
	svc := shares.NewService(repo, profiles, agg, stubOutbox{}, stubViewStats{}, stubIDs{}, 30)
	return NewSharedHandler(svc)
}

func serveSharedView(t *testing.T, h *SharedHandler, shareID string) *httptest.ResponseRecorder {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /shared/{shareId}", h.View)

	req := httptest.NewRequest(http.MethodGet, "/shared/"+shareID, nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestSharedView_Success(t *testing.T) {
	h := newSharedTestHandler(
		&stubShareRepo{share: publicShare()},
		&stubProfiles{owner: &shares.Owner{UserID: "user-1", Username: "octocat", GitHubToken: "tok"}},
		&stubAggregator{data: &stats.Dashboard{TotalRepositories: 3}},
	)

	rec := serveSharedView(t, h, "abcDEF1234567890")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body %s", rec.Code, http.StatusOK, rec.Body)
	}

	var envelope struct {
		Code string `json:"code"`
		Data struct {
			ShareID   string `json:"shareId"`
			Username  string `json:"username"`
			ViewCount int64  `json:"viewCount"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatal(err)
	}
	if envelope.Code != "SHARE_FOUND" {
		t.Errorf("code = %q", envelope.Code)
	}
	if envelope.Data.ShareID != "abcDEF1234567890" || envelope.Data.Username != "octocat" {
		t.Errorf("unexpected payload: %+v", envelope.Data)
	}
	if envelope.Data.ViewCount != 8 {
		t.Errorf("viewCount = %d, want post-increment 8", envelope.Data.ViewCount)
	}
}

func TestSharedView_StatusMapping(t *testing.T) {
	expiredShare := publicShare()
	pastExpiry := time.Now().UTC().Add(-time.Hour)
	expiredShare.ExpiresAt = &pastExpiry

	privateShare := publicShare()
	privateShare.IsPublic = false

	cases := []struct {
		name       string
		repo       *stubShareRepo
		profiles   *stubProfiles
		agg        *stubAggregator
		wantStatus int
		wantError  string
	}{
		{
			name:       "missing share",
			repo:       &stubShareRepo{err: shares.ErrNotFound},
			profiles:   &stubProfiles{},
			agg:        &stubAggregator{},
			wantStatus: http.StatusNotFound,
			wantError:  "SHARE_NOT_FOUND",
		},
		{
			name:       "expired share",
			repo:       &stubShareRepo{share: expiredShare},
			profiles:   &stubProfiles{},
			agg:        &stubAggregator{},
			wantStatus: http.StatusGone,
			wantError:  "SHARE_EXPIRED",
		},
		{
			name:       "private share",
			repo:       &stubShareRepo{share: privateShare},
			profiles:   &stubProfiles{},
			agg:        &stubAggregator{},
			wantStatus: http.StatusForbidden,
			wantError:  "SHARE_PRIVATE",
		},
		{
			name:       "owner missing",
			repo:       &stubShareRepo{share: publicShare()},
			profiles:   &stubProfiles{err: shares.ErrOwnerNotFound},
			agg:        &stubAggregator{},
			wantStatus: http.StatusNotFound,
			wantError:  "OWNER_NOT_FOUND",
		},
		{
			name:       "owner token missing",
			repo:       &stubShareRepo{share: publicShare()},
			profiles:   &stubProfiles{owner: &shares.Owner{UserID: "user-1", Username: "octocat"}},
			agg:        &stubAggregator{},
			wantStatus: http.StatusUnauthorized,
			wantError:  "GITHUB_TOKEN_MISSING",
		},
		{
			name:       "upstream failure",
			repo:       &stubShareRepo{share: publicShare()},
			profiles:   &stubProfiles{owner: &shares.Owner{UserID: "user-1", Username: "octocat", GitHubToken: "tok"}},
			agg:        &stubAggregator{err: shares.ErrUpstream},
			wantStatus: http.StatusInternalServerError,
			wantError:  "UPSTREAM_FAILED",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newSharedTestHandler(tc.repo, tc.profiles, tc.agg)
			rec := serveSharedView(t, h, "abcDEF1234567890")

			if rec.Code != tc.wantStatus {
				t.Errorf("status = %d, want %d; body %s", rec.Code, tc.wantStatus, rec.Body)
			}

			var envelope struct {
				Error string `json:"error"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
				t.Fatal(err)
			}
			if envelope.Error != tc.wantError {
				t.Errorf("error code = %q, want %q", envelope.Error, tc.wantError)
			}
		})
	}
}
