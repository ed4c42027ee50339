package shares

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/devmetrics/gitpulse/internal/processing/stats"
)

type mockShareRepo struct {
	insertFn    func(ctx context.Context, share *Share) error
	findFn      func(ctx context.Context, shareID string) (*Share, error)
	listFn      func(ctx context.Context, ownerID string) ([]Share, error)
	updateFn    func(ctx context.Context, share *Share) error
	deleteFn    func(ctx context.Context, shareID string) error
	incrementFn func(ctx context.Context, shareID string) (int64, error)
}

func (m *mockShareRepo) Insert(ctx context.Context, share *Share) error {
	return m.insertFn(ctx, share)
}

func (m *mockShareRepo) FindByID(ctx context.Context, shareID string) (*Share, error) {
	return m.findFn(ctx, shareID)
}

func (m *mockShareRepo) ListByOwner(ctx context.Context, ownerID string) ([]Share, error) {
	return m.listFn(ctx, ownerID)
}

func (m *mockShareRepo) Update(ctx context.Context, share *Share) error {
	return m.updateFn(ctx, share)
}

func (m *mockShareRepo) Delete(ctx context.Context, shareID string) error {
	return m.deleteFn(ctx, shareID)
}

func (m *mockShareRepo) IncrementViewCount(ctx context.Context, shareID string) (int64, error) {
	if m.incrementFn != nil {
		return m.incrementFn(ctx, shareID)
	}
	return 1, nil
}

type mockProfileStore struct {
	findOwnerFn func(ctx context.Context, userID string) (*Owner, error)
}

func (m *mockProfileStore) FindOwner(ctx context.Context, userID string) (*Owner, error) {
	return m.findOwnerFn(ctx, userID)
}

type mockAggregator struct {
	aggregateFn func(ctx context.Context, token, username string, kind stats.Kind, showPrivate bool) (stats.Aggregate, error)
}

func (m *mockAggregator) Aggregate(ctx context.Context, token, username string, kind stats.Kind, showPrivate bool) (stats.Aggregate, error) {
	if m.aggregateFn != nil {
		return m.aggregateFn(ctx, token, username, kind, showPrivate)
	}
	return &stats.Dashboard{}, nil
}

type mockOutbox struct {
	enqueueFn func(ctx context.Context, shareID string, at time.Time) error
}

func (m *mockOutbox) EnqueueView(ctx context.Context, shareID string, at time.Time) error {
	if m.enqueueFn != nil {
		return m.enqueueFn(ctx, shareID, at)
	}
	return nil
}

type mockViewStats struct {
	getDailyFn func(ctx context.Context, shareID string, days int) ([]DailyCount, error)
}

func (m *mockViewStats) GetDaily(ctx context.Context, shareID string, days int) ([]DailyCount, error) {
	return m.getDailyFn(ctx, shareID, days)
}

type fixedIDs struct{ id string }

func (f fixedIDs) NewID() (string, error) { return f.id, nil }

var testNow = time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)

func newTestService(repo ShareRepository, profiles ProfileStore, agg Aggregator) *Service {
	svc := NewService(repo, profiles, agg, &mockOutbox{}, &mockViewStats{}, fixedIDs{id: "abcDEF1234567890"}, 30)
	svc.now = func() time.Time { return testNow }
	return svc
}

func ownedShare() *Share {
	return &Share{
		ShareID:   "abcDEF1234567890",
		OwnerID:   "user-1",
		Username:  "octocat",
		Avatar:    "https://example.com/a.png",
		Type:      stats.KindDashboard,
		IsPublic:  true,
		Settings:  defaultSettings(30),
		ViewCount: 4,
		CreatedAt: testNow.AddDate(0, 0, -3),
		UpdatedAt: testNow.AddDate(0, 0, -3),
	}
}

func okProfiles() *mockProfileStore {
	return &mockProfileStore{
		findOwnerFn: func(_ context.Context, userID string) (*Owner, error) {
			return &Owner{UserID: userID, Username: "octocat", Avatar: "https://example.com/a.png", GitHubToken: "gh-token"}, nil
		},
	}
}

func TestCreate_DefaultsAndExpiry(t *testing.T) {
	var inserted *Share
	repo := &mockShareRepo{
		insertFn: func(_ context.Context, share *Share) error {
			inserted = share
			return nil
		},
	}

	svc := newTestService(repo, okProfiles(), &mockAggregator{})
	share, err := svc.Create(context.Background(), "user-1", CreateInput{Type: "dashboard"})
	if err != nil {
		t.Fatal(err)
	}

	if inserted == nil {
		t.Fatal("expected insert")
	}
	if share.IsPublic {
		t.Error("IsPublic should default to false")
	}
	if !share.Settings.AutoExpire || share.Settings.ExpireDays != 30 {
		t.Errorf("unexpected default settings: %+v", share.Settings)
	}
	if share.Settings.ShowPrivateRepos {
		t.Error("ShowPrivateRepos should default to false")
	}
	if share.Username != "octocat" {
		t.Errorf("Username = %q, want owner snapshot", share.Username)
	}
	if share.ExpiresAt == nil {
		t.Fatal("expected ExpiresAt with autoExpire on")
	}
	if want := testNow.AddDate(0, 0, 30); !share.ExpiresAt.Equal(want) {
		t.Errorf("ExpiresAt = %v, want %v", share.ExpiresAt, want)
	}
	if len(share.ShareID) != 16 {
		t.Errorf("ShareID length = %d, want 16", len(share.ShareID))
	}
}

func TestCreate_RetriesOnIDCollision(t *testing.T) {
	attempts := 0
	repo := &mockShareRepo{
		insertFn: func(_ context.Context, share *Share) error {
			attempts++
			if attempts < 3 {
				return ErrIDTaken
			}
			return nil
		},
	}

	svc := newTestService(repo, okProfiles(), &mockAggregator{})
	if _, err := svc.Create(context.Background(), "user-1", CreateInput{Type: "repositories"}); err != nil {
		t.Fatal(err)
	}
	if attempts != 3 {
		t.Errorf("insert attempts = %d, want 3", attempts)
	}
}

func TestCreate_RejectsUnknownType(t *testing.T) {
	svc := newTestService(&mockShareRepo{}, okProfiles(), &mockAggregator{})
	if _, err := svc.Create(context.Background(), "user-1", CreateInput{Type: "timeline"}); !errors.Is(err, stats.ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
}

func TestView_HappyPath(t *testing.T) {
	repo := &mockShareRepo{
		findFn: func(_ context.Context, shareID string) (*Share, error) {
			return ownedShare(), nil
		},
		incrementFn: func(_ context.Context, shareID string) (int64, error) {
			return 5, nil
		},
	}
	agg := &mockAggregator{
		aggregateFn: func(_ context.Context, token, username string, kind stats.Kind, showPrivate bool) (stats.Aggregate, error) {
			if token != "gh-token" || username != "octocat" {
				t.Errorf("aggregate called with token=%q username=%q", token, username)
			}
			if showPrivate {
				t.Error("showPrivate should follow share settings")
			}
			return &stats.Dashboard{TotalRepositories: 2}, nil
		},
	}

	svc := newTestService(repo, okProfiles(), agg)
	view, err := svc.View(context.Background(), "abcDEF1234567890")
	if err != nil {
		t.Fatal(err)
	}

	if view.ViewCount != 5 {
		t.Errorf("ViewCount = %d, want post-increment 5", view.ViewCount)
	}
	if view.Username != "octocat" {
		t.Errorf("Username = %q", view.Username)
	}
	if view.Data.(*stats.Dashboard).TotalRepositories != 2 {
		t.Error("aggregate payload not passed through")
	}
}

func TestView_NotFound(t *testing.T) {
	repo := &mockShareRepo{
		findFn: func(context.Context, string) (*Share, error) { return nil, ErrNotFound },
	}
	svc := newTestService(repo, okProfiles(), &mockAggregator{})
	if _, err := svc.View(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestView_Expired(t *testing.T) {
	repo := &mockShareRepo{
		findFn: func(context.Context, string) (*Share, error) {
			share := ownedShare()
			expired := testNow.Add(-time.Hour)
			share.ExpiresAt = &expired
			return share, nil
		},
	}
	svc := newTestService(repo, okProfiles(), &mockAggregator{})
	if _, err := svc.View(context.Background(), "abcDEF1234567890"); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
}

// An expired private share must report expiry, not visibility. Callers rely
// on distinguishable errors, so check order matters.
func TestView_ExpiryCheckedBeforeVisibility(t *testing.T) {
	repo := &mockShareRepo{
		findFn: func(context.Context, string) (*Share, error) {
			share := ownedShare()
			share.IsPublic = false
			expired := testNow.Add(-time.Hour)
			share.ExpiresAt = &expired
			return share, nil
		},
	}
	svc := newTestService(repo, okProfiles(), &mockAggregator{})
	if _, err := svc.View(context.Background(), "abcDEF1234567890"); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired before ErrPrivate, got %v", err)
	}
}

func TestView_Private(t *testing.T) {
	repo := &mockShareRepo{
		findFn: func(context.Context, string) (*Share, error) {
			share := ownedShare()
			share.IsPublic = false
			return share, nil
		},
	}
	svc := newTestService(repo, okProfiles(), &mockAggregator{})
	if _, err := svc.View(context.Background(), "abcDEF1234567890"); !errors.Is(err, ErrPrivate) {
		t.Fatalf("expected ErrPrivate, got %v", err)
	}
}

func TestView_OwnerMissing(t *testing.T) {
	repo := &mockShareRepo{
		findFn: func(context.Context, string) (*Share, error) { return ownedShare(), nil },
	}
	profiles := &mockProfileStore{
		findOwnerFn: func(context.Context, string) (*Owner, error) {
			return nil, errors.New("no document")
		},
	}
	svc := newTestService(repo, profiles, &mockAggregator{})
	if _, err := svc.View(context.Background(), "abcDEF1234567890"); !errors.Is(err, ErrOwnerNotFound) {
		t.Fatalf("expected ErrOwnerNotFound, got %v", err)
	}
}

func TestView_TokenMissing(t *testing.T) {
	repo := &mockShareRepo{
		findFn: func(context.Context, string) (*Share, error) { return ownedShare(), nil },
	}
	profiles := &mockProfileStore{
		findOwnerFn: func(context.Context, string) (*Owner, error) {
			return &Owner{UserID: "user-1", Username: "octocat"}, nil
		},
	}
	agg := &mockAggregator{
		aggregateFn: func(context.Context, string, string, stats.Kind, bool) (stats.Aggregate, error) {
			t.Error("aggregate must not run without an owner token")
			return nil, nil
		},
	}
	svc := newTestService(repo, profiles, agg)
	if _, err := svc.View(context.Background(), "abcDEF1234567890"); !errors.Is(err, ErrTokenMissing) {
		t.Fatalf("expected ErrTokenMissing, got %v", err)
	}
}

func TestView_UpstreamFailure(t *testing.T) {
	incremented := false
	repo := &mockShareRepo{
		findFn: func(context.Context, string) (*Share, error) { return ownedShare(), nil },
		incrementFn: func(context.Context, string) (int64, error) {
			incremented = true
			return 0, nil
		},
	}
	agg := &mockAggregator{
		aggregateFn: func(context.Context, string, string, stats.Kind, bool) (stats.Aggregate, error) {
			return nil, errors.New("github 502")
		},
	}
	svc := newTestService(repo, okProfiles(), agg)
	if _, err := svc.View(context.Background(), "abcDEF1234567890"); !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
	if incremented {
		t.Error("view count must not increment on a failed aggregation")
	}
}

func TestView_IncrementFailureStillServes(t *testing.T) {
	repo := &mockShareRepo{
		findFn: func(context.Context, string) (*Share, error) { return ownedShare(), nil },
		incrementFn: func(context.Context, string) (int64, error) {
			return 0, errors.New("write timeout")
		},
	}
	svc := newTestService(repo, okProfiles(), &mockAggregator{})
	view, err := svc.View(context.Background(), "abcDEF1234567890")
	if err != nil {
		t.Fatalf("increment failure must not fail the view: %v", err)
	}
	if view.ViewCount != 4 {
		t.Errorf("ViewCount = %d, want stored value 4 as fallback", view.ViewCount)
	}
}

func TestUpdate_RecomputesExpiryFromNow(t *testing.T) {
	stored := ownedShare()
	repo := &mockShareRepo{
		findFn:   func(context.Context, string) (*Share, error) { return stored, nil },
		updateFn: func(context.Context, *Share) error { return nil },
	}
	svc := newTestService(repo, okProfiles(), &mockAggregator{})

	days := 10
	share, err := svc.Update(context.Background(), "user-1", "abcDEF1234567890", UpdateInput{
		Settings: &SettingsInput{ExpireDays: &days},
	})
	if err != nil {
		t.Fatal(err)
	}

	if share.ExpiresAt == nil {
		t.Fatal("expected ExpiresAt")
	}
	// Window restarts from the moment of the edit, not from createdAt.
	if want := testNow.AddDate(0, 0, 10); !share.ExpiresAt.Equal(want) {
		t.Errorf("ExpiresAt = %v, want %v", share.ExpiresAt, want)
	}
}

func TestUpdate_AutoExpireOffClearsExpiry(t *testing.T) {
	stored := ownedShare()
	expiry := testNow.AddDate(0, 0, 5)
	stored.ExpiresAt = &expiry

	repo := &mockShareRepo{
		findFn:   func(context.Context, string) (*Share, error) { return stored, nil },
		updateFn: func(context.Context, *Share) error { return nil },
	}
	svc := newTestService(repo, okProfiles(), &mockAggregator{})

	off := false
	share, err := svc.Update(context.Background(), "user-1", "abcDEF1234567890", UpdateInput{
		Settings: &SettingsInput{AutoExpire: &off},
	})
	if err != nil {
		t.Fatal(err)
	}
	if share.ExpiresAt != nil {
		t.Errorf("ExpiresAt = %v, want nil with autoExpire off", share.ExpiresAt)
	}
}

func TestUpdate_MergesSettings(t *testing.T) {
	stored := ownedShare()
	stored.Settings.ShowAnalytics = true
	stored.Settings.AllowComments = true

	repo := &mockShareRepo{
		findFn:   func(context.Context, string) (*Share, error) { return stored, nil },
		updateFn: func(context.Context, *Share) error { return nil },
	}
	svc := newTestService(repo, okProfiles(), &mockAggregator{})

	show := true
	share, err := svc.Update(context.Background(), "user-1", "abcDEF1234567890", UpdateInput{
		Settings: &SettingsInput{ShowPrivateRepos: &show},
	})
	if err != nil {
		t.Fatal(err)
	}

	if !share.Settings.ShowPrivateRepos {
		t.Error("ShowPrivateRepos not applied")
	}
	if !share.Settings.ShowAnalytics || !share.Settings.AllowComments {
		t.Error("untouched settings must survive a partial update")
	}
}

func TestUpdate_RejectsNonOwner(t *testing.T) {
	repo := &mockShareRepo{
		findFn: func(context.Context, string) (*Share, error) { return ownedShare(), nil },
		updateFn: func(context.Context, *Share) error {
			t.Error("update must not run for a non-owner")
			return nil
		},
	}
	svc := newTestService(repo, okProfiles(), &mockAggregator{})

	title := "hijack"
	if _, err := svc.Update(context.Background(), "user-2", "abcDEF1234567890", UpdateInput{Title: &title}); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
}

func TestDelete_RejectsNonOwner(t *testing.T) {
	repo := &mockShareRepo{
		findFn: func(context.Context, string) (*Share, error) { return ownedShare(), nil },
		deleteFn: func(context.Context, string) error {
			t.Error("delete must not run for a non-owner")
			return nil
		},
	}
	svc := newTestService(repo, okProfiles(), &mockAggregator{})
	if err := svc.Delete(context.Background(), "user-2", "abcDEF1234567890"); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
}

func TestDailyViews_OwnerOnly(t *testing.T) {
	repo := &mockShareRepo{
		findFn: func(context.Context, string) (*Share, error) { return ownedShare(), nil },
	}
	views := &mockViewStats{
		getDailyFn: func(_ context.Context, shareID string, days int) ([]DailyCount, error) {
			if days != 30 {
				t.Errorf("days = %d, want default 30", days)
			}
			return []DailyCount{{Day: "2025-04-01", Views: 3}}, nil
		},
	}
	svc := NewService(repo, okProfiles(), &mockAggregator{}, &mockOutbox{}, views, fixedIDs{id: "x"}, 30)
	svc.now = func() time.Time { return testNow }

	counts, err := svc.DailyViews(context.Background(), "user-1", "abcDEF1234567890", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(counts) != 1 || counts[0].Views != 3 {
		t.Errorf("unexpected counts: %+v", counts)
	}

	if _, err := svc.DailyViews(context.Background(), "user-2", "abcDEF1234567890", 7); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
}
