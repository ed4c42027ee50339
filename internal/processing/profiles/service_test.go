package profiles

import (
	"context"
	"errors"
	"testing"
	"time"
)

type mockRepo struct {
	findByIDFn       func(ctx context.Context, userID string) (*Profile, error)
	upsertFn         func(ctx context.Context, profile *Profile) error
	updateSettingsFn func(ctx context.Context, userID string, patch SettingsPatch) (*Profile, error)
}

func (m *mockRepo) FindByID(ctx context.Context, userID string) (*Profile, error) {
	return m.findByIDFn(ctx, userID)
}

func (m *mockRepo) Upsert(ctx context.Context, profile *Profile) error {
	return m.upsertFn(ctx, profile)
}

func (m *mockRepo) UpdateSettings(ctx context.Context, userID string, patch SettingsPatch) (*Profile, error) {
	return m.updateSettingsFn(ctx, userID, patch)
}

func TestUpsertFromOAuth_ReturnsStoredProfile(t *testing.T) {
	firstLogin := time.Date(2025, 1, 5, 9, 0, 0, 0, time.UTC)
	stored := &Profile{
		UserID:         "gh_1",
		GitHubID:       1,
		GitHubUsername: "octocat",
		GitHubToken:    "fresh-token",
		Theme:          "dark",
		EmailUpdates:   true,
		CreatedAt:      firstLogin,
	}

	upserts := 0
	repo := &mockRepo{
		upsertFn: func(_ context.Context, profile *Profile) error {
			upserts++
			if profile.Theme != "system" {
				t.Errorf("snapshot theme = %q, want default %q", profile.Theme, "system")
			}
			return nil
		},
		findByIDFn: func(_ context.Context, userID string) (*Profile, error) {
			if userID != "gh_1" {
				t.Errorf("FindByID called with %q", userID)
			}
			return stored, nil
		},
	}

	profile, err := NewService(repo).UpsertFromOAuth(context.Background(), OAuthUpsert{
		UserID:      "gh_1",
		GitHubID:    1,
		Username:    "octocat",
		AccessToken: "fresh-token",
	})
	if err != nil {
		t.Fatal(err)
	}
	if upserts != 1 {
		t.Fatalf("Upsert called %d times, want 1", upserts)
	}

	// Re-login must surface what the document holds, not the write snapshot.
	if profile.Theme != "dark" {
		t.Errorf("Theme = %q, want stored %q", profile.Theme, "dark")
	}
	if !profile.EmailUpdates {
		t.Error("EmailUpdates = false, want stored true")
	}
	if !profile.CreatedAt.Equal(firstLogin) {
		t.Errorf("CreatedAt = %v, want first-login %v", profile.CreatedAt, firstLogin)
	}
}

func TestUpsertFromOAuth_PropagatesUpsertError(t *testing.T) {
	repoErr := errors.New("write failed")
	repo := &mockRepo{
		upsertFn: func(context.Context, *Profile) error { return repoErr },
		findByIDFn: func(context.Context, string) (*Profile, error) {
			t.Fatal("FindByID must not run after a failed upsert")
			return nil, nil
		},
	}

	if _, err := NewService(repo).UpsertFromOAuth(context.Background(), OAuthUpsert{UserID: "gh_1"}); !errors.Is(err, repoErr) {
		t.Fatalf("expected upsert error, got %v", err)
	}
}

func TestGet_EmptyUserID(t *testing.T) {
	repo := &mockRepo{
		findByIDFn: func(context.Context, string) (*Profile, error) {
			t.Fatal("FindByID must not run for an empty user id")
			return nil, nil
		},
	}

	if _, err := NewService(repo).Get(context.Background(), "  "); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
