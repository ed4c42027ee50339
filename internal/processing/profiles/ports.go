package profiles

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("profile not found")

// Profile is one user document. GitHubToken is a server-side credential and
// must never be serialized into an API response.
type Profile struct {
	UserID         string
	GitHubID       int64
	GitHubUsername string
	GitHubToken    string
	Avatar         string
	Theme          string
	EmailUpdates   bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// SettingsPatch carries the optional settings fields of a profile update.
// Nil pointers leave the stored value untouched.
type SettingsPatch struct {
	Theme        *string
	EmailUpdates *bool
}

type Repository interface {
	FindByID(ctx context.Context, userID string) (*Profile, error)
	Upsert(ctx context.Context, profile *Profile) error
	UpdateSettings(ctx context.Context, userID string, patch SettingsPatch) (*Profile, error)
}
