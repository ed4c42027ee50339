package shares

import (
	"context"
	"errors"
	"time"

	"github.com/devmetrics/gitpulse/internal/processing/stats"
)

var (
	ErrNotFound      = errors.New("share not found")
	ErrExpired       = errors.New("share expired")
	ErrPrivate       = errors.New("share is private")
	ErrOwnerNotFound = errors.New("share owner not found")
	ErrTokenMissing  = errors.New("owner github token missing")
	ErrUpstream      = errors.New("upstream fetch failed")
	ErrNotOwner      = errors.New("share owned by another user")
	ErrIDTaken       = errors.New("share id already taken")
)

// ShareRepository is the share document store.
type ShareRepository interface {
	Insert(ctx context.Context, share *Share) error
	FindByID(ctx context.Context, shareID string) (*Share, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Share, error)
	Update(ctx context.Context, share *Share) error
	Delete(ctx context.Context, shareID string) error
	// IncrementViewCount atomically bumps the counter and returns the
	// post-increment value.
	IncrementViewCount(ctx context.Context, shareID string) (int64, error)
}

// Owner is the slice of the owner profile the share path needs.
type Owner struct {
	UserID      string
	Username    string
	Avatar      string
	GitHubToken string
}

// ProfileStore resolves share owners.
type ProfileStore interface {
	FindOwner(ctx context.Context, userID string) (*Owner, error)
}

// Aggregator builds the variant payload for a share view.
type Aggregator interface {
	Aggregate(ctx context.Context, token, username string, kind stats.Kind, showPrivate bool) (stats.Aggregate, error)
}

// ViewOutbox records view events for asynchronous analytics delivery.
type ViewOutbox interface {
	EnqueueView(ctx context.Context, shareID string, at time.Time) error
}

// ViewStats reads the per-day view series.
type ViewStats interface {
	GetDaily(ctx context.Context, shareID string, days int) ([]DailyCount, error)
}

// IDGenerator mints public share identifiers.
type IDGenerator interface {
	NewID() (string, error)
}
