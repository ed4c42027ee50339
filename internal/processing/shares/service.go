package shares

import (
	"context"
	"strings"
	"time"

	"github.com/devmetrics/gitpulse/internal/infrastructure/logger"
	"github.com/devmetrics/gitpulse/internal/processing/stats"
	"go.uber.org/zap"
)

type Service struct {
	shareRepo         ShareRepository
	profiles          ProfileStore
	aggregator        Aggregator
	outbox            ViewOutbox
	viewStats         ViewStats
	ids               IDGenerator
	defaultExpireDays int
	now               func() time.Time
}

func NewService(
	shareRepo ShareRepository,
	profiles ProfileStore,
	aggregator Aggregator,
	outbox ViewOutbox,
	viewStats ViewStats,
	ids IDGenerator,
	defaultExpireDays int,
) *Service {
	if defaultExpireDays <= 0 {
		defaultExpireDays = 30
	}

	return &Service{
		shareRepo:         shareRepo,
		profiles:          profiles,
		aggregator:        aggregator,
		outbox:            outbox,
		viewStats:         viewStats,
		ids:               ids,
		defaultExpireDays: defaultExpireDays,
		now:               time.Now,
	}
}

func defaultSettings(expireDays int) Settings {
	return Settings{
		AllowComments:    false,
		ShowAnalytics:    true,
		AutoExpire:       true,
		ExpireDays:       expireDays,
		ShowPrivateRepos: false,
	}
}

// applySettings merges the provided optional fields into base.
func applySettings(base Settings, in *SettingsInput) Settings {
	if in == nil {
		return base
	}
	if in.AllowComments != nil {
		base.AllowComments = *in.AllowComments
	}
	if in.ShowAnalytics != nil {
		base.ShowAnalytics = *in.ShowAnalytics
	}
	if in.AutoExpire != nil {
		base.AutoExpire = *in.AutoExpire
	}
	if in.ExpireDays != nil {
		base.ExpireDays = *in.ExpireDays
	}
	if in.ShowPrivateRepos != nil {
		base.ShowPrivateRepos = *in.ShowPrivateRepos
	}
	return base
}

// Create mints a new share for the authenticated owner. The owner's GitHub
// identity is snapshotted onto the share at creation time and not re-synced.
func (s *Service) Create(ctx context.Context, ownerID string, in CreateInput) (*Share, error) {
	kind, err := stats.ParseKind(in.Type)
	if err != nil {
		return nil, err
	}

	owner, err := s.profiles.FindOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	settings := applySettings(defaultSettings(s.defaultExpireDays), in.Settings)

	share := &Share{
		OwnerID:     ownerID,
		Username:    owner.Username,
		Avatar:      owner.Avatar,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Type:        kind,
		Settings:    settings,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.IsPublic != nil {
		share.IsPublic = *in.IsPublic
	}
	if settings.AutoExpire {
		expiry := now.AddDate(0, 0, settings.ExpireDays)
		share.ExpiresAt = &expiry
	}

	const maxAttempts = 10
	for range maxAttempts {
		id, err := s.ids.NewID()
		if err != nil {
			return nil, err
		}
		share.ShareID = id

		if err := s.shareRepo.Insert(ctx, share); err != nil {
			if err == ErrIDTaken {
				continue
			}
			return nil, err
		}

		return share, nil
	}

	return nil, ErrIDTaken
}

func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]Share, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, ErrNotFound
	}
	return s.shareRepo.ListByOwner(ctx, ownerID)
}

// Get loads a share and enforces ownership.
func (s *Service) Get(ctx context.Context, ownerID, shareID string) (*Share, error) {
	share, err := s.shareRepo.FindByID(ctx, strings.TrimSpace(shareID))
	if err != nil {
		return nil, err
	}
	if share.OwnerID != ownerID {
		return nil, ErrNotOwner
	}
	return share, nil
}

// Update applies a partial update. Settings merge into the stored block, and
// the expiry window restarts from now whenever autoExpire or expireDays is
// present in the request.
func (s *Service) Update(ctx context.Context, ownerID, shareID string, in UpdateInput) (*Share, error) {
	share, err := s.Get(ctx, ownerID, shareID)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		share.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		share.Description = strings.TrimSpace(*in.Description)
	}
	if in.Type != nil {
		kind, err := stats.ParseKind(*in.Type)
		if err != nil {
			return nil, err
		}
		share.Type = kind
	}
	if in.IsPublic != nil {
		share.IsPublic = *in.IsPublic
	}

	now := s.now().UTC()
	if in.Settings != nil {
		share.Settings = applySettings(share.Settings, in.Settings)

		if in.Settings.AutoExpire != nil || in.Settings.ExpireDays != nil {
			if share.Settings.AutoExpire {
				days := share.Settings.ExpireDays
				if days <= 0 {
					days = s.defaultExpireDays
				}
				expiry := now.AddDate(0, 0, days)
				share.ExpiresAt = &expiry
			} else {
				share.ExpiresAt = nil
			}
		}
	}
	share.UpdatedAt = now

	if err := s.shareRepo.Update(ctx, share); err != nil {
		return nil, err
	}
	return share, nil
}

func (s *Service) Delete(ctx context.Context, ownerID, shareID string) error {
	if _, err := s.Get(ctx, ownerID, shareID); err != nil {
		return err
	}
	return s.shareRepo.Delete(ctx, shareID)
}

// View executes the public share read. The checks run in a fixed order so
// that each failure is distinguishable to the caller:
// lookup, expiry, visibility, owner lookup, token presence, aggregation,
// view recording.
func (s *Service) View(ctx context.Context, shareID string) (*SharedView, error) {
	shareID = strings.TrimSpace(shareID)
	if shareID == "" {
		return nil, ErrNotFound
	}

	share, err := s.shareRepo.FindByID(ctx, shareID)
	if err != nil {
		return nil, err
	}

	if share.Expired(s.now().UTC()) {
		return nil, ErrExpired
	}

	if !share.IsPublic {
		return nil, ErrPrivate
	}

	owner, err := s.profiles.FindOwner(ctx, share.OwnerID)
	if err != nil {
		return nil, ErrOwnerNotFound
	}

	if strings.TrimSpace(owner.GitHubToken) == "" {
		return nil, ErrTokenMissing
	}

	data, err := s.aggregator.Aggregate(ctx, owner.GitHubToken, owner.Username, share.Type, share.Settings.ShowPrivateRepos)
	if err != nil {
		logger.Error("share aggregation failed",
			zap.String("share_id", shareID),
			zap.String("type", string(share.Type)),
			zap.Error(err),
		)
		return nil, ErrUpstream
	}

	// Best effort. A failed increment never turns a computed aggregate
	// into an error response.
	viewCount := share.ViewCount
	if count, err := s.shareRepo.IncrementViewCount(ctx, shareID); err != nil {
		logger.Warn("view count increment failed", zap.String("share_id", shareID), zap.Error(err))
	} else {
		viewCount = count
	}
	if s.outbox != nil {
		if err := s.outbox.EnqueueView(ctx, shareID, s.now().UTC()); err != nil {
			logger.Warn("view event enqueue failed", zap.String("share_id", shareID), zap.Error(err))
		}
	}

	return &SharedView{
		ShareID:   share.ShareID,
		Username:  share.Username,
		Avatar:    share.Avatar,
		Type:      share.Type,
		Title:     share.Title,
		Data:      data,
		CreatedAt: share.CreatedAt,
		IsPublic:  share.IsPublic,
		Settings:  share.Settings,
		ViewCount: viewCount,
	}, nil
}

// DailyViews returns the per-day view series for an owned share.
func (s *Service) DailyViews(ctx context.Context, ownerID, shareID string, days int) ([]DailyCount, error) {
	if _, err := s.Get(ctx, ownerID, shareID); err != nil {
		return nil, err
	}
	if days <= 0 || days > 90 {
		days = 30
	}
	return s.viewStats.GetDaily(ctx, shareID, days)
}
