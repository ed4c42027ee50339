package profiles

import (
	"context"
	"strings"
	"time"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) Get(ctx context.Context, userID string) (*Profile, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrNotFound
	}
	return s.repo.FindByID(ctx, userID)
}

// OAuthUpsert is the identity snapshot taken at the end of the GitHub OAuth
// callback. The access token is stored so the share path can fetch the
// owner's data on behalf of anonymous viewers.
type OAuthUpsert struct {
	UserID      string
	GitHubID    int64
	Username    string
	Avatar      string
	AccessToken string
}

func (s *Service) UpsertFromOAuth(ctx context.Context, in OAuthUpsert) (*Profile, error) {
	now := s.now().UTC()

	profile := &Profile{
		UserID:         in.UserID,
		GitHubID:       in.GitHubID,
		GitHubUsername: in.Username,
		GitHubToken:    in.AccessToken,
		Avatar:         in.Avatar,
		Theme:          "system",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Upsert(ctx, profile); err != nil {
		return nil, err
	}

	// On re-login the upsert preserves stored settings and createdAt, so the
	// written snapshot is not what the document holds. Read it back.
	return s.repo.FindByID(ctx, in.UserID)
}

func (s *Service) UpdateSettings(ctx context.Context, userID string, patch SettingsPatch) (*Profile, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrNotFound
	}
	return s.repo.UpdateSettings(ctx, userID, patch)
}
