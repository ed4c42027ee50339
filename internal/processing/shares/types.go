package shares

import (
	"time"

	"github.com/devmetrics/gitpulse/internal/processing/stats"
)

// Settings are the per-share options. ShowPrivateRepos gates what the
// aggregation may expose; the rest are presentation hints for viewers.
type Settings struct {
	AllowComments    bool `bson:"allowComments" json:"allowComments"`
	ShowAnalytics    bool `bson:"showAnalytics" json:"showAnalytics"`
	AutoExpire       bool `bson:"autoExpire" json:"autoExpire"`
	ExpireDays       int  `bson:"expireDays" json:"expireDays"`
	ShowPrivateRepos bool `bson:"showPrivateRepos" json:"showPrivateRepos"`
}

// Share is one share-link document. ShareID is the public identifier used in
// URLs; OwnerID is never exposed to viewers.
type Share struct {
	ShareID     string     `bson:"shareId" json:"shareId"`
	OwnerID     string     `bson:"ownerId" json:"-"`
	Username    string     `bson:"username" json:"username"`
	Avatar      string     `bson:"avatar" json:"avatar"`
	Title       string     `bson:"title" json:"title"`
	Description string     `bson:"description" json:"description"`
	Type        stats.Kind `bson:"type" json:"type"`
	IsPublic    bool       `bson:"isPublic" json:"isPublic"`
	Settings    Settings   `bson:"settings" json:"settings"`
	ViewCount   int64      `bson:"viewCount" json:"viewCount"`
	CreatedAt   time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time  `bson:"updatedAt" json:"updatedAt"`
	ExpiresAt   *time.Time `bson:"expiresAt,omitempty" json:"expiresAt,omitempty"`
}

// ShareURL is the absolute viewer URL for this share.
func (s *Share) ShareURL(baseURL string) string {
	return baseURL + "/shared/" + s.ShareID
}

// Expired reports whether the share has an expiry in the past.
func (s *Share) Expired(now time.Time) bool {
	return s.ExpiresAt != nil && now.After(*s.ExpiresAt)
}

// CreateInput carries a validated create request.
type CreateInput struct {
	Title       string         `json:"title" validate:"omitempty,notblank,max=200"`
	Description string         `json:"description" validate:"max=1000"`
	Type        string         `json:"type" validate:"required,sharetype"`
	IsPublic    *bool          `json:"isPublic"`
	Settings    *SettingsInput `json:"settings"`
}

// SettingsInput mirrors Settings with optional fields for create/update.
type SettingsInput struct {
	AllowComments    *bool `json:"allowComments"`
	ShowAnalytics    *bool `json:"showAnalytics"`
	AutoExpire       *bool `json:"autoExpire"`
	ExpireDays       *int  `json:"expireDays" validate:"omitempty,min=1,max=365"`
	ShowPrivateRepos *bool `json:"showPrivateRepos"`
}

// UpdateInput carries a validated partial update. Nil fields leave the stored
// value untouched.
type UpdateInput struct {
	Title       *string        `json:"title" validate:"omitempty,notblank,max=200"`
	Description *string        `json:"description" validate:"omitempty,max=1000"`
	Type        *string        `json:"type" validate:"omitempty,sharetype"`
	IsPublic    *bool          `json:"isPublic"`
	Settings    *SettingsInput `json:"settings"`
}

// SharedView is the payload served to an anonymous viewer. ViewCount is the
// post-increment value for this request.
type SharedView struct {
	ShareID   string          `json:"shareId"`
	Username  string          `json:"username"`
	Avatar    string          `json:"avatar"`
	Type      stats.Kind      `json:"type"`
	Title     string          `json:"title"`
	Data      stats.Aggregate `json:"data"`
	CreatedAt time.Time       `json:"createdAt"`
	IsPublic  bool            `json:"isPublic"`
	Settings  Settings        `json:"settings"`
	ViewCount int64           `json:"viewCount"`
}

// DailyCount is one day of the view analytics series.
type DailyCount struct {
	Day   string `json:"day"`
	Views int64  `json:"views"`
}
