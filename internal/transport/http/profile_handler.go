package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/devmetrics/gitpulse/internal/constants"
	"github.com/devmetrics/gitpulse/internal/infrastructure/logger"
	appvalidation "github.com/devmetrics/gitpulse/internal/infrastructure/validation"
	"github.com/devmetrics/gitpulse/internal/processing/profiles"
	"github.com/devmetrics/gitpulse/internal/transport/http/middleware"
	"github.com/devmetrics/gitpulse/pkg/httputils"
	"go.uber.org/zap"
)

type ProfileHandler struct {
	svc *profiles.Service
}

func NewProfileHandler(svc *profiles.Service) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

// profileResponse is the client-facing projection. The stored GitHub token
// never appears here.
type profileResponse struct {
	UserID         string    `json:"userId"`
	GitHubUsername string    `json:"githubUsername"`
	Avatar         string    `json:"avatar"`
	Theme          string    `json:"theme"`
	EmailUpdates   bool      `json:"emailUpdates"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func toProfileResponse(p *profiles.Profile) profileResponse {
	return profileResponse{
		UserID:         p.UserID,
		GitHubUsername: p.GitHubUsername,
		Avatar:         p.Avatar,
		Theme:          p.Theme,
		EmailUpdates:   p.EmailUpdates,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	profile, err := h.svc.Get(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		if errors.Is(err, profiles.ErrNotFound) {
			httputils.WriteAPIError(w, r, constants.ErrOwnerNotFound)
			return
		}
		logger.Error("failed to load profile", zap.Error(err))
		httputils.WriteAPIError(w, r, constants.ErrInternalError)
		return
	}

	httputils.WriteAPISuccess(w, r, constants.SuccessProfileFound, toProfileResponse(profile))
}

type updateProfileRequest struct {
	Theme        *string `json:"theme" validate:"omitempty,oneof=light dark system"`
	EmailUpdates *bool   `json:"emailUpdates"`
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputils.WriteAPIError(w, r, constants.ErrInvalidRequestBody)
		return
	}
	if err := appvalidation.Validate(req); err != nil {
		httputils.WriteAPIError(w, r, validationError(err))
		return
	}

	profile, err := h.svc.UpdateSettings(r.Context(), middleware.UserID(r.Context()), profiles.SettingsPatch{
		Theme:        req.Theme,
		EmailUpdates: req.EmailUpdates,
	})
	if err != nil {
		if errors.Is(err, profiles.ErrNotFound) {
			httputils.WriteAPIError(w, r, constants.ErrOwnerNotFound)
			return
		}
		logger.Error("failed to update profile", zap.Error(err))
		httputils.WriteAPIError(w, r, constants.ErrInternalError)
		return
	}

	httputils.WriteAPISuccess(w, r, constants.SuccessProfileSaved, toProfileResponse(profile))
}
