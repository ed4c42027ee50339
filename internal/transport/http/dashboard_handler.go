package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/devmetrics/gitpulse/internal/constants"
	"github.com/devmetrics/gitpulse/internal/infrastructure/logger"
	"github.com/devmetrics/gitpulse/internal/processing/profiles"
	"github.com/devmetrics/gitpulse/internal/processing/stats"
	"github.com/devmetrics/gitpulse/internal/transport/http/middleware"
	"github.com/devmetrics/gitpulse/pkg/httputils"
	"go.uber.org/zap"
)

// DashboardHandler serves the owner's own dashboard aggregate. Unlike the
// share path this always includes the full repository set.
type DashboardHandler struct {
	profiles *profiles.Service
	engine   *stats.Engine
}

func NewDashboardHandler(profileSvc *profiles.Service, engine *stats.Engine) *DashboardHandler {
	return &DashboardHandler{profiles: profileSvc, engine: engine}
}

func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profiles.Get(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		if errors.Is(err, profiles.ErrNotFound) {
			httputils.WriteAPIError(w, r, constants.ErrOwnerNotFound)
			return
		}
		logger.Error("failed to load profile for dashboard", zap.Error(err))
		httputils.WriteAPIError(w, r, constants.ErrInternalError)
		return
	}
	if strings.TrimSpace(profile.GitHubToken) == "" {
		httputils.WriteAPIError(w, r, constants.ErrTokenMissing)
		return
	}

	data, err := h.engine.Aggregate(r.Context(), profile.GitHubToken, profile.GitHubUsername, stats.KindDashboard, true)
	if err != nil {
		logger.Error("dashboard aggregation failed",
			zap.String("username", profile.GitHubUsername),
			zap.Error(err),
		)
		httputils.WriteAPIError(w, r, constants.ErrUpstreamFailed)
		return
	}

	httputils.WriteAPISuccess(w, r, constants.SuccessDashboardFound, data)
}
