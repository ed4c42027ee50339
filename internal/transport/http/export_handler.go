package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/devmetrics/gitpulse/internal/constants"
	"github.com/devmetrics/gitpulse/internal/infrastructure/logger"
	appvalidation "github.com/devmetrics/gitpulse/internal/infrastructure/validation"
	"github.com/devmetrics/gitpulse/internal/processing/export"
	"github.com/devmetrics/gitpulse/internal/processing/profiles"
	"github.com/devmetrics/gitpulse/internal/processing/stats"
	"github.com/devmetrics/gitpulse/internal/transport/http/middleware"
	"github.com/devmetrics/gitpulse/pkg/httputils"
	"go.uber.org/zap"
)

type ExportHandler struct {
	profiles *profiles.Service
	svc      *export.Service
}

func NewExportHandler(profileSvc *profiles.Service, svc *export.Service) *ExportHandler {
	return &ExportHandler{profiles: profileSvc, svc: svc}
}

func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	var req export.Input
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputils.WriteAPIError(w, r, constants.ErrInvalidRequestBody)
		return
	}
	if err := appvalidation.Validate(req); err != nil {
		httputils.WriteAPIError(w, r, validationError(err))
		return
	}

	profile, err := h.profiles.Get(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		if errors.Is(err, profiles.ErrNotFound) {
			httputils.WriteAPIError(w, r, constants.ErrOwnerNotFound)
			return
		}
		logger.Error("failed to load profile for export", zap.Error(err))
		httputils.WriteAPIError(w, r, constants.ErrInternalError)
		return
	}
	if strings.TrimSpace(profile.GitHubToken) == "" {
		httputils.WriteAPIError(w, r, constants.ErrTokenMissing)
		return
	}

	doc, err := h.svc.Export(r.Context(), profile.GitHubToken, profile.GitHubUsername, req)
	if err != nil {
		switch {
		case errors.Is(err, stats.ErrUnknownKind):
			httputils.WriteAPIError(w, r, constants.ErrInvalidShareType)
		default:
			logger.Error("export failed",
				zap.String("export_type", req.ExportType),
				zap.Error(err),
			)
			httputils.WriteAPIError(w, r, constants.ErrUpstreamFailed)
		}
		return
	}

	httputils.WriteAPISuccess(w, r, constants.SuccessExported, doc)
}
