package http

import (
	"errors"
	"net/http"

	"github.com/devmetrics/gitpulse/internal/constants"
	"github.com/devmetrics/gitpulse/internal/infrastructure/logger"
	"github.com/devmetrics/gitpulse/internal/processing/shares"
	"github.com/devmetrics/gitpulse/pkg/httputils"
	"go.uber.org/zap"
)

// SharedHandler serves the unauthenticated share view endpoint.
type SharedHandler struct {
	svc *shares.Service
}

func NewSharedHandler(svc *shares.Service) *SharedHandler {
	return &SharedHandler{svc: svc}
}

// View runs the access checks in order and serves the aggregated payload.
// Each terminal failure maps to its own status so callers can tell a missing
// share from an expired or private one.
func (h *SharedHandler) View(w http.ResponseWriter, r *http.Request) {
	shareID := r.PathValue("shareId")

	view, err := h.svc.View(r.Context(), shareID)
	if err != nil {
		switch {
		case errors.Is(err, shares.ErrNotFound):
			httputils.WriteAPIError(w, r, constants.ErrShareNotFound)
		case errors.Is(err, shares.ErrExpired):
			httputils.WriteAPIError(w, r, constants.ErrShareExpired)
		case errors.Is(err, shares.ErrPrivate):
			httputils.WriteAPIError(w, r, constants.ErrSharePrivate)
		case errors.Is(err, shares.ErrOwnerNotFound):
			httputils.WriteAPIError(w, r, constants.ErrOwnerNotFound)
		case errors.Is(err, shares.ErrTokenMissing):
			httputils.WriteAPIError(w, r, constants.ErrTokenMissing)
		case errors.Is(err, shares.ErrUpstream):
			httputils.WriteAPIError(w, r, constants.ErrUpstreamFailed)
		default:
			logger.Error("failed to serve shared view", zap.String("share_id", shareID), zap.Error(err))
			httputils.WriteAPIError(w, r, constants.ErrInternalError)
		}
		return
	}

	httputils.WriteAPISuccess(w, r, constants.SuccessShareFound, view)
}
