package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/devmetrics/gitpulse/internal/config"
	"github.com/devmetrics/gitpulse/internal/constants"
	"github.com/devmetrics/gitpulse/internal/infrastructure/logger"
	appvalidation "github.com/devmetrics/gitpulse/internal/infrastructure/validation"
	"github.com/devmetrics/gitpulse/internal/processing/profiles"
	"github.com/devmetrics/gitpulse/internal/processing/shares"
	"github.com/devmetrics/gitpulse/internal/processing/stats"
	"github.com/devmetrics/gitpulse/internal/transport/http/middleware"
	"github.com/devmetrics/gitpulse/pkg/httputils"
	"go.uber.org/zap"
)

type SharesHandler struct {
	cfg *config.Config
	svc *shares.Service
}

func NewSharesHandler(cfg *config.Config, svc *shares.Service) *SharesHandler {
	return &SharesHandler{cfg: cfg, svc: svc}
}

type shareResponse struct {
	*shares.Share
	ShareURL string `json:"shareUrl"`
}

func (h *SharesHandler) shareResponse(share *shares.Share) shareResponse {
	return shareResponse{Share: share, ShareURL: share.ShareURL(h.cfg.Share.BaseURL)}
}

func (h *SharesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req shares.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputils.WriteAPIError(w, r, constants.ErrInvalidRequestBody)
		return
	}
	if err := appvalidation.Validate(req); err != nil {
		httputils.WriteAPIError(w, r, validationError(err))
		return
	}

	share, err := h.svc.Create(r.Context(), middleware.UserID(r.Context()), req)
	if err != nil {
		switch {
		case errors.Is(err, stats.ErrUnknownKind):
			httputils.WriteAPIError(w, r, constants.ErrInvalidShareType)
		case errors.Is(err, profiles.ErrNotFound):
			httputils.WriteAPIError(w, r, constants.ErrOwnerNotFound)
		default:
			logger.Error("failed to create share", zap.Error(err))
			httputils.WriteAPIError(w, r, constants.ErrInternalError)
		}
		return
	}

	httputils.WriteAPISuccess(w, r, constants.SuccessShareCreated, h.shareResponse(share))
}

func (h *SharesHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListByOwner(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		logger.Error("failed to list shares", zap.Error(err))
		httputils.WriteAPIError(w, r, constants.ErrInternalError)
		return
	}

	out := make([]shareResponse, 0, len(list))
	for i := range list {
		out = append(out, h.shareResponse(&list[i]))
	}
	httputils.WriteAPISuccess(w, r, constants.SuccessSharesFound, out)
}

func (h *SharesHandler) Update(w http.ResponseWriter, r *http.Request) {
	shareID := r.PathValue("shareId")

	var req shares.UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputils.WriteAPIError(w, r, constants.ErrInvalidRequestBody)
		return
	}
	if err := appvalidation.Validate(req); err != nil {
		httputils.WriteAPIError(w, r, validationError(err))
		return
	}

	share, err := h.svc.Update(r.Context(), middleware.UserID(r.Context()), shareID, req)
	if err != nil {
		h.writeShareError(w, r, shareID, "update", err)
		return
	}

	httputils.WriteAPISuccess(w, r, constants.SuccessShareUpdated, h.shareResponse(share))
}

func (h *SharesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	shareID := r.PathValue("shareId")

	if err := h.svc.Delete(r.Context(), middleware.UserID(r.Context()), shareID); err != nil {
		h.writeShareError(w, r, shareID, "delete", err)
		return
	}

	httputils.WriteAPISuccess(w, r, constants.SuccessShareDeleted, map[string]bool{"success": true})
}

type viewsResponse struct {
	ShareID string              `json:"shareId"`
	Days    int                 `json:"days"`
	Daily   []shares.DailyCount `json:"daily"`
}

func (h *SharesHandler) Views(w http.ResponseWriter, r *http.Request) {
	shareID := r.PathValue("shareId")

	days := 30
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 90 {
			httputils.WriteAPIError(w, r, constants.ErrInvalidRequestBody.WithMessage("days must be between 1 and 90"))
			return
		}
		days = parsed
	}

	daily, err := h.svc.DailyViews(r.Context(), middleware.UserID(r.Context()), shareID, days)
	if err != nil {
		h.writeShareError(w, r, shareID, "views", err)
		return
	}

	httputils.WriteAPISuccess(w, r, constants.SuccessViewsFound, viewsResponse{
		ShareID: shareID,
		Days:    days,
		Daily:   daily,
	})
}

func (h *SharesHandler) writeShareError(w http.ResponseWriter, r *http.Request, shareID, op string, err error) {
	switch {
	case errors.Is(err, shares.ErrNotFound):
		httputils.WriteAPIError(w, r, constants.ErrShareNotFound)
	case errors.Is(err, shares.ErrNotOwner):
		httputils.WriteAPIError(w, r, constants.ErrForbidden)
	case errors.Is(err, stats.ErrUnknownKind):
		httputils.WriteAPIError(w, r, constants.ErrInvalidShareType)
	default:
		logger.Error("share operation failed",
			zap.String("op", op),
			zap.String("share_id", shareID),
			zap.Error(err),
		)
		httputils.WriteAPIError(w, r, constants.ErrInternalError)
	}
}
