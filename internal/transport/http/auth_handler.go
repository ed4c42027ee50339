package http

import (
	"net/http"
	"strconv"

	"github.com/devmetrics/gitpulse/internal/auth"
	"github.com/devmetrics/gitpulse/internal/config"
	"github.com/devmetrics/gitpulse/internal/constants"
	"github.com/devmetrics/gitpulse/internal/infrastructure/logger"
	"github.com/devmetrics/gitpulse/internal/processing/profiles"
	"github.com/devmetrics/gitpulse/internal/transport/http/middleware"
	"github.com/devmetrics/gitpulse/pkg/httputils"
	"go.uber.org/zap"
)

const stateCookie = "gp_oauth_state"

type AuthHandler struct {
	cfg      *config.Config
	provider *auth.GitHubProvider
	tokens   *auth.TokenService
	profiles *profiles.Service
}

func NewAuthHandler(cfg *config.Config, provider *auth.GitHubProvider, tokens *auth.TokenService, profileSvc *profiles.Service) *AuthHandler {
	return &AuthHandler{cfg: cfg, provider: provider, tokens: tokens, profiles: profileSvc}
}

// Login redirects the browser to GitHub with a fresh CSRF state.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	state, err := auth.NewState()
	if err != nil {
		logger.Error("failed to mint oauth state", zap.Error(err))
		httputils.WriteAPIError(w, r, constants.ErrInternalError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/auth",
		MaxAge:   300,
		HttpOnly: true,
		Secure:   h.cfg.App.Env != "development",
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.provider.AuthURL(state), http.StatusTemporaryRedirect)
}

type authResponse struct {
	Token   string          `json:"token"`
	Profile profileResponse `json:"profile"`
}

// Callback completes the OAuth flow: verifies the state, exchanges the code,
// upserts the profile with the GitHub access token, and issues a session.
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(stateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
		httputils.WriteAPIError(w, r, constants.ErrUnauthorized.WithMessage("OAuth state mismatch"))
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		httputils.WriteAPIError(w, r, constants.ErrInvalidRequestBody.WithMessage("missing code"))
		return
	}

	ghUser, accessToken, err := h.provider.Exchange(r.Context(), code)
	if err != nil {
		logger.Error("oauth exchange failed", zap.Error(err))
		httputils.WriteAPIError(w, r, constants.ErrUnauthorized.WithMessage("GitHub authorization failed"))
		return
	}

	userID := "gh_" + strconv.FormatInt(ghUser.ID, 10)
	profile, err := h.profiles.UpsertFromOAuth(r.Context(), profiles.OAuthUpsert{
		UserID:      userID,
		GitHubID:    ghUser.ID,
		Username:    ghUser.Login,
		Avatar:      ghUser.AvatarURL,
		AccessToken: accessToken,
	})
	if err != nil {
		logger.Error("profile upsert failed", zap.String("user_id", userID), zap.Error(err))
		httputils.WriteAPIError(w, r, constants.ErrInternalError)
		return
	}

	session, err := h.tokens.Generate(userID)
	if err != nil {
		logger.Error("session token generation failed", zap.Error(err))
		httputils.WriteAPIError(w, r, constants.ErrInternalError)
		return
	}

	// Clear the state cookie and set the session.
	http.SetCookie(w, &http.Cookie{Name: stateCookie, Value: "", Path: "/auth", MaxAge: -1})
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    session,
		Path:     "/",
		MaxAge:   int(h.cfg.Auth.TokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.App.Env != "development",
		SameSite: http.SameSiteLaxMode,
	})

	httputils.WriteAPISuccess(w, r, constants.SuccessAuthenticated, authResponse{
		Token:   session,
		Profile: toProfileResponse(profile),
	})
}
