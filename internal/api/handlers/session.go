package handlers

import (
	"context"
	"net/http"

	"github.com/pratik-mahalle/mxcloud/internal/api/dto"
	"github.com/pratik-mahalle/mxcloud/internal/api/middleware"
	"github.com/pratik-mahalle/mxcloud/internal/auth"
	"github.com/pratik-mahalle/mxcloud/internal/pkg/logger"
	"github.com/pratik-mahalle/mxcloud/internal/pkg/utils"
	"github.com/pratik-mahalle/mxcloud/internal/pkg/validator"
	"github.com/pratik-mahalle/mxcloud/internal/services"
)

// SessionManager is the master password lifecycle
type SessionManager interface {
	Setup(ctx context.Context, password string) (*auth.SessionToken, error)
	Unlock(ctx context.Context, password string) (*auth.SessionToken, error)
	Lock()
	Status(ctx context.Context) (*services.SessionStatus, error)
}

type SessionHandler struct {
	sessions  SessionManager
	logger    *logger.Logger
	validator *validator.Validator
}

func NewSessionHandler(sessions SessionManager, log *logger.Logger, val *validator.Validator) *SessionHandler {
	return &SessionHandler{sessions: sessions, logger: log, validator: val}
}

// Status reports whether a master password exists and whether it is unlocked
// @Summary Session status
// @Tags Session
// @Produce json
// @Success 200 {object} dto.SessionStatusDTO
// @Router /session [get]
func (h *SessionHandler) Status(w http.ResponseWriter, r *http.Request) {
	st, err := h.sessions.Status(r.Context())
	if err != nil {
		utils.WriteErr(w, err, "Failed to read session status")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, dto.SessionStatusDTO{Configured: st.Configured, Unlocked: st.Unlocked})
}

// Setup stores the master password the first time
// @Summary Set up master password
// @Tags Session
// @Accept json
// @Produce json
// @Param request body dto.PasswordRequest true "Master password"
// @Success 201 {object} dto.SessionTokenDTO
// @Failure 409 {object} utils.ErrorResponse "Already set up"
// @Router /session/setup [post]
func (h *SessionHandler) Setup(w http.ResponseWriter, r *http.Request) {
	var req dto.PasswordRequest
	if !decodeJSON(w, r, h.validator, &req) {
		return
	}

	tok, err := h.sessions.Setup(r.Context(), req.Password)
	if err != nil {
		utils.WriteErr(w, err, "Failed to set up master password")
		return
	}
	h.writeToken(w, r, http.StatusCreated, tok)
}

// Unlock verifies the master password and opens a session
// @Summary Unlock
// @Tags Session
// @Accept json
// @Produce json
// @Param request body dto.PasswordRequest true "Master password"
// @Success 200 {object} dto.SessionTokenDTO
// @Failure 401 {object} utils.ErrorResponse "Wrong password"
// @Router /session/unlock [post]
func (h *SessionHandler) Unlock(w http.ResponseWriter, r *http.Request) {
	var req dto.PasswordRequest
	if !decodeJSON(w, r, h.validator, &req) {
		return
	}

	tok, err := h.sessions.Unlock(r.Context(), req.Password)
	if err != nil {
		utils.WriteErr(w, err, "Failed to unlock")
		return
	}
	h.writeToken(w, r, http.StatusOK, tok)
}

// Lock forgets the master password
// @Summary Lock
// @Tags Session
// @Success 200 {object} utils.SuccessResponse
// @Router /session/lock [post]
func (h *SessionHandler) Lock(w http.ResponseWriter, r *http.Request) {
	h.sessions.Lock()
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	utils.WriteSuccessWithMessage(w, http.StatusOK, "Session locked", nil)
}

func (h *SessionHandler) writeToken(w http.ResponseWriter, r *http.Request, status int, tok *auth.SessionToken) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    tok.Token,
		Path:     "/",
		Expires:  tok.ExpiresAt,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	})
	utils.WriteSuccess(w, status, dto.SessionTokenDTO{Token: tok.Token, ExpiresAt: tok.ExpiresAt})
}
