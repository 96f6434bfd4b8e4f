package authhandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"ems/internal/domain/auth"
	"ems/internal/requestctx"
	"ems/internal/transport/http/api"
	"ems/internal/transport/http/middleware"
)

type Handler struct {
	Service  *auth.Service
	Secret   string
	TokenTTL time.Duration
}

func NewHandler(service *auth.Service, secret string, tokenTTL time.Duration) *Handler {
	return &Handler{Service: service, Secret: secret, TokenTTL: tokenTTL}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())

	var payload loginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	identity, err := h.Service.Login(r.Context(), payload.Username, payload.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", reqID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "internal_error", "login failed", reqID)
		return
	}

	token, err := auth.GenerateToken(h.Secret, auth.Claims{
		UserID:    identity.ID,
		Role:      identity.Role,
		CompanyID: identity.CompanyID,
		BranchID:  identity.BranchID,
		Name:      identity.Name,
	}, h.TokenTTL)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "token_error", "failed to issue token", reqID)
		return
	}

	api.Success(w, map[string]any{"token": token, "user": identity}, reqID)
}

// Tokens are stateless, so logout is an acknowledgment; the client discards
// the token and it expires on its own TTL.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	api.Success(w, map[string]string{"status": "logged_out"}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	api.Success(w, map[string]any{
		"id":        actor.ID,
		"role":      actor.Role,
		"companyId": actor.CompanyID,
		"branchId":  actor.BranchID,
	}, reqID)
}
