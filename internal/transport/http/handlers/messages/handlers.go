package messageshandler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ems/internal/domain/messaging"
	"ems/internal/domain/rbac"
	"ems/internal/requestctx"
	"ems/internal/transport/http/api"
	"ems/internal/transport/http/middleware"
	"ems/internal/transport/http/shared"
)

type Handler struct {
	Service *messaging.Service
}

func NewHandler(service *messaging.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/messages", h.HandleSend)
	r.Get("/messages/thread", h.HandleThread)
	r.Get("/messages/unread-count", h.HandleUnreadCount)
}

type sendRequest struct {
	RecipientRole string `json:"recipientRole"`
	RecipientID   string `json:"recipientId"`
	Body          string `json:"body"`
}

func (h *Handler) HandleSend(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())

	var payload sendRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("recipientRole", payload.RecipientRole, "recipient role is required")
	v.Required("recipientId", payload.RecipientID, "recipient id is required")
	v.Required("body", payload.Body, "message body is required")
	if v.Reject(w, reqID) {
		return
	}

	recipient := rbac.Peer{ID: payload.RecipientID, Role: rbac.Role(payload.RecipientRole)}
	message, err := h.Service.Send(r.Context(), actor, recipient, payload.Body)
	if err != nil {
		shared.WriteDomainError(w, err, reqID)
		return
	}
	api.Created(w, message, reqID)
}

func (h *Handler) HandleThread(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())

	q := r.URL.Query()
	other := rbac.Peer{ID: q.Get("id"), Role: rbac.Role(q.Get("role"))}

	v := shared.NewValidator()
	v.Required("role", string(other.Role), "counterpart role is required")
	v.Required("id", other.ID, "counterpart id is required")
	if v.Reject(w, reqID) {
		return
	}

	thread, err := h.Service.Thread(r.Context(), actor, other)
	if err != nil {
		shared.WriteDomainError(w, err, reqID)
		return
	}
	api.Success(w, thread, reqID)
}

func (h *Handler) HandleUnreadCount(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	actor, _ := middleware.GetActor(r.Context())

	count, err := h.Service.UnreadCount(r.Context(), actor)
	if err != nil {
		shared.WriteDomainError(w, err, reqID)
		return
	}
	api.Success(w, map[string]int{"unread": count}, reqID)
}
