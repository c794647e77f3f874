package api

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/inspectorhq/webhook-inspector/internal/ingest"
	ws "github.com/inspectorhq/webhook-inspector/internal/websocket"
)

type WebhookHandler struct {
	service *ingest.Service
	hub     *ws.Hub
}

func NewWebhookHandler(svc *ingest.Service, hub *ws.Hub) *WebhookHandler {
	return &WebhookHandler{service: svc, hub: hub}
}

type receiveResponse struct {
	Status string `json:"status"`
	ID     int64  `json:"id"`
}

// Receive handles POST /api/webhooks. The body is taken as-is; any headers
// and query string are captured alongside it.
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	// Headers and query params are snapshotted here, at handling time
	headers := flattenHeader(r.Header)
	queryParams := flattenValues(r.URL.Query())

	id, err := h.service.Receive(r.Context(), body, headers, queryParams)
	if err != nil {
		switch {
		case errors.Is(err, ingest.ErrInvalidUTF8):
			respondError(w, http.StatusBadRequest, "Invalid UTF-8 data")
		case errors.Is(err, ingest.ErrInvalidJSON):
			respondError(w, http.StatusBadRequest, "Invalid JSON data")
		default:
			respondError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	if h.hub != nil {
		h.hub.Broadcast(ws.ReceivedEvent{
			Type:       "webhook.received",
			ID:         id,
			ReceivedAt: time.Now().UTC(),
		})
	}

	respondJSON(w, http.StatusCreated, receiveResponse{Status: "saved", ID: id})
}

func (h *WebhookHandler) List(w http.ResponseWriter, r *http.Request) {
	webhooks, err := h.service.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, webhooks)
}

func (h *WebhookHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusNotFound, "Webhook not found")
		return
	}

	webhook, err := h.service.Get(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if webhook == nil {
		respondError(w, http.StatusNotFound, "Webhook not found")
		return
	}

	respondJSON(w, http.StatusOK, webhook)
}

// flattenHeader keeps the first value per header name.
func flattenHeader(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for name, values := range h {
		if len(values) > 0 {
			out[name] = values[0]
		}
	}
	return out
}

// flattenValues keeps the first value per query parameter.
func flattenValues(v url.Values) map[string]string {
	out := make(map[string]string, len(v))
	for name, values := range v {
		if len(values) > 0 {
			out[name] = values[0]
		}
	}
	return out
}
