// Package web renders the human-readable views: a list page showing every
// received webhook and the URL to send them to, and a detail page with the
// record pretty-printed.
package web

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/inspectorhq/webhook-inspector/internal/domain"
	"github.com/inspectorhq/webhook-inspector/internal/ingest"
)

//go:embed templates/*.html
var templateFiles embed.FS

type Handler struct {
	service   *ingest.Service
	templates *template.Template
	logger    *slog.Logger
}

func NewHandler(svc *ingest.Service, logger *slog.Logger) (*Handler, error) {
	tmpl, err := template.ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	return &Handler{
		service:   svc,
		templates: tmpl,
		logger:    logger,
	}, nil
}

type indexData struct {
	WebhookURL string
	Webhooks   []domain.Webhook
}

type detailData struct {
	Webhook     *domain.Webhook
	Body        string
	Headers     string
	QueryParams string
}

type errorData struct {
	Status  int
	Message string
}

// Index renders the list page with the ingestion URL and a link per record.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	webhooks, err := h.service.List(r.Context())
	if err != nil {
		h.serverError(w, err)
		return
	}

	h.render(w, http.StatusOK, "index.html", indexData{
		WebhookURL: fmt.Sprintf("%s://%s/api/webhooks", requestScheme(r), r.Host),
		Webhooks:   webhooks,
	})
}

// Detail renders one record with body, headers, and query params
// pretty-printed as indented JSON.
func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.render(w, http.StatusNotFound, "error.html", errorData{
			Status:  http.StatusNotFound,
			Message: "Webhook not found",
		})
		return
	}

	webhook, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.serverError(w, err)
		return
	}
	if webhook == nil {
		h.render(w, http.StatusNotFound, "error.html", errorData{
			Status:  http.StatusNotFound,
			Message: "Webhook not found",
		})
		return
	}

	body, err := prettyJSON(webhook.Body)
	if err != nil {
		h.serverError(w, err)
		return
	}
	headers, err := prettyValue(webhook.Headers)
	if err != nil {
		h.serverError(w, err)
		return
	}
	queryParams, err := prettyValue(webhook.QueryParams)
	if err != nil {
		h.serverError(w, err)
		return
	}

	h.render(w, http.StatusOK, "webhook.html", detailData{
		Webhook:     webhook,
		Body:        body,
		Headers:     headers,
		QueryParams: queryParams,
	})
}

// NotFound renders the 404 page for paths no route matched.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusNotFound, "error.html", errorData{
		Status:  http.StatusNotFound,
		Message: "Not found",
	})
}

// render executes the template into a buffer first, so a template fault can
// still become a clean 500 instead of a half-written page.
func (h *Handler) render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := h.templates.ExecuteTemplate(&buf, name, data); err != nil {
		h.serverError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (h *Handler) serverError(w http.ResponseWriter, err error) {
	h.logger.Error("rendering page failed", "error", err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write([]byte(`{"detail": "Internal server error"}`))
}

func requestScheme(r *http.Request) string {
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		return proto
	}
	if r.TLS != nil {
		return "https"
	}
	return "http"
}

// prettyJSON re-indents an already-valid JSON document.
func prettyJSON(raw json.RawMessage) (string, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return "", fmt.Errorf("indenting body: %w", err)
	}
	return buf.String(), nil
}

func prettyValue(v any) (string, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("formatting value: %w", err)
	}
	return string(out), nil
}
