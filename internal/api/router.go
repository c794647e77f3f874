package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"
	"github.com/inspectorhq/webhook-inspector/internal/ingest"
	"github.com/inspectorhq/webhook-inspector/internal/web"
	ws "github.com/inspectorhq/webhook-inspector/internal/websocket"
)

// NewRouter creates and configures the HTTP router: the JSON API under /api,
// the websocket endpoint, and the HTML views at the root.
func NewRouter(svc *ingest.Service, hub *ws.Hub, views *web.Handler, logger *slog.Logger) http.Handler {
	requestLogger := httplog.NewLogger("webhook-inspector", httplog.Options{
		JSON: true,
	})

	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(requestLogger))
	r.Use(recoverJSON(logger))
	r.Use(middleware.Heartbeat("/ping"))

	webhookHandler := NewWebhookHandler(svc, hub)

	// WebSocket endpoint for live list updates
	r.Get("/ws", hub.HandleWebSocket)

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", HealthHandler())

		r.Route("/webhooks", func(r chi.Router) {
			r.Post("/", webhookHandler.Receive)
			r.Get("/", webhookHandler.List)
			r.Get("/{id:[0-9]+}", webhookHandler.Get)

			// Ids that fail the digit constraint land here; they get the
			// same taxonomy as a missing record, not the HTML 404
			r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
				respondError(w, http.StatusNotFound, "Webhook not found")
			})
		})

		r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
			respondError(w, http.StatusNotFound, "Not found")
		})
	})

	// HTML views
	r.Get("/", views.Index)
	r.Get("/{id:[0-9]+}", views.Detail)
	r.NotFound(views.NotFound)

	return r
}

// recoverJSON converts any panic in request handling into a generic 500 JSON
// response. Internal detail stays in the log, never in the response.
func recoverJSON(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					logger.Error("panic in request handler",
						"path", r.URL.Path,
						"panic", rec,
					)
					respondError(w, http.StatusInternalServerError, "Internal server error")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
