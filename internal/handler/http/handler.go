package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"cartflow/internal/eventlog"
	"cartflow/internal/order"
	"cartflow/internal/session"
	"cartflow/internal/user"
)

// Auditor is the slice of the event log the handlers need. Append
// failures are swallowed at the call site: the audit trail is best-effort
// and never fails a business operation.
type Auditor interface {
	Append(ev eventlog.Event) error
	Tail(limit int) ([]eventlog.Event, error)
}

type Handler struct {
	sessions *session.Manager
	users    *user.Service
	archive  *order.Archive
	events   Auditor
	validate *validator.Validate
	now      func() time.Time
}

func NewHandler(sessions *session.Manager, users *user.Service, archive *order.Archive, events Auditor) *Handler {
	return &Handler{
		sessions: sessions,
		users:    users,
		archive:  archive,
		events:   events,
		validate: validator.New(),
		now:      time.Now,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("OK"))
	})

	router.Route("/api", func(r chi.Router) {
		r.Use(h.withSession)

		r.Get("/catalog", h.handleCatalog)
		r.Post("/signup", h.handleSignup)
		r.Post("/login", h.handleLogin)
		r.Post("/logout", h.handleLogout)
		r.Get("/me", h.handleMe)

		r.Group(func(r chi.Router) {
			r.Use(h.requireAuth)

			r.Get("/order", h.handleGetOrder)
			r.Post("/cart/add", h.handleCartAdd)
			r.Post("/cart/remove", h.handleCartRemove)
			r.Post("/order/pay", h.handlePay)
			r.Post("/order/ship", h.handleShip)
			r.Post("/order/deliver", h.handleDeliver)
			r.Post("/order/reset", h.handleReset)
			r.Get("/logs", h.handleLogs)
			r.Post("/export", h.handleExport)
		})
	})

	router.NotFound(h.handleNotFound)
}

func (h *Handler) handleNotFound(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusNotFound, map[string]any{"error": "Not found", "path": r.URL.Path})
}

// logEvent appends one audit record with snapshots of the session's order
// and user taken now.
func (h *Handler) logEvent(r *http.Request, s *session.Session, eventType string, data map[string]any) {
	ev := eventlog.Event{
		TS:   h.now().UnixMilli(),
		Type: eventType,
		Path: r.URL.RequestURI(),
		IP:   r.RemoteAddr,
		Data: data,
	}
	if s != nil {
		ev.Order = s.Order
		if s.User != nil {
			ev.User = s.User.Public()
		}
	}
	if err := h.events.Append(ev); err != nil {
		log.Warn().Err(err).Str("event_type", eventType).Msg("Failed to append audit event")
	}
}
