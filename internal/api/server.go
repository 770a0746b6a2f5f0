package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gamedex/internal/catalog"
	"gamedex/internal/metrics"
	"gamedex/internal/recommend"
	"gamedex/internal/slots"
)

// CatalogStore is the read interface the action server consumes. Results are
// materialized value objects; nothing here lazy-loads.
type CatalogStore interface {
	GameByName(ctx context.Context, name string) (*catalog.Game, error)
	TopTags(ctx context.Context) ([]catalog.NamedCount, error)
	TopPublishers(ctx context.Context) ([]catalog.NamedCount, error)
	Enrich(ctx context.Context, games []catalog.Game) ([]catalog.Game, error)
	TagNames(ctx context.Context) ([]string, error)
	PublisherNames(ctx context.Context) ([]string, error)
}

type Recommender interface {
	Recommend(ctx context.Context, cfg slots.FilterConfig) (recommend.Result, error)
	TopByPublisher(ctx context.Context, publisher string, limit int) ([]catalog.Game, error)
}

type ImageChecker interface {
	IsImage(ctx context.Context, rawURL string) (bool, error)
}

type Server struct {
	log       *slog.Logger
	store     CatalogStore
	rec       Recommender
	images    ImageChecker
	validator *slots.Validator
	mux       *chi.Mux
}

func New(logger *slog.Logger, store CatalogStore, rec Recommender, images ImageChecker) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		log:       logger,
		store:     store,
		rec:       rec,
		images:    images,
		validator: slots.NewValidator(store, logger),
		mux:       chi.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	r := s.mux
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/webhook", s.handleWebhook)
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	var req WebhookRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.NextAction == "" {
		writeError(w, http.StatusBadRequest, "next_action is required")
		return
	}

	tracker := newTrackerStore(req.Tracker.Slots)
	dispatcher := &Dispatcher{}

	extra, err := s.runAction(r.Context(), req.NextAction, tracker, dispatcher)
	switch {
	case errors.Is(err, errUnknownAction):
		metrics.WebhookRequests.WithLabelValues(req.NextAction, "unknown").Inc()
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown action %q", req.NextAction))
		return
	case err != nil:
		metrics.WebhookRequests.WithLabelValues(req.NextAction, "error").Inc()
		s.log.Error("action failed", "action", req.NextAction, "sender_id", req.SenderID, "err", err)
		writeError(w, http.StatusInternalServerError, "action failed")
		return
	}
	metrics.WebhookRequests.WithLabelValues(req.NextAction, "ok").Inc()

	events := tracker.events()
	events = append(events, extra...)
	if events == nil {
		events = []Event{}
	}
	responses := dispatcher.Responses()
	if responses == nil {
		responses = []Response{}
	}
	writeJSON(w, http.StatusOK, WebhookResponse{Events: events, Responses: responses})
}

func decodeJSON(r *http.Request, out any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}
