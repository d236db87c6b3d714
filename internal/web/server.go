// Package web exposes decks, cards and study sessions over a JSON HTTP API.
package web

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/conorfennell/knoldeck/internal/domain"
	"github.com/conorfennell/knoldeck/internal/importer"
	"github.com/conorfennell/knoldeck/internal/study"
)

// Store is the storage used for deck and card management.
type Store interface {
	study.Store
	ListDecks(ctx context.Context) ([]domain.Deck, error)
	InsertDeck(ctx context.Context, d *domain.Deck) error
	DeleteDeck(ctx context.Context, id uuid.UUID) error
	InsertCard(ctx context.Context, c *domain.Card) error
	UpdateCardContent(ctx context.Context, id uuid.UUID, front, back, hash string, now time.Time) error
	DeleteCard(ctx context.Context, id uuid.UUID) error
	ReviewHistory(ctx context.Context, cardID uuid.UUID) ([]domain.ReviewLog, error)
	Ping(ctx context.Context) error
}

// Server holds the dependencies for the HTTP server.
type Server struct {
	store    Store
	study    *study.Service
	importer *importer.Importer
	router   chi.Router
	validate *validator.Validate
	clock    func() time.Time
	shuffle  bool
	limit    int
}

// Options carries the study defaults applied when a request does not set
// them.
type Options struct {
	Shuffle      bool
	SessionLimit int
	Clock        func() time.Time
}

// NewServer creates and configures a new server.
func NewServer(store Store, svc *study.Service, im *importer.Importer, opts Options) *Server {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	s := &Server{
		store:    store,
		study:    svc,
		importer: im,
		router:   chi.NewRouter(),
		validate: domain.Validator(),
		clock:    opts.Clock,
		shuffle:  opts.Shuffle,
		limit:    opts.SessionLimit,
	}
	s.routes()
	return s
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// routes sets up the routing for the server.
func (s *Server) routes() {
	r := s.router
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/decks", s.handleListDecks)
		r.Post("/decks", s.handleCreateDeck)
		r.Get("/decks/{id}", s.handleGetDeck)
		r.Delete("/decks/{id}", s.handleDeleteDeck)
		r.Get("/decks/{id}/cards", s.handleListCards)
		r.Post("/decks/{id}/cards", s.handleCreateCard)
		r.Post("/decks/{id}/import", s.handleImport)

		r.Put("/cards/{id}", s.handleEditCard)
		r.Delete("/cards/{id}", s.handleDeleteCard)
		r.Get("/cards/{id}/history", s.handleCardHistory)
		r.Post("/cards/{id}/review", s.handleReview)

		r.Get("/study", s.handleStudyQueue)
		r.Get("/stats", s.handleStats)
	})
}
