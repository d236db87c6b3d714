package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/conorfennell/knoldeck/internal/domain"
	"github.com/conorfennell/knoldeck/internal/knol"
	"github.com/conorfennell/knoldeck/internal/study"
)

type deckRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

type cardRequest struct {
	Front string `json:"front" validate:"required"`
	Back  string `json:"back"`
}

type importRequest struct {
	Source string `json:"source" validate:"required"`
}

// reviewRequest carries either a grade or a button answer.
type reviewRequest struct {
	Grade   *int   `json:"grade"`
	Button  string `json:"button"`
	Correct bool   `json:"correct"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		slog.Error("health check failed", "error", err)
		writeError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListDecks(w http.ResponseWriter, r *http.Request) {
	decks, err := s.store.ListDecks(r.Context())
	if err != nil {
		s.serverError(w, "Error listing decks", err)
		return
	}
	writeJSON(w, http.StatusOK, decks)
}

func (s *Server) handleCreateDeck(w http.ResponseWriter, r *http.Request) {
	var req deckRequest
	if !s.decode(w, r, &req) {
		return
	}
	deck, err := domain.NewDeck(req.Name, req.Description, s.clock())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.store.InsertDeck(r.Context(), deck); err != nil {
		s.serverError(w, "Error inserting deck", err)
		return
	}
	writeJSON(w, http.StatusCreated, deck)
}

func (s *Server) handleGetDeck(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	deck, err := s.store.FindDeck(r.Context(), id)
	if err != nil {
		s.lookupError(w, "Error getting deck", err)
		return
	}
	writeJSON(w, http.StatusOK, deck)
}

func (s *Server) handleDeleteDeck(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.store.DeleteDeck(r.Context(), id); err != nil {
		s.lookupError(w, "Error deleting deck", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if _, err := s.store.FindDeck(r.Context(), id); err != nil {
		s.lookupError(w, "Error getting deck", err)
		return
	}
	cards, err := s.store.CardsByDeck(r.Context(), id)
	if err != nil {
		s.serverError(w, "Error listing cards", err)
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

func (s *Server) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	deckID, ok := pathID(w, r)
	if !ok {
		return
	}
	var req cardRequest
	if !s.decode(w, r, &req) {
		return
	}
	if _, err := s.store.FindDeck(r.Context(), deckID); err != nil {
		s.lookupError(w, "Error getting deck", err)
		return
	}

	card, err := domain.NewCard(deckID, req.Front, req.Back, s.clock())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	card.ContentHash = knol.Hash(card.Front, card.Back)
	if err := s.store.InsertCard(r.Context(), card); err != nil {
		s.serverError(w, "Error inserting card", err)
		return
	}
	writeJSON(w, http.StatusCreated, card)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	deckID, ok := pathID(w, r)
	if !ok {
		return
	}
	var req importRequest
	if !s.decode(w, r, &req) {
		return
	}
	report, err := s.importer.Import(r.Context(), deckID, req.Source)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "deck not found")
			return
		}
		slog.Error("Error importing cards", "deck_id", deckID, "source", req.Source, "error", err)
		writeError(w, http.StatusBadRequest, "import failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{
		"files":   report.Files,
		"parsed":  report.Parsed,
		"added":   report.Added,
		"skipped": report.Skipped,
		"errors":  len(report.Errors),
	})
}

func (s *Server) handleEditCard(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req cardRequest
	if !s.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Front) == "" {
		writeError(w, http.StatusBadRequest, "front is required")
		return
	}
	if err := s.store.UpdateCardContent(r.Context(), id, req.Front, req.Back, knol.Hash(req.Front, req.Back), s.clock()); err != nil {
		s.lookupError(w, "Error updating card", err)
		return
	}
	card, err := s.store.FindCard(r.Context(), id)
	if err != nil {
		s.lookupError(w, "Error getting card", err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

func (s *Server) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.store.DeleteCard(r.Context(), id); err != nil {
		s.lookupError(w, "Error deleting card", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCardHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if _, err := s.store.FindCard(r.Context(), id); err != nil {
		s.lookupError(w, "Error getting card", err)
		return
	}
	history, err := s.store.ReviewHistory(r.Context(), id)
	if err != nil {
		s.serverError(w, "Error getting review history", err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req reviewRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Grade == nil && req.Button == "" {
		writeError(w, http.StatusBadRequest, "grade or button is required")
		return
	}

	var (
		view *domain.CardView
		err  error
	)
	if req.Grade != nil {
		view, err = s.study.Answer(r.Context(), id, domain.Grade(*req.Grade))
	} else {
		var button domain.Button
		button, err = domain.ParseButton(req.Button)
		if err == nil {
			view, err = s.study.AnswerButton(r.Context(), id, button, req.Correct)
		}
	}

	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, view)
	case errors.Is(err, study.ErrSaveFailed):
		writeError(w, http.StatusInternalServerError, study.ErrSaveFailed.Error())
	case errors.Is(err, domain.ErrInvalidGrade), errors.Is(err, domain.ErrInvalidButton):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.lookupError(w, "Error reviewing card", err)
	}
}

func (s *Server) handleStudyQueue(w http.ResponseWriter, r *http.Request) {
	deckIDs, ok := queryDeckIDs(w, r)
	if !ok {
		return
	}
	opts := study.QueueOptions{Shuffle: s.shuffle, Limit: s.limit}
	q := r.URL.Query()
	if v := q.Get("shuffle"); v != "" {
		shuffle, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid shuffle value")
			return
		}
		opts.Shuffle = shuffle
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit value")
			return
		}
		opts.Limit = limit
	}

	views, err := s.study.Queue(r.Context(), deckIDs, opts)
	if err != nil {
		s.lookupError(w, "Error building study queue", err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	deckIDs, ok := queryDeckIDs(w, r)
	if !ok {
		return
	}
	st, err := s.study.Stats(r.Context(), deckIDs)
	if err != nil {
		s.lookupError(w, "Error computing stats", err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// decode reads a JSON body into v and validates it. It writes the error
// response itself and reports whether the handler may continue.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := s.validate.Struct(v); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func (s *Server) lookupError(w http.ResponseWriter, msg string, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	s.serverError(w, msg, err)
}

func (s *Server) serverError(w http.ResponseWriter, msg string, err error) {
	slog.Error(msg, "error", err)
	writeError(w, http.StatusInternalServerError, "internal server error")
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

func queryDeckIDs(w http.ResponseWriter, r *http.Request) ([]uuid.UUID, bool) {
	raw := r.URL.Query()["deck"]
	if len(raw) == 0 {
		writeError(w, http.StatusBadRequest, "at least one deck is required")
		return nil, false
	}
	ids := make([]uuid.UUID, 0, len(raw))
	for _, v := range raw {
		id, err := uuid.Parse(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid deck id")
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
