package handler

import (
	"errors"
	"net/http"

	"metamarket-api/internal/model"
	"metamarket-api/internal/service"
	"metamarket-api/pkg/apierror"
	"metamarket-api/pkg/response"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// TournamentHandler serves the locally stored tournaments and decklists.
type TournamentHandler struct {
	store  *service.TournamentStore
	logger *zap.Logger
}

// NewTournamentHandler creates a new tournament handler.
func NewTournamentHandler(store *service.TournamentStore, logger *zap.Logger) *TournamentHandler {
	return &TournamentHandler{store: store, logger: logger.Named("tournament_handler")}
}

func (h *TournamentHandler) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrTournamentNotFound):
		response.Error(w, apierror.NotFound("Tournament not found"))
	case errors.Is(err, service.ErrDecklistNotFound):
		response.Error(w, apierror.NotFound("Decklist not found"))
	case errors.Is(err, service.ErrTournamentExists):
		response.Error(w, apierror.Conflict("Tournament already exists"))
	case errors.Is(err, service.ErrDecklistExists):
		response.Error(w, apierror.Conflict("Decklist already exists"))
	default:
		if _, ok := apierror.As(err); !ok {
			h.logger.Error("tournament store failed", zap.Error(err))
		}
		response.Error(w, err)
	}
}

// List handles GET /api/v1/tournaments
func (h *TournamentHandler) List(w http.ResponseWriter, r *http.Request) {
	response.OK(w, h.store.List())
}

// Get handles GET /api/v1/tournaments/{id}
func (h *TournamentHandler) Get(w http.ResponseWriter, r *http.Request) {
	t, err := h.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err)
		return
	}
	response.OK(w, t)
}

// Create handles POST /api/v1/tournaments
func (h *TournamentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var t model.Tournament
	if err := response.Decode(r, &t); err != nil {
		h.fail(w, err)
		return
	}
	if t.Name == "" {
		h.fail(w, apierror.ValidationError("invalid tournament",
			apierror.FieldError{Field: "name", Message: "is required"}))
		return
	}

	created, err := h.store.Create(r.Context(), t)
	if err != nil {
		h.fail(w, err)
		return
	}
	response.Created(w, created)
}

// Update handles PUT /api/v1/tournaments/{id}
func (h *TournamentHandler) Update(w http.ResponseWriter, r *http.Request) {
	var t model.Tournament
	if err := response.Decode(r, &t); err != nil {
		h.fail(w, err)
		return
	}

	updated, err := h.store.Update(r.Context(), chi.URLParam(r, "id"), t)
	if err != nil {
		h.fail(w, err)
		return
	}
	response.OK(w, updated)
}

// Delete handles DELETE /api/v1/tournaments/{id}
func (h *TournamentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, err)
		return
	}
	response.OK(w, map[string]string{"message": "Tournament deleted successfully"})
}

// ListDecklists handles GET /api/v1/tournaments/{id}/decklists
func (h *TournamentHandler) ListDecklists(w http.ResponseWriter, r *http.Request) {
	decklists, err := h.store.Decklists(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err)
		return
	}
	response.OK(w, decklists)
}

// GetDecklist handles GET /api/v1/tournaments/{id}/decklists/{decklistId}
func (h *TournamentHandler) GetDecklist(w http.ResponseWriter, r *http.Request) {
	d, err := h.store.Decklist(chi.URLParam(r, "id"), chi.URLParam(r, "decklistId"))
	if err != nil {
		h.fail(w, err)
		return
	}
	response.OK(w, d)
}

// CreateDecklist handles POST /api/v1/tournaments/{id}/decklists
func (h *TournamentHandler) CreateDecklist(w http.ResponseWriter, r *http.Request) {
	var d model.Decklist
	if err := response.Decode(r, &d); err != nil {
		h.fail(w, err)
		return
	}

	created, err := h.store.CreateDecklist(r.Context(), chi.URLParam(r, "id"), d)
	if err != nil {
		h.fail(w, err)
		return
	}
	response.Created(w, created)
}

// UpdateDecklist handles PUT /api/v1/tournaments/{id}/decklists/{decklistId}
func (h *TournamentHandler) UpdateDecklist(w http.ResponseWriter, r *http.Request) {
	var d model.Decklist
	if err := response.Decode(r, &d); err != nil {
		h.fail(w, err)
		return
	}

	updated, err := h.store.UpdateDecklist(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "decklistId"), d)
	if err != nil {
		h.fail(w, err)
		return
	}
	response.OK(w, updated)
}

// DeleteDecklist handles DELETE /api/v1/tournaments/{id}/decklists/{decklistId}
func (h *TournamentHandler) DeleteDecklist(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteDecklist(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "decklistId")); err != nil {
		h.fail(w, err)
		return
	}
	response.OK(w, map[string]string{"message": "Decklist deleted successfully"})
}
