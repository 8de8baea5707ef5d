package handler

import (
	"net/http"

	"metamarket-api/internal/model"
	"metamarket-api/pkg/apierror"
	"metamarket-api/pkg/response"

	"github.com/go-chi/chi/v5"
)

// WatchlistHandler handles watchlist HTTP requests.
type WatchlistHandler struct {
	sessions Sessions
}

// NewWatchlistHandler creates a new watchlist handler.
func NewWatchlistHandler(sessions Sessions) *WatchlistHandler {
	return &WatchlistHandler{sessions: sessions}
}

// WatchlistResponse is the full watchlist of a profile.
type WatchlistResponse struct {
	Items []model.WatchlistItem `json:"items"`
	Count int                   `json:"count"`
}

// AddWatchlistRequest is the body of POST /watchlist.
type AddWatchlistRequest struct {
	Card           model.Card           `json:"card"`
	AlertPrice     *float64             `json:"alertPrice"`
	AlertDirection model.AlertDirection `json:"alertDirection"`
}

// AlertRequest is the body of PUT /watchlist/{cardId}/alert.
type AlertRequest struct {
	AlertPrice     *float64             `json:"alertPrice"`
	AlertDirection model.AlertDirection `json:"alertDirection"`
}

func validateAlert(price *float64, direction model.AlertDirection) error {
	var details []apierror.FieldError
	if direction != "" && !direction.Valid() {
		details = append(details, apierror.FieldError{Field: "alertDirection", Message: "must be up or down"})
	}
	if price != nil && *price < 0 {
		details = append(details, apierror.FieldError{Field: "alertPrice", Message: "must not be negative"})
	}
	if len(details) > 0 {
		return apierror.ValidationError("invalid alert settings", details...)
	}
	return nil
}

func (h *WatchlistHandler) write(w http.ResponseWriter, r *http.Request, status int) {
	session, err := sessionFor(h.sessions, r)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, status, WatchlistResponse{
		Items: session.Watchlist.Items(),
		Count: session.Watchlist.GetWatchlistCount(),
	})
}

// List handles GET /api/v1/watchlist
func (h *WatchlistHandler) List(w http.ResponseWriter, r *http.Request) {
	h.write(w, r, http.StatusOK)
}

// Add handles POST /api/v1/watchlist
func (h *WatchlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	session, err := sessionFor(h.sessions, r)
	if err != nil {
		response.Error(w, err)
		return
	}

	var req AddWatchlistRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if req.Card.ID == "" {
		response.Error(w, apierror.ValidationError("invalid card",
			apierror.FieldError{Field: "card.id", Message: "is required"}))
		return
	}
	if err := validateAlert(req.AlertPrice, req.AlertDirection); err != nil {
		response.Error(w, err)
		return
	}

	session.Watchlist.AddToWatchlist(r.Context(), req.Card, req.AlertPrice, req.AlertDirection)
	h.write(w, r, http.StatusOK)
}

// Check handles GET /api/v1/watchlist/{cardId}
func (h *WatchlistHandler) Check(w http.ResponseWriter, r *http.Request) {
	session, err := sessionFor(h.sessions, r)
	if err != nil {
		response.Error(w, err)
		return
	}

	cardID := chi.URLParam(r, "cardId")
	response.OK(w, map[string]interface{}{
		"cardId":  cardID,
		"watched": session.Watchlist.IsInWatchlist(cardID),
	})
}

// UpdateAlert handles PUT /api/v1/watchlist/{cardId}/alert
func (h *WatchlistHandler) UpdateAlert(w http.ResponseWriter, r *http.Request) {
	session, err := sessionFor(h.sessions, r)
	if err != nil {
		response.Error(w, err)
		return
	}

	var req AlertRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if err := validateAlert(req.AlertPrice, req.AlertDirection); err != nil {
		response.Error(w, err)
		return
	}

	session.Watchlist.UpdateAlertSettings(r.Context(), chi.URLParam(r, "cardId"), req.AlertPrice, req.AlertDirection)
	h.write(w, r, http.StatusOK)
}

// Remove handles DELETE /api/v1/watchlist/{cardId}
func (h *WatchlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	session, err := sessionFor(h.sessions, r)
	if err != nil {
		response.Error(w, err)
		return
	}

	session.Watchlist.RemoveFromWatchlist(r.Context(), chi.URLParam(r, "cardId"))
	h.write(w, r, http.StatusOK)
}
