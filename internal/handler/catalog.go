package handler

import (
	"context"
	"errors"
	"net/http"

	"metamarket-api/internal/catalog"
	"metamarket-api/internal/model"
	"metamarket-api/pkg/apierror"
	"metamarket-api/pkg/response"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Catalog is the upstream card catalog.
type Catalog interface {
	ListCards(ctx context.Context, filter catalog.CardFilter) (*model.CardPage, error)
	GetCard(ctx context.Context, id string) (*model.Card, error)
	ListTournaments(ctx context.Context, filter catalog.TournamentFilter) ([]model.Tournament, error)
	GetPriceHistory(ctx context.Context, cardID string, days int, vendorID string) ([]model.PriceRecord, error)
	GetPriceSummary(ctx context.Context, cardID string) (*model.PriceSummary, error)
	Overview(ctx context.Context, cardID string, days int) (*model.CardOverview, error)
}

// Messages shown in place of upstream data that could not be loaded.
const (
	msgCardsUnavailable       = "Failed to load cards"
	msgPricesUnavailable      = "Failed to fetch price data"
	msgSummaryUnavailable     = "Failed to fetch price summary"
	msgTournamentsUnavailable = "Failed to load tournaments"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	defaultDays     = 30
	maxDays         = 365
)

// CatalogHandler proxies the upstream card catalog. List endpoints degrade
// to an empty result with a message instead of failing.
type CatalogHandler struct {
	catalog Catalog
	logger  *zap.Logger
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(c Catalog, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: c, logger: logger.Named("catalog_handler")}
}

// CardListResponse is one page of cards, or an empty page and a message.
type CardListResponse struct {
	Cards   []model.Card `json:"cards"`
	Total   int64        `json:"total"`
	Message string       `json:"message,omitempty"`
}

// PriceHistoryResponse is a price series, or an empty one and a message.
type PriceHistoryResponse struct {
	CardID  string              `json:"cardId"`
	Prices  []model.PriceRecord `json:"prices"`
	Message string              `json:"message,omitempty"`
}

// PriceSummaryResponse wraps a summary with an optional failure message.
type PriceSummaryResponse struct {
	model.PriceSummary
	Message string `json:"message,omitempty"`
}

// TournamentListResponse is the upstream tournament list.
type TournamentListResponse struct {
	Tournaments []model.Tournament `json:"tournaments"`
	Message     string             `json:"message,omitempty"`
}

func (h *CatalogHandler) upstreamFailed(r *http.Request, what string, err error) {
	h.logger.Warn("upstream request failed",
		zap.String("resource", what),
		zap.String("path", r.URL.Path),
		zap.Error(err))
}

// ListCards handles GET /api/v1/cards
func (h *CatalogHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", defaultPageSize, 1, maxPageSize)
	if err != nil {
		response.Error(w, err)
		return
	}
	offset, err := queryInt(r, "offset", 0, 0, 1<<30)
	if err != nil {
		response.Error(w, err)
		return
	}

	q := r.URL.Query()
	filter := catalog.CardFilter{
		CardType:  q.Get("card_type"),
		Attribute: q.Get("attribute"),
		Rarity:    q.Get("rarity"),
		Search:    q.Get("search"),
		Limit:     limit,
		Offset:    offset,
	}

	page, err := h.catalog.ListCards(r.Context(), filter)
	if err != nil {
		h.upstreamFailed(r, "cards", err)
		response.OK(w, CardListResponse{Cards: []model.Card{}, Message: msgCardsUnavailable})
		return
	}

	response.JSONWithMeta(w, http.StatusOK, CardListResponse{Cards: page.Cards, Total: page.Total}, limit, offset, page.Total)
}

// GetCard handles GET /api/v1/cards/{id}
func (h *CatalogHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	card, err := h.catalog.GetCard(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, h.cardError(r, err))
		return
	}
	response.OK(w, card)
}

// PriceHistory handles GET /api/v1/cards/{id}/prices
func (h *CatalogHandler) PriceHistory(w http.ResponseWriter, r *http.Request) {
	days, err := queryInt(r, "days", defaultDays, 1, maxDays)
	if err != nil {
		response.Error(w, err)
		return
	}

	cardID := chi.URLParam(r, "id")
	records, err := h.catalog.GetPriceHistory(r.Context(), cardID, days, r.URL.Query().Get("vendor_id"))
	if err != nil {
		h.upstreamFailed(r, "prices", err)
		response.OK(w, PriceHistoryResponse{CardID: cardID, Prices: []model.PriceRecord{}, Message: msgPricesUnavailable})
		return
	}

	response.OK(w, PriceHistoryResponse{CardID: cardID, Prices: records})
}

// PriceSummary handles GET /api/v1/cards/{id}/summary
func (h *CatalogHandler) PriceSummary(w http.ResponseWriter, r *http.Request) {
	cardID := chi.URLParam(r, "id")
	summary, err := h.catalog.GetPriceSummary(r.Context(), cardID)
	if err != nil {
		h.upstreamFailed(r, "price-summary", err)
		response.OK(w, PriceSummaryResponse{
			PriceSummary: catalog.Summarize(cardID, nil),
			Message:      msgSummaryUnavailable,
		})
		return
	}

	response.OK(w, PriceSummaryResponse{PriceSummary: *summary})
}

// Overview handles GET /api/v1/cards/{id}/overview
func (h *CatalogHandler) Overview(w http.ResponseWriter, r *http.Request) {
	days, err := queryInt(r, "days", defaultDays, 1, maxDays)
	if err != nil {
		response.Error(w, err)
		return
	}

	overview, err := h.catalog.Overview(r.Context(), chi.URLParam(r, "id"), days)
	if err != nil {
		response.Error(w, h.cardError(r, err))
		return
	}
	response.OK(w, overview)
}

// ListTournaments handles GET /api/v1/catalog/tournaments
func (h *CatalogHandler) ListTournaments(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0, 0, maxPageSize)
	if err != nil {
		response.Error(w, err)
		return
	}
	offset, err := queryInt(r, "offset", 0, 0, 1<<30)
	if err != nil {
		response.Error(w, err)
		return
	}

	q := r.URL.Query()
	tournaments, err := h.catalog.ListTournaments(r.Context(), catalog.TournamentFilter{
		Format: q.Get("format"),
		Region: q.Get("region"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		h.upstreamFailed(r, "tournaments", err)
		response.OK(w, TournamentListResponse{Tournaments: []model.Tournament{}, Message: msgTournamentsUnavailable})
		return
	}

	response.OK(w, TournamentListResponse{Tournaments: tournaments})
}

func (h *CatalogHandler) cardError(r *http.Request, err error) error {
	if errors.Is(err, catalog.ErrNotFound) {
		return apierror.NotFound("card not found")
	}
	h.upstreamFailed(r, "card", err)
	return apierror.BadGateway("card catalog unavailable")
}
