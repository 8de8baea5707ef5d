// Package catalog reads cards, prices and tournaments from the upstream
// card API. Requests are rate limited and responses are cached; failures
// are returned as-is, there is no retry.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"metamarket-api/internal/cache"
	"metamarket-api/internal/model"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultRateLimit = 10
	defaultBurst     = 5
	defaultTTL       = 5 * time.Minute
	maxBodySize      = 4 << 20
	userAgent        = "metamarket-api/1.0"
)

// ErrNotFound is returned when the upstream answers 404.
var ErrNotFound = errors.New("catalog: not found")

// StatusError is returned for any other non-200 upstream answer.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("catalog: unexpected status %d from %s", e.StatusCode, e.URL)
}

// Options configures a Client. Zero values take defaults.
type Options struct {
	BaseURL    string
	RateLimit  float64 // requests per second
	Burst      int
	Timeout    time.Duration
	CacheTTL   time.Duration
	HTTPClient *http.Client
}

// Client talks to the upstream card API.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	cache       cache.Cache
	ttl         time.Duration
	logger      *zap.Logger
}

// NewClient creates a client. A nil cache disables caching.
func NewClient(opts Options, c cache.Cache, logger *zap.Logger) *Client {
	if opts.RateLimit <= 0 {
		opts.RateLimit = defaultRateLimit
	}
	if opts.Burst <= 0 {
		opts.Burst = defaultBurst
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = defaultTTL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}
	if c == nil {
		c = cache.NopCache{}
	}

	return &Client{
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		httpClient:  opts.HTTPClient,
		rateLimiter: rate.NewLimiter(rate.Limit(opts.RateLimit), opts.Burst),
		cache:       c,
		ttl:         opts.CacheTTL,
		logger:      logger.Named("catalog"),
	}
}

// CardFilter narrows ListCards. Empty fields are not sent.
type CardFilter struct {
	CardType  string
	Attribute string
	Rarity    string
	Search    string
	Limit     int
	Offset    int
}

func (f CardFilter) query() url.Values {
	q := url.Values{}
	setString(q, "card_type", f.CardType)
	setString(q, "attribute", f.Attribute)
	setString(q, "rarity", f.Rarity)
	setString(q, "search", f.Search)
	setInt(q, "limit", f.Limit)
	setInt(q, "offset", f.Offset)
	return q
}

// TournamentFilter narrows ListTournaments.
type TournamentFilter struct {
	Format string
	Region string
	Limit  int
	Offset int
}

func (f TournamentFilter) query() url.Values {
	q := url.Values{}
	setString(q, "format", f.Format)
	setString(q, "region", f.Region)
	setInt(q, "limit", f.Limit)
	setInt(q, "offset", f.Offset)
	return q
}

// ListCards returns one page of cards matching filter.
func (c *Client) ListCards(ctx context.Context, filter CardFilter) (*model.CardPage, error) {
	var page model.CardPage
	if err := c.get(ctx, "/cards", filter.query(), &page); err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	if page.Cards == nil {
		page.Cards = []model.Card{}
	}
	return &page, nil
}

// GetCard retrieves a card by id.
func (c *Client) GetCard(ctx context.Context, id string) (*model.Card, error) {
	var card model.Card
	if err := c.get(ctx, "/cards/"+url.PathEscape(id), nil, &card); err != nil {
		return nil, fmt.Errorf("failed to get card %s: %w", id, err)
	}
	return &card, nil
}

// ListTournaments returns upstream tournaments matching filter.
func (c *Client) ListTournaments(ctx context.Context, filter TournamentFilter) ([]model.Tournament, error) {
	var tournaments []model.Tournament
	if err := c.get(ctx, "/tournaments", filter.query(), &tournaments); err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	if tournaments == nil {
		tournaments = []model.Tournament{}
	}
	return tournaments, nil
}

// GetPriceHistory returns the price series of a card over the last days
// days, optionally for one vendor.
func (c *Client) GetPriceHistory(ctx context.Context, cardID string, days int, vendorID string) ([]model.PriceRecord, error) {
	q := url.Values{}
	setInt(q, "days", days)
	setString(q, "vendor_id", vendorID)

	var records []model.PriceRecord
	if err := c.get(ctx, "/cards/"+url.PathEscape(cardID)+"/prices", q, &records); err != nil {
		return nil, fmt.Errorf("failed to get price history for %s: %w", cardID, err)
	}
	if records == nil {
		records = []model.PriceRecord{}
	}
	return records, nil
}

// GetPriceSummary fetches current vendor prices and computes their spread.
func (c *Client) GetPriceSummary(ctx context.Context, cardID string) (*model.PriceSummary, error) {
	var body struct {
		Prices []model.PriceRecord `json:"prices"`
	}
	if err := c.get(ctx, "/cards/"+url.PathEscape(cardID)+"/price-summary", nil, &body); err != nil {
		return nil, fmt.Errorf("failed to get price summary for %s: %w", cardID, err)
	}
	summary := Summarize(cardID, body.Prices)
	return &summary, nil
}

// Overview fetches card, price summary and history concurrently. Only a
// failure to load the card fails the call; a missing summary or history is
// logged and left empty.
func (c *Client) Overview(ctx context.Context, cardID string, days int) (*model.CardOverview, error) {
	overview := &model.CardOverview{History: []model.PriceRecord{}}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		card, err := c.GetCard(gctx, cardID)
		if err != nil {
			return err
		}
		overview.Card = card
		return nil
	})
	g.Go(func() error {
		summary, err := c.GetPriceSummary(gctx, cardID)
		if err != nil {
			c.logger.Warn("price summary unavailable", zap.String("card_id", cardID), zap.Error(err))
			return nil
		}
		overview.Summary = summary
		return nil
	})
	g.Go(func() error {
		history, err := c.GetPriceHistory(gctx, cardID, days, "")
		if err != nil {
			c.logger.Warn("price history unavailable", zap.String("card_id", cardID), zap.Error(err))
			return nil
		}
		overview.History = history
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return overview, nil
}

// get fetches path through the cache and decodes the JSON body into dst.
func (c *Client) get(ctx context.Context, path string, query url.Values, dst interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	body, err := c.cache.GetOrSet(ctx, "catalog:"+u, c.ttl, func() ([]byte, error) {
		return c.doRequest(ctx, u)
	})
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("failed to parse JSON response: %w", err)
	}
	return nil
}

// doRequest performs one rate limited GET and returns the body of a 200.
func (c *Client) doRequest(ctx context.Context, u string) ([]byte, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("upstream request",
		zap.String("url", u),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
		if err != nil {
			return nil, fmt.Errorf("failed to read response body: %w", err)
		}
		return body, nil
	case http.StatusNotFound:
		return nil, ErrNotFound
	default:
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: u}
	}
}

func setString(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

func setInt(q url.Values, key string, value int) {
	if value > 0 {
		q.Set(key, strconv.Itoa(value))
	}
}
