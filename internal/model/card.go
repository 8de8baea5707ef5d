package model

// Card is a catalog card as served by the upstream card API.
// Watchlist entries embed a copy, so later catalog changes do not reach them.
type Card struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Type          string `json:"type"`
	Attribute     string `json:"attribute,omitempty"`
	Level         *int   `json:"level,omitempty"`
	Race          string `json:"race,omitempty"`
	Subtype       string `json:"subtype,omitempty"`
	Attack        *int   `json:"attack,omitempty"`
	Defense       *int   `json:"defense,omitempty"`
	Description   string `json:"description"`
	ImageURL      string `json:"imageUrl"`
	Rarity        string `json:"rarity"`
	Set           string `json:"set"`
	SetCode       string `json:"setCode"`
	CardNumber    string `json:"cardNumber"`
	IsReprint     bool   `json:"isReprint"`
	IsBanned      bool   `json:"isBanned"`
	IsLimited     bool   `json:"isLimited"`
	IsSemiLimited bool   `json:"isSemiLimited"`
	CreatedAt     string `json:"createdAt"`
	UpdatedAt     string `json:"updatedAt"`
}

// Clone returns a copy of c that shares no memory with it.
func (c Card) Clone() Card {
	c.Level = cloneInt(c.Level)
	c.Attack = cloneInt(c.Attack)
	c.Defense = cloneInt(c.Defense)
	return c
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// CardPage is one page of catalog search results.
type CardPage struct {
	Cards []Card `json:"cards"`
	Total int64  `json:"total"`
}

// PriceRecord is one vendor price observation from the upstream price API.
type PriceRecord struct {
	ID         string  `json:"id,omitempty"`
	CardID     string  `json:"card_id,omitempty"`
	VendorID   string  `json:"vendor_id"`
	Price      float64 `json:"price"`
	Currency   string  `json:"currency"`
	Condition  string  `json:"condition,omitempty"`
	Rarity     string  `json:"rarity,omitempty"`
	SetCode    string  `json:"set_code,omitempty"`
	RecordedAt string  `json:"recorded_at"`
}

// Price variation levels reported by PriceSummary.
const (
	VariationLow      = "low"
	VariationModerate = "moderate"
	VariationHigh     = "high"
)

// PriceSummary aggregates the latest vendor prices for a card.
type PriceSummary struct {
	CardID              string        `json:"cardId"`
	Prices              []PriceRecord `json:"prices"`
	LowestPrice         float64       `json:"lowestPrice"`
	HighestPrice        float64       `json:"highestPrice"`
	AveragePrice        float64       `json:"averagePrice"`
	VariationPercentage float64       `json:"variationPercentage"`
	Variation           string        `json:"variation"`
}

// CardOverview bundles the data shown on a card detail page.
type CardOverview struct {
	Card    *Card         `json:"card"`
	Summary *PriceSummary `json:"summary,omitempty"`
	History []PriceRecord `json:"history"`
}
