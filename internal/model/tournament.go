package model

// DeckCard is a card and its copy count within a deck section.
type DeckCard struct {
	CardID   string `json:"cardId"`
	Quantity int    `json:"quantity"`
	Card     Card   `json:"card"`
}

// Decklist is a player's registered deck for a tournament.
type Decklist struct {
	ID           string     `json:"id"`
	TournamentID string     `json:"tournamentId"`
	Player       string     `json:"player"`
	Placement    int        `json:"placement"`
	MainDeck     []DeckCard `json:"mainDeck"`
	ExtraDeck    []DeckCard `json:"extraDeck"`
	SideDeck     []DeckCard `json:"sideDeck"`
	DeckType     string     `json:"deckType"`
}

// Tournament is a sanctioned event with its decklists.
type Tournament struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Date      string     `json:"date"`
	Location  string     `json:"location"`
	Format    string     `json:"format"`
	Size      int        `json:"size"`
	Region    string     `json:"region"`
	TopCut    int        `json:"topCut"`
	Decklists []Decklist `json:"decklists"`
}

// Clone returns a copy of d whose deck sections share no memory with d.
func (d Decklist) Clone() Decklist {
	d.MainDeck = cloneDeck(d.MainDeck)
	d.ExtraDeck = cloneDeck(d.ExtraDeck)
	d.SideDeck = cloneDeck(d.SideDeck)
	return d
}

// Clone returns a copy of t including its decklists.
func (t Tournament) Clone() Tournament {
	if t.Decklists != nil {
		decklists := make([]Decklist, len(t.Decklists))
		for i, d := range t.Decklists {
			decklists[i] = d.Clone()
		}
		t.Decklists = decklists
	}
	return t
}

func cloneDeck(cards []DeckCard) []DeckCard {
	if cards == nil {
		return nil
	}
	out := make([]DeckCard, len(cards))
	for i, c := range cards {
		c.Card = c.Card.Clone()
		out[i] = c
	}
	return out
}
