package service

import "metamarket-api/internal/model"

func seedCard(id, name string) model.Card {
	return model.Card{ID: id, Name: name, Type: "Effect Monster"}
}

func seedDecklist(id, tournamentID, player string, placement int, deckType string, main ...model.DeckCard) model.Decklist {
	return model.Decklist{
		ID:           id,
		TournamentID: tournamentID,
		Player:       player,
		Placement:    placement,
		DeckType:     deckType,
		MainDeck:     main,
		ExtraDeck:    []model.DeckCard{},
		SideDeck:     []model.DeckCard{},
	}
}

// SeedTournaments returns the sample events the tournament store starts with.
func SeedTournaments() []model.Tournament {
	ash := model.DeckCard{CardID: "c1", Quantity: 3, Card: seedCard("c1", "Ash Blossom & Joyous Spring")}
	fenrir := model.DeckCard{CardID: "c2", Quantity: 2, Card: seedCard("c2", "Kashtira Fenrir")}
	arianna := model.DeckCard{CardID: "c3", Quantity: 3, Card: seedCard("c3", "Arianna the Labrynth Servant")}
	purrely := model.DeckCard{CardID: "c4", Quantity: 3, Card: seedCard("c4", "Purrely")}

	return []model.Tournament{
		{
			ID: "1", Name: "YCS Las Vegas 2024", Date: "2024-01-15", Location: "Las Vegas, NV",
			Format: "Advanced", Size: 1024, Region: "NA", TopCut: 32,
			Decklists: []model.Decklist{
				seedDecklist("d1", "1", "Alice", 1, "Kashtira", ash, fenrir),
				seedDecklist("d2", "1", "Bob", 2, "Labrynth", arianna),
			},
		},
		{
			ID: "2", Name: "YCS Chicago 2024", Date: "2024-01-08", Location: "Chicago, IL",
			Format: "Advanced", Size: 856, Region: "NA", TopCut: 32,
			Decklists: []model.Decklist{
				seedDecklist("d3", "2", "Carol", 1, "Purrely", purrely),
			},
		},
		{
			ID: "3", Name: "YCS Dallas 2024", Date: "2024-01-01", Location: "Dallas, TX",
			Format: "Advanced", Size: 724, Region: "NA", TopCut: 32,
			Decklists: []model.Decklist{
				seedDecklist("d4", "3", "Dave", 1, "Purrely", purrely),
			},
		},
	}
}
