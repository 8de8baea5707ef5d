package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"metamarket-api/internal/kvstore"
	"metamarket-api/internal/model"
	"metamarket-api/pkg/uid"

	"go.uber.org/zap"
)

var (
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrTournamentExists   = errors.New("tournament already exists")
	ErrDecklistNotFound   = errors.New("decklist not found")
	ErrDecklistExists     = errors.New("decklist already exists")
)

// TournamentStore keeps the tournament list, written through to the bridge
// as a single collection after every change.
type TournamentStore struct {
	mu          sync.RWMutex
	tournaments []model.Tournament

	bridge *kvstore.Bridge
	logger *zap.Logger
}

// NewTournamentStore loads the persisted tournaments, seeding the sample
// events when nothing is stored yet.
func NewTournamentStore(ctx context.Context, bridge *kvstore.Bridge, logger *zap.Logger) *TournamentStore {
	s := &TournamentStore{bridge: bridge, logger: logger.Named("tournaments")}

	var saved []model.Tournament
	if bridge.Load(ctx, kvstore.KeyTournaments, &saved) {
		s.tournaments = saved
		return s
	}

	s.tournaments = SeedTournaments()
	if err := s.persist(ctx); err != nil {
		s.logger.Warn("failed to persist seed tournaments", zap.Error(err))
	}
	return s
}

// List returns every tournament in insertion order.
func (s *TournamentStore) List() []model.Tournament {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Tournament, len(s.tournaments))
	for i, t := range s.tournaments {
		out[i] = cloneTournament(t)
	}
	return out
}

// Get returns the tournament with id.
func (s *TournamentStore) Get(id string) (model.Tournament, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.Tournament{}, ErrTournamentNotFound
	}
	return cloneTournament(s.tournaments[i]), nil
}

// Create appends t, generating an id when it has none.
func (s *TournamentStore) Create(ctx context.Context, t model.Tournament) (model.Tournament, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.ID == "" {
		t.ID = uid.New()
	} else if s.indexOf(t.ID) >= 0 {
		return model.Tournament{}, ErrTournamentExists
	}
	t.Decklists = bindDecklists(t.ID, t.Decklists)

	s.tournaments = append(s.tournaments, t)
	if err := s.persist(ctx); err != nil {
		s.tournaments = s.tournaments[:len(s.tournaments)-1]
		return model.Tournament{}, err
	}
	return t, nil
}

// Update replaces tournament id with t.
func (s *TournamentStore) Update(ctx context.Context, id string, t model.Tournament) (model.Tournament, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.Tournament{}, ErrTournamentNotFound
	}
	t.ID = id
	t.Decklists = bindDecklists(id, t.Decklists)

	previous := s.tournaments[i]
	s.tournaments[i] = t
	if err := s.persist(ctx); err != nil {
		s.tournaments[i] = previous
		return model.Tournament{}, err
	}
	return t, nil
}

// Delete removes tournament id and its decklists.
func (s *TournamentStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return ErrTournamentNotFound
	}
	previous := s.tournaments
	s.tournaments = append(append([]model.Tournament{}, previous[:i]...), previous[i+1:]...)
	if err := s.persist(ctx); err != nil {
		s.tournaments = previous
		return err
	}
	return nil
}

// Decklists returns the decklists of tournament id.
func (s *TournamentStore) Decklists(tournamentID string) ([]model.Decklist, error) {
	t, err := s.Get(tournamentID)
	if err != nil {
		return nil, err
	}
	if t.Decklists == nil {
		return []model.Decklist{}, nil
	}
	return t.Decklists, nil
}

// Decklist returns one decklist of a tournament.
func (s *TournamentStore) Decklist(tournamentID, decklistID string) (model.Decklist, error) {
	t, err := s.Get(tournamentID)
	if err != nil {
		return model.Decklist{}, err
	}
	for _, d := range t.Decklists {
		if d.ID == decklistID {
			return d, nil
		}
	}
	return model.Decklist{}, ErrDecklistNotFound
}

// CreateDecklist appends d to tournament tournamentID.
func (s *TournamentStore) CreateDecklist(ctx context.Context, tournamentID string, d model.Decklist) (model.Decklist, error) {
	var created model.Decklist
	err := s.mutateTournament(ctx, tournamentID, func(t *model.Tournament) error {
		if d.ID == "" {
			d.ID = uid.New()
		} else if decklistIndex(t.Decklists, d.ID) >= 0 {
			return ErrDecklistExists
		}
		d = d.Clone()
		d.TournamentID = tournamentID
		t.Decklists = append(t.Decklists, d)
		created = d
		return nil
	})
	return created, err
}

// UpdateDecklist replaces decklist decklistID.
func (s *TournamentStore) UpdateDecklist(ctx context.Context, tournamentID, decklistID string, d model.Decklist) (model.Decklist, error) {
	err := s.mutateTournament(ctx, tournamentID, func(t *model.Tournament) error {
		i := decklistIndex(t.Decklists, decklistID)
		if i < 0 {
			return ErrDecklistNotFound
		}
		d = d.Clone()
		d.ID = decklistID
		d.TournamentID = tournamentID
		t.Decklists[i] = d
		return nil
	})
	if err != nil {
		return model.Decklist{}, err
	}
	return d, nil
}

// DeleteDecklist removes decklist decklistID.
func (s *TournamentStore) DeleteDecklist(ctx context.Context, tournamentID, decklistID string) error {
	return s.mutateTournament(ctx, tournamentID, func(t *model.Tournament) error {
		i := decklistIndex(t.Decklists, decklistID)
		if i < 0 {
			return ErrDecklistNotFound
		}
		t.Decklists = append(t.Decklists[:i:i], t.Decklists[i+1:]...)
		return nil
	})
}

// mutateTournament applies fn to a copy of the tournament and commits it
// only if fn and the save both succeed.
func (s *TournamentStore) mutateTournament(ctx context.Context, id string, fn func(t *model.Tournament) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return ErrTournamentNotFound
	}

	previous := s.tournaments[i]
	updated := previous
	updated.Decklists = append([]model.Decklist{}, previous.Decklists...)
	if err := fn(&updated); err != nil {
		return err
	}

	s.tournaments[i] = updated
	if err := s.persist(ctx); err != nil {
		s.tournaments[i] = previous
		return err
	}
	return nil
}

func (s *TournamentStore) indexOf(id string) int {
	for i, t := range s.tournaments {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (s *TournamentStore) persist(ctx context.Context) error {
	if err := s.bridge.Save(ctx, kvstore.KeyTournaments, s.tournaments); err != nil {
		return fmt.Errorf("failed to save tournaments: %w", err)
	}
	return nil
}

func decklistIndex(decklists []model.Decklist, id string) int {
	for i, d := range decklists {
		if d.ID == id {
			return i
		}
	}
	return -1
}

func cloneTournament(t model.Tournament) model.Tournament {
	t = t.Clone()
	if t.Decklists == nil {
		t.Decklists = []model.Decklist{}
	}
	return t
}

// bindDecklists points every decklist at tournamentID.
func bindDecklists(tournamentID string, decklists []model.Decklist) []model.Decklist {
	if decklists == nil {
		return []model.Decklist{}
	}
	out := make([]model.Decklist, len(decklists))
	for i, d := range decklists {
		d = d.Clone()
		d.TournamentID = tournamentID
		out[i] = d
	}
	return out
}
