package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"
	"sync"
	"time"

	"metamarket-api/internal/kvstore"
	"metamarket-api/internal/model"
	"metamarket-api/pkg/uid"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Failure messages returned in Result.Error.
const (
	ErrMsgInvalidCredentials = "Invalid email or password"
	ErrMsgLoginFailed        = "Login failed. Please try again."
	ErrMsgRegisterFailed     = "Registration failed. Please try again."
	ErrMsgNoUser             = "No user logged in"
	ErrMsgProfileFailed      = "Profile update failed"
	ErrMsgInvalidRole        = "Role must be buyer or seller"
	ErrMsgEmptyName          = "Name cannot be empty"
	ErrMsgInvalidEmail       = "Invalid email address"
)

// Result is the outcome of an auth operation. Failures are reported here,
// never as an error value.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func ok() Result                 { return Result{Success: true} }
func fail(message string) Result { return Result{Error: message} }

// DemoAccount is the single credential pair the mock login accepts.
type DemoAccount struct {
	Email        string
	PasswordHash []byte
	User         model.User
}

// NewDemoAccount hashes password with bcrypt at the given cost.
func NewDemoAccount(email, password string, cost int) (*DemoAccount, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash demo password: %w", err)
	}
	return &DemoAccount{
		Email:        email,
		PasswordHash: hash,
		User: model.User{
			ID:    "1",
			Email: email,
			Name:  "Demo User",
			Role:  model.RoleBuyer,
		},
	}, nil
}

// matches checks both fields before answering so the result does not tell
// which one was wrong.
func (d *DemoAccount) matches(email, password string) bool {
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(d.Email)) == 1
	passwordOK := bcrypt.CompareHashAndPassword(d.PasswordHash, []byte(password)) == nil
	return emailOK && passwordOK
}

// AuthOptions configures the mock auth flow.
type AuthOptions struct {
	Demo    *DemoAccount
	Latency time.Duration
}

// AuthSnapshot is the externally visible auth state.
type AuthSnapshot struct {
	User          *model.User `json:"user"`
	IsLoading     bool        `json:"isLoading"`
	Authenticated bool        `json:"authenticated"`
}

// AuthStore holds the current user of a profile.
//
// Anonymous until Login or Register succeeds, Authenticated until Logout.
// IsLoading is true while a login or register call is in flight.
type AuthStore struct {
	mu       sync.Mutex
	user     *model.User
	inFlight int

	bridge *kvstore.Bridge
	clock  Clock
	opts   AuthOptions
	logger *zap.Logger
}

// NewAuthStore creates a store and synchronously restores the persisted user.
func NewAuthStore(ctx context.Context, bridge *kvstore.Bridge, clock Clock, opts AuthOptions, logger *zap.Logger) *AuthStore {
	s := &AuthStore{
		bridge: bridge,
		clock:  clock,
		opts:   opts,
		logger: logger.Named("auth"),
	}

	// hydration runs inside the constructor, so callers never observe it loading
	var saved *model.User
	if bridge.Load(ctx, kvstore.KeyUser, &saved) && saved != nil {
		s.user = saved
	}
	return s
}

// Login accepts only the demo credentials.
func (s *AuthStore) Login(ctx context.Context, email, password string) Result {
	s.beginLoading()
	defer s.endLoading()

	if err := s.clock.Sleep(ctx, s.opts.Latency); err != nil {
		return fail(ErrMsgLoginFailed)
	}

	if s.opts.Demo == nil || !s.opts.Demo.matches(email, password) {
		return fail(ErrMsgInvalidCredentials)
	}

	user := s.opts.Demo.User
	user.CreatedAt = formatTimestamp(s.clock.Now())

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.bridge.Save(ctx, kvstore.KeyUser, user); err != nil {
		s.logger.Error("failed to persist session", zap.Error(err))
		return fail(ErrMsgLoginFailed)
	}
	s.user = &user
	s.logger.Info("user logged in", zap.String("user_id", user.ID))
	return ok()
}

// Register creates a new account and signs it in. There is no uniqueness
// check against earlier registrations. An empty role means buyer.
func (s *AuthStore) Register(ctx context.Context, email, password, name string, role model.Role) Result {
	if role == "" {
		role = model.RoleBuyer
	}
	if role != model.RoleBuyer && role != model.RoleSeller {
		return fail(ErrMsgInvalidRole)
	}

	s.beginLoading()
	defer s.endLoading()

	if err := s.clock.Sleep(ctx, s.opts.Latency); err != nil {
		return fail(ErrMsgRegisterFailed)
	}

	user := model.User{
		ID:        uid.New(),
		Email:     email,
		Name:      name,
		Role:      role,
		CreatedAt: formatTimestamp(s.clock.Now()),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.bridge.Save(ctx, kvstore.KeyUser, user); err != nil {
		s.logger.Error("failed to persist session", zap.Error(err))
		return fail(ErrMsgRegisterFailed)
	}
	s.user = &user
	s.logger.Info("user registered", zap.String("user_id", user.ID), zap.String("role", string(role)))
	return ok()
}

// Logout forgets the current user and removes the persisted record.
func (s *AuthStore) Logout(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = nil
	if err := s.bridge.Remove(ctx, kvstore.KeyUser); err != nil {
		s.logger.Error("failed to remove persisted session", zap.Error(err))
	}
}

// UpdateProfile merges update into the current user after validating it.
func (s *AuthStore) UpdateProfile(ctx context.Context, update model.ProfileUpdate) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return fail(ErrMsgNoUser)
	}
	if msg := validateProfileUpdate(update); msg != "" {
		return fail(msg)
	}

	updated := *s.user
	if update.Name != nil {
		updated.Name = strings.TrimSpace(*update.Name)
	}
	if update.Email != nil {
		updated.Email = strings.TrimSpace(*update.Email)
	}
	if update.Avatar != nil {
		updated.Avatar = *update.Avatar
	}

	if err := s.bridge.Save(ctx, kvstore.KeyUser, updated); err != nil {
		s.logger.Error("failed to persist profile", zap.Error(err))
		return fail(ErrMsgProfileFailed)
	}
	s.user = &updated
	return ok()
}

func validateProfileUpdate(update model.ProfileUpdate) string {
	if update.Name != nil && strings.TrimSpace(*update.Name) == "" {
		return ErrMsgEmptyName
	}
	if update.Email != nil && !strings.Contains(*update.Email, "@") {
		return ErrMsgInvalidEmail
	}
	return ""
}

// User returns a copy of the current user, or nil when anonymous.
func (s *AuthStore) User() *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// IsLoading reports whether a login or register call is in flight.
func (s *AuthStore) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.inFlight > 0
}

// Snapshot returns user and loading state read together.
func (s *AuthStore) Snapshot() AuthSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := AuthSnapshot{IsLoading: s.inFlight > 0}
	if s.user != nil {
		u := *s.user
		snap.User = &u
		snap.Authenticated = true
	}
	return snap
}

// Reset drops the in-memory user without touching storage.
func (s *AuthStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = nil
	s.inFlight = 0
}

func (s *AuthStore) beginLoading() {
	s.mu.Lock()
	s.inFlight++
	s.mu.Unlock()
}

func (s *AuthStore) endLoading() {
	s.mu.Lock()
	if s.inFlight > 0 {
		s.inFlight--
	}
	s.mu.Unlock()
}
