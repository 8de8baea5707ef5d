package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"metamarket-api/internal/kvstore"
	"metamarket-api/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// gateClock blocks Sleep until release is closed.
type gateClock struct {
	*fakeClock
	entered chan struct{}
	release chan struct{}
}

func (c *gateClock) Sleep(ctx context.Context, d time.Duration) error {
	close(c.entered)
	select {
	case <-c.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func newTestAuth(t *testing.T) (*AuthStore, *kvstore.Bridge, *fakeClock) {
	t.Helper()
	bridge, _ := newTestBridge()
	clock := newFakeClock()
	opts := AuthOptions{Demo: testDemoAccount(), Latency: time.Second}
	return NewAuthStore(context.Background(), bridge, clock, opts, zap.NewNop()), bridge, clock
}

func TestAuth_InitialAnonymous(t *testing.T) {
	s, _, _ := newTestAuth(t)

	snap := s.Snapshot()
	assert.Nil(t, snap.User)
	assert.False(t, snap.Authenticated)
	assert.False(t, snap.IsLoading)
}

func TestAuth_HydratesPersistedUser(t *testing.T) {
	ctx := context.Background()
	bridge, _ := newTestBridge()
	require.NoError(t, bridge.Save(ctx, kvstore.KeyUser, model.User{
		ID: "user-1", Email: "test@example.com", Name: "Test User", Role: model.RoleBuyer,
		CreatedAt: "2024-01-01T00:00:00Z",
	}))

	s := NewAuthStore(ctx, bridge, newFakeClock(), AuthOptions{}, zap.NewNop())

	require.NotNil(t, s.User())
	assert.Equal(t, "test@example.com", s.User().Email)
	assert.False(t, s.IsLoading())
}

func TestAuth_HydrateMalformedIsAnonymous(t *testing.T) {
	ctx := context.Background()
	bridge, repo := newTestBridge()
	require.NoError(t, repo.Set(ctx, kvstore.KeyUser, []byte("{oops")))

	s := NewAuthStore(ctx, bridge, newFakeClock(), AuthOptions{}, zap.NewNop())

	assert.Nil(t, s.User())
}

func TestAuth_HydrateNullIsAnonymous(t *testing.T) {
	ctx := context.Background()
	bridge, repo := newTestBridge()
	require.NoError(t, repo.Set(ctx, kvstore.KeyUser, []byte("null")))

	s := NewAuthStore(ctx, bridge, newFakeClock(), AuthOptions{}, zap.NewNop())

	snap := s.Snapshot()
	assert.Nil(t, snap.User)
	assert.False(t, snap.Authenticated)
}

func TestAuth_LoginDemoThenLogout(t *testing.T) {
	ctx := context.Background()
	s, bridge, clock := newTestAuth(t)

	res := s.Login(ctx, "demo@example.com", "password")
	require.True(t, res.Success, res.Error)
	assert.Equal(t, time.Second, clock.slept)

	user := s.User()
	require.NotNil(t, user)
	assert.Equal(t, "1", user.ID)
	assert.Equal(t, "Demo User", user.Name)
	assert.Equal(t, model.RoleBuyer, user.Role)

	var persisted model.User
	require.True(t, bridge.Load(ctx, kvstore.KeyUser, &persisted))
	assert.Equal(t, "demo@example.com", persisted.Email)

	s.Logout(ctx)
	assert.Nil(t, s.User())

	var after model.User
	assert.False(t, bridge.Load(ctx, kvstore.KeyUser, &after))
}

func TestAuth_LoginInvalidCredentials(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestAuth(t)

	for _, tc := range []struct{ email, password string }{
		{"demo@example.com", "wrong"},
		{"someone@example.com", "password"},
		{"", ""},
	} {
		res := s.Login(ctx, tc.email, tc.password)
		assert.False(t, res.Success)
		assert.Equal(t, ErrMsgInvalidCredentials, res.Error)
	}
	assert.Nil(t, s.User())
	assert.False(t, s.IsLoading())
}

func TestAuth_LoginCancelled(t *testing.T) {
	s, _, clock := newTestAuth(t)
	clock.sleepErr = context.Canceled

	res := s.Login(context.Background(), "demo@example.com", "password")

	assert.False(t, res.Success)
	assert.Equal(t, ErrMsgLoginFailed, res.Error)
	assert.False(t, s.IsLoading())
}

func TestAuth_IsLoadingDuringLogin(t *testing.T) {
	bridge, _ := newTestBridge()
	clock := &gateClock{fakeClock: newFakeClock(), entered: make(chan struct{}), release: make(chan struct{})}
	s := NewAuthStore(context.Background(), bridge, clock, AuthOptions{Demo: testDemoAccount()}, zap.NewNop())

	done := make(chan Result)
	go func() { done <- s.Login(context.Background(), "demo@example.com", "password") }()

	<-clock.entered
	assert.True(t, s.IsLoading())
	assert.True(t, s.Snapshot().IsLoading)

	close(clock.release)
	res := <-done
	assert.True(t, res.Success)
	assert.False(t, s.IsLoading())
}

func TestAuth_Register(t *testing.T) {
	ctx := context.Background()
	s, bridge, _ := newTestAuth(t)

	res := s.Register(ctx, "test@example.com", "password123", "Test User", model.RoleSeller)
	require.True(t, res.Success, res.Error)

	user := s.User()
	require.NotNil(t, user)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "test@example.com", user.Email)
	assert.Equal(t, model.RoleSeller, user.Role)
	assert.Equal(t, "2024-01-15T10:00:01.000Z", user.CreatedAt)

	var persisted model.User
	require.True(t, bridge.Load(ctx, kvstore.KeyUser, &persisted))
	assert.Equal(t, user.ID, persisted.ID)
}

func TestAuth_RegisterSameEmailTwiceSucceeds(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestAuth(t)

	require.True(t, s.Register(ctx, "a@example.com", "x", "A", "").Success)
	first := s.User().ID
	require.True(t, s.Register(ctx, "a@example.com", "x", "A", "").Success)

	assert.NotEqual(t, first, s.User().ID)
	assert.Equal(t, model.RoleBuyer, s.User().Role)
}

func TestAuth_RegisterRejectsAdminRole(t *testing.T) {
	s, _, _ := newTestAuth(t)

	res := s.Register(context.Background(), "a@example.com", "x", "A", model.RoleAdmin)

	assert.False(t, res.Success)
	assert.Equal(t, ErrMsgInvalidRole, res.Error)
	assert.Nil(t, s.User())
}

func TestAuth_RegisterCancelled(t *testing.T) {
	s, _, clock := newTestAuth(t)
	clock.sleepErr = errors.New("deadline")

	res := s.Register(context.Background(), "a@example.com", "x", "A", model.RoleBuyer)

	assert.Equal(t, ErrMsgRegisterFailed, res.Error)
}

func TestAuth_UpdateProfileRequiresUser(t *testing.T) {
	s, _, _ := newTestAuth(t)
	name := "New Name"

	res := s.UpdateProfile(context.Background(), model.ProfileUpdate{Name: &name})

	assert.False(t, res.Success)
	assert.Equal(t, ErrMsgNoUser, res.Error)
}

func TestAuth_UpdateProfileMerges(t *testing.T) {
	ctx := context.Background()
	s, bridge, _ := newTestAuth(t)
	require.True(t, s.Login(ctx, "demo@example.com", "password").Success)

	name, avatar := "  Kaiba  ", "/img/kaiba.png"
	res := s.UpdateProfile(ctx, model.ProfileUpdate{Name: &name, Avatar: &avatar})
	require.True(t, res.Success, res.Error)

	user := s.User()
	assert.Equal(t, "Kaiba", user.Name)
	assert.Equal(t, "/img/kaiba.png", user.Avatar)
	assert.Equal(t, "demo@example.com", user.Email)
	assert.Equal(t, "1", user.ID)

	var persisted model.User
	require.True(t, bridge.Load(ctx, kvstore.KeyUser, &persisted))
	assert.Equal(t, "Kaiba", persisted.Name)
}

func TestAuth_UpdateProfileValidates(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestAuth(t)
	require.True(t, s.Login(ctx, "demo@example.com", "password").Success)

	blank, badEmail := "   ", "not-an-email"
	assert.Equal(t, ErrMsgEmptyName, s.UpdateProfile(ctx, model.ProfileUpdate{Name: &blank}).Error)
	assert.Equal(t, ErrMsgInvalidEmail, s.UpdateProfile(ctx, model.ProfileUpdate{Email: &badEmail}).Error)
	assert.Equal(t, "Demo User", s.User().Name)
}

func TestAuth_Reset(t *testing.T) {
	ctx := context.Background()
	s, bridge, clock := newTestAuth(t)
	require.True(t, s.Login(ctx, "demo@example.com", "password").Success)

	s.Reset()
	assert.Nil(t, s.User())

	reloaded := NewAuthStore(ctx, bridge, clock, AuthOptions{}, zap.NewNop())
	assert.NotNil(t, reloaded.User())
}
