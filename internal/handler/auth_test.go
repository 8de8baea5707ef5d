package handler

import (
	"net/http"
	"testing"

	"metamarket-api/internal/model"
	"metamarket-api/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthRouter(t *testing.T) http.Handler {
	t.Helper()
	registry, _ := newTestRegistry(t)
	h := NewAuthHandler(registry)

	return profileRouter(func(r chi.Router) {
		r.Get("/auth/session", h.Session)
		r.Post("/auth/login", h.Login)
		r.Post("/auth/register", h.Register)
		r.Post("/auth/logout", h.Logout)
		r.Patch("/auth/profile", h.UpdateProfile)
	})
}

func TestAuthHandler_LoginLogout(t *testing.T) {
	h := newAuthRouter(t)

	_, env := do(t, h, http.MethodPost, "/auth/login", "alice", LoginRequest{Email: "demo@example.com", Password: "wrong"})
	res := decode[AuthResponse](t, env)
	assert.False(t, res.Success)
	assert.Equal(t, service.ErrMsgInvalidCredentials, res.Error)
	assert.Nil(t, res.User)

	rec, env := do(t, h, http.MethodPost, "/auth/login", "alice", LoginRequest{Email: "demo@example.com", Password: "password"})
	require.Equal(t, http.StatusOK, rec.Code)
	res = decode[AuthResponse](t, env)
	require.True(t, res.Success)
	assert.Equal(t, "Demo User", res.User.Name)

	_, env = do(t, h, http.MethodGet, "/auth/session", "alice", nil)
	snap := decode[service.AuthSnapshot](t, env)
	assert.True(t, snap.Authenticated)
	assert.False(t, snap.IsLoading)

	_, env = do(t, h, http.MethodGet, "/auth/session", "bob", nil)
	assert.False(t, decode[service.AuthSnapshot](t, env).Authenticated)

	do(t, h, http.MethodPost, "/auth/logout", "alice", nil)
	_, env = do(t, h, http.MethodGet, "/auth/session", "alice", nil)
	assert.Nil(t, decode[service.AuthSnapshot](t, env).User)
}

func TestAuthHandler_RegisterAndProfile(t *testing.T) {
	h := newAuthRouter(t)

	_, env := do(t, h, http.MethodPost, "/auth/register", "alice", RegisterRequest{
		Email: "seller@example.com", Password: "x", Name: "Seller", Role: model.RoleSeller,
	})
	res := decode[AuthResponse](t, env)
	require.True(t, res.Success)
	assert.Equal(t, model.RoleSeller, res.User.Role)

	_, env = do(t, h, http.MethodPatch, "/auth/profile", "alice", map[string]string{"name": "Pegasus"})
	res = decode[AuthResponse](t, env)
	require.True(t, res.Success)
	assert.Equal(t, "Pegasus", res.User.Name)

	_, env = do(t, h, http.MethodPatch, "/auth/profile", "alice", map[string]string{"email": "nope"})
	res = decode[AuthResponse](t, env)
	assert.False(t, res.Success)
	assert.Equal(t, service.ErrMsgInvalidEmail, res.Error)
}

func TestAuthHandler_ProfileWithoutUser(t *testing.T) {
	h := newAuthRouter(t)

	_, env := do(t, h, http.MethodPatch, "/auth/profile", "alice", map[string]string{"name": "x"})

	res := decode[AuthResponse](t, env)
	assert.False(t, res.Success)
	assert.Equal(t, service.ErrMsgNoUser, res.Error)
}

func TestAuthHandler_RegisterAdminRejected(t *testing.T) {
	h := newAuthRouter(t)

	_, env := do(t, h, http.MethodPost, "/auth/register", "alice", RegisterRequest{
		Email: "a@example.com", Password: "x", Name: "A", Role: model.RoleAdmin,
	})

	assert.Equal(t, service.ErrMsgInvalidRole, decode[AuthResponse](t, env).Error)
}
