package handler

import (
	"net/http"

	"metamarket-api/internal/model"
	"metamarket-api/internal/service"
	"metamarket-api/pkg/response"
)

// AuthHandler handles the mock sign-in flow of a profile.
type AuthHandler struct {
	sessions Sessions
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(sessions Sessions) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Name     string     `json:"name"`
	Role     model.Role `json:"role"`
}

// AuthResponse carries an auth outcome and the resulting user.
// A failed login is still a 200; Success tells the outcome.
type AuthResponse struct {
	Success bool        `json:"success"`
	Error   string      `json:"error,omitempty"`
	User    *model.User `json:"user"`
}

func authResponse(res service.Result, store *service.AuthStore) AuthResponse {
	return AuthResponse{Success: res.Success, Error: res.Error, User: store.User()}
}

// Session handles GET /api/v1/auth/session
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	session, err := sessionFor(h.sessions, r)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, session.Auth.Snapshot())
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	session, err := sessionFor(h.sessions, r)
	if err != nil {
		response.Error(w, err)
		return
	}

	var req LoginRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, err)
		return
	}

	res := session.Auth.Login(r.Context(), req.Email, req.Password)
	response.OK(w, authResponse(res, session.Auth))
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	session, err := sessionFor(h.sessions, r)
	if err != nil {
		response.Error(w, err)
		return
	}

	var req RegisterRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, err)
		return
	}

	res := session.Auth.Register(r.Context(), req.Email, req.Password, req.Name, req.Role)
	response.OK(w, authResponse(res, session.Auth))
}

// Logout handles POST /api/v1/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session, err := sessionFor(h.sessions, r)
	if err != nil {
		response.Error(w, err)
		return
	}

	session.Auth.Logout(r.Context())
	response.OK(w, AuthResponse{Success: true})
}

// UpdateProfile handles PATCH /api/v1/auth/profile
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	session, err := sessionFor(h.sessions, r)
	if err != nil {
		response.Error(w, err)
		return
	}

	var update model.ProfileUpdate
	if err := response.Decode(r, &update); err != nil {
		response.Error(w, err)
		return
	}

	res := session.Auth.UpdateProfile(r.Context(), update)
	response.OK(w, authResponse(res, session.Auth))
}
