package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"metamarket-api/internal/kvstore"
	"metamarket-api/internal/middleware"
	"metamarket-api/internal/repository"
	"metamarket-api/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Meta    *struct {
		Limit  int   `json:"limit"`
		Offset int   `json:"offset"`
		Total  int64 `json:"total"`
	} `json:"meta"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newTestRegistry(t *testing.T) (*service.Registry, *kvstore.Bridge) {
	t.Helper()
	demo, err := service.NewDemoAccount("demo@example.com", "password", bcrypt.MinCost)
	require.NoError(t, err)

	bridge := kvstore.New(repository.NewMemoryKVRepository(), zap.NewNop())
	return service.NewRegistry(bridge, service.SystemClock(), service.AuthOptions{Demo: demo}, zap.NewNop()), bridge
}

// profileRouter mounts fn on a router behind the profile middleware.
func profileRouter(fn func(r chi.Router)) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Profile)
	fn(r)
	return r
}

func do(t *testing.T, h http.Handler, method, path, profile string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if profile != "" {
		req.Header.Set(middleware.ProfileHeader, profile)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}
