package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"metamarket-api/pkg/apierror"
	"metamarket-api/pkg/response"

	"go.uber.org/zap"
)

// APIKeyConfig holds configuration for the API key middleware.
type APIKeyConfig struct {
	// Keys accepted in X-API-Key or as a bearer token. Empty disables the check.
	Keys   []string
	Logger *zap.Logger
}

// NewAPIKeyMiddleware rejects requests without a valid API key. Health
// endpoints are always open.
func NewAPIKeyMiddleware(cfg APIKeyConfig) func(http.Handler) http.Handler {
	logger := cfg.Logger.Named("apikey")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(cfg.Keys) == 0 || isPublicPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			apiKey := r.Header.Get("X-API-Key")
			if apiKey == "" {
				auth := r.Header.Get("Authorization")
				if strings.HasPrefix(auth, "Bearer ") {
					apiKey = strings.TrimPrefix(auth, "Bearer ")
				}
			}

			if apiKey == "" {
				response.Error(w, apierror.Unauthorized("Authentication required. Use X-API-Key header."))
				return
			}

			if !isValidKey(apiKey, cfg.Keys) {
				logger.Warn("invalid api key",
					zap.String("path", r.URL.Path),
					zap.String("request_id", GetRequestID(r.Context())))
				response.Error(w, apierror.Unauthorized("Invalid API key"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func isPublicPath(path string) bool {
	switch path {
	case "/api/status", "/api/v1/health", "/api/v1/ready":
		return true
	}
	return false
}

// isValidKey checks if the provided key is in the valid keys list.
func isValidKey(key string, validKeys []string) bool {
	for _, valid := range validKeys {
		if subtle.ConstantTimeCompare([]byte(key), []byte(valid)) == 1 {
			return true
		}
	}
	return false
}
