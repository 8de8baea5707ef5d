package handler

import (
	"context"
	"net/http"

	"metamarket-api/internal/middleware"
	"metamarket-api/internal/service"
	"metamarket-api/pkg/apierror"
)

// Sessions hands out the stores of a browser profile.
type Sessions interface {
	Get(ctx context.Context, profileID string) *service.Session
}

// sessionFor returns the session of the request's profile. The profile
// middleware must run first.
func sessionFor(sessions Sessions, r *http.Request) (*service.Session, error) {
	profileID := middleware.GetProfileID(r.Context())
	if profileID == "" {
		return nil, apierror.BadRequest("missing " + middleware.ProfileHeader + " header")
	}
	return sessions.Get(r.Context(), profileID), nil
}
