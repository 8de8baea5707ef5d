package middleware

import (
	"context"
	"net/http"
	"regexp"

	"metamarket-api/pkg/apierror"
	"metamarket-api/pkg/response"
	"metamarket-api/pkg/uid"
)

// ProfileHeader carries the browser profile a request belongs to.
const ProfileHeader = "X-Profile-ID"

// ProfileIDKey is the context key for the profile id.
const ProfileIDKey contextKey = "profile_id"

var profileIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Profile resolves the profile id of a request and echoes it back so the
// client can keep it. Only safe methods get a fresh id when the header is
// missing; a write without one would leave state under a profile nobody can
// reach again.
func Profile(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		profileID := r.Header.Get(ProfileHeader)
		if profileID == "" {
			if !isSafeMethod(r.Method) {
				response.Error(w, apierror.BadRequest(ProfileHeader+" header is required"))
				return
			}
			profileID = uid.New()
		} else if !profileIDPattern.MatchString(profileID) {
			response.Error(w, apierror.BadRequest("invalid "+ProfileHeader+" header"))
			return
		}

		w.Header().Set(ProfileHeader, profileID)

		ctx := context.WithValue(r.Context(), ProfileIDKey, profileID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetProfileID retrieves the profile id from context.
func GetProfileID(ctx context.Context) string {
	if id, ok := ctx.Value(ProfileIDKey).(string); ok {
		return id
	}
	return ""
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}
