package handler

import (
	"net/http"
	"strconv"

	"metamarket-api/pkg/apierror"
)

// queryInt parses an optional integer query parameter within [lo, hi].
func queryInt(r *http.Request, name string, def, lo, hi int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < lo || v > hi {
		return 0, apierror.ValidationError("invalid query parameter", apierror.FieldError{
			Field:   name,
			Message: "must be an integer between " + strconv.Itoa(lo) + " and " + strconv.Itoa(hi),
		})
	}
	return v, nil
}
