package apierror

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		err    *Error
		status int
		code   string
	}{
		{BadRequest("x"), http.StatusBadRequest, "BAD_REQUEST"},
		{ValidationError("x"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{Unauthorized("x"), http.StatusUnauthorized, "UNAUTHORIZED"},
		{NotFound("x"), http.StatusNotFound, "NOT_FOUND"},
		{Conflict("x"), http.StatusConflict, "CONFLICT"},
		{InternalError("x"), http.StatusInternalServerError, "INTERNAL_ERROR"},
		{BadGateway("x"), http.StatusBadGateway, "BAD_GATEWAY"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.StatusCode)
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, "x", tt.err.Error())
		})
	}

	assert.Equal(t, "Resource not found", NotFound("").Message)
}

func TestAsAndIs(t *testing.T) {
	err := fmt.Errorf("loading card: %w", NotFound("card not found"))

	apiErr, ok := As(err)
	require.True(t, ok)
	assert.Equal(t, "card not found", apiErr.Message)
	assert.True(t, errors.Is(err, NotFound("")))
	assert.False(t, errors.Is(err, Conflict("")))

	_, ok = As(errors.New("plain"))
	assert.False(t, ok)
}

func TestToJSON(t *testing.T) {
	err := ValidationError("invalid cart item", FieldError{Field: "id", Message: "is required"})

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(err.ToJSON(), &body))

	assert.Equal(t, false, body["success"])
	e := body["error"].(map[string]interface{})
	assert.Equal(t, "VALIDATION_ERROR", e["code"])
	assert.Len(t, e["details"], 1)

	require.NoError(t, json.Unmarshal(NotFound("").ToJSON(), &body))
	assert.NotContains(t, body["error"], "details")
}
