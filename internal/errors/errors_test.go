package errors

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(http.StatusBadRequest, "TEST_ERROR", "test message")

	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, "TEST_ERROR", err.ErrorCode)
	assert.Equal(t, "test message", err.Message)
	assert.Nil(t, err.Details)
	assert.Equal(t, "test message", err.Error())
}

func TestNewWithDetails(t *testing.T) {
	err := NewWithDetails(http.StatusUnprocessableEntity, "DEGENERATE_GRID", "bad grid", "GR at index 3")

	assert.Equal(t, http.StatusUnprocessableEntity, err.StatusCode)
	assert.Equal(t, "GR at index 3", err.Details)
}

func TestPredefinedErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *APIError
		wantStatus int
		wantCode   string
	}{
		{"invalid request", ErrInvalidRequest, http.StatusBadRequest, "INVALID_REQUEST"},
		{"well not found", ErrWellNotFound, http.StatusNotFound, "WELL_NOT_FOUND"},
		{"series not found", ErrSeriesNotFound, http.StatusNotFound, "SERIES_NOT_FOUND"},
		{"degenerate grid", ErrDegenerateGrid, http.StatusUnprocessableEntity, "DEGENERATE_GRID"},
		{"depth misaligned", ErrDepthMisaligned, http.StatusUnprocessableEntity, "DEPTH_MISALIGNED"},
		{"rate limited", ErrRateLimitExceeded, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED"},
		{"internal", ErrInternalServer, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, tt.err.StatusCode)
			assert.Equal(t, tt.wantCode, tt.err.ErrorCode)
		})
	}
}

func TestErrValidation(t *testing.T) {
	err := ErrValidation("depth_from", "must be less than depth_to")

	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	detail, ok := err.Details.(ValidationError)
	require.True(t, ok)
	assert.Equal(t, "depth_from", detail.Field)
}

func TestNewValidationErrors(t *testing.T) {
	err := NewValidationErrors([]ValidationError{
		{Field: "well", Message: "well is required"},
		{Field: "calculation", Message: "calculation must be one of: weighted arithmetic both"},
	})

	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", err.ErrorCode)
	// Error() carries the field messages, not just a generic banner.
	assert.Contains(t, err.Error(), "well is required")
	assert.Contains(t, err.Error(), "calculation must be one of")

	details, ok := err.Details.(ValidationErrors)
	require.True(t, ok)
	assert.Len(t, details.Errors, 2)
}

func TestWellNotFoundError(t *testing.T) {
	err := WellNotFoundError("34/2-1")

	assert.Equal(t, http.StatusNotFound, err.StatusCode)
	assert.Equal(t, "WELL_NOT_FOUND", err.ErrorCode)
	assert.Contains(t, err.Message, "34/2-1")
}

func TestAppError(t *testing.T) {
	t.Run("with cause", func(t *testing.T) {
		cause := assert.AnError
		err := NewParsingError("bad CSV header", cause)

		assert.Contains(t, err.Error(), "[PARSING]")
		assert.Contains(t, err.Error(), "bad CSV header")
		assert.ErrorIs(t, err, cause)
	})

	t.Run("without cause", func(t *testing.T) {
		err := NewAppValidationError("series name required")
		assert.Equal(t, "[VALIDATION] series name required", err.Error())
	})

	t.Run("with context", func(t *testing.T) {
		err := NewStorageError("write failed", nil).
			WithContext("path", "/tmp/report.xlsx")
		assert.Equal(t, "/tmp/report.xlsx", err.Context["path"])
	})
}

func TestProblemDetailsMarshalJSON(t *testing.T) {
	pd := NewProblemDetails(422, TypeDegenerateGrid, "Degenerate Depth Grid", "GR at index 3", "/api/wells/x/statistics").
		WithExtension("series", "GR").
		WithExtension("index", 3)

	data, err := json.Marshal(pd)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, TypeDegenerateGrid, decoded["type"])
	assert.Equal(t, float64(422), decoded["status"])
	assert.Equal(t, "GR", decoded["series"])
	assert.Equal(t, float64(3), decoded["index"])
}
