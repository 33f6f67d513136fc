package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "wellstats/internal/errors"
)

func testValidation() *ValidationMiddleware {
	logger := testLogger()
	return NewValidationMiddleware(logger, apierrors.NewErrorHandler(logger, false))
}

func TestValidateStruct(t *testing.T) {
	type computeRequest struct {
		Well        string `json:"well" validate:"required,wellname"`
		Series      string `json:"series" validate:"required,seriesname"`
		Calculation string `json:"calculation" validate:"omitempty,oneof=weighted arithmetic both"`
	}

	m := testValidation()

	t.Run("valid", func(t *testing.T) {
		err := m.ValidateStruct(computeRequest{Well: "34/2-1", Series: "PHIE", Calculation: "weighted"})
		assert.NoError(t, err)
	})

	t.Run("missing well", func(t *testing.T) {
		err := m.ValidateStruct(computeRequest{Series: "PHIE"})
		require.Error(t, err)

		apiErr, ok := err.(*apierrors.APIError)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
		assert.Contains(t, apiErr.Error(), "well is required")
	})

	t.Run("bad calculation mode", func(t *testing.T) {
		err := m.ValidateStruct(computeRequest{Well: "34/2-1", Series: "PHIE", Calculation: "median"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "calculation must be one of")
	})

	t.Run("traversal in well name", func(t *testing.T) {
		err := m.ValidateStruct(computeRequest{Well: "../etc/passwd", Series: "PHIE"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "well must be a valid well name")
	})

	t.Run("bad series characters", func(t *testing.T) {
		err := m.ValidateStruct(computeRequest{Well: "34/2-1", Series: "PHIE;DROP"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "series must be a valid series name")
	})
}

func TestValidateRequest(t *testing.T) {
	m := testValidation()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("GET skips body validation", func(t *testing.T) {
		rec := httptest.NewRecorder()
		m.ValidateRequest(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/wells", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("valid JSON passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/statistics", strings.NewReader(`{"well":"34/2-1"}`))
		rec := httptest.NewRecorder()
		m.ValidateRequest(next).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("malformed JSON rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/statistics", strings.NewReader(`{"well":`))
		rec := httptest.NewRecorder()
		m.ValidateRequest(next).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("oversized payload rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/statistics", strings.NewReader("{}"))
		req.ContentLength = 64 * 1024 * 1024
		rec := httptest.NewRecorder()
		m.ValidateRequest(next).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})
}

func TestContentTypeValidator(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := ContentTypeValidator("application/json")(next)

	t.Run("json accepted", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/statistics", strings.NewReader("{}"))
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing content type", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/statistics", strings.NewReader("{}"))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("wrong content type", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/statistics", strings.NewReader("{}"))
		req.Header.Set("Content-Type", "text/plain")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	})

	t.Run("GET skipped", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/wells", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestQueryParamValidator(t *testing.T) {
	logger := testLogger()
	v := NewQueryParamValidator(logger, apierrors.NewErrorHandler(logger, false))

	t.Run("int default", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/wells", nil)
		got, ok := v.ValidateInt(httptest.NewRecorder(), req, "limit", 1, 100, 25)
		require.True(t, ok)
		assert.Equal(t, 25, got)
	})

	t.Run("int out of range", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/wells?limit=500", nil)
		rec := httptest.NewRecorder()
		_, ok := v.ValidateInt(rec, req, "limit", 1, 100, 25)
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("float parsed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/resample?step=0.5", nil)
		got, ok := v.ValidateFloat(httptest.NewRecorder(), req, "step", 0.1524)
		require.True(t, ok)
		assert.Equal(t, 0.5, got)
	})

	t.Run("enum rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/statistics?calculation=median", nil)
		rec := httptest.NewRecorder()
		_, ok := v.ValidateEnum(rec, req, "calculation", []string{"weighted", "arithmetic", "both"}, "weighted")
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
