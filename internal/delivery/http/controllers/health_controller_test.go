package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"devevents/internal/delivery/http/helpers"
	"devevents/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthController_Health(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		ctrl := NewHealthController(testLogger, fakePinger{})
		rr := httptest.NewRecorder()

		ctrl.Health(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		var resp HealthResponse
		decodeEnvelope(t, rr, &resp)
		assert.Equal(t, "ok", resp.Status)
	})

	t.Run("store unavailable", func(t *testing.T) {
		ctrl := NewHealthController(testLogger, fakePinger{err: &domain.ConnectivityError{Err: assert.AnError}})
		rr := httptest.NewRecorder()

		ctrl.Health(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		require.Equal(t, http.StatusServiceUnavailable, rr.Code)
		envelope := decodeEnvelope(t, rr, nil)
		require.NotNil(t, envelope.Error)
		assert.Equal(t, helpers.ErrCodeUnavailable, envelope.Error.Code)
	})
}
