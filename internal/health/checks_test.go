package health_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/munera-collective/munera-platform/internal/config"
	"github.com/munera-collective/munera-platform/internal/health"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type downListener struct{}

func (downListener) Ping() error { return errors.New("no connection to server") }

func TestNewHealthHandler(t *testing.T) {
	t.Run("Success - Reports failing components", func(t *testing.T) {
		// Arrange
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectPing()

		cfg := &config.Config{RedisConnect: config.RedisConnect{Host: "127.0.0.1", Port: "1", Username: "u", Password: "p"}}

		h, err := health.NewHealthHandler(cfg, &health.Endpoints{
			DB:       db,
			Realtime: downListener{},
		})
		require.NoError(t, err)

		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/health", nil)

		// Act
		h.Handler().ServeHTTP(rr, req)

		// Assert
		var body struct {
			Status   string            `json:"status"`
			Failures map[string]string `json:"failures"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))

		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
		assert.Contains(t, body.Failures, "redis")
		assert.Contains(t, body.Failures, "realtime")
		assert.NotContains(t, body.Failures, "database")
		assert.NotContains(t, body.Failures, "stripe")
	})
}
