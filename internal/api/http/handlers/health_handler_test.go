package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/wallet-service/internal/persistence"
)

func newHealthApp() *fiber.App {
	handler := NewHealthHandler("wallet-service", "test", &persistence.Postgres{}, &persistence.Redis{})
	app := fiber.New()
	app.Get("/health/live", handler.Live)
	app.Get("/health/ready", handler.Ready)
	return app
}

func TestHealthLive(t *testing.T) {
	app := newHealthApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health/live", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	require.Equal(t, "alive", body["status"])
	require.Equal(t, "wallet-service", body["service"])
}

func TestHealthReadyReportsUnconfiguredDependencies(t *testing.T) {
	app := newHealthApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
