package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/inventario-sucursales/internal/interfaces/http"
)

func hardenedApp(limit int) *fiber.App {
	app := fiber.New()
	app.Get("/ping", apphttp.SecureHeaders(false), apphttp.RateLimit(limit, time.Minute), func(c *fiber.Ctx) error {
		return c.SendString("pong")
	})
	return app
}

func ping(t *testing.T, app *fiber.App) *http.Response {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ping", nil), -1)
	require.NoError(t, err)
	return resp
}

func TestSecureHeaders_Cabeceras(t *testing.T) {
	resp := ping(t, hardenedApp(0))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
}

func TestRateLimit_ExcedidoEs429(t *testing.T) {
	app := hardenedApp(2)
	for i := 0; i < 2; i++ {
		resp := ping(t, app)
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode, "solicitud %d dentro del límite", i+1)
	}

	resp := ping(t, app)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "RATE_LIMITED", decodeError(t, resp).Code)
}

func TestRateLimit_CeroDesactiva(t *testing.T) {
	app := hardenedApp(0)
	for i := 0; i < 5; i++ {
		resp := ping(t, app)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}
}
