package http_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/gesafe-api/internal/interfaces/http"
)

func TestRequestLogger_RegistraPanicos(t *testing.T) {
	var buf bytes.Buffer
	app := apphttp.NewApp("gesafe-test", zerolog.New(&buf))
	app.Get("/explota", func(c *fiber.Ctx) error {
		panic("boom")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/explota", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, buf.String(), `"message":"http"`)
	assert.Contains(t, buf.String(), `"path":"/explota"`)
	assert.Contains(t, buf.String(), `"status":500`)
}

func TestRequestLogger_RegistraPeticion(t *testing.T) {
	var buf bytes.Buffer
	app := apphttp.NewApp("gesafe-test", zerolog.New(&buf))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, buf.String(), `"status":200`)
	assert.Contains(t, buf.String(), `"request_id":"`)
}
