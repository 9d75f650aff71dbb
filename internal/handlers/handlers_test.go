package handlers

import (
	"encoding/json"
	"io"
	"movierec/config"
	"movierec/internal/handlers/middleware"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExclude(t *testing.T) {
	testCases := []struct {
		name      string
		query     string
		expected  []int
		wantError bool
	}{
		{name: "missing", query: "", expected: []int{}},
		{name: "list with duplicates", query: "?exclude=3,1,3", expected: []int{3, 1}},
		{name: "blank entries skipped", query: "?exclude=4,,5,", expected: []int{4, 5}},
		{name: "not a number", query: "?exclude=4,abc", wantError: true},
		{name: "negative id", query: "?exclude=-2", wantError: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				ids, err := parseExclude(c)
				if tc.wantError {
					assert.ErrorIs(t, err, ErrInvalidExclude)
					return nil
				}
				assert.NoError(t, err)
				assert.Equal(t, tc.expected, ids)
				return nil
			})

			_, err := app.Test(httptest.NewRequest("GET", "/"+tc.query, nil))
			require.NoError(t, err)
		})
	}
}

func TestParseIDParam(t *testing.T) {
	app := fiber.New()
	app.Get("/users/:id", func(c *fiber.Ctx) error {
		id, err := parseIDParam(c, "id")
		if err != nil {
			return badRequest(c, err)
		}
		return c.JSON(fiber.Map{"id": id})
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/users/42", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/users/zero", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/users/0", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHealthHandler_CarriesTraceID(t *testing.T) {
	app := fiber.New()
	mw := middleware.New(config.Config{GeneralVersion: "1.2.3"})
	api := app.Group("/api", mw.TraceID())
	HealthHandler(api, mw.Config)

	req := httptest.NewRequest("GET", "/api/health", nil)
	req.Header.Set(middleware.TraceIDHeader, "trace-123")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "trace-123", resp.Header.Get(middleware.TraceIDHeader))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var payload map[string]string
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, "ok", payload["status"])
	assert.Equal(t, "1.2.3", payload["version"])
}
