package controllers

import (
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupIconApp(t *testing.T) *fiber.App {
	t.Helper()

	dir := t.TempDir()
	solid := filepath.Join(dir, "solid")
	require.NoError(t, os.MkdirAll(solid, 0o755))
	for _, name := range []string{"arrow-up.svg", "arrow-down.svg", "camera.svg"} {
		require.NoError(t, os.WriteFile(filepath.Join(solid, name), []byte("<svg></svg>"), 0o644))
	}
	t.Setenv("ICONS_PATH", dir)

	app := fiber.New()
	app.Get("/api/v1/icons", HandleIconList)
	app.Get("/api/v1/icons/:category/:name", HandleIconFile)
	return app
}

func TestHandleIconListFiltersAndPaginates(t *testing.T) {
	app := setupIconApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/icons?category=solid&search=arrow", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Icons []string `json:"icons"`
		Total int      `json:"total"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 2, body.Total)
	assert.Equal(t, []string{"arrow-down", "arrow-up"}, body.Icons)
}

func TestHandleIconListRejectsUnknownCategory(t *testing.T) {
	app := setupIconApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/icons?category=sharp", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestHandleIconFileServesSVG(t *testing.T) {
	app := setupIconApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/icons/solid/camera", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/svg+xml", resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderCacheControl), "max-age=86400")
}

func TestHandleIconFileRejectsTraversal(t *testing.T) {
	app := setupIconApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/icons/solid/..%2f..%2fsecret", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHandleIconFileUnknownIcon(t *testing.T) {
	app := setupIconApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/icons/solid/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
