package routes

import (
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fetch(t *testing.T, app *fiber.App, path string) (int, string) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, path, nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(raw)
}

func TestStaticServesAssetsAndFallsBackToIndex(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>spa</html>"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "assets"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "assets", "app.js"), []byte("console.log(1)"), 0o644))

	cfg := &Config{App: fiber.New(), StaticDir: dir}
	cfg.App.Get("/api/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })
	cfg.Static()

	status, body := fetch(t, cfg.App, "/assets/app.js")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "console.log(1)", body)

	status, body = fetch(t, cfg.App, "/admin/payments")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "<html>spa</html>", body)

	status, body = fetch(t, cfg.App, "/api/ping")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "pong", body)

	status, _ = fetch(t, cfg.App, "/api/v1/unknown")
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = fetch(t, cfg.App, "/webhook/unknown")
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestStaticSkippedWithoutIndex(t *testing.T) {
	cfg := &Config{App: fiber.New(), StaticDir: t.TempDir()}
	cfg.Static()

	status, _ := fetch(t, cfg.App, "/anything")
	assert.Equal(t, fiber.StatusNotFound, status)
}
