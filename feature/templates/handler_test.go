package templates_test

import (
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"csv-reconciler/feature/templates"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupApp(t *testing.T) (*fiber.App, *templates.Store) {
	t.Helper()
	store := templates.NewStore(filepath.Join(t.TempDir(), "templates.json"), zap.NewNop())
	feature := templates.NewFeature(store, zap.NewNop())
	assert.Equal(t, "templates", feature.Name())
	assert.True(t, feature.IsEnabled())

	app := fiber.New()
	require.NoError(t, feature.Load(app))
	return app, store
}

func TestHandleCreateAndList(t *testing.T) {
	app, store := setupApp(t)

	body := `{"headerId":"fp1","templateName":"Billing","indices":[0,2]}`
	req := httptest.NewRequest("POST", "/templates", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created templates.Entry
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Equal(t, "Billing", created.Name)
	assert.Equal(t, 1, store.Len())

	_, _ = store.Add("fp2", "Other", []int{1})

	resp, err = app.Test(httptest.NewRequest("GET", "/templates?format=fp1", nil))
	require.NoError(t, err)
	var listed []templates.Entry
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listed))
	require.Len(t, listed, 1)
	assert.Equal(t, []int{0, 2}, listed[0].Indices)

	resp, err = app.Test(httptest.NewRequest("GET", "/templates", nil))
	require.NoError(t, err)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listed))
	assert.Len(t, listed, 2)
}

func TestHandleCreate_Invalid(t *testing.T) {
	app, _ := setupApp(t)

	for _, body := range []string{`{"headerId":"fp1","indices":[0]}`, `not json`} {
		req := httptest.NewRequest("POST", "/templates", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, body)
	}
}

func TestHandleDelete(t *testing.T) {
	app, store := setupApp(t)
	_, _ = store.Add("fp1", "A", []int{0})

	resp, err := app.Test(httptest.NewRequest("DELETE", "/templates/0", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Equal(t, 0, store.Len())

	resp, err = app.Test(httptest.NewRequest("DELETE", "/templates/0", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("DELETE", "/templates/abc", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
