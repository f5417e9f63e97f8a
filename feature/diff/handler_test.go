package diff

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"csv-reconciler/feature/export"
	"csv-reconciler/feature/snapshot"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupApp(t *testing.T, s *Service) *fiber.App {
	t.Helper()
	feature := NewFeature(s, zap.NewNop())
	assert.Equal(t, "diff", feature.Name())
	assert.True(t, feature.IsEnabled())

	app := fiber.New()
	require.NoError(t, feature.Load(app))
	return app
}

func postDiff(t *testing.T, app *fiber.App, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest("POST", "/diff", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	return resp
}

func TestHandler_SubmitAndGet(t *testing.T) {
	dir := t.TempDir()
	first := writeFile(t, dir, "first.csv", firstCSV)
	second := writeFile(t, dir, "second.csv", secondCSV)
	app := setupApp(t, newTestService(t, 0))

	resp := postDiff(t, app, fmt.Sprintf(`{"first":%q,"second":%q}`, first, second))
	require.Equal(t, fiber.StatusAccepted, resp.StatusCode)

	var submitted Submitted
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&submitted))
	require.NotEmpty(t, submitted.JobID)

	resp, err := app.Test(httptest.NewRequest("GET", "/diff/"+submitted.JobID+"?wait=true", nil), 5000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var view JobView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
	assert.Equal(t, StatusDone, view.Status)
	require.NotNil(t, view.Result)
	assert.Equal(t, []string{"Job", "Name", "City"}, view.Result.Headers)
	assert.Len(t, view.Result.Rows, 3)

	resp, err = app.Test(httptest.NewRequest("GET", "/diff/"+submitted.JobID+"/export?columns=0,1", nil), 5000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, snapshot.XLSXContentType, resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), submitted.JobID+".xlsx")
	data, _ := io.ReadAll(resp.Body)
	assert.True(t, len(data) > 0)
}

func TestHandler_Errors(t *testing.T) {
	dir := t.TempDir()
	first := writeFile(t, dir, "first.csv", "A,B\n1,2\n")
	second := writeFile(t, dir, "second.csv", "A,B,C\n1,2,3\n")
	app := setupApp(t, newTestService(t, 0))

	t.Run("InvalidBody", func(t *testing.T) {
		resp := postDiff(t, app, `{`)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("MissingFile", func(t *testing.T) {
		resp := postDiff(t, app, fmt.Sprintf(`{"first":%q,"second":"/missing.csv"}`, first))
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "invalid_input", body["code"])
	})

	t.Run("UnknownJob", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/diff/nope", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("DifferentFormat", func(t *testing.T) {
		resp := postDiff(t, app, fmt.Sprintf(`{"first":%q,"second":%q}`, first, second))
		require.Equal(t, fiber.StatusAccepted, resp.StatusCode)
		var submitted Submitted
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&submitted))

		resp, err := app.Test(httptest.NewRequest("GET", "/diff/"+submitted.JobID+"?wait=1", nil), 5000)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

		var view JobView
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
		assert.Equal(t, StatusFailed, view.Status)
		assert.Equal(t, "different_format", view.Code)

		resp, err = app.Test(httptest.NewRequest("GET", "/diff/"+submitted.JobID+"/export?columns=0", nil), 5000)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	})

	t.Run("BadColumns", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/diff/any/export?columns=a", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("UploadWithoutStorage", func(t *testing.T) {
		good := writeFile(t, dir, "good.csv", firstCSV)
		resp := postDiff(t, app, fmt.Sprintf(`{"first":%q,"second":%q}`, good, good))
		var submitted Submitted
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&submitted))

		resp, err := app.Test(httptest.NewRequest("GET", "/diff/"+submitted.JobID+"?wait=true", nil), 5000)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		resp, err = app.Test(httptest.NewRequest("GET", "/diff/"+submitted.JobID+"/export?columns=0&upload=true", nil), 5000)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestHandler_Busy(t *testing.T) {
	dir := t.TempDir()
	first := writeFile(t, dir, "first.csv", firstCSV)
	second := writeFile(t, dir, "second.csv", secondCSV)
	s := newTestService(t, 300*time.Millisecond)
	app := setupApp(t, s)

	body := fmt.Sprintf(`{"first":%q,"second":%q}`, first, second)
	resp := postDiff(t, app, body)
	require.Equal(t, fiber.StatusAccepted, resp.StatusCode)

	resp = postDiff(t, app, body)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestHandler_LocalRoot(t *testing.T) {
	root := t.TempDir()
	inside := writeFile(t, root, "inside.csv", firstCSV)

	t.Run("OutsideRoot", func(t *testing.T) {
		s := NewService(Config{LocalRoot: root}, newRunner(t, 0), export.NewWriter(export.DefaultConfig()))
		t.Cleanup(s.Close)
		app := setupApp(t, s)

		resp := postDiff(t, app, `{"first":"/etc/passwd","second":"/etc/passwd"}`)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "invalid_input", body["code"])
		assert.Empty(t, s.jobs)
	})

	t.Run("LocalDisabled", func(t *testing.T) {
		s := NewService(Config{}, newRunner(t, 0), export.NewWriter(export.DefaultConfig()))
		t.Cleanup(s.Close)
		app := setupApp(t, s)

		resp := postDiff(t, app, fmt.Sprintf(`{"first":%q,"second":%q}`, inside, inside))
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}
