package auth

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(cfg Config) *fiber.App {
	app := fiber.New()
	app.Use(New(cfg))
	app.Get("/diff", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	app.Get("/metrics", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	return app
}

func TestNew(t *testing.T) {
	tests := []struct {
		name   string
		cfg    Config
		path   string
		key    string
		status int
	}{
		{"Disabled", Config{}, "/diff", "", fiber.StatusOK},
		{"ValidKey", Config{ApiKey: "secret"}, "/diff", "secret", fiber.StatusOK},
		{"MissingKey", Config{ApiKey: "secret"}, "/diff", "", fiber.StatusUnauthorized},
		{"WrongKey", Config{ApiKey: "secret"}, "/diff", "nope", fiber.StatusUnauthorized},
		{"SkippedPath", Config{ApiKey: "secret", Skip: []string{"/metrics"}}, "/metrics", "", fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.key != "" {
				req.Header.Set(HeaderName, tt.key)
			}
			resp, err := newApp(tt.cfg).Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}
