package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/soulscroll/luma/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserIdentity(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		sendHeader string
		value      string
		wantStatus int
		wantUser   string
	}{
		{"default header", "", "X-User-ID", "alice", fiber.StatusOK, "alice"},
		{"custom header", "X-Account", "X-Account", "bob", fiber.StatusOK, "bob"},
		{"trimmed", "", "X-User-ID", "  carol  ", fiber.StatusOK, "carol"},
		{"missing", "", "", "", fiber.StatusUnauthorized, ""},
		{"blank", "", "X-User-ID", "   ", fiber.StatusUnauthorized, ""},
		{"wrong header", "X-Account", "X-User-ID", "alice", fiber.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string

			app := fiber.New()
			app.Use(UserIdentity(logging.NewNop(), tt.header))
			app.Get("/test", func(c *fiber.Ctx) error {
				seen = UserID(c)
				return c.SendString("OK")
			})

			req := httptest.NewRequest("GET", "/test", nil)
			if tt.sendHeader != "" {
				req.Header.Set(tt.sendHeader, tt.value)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantUser, seen)
		})
	}
}

func TestUserID_Absent(t *testing.T) {
	app := fiber.New()
	app.Get("/test", func(c *fiber.Ctx) error {
		return c.SendString(UserID(c))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/test", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
