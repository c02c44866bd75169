package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"loja/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hotlinkApp(allowedHosts []string) *fiber.App {
	app := fiber.New()
	app.Use("/uploads", middleware.HotlinkProtection(allowedHosts))
	app.Get("/uploads/pic.png", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func TestHotlinkProtection(t *testing.T) {
	app := hotlinkApp([]string{"localhost", "127.0.0.1", "shop.example.com"})

	cases := []struct {
		name    string
		referer string
		status  int
	}{
		{"no referer passes", "", http.StatusOK},
		{"own frontend host passes", "https://shop.example.com/products/1", http.StatusOK},
		{"loopback passes", "http://127.0.0.1:5173/products/1", http.StatusOK},
		{"social network passes", "https://www.facebook.com/some/share", http.StatusOK},
		{"social subdomain passes", "https://mail.google.com/mail/u/0/", http.StatusOK},
		{"unparseable referer passes", "://nope", http.StatusOK},
		{"foreign site blocked", "https://scraper.example.net/gallery", http.StatusForbidden},
		{"lookalike suffix blocked", "https://notfacebook.com/x", http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/uploads/pic.png", nil)
			if tc.referer != "" {
				req.Header.Set("Referer", tc.referer)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}
