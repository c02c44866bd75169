package middleware

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// socialRefererDomains are external sites allowed to embed uploaded
// assets, so product images keep rendering in shares, previews and
// mail clients. Subdomains match too (www.facebook.com, cdn.x.com).
var socialRefererDomains = []string{
	"facebook.com",
	"instagram.com",
	"twitter.com",
	"x.com",
	"pinterest.com",
	"linkedin.com",
	"google.com",
	"feedly.com",
	"flipboard.com",
}

// HotlinkProtection blocks requests for static assets whose Referer
// points at a host outside the allowed list. Requests without a
// Referer header pass through so direct downloads keep working.
// allowedHosts holds the site's own hostnames; the social-network
// allowlist is always in effect.
func HotlinkProtection(allowedHosts []string) fiber.Handler {
	allowed := make(map[string]struct{}, len(allowedHosts))
	for _, h := range allowedHosts {
		if h != "" {
			allowed[h] = struct{}{}
		}
	}

	return func(c *fiber.Ctx) error {
		referer := c.Get("Referer")
		if referer == "" {
			return c.Next()
		}

		ref, err := url.Parse(referer)
		if err != nil || ref.Hostname() == "" {
			return c.Next()
		}

		if ref.Hostname() == c.Hostname() {
			return c.Next()
		}
		if _, ok := allowed[ref.Hostname()]; ok {
			return c.Next()
		}
		for _, domain := range socialRefererDomains {
			if ref.Hostname() == domain || strings.HasSuffix(ref.Hostname(), "."+domain) {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "Hotlinking is not allowed",
		})
	}
}
