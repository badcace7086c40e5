package middleware

// identity.go holds helpers shared across middleware files.  The rate
// limiter keys buckets per user where possible; currentUserID turns
// whatever the JWT middleware stored into a stable string, falling
// back to "anon" for unauthenticated traffic.

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

// currentUserID returns a string form of the authenticated user id
// from the context, or "anon" when the request carries no identity.
func currentUserID(c echo.Context) string {
	switch v := c.Get("user_id").(type) {
	case nil:
		return "anon"
	case string:
		if v != "" {
			return v
		}
		return "anon"
	case float64:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprint(v)
	}
}
