package middleware

// identity.go holds helpers shared across middleware files for naming the
// caller in cache and limiter keys.

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// currentUserID renders the authenticated user's ID for key building. JWT
// numeric claims decode as float64, so both forms are handled. Returns
// "anon" when no user is authenticated.
func currentUserID(c echo.Context) string {
	switch v := c.Get("user_id").(type) {
	case string:
		if v != "" {
			return v
		}
	case float64:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	}
	return "anon"
}
