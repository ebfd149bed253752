package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// currentUserID returns a string form of the authenticated user's id
// for rate-limit keys. JWTAuth stores the raw "sub" claim, which
// decodes as float64 for numeric subjects. Unauthenticated requests
// share the "anon" bucket.
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
