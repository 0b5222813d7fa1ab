package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// callerID returns the authenticated user id as a string for cache and
// rate-limit keys, or fallback when the request is anonymous.
func callerID(c echo.Context, fallback string) string {
	if id, ok := c.Get(CtxUserID).(uint64); ok && id != 0 {
		return strconv.FormatUint(id, 10)
	}
	return fallback
}
