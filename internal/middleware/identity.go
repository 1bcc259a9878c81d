package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// Context keys set by JWTAuth.
const (
	ContextPenguinID = "penguin_id"
	ContextRole      = "role"
)

// PenguinID returns the authenticated penguin, if JWTAuth ran.
func PenguinID(c echo.Context) (int, bool) {
	id, ok := c.Get(ContextPenguinID).(int)
	return id, ok && id > 0
}

// principal names the caller for rate-limit keys: "penguin:<id>" when
// authenticated, "anon" otherwise.
func principal(c echo.Context) string {
	if id, ok := PenguinID(c); ok {
		return "penguin:" + strconv.Itoa(id)
	}
	return "anon"
}
