package echoapi

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// intParam parses a numeric path parameter; a malformed value maps to 404.
func intParam(ctx echo.Context, name string) (int, error) {
	v, err := strconv.Atoi(ctx.Param(name))
	if err != nil {
		return 0, errHttpNotFound
	}
	return v, nil
}
