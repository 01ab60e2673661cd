package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

func intParam(ctx echo.Context, name string) (int, error) {
	v, err := strconv.Atoi(ctx.Param(name))
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+name)
	}
	return v, nil
}
