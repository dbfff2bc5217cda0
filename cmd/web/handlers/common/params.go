package common

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// RequireStringParam extracts a non-empty route parameter or returns a 400 error.
func RequireStringParam(c echo.Context, param string) (string, error) {
	v := strings.TrimSpace(c.Param(param))
	if v == "" {
		return "", ErrBadRequest("invalid " + param)
	}
	return v, nil
}

// BindAndValidate binds the request body into v and runs the echo validator.
func BindAndValidate(c echo.Context, v any) error {
	if err := c.Bind(v); err != nil {
		return ErrBadRequest("invalid json")
	}
	if err := c.Validate(v); err != nil {
		return ErrBadRequest(err.Error())
	}
	return nil
}
