package common

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"thirdcoast.systems/songforge/internal/db"
	"thirdcoast.systems/songforge/internal/suno"
)

// ErrBadRequest returns a 400 Bad Request error.
func ErrBadRequest(msg string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusBadRequest, msg)
}

// ErrNotFound returns a 404 Not Found error.
func ErrNotFound(msg string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusNotFound, msg)
}

// ErrInternal returns a 500 Internal Server Error.
func ErrInternal(msg string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusInternalServerError, msg)
}

// ErrFromDependency maps provider and database failures onto a 500 whose
// message names missing configuration explicitly.
func ErrFromDependency(err error, fallback string) *echo.HTTPError {
	switch {
	case errors.Is(err, suno.ErrMissingAPIKey), errors.Is(err, db.ErrDatabaseNotConfigured):
		return ErrInternal(err.Error()).SetInternal(err)
	default:
		return ErrInternal(fallback).SetInternal(err)
	}
}
