package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/dairy_shop/internal/middleware/auth"
	"github.com/Skotchmaster/dairy_shop/internal/service"
)

// retryAfter is sent with 503 answers for lock timeouts.
const retryAfter = 1

type errorRule struct {
	target error
	status int
	reason string
}

var errorRules = []errorRule{
	{service.ErrInsufficientStock, http.StatusBadRequest, "insufficient_stock"},
	{service.ErrInvalidQuantity, http.StatusBadRequest, "invalid_quantity"},
	{service.ErrValidation, http.StatusBadRequest, "validation"},
	{service.ErrPaymentDeclined, http.StatusBadRequest, "payment_declined"},
	{service.ErrPaymentNotSucceeded, http.StatusBadRequest, "payment_not_succeeded"},
	{service.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
	{service.ErrNotFound, http.StatusNotFound, "not_found"},
	{service.ErrConflict, http.StatusConflict, "conflict"},
	{service.ErrTransient, http.StatusServiceUnavailable, "transient"},
	{service.ErrGatewayUnavailable, http.StatusServiceUnavailable, "gateway_unavailable"},
}

// fail logs event with the mapped status and returns the matching HTTP error.
// Unknown errors become a 500 without leaking details to the client.
func fail(c echo.Context, l *slog.Logger, event string, err error) error {
	for _, r := range errorRules {
		if !errors.Is(err, r.target) {
			continue
		}
		if r.status == http.StatusServiceUnavailable {
			c.Response().Header().Set("Retry-After", strconv.Itoa(retryAfter))
			l.Error(event, "status", r.status, "reason", r.reason, "error", err)
			return echo.NewHTTPError(r.status, r.target.Error())
		}
		l.Warn(event, "status", r.status, "reason", r.reason, "error", err)
		return echo.NewHTTPError(r.status, err.Error())
	}
	l.Error(event, "status", http.StatusInternalServerError, "reason", "internal", "error", err)
	return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
}

func badRequest(l *slog.Logger, event, msg string, err error) error {
	l.Warn(event, "status", http.StatusBadRequest, "reason", msg, "error", err)
	return echo.NewHTTPError(http.StatusBadRequest, msg)
}

func paramID(c echo.Context, name string) (uint, error) {
	return parseID(name, c.Param(name))
}

func parseID(name, raw string) (uint, error) {
	v, err := strconv.ParseUint(raw, 10, 0)
	if err != nil || v == 0 {
		return 0, errors.New(name + " is not a positive integer")
	}
	return uint(v), nil
}

func currentUser(c echo.Context) (uint, error) {
	id, ok := auth.UserID(c)
	if !ok {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return id, nil
}
