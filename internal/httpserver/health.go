package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/dairy_shop/internal/logging"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHTTP reports readiness of the database and, when set, the optional
// dependencies. Optional checks never fail readiness.
type HealthHTTP struct {
	DB       *gorm.DB
	Optional map[string]Pinger
}

func (h *HealthHTTP) Live(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func (h *HealthHTTP) Ready(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()
	l := logging.FromContext(ctx).With("handler", "health.ready")

	sqlDB, err := h.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		l.Error("ready_error", "status", http.StatusServiceUnavailable, "reason", "database", "error", err)
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"database": "down"})
	}

	report := echo.Map{"database": "up"}
	for name, p := range h.Optional {
		if err := p.Ping(ctx); err != nil {
			l.Warn("ready_degraded", "dependency", name, "error", err)
			report[name] = "down"
			continue
		}
		report[name] = "up"
	}
	return c.JSON(http.StatusOK, report)
}

type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }
