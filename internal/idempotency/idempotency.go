// Package idempotency rejects repeated mutating requests that carry the same
// Idempotency-Key within a TTL.
package idempotency

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/Skotchmaster/dairy_shop/internal/logging"
	"github.com/Skotchmaster/dairy_shop/internal/middleware/auth"
)

const Header = "Idempotency-Key"

type Guard interface {
	// Seen records key and reports whether it was already recorded.
	Seen(ctx context.Context, key string) (bool, error)
	Forget(ctx context.Context, key string) error
}

type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

func (s *Store) Seen(ctx context.Context, key string) (bool, error) {
	ok, err := s.rdb.SetNX(ctx, key, "1", s.ttl).Result()
	if err != nil {
		return false, err
	}
	return !ok, nil
}

func (s *Store) Forget(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}

func Key(userID uint, method, path, key string) string {
	return fmt.Sprintf("idem:%d:%s:%s:%s", userID, method, path, key)
}

// Middleware must run after authentication. Requests without the header pass
// through. A key is released again when the request fails so that the client
// can retry it. Store outages fail open.
func Middleware(g Guard) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := strings.TrimSpace(c.Request().Header.Get(Header))
			if g == nil || raw == "" {
				return next(c)
			}

			ctx := c.Request().Context()
			log := logging.FromContext(ctx).With("middleware", "idempotency")

			userID, _ := auth.UserID(c)
			key := Key(userID, c.Request().Method, c.Path(), raw)

			seen, err := g.Seen(ctx, key)
			if err != nil {
				log.Warn("idempotency_store_error", "error", err)
				return next(c)
			}
			if seen {
				log.Info("idempotency_replay", "key", raw)
				return echo.NewHTTPError(http.StatusConflict, "request with this Idempotency-Key was already processed")
			}

			err = next(c)
			if err != nil || c.Response().Status >= http.StatusBadRequest {
				if ferr := g.Forget(context.WithoutCancel(ctx), key); ferr != nil {
					log.Warn("idempotency_forget_error", "error", ferr)
				}
			}
			return err
		}
	}
}
