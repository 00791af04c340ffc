package idempotency

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memGuard struct {
	mu   sync.Mutex
	keys map[string]bool
	err  error
}

func newMemGuard() *memGuard { return &memGuard{keys: map[string]bool{}} }

func (m *memGuard) Seen(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	if m.keys[key] {
		return true, nil
	}
	m.keys[key] = true
	return false, nil
}

func (m *memGuard) Forget(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.keys, key)
	return nil
}

func serve(e *echo.Echo, key string) int {
	req := httptest.NewRequest(http.MethodPost, "/orders", nil)
	if key != "" {
		req.Header.Set(Header, key)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec.Code
}

func TestMiddleware_RejectsRepeatedKey(t *testing.T) {
	t.Parallel()

	calls := 0
	e := echo.New()
	e.POST("/orders", func(c echo.Context) error {
		calls++
		return c.NoContent(http.StatusCreated)
	}, Middleware(newMemGuard()))

	assert.Equal(t, http.StatusCreated, serve(e, "abc"))
	assert.Equal(t, http.StatusConflict, serve(e, "abc"))
	assert.Equal(t, http.StatusCreated, serve(e, "def"))
	assert.Equal(t, http.StatusCreated, serve(e, ""))
	assert.Equal(t, http.StatusCreated, serve(e, ""))
	assert.Equal(t, 4, calls)
}

func TestMiddleware_FailedRequestReleasesKey(t *testing.T) {
	t.Parallel()

	fail := true
	e := echo.New()
	e.POST("/orders", func(c echo.Context) error {
		if fail {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "busy")
		}
		return c.NoContent(http.StatusCreated)
	}, Middleware(newMemGuard()))

	assert.Equal(t, http.StatusServiceUnavailable, serve(e, "abc"))
	fail = false
	assert.Equal(t, http.StatusCreated, serve(e, "abc"))
	assert.Equal(t, http.StatusConflict, serve(e, "abc"))
}

func TestMiddleware_StoreErrorFailsOpen(t *testing.T) {
	t.Parallel()

	g := newMemGuard()
	g.err = errors.New("redis down")

	e := echo.New()
	e.POST("/orders", func(c echo.Context) error {
		return c.NoContent(http.StatusCreated)
	}, Middleware(g))

	require.Equal(t, http.StatusCreated, serve(e, "abc"))
	assert.Equal(t, http.StatusCreated, serve(e, "abc"))
}

func TestKey_ScopedByUserAndRoute(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "idem:7:POST:/api/v1/orders:k1", Key(7, http.MethodPost, "/api/v1/orders", "k1"))
	assert.NotEqual(t, Key(1, http.MethodPost, "/x", "k"), Key(2, http.MethodPost, "/x", "k"))
}
