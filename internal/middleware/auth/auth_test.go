package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/dairy_shop/internal/models"
	"github.com/Skotchmaster/dairy_shop/internal/service"
	"github.com/Skotchmaster/dairy_shop/internal/tokens"
)

var secret = []byte("test-jwt-secret")

type fakeRefresher struct {
	calls int
	err   error
}

func (f *fakeRefresher) Refresh(_ context.Context, _ string) (*service.AuthResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	exp := time.Now().Add(tokens.AccessTTL)
	access, err := tokens.NewAccessToken(secret, 7, models.RoleUser, exp)
	if err != nil {
		return nil, err
	}
	return &service.AuthResult{AccessToken: access, RefreshToken: "new-refresh", AccessExp: exp, RefreshExp: exp, UserID: 7}, nil
}

func sign(t *testing.T, userID uint, role string, exp time.Time) string {
	t.Helper()
	tok, err := tokens.NewAccessToken(secret, userID, role, exp)
	require.NoError(t, err)
	return tok
}

func run(mw echo.MiddlewareFunc, req *http.Request) (*httptest.ResponseRecorder, echo.Context, error) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	err := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c)
	return rec, c, err
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	require.True(t, errors.As(err, &he), "expected echo.HTTPError, got %v", err)
	return he.Code
}

func TestRequireAuth_Bearer(t *testing.T) {
	t.Parallel()

	m := New(secret, nil)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+sign(t, 5, models.RoleUser, time.Now().Add(time.Minute)))

	rec, c, err := run(m.RequireAuth, req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	id, ok := UserID(c)
	require.True(t, ok)
	assert.EqualValues(t, 5, id)
	assert.Equal(t, models.RoleUser, Role(c))
}

func TestRequireAuth_Missing(t *testing.T) {
	t.Parallel()

	_, _, err := run(New(secret, nil).RequireAuth, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
}

func TestRequireAuth_WrongSecret(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	tok, err := tokens.NewAccessToken([]byte("other"), 5, models.RoleUser, time.Now().Add(time.Minute))
	require.NoError(t, err)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+tok)

	_, _, err = run(New(secret, nil).RequireAuth, req)
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
}

func TestRequireAdmin(t *testing.T) {
	t.Parallel()

	m := New(secret, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AccessCookie, Value: sign(t, 5, models.RoleUser, time.Now().Add(time.Minute))})
	_, _, err := run(m.RequireAdmin, req)
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AccessCookie, Value: sign(t, 1, models.RoleAdmin, time.Now().Add(time.Minute))})
	_, _, err = run(m.RequireAdmin, req)
	require.NoError(t, err)
}

func TestRequireAuth_ExpiredCookieRefreshes(t *testing.T) {
	t.Parallel()

	r := &fakeRefresher{}
	m := New(secret, r)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AccessCookie, Value: sign(t, 7, models.RoleUser, time.Now().Add(-time.Minute))})
	req.AddCookie(&http.Cookie{Name: RefreshCookie, Value: "old-refresh"})

	rec, c, err := run(m.RequireAuth, req)
	require.NoError(t, err)
	assert.Equal(t, 1, r.calls)

	id, ok := UserID(c)
	require.True(t, ok)
	assert.EqualValues(t, 7, id)

	cookies := rec.Result().Cookies()
	names := make([]string, 0, len(cookies))
	for _, ck := range cookies {
		names = append(names, ck.Name)
	}
	assert.ElementsMatch(t, []string{AccessCookie, RefreshCookie}, names)
}

func TestRequireAuth_RefreshFailureClearsCookies(t *testing.T) {
	t.Parallel()

	m := New(secret, &fakeRefresher{err: service.ErrInvalidCredentials})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AccessCookie, Value: sign(t, 7, models.RoleUser, time.Now().Add(-time.Minute))})
	req.AddCookie(&http.Cookie{Name: RefreshCookie, Value: "revoked"})

	rec, _, err := run(m.RequireAuth, req)
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
	for _, ck := range rec.Result().Cookies() {
		assert.Empty(t, ck.Value)
	}
}
