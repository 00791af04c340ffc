package httpserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/dairy_shop/internal/idempotency"
	"github.com/Skotchmaster/dairy_shop/internal/ledger"
	"github.com/Skotchmaster/dairy_shop/internal/metrics"
	"github.com/Skotchmaster/dairy_shop/internal/middleware/auth"
	"github.com/Skotchmaster/dairy_shop/internal/notify"
	"github.com/Skotchmaster/dairy_shop/internal/repo"
	"github.com/Skotchmaster/dairy_shop/internal/service"
	dbtest "github.com/Skotchmaster/dairy_shop/internal/testutil"
	"github.com/Skotchmaster/dairy_shop/internal/tokens"
)

var (
	testAccessSecret  = []byte("access-secret")
	testRefreshSecret = []byte("refresh-secret")
)

type testEnv struct {
	DB      *gorm.DB
	E       *echo.Echo
	Metrics *metrics.Metrics
}

func newTestEnv(t *testing.T, guard idempotency.Guard) *testEnv {
	t.Helper()

	db := dbtest.NewSQLite(t)
	r := repo.New(db)
	l := ledger.New(time.Second)
	m := metrics.New()

	authSvc := &service.AuthService{Repo: r, JWTSecret: testAccessSecret, RefreshSecret: testRefreshSecret}

	e := echo.New()
	Register(e, &Deps{
		Auth:      &AuthHTTP{Svc: authSvc},
		Catalog:   &CatalogHTTP{Svc: &service.CatalogService{Repo: r, Ledger: l}},
		Customers: &CustomerHTTP{Svc: &service.CustomerService{Repo: r}},
		Carts:     &CartHTTP{Svc: &service.CartService{Repo: r}},
		Wishlists: &WishlistHTTP{Svc: &service.WishlistService{Repo: r}},
		Reviews:   &ReviewHTTP{Svc: &service.ReviewService{Repo: r}},
		Orders: &OrderHTTP{Svc: &service.OrderService{
			Repo: r, Ledger: l, Notifier: notify.Nop{}, Metrics: m,
		}},
		Payments: &PaymentHTTP{Svc: &service.PaymentService{Repo: r}},
		Health:   &HealthHTTP{DB: db},

		AuthMW:      auth.New(testAccessSecret, authSvc),
		Idempotency: guard,
		Metrics:     m,
	})

	return &testEnv{DB: db, E: e, Metrics: m}
}

func (env *testEnv) token(t *testing.T, userID uint, role string) string {
	t.Helper()

	tok, err := tokens.NewAccessToken(testAccessSecret, userID, role, time.Now().Add(time.Minute))
	require.NoError(t, err)
	return tok
}

func (env *testEnv) do(t *testing.T, method, path string, body any, token string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func cookieNamed(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

func pathf(format string, args ...any) string {
	return fmt.Sprintf(format, args...)
}
