package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/dairy_shop/internal/logging"
	"github.com/Skotchmaster/dairy_shop/internal/models"
	"github.com/Skotchmaster/dairy_shop/internal/service"
	"github.com/Skotchmaster/dairy_shop/internal/tokens"
)

const (
	AccessCookie  = "accessToken"
	RefreshCookie = "refreshToken"

	ctxUserID = "user_id"
	ctxRole   = "role"
)

type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*service.AuthResult, error)
}

// Middleware accepts a Bearer header or the access cookie. An expired cookie
// session is renewed from the refresh cookie when a Refresher is set.
type Middleware struct {
	JWTSecret []byte
	Refresher Refresher
}

func New(secret []byte, r Refresher) *Middleware {
	return &Middleware{JWTSecret: secret, Refresher: r}
}

type validatorFunc func(claims *tokens.AccessClaims) error

func (m *Middleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return m.require(next, nil)
}

func (m *Middleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return m.require(next, func(claims *tokens.AccessClaims) error {
		if claims.Role != models.RoleAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "admin access required")
		}
		return nil
	})
}

func (m *Middleware) require(next echo.HandlerFunc, validate validatorFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw, fromCookie := accessToken(c)
		if raw == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
		}

		claims, err := tokens.AccessClaimsFromToken(raw, m.JWTSecret)
		if err != nil {
			if !fromCookie || !errors.Is(err, jwt.ErrTokenExpired) || m.Refresher == nil {
				if fromCookie {
					ClearCookies(c)
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}
			claims, err = m.refresh(c)
			if err != nil {
				return err
			}
		}

		if validate != nil {
			if err := validate(claims); err != nil {
				return err
			}
		}

		userID, err := claims.UserID()
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token subject")
		}
		c.Set(ctxUserID, userID)
		c.Set(ctxRole, claims.Role)

		c.SetRequest(c.Request().WithContext(logging.With(c.Request().Context(), "user_id", userID)))
		return next(c)
	}
}

func (m *Middleware) refresh(c echo.Context) (*tokens.AccessClaims, error) {
	l := logging.FromContext(c.Request().Context()).With("middleware", "auth.refresh")

	rc, err := c.Cookie(RefreshCookie)
	if err != nil || rc.Value == "" {
		ClearCookies(c)
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "refresh token missing")
	}

	res, err := m.Refresher.Refresh(c.Request().Context(), rc.Value)
	if err != nil {
		l.Warn("refresh_error", "status", 401, "error", err)
		ClearCookies(c)
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "session expired")
	}
	SetCookies(c, res)

	claims, err := tokens.AccessClaimsFromToken(res.AccessToken, m.JWTSecret)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
	}
	l.Info("refresh_success")
	return claims, nil
}

func accessToken(c echo.Context) (string, bool) {
	if h := c.Request().Header.Get(echo.HeaderAuthorization); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token), false
		}
	}
	if ck, err := c.Cookie(AccessCookie); err == nil {
		return ck.Value, true
	}
	return "", false
}

// UserID returns the id set by RequireAuth.
func UserID(c echo.Context) (uint, bool) {
	id, ok := c.Get(ctxUserID).(uint)
	return id, ok && id != 0
}

func Role(c echo.Context) string {
	role, _ := c.Get(ctxRole).(string)
	return role
}

func CreateCookie(name, value, path string, exp time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  exp,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

func DeleteCookie(name, path string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     path,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

func SetCookies(c echo.Context, res *service.AuthResult) {
	c.SetCookie(CreateCookie(AccessCookie, res.AccessToken, "/", res.AccessExp))
	c.SetCookie(CreateCookie(RefreshCookie, res.RefreshToken, "/", res.RefreshExp))
}

func ClearCookies(c echo.Context) {
	c.SetCookie(DeleteCookie(AccessCookie, "/"))
	c.SetCookie(DeleteCookie(RefreshCookie, "/"))
}
