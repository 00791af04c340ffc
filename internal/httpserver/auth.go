package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/dairy_shop/internal/logging"
	"github.com/Skotchmaster/dairy_shop/internal/middleware/auth"
	"github.com/Skotchmaster/dairy_shop/internal/service"
	"github.com/Skotchmaster/dairy_shop/internal/transport"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "register_error", "invalid body", err)
	}

	res, err := h.Svc.Register(ctx, req)
	if err != nil {
		return fail(c, l, "register_error", err)
	}

	auth.SetCookies(c, res)
	l.Info("register_success", "status", http.StatusCreated, "user_id", res.UserID)
	return c.JSON(http.StatusCreated, tokenResponse(res, "registered"))
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "login_error", "invalid body", err)
	}

	res, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		return fail(c, l, "login_error", err)
	}

	auth.SetCookies(c, res)
	l.Info("login_success", "user_id", res.UserID)
	return c.JSON(http.StatusOK, tokenResponse(res, ""))
}

// Refresh takes the refresh token from the body, falling back to the cookie.
func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_refresh")

	var req transport.RefreshRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "refresh_error", "invalid body", err)
	}
	if req.RefreshToken == "" {
		if ck, err := c.Cookie(auth.RefreshCookie); err == nil {
			req.RefreshToken = ck.Value
		}
	}

	res, err := h.Svc.Refresh(ctx, req.RefreshToken)
	if err != nil {
		auth.ClearCookies(c)
		return fail(c, l, "refresh_error", err)
	}

	auth.SetCookies(c, res)
	l.Info("refresh_success", "user_id", res.UserID)
	return c.JSON(http.StatusOK, tokenResponse(res, ""))
}

func (h *AuthHTTP) LogOut(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_logout")

	var req transport.RefreshRequest
	_ = c.Bind(&req)
	if req.RefreshToken == "" {
		if ck, err := c.Cookie(auth.RefreshCookie); err == nil {
			req.RefreshToken = ck.Value
		}
	}

	auth.ClearCookies(c)
	if err := h.Svc.LogOut(ctx, req.RefreshToken); err != nil {
		return fail(c, l, "logout_error", err)
	}

	l.Info("logout_success")
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

func (h *AuthHTTP) Home(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_home")

	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	msg, err := h.Svc.Home(ctx, userID)
	if err != nil {
		return fail(c, l, "home_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": msg})
}

func tokenResponse(res *service.AuthResult, msg string) transport.TokenResponse {
	return transport.TokenResponse{
		Message:      msg,
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		UserID:       res.UserID,
		CustomerID:   res.CustomerID,
		IsAdmin:      res.IsAdmin,
	}
}
