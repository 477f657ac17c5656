package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/promiseee/pizza-delivery-api/internal/logging"
	authmw "github.com/promiseee/pizza-delivery-api/internal/middleware/auth"
	"github.com/promiseee/pizza-delivery-api/internal/service"
	"github.com/promiseee/pizza-delivery-api/internal/transport"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Signup(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.signup")

	var req transport.SignupRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("signup_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.Signup(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		return httpError(err)
	}

	l.Info("signup_success", "user_id", user.ID)
	return c.JSON(http.StatusCreated, user)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	pair, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		return httpError(err)
	}

	l.Info("login_success")
	return c.JSON(http.StatusCreated, pair)
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()

	claims, err := authmw.Claims(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	accessToken, err := h.Svc.Refresh(ctx, claims)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"access_token": accessToken,
	})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	claims, err := authmw.Claims(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	if err := h.Svc.Logout(ctx, claims); err != nil {
		l.Error("logout_failed", "status", 500, "error", err)
		return httpError(err)
	}

	l.Info("logout_success", "jti", claims.ID)
	return c.JSON(http.StatusOK, echo.Map{
		"message": "User successfully logged out",
	})
}
