package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/promiseee/pizza-delivery-api/internal/logging"
	authmw "github.com/promiseee/pizza-delivery-api/internal/middleware/auth"
	"github.com/promiseee/pizza-delivery-api/internal/service"
)

type UserHTTP struct {
	Users  *service.UserService
	Orders *service.OrderService
}

func (h *UserHTTP) ListOrders(c echo.Context) error {
	userID, err := pathID(c, "user_id")
	if err != nil {
		return err
	}

	orders, err := h.Orders.ListUserOrders(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *UserHTTP) GetOrder(c echo.Context) error {
	userID, err := pathID(c, "user_id")
	if err != nil {
		return err
	}
	orderID, err := pathID(c, "order_id")
	if err != nil {
		return err
	}

	order, err := h.Orders.GetUserOrder(c.Request().Context(), userID, orderID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *UserHTTP) Get(c echo.Context) error {
	identity, err := authmw.Identity(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	userID, err := pathID(c, "user_id")
	if err != nil {
		return err
	}

	user, err := h.Users.GetUser(c.Request().Context(), identity, userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.delete")

	identity, err := authmw.Identity(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	userID, err := pathID(c, "user_id")
	if err != nil {
		return err
	}

	if err := h.Users.DeleteUser(ctx, identity, userID); err != nil {
		return httpError(err)
	}

	l.Info("delete_user_success", "user_id", userID)
	return c.JSON(http.StatusOK, echo.Map{
		"message": "User deleted successfully",
	})
}

func (h *UserHTTP) GrantStaff(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.grant_staff")

	claims, err := authmw.Claims(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	userID, err := pathID(c, "user_id")
	if err != nil {
		return err
	}

	user, err := h.Users.GrantStaff(ctx, claims, userID)
	if err != nil {
		return httpError(err)
	}

	l.Info("grant_staff_success", "user_id", user.ID, "by", claims.Subject)
	return c.JSON(http.StatusOK, user)
}
