package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/promiseee/pizza-delivery-api/internal/middleware/auth"
)

type Deps struct {
	AuthHandler  *AuthHTTP
	OrderHandler *OrderHTTP
	UserHandler  *UserHTTP
	TokenMW      *authmw.TokenMiddleware
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	auth := e.Group("/auth")
	auth.POST("/signup", d.AuthHandler.Signup)
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/refresh", d.AuthHandler.Refresh, d.TokenMW.RequireRefresh)
	auth.DELETE("/logout", d.AuthHandler.Logout, d.TokenMW.RequireFresh)

	orders := e.Group("/orders", d.TokenMW.RequireAccess)
	orders.GET("/orders", d.OrderHandler.List)
	orders.POST("/orders", d.OrderHandler.Create)
	orders.GET("/order/:id", d.OrderHandler.Get)
	orders.PATCH("/order/:id", d.OrderHandler.Update)
	orders.DELETE("/order/:id", d.OrderHandler.Delete)
	orders.PATCH("/order/:id/status", d.OrderHandler.UpdateStatus)

	user := e.Group("/user")
	user.GET("/:user_id/orders", d.UserHandler.ListOrders, d.TokenMW.RequireAccess)
	user.GET("/:user_id/orders/:order_id", d.UserHandler.GetOrder, d.TokenMW.RequireAccess)
	user.GET("/user/:user_id", d.UserHandler.Get, d.TokenMW.RequireAccess)
	user.PATCH("/user/:user_id", d.UserHandler.GrantStaff, d.TokenMW.RequireAccess)
	user.DELETE("/user/:user_id", d.UserHandler.Delete, d.TokenMW.RequireFresh)
}
