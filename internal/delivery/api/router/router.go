// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"qbank/internal/delivery/api/middleware"
	"qbank/internal/delivery/api/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// userPrefixes are the mount points of the account routes. /api/user is
// kept for clients of the first deployment.
var userPrefixes = []string{"/user", "/api/user"}

type RouterParams struct {
	fx.In

	UserHandler    *handler.UserHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	userHandler    *handler.UserHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		userHandler:    params.UserHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.HealthCheck)

	for _, prefix := range userPrefixes {
		r.registerUserRoutes(e.Group(prefix))
	}
}

func (r *router) registerUserRoutes(g *echo.Group) {
	g.POST("/signup", r.userHandler.Signup)
	g.POST("/login", r.userHandler.Login)

	// Routes below need a verified token
	g.GET("/me", r.userHandler.Me, r.authMiddleware.Authenticate)
	g.PUT("/update-password", r.userHandler.UpdatePassword, r.authMiddleware.Authenticate)

	// Admin only
	g.GET("/all", r.userHandler.GetAllUsers, r.authMiddleware.Authenticate, r.authMiddleware.RequireAdmin)
	g.DELETE("/delete/:id", r.userHandler.DeleteUser, r.authMiddleware.Authenticate, r.authMiddleware.RequireAdmin)
}
