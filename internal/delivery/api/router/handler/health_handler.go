package handler

import (
	"net/http"

	"qbank/internal/delivery/api/response"

	"github.com/labstack/echo/v4"
)

// HealthCheck reports liveness.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"state": "ok"})
}
