// SPDX-License-Identifier: GPL-3.0-only

package routes

import (
	"locale-tracker/commons"
	"locale-tracker/crypto"
	"locale-tracker/handlers"
	"locale-tracker/middlewares"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo, h *handlers.LocaleHandler) error {
	commons.Logger.Debug("Registering v1 routes")
	auth, err := middlewares.VerifyTokenMiddleware(commons.GetEnv("API_TOKEN_HASH"), crypto.NewCrypto())
	if err != nil {
		return err
	}

	api_v1 := e.Group("/v1")
	api_v1.GET("/locale", h.GetLocaleHandler)
	api_v1.GET("/locale/log", h.GetLocalLogHandler)
	api_v1.GET("/locale/events", handlers.GetLocaleEventsHandler)
	api_v1.PUT("/locale/operator-numeric", h.UpdateOperatorNumericHandler, auth)
	api_v1.POST("/locale/service-state", h.NotifyServiceStateHandler, auth)
	api_v1.POST("/locale/cell-info", h.NotifyCellInfoHandler, auth)
	api_v1.PUT("/radio/cells", h.SetRadioCellsHandler, auth)
	commons.Logger.Info("v1 routes registered successfully")
	return nil
}
