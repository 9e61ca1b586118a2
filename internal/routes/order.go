package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/Innkaufhaus/kundenbestellung-v6/internal/controllers"
)

func runOrderRouter(api *echo.Group, ctrl *controllers.OrderController) {
	{
		api.GET("/orders", ctrl.GetOrders)
		api.POST("/orders", ctrl.CreateOrder)
		api.PUT("/orders/bulk-status", ctrl.BulkUpdateStatus)
		api.DELETE("/orders/bulk-delete", ctrl.BulkDelete)
		api.GET("/orders/:id", ctrl.FindOrder)
		api.PUT("/orders/:id", ctrl.UpdateOrder)
		api.DELETE("/orders/:id", ctrl.DeleteOrder)
		api.POST("/orders/:id/send-email", ctrl.SendEmail)
	}
}
