package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/Innkaufhaus/kundenbestellung-v6/internal/controllers"
)

func runAdminRouter(api *echo.Group, ctrl *controllers.AdminController) {
	api.GET("/admin/backup", ctrl.Backup)
}
