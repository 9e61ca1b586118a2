package controllers

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/Innkaufhaus/kundenbestellung-v6/internal/entities"
	"github.com/Innkaufhaus/kundenbestellung-v6/internal/services"
	"github.com/Innkaufhaus/kundenbestellung-v6/pkg/config"
	apperrors "github.com/Innkaufhaus/kundenbestellung-v6/pkg/errors"
	"github.com/Innkaufhaus/kundenbestellung-v6/pkg/utils"
)

// AdminController gates the backup route behind the static passcode query
// parameter. The passcode comes from config and an empty configured value
// disables the route entirely.
type AdminController struct {
	adminService services.AdminServiceInterface
	cfg          config.AdminConfig
	logger       *zap.Logger
}

func NewAdminController(adminService services.AdminServiceInterface, cfg config.AdminConfig, logger *zap.Logger) *AdminController {
	return &AdminController{adminService: adminService, cfg: cfg, logger: logger}
}

// Backup handles GET /admin/backup?passcode=...&format=. Default format is a
// JSON dump of both tables; format=xlsx streams the orders as a workbook.
func (c *AdminController) Backup(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	if !c.passcodeOK(ctx.QueryParam("passcode")) {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusForbidden, "unauthorized", nil, nil), c.logger)
	}

	if strings.ToLower(ctx.QueryParam("format")) == "xlsx" {
		orders, err := c.adminService.ListOrders(reqCtx)
		if err != nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}
		return c.respondWithXLSX(ctx, orders)
	}

	backup, err := c.adminService.Backup(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, backup, "backup generated", http.StatusOK)
}

func (c *AdminController) passcodeOK(passcode string) bool {
	if c.cfg.BackupPasscode == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(passcode), []byte(c.cfg.BackupPasscode)) == 1
}

var exportHeaders = []string{
	"ID", "Order Number", "Order Date", "Customer", "Phone", "Email", "Description",
	"Employer", "Manufacturer/Supplier", "Selector", "Status", "Status Timestamp", "Status Employer",
}

func exportRow(o entities.Order) []interface{} {
	var statusTs string
	if o.StatusTimestamp.Valid {
		statusTs = o.StatusTimestamp.Time.Format("02.01.2006 15:04")
	}
	return []interface{}{
		o.ID, o.OrderNumber, o.OrderDate.Format("02.01.2006 15:04"),
		o.CustomerName.String, o.Phone.String, o.Email.String, o.Description.String,
		o.EmployerName.String, o.ManufacturerSupplier.String, o.Selector.String,
		o.Status.String, statusTs, o.StatusEmployer.String,
	}
}

func (c *AdminController) respondWithXLSX(ctx echo.Context, orders []entities.Order) error {
	f := excelize.NewFile()
	sheet := "Orders"
	f.SetSheetName("Sheet1", sheet)
	f.SetSheetRow(sheet, "A1", &exportHeaders)
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(sheet, "A1", "M1", style)

	for i, o := range orders {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := exportRow(o)
		f.SetSheetRow(sheet, cell, &row)
	}
	f.SetColWidth(sheet, "B", "C", 20)
	f.SetColWidth(sheet, "D", "F", 25)
	f.SetColWidth(sheet, "G", "G", 40)
	f.SetColWidth(sheet, "H", "M", 20)

	fileName := fmt.Sprintf("orders_%s.xlsx", time.Now().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response().Header().Set("Content-Disposition", "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	return f.Write(ctx.Response().Writer)
}
