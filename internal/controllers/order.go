package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Innkaufhaus/kundenbestellung-v6/internal/dto"
	"github.com/Innkaufhaus/kundenbestellung-v6/internal/services"
	apperrors "github.com/Innkaufhaus/kundenbestellung-v6/pkg/errors"
	"github.com/Innkaufhaus/kundenbestellung-v6/pkg/types"
	"github.com/Innkaufhaus/kundenbestellung-v6/pkg/utils"
)

type OrderController struct {
	orderService services.OrderServiceInterface
	logger       *zap.Logger
}

func NewOrderController(orderService services.OrderServiceInterface, logger *zap.Logger) *OrderController {
	return &OrderController{orderService: orderService, logger: logger}
}

// GetOrders handles GET /orders?search=&status=. An empty search matches all
// orders; results come back newest first.
func (c *OrderController) GetOrders(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	filter := types.Filter{
		Search: ctx.QueryParam("search"),
		Status: ctx.QueryParam("status"),
	}

	orders, err := c.orderService.SearchOrders(reqCtx, filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, orders, "orders retrieved", http.StatusOK)
}

func (c *OrderController) CreateOrder(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	var d dto.CreateOrderDTO
	if err := ctx.Bind(&d); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "malformed request body", err, nil), c.logger)
	}

	order, err := c.orderService.CreateOrder(reqCtx, d)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, order, "order created", http.StatusCreated)
}

func (c *OrderController) FindOrder(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	id, err := parseOrderID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	order, err := c.orderService.FindOrderByID(reqCtx, id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, order, "order retrieved", http.StatusOK)
}

func (c *OrderController) UpdateOrder(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	id, err := parseOrderID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var d dto.UpdateOrderDTO
	if err := ctx.Bind(&d); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "malformed request body", err, nil), c.logger)
	}

	order, err := c.orderService.UpdateOrder(reqCtx, id, d)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, order, "order updated", http.StatusOK)
}

func (c *OrderController) DeleteOrder(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	id, err := parseOrderID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if err := c.orderService.DeleteOrder(reqCtx, id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "order deleted", http.StatusOK)
}

// BulkUpdateStatus handles PUT /orders/bulk-status. The payload must carry a
// non-empty id list; validation rejects it before any store access.
func (c *OrderController) BulkUpdateStatus(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	var d dto.BulkStatusUpdateDTO
	if err := ctx.Bind(&d); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "malformed request body", err, nil), c.logger)
	}
	if err := ctx.Validate(&d); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	count, err := c.orderService.BulkUpdateStatus(reqCtx, d)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, dto.BulkResultDTO{Count: count}, "orders updated", http.StatusOK)
}

func (c *OrderController) BulkDelete(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	var d dto.BulkDeleteDTO
	if err := ctx.Bind(&d); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "malformed request body", err, nil), c.logger)
	}
	if err := ctx.Validate(&d); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	count, err := c.orderService.BulkDelete(reqCtx, d.OrderIDs)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, dto.BulkResultDTO{Count: count}, "orders deleted", http.StatusOK)
}

// SendEmail handles POST /orders/:id/send-email. A missing or invalid
// toEmail fails validation without touching the store.
func (c *OrderController) SendEmail(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	id, err := parseOrderID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var d dto.SendEmailDTO
	if err := ctx.Bind(&d); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "malformed request body", err, nil), c.logger)
	}
	if err := ctx.Validate(&d); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if err := c.orderService.SendOrderEmail(reqCtx, id, d.ToEmail); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "email sent", http.StatusOK)
}

func parseOrderID(ctx echo.Context) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewHttpError(http.StatusBadRequest, "invalid order id", err, nil)
	}
	return id, nil
}
