package dto

import (
	"github.com/aarondl/null/v8"

	"github.com/Innkaufhaus/kundenbestellung-v6/internal/entities"
)

type CreateOrderDTO struct {
	CustomerName         null.String `json:"customer_name"`
	Phone                null.String `json:"phone"`
	Email                null.String `json:"email"`
	Description          null.String `json:"description"`
	EmployerName         null.String `json:"employer_name"`
	ManufacturerSupplier null.String `json:"manufacturer_supplier"`
	Selector             null.String `json:"selector"`
}

// UpdateOrderDTO is a full replacement of the mutable fields: a field absent
// from the request body is written as NULL, not kept.
type UpdateOrderDTO struct {
	CustomerName         null.String `json:"customer_name"`
	Phone                null.String `json:"phone"`
	Email                null.String `json:"email"`
	Description          null.String `json:"description"`
	EmployerName         null.String `json:"employer_name"`
	ManufacturerSupplier null.String `json:"manufacturer_supplier"`
	Selector             null.String `json:"selector"`
	Status               null.String `json:"status"`
	StatusEmployer       null.String `json:"status_employer"`
}

type BulkStatusUpdateDTO struct {
	OrderIDs       []int64 `json:"orderIds" validate:"required,min=1,dive,gt=0"`
	Status         string  `json:"status" validate:"required"`
	StatusEmployer string  `json:"status_employer"`
}

type BulkDeleteDTO struct {
	OrderIDs []int64 `json:"orderIds" validate:"required,min=1,dive,gt=0"`
}

type SendEmailDTO struct {
	ToEmail string `json:"toEmail" validate:"required,email"`
}

type OrderWithHistoryDTO struct {
	entities.Order
	History []entities.OrderHistory `json:"history"`
}

type BulkResultDTO struct {
	Count int64 `json:"count"`
}

type BackupDTO struct {
	Orders       []entities.Order        `json:"orders"`
	OrderHistory []entities.OrderHistory `json:"order_history"`
}
