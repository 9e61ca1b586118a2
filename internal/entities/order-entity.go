package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

// Order is a row of the orders table. OrderNumber and OrderDate are set at
// creation and never change; Status defaults to "offen". StatusTimestamp is
// only valid while the current status was set through an update.
type Order struct {
	ID                   int64       `json:"id" db:"id"`
	OrderNumber          string      `json:"order_number" db:"order_number"`
	OrderDate            time.Time   `json:"order_date" db:"order_date"`
	CustomerName         null.String `json:"customer_name" db:"customer_name"`
	Phone                null.String `json:"phone" db:"phone"`
	Email                null.String `json:"email" db:"email"`
	Description          null.String `json:"description" db:"description"`
	EmployerName         null.String `json:"employer_name" db:"employer_name"`
	ManufacturerSupplier null.String `json:"manufacturer_supplier" db:"manufacturer_supplier"`
	Selector             null.String `json:"selector" db:"selector"`
	Status               null.String `json:"status" db:"status"`
	StatusTimestamp      null.Time   `json:"status_timestamp" db:"status_timestamp"`
	StatusEmployer       null.String `json:"status_employer" db:"status_employer"`
}
