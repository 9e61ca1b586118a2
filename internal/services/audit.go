package services

import (
	"time"

	"github.com/aarondl/null/v8"

	"github.com/Innkaufhaus/kundenbestellung-v6/internal/dto"
	"github.com/Innkaufhaus/kundenbestellung-v6/internal/entities"
)

// Field names as recorded in order_history.changed_field.
const (
	FieldStatus               = "status"
	FieldCustomerName         = "customer_name"
	FieldPhone                = "phone"
	FieldEmail                = "email"
	FieldDescription          = "description"
	FieldEmployerName         = "employer_name"
	FieldManufacturerSupplier = "manufacturer_supplier"
	FieldSelector             = "selector"
	FieldStatusEmployer       = "status_employer"
)

// DiffOrderUpdate compares an order's stored state against an incoming full
// replacement and returns one history row per changed field, in a fixed field
// order so the audit trail is deterministic. NULL and "" compare equal.
//
// Attribution: changes to status and status_employer are attributed to the
// incoming status_employer and stamped with the update's status timestamp;
// every other change is attributed to the incoming employer_name and stamped
// with now.
func DiffOrderUpdate(old *entities.Order, upd dto.UpdateOrderDTO, statusTimestamp null.Time, now time.Time) []entities.OrderHistory {
	var changes []entities.OrderHistory

	add := func(field string, oldValue, newValue, changedBy null.String, changedAt null.Time) {
		if nullToString(oldValue) == nullToString(newValue) {
			return
		}
		changes = append(changes, entities.OrderHistory{
			OrderID:      old.ID,
			ChangedField: field,
			OldValue:     oldValue,
			NewValue:     newValue,
			ChangedBy:    changedBy,
			ChangedAt:    changedAt,
		})
	}

	nowTs := null.TimeFrom(now)

	add(FieldStatus, old.Status, upd.Status, upd.StatusEmployer, statusTimestamp)
	add(FieldCustomerName, old.CustomerName, upd.CustomerName, upd.EmployerName, nowTs)
	add(FieldPhone, old.Phone, upd.Phone, upd.EmployerName, nowTs)
	add(FieldEmail, old.Email, upd.Email, upd.EmployerName, nowTs)
	add(FieldDescription, old.Description, upd.Description, upd.EmployerName, nowTs)
	add(FieldEmployerName, old.EmployerName, upd.EmployerName, upd.EmployerName, nowTs)
	add(FieldManufacturerSupplier, old.ManufacturerSupplier, upd.ManufacturerSupplier, upd.EmployerName, nowTs)
	add(FieldSelector, old.Selector, upd.Selector, upd.EmployerName, nowTs)
	add(FieldStatusEmployer, old.StatusEmployer, upd.StatusEmployer, upd.StatusEmployer, statusTimestamp)

	return changes
}

func nullToString(s null.String) string {
	if !s.Valid {
		return ""
	}
	return s.String
}
