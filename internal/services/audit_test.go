package services

import (
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Innkaufhaus/kundenbestellung-v6/internal/dto"
	"github.com/Innkaufhaus/kundenbestellung-v6/internal/entities"
	"github.com/Innkaufhaus/kundenbestellung-v6/pkg/constants"
)

func baseOrder() *entities.Order {
	return &entities.Order{
		ID:                   42,
		OrderNumber:          "ORD250101120000123",
		OrderDate:            time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
		CustomerName:         null.StringFrom("Müller"),
		Phone:                null.StringFrom("0176123456"),
		Email:                null.StringFrom("mueller@example.com"),
		Description:          null.StringFrom("Ersatzteil bestellen"),
		EmployerName:         null.StringFrom("Schmidt"),
		ManufacturerSupplier: null.StringFrom("Bosch"),
		Selector:             null.StringFrom("A1"),
		Status:               null.StringFrom("offen"),
		StatusEmployer:       null.StringFrom("Schmidt"),
	}
}

func updateFromOrder(o *entities.Order) dto.UpdateOrderDTO {
	return dto.UpdateOrderDTO{
		CustomerName:         o.CustomerName,
		Phone:                o.Phone,
		Email:                o.Email,
		Description:          o.Description,
		EmployerName:         o.EmployerName,
		ManufacturerSupplier: o.ManufacturerSupplier,
		Selector:             o.Selector,
		Status:               o.Status,
		StatusEmployer:       o.StatusEmployer,
	}
}

func TestDiffOrderUpdate_NoChanges(t *testing.T) {
	old := baseOrder()
	upd := updateFromOrder(old)

	changes := DiffOrderUpdate(old, upd, null.TimeFrom(time.Now()), time.Now())
	assert.Empty(t, changes)
}

func TestDiffOrderUpdate_StatusOnly(t *testing.T) {
	old := baseOrder()
	upd := updateFromOrder(old)
	upd.Status = null.StringFrom("erledigt")

	statusTs := null.TimeFrom(time.Date(2025, 2, 1, 9, 30, 0, 0, time.UTC))
	changes := DiffOrderUpdate(old, upd, statusTs, time.Now())

	require.Len(t, changes, 1)
	assert.Equal(t, FieldStatus, changes[0].ChangedField)
	assert.Equal(t, int64(42), changes[0].OrderID)
	assert.Equal(t, "offen", changes[0].OldValue.String)
	assert.Equal(t, "erledigt", changes[0].NewValue.String)
	assert.Equal(t, upd.StatusEmployer, changes[0].ChangedBy, "status changes are attributed to status_employer")
	assert.Equal(t, statusTs, changes[0].ChangedAt, "status changes carry the status timestamp")
}

func TestDiffOrderUpdate_RegularFieldAttribution(t *testing.T) {
	old := baseOrder()
	upd := updateFromOrder(old)
	upd.Phone = null.StringFrom("0176999999")
	upd.EmployerName = null.StringFrom("Weber")

	now := time.Date(2025, 2, 1, 9, 30, 0, 0, time.UTC)
	changes := DiffOrderUpdate(old, upd, null.Time{}, now)

	require.Len(t, changes, 2)
	assert.Equal(t, FieldPhone, changes[0].ChangedField)
	assert.Equal(t, "Weber", changes[0].ChangedBy.String, "regular changes are attributed to employer_name")
	assert.Equal(t, now, changes[0].ChangedAt.Time)
	assert.Equal(t, FieldEmployerName, changes[1].ChangedField)
}

func TestDiffOrderUpdate_FixedFieldOrder(t *testing.T) {
	old := baseOrder()
	upd := dto.UpdateOrderDTO{
		CustomerName:         null.StringFrom("Neu"),
		Phone:                null.StringFrom("000"),
		Email:                null.StringFrom("neu@example.com"),
		Description:          null.StringFrom("neu"),
		EmployerName:         null.StringFrom("Neu"),
		ManufacturerSupplier: null.StringFrom("Siemens"),
		Selector:             null.StringFrom("B2"),
		Status:               null.StringFrom(constants.StatusCancelled),
		StatusEmployer:       null.StringFrom("Neu"),
	}

	changes := DiffOrderUpdate(old, upd, null.TimeFrom(time.Now()), time.Now())

	var fields []string
	for _, c := range changes {
		fields = append(fields, c.ChangedField)
	}
	assert.Equal(t, []string{
		FieldStatus, FieldCustomerName, FieldPhone, FieldEmail, FieldDescription,
		FieldEmployerName, FieldManufacturerSupplier, FieldSelector, FieldStatusEmployer,
	}, fields)
}

func TestDiffOrderUpdate_NullEqualsEmptyString(t *testing.T) {
	old := baseOrder()
	old.Phone = null.String{}
	old.Selector = null.StringFrom("")

	upd := updateFromOrder(old)
	upd.Phone = null.StringFrom("")
	upd.Selector = null.String{}

	changes := DiffOrderUpdate(old, upd, null.Time{}, time.Now())
	assert.Empty(t, changes, "NULL and empty string must compare equal")
}

func TestDiffOrderUpdate_ClearedFieldRecordsNull(t *testing.T) {
	old := baseOrder()
	upd := updateFromOrder(old)
	upd.Description = null.String{}

	changes := DiffOrderUpdate(old, upd, null.Time{}, time.Now())

	require.Len(t, changes, 1)
	assert.Equal(t, FieldDescription, changes[0].ChangedField)
	assert.Equal(t, "Ersatzteil bestellen", changes[0].OldValue.String)
	assert.False(t, changes[0].NewValue.Valid)
}
