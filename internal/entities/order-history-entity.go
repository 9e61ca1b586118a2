package entities

import (
	"github.com/aarondl/null/v8"
)

// OrderHistory is one append-only audit row: evidence that ChangedField went
// from OldValue to NewValue at ChangedAt. Rows are never updated; they are
// deleted only together with their parent order.
type OrderHistory struct {
	ID           int64       `json:"id" db:"id"`
	OrderID      int64       `json:"order_id" db:"order_id"`
	ChangedField string      `json:"changed_field" db:"changed_field"`
	OldValue     null.String `json:"old_value" db:"old_value"`
	NewValue     null.String `json:"new_value" db:"new_value"`
	ChangedBy    null.String `json:"changed_by" db:"changed_by"`
	ChangedAt    null.Time   `json:"changed_at" db:"changed_at"`
}
