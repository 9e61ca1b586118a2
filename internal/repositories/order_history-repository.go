package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Innkaufhaus/kundenbestellung-v6/internal/entities"
)

type OrderHistoryRepositoryInterface interface {
	CreateInTx(ctx context.Context, tx pgx.Tx, history *entities.OrderHistory) error
	FindByOrderID(ctx context.Context, orderID int64) ([]entities.OrderHistory, error)
	DeleteByOrderIDsInTx(ctx context.Context, tx pgx.Tx, orderIDs []int64) error
	ListAll(ctx context.Context) ([]entities.OrderHistory, error)
}

type OrderHistoryRepository struct {
	storage *pgxpool.Pool
}

func NewOrderHistoryRepository(storage *pgxpool.Pool) OrderHistoryRepositoryInterface {
	return &OrderHistoryRepository{storage: storage}
}

const historyColumns = `id, order_id, changed_field, old_value, new_value, changed_by, changed_at`

// CreateInTx appends one audit row. History is only ever written inside the
// same transaction as the order mutation that produced it.
func (r *OrderHistoryRepository) CreateInTx(ctx context.Context, tx pgx.Tx, history *entities.OrderHistory) error {
	query := `
		INSERT INTO order_history (order_id, changed_field, old_value, new_value, changed_by, changed_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := tx.Exec(ctx, query,
		history.OrderID, history.ChangedField,
		history.OldValue, history.NewValue, history.ChangedBy, history.ChangedAt)
	if err != nil {
		return fmt.Errorf("inserting history row for order %d: %w", history.OrderID, err)
	}
	return nil
}

func (r *OrderHistoryRepository) FindByOrderID(ctx context.Context, orderID int64) ([]entities.OrderHistory, error) {
	query := `SELECT ` + historyColumns + ` FROM order_history WHERE order_id = $1 ORDER BY changed_at DESC`

	rows, err := r.storage.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("querying history for order %d: %w", orderID, err)
	}
	defer rows.Close()

	return scanHistoryRows(rows)
}

// DeleteByOrderIDsInTx removes the history of the given orders. There is no
// FK cascade; callers must delete history before the orders themselves.
func (r *OrderHistoryRepository) DeleteByOrderIDsInTx(ctx context.Context, tx pgx.Tx, orderIDs []int64) error {
	_, err := tx.Exec(ctx, `DELETE FROM order_history WHERE order_id = ANY($1)`, orderIDs)
	if err != nil {
		return fmt.Errorf("deleting history rows: %w", err)
	}
	return nil
}

func (r *OrderHistoryRepository) ListAll(ctx context.Context) ([]entities.OrderHistory, error) {
	rows, err := r.storage.Query(ctx, `SELECT `+historyColumns+` FROM order_history ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying all history rows: %w", err)
	}
	defer rows.Close()

	return scanHistoryRows(rows)
}

func scanHistoryRows(rows pgx.Rows) ([]entities.OrderHistory, error) {
	history := make([]entities.OrderHistory, 0)
	for rows.Next() {
		var h entities.OrderHistory
		if err := rows.Scan(
			&h.ID, &h.OrderID, &h.ChangedField,
			&h.OldValue, &h.NewValue, &h.ChangedBy, &h.ChangedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		history = append(history, h)
	}
	return history, rows.Err()
}
