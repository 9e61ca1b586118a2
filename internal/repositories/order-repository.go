package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Innkaufhaus/kundenbestellung-v6/internal/dto"
	"github.com/Innkaufhaus/kundenbestellung-v6/internal/entities"
	apperrors "github.com/Innkaufhaus/kundenbestellung-v6/pkg/errors"
	"github.com/Innkaufhaus/kundenbestellung-v6/pkg/types"
)

// OrderStatusRow is the minimal projection needed to record the prior status
// of each order touched by a bulk status update.
type OrderStatusRow struct {
	ID     int64
	Status null.String
}

type OrderRepositoryInterface interface {
	CreateOrder(ctx context.Context, order *entities.Order) error
	FindOrder(ctx context.Context, id int64) (*entities.Order, error)
	FindOrderForUpdateInTx(ctx context.Context, tx pgx.Tx, id int64) (*entities.Order, error)
	SearchOrders(ctx context.Context, filter types.Filter) ([]entities.Order, error)
	UpdateOrderInTx(ctx context.Context, tx pgx.Tx, id int64, upd dto.UpdateOrderDTO, statusTimestamp null.Time) error
	ListStatusesInTx(ctx context.Context, tx pgx.Tx, ids []int64) ([]OrderStatusRow, error)
	UpdateStatusBulkInTx(ctx context.Context, tx pgx.Tx, ids []int64, status, statusEmployer string, ts time.Time) (int64, error)
	DeleteOrdersInTx(ctx context.Context, tx pgx.Tx, ids []int64) (int64, error)
	ListAll(ctx context.Context) ([]entities.Order, error)
}

type OrderRepository struct {
	storage *pgxpool.Pool
}

func NewOrderRepository(storage *pgxpool.Pool) OrderRepositoryInterface {
	return &OrderRepository{storage: storage}
}

const orderColumns = `id, order_number, order_date, customer_name, phone, email, description,
	employer_name, manufacturer_supplier, selector, status, status_timestamp, status_employer`

// searchColumns are the columns the substring search runs over. The list is
// fixed by the API contract; manufacturer_supplier is deliberately absent.
var searchColumns = []string{
	"order_number", "customer_name", "phone", "email",
	"description", "employer_name", "selector",
}

func (r *OrderRepository) CreateOrder(ctx context.Context, order *entities.Order) error {
	query := `
		INSERT INTO orders (order_number, order_date, customer_name, phone, email, description,
			employer_name, manufacturer_supplier, selector, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`
	err := r.storage.QueryRow(ctx, query,
		order.OrderNumber, order.OrderDate,
		order.CustomerName, order.Phone, order.Email, order.Description,
		order.EmployerName, order.ManufacturerSupplier, order.Selector, order.Status,
	).Scan(&order.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("order number %q: %w", order.OrderNumber, apperrors.ErrConflict)
		}
		return fmt.Errorf("inserting order: %w", err)
	}
	return nil
}

func (r *OrderRepository) FindOrder(ctx context.Context, id int64) (*entities.Order, error) {
	row := r.storage.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	return scanOrder(row)
}

// FindOrderForUpdateInTx reads the pre-update state under a row lock so the
// audit diff cannot race with a concurrent update of the same order.
func (r *OrderRepository) FindOrderForUpdateInTx(ctx context.Context, tx pgx.Tx, id int64) (*entities.Order, error) {
	row := tx.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id)
	return scanOrder(row)
}

func (r *OrderRepository) SearchOrders(ctx context.Context, filter types.Filter) ([]entities.Order, error) {
	builder := sq.Select(orderColumns).
		From("orders").
		PlaceholderFormat(sq.Dollar).
		OrderBy("order_date DESC")

	if filter.Search != "" {
		pattern := fmt.Sprintf("%%%s%%", filter.Search)
		var conditions []sq.Sqlizer
		for _, col := range searchColumns {
			conditions = append(conditions, sq.Expr(col+" ILIKE ?", pattern))
		}
		builder = builder.Where(sq.Or(conditions))
	}
	if filter.Status != "" {
		builder = builder.Where(sq.Eq{"status": filter.Status})
	}

	sqlQuery, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building search query: %w", err)
	}

	rows, err := r.storage.Query(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("searching orders: %w", err)
	}
	defer rows.Close()

	return scanOrderRows(rows)
}

// UpdateOrderInTx overwrites every mutable field unconditionally (full
// replace, not patch). statusTimestamp is computed by the caller: stamped
// when the incoming status is set, NULL otherwise.
func (r *OrderRepository) UpdateOrderInTx(ctx context.Context, tx pgx.Tx, id int64, upd dto.UpdateOrderDTO, statusTimestamp null.Time) error {
	query := `
		UPDATE orders SET
			customer_name = $1,
			phone = $2,
			email = $3,
			description = $4,
			employer_name = $5,
			manufacturer_supplier = $6,
			selector = $7,
			status = $8,
			status_timestamp = $9,
			status_employer = $10
		WHERE id = $11`
	_, err := tx.Exec(ctx, query,
		upd.CustomerName, upd.Phone, upd.Email, upd.Description,
		upd.EmployerName, upd.ManufacturerSupplier, upd.Selector,
		upd.Status, statusTimestamp, upd.StatusEmployer, id)
	if err != nil {
		return fmt.Errorf("updating order %d: %w", id, err)
	}
	return nil
}

func (r *OrderRepository) ListStatusesInTx(ctx context.Context, tx pgx.Tx, ids []int64) ([]OrderStatusRow, error) {
	rows, err := tx.Query(ctx, `SELECT id, status FROM orders WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("reading statuses before bulk update: %w", err)
	}
	defer rows.Close()

	var result []OrderStatusRow
	for rows.Next() {
		var row OrderStatusRow
		if err := rows.Scan(&row.ID, &row.Status); err != nil {
			return nil, fmt.Errorf("scanning status row: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// UpdateStatusBulkInTx applies one status, one shared timestamp and one actor
// to every matching order. Ids without a row are ignored; the returned count
// is the number of rows actually updated.
func (r *OrderRepository) UpdateStatusBulkInTx(ctx context.Context, tx pgx.Tx, ids []int64, status, statusEmployer string, ts time.Time) (int64, error) {
	ct, err := tx.Exec(ctx,
		`UPDATE orders SET status = $1, status_timestamp = $2, status_employer = $3 WHERE id = ANY($4)`,
		status, ts, statusEmployer, ids)
	if err != nil {
		return 0, fmt.Errorf("bulk status update: %w", err)
	}
	return ct.RowsAffected(), nil
}

func (r *OrderRepository) DeleteOrdersInTx(ctx context.Context, tx pgx.Tx, ids []int64) (int64, error) {
	ct, err := tx.Exec(ctx, `DELETE FROM orders WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, fmt.Errorf("deleting orders: %w", err)
	}
	return ct.RowsAffected(), nil
}

func (r *OrderRepository) ListAll(ctx context.Context) ([]entities.Order, error) {
	rows, err := r.storage.Query(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying all orders: %w", err)
	}
	defer rows.Close()

	return scanOrderRows(rows)
}

func scanOrder(row pgx.Row) (*entities.Order, error) {
	var o entities.Order
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.OrderDate,
		&o.CustomerName, &o.Phone, &o.Email, &o.Description,
		&o.EmployerName, &o.ManufacturerSupplier, &o.Selector,
		&o.Status, &o.StatusTimestamp, &o.StatusEmployer,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scanning order: %w", err)
	}
	return &o, nil
}

func scanOrderRows(rows pgx.Rows) ([]entities.Order, error) {
	orders := make([]entities.Order, 0)
	for rows.Next() {
		var o entities.Order
		if err := rows.Scan(
			&o.ID, &o.OrderNumber, &o.OrderDate,
			&o.CustomerName, &o.Phone, &o.Email, &o.Description,
			&o.EmployerName, &o.ManufacturerSupplier, &o.Selector,
			&o.Status, &o.StatusTimestamp, &o.StatusEmployer,
		); err != nil {
			return nil, fmt.Errorf("scanning order row: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
