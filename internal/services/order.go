package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/Innkaufhaus/kundenbestellung-v6/internal/dto"
	"github.com/Innkaufhaus/kundenbestellung-v6/internal/entities"
	"github.com/Innkaufhaus/kundenbestellung-v6/internal/repositories"
	"github.com/Innkaufhaus/kundenbestellung-v6/pkg/constants"
	apperrors "github.com/Innkaufhaus/kundenbestellung-v6/pkg/errors"
	"github.com/Innkaufhaus/kundenbestellung-v6/pkg/types"
	"github.com/Innkaufhaus/kundenbestellung-v6/pkg/utils"
)

// Generation includes a random suffix, so a collision is rare; three attempts
// before giving the caller a conflict.
const maxOrderNumberAttempts = 3

type OrderServiceInterface interface {
	CreateOrder(ctx context.Context, d dto.CreateOrderDTO) (*entities.Order, error)
	FindOrderByID(ctx context.Context, id int64) (*dto.OrderWithHistoryDTO, error)
	SearchOrders(ctx context.Context, filter types.Filter) ([]entities.Order, error)
	UpdateOrder(ctx context.Context, id int64, upd dto.UpdateOrderDTO) (*entities.Order, error)
	DeleteOrder(ctx context.Context, id int64) error
	BulkUpdateStatus(ctx context.Context, d dto.BulkStatusUpdateDTO) (int64, error)
	BulkDelete(ctx context.Context, ids []int64) (int64, error)
	SendOrderEmail(ctx context.Context, id int64, toEmail string) error
}

type OrderService struct {
	txManager   repositories.TxManagerInterface
	orderRepo   repositories.OrderRepositoryInterface
	historyRepo repositories.OrderHistoryRepositoryInterface
	cache       repositories.CacheRepositoryInterface
	mailer      MailerInterface
	cacheTTL    time.Duration
	logger      *zap.Logger
}

func NewOrderService(
	txManager repositories.TxManagerInterface,
	orderRepo repositories.OrderRepositoryInterface,
	historyRepo repositories.OrderHistoryRepositoryInterface,
	cache repositories.CacheRepositoryInterface,
	mailer MailerInterface,
	cacheTTL time.Duration,
	logger *zap.Logger,
) OrderServiceInterface {
	return &OrderService{
		txManager:   txManager,
		orderRepo:   orderRepo,
		historyRepo: historyRepo,
		cache:       cache,
		mailer:      mailer,
		cacheTTL:    cacheTTL,
		logger:      logger,
	}
}

func (s *OrderService) CreateOrder(ctx context.Context, d dto.CreateOrderDTO) (*entities.Order, error) {
	var lastErr error
	for attempt := 1; attempt <= maxOrderNumberAttempts; attempt++ {
		order := &entities.Order{
			OrderNumber:          utils.GenerateOrderNumber(time.Now()),
			OrderDate:            time.Now().UTC(),
			CustomerName:         d.CustomerName,
			Phone:                d.Phone,
			Email:                d.Email,
			Description:          d.Description,
			EmployerName:         d.EmployerName,
			ManufacturerSupplier: d.ManufacturerSupplier,
			Selector:             d.Selector,
			Status:               null.StringFrom(constants.StatusOpen),
		}

		err := s.orderRepo.CreateOrder(ctx, order)
		if err == nil {
			s.logger.Info("order created",
				zap.Int64("id", order.ID),
				zap.String("order_number", order.OrderNumber))
			return order, nil
		}
		if !errors.Is(err, apperrors.ErrConflict) {
			return nil, err
		}
		lastErr = err
		s.logger.Warn("order number collision, regenerating",
			zap.String("order_number", order.OrderNumber),
			zap.Int("attempt", attempt))
	}
	return nil, lastErr
}

// FindOrderByID returns the order together with its audit trail. History is
// fetched only after the order row is confirmed to exist.
func (s *OrderService) FindOrderByID(ctx context.Context, id int64) (*dto.OrderWithHistoryDTO, error) {
	cacheKey := orderCacheKey(id)
	if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
		var out dto.OrderWithHistoryDTO
		if json.Unmarshal([]byte(cached), &out) == nil {
			return &out, nil
		}
	}

	order, err := s.orderRepo.FindOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	history, err := s.historyRepo.FindByOrderID(ctx, id)
	if err != nil {
		return nil, err
	}

	out := &dto.OrderWithHistoryDTO{Order: *order, History: history}
	if payload, err := json.Marshal(out); err == nil {
		if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL); err != nil {
			s.logger.Warn("caching order failed", zap.Int64("id", id), zap.Error(err))
		}
	}
	return out, nil
}

func (s *OrderService) SearchOrders(ctx context.Context, filter types.Filter) ([]entities.Order, error) {
	return s.orderRepo.SearchOrders(ctx, filter)
}

// UpdateOrder replaces all mutable fields and writes one history row per
// changed field. The update and its history inserts share one transaction:
// a failed history write rolls the whole update back.
func (s *OrderService) UpdateOrder(ctx context.Context, id int64, upd dto.UpdateOrderDTO) (*entities.Order, error) {
	var updated *entities.Order

	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		oldOrder, err := s.orderRepo.FindOrderForUpdateInTx(ctx, tx, id)
		if err != nil {
			return err
		}

		var statusTimestamp null.Time
		if upd.Status.Valid && upd.Status.String != "" {
			statusTimestamp = null.TimeFrom(time.Now().UTC())
		}

		if err := s.orderRepo.UpdateOrderInTx(ctx, tx, id, upd, statusTimestamp); err != nil {
			return err
		}

		changes := DiffOrderUpdate(oldOrder, upd, statusTimestamp, time.Now().UTC())
		for i := range changes {
			if err := s.historyRepo.CreateInTx(ctx, tx, &changes[i]); err != nil {
				return err
			}
		}

		updated = applyUpdate(oldOrder, upd, statusTimestamp)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateCache(ctx, id)
	return updated, nil
}

func (s *OrderService) DeleteOrder(ctx context.Context, id int64) error {
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		// History first; there is no FK cascade to rely on.
		if err := s.historyRepo.DeleteByOrderIDsInTx(ctx, tx, []int64{id}); err != nil {
			return err
		}
		n, err := s.orderRepo.DeleteOrdersInTx(ctx, tx, []int64{id})
		if err != nil {
			return err
		}
		if n == 0 {
			return apperrors.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidateCache(ctx, id)
	return nil
}

// BulkUpdateStatus stamps one status, one shared timestamp and one actor onto
// every existing order in the set, and appends one history row per order
// recording its prior status. Ids without a row are silently ignored. The
// whole batch commits or rolls back as a unit.
func (s *OrderService) BulkUpdateStatus(ctx context.Context, d dto.BulkStatusUpdateDTO) (int64, error) {
	sharedTimestamp := time.Now().UTC()
	var count int64

	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		prior, err := s.orderRepo.ListStatusesInTx(ctx, tx, d.OrderIDs)
		if err != nil {
			return err
		}

		count, err = s.orderRepo.UpdateStatusBulkInTx(ctx, tx, d.OrderIDs, d.Status, d.StatusEmployer, sharedTimestamp)
		if err != nil {
			return err
		}

		for _, row := range prior {
			entry := entities.OrderHistory{
				OrderID:      row.ID,
				ChangedField: FieldStatus,
				OldValue:     row.Status,
				NewValue:     null.StringFrom(d.Status),
				ChangedBy:    null.StringFrom(d.StatusEmployer),
				ChangedAt:    null.TimeFrom(sharedTimestamp),
			}
			if err := s.historyRepo.CreateInTx(ctx, tx, &entry); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.invalidateCache(ctx, d.OrderIDs...)
	s.logger.Info("bulk status update applied",
		zap.Int64("count", count),
		zap.String("status", d.Status))
	return count, nil
}

// BulkDelete removes the given orders and their history atomically. Ids
// without a row are silently ignored; the count reflects deleted orders.
func (s *OrderService) BulkDelete(ctx context.Context, ids []int64) (int64, error) {
	var count int64

	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if err := s.historyRepo.DeleteByOrderIDsInTx(ctx, tx, ids); err != nil {
			return err
		}
		var err error
		count, err = s.orderRepo.DeleteOrdersInTx(ctx, tx, ids)
		return err
	})
	if err != nil {
		return 0, err
	}

	s.invalidateCache(ctx, ids...)
	s.logger.Info("bulk delete applied", zap.Int64("count", count))
	return count, nil
}

// SendOrderEmail makes exactly one delivery attempt and never mutates the
// store. A transport rejection surfaces as ErrDelivery.
func (s *OrderService) SendOrderEmail(ctx context.Context, id int64, toEmail string) error {
	order, err := s.orderRepo.FindOrder(ctx, id)
	if err != nil {
		return err
	}

	if err := s.mailer.SendOrderSummary(order, toEmail); err != nil {
		s.logger.Error("order mail rejected by transport",
			zap.Int64("id", id),
			zap.String("to", toEmail),
			zap.Error(err))
		return fmt.Errorf("%v: %w", err, apperrors.ErrDelivery)
	}

	s.logger.Info("order mail sent", zap.Int64("id", id), zap.String("to", toEmail))
	return nil
}

func applyUpdate(old *entities.Order, upd dto.UpdateOrderDTO, statusTimestamp null.Time) *entities.Order {
	out := *old
	out.CustomerName = upd.CustomerName
	out.Phone = upd.Phone
	out.Email = upd.Email
	out.Description = upd.Description
	out.EmployerName = upd.EmployerName
	out.ManufacturerSupplier = upd.ManufacturerSupplier
	out.Selector = upd.Selector
	out.Status = upd.Status
	out.StatusTimestamp = statusTimestamp
	out.StatusEmployer = upd.StatusEmployer
	return &out
}

func orderCacheKey(id int64) string {
	return fmt.Sprintf("order:%d", id)
}

// invalidateCache drops cached order payloads after a mutation. Cache errors
// are logged and swallowed: the store is the source of truth.
func (s *OrderService) invalidateCache(ctx context.Context, ids ...int64) {
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, orderCacheKey(id))
	}
	if err := s.cache.Del(ctx, keys...); err != nil {
		s.logger.Warn("cache invalidation failed", zap.Int64s("ids", ids), zap.Error(err))
	}
}
