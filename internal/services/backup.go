package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/Innkaufhaus/kundenbestellung-v6/internal/dto"
	"github.com/Innkaufhaus/kundenbestellung-v6/internal/entities"
	"github.com/Innkaufhaus/kundenbestellung-v6/internal/repositories"
)

type AdminServiceInterface interface {
	Backup(ctx context.Context) (*dto.BackupDTO, error)
	ListOrders(ctx context.Context) ([]entities.Order, error)
}

// AdminService serves the backup dump and the order export. Read-only.
type AdminService struct {
	orderRepo   repositories.OrderRepositoryInterface
	historyRepo repositories.OrderHistoryRepositoryInterface
	logger      *zap.Logger
}

func NewAdminService(
	orderRepo repositories.OrderRepositoryInterface,
	historyRepo repositories.OrderHistoryRepositoryInterface,
	logger *zap.Logger,
) AdminServiceInterface {
	return &AdminService{orderRepo: orderRepo, historyRepo: historyRepo, logger: logger}
}

func (s *AdminService) Backup(ctx context.Context) (*dto.BackupDTO, error) {
	orders, err := s.orderRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	history, err := s.historyRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	s.logger.Info("backup generated",
		zap.Int("orders", len(orders)),
		zap.Int("history_rows", len(history)))
	return &dto.BackupDTO{Orders: orders, OrderHistory: history}, nil
}

func (s *AdminService) ListOrders(ctx context.Context) ([]entities.Order, error) {
	return s.orderRepo.ListAll(ctx)
}
