package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Innkaufhaus/kundenbestellung-v6/internal/controllers"
	"github.com/Innkaufhaus/kundenbestellung-v6/internal/repositories"
	"github.com/Innkaufhaus/kundenbestellung-v6/internal/services"
	"github.com/Innkaufhaus/kundenbestellung-v6/pkg/config"
)

func InitRouter(e *echo.Echo, dbConn *pgxpool.Pool, redisClient *redis.Client, logger *zap.Logger, cfg *config.Config) {
	api := e.Group("/api")

	txManager := repositories.NewTxManager(dbConn)
	orderRepo := repositories.NewOrderRepository(dbConn)
	historyRepo := repositories.NewOrderHistoryRepository(dbConn)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)

	// Without a configured SMTP host, mail is logged instead of dialed.
	var mailer services.MailerInterface
	if cfg.SMTP.Host != "" {
		mailer = services.NewSMTPMailer(cfg.SMTP, logger)
	} else {
		mailer = services.NewLogMailer(logger)
	}

	orderService := services.NewOrderService(txManager, orderRepo, historyRepo, cacheRepo, mailer, cfg.Cache.OrderTTL, logger)
	adminService := services.NewAdminService(orderRepo, historyRepo, logger)

	orderCtrl := controllers.NewOrderController(orderService, logger)
	adminCtrl := controllers.NewAdminController(adminService, cfg.Admin, logger)

	runOrderRouter(api, orderCtrl)
	runAdminRouter(api, adminCtrl)

	logger.Info("routes initialized")
}
