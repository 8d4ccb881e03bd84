package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-bakery-pos/internal/cache"
	"go-bakery-pos/internal/config"
	"go-bakery-pos/internal/handler"
	"go-bakery-pos/internal/logger"
	"go-bakery-pos/internal/model"
	"go-bakery-pos/internal/repository"
	"go-bakery-pos/internal/service"
	"go-bakery-pos/internal/ws"
	"go-bakery-pos/pkg/database"
	"go-bakery-pos/pkg/jwt"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
)

func main() {
	// 1. Load Env
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogFormat, cfg.LogLevel)
	slog.SetDefault(log)

	policy, err := service.ParseStockPolicy(cfg.CommissionStockPolicy)
	if err != nil {
		log.Error("invalid commission stock policy", "err", err)
		os.Exit(1)
	}

	// 2. Setup Database
	db, err := database.ConnectDB(cfg.DSN(), database.Options{LogLevel: database.LogLevel(cfg.LogLevel)})
	if err != nil {
		log.Error("connect database", "err", err)
		os.Exit(1)
	}
	// Auto Migrate (Hati-hati di production, sebaiknya pakai tools migrasi terpisah)
	if err := db.AutoMigrate(model.AllModels()...); err != nil {
		log.Error("auto migrate", "err", err)
		os.Exit(1)
	}

	// 3. Report cache, optional
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			log.Warn("redis unavailable, report cache disabled", "addr", cfg.RedisAddr, "err", err)
			_ = rdb.Close()
			rdb = nil
		}
		cancel()
	}
	reportCache := cache.NewReportCache(rdb, cfg.ReportCacheTTL, log)

	// 4. Setup WebSocket Hub
	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	wsHub := ws.NewHub(log)
	go wsHub.Run(hubCtx)

	// 5. Dependency Injection (Wiring Layers)
	store := repository.NewStore(db)
	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)
	signer := jwt.NewSigner(cfg.JWTSecret, cfg.JWTTTL())

	authService := service.NewAuthService(userRepo, roleRepo, privilegeRepo, signer, log)
	if err := authService.EnsureAdmin(context.Background(), cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Error("seed admin", "err", err)
		os.Exit(1)
	}

	catalogService := service.NewCatalogService(store, wsHub, reportCache, log)
	customerService := service.NewCustomerService(store, wsHub, reportCache, log)
	stockService := service.NewStockService(store, wsHub, reportCache, log)
	orderService := service.NewOrderService(store, wsHub, reportCache, log, service.OrderOptions{
		Policy: policy,
		Hooks:  []service.StatusHook{service.LogStatusHook(log)},
	})
	reportService := service.NewReportService(repository.NewReportRepo(db), reportCache)

	handlers := handler.Handlers{
		Auth:      handler.NewAuthHandler(authService, roleRepo, privilegeRepo, log),
		Catalog:   handler.NewCatalogHandler(catalogService, log),
		Customers: handler.NewCustomerHandler(customerService, log),
		Stock:     handler.NewStockHandler(stockService, log),
		Orders:    handler.NewOrderHandler(orderService, log),
		Reports:   handler.NewReportHandler(reportService, log),
	}

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Padaria POS v1.0",
	})

	// Middleware
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())
	app.Use(cors.New())

	// 7. Routes
	handler.RegisterRoutes(app, handlers, signer, userRepo)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "ws_clients": wsHub.ClientCount()})
	})

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(wsHub.Serve))

	// 8. Graceful Shutdown
	go func() {
		log.Info("listening", "port", cfg.Port, "commission_stock_policy", policy)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error("listen", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error("server forced to shutdown", "err", err)
	}
	stopHub()
	if rdb != nil {
		_ = rdb.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info("server exited")
}
