package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"

	"go-stockbit/internal/config"
	"go-stockbit/internal/handler"
	"go-stockbit/internal/metrics"
	"go-stockbit/internal/middleware"
	"go-stockbit/internal/repository"
	"go-stockbit/internal/service"
	"go-stockbit/internal/storage"
	"go-stockbit/internal/ws"
	"go-stockbit/migrations"
	"go-stockbit/pkg/database"
	"go-stockbit/pkg/jwt"
	"go-stockbit/pkg/logger"
)

// Room for the form fields sent next to a maximum size screenshot.
const bodySlack = 64 * 1024

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", logger.Err(err))
		os.Exit(1)
	}
}

func run() error {
	// 1. Load Env
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Setup Database
	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if cfg.AutoMigrate {
		if err := migrations.Up(sqlDB); err != nil {
			return err
		}
		log.Info("migrations applied")
	}

	// 3. Shared storage and file store
	sharedStorage, err := newSharedStorage(ctx, cfg, log)
	if err != nil {
		return err
	}
	files, err := newFileStore(ctx, cfg, log)
	if err != nil {
		return err
	}

	// 4. Setup WebSocket Hub
	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	hub := ws.NewHub(log)
	go hub.Run(hubCtx)

	// 5. Dependency Injection (Wiring Layers)
	userRepo := repository.NewUserRepo(db)
	productRepo := repository.NewProductRepo(db)
	saleRepo := repository.NewSaleRepo(db)
	supplierRepo := repository.NewSupplierRepo(db)
	paymentRepo := repository.NewPaymentRepo(db)
	reportRepo := repository.NewReportRepo(db)

	signer := jwt.NewSigner(cfg.JWTSecret, cfg.TTL)
	authService := service.NewAuthService(userRepo, signer)
	invService := service.NewInventoryService(productRepo, saleRepo, hub)
	supplierService := service.NewSupplierService(supplierRepo)
	reportService := service.NewReportService(reportRepo, productRepo, saleRepo)
	subService := service.NewSubscriptionService(paymentRepo, files, hub, service.SubscriptionConfig{
		MinAmount:      decimal.NewFromInt(cfg.MinAmount),
		MaxUploadBytes: int64(cfg.Uploads.MaxBytes),
	})
	adminService := service.NewAdminService(userRepo)

	if err := seedAdmin(adminService, cfg.Admin, log); err != nil {
		return err
	}

	m := metrics.New()
	handlers := handler.Handlers{
		Auth:         handler.NewAuthHandler(authService, m, log, cfg.CookieSecure),
		Inventory:    handler.NewInventoryHandler(invService, m, log),
		Supplier:     handler.NewSupplierHandler(supplierService, log),
		Dashboard:    handler.NewDashboardHandler(reportService, log),
		Subscription: handler.NewSubscriptionHandler(subService, m, log),
		User:         handler.NewUserHandler(adminService, log),
		WS:           handler.NewWSHandler(hub),
	}

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName:      "StockBit v1.0",
		BodyLimit:    cfg.Uploads.MaxBytes + bodySlack,
		ErrorHandler: errorHandler(log),
	})

	// Middleware
	app.Use(recover.New()) // Panic recovery
	app.Use(fiberlogger.New())
	app.Use(cors.New())
	app.Use(m.Middleware())

	app.Get("/healthz", func(c *fiber.Ctx) error {
		if err := sqlDB.PingContext(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", m.Handler())

	// 7. Routes
	handler.RegisterRoutes(app, handlers, handler.Guards{
		Auth: authService,
		CSRF: middleware.CSRF(middleware.CSRFConfig{
			Expiration:   cfg.CSRFExpiration,
			CookieSecure: cfg.CookieSecure,
			Exempt:       handler.PublicPaths,
			Storage:      sharedStorage,
		}),
		LoginLimiter: middleware.LoginLimiter(cfg.LoginRateLimit, sharedStorage),
	})

	// 8. Graceful Shutdown
	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", slog.String("addr", cfg.Addr()))
		errCh <- app.Listen(cfg.Addr())
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		return err
	}
	log.Info("server exited")
	return nil
}

// newSharedStorage returns Redis backed storage when configured. A nil
// result makes the middleware fall back to process memory.
func newSharedStorage(ctx context.Context, cfg *config.Config, log *slog.Logger) (fiber.Storage, error) {
	if cfg.Redis.Addr == "" {
		log.Info("no REDIS_ADDR, keeping csrf tokens and rate limits in memory")
		return nil, nil
	}
	client, err := storage.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, err
	}
	return storage.NewRedisStorage(client, "stockbit:"), nil
}

func newFileStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (storage.FileStore, error) {
	if cfg.S3.Bucket != "" {
		log.Info("storing screenshots in s3", slog.String("bucket", cfg.S3.Bucket))
		return storage.NewS3Store(ctx, cfg.S3.Bucket, cfg.S3.Region, cfg.S3.Prefix)
	}
	return storage.NewLocalStore(cfg.Uploads.Dir)
}

func seedAdmin(admins service.AdminService, cfg config.Admin, log *slog.Logger) error {
	if !cfg.Enabled() {
		return nil
	}
	created, err := admins.EnsureAdmin(&service.CreateAdminRequest{
		Username:     cfg.Username,
		Email:        cfg.Email,
		Password:     cfg.Password,
		BusinessName: "StockBit Admin",
	})
	if err != nil {
		return err
	}
	if created {
		log.Info("admin user created", slog.String("username", cfg.Username))
	}
	return nil
}

func errorHandler(log *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal server error"

		var e *fiber.Error
		if errors.As(err, &e) {
			code = e.Code
			message = e.Message
		} else {
			log.Error("unhandled error", slog.String("path", c.Path()), logger.Err(err))
		}
		return c.Status(code).JSON(fiber.Map{"error": message})
	}
}
