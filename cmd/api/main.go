package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/hibiken/asynq"

	_ "github.com/jhoicas/inventario-sucursales/docs"
	"github.com/jhoicas/inventario-sucursales/internal/application/inventory"
	"github.com/jhoicas/inventario-sucursales/internal/infrastructure/notify"
	infrapdf "github.com/jhoicas/inventario-sucursales/internal/infrastructure/pdf"
	"github.com/jhoicas/inventario-sucursales/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-sucursales/internal/infrastructure/ws"
	"github.com/jhoicas/inventario-sucursales/internal/infrastructure/xmlexport"
	httpRouter "github.com/jhoicas/inventario-sucursales/internal/interfaces/http"
	"github.com/jhoicas/inventario-sucursales/internal/jobs"
	"github.com/jhoicas/inventario-sucursales/pkg/config"
	"github.com/jhoicas/inventario-sucursales/pkg/logger"
)

// @title						Inventario por Sucursales API
// @version					1.0
// @description				Ledger de movimientos, apartados, traslados entre sucursales, alertas y valorización.
// @BasePath					/
// @securityDefinitions.apikey	Bearer
// @in							header
// @name						Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: "api",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		if err := postgres.NewMigrator(pool, log.Component("migrator")).Up(ctx); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	productRepo := postgres.NewProductRepository(pool)
	branchRepo := postgres.NewBranchRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	levelRepo := postgres.NewInventoryLevelRepository(pool)
	movementRepo := postgres.NewInventoryMovementRepository(pool)
	reservationRepo := postgres.NewReservationRepository(pool)
	transferRepo := postgres.NewTransferRepository(pool)
	alertRepo := postgres.NewAlertRepository(pool)
	notificationRepo := postgres.NewNotificationRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Con NOTIFY_ENABLED=false las notificaciones solo quedan en el log.
	var sink inventory.NotificationSink = notify.NewLogNotifier(log.Component("notify"))
	if cfg.App.NotifyEnabled {
		queue := asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer queue.Close()
		sink = jobs.NewAsynqNotifier(queue)
	}

	movementUC := inventory.NewMovementUseCase(
		txRunner, productRepo, branchRepo, stockRepo, levelRepo, movementRepo,
		sink, log.Component("movements"),
	)
	reservationUC := inventory.NewReservationUseCase(
		txRunner, productRepo, branchRepo, reservationRepo, log.Component("reservations"),
	)
	transferUC := inventory.NewTransferUseCase(
		txRunner, productRepo, branchRepo, transferRepo, movementRepo,
		sink, log.Component("transfers"),
	)
	alertUC := inventory.NewAlertUseCase(levelRepo, alertRepo, branchRepo, sink, log.Component("alerts"))
	valuationUC := inventory.NewValuationUseCase(levelRepo, branchRepo, map[string]inventory.ValuationRenderer{
		"pdf": infrapdf.NewValuationRenderer(),
		"xml": xmlexport.NewValuationRenderer(),
	})

	hub := ws.NewHub(log.Component("ws"))
	go hub.Run(ctx)

	if cfg.App.NotifyEnabled {
		rdb, err := notify.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warn().Err(err).Msg("redis no disponible, sin push por websocket")
		} else {
			defer rdb.Close()
			sub := notify.NewSubscriber(rdb, log.Component("notify"))
			go func() {
				if err := sub.Run(ctx, hub.Deliver); err != nil && ctx.Err() == nil {
					log.Error().Err(err).Msg("suscripción de notificaciones finalizada")
				}
			}()
		}
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Inventario por Sucursales API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Movements:     movementUC,
		Reservations:  reservationUC,
		Transfers:     transferUC,
		Alerts:        alertUC,
		Valuation:     valuationUC,
		Notifications: notificationRepo,
		Hub:           hub,
		JWTSecret:     cfg.JWT.Secret,
		Production:    cfg.App.Env == "production",
		RateLimit:     cfg.HTTP.RateLimit,
		Log:           log.Component("http"),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
