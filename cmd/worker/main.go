package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/jhoicas/inventario-sucursales/internal/application/inventory"
	"github.com/jhoicas/inventario-sucursales/internal/infrastructure/notify"
	"github.com/jhoicas/inventario-sucursales/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-sucursales/internal/jobs"
	"github.com/jhoicas/inventario-sucursales/pkg/config"
	"github.com/jhoicas/inventario-sucursales/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: "worker",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	redisOpts := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}

	// El push por websocket es opcional; sin Redis pub/sub la notificación solo se persiste.
	var publisher *notify.Publisher
	rdb, err := notify.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Warn().Err(err).Msg("redis pub/sub no disponible")
	} else {
		defer rdb.Close()
		publisher = notify.NewPublisher(rdb)
	}

	var sink inventory.NotificationSink = notify.NewLogNotifier(log.Component("notify"))
	if cfg.App.NotifyEnabled {
		queue := asynq.NewClient(redisOpts)
		defer queue.Close()
		sink = jobs.NewAsynqNotifier(queue)
	}

	productRepo := postgres.NewProductRepository(pool)
	branchRepo := postgres.NewBranchRepository(pool)
	levelRepo := postgres.NewInventoryLevelRepository(pool)
	reservationRepo := postgres.NewReservationRepository(pool)
	alertRepo := postgres.NewAlertRepository(pool)
	notificationRepo := postgres.NewNotificationRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	alertUC := inventory.NewAlertUseCase(levelRepo, alertRepo, branchRepo, sink, log.Component("alerts"))
	reservationUC := inventory.NewReservationUseCase(
		txRunner, productRepo, branchRepo, reservationRepo, log.Component("reservations"),
	)

	alertsJob := jobs.NewAlertsJob(alertUC, cfg.Worker.TenantParallelism, log.Component("alerts_job"))
	sweepJob := jobs.NewReservationSweepJob(reservationUC, log.Component("reservation_sweep"))
	// Un *Publisher nil no puede pasar como interfaz: la rama evita el nil tipado.
	delivery := jobs.NewDeliveryJob(notificationRepo, nil, log.Component("delivery"))
	if publisher != nil {
		delivery = jobs.NewDeliveryJob(notificationRepo, publisher, log.Component("delivery"))
	}

	now := time.Now().UTC()
	alertsTask, err := jobs.NewAlertsEvaluateTask(now)
	if err != nil {
		log.Fatal().Err(err).Msg("construir tarea de alertas")
	}
	sweepTask, err := jobs.NewReservationsExpireTask(now)
	if err != nil {
		log.Fatal().Err(err).Msg("construir tarea de vencimiento")
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts:   redisOpts,
		Concurrency: cfg.Worker.Concurrency,
		Logger:      log.Component("worker"),
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskAlertsEvaluate, Handler: alertsJob.Handle},
			{Type: jobs.TaskReservationsExpire, Handler: sweepJob.Handle},
			{Type: jobs.TaskNotificationDeliver, Handler: delivery.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.Worker.AlertsCron, Task: alertsTask, Options: []asynq.Option{asynq.MaxRetry(1)}},
			{Spec: cfg.Worker.ReservationsCron, Task: sweepTask, Options: []asynq.Option{asynq.MaxRetry(1)}},
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("iniciar worker")
	}

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("worker finalizado")
	}
}
