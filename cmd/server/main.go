package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/teamtask/backend/api/handler"
	"github.com/teamtask/backend/internal/config"
	"github.com/teamtask/backend/internal/infrastructure/monitor"
	pgInfra "github.com/teamtask/backend/internal/infrastructure/postgres"
	redisInfra "github.com/teamtask/backend/internal/infrastructure/redis"
	"github.com/teamtask/backend/internal/infrastructure/spool"
	"github.com/teamtask/backend/internal/middleware"
	"github.com/teamtask/backend/internal/router"
	"github.com/teamtask/backend/internal/services"
	"github.com/teamtask/backend/internal/services/lifecycle"
	"github.com/teamtask/backend/pkg/httpcontext"
	"github.com/teamtask/backend/pkg/logger"
	"github.com/teamtask/backend/repository/postgres"
	redisRepo "github.com/teamtask/backend/repository/redis"
	authUC "github.com/teamtask/backend/usecase/auth"
	dashboardUC "github.com/teamtask/backend/usecase/dashboard"
	taskUC "github.com/teamtask/backend/usecase/task"
	teamUC "github.com/teamtask/backend/usecase/team"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(ctx context.Context) error {
		pool.Close()
		return nil
	})

	redisClient, err := redisInfra.NewClient(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	spoolStore, err := spool.Open(cfg.Spool.Path, "activities")
	if err != nil {
		zapLogger.Fatal("failed to open activity spool", zap.Error(err))
	}
	manager.Register("spool", func(ctx context.Context) error {
		return spoolStore.Close()
	})

	mon := monitor.New(pool, redisClient, spoolStore, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	userRepo := postgres.NewUserRepository(pool)
	taskRepo := postgres.NewTaskRepository(pool)
	activityRepo := postgres.NewActivityRepository(pool)
	sessionRepo := redisRepo.NewSessionRepository(redisClient, cfg.JWT.SessionTTL)

	spoolProcessor := services.NewSpoolProcessor(
		spoolStore,
		mon,
		activityRepo,
		zapLogger,
		services.ProcessorConfig{
			Interval:   cfg.Spool.DrainInterval,
			BatchSize:  cfg.Spool.BatchSize,
			MaxRetries: cfg.Spool.MaxRetry,
			Retention:  cfg.Spool.Retention,
		},
	)
	spoolProcessor.Start()
	manager.Register("spool_processor", func(ctx context.Context) error {
		spoolProcessor.Stop(ctx)
		return nil
	})

	spoolBridge := services.NewSpoolBridge(spoolProcessor)

	authUseCase := authUC.New(userRepo, sessionRepo, zapLogger)
	taskUseCase := taskUC.New(taskRepo, userRepo, activityRepo, spoolBridge, zapLogger)
	dashboardUseCase := dashboardUC.New(taskRepo, userRepo, zapLogger)
	teamUseCase := teamUC.New(userRepo, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:      apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger, cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.SessionTTL),
		Task:      apiHandler.NewTaskHandler(taskUseCase, ctxAdapter, zapLogger),
		Dashboard: apiHandler.NewDashboardHandler(dashboardUseCase, ctxAdapter, zapLogger),
		Team:      apiHandler.NewTeamHandler(teamUseCase, ctxAdapter, zapLogger),
		Health:    apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.JWTAuth(cfg.JWT.Secret, cfg.JWT.Issuer, authUseCase, zapLogger)
	r := router.New(handlers, authMiddleware)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
