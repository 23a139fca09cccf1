package internal

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"media-gallery-api/config"
	"media-gallery-api/internal/application/collection"
	"media-gallery-api/internal/application/ports"
	"media-gallery-api/internal/application/services"
	"media-gallery-api/internal/domain/media"
	"media-gallery-api/internal/infrastructure/db/postgres"
	"media-gallery-api/internal/infrastructure/db/postgres/activity"
	"media-gallery-api/internal/infrastructure/db/postgres/user"
	"media-gallery-api/internal/infrastructure/jwt"
	"media-gallery-api/internal/infrastructure/metrics"
	"media-gallery-api/internal/infrastructure/mq"
	"media-gallery-api/internal/infrastructure/s3"
	"media-gallery-api/internal/interface/api/rest"
	"media-gallery-api/internal/interface/api/rest/middleware"
	"media-gallery-api/pkg/rmqconsumer"
)

type App struct {
	logger     *zap.Logger
	cfg        config.Config
	db         *pgxpool.Pool
	store      ports.ObjectStore
	httpSrv    *http.Server
	router     *gin.Engine
	mCounter   *prometheus.CounterVec
	mq         ports.RabbitMQ
	mqConsumer ports.RMQConsumer
	gallery    *services.GalleryService
}

func NewApp(ctx context.Context) (*App, error) {
	// logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("cannot initialize zap logger: %v", err)
	}

	// config
	if err = godotenv.Load(".env"); err != nil {
		logger.Warn(".env not loaded, using process environment", zap.Error(err))
	}
	cfg := config.Load()
	if cfg.App.JWTSecret == "" {
		logger.Fatal("SERVICE_JWT_SECRET is required")
	}

	// metrics
	mCounter := metrics.NewCounter()

	// router
	switch cfg.App.Env {
	case gin.ReleaseMode, "prod", "production":
		gin.SetMode(gin.ReleaseMode)
	case gin.TestMode:
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogGin(logger, mCounter))

	// httpServer
	httpSrv := &http.Server{
		Addr:              cfg.App.Host + ":" + cfg.App.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// db
	dbDsn, err := cfg.DBDSN()
	if err != nil {
		logger.Fatal("DB config error", zap.Error(err))
	}
	migrateDsn, err := cfg.MigrateDSN()
	if err != nil {
		logger.Fatal("DB config error", zap.Error(err))
	}
	if err = postgres.Migrate(logger, migrateDsn); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}
	dbPool, err := postgres.New(ctx, logger, dbDsn)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	// s3
	store, err := s3.New(ctx, logger, cfg.S3)
	if err != nil {
		logger.Fatal("failed to configure S3", zap.Error(err))
	}

	// rabbitMQ
	rabbitDsn, err := cfg.AMQPDSN()
	if err != nil {
		logger.Fatal("RabbitMQ config error", zap.Error(err))
	}
	rbMQ := mq.New(cfg.MQ, logger)
	if err = rbMQ.Connect(ctx, rabbitDsn); err != nil {
		logger.Fatal("failed to connect to rabbitMQ", zap.Error(err))
	}
	if err = rbMQ.Init(); err != nil {
		logger.Fatal("failed init rabbitMQ", zap.Error(err))
	}

	// rmqConsumer persists activity events
	rmqConsumer := rmqconsumer.New(cfg.MQ, logger, activity.NewRepository(dbPool))
	if err = rmqConsumer.Connect(rabbitDsn); err != nil {
		logger.Fatal("failed to connect rabbitMQ consumer", zap.Error(err))
	}
	if err = rmqConsumer.Init(); err != nil {
		logger.Fatal("failed to init rabbitMQ consumer", zap.Error(err))
	}

	return &App{
		logger:     logger,
		cfg:        cfg,
		db:         dbPool,
		store:      store,
		httpSrv:    httpSrv,
		router:     r,
		mCounter:   mCounter,
		mq:         rbMQ,
		mqConsumer: rmqConsumer,
	}, nil
}

func (a *App) Close() {
	if a.gallery != nil {
		a.gallery.Wait()
	}
	if a.db != nil {
		a.db.Close()
	}
	if a.mq != nil && a.mq.GetConn() != nil {
		_ = a.mq.GetConn().Close()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// Run launches the HTTP server, the publisher and consumer workers and the
// initial collection fetch under one errgroup, and shuts them down together
// on SIGINT/SIGTERM.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGUSR1)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("starting "+a.cfg.App.Name, zap.String("addr", a.httpSrv.Addr))
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server "+a.cfg.App.Name+" error: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		a.mq.PublisherWorker(ctx)
		return nil
	})

	g.Go(func() error {
		a.mqConsumer.DeliveryWorker(ctx)
		return nil
	})

	g.Go(func() error {
		a.gallery.LoadAll(ctx)
		return nil
	})

	<-ctx.Done()

	a.logger.Info("shutting down " + a.cfg.App.Name + " gracefully...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if a.httpSrv != nil {
		if err := a.httpSrv.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("http server shutdown "+a.cfg.App.Name+" error", zap.Error(err))
			return err
		}
	}

	if err := g.Wait(); err != nil {
		a.logger.Error(a.cfg.App.Name+" returning an error", zap.Error(err))
		return err
	}

	a.gallery.Wait()
	a.logger.Info(a.cfg.App.Name + " gracefully stopped")

	return nil
}

func (a *App) InitControllers() error {
	// repos
	userRepo := user.NewRepository(a.db)
	activityRepo := activity.NewRepository(a.db)

	// collections
	buckets := map[media.Kind]string{
		media.KindImage: a.cfg.S3.BucketImages,
		media.KindSound: a.cfg.S3.BucketSounds,
	}
	managers := make([]*collection.Manager, 0, len(buckets))
	for _, kind := range []media.Kind{media.KindImage, media.KindSound} {
		m, err := collection.New(kind, a.store, a.logger, a.mCounter, collection.Options{
			Namespace:         buckets[kind],
			ListLimit:         a.cfg.Gallery.ListLimit,
			ItemsPerPage:      a.cfg.Gallery.ItemsPerPage,
			TombstoneTTL:      a.cfg.Gallery.TombstoneTTL,
			UploadConcurrency: a.cfg.Gallery.UploadConcurrency,
		})
		if err != nil {
			return fmt.Errorf("%s collection: %w", kind, err)
		}
		managers = append(managers, m)
	}

	// services
	jwtService := jwt.New(a.cfg.App.JWTSecret)
	authService := services.NewAuthService(userRepo, jwtService, a.cfg.App.JWTTTL, a.logger, a.mCounter)
	a.gallery = services.NewGalleryService(managers, a.mq, activityRepo, a.logger, a.mCounter, services.GalleryOptions{
		EndOfDayInclusive: a.cfg.Gallery.EndOfDayInclusive,
		MaxUploadBytes:    a.cfg.Gallery.MaxUploadBytes,
	})

	// controllers
	rest.NewAuthController(a.router, a.logger, authService)
	rest.NewGalleryController(a.router, a.gallery, a.logger, authService)

	// ops
	a.router.GET(rest.RouteHealth, func(c *gin.Context) { c.Status(http.StatusOK) })
	a.router.GET(rest.RouteMetrics, gin.WrapH(promhttp.Handler()))

	return nil
}

func (a *App) Logger() *zap.Logger { return a.logger }
