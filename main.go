package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-logr/logr"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/umorjyoti/trip-sub006/internal/api"
	"github.com/umorjyoti/trip-sub006/internal/api/handlers"
	"github.com/umorjyoti/trip-sub006/internal/cache"
	"github.com/umorjyoti/trip-sub006/internal/config"
	"github.com/umorjyoti/trip-sub006/internal/db"
	"github.com/umorjyoti/trip-sub006/internal/email"
	"github.com/umorjyoti/trip-sub006/internal/logging"
	"github.com/umorjyoti/trip-sub006/internal/metrics"
	"github.com/umorjyoti/trip-sub006/internal/places"
	"github.com/umorjyoti/trip-sub006/internal/services"
	"github.com/umorjyoti/trip-sub006/internal/storage"
	"github.com/umorjyoti/trip-sub006/internal/tasks"
)

var runMode = flag.String("m", "all", "Run mode: 'api', 'bg' (background tasks), 'all' (default)")

func fatal(log logr.Logger, err error, msg string, kv ...interface{}) {
	log.Error(err, msg, kv...)
	os.Exit(1)
}

func main() {
	flag.Parse()

	cfg, err := config.Load(*runMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	log := logging.New(cfg.LogLevel, cfg.LogPretty)
	gin.SetMode(gin.ReleaseMode)

	rootCtx, cancelRoot := context.WithCancel(context.Background())
	defer cancelRoot()

	// Database
	mongoClient, mongoDb, err := db.ConnectDB(rootCtx, log, cfg.MongoURI, cfg.MongoDbName)
	if err != nil {
		fatal(log, err, "failed to connect to database")
	}
	defer func() {
		if err := db.DisconnectDB(log, mongoClient); err != nil {
			log.Error(err, "error disconnecting from MongoDB")
		}
	}()
	if err := db.EnsureIndexes(rootCtx, mongoDb); err != nil {
		fatal(log, err, "failed to ensure indexes")
	}

	// Cache and task queue, both on Redis; without it reads go straight to Mongo
	// and no notifications can be queued.
	var redisClient *redis.Client
	var readCache cache.ICache = cache.Noop{}
	var taskClient *asynq.Client
	if cfg.RedisAddr != "" {
		redisClient, err = cache.ConnectRedis(rootCtx, log, cfg)
		if err != nil {
			fatal(log, err, "failed to connect to Redis")
		}
		defer func() {
			if err := cache.DisconnectRedis(log, redisClient); err != nil {
				log.Error(err, "error disconnecting from Redis")
			}
		}()
		readCache = cache.NewRedisCache(redisClient, cfg.CacheTTL)
		taskClient = tasks.NewClient(cfg)
		defer taskClient.Close()
	} else {
		log.Info("REDIS_ADDR is empty, running without cache and task queue")
	}

	// Services
	settingsService := services.NewSettingsService(mongoDb, readCache, log.WithName("settings"))
	if _, err := settingsService.EnsureInstance(rootCtx); err != nil {
		fatal(log, err, "failed to initialise settings")
	}
	trekService := services.NewTrekService(mongoDb, cfg.DefaultTrekImage)
	sectionService := services.NewTrekSectionService(mongoDb, trekService, readCache, log.WithName("sections"))
	notificationService := services.NewNotificationService(mongoDb, log.WithName("notifications"))

	var emitter handlers.INotificationEmitter
	if taskClient != nil {
		emitter = tasks.NewNotificationProducer(taskClient, log.WithName("producer"))
	}

	var wg sync.WaitGroup
	shutdownChan := make(chan struct{}, 1)

	// Service API (always runs)
	serviceRouter := api.SetupServiceRouter(handlers.NewServiceApiHandler(emitter, shutdownChan, log.WithName("service-api")), log.WithName("service-api"))
	serviceSrv := &http.Server{
		Addr:    ":" + cfg.ServiceApiPort,
		Handler: serviceRouter,
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("service API listening", "port", cfg.ServiceApiPort)
		if err := serviceSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal(log, err, "service API ListenAndServe error")
		}
		log.Info("service API server stopped")
	}()

	var mainApiSrv *http.Server
	var backgroundTaskSrv *asynq.Server

	log.Info("starting application", "mode", cfg.RunMode)

	apiMode := func() {
		store, err := storage.New(cfg)
		if err != nil {
			fatal(log, err, "failed to initialise object storage", "driver", cfg.StorageDriver)
		}
		collector := metrics.NewCollector(cfg.SlowRequestThreshold, cfg.SlowSampleCapacity)
		router := api.SetupRouter(rootCtx, api.Dependencies{
			Config:        cfg,
			Log:           log.WithName("http"),
			Settings:      settingsService,
			Sections:      sectionService,
			Notifications: notificationService,
			Uploads:       services.NewUploadService(store, trekService, readCache, cfg, log.WithName("uploads")),
			Reviews:       places.NewReviewFetcher(cfg, log.WithName("places")),
			Collector:     collector,
		})
		mainApiSrv = &http.Server{
			Addr:    ":" + cfg.ApiPort,
			Handler: router,
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Info("main API listening", "port", cfg.ApiPort)
			if err := mainApiSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				fatal(log, err, "main API ListenAndServe error")
			}
			log.Info("main API server stopped")
		}()
	}

	bgMode := func() {
		if taskClient == nil {
			fatal(log, errors.New("REDIS_ADDR is empty"), "background worker needs Redis")
		}
		sender, err := email.NewFromConfig(cfg, log.WithName("email"))
		if err != nil {
			fatal(log, err, "failed to initialise email sender")
		}
		processor := tasks.NewTaskProcessor(cfg, notificationService, sender, taskClient, log.WithName("tasks"))
		srv, mux := tasks.SetupServer(cfg, processor, log)
		backgroundTaskSrv = srv
		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Info("background task server starting")
			if err := srv.Run(mux); err != nil {
				fatal(log, err, "background task server error")
			}
			log.Info("background task server stopped")
		}()
	}

	switch cfg.RunMode {
	case "api":
		apiMode()
	case "bg":
		bgMode()
	case "all":
		apiMode()
		if taskClient != nil {
			bgMode()
		}
	default:
		fatal(log, fmt.Errorf("invalid run mode %q", cfg.RunMode), "invalid run mode")
	}

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Info("received signal, shutting down", "signal", sig.String())
	case <-shutdownChan:
		log.Info("shutdown requested via service API")
	}
	cancelRoot()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()

	if err := serviceSrv.Shutdown(ctxShutdown); err != nil {
		log.Error(err, "service API server shutdown error")
	}
	if mainApiSrv != nil {
		if err := mainApiSrv.Shutdown(ctxShutdown); err != nil {
			log.Error(err, "main API server shutdown error")
		}
	}
	if backgroundTaskSrv != nil {
		backgroundTaskSrv.Shutdown()
	}

	wg.Wait()
	log.Info("server gracefully stopped")
}
