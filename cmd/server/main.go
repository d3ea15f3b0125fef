package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"influencer-dashboard/config"
	"influencer-dashboard/internal/api"
	"influencer-dashboard/internal/broker"
	"influencer-dashboard/internal/loader"
	"influencer-dashboard/internal/redisclient"
	"influencer-dashboard/internal/service"
	"influencer-dashboard/internal/store"
	"influencer-dashboard/internal/util"
	"influencer-dashboard/internal/worker"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := util.InitLogger(cfg.Server.Env, cfg.Server.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting influencer dashboard")

	tp, err := util.InitTracer(util.ServiceName, cfg.Observ.JaegerEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	if tp != nil {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(ctx); err != nil {
				log.Printf("Error shutting down tracer: %v", err)
			}
		}()
	}

	ctx := context.Background()

	var db *store.Store
	if cfg.Database.URL != "" {
		db, err = store.NewStore(cfg.Database.URL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()
		log.Println("Database connected")
	}

	source, err := newDatasetSource(ctx, cfg, db)
	if err != nil {
		log.Fatalf("Failed to configure dataset source: %v", err)
	}
	datasets := loader.NewCache(source)
	if _, err := datasets.Dataset(ctx); err != nil {
		log.Fatalf("Failed to load dataset: %v", err)
	}

	var selections redisclient.SelectionStore = redisclient.NewMemoryStore(cfg.Redis.SelectionTTL)
	if cfg.Redis.Addr != "" {
		redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.SelectionTTL)
		if err != nil {
			logger.Warn("Redis unavailable, keeping selections in memory", zap.Error(err))
		} else {
			defer redisClient.Close()
			selections = redisClient
			log.Println("Redis connected")
		}
	}

	var eventPublisher *broker.EventPublisher
	if cfg.KafkaEnabled() {
		producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicReportEvents)
		defer producer.Close()
		eventPublisher = broker.NewEventPublisher(producer)
		log.Println("Kafka producer initialized")
	}

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	var auditWorker *worker.AuditWorker
	if cfg.Kafka.AuditWorkerEnabled && db != nil {
		consumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicReportEvents, cfg.Kafka.ConsumerGroup)
		auditWorker = worker.NewAuditWorker(consumer, db)
		go func() {
			if err := auditWorker.Start(workerCtx); err != nil && err != context.Canceled {
				log.Printf("Audit worker error: %v", err)
			}
		}()
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	reportService := service.NewReportService(datasets, cfg.Dashboard.PreviewRows)

	var history api.ExportHistory
	if db != nil {
		history = db
	}

	router := gin.New()
	handler := api.NewHandler(reportService, selections, eventPublisher, datasets, history)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	workerCancel()
	if auditWorker != nil {
		auditWorker.Stop()
	}

	log.Println("Server exited")
}

func newDatasetSource(ctx context.Context, cfg *config.Config, db *store.Store) (loader.Source, error) {
	switch cfg.Dataset.Source {
	case config.SourceS3:
		client, err := loader.NewS3Client(ctx, cfg.Dataset.AWSRegion)
		if err != nil {
			return nil, err
		}
		return loader.NewS3Source(client, cfg.Dataset.S3Bucket, cfg.Dataset.S3Prefix), nil
	case config.SourcePostgres:
		if db == nil {
			return nil, fmt.Errorf("postgres dataset source requires DATABASE_URL")
		}
		return loader.NewStoreSource(db), nil
	default:
		return loader.NewDirSource(cfg.Dataset.Dir), nil
	}
}
