package main

import (
	"context"
	"time"

	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/internal/config"
	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/pkg/fsx"
	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/pkg/fsx/fsxlocal"
	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/pkg/fsx/fsxs3"
	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/pkg/logx"
	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/recruitment/application"
	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/recruitment/application/applicationapi"
	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/recruitment/application/applicationinfra"
	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/recruitment/application/applicationsrv"
	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/recruitment/notification"
	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/recruitment/notification/notificationinfra"
	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/recruitment/saga"
	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/recruitment/saga/sagainfra"
	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/recruitment/saga/sagasrv"
	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/recruitment/saga/worker"
	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/recruitment/upload/uploadsrv"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config

	// Infrastructure
	DB         *sqlx.DB
	Redis      *redis.Client
	FileSystem fsx.FileSystem
	S3Client   *s3.Client
	closers    []func() error

	// Adapters
	ApplicationRepo application.Repository
	Notifier        notification.Notifier
	SagaQueue       saga.Queue

	// Services
	FileService        *uploadsrv.Service
	SagaOrchestrator   *sagasrv.Orchestrator
	ApplicationService *applicationsrv.ApplicationService

	// Workers and handlers
	SagaWorker          *worker.SagaWorker
	ApplicationHandlers *applicationapi.Handlers
}

// NewContainer initializes the dependency injection container
func NewContainer(cfg *config.Config) *Container {
	c := &Container{Config: cfg}
	c.initInfrastructure()
	c.initServices()
	return c
}

func (c *Container) initInfrastructure() {
	cfg := c.Config

	// 1. Database Connection
	if cfg.Database.Enabled() {
		db, err := sqlx.Connect("postgres", cfg.Database.DSN())
		if err != nil {
			logx.Fatalf("Failed to connect to database: %v", err)
		}
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.Database.MaxLifetime)
		c.DB = db
		c.closers = append(c.closers, db.Close)
		c.ApplicationRepo = applicationinfra.NewPostgresApplicationRepository(db)
	} else {
		logx.Warn("DB_HOST is not set, keeping applications in memory")
		c.ApplicationRepo = applicationinfra.NewMemoryApplicationRepository()
	}

	// 2. Saga Queue
	switch cfg.Saga.Queue {
	case config.QueueRedis:
		c.Redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if _, err := c.Redis.Ping(context.Background()).Result(); err != nil {
			logx.Warnf("Failed to connect to Redis: %v", err)
		}
		c.closers = append(c.closers, c.Redis.Close)
		c.SagaQueue = sagainfra.NewRedisQueue(c.Redis, cfg.Saga.QueueName)
	default:
		c.SagaQueue = sagainfra.NewChannelQueue(cfg.Saga.BufferSize)
	}

	// 3. File Storage
	switch cfg.Storage.Backend {
	case config.StorageS3:
		awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(), awsconfig.WithRegion(cfg.AWS.Region))
		if err != nil {
			logx.Fatalf("unable to load SDK config, %v", err)
		}
		c.S3Client = s3.NewFromConfig(awsCfg)
		c.FileSystem = fsxs3.NewS3FileSystem(c.S3Client, cfg.AWS.Bucket, cfg.AWS.Prefix)
	default:
		local, err := fsxlocal.NewLocalFileSystem(cfg.Storage.UploadDir)
		if err != nil {
			logx.Fatalf("Failed to open upload directory %s: %v", cfg.Storage.UploadDir, err)
		}
		c.closers = append(c.closers, local.Close)
		c.FileSystem = local
	}

	// 4. Notifications
	switch cfg.Notification.Provider {
	case config.NotifierHTTP:
		c.Notifier = notificationinfra.NewHTTPNotifier(cfg.Notification.ServiceURL, cfg.Notification.Timeout)
	case config.NotifierSendGrid:
		c.Notifier = notificationinfra.NewSendGridNotifier(
			cfg.Notification.SendGridAPIKey,
			cfg.Notification.FromEmail,
			cfg.Notification.FromName,
		)
	default:
		c.Notifier = notificationinfra.NewLogNotifier()
	}
}

func (c *Container) initServices() {
	cfg := c.Config

	c.FileService = uploadsrv.NewService(c.FileSystem, cfg.UploadConfig())

	c.SagaOrchestrator = sagasrv.NewOrchestrator(c.ApplicationRepo, c.Notifier, c.FileService)
	c.SagaWorker = worker.NewSagaWorker(c.SagaOrchestrator, c.SagaQueue, cfg.Saga.Workers, cfg.Saga.Timeout)

	c.ApplicationService = applicationsrv.NewApplicationService(
		c.ApplicationRepo,
		sagainfra.NewQueueTrigger(c.SagaQueue),
		c.Notifier,
		applicationsrv.WithNotifyTimeout(cfg.Notification.Timeout),
		applicationsrv.WithSagaTimeout(cfg.Saga.Timeout),
	)

	c.ApplicationHandlers = applicationapi.NewHandlers(c.ApplicationService, c.FileService)
}

// Health reports reachability of the configured backing services
func (c *Container) Health(ctx context.Context) map[string]any {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	status := map[string]any{
		"status":  "ok",
		"storage": c.Config.Storage.Backend,
	}
	if c.DB != nil {
		status["db"] = c.DB.PingContext(ctx) == nil
	}
	if c.Redis != nil {
		status["redis"] = c.Redis.Ping(ctx).Err() == nil
	}
	if size, err := c.SagaQueue.Size(ctx); err == nil {
		status["saga_queue"] = size
	}
	return status
}

// Close releases infrastructure in reverse order of acquisition
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			logx.Warnf("Failed to close resource: %v", err)
		}
	}
}
