package bootstrap

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"glamvoice/internal/ai"
	"glamvoice/internal/config"
	"glamvoice/internal/model"
	milvusClient "glamvoice/internal/platform/milvus"
	mysqlClient "glamvoice/internal/platform/mysql"
	rabbitmqClient "glamvoice/internal/platform/rabbitmq"
	redisClient "glamvoice/internal/platform/redis"
	"glamvoice/internal/repository"
	"glamvoice/internal/worker"
)

// App holds every shared resource of the running service.
type App struct {
	Config      *config.Config
	MySQL       *gorm.DB
	Redis       *redis.Client
	MQConn      *amqp.Connection
	Milvus      *milvusClient.Client
	AIClient    *ai.OpenAICompatibleClient
	UsageWorker *worker.UsagePersistWorker

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	mysqlDB, err := mysqlClient.New(ctx, cfg.MySQLDSN())
	if err != nil {
		return nil, err
	}
	if err := mysqlDB.AutoMigrate(&model.Document{}, &model.ChatTurn{}, &model.UsageRecord{}); err != nil {
		return nil, fmt.Errorf("auto migrate tables failed: %w", err)
	}

	redisCli, err := redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, err
	}

	mqConn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL)
	if err != nil {
		return nil, err
	}

	milvusCli, err := milvusClient.New(ctx, milvusClient.Options{
		Address:  cfg.Milvus.Address,
		Username: cfg.Milvus.Username,
		Password: cfg.Milvus.Password,
		Database: cfg.Milvus.Database,
		Timeout:  time.Duration(cfg.Milvus.TimeoutSeconds) * time.Second,
	})
	if err != nil {
		return nil, err
	}

	// The collection dimension is pinned by the configured embedding model.
	// Mismatch against an existing collection aborts startup.
	dim, ok := config.EmbeddingDimension(cfg.LLM.EmbeddingModel)
	if !ok {
		return nil, fmt.Errorf("embedding model %q has no known dimension", cfg.LLM.EmbeddingModel)
	}
	if err := milvusCli.EnsureCollection(ctx, cfg.Milvus.Collection, dim); err != nil {
		return nil, err
	}

	usageRepo := repository.NewUsageRecordRepository(mysqlDB)
	usageWorker := worker.NewUsagePersistWorker(mqConn, usageRepo, cfg.RabbitMQ.UsageAuditQueue)
	if err := usageWorker.Start(ctx); err != nil {
		return nil, fmt.Errorf("start usage worker failed: %w", err)
	}

	return &App{
		Config:      cfg,
		MySQL:       mysqlDB,
		Redis:       redisCli,
		MQConn:      mqConn,
		Milvus:      milvusCli,
		AIClient:    ai.NewOpenAICompatibleClient(),
		UsageWorker: usageWorker,
		StartedAt:   time.Now(),
	}, nil
}

func (a *App) Close() error {
	var closeErr error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.UsageWorker != nil {
		a.UsageWorker.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.Milvus != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.Milvus.Close(ctx); err != nil {
			closeErr = err
		}
		cancel()
	}
	if a.MySQL != nil {
		sqlDB, err := a.MySQL.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	return closeErr
}
