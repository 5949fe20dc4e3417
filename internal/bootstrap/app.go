package bootstrap

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"pulsechat/internal/app"
	"pulsechat/internal/cache"
	"pulsechat/internal/config"
	"pulsechat/internal/model"
	databaseClient "pulsechat/internal/platform/database"
	rabbitmqClient "pulsechat/internal/platform/rabbitmq"
	redisClient "pulsechat/internal/platform/redis"
	"pulsechat/internal/repository"
	"pulsechat/internal/store"
	"pulsechat/internal/worker"
)

type App struct {
	Config        *config.Config
	DB            *gorm.DB
	Redis         *redis.Client
	MQConn        *amqp.Connection
	ArchiveWorker *worker.MessageArchiveWorker

	ChatService *app.ChatService
	StartedAt   time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}
	return NewWithConfig(ctx, cfg)
}

func NewWithConfig(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{
		Config:    cfg,
		StartedAt: time.Now(),
	}

	retention := time.Duration(cfg.Storage.RetentionDays) * 24 * time.Hour

	var messageStore store.MessageStore
	var users store.UserRegistry
	switch cfg.Storage.Driver {
	case "memory":
		messageStore = store.NewMemoryStore(retention)
		users = store.NewMemoryUserRegistry()
	case "mysql", "postgres":
		db, err := databaseClient.Open(ctx, cfg.Storage.Driver, cfg.DatabaseDSN())
		if err != nil {
			return nil, err
		}
		if err := db.AutoMigrate(&model.User{}, &model.Message{}, &model.MessageArchive{}); err != nil {
			return nil, fmt.Errorf("auto migrate tables failed: %w", err)
		}
		a.DB = db
		messageStore = store.NewDatabaseStore(repository.NewMessageRepository(db), retention)
		users = repository.NewUserRepository(db)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	var feedCache app.FeedCache
	if cfg.Redis.Enabled {
		redisCli, err := redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, err
		}
		a.Redis = redisCli
		feedCache = cache.NewFeedCache(
			redisCli,
			time.Duration(cfg.Redis.FeedTTLSeconds)*time.Second,
			time.Duration(cfg.Redis.FeedDirtyTTLSeconds)*time.Second,
		)
	}

	var publisher app.EventPublisher
	if cfg.RabbitMQ.Enabled {
		mqConn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL)
		if err != nil {
			return nil, err
		}
		a.MQConn = mqConn
		publisher = rabbitmqClient.NewEventPublisher(mqConn, cfg.RabbitMQ.MessageCreatedQueue)

		// The archive worker needs the relational engine; with the memory
		// driver the events stay on the queue for external consumers.
		if a.DB != nil {
			archiveWorker := worker.NewMessageArchiveWorker(
				mqConn,
				repository.NewArchiveRepository(a.DB),
				cfg.RabbitMQ.MessageCreatedQueue,
			)
			if err := archiveWorker.Start(ctx); err != nil {
				return nil, fmt.Errorf("start archive worker failed: %w", err)
			}
			a.ArchiveWorker = archiveWorker
		}
	}

	a.ChatService = app.NewChatService(messageStore, users, feedCache, publisher)
	return a, nil
}

func (a *App) Close() error {
	var closeErr error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.ArchiveWorker != nil {
		a.ArchiveWorker.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.DB != nil {
		sqlDB, err := a.DB.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	return closeErr
}
