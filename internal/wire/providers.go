package wire

import (
	"fmt"
	"log"
	"time"

	chatrepo "alumnihub/internal/chat/repository"
	chatservice "alumnihub/internal/chat/service"
	"alumnihub/internal/common"
	"alumnihub/internal/config"
	"alumnihub/internal/connection"
	"alumnihub/internal/dbmysql"
	"alumnihub/internal/email"
	"alumnihub/internal/gateway"
	"alumnihub/internal/httpapi"
	"alumnihub/internal/jobs"
	"alumnihub/internal/notif"
	"alumnihub/internal/presence"
	"alumnihub/internal/push"
	"alumnihub/internal/queue"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// APIApplication holds everything the HTTP/WebSocket process needs.
type APIApplication struct {
	Config *config.Config
	DB     *gorm.DB
	Redis  *redis.Client
	Hub    *gateway.Hub
	Server *httpapi.Server
}

// WorkerApplication holds everything the delivery worker process needs.
type WorkerApplication struct {
	Config    *config.Config
	DB        *gorm.DB
	Redis     *redis.Client
	Queue     *queue.RedisQueue
	Consumer  *queue.Consumer
	Scheduler *jobs.Scheduler
}

func ProvideConfig() *config.Config {
	return config.Load()
}

func ProvideDatabaseConnection(cfg *config.Config) (*gorm.DB, error) {
	log.Printf("connecting to database %s:%s/%s",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DatabaseName)

	db, err := dbmysql.NewMySQL(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := dbmysql.AutoMigrate(db); err != nil {
		log.Printf("migration warning: %v", err)
	}
	return db, nil
}

func ProvideRedisClient(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
}

func ProvideQueue(cfg *config.Config, rdb *redis.Client) *queue.RedisQueue {
	return queue.NewRedisQueue(rdb, time.Duration(cfg.Notification.RetryDelaySeconds)*time.Second)
}

func ProvideEmailService(cfg *config.Config) common.EmailService {
	return email.NewService(cfg.Email)
}

func ProvidePushSender(cfg *config.Config) common.PushSender {
	return push.NewSender(cfg.Firebase)
}

func ProvideNotificationService(
	repo dbmysql.NotificationRepository,
	prefs dbmysql.PreferenceRepository,
	users dbmysql.UserRepository,
	q *queue.RedisQueue,
) *notif.Service {
	return notif.NewService(repo, prefs, users, q)
}

func ProvideConnectionService(repo connection.Repository, notifs *notif.Service) connection.Service {
	return connection.NewService(repo, notifs)
}

func ProvideChatService(
	repo chatrepo.MessageRepository,
	users dbmysql.UserRepository,
	connections connection.Service,
	notifs *notif.Service,
) chatservice.ChatService {
	return chatservice.NewChatService(repo, users, connections, notifs)
}

// ProvideHub builds the gateway and closes the loop back into the
// notification service, which pushes realtime frames through the hub.
func ProvideHub(
	chat chatservice.ChatService,
	notifs *notif.Service,
	tracker *presence.Tracker,
	relay *gateway.Relay,
) *gateway.Hub {
	hub := gateway.NewHub(chat, notifs, tracker, relay)
	notifs.SetRealtimePusher(hub)
	return hub
}

func ProvideRelay(rdb *redis.Client) *gateway.Relay {
	return gateway.NewRelay(rdb)
}

func ProvideRetentionJob(repo dbmysql.NotificationRepository, q *queue.RedisQueue, cfg *config.Config) *jobs.RetentionJob {
	return jobs.NewRetentionJob(repo, q,
		time.Duration(cfg.Notification.CompletedRetentionHr)*time.Hour,
		time.Duration(cfg.Notification.FailedRetentionHr)*time.Hour,
	)
}
