//go:build wireinject
// +build wireinject

package wire

import (
	chatrepo "alumnihub/internal/chat/repository"
	"alumnihub/internal/connection"
	"alumnihub/internal/dbmysql"
	"alumnihub/internal/httpapi"
	"alumnihub/internal/jobs"
	"alumnihub/internal/presence"
	"alumnihub/internal/queue"

	"github.com/google/wire"
)

func InitializeAPI() (*APIApplication, error) {
	wire.Build(
		ProvideConfig,
		ProvideDatabaseConnection,
		ProvideRedisClient,
		ProvideQueue,
		dbmysql.NewUserRepository,
		dbmysql.NewNotificationRepository,
		dbmysql.NewPreferenceRepository,
		connection.NewRepository,
		chatrepo.NewMessageRepository,
		ProvideNotificationService,
		ProvideConnectionService,
		ProvideChatService,
		presence.NewTracker,
		ProvideRelay,
		ProvideHub,
		httpapi.NewServer,
		wire.Struct(new(APIApplication), "*"),
	)
	return &APIApplication{}, nil
}

func InitializeWorker() (*WorkerApplication, error) {
	wire.Build(
		ProvideConfig,
		ProvideDatabaseConnection,
		ProvideRedisClient,
		ProvideQueue,
		dbmysql.NewNotificationRepository,
		dbmysql.NewPreferenceRepository,
		ProvideEmailService,
		ProvidePushSender,
		queue.NewDeliveryConsumer,
		ProvideRetentionJob,
		jobs.NewScheduler,
		wire.Struct(new(WorkerApplication), "*"),
	)
	return &WorkerApplication{}, nil
}
