package push

import (
	"context"
	"fmt"
	"log"

	"alumnihub/internal/common"
	"alumnihub/internal/config"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// FCMSender delivers push notifications through Firebase Cloud Messaging.
type FCMSender struct {
	client *messaging.Client
}

// NewSender builds the FCM sender, or a log-only stand-in when Firebase is
// not configured. Initialization failures degrade instead of crashing: push
// is a best-effort channel.
func NewSender(cfg config.FirebaseConfig) common.PushSender {
	if !cfg.Enabled || cfg.CredentialsFilePath == "" {
		log.Println("push disabled, using log-only sender")
		return &logSender{}
	}

	app, err := firebase.NewApp(context.Background(), &firebase.Config{
		ProjectID: cfg.ProjectID,
	}, option.WithCredentialsFile(cfg.CredentialsFilePath))
	if err != nil {
		log.Printf("firebase initialization failed, push disabled: %v", err)
		return &logSender{}
	}

	client, err := app.Messaging(context.Background())
	if err != nil {
		log.Printf("failed to create FCM client, push disabled: %v", err)
		return &logSender{}
	}

	return &FCMSender{client: client}
}

func (s *FCMSender) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	msg := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}

	if _, err := s.client.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send push: %w", err)
	}
	return nil
}

type logSender struct{}

func (l *logSender) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	log.Printf("push (disabled) - token: %.12s..., title: %s", token, title)
	return nil
}
