package common

import (
	"context"
	"time"
)

// EmailService sends a single email. Implemented over SMTP in production,
// mocked in tests.
type EmailService interface {
	SendEmail(to, subject, body string) error
}

// PushSender delivers one push message to one device token.
type PushSender interface {
	Send(ctx context.Context, token, title, body string, data map[string]string) error
}

// JobQueue is the durable queue the fan-out pipeline enqueues delivery work
// onto. Delivery is at-least-once; consumers must be idempotent.
type JobQueue interface {
	Enqueue(ctx context.Context, topic, jobType string, payload interface{}) error
	EnqueueIn(ctx context.Context, topic, jobType string, payload interface{}, delay time.Duration) error
}

// RealtimePusher pushes a server-emitted event to every live session of one
// user. The gateway implements it; the notification pipeline uses it so
// in-app notifications reach connected clients without a page reload.
type RealtimePusher interface {
	PushToUser(userID uint64, event string, data interface{})
}
