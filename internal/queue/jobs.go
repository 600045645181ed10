package queue

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	TopicEmailDelivery        = "email-delivery"
	TopicNotificationDelivery = "notification-delivery"

	JobTypeEmail = "email"
	JobTypePush  = "push"
)

// Job is the tagged envelope stored on the queue. Type discriminates the
// payload schema; payloads are validated at dequeue time, not trusted.
type Job struct {
	ID          string          `json:"id"`
	Topic       string          `json:"topic"`
	Type        string          `json:"type"`
	Attempts    int             `json:"attempts"`
	MaxAttempts int             `json:"max_attempts"`
	EnqueuedAt  time.Time       `json:"enqueued_at"`
	Payload     json.RawMessage `json:"payload"`

	// raw is the exact list entry this job was dequeued as, kept so the
	// in-flight copy can be removed on ack.
	raw string
}

// EmailJobPayload carries one email delivery. The recipient address is
// resolved at enqueue time so the worker needs no user lookup.
type EmailJobPayload struct {
	NotificationID string `json:"notification_id"`
	To             string `json:"to"`
	Subject        string `json:"subject"`
	Body           string `json:"body"`
}

func (p *EmailJobPayload) Validate() error {
	if p.To == "" {
		return fmt.Errorf("email job missing recipient")
	}
	if p.Subject == "" {
		return fmt.Errorf("email job missing subject")
	}
	return nil
}

type PushJobPayload struct {
	NotificationID string            `json:"notification_id"`
	Token          string            `json:"token"`
	Title          string            `json:"title"`
	Body           string            `json:"body"`
	Data           map[string]string `json:"data,omitempty"`
}

func (p *PushJobPayload) Validate() error {
	if p.Token == "" {
		return fmt.Errorf("push job missing device token")
	}
	if p.Title == "" {
		return fmt.Errorf("push job missing title")
	}
	return nil
}

type validatable interface {
	Validate() error
}

// DecodePayload unmarshals and validates the job payload into v.
func (j *Job) DecodePayload(v validatable) error {
	if err := json.Unmarshal(j.Payload, v); err != nil {
		return fmt.Errorf("malformed %s payload: %w", j.Type, err)
	}
	return v.Validate()
}
