package common

import (
	"time"
)

type NotificationType string

const (
	ConnectionRequestType  NotificationType = "connection_request"
	ConnectionAcceptedType NotificationType = "connection_accepted"
	NewMessageType         NotificationType = "new_message"
	JobPostingType         NotificationType = "job_posting"
	EventReminderType      NotificationType = "event_reminder"
	SystemAnnouncementType NotificationType = "system_announcement"
)

// AllNotificationTypes is the single source of truth for the set of
// notification kinds. Preference maps are default-filled from it.
func AllNotificationTypes() []NotificationType {
	return []NotificationType{
		ConnectionRequestType,
		ConnectionAcceptedType,
		NewMessageType,
		JobPostingType,
		EventReminderType,
		SystemAnnouncementType,
	}
}

type NotificationChannel string

const (
	ChannelInApp NotificationChannel = "in_app"
	ChannelEmail NotificationChannel = "email"
	ChannelPush  NotificationChannel = "push"
)

type NotificationPriority string

const (
	PriorityLow    NotificationPriority = "low"
	PriorityNormal NotificationPriority = "normal"
	PriorityHigh   NotificationPriority = "high"
	PriorityUrgent NotificationPriority = "urgent"
)

type NotificationMetadata map[string]interface{}

// NotificationEvent is the domain event handed to the fan-out pipeline.
type NotificationEvent struct {
	UserID            uint64
	SenderID          *uint64
	Type              NotificationType
	Title             string
	Message           string
	Channel           NotificationChannel
	Priority          NotificationPriority
	ActionURL         string
	ActionLabel       string
	RelatedEntityID   *uint64
	RelatedEntityType string
	Metadata          NotificationMetadata
	ExpiresAt         *time.Time
}

// Pagination is the page metadata returned alongside every paginated read.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

func NewPagination(page, limit int, total int64) Pagination {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	pages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}
