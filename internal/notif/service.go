package notif

import (
	"context"
	"errors"
	"log"
	"time"

	"alumnihub/internal/common"
	"alumnihub/internal/dbmysql"
	"alumnihub/internal/queue"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service is the notification fan-out pipeline: one domain event in, a
// persisted in-app row plus queued channel delivery jobs out. Everything
// here is best-effort relative to the triggering domain action.
type Service struct {
	repo   dbmysql.NotificationRepository
	prefs  dbmysql.PreferenceRepository
	users  dbmysql.UserRepository
	queue  common.JobQueue
	pusher common.RealtimePusher
	now    func() time.Time
}

func NewService(
	repo dbmysql.NotificationRepository,
	prefs dbmysql.PreferenceRepository,
	users dbmysql.UserRepository,
	jobs common.JobQueue,
) *Service {
	return &Service{
		repo:  repo,
		prefs: prefs,
		users: users,
		queue: jobs,
		now:   time.Now,
	}
}

// SetRealtimePusher attaches the gateway after construction; the gateway
// itself depends on this service for unread counts.
func (s *Service) SetRealtimePusher(p common.RealtimePusher) {
	s.pusher = p
}

// Create runs one event through the pipeline. A nil, nil return means the
// recipient has opted out of this type: suppressed, not an error.
func (s *Service) Create(ctx context.Context, event common.NotificationEvent) (*dbmysql.Notification, error) {
	return s.create(ctx, event, false)
}

// CreateBulk fans one event out to many recipients. The broadcast path
// skips the per-type opt-out gate; channel toggles still apply per user.
// Returns how many notifications were created.
func (s *Service) CreateBulk(ctx context.Context, userIDs []uint64, event common.NotificationEvent) (int, error) {
	created := 0
	for _, userID := range userIDs {
		ev := event
		ev.UserID = userID
		if _, err := s.create(ctx, ev, true); err != nil {
			log.Printf("bulk notification for user %d failed: %v", userID, err)
			continue
		}
		created++
	}
	return created, nil
}

func (s *Service) create(ctx context.Context, event common.NotificationEvent, skipTypeGate bool) (*dbmysql.Notification, error) {
	pref, err := s.prefs.GetOrCreate(ctx, event.UserID)
	if err != nil {
		return nil, common.ErrInternal("failed to load notification preferences", err)
	}

	if !skipTypeGate && !pref.TypeEnabled(event.Type) {
		return nil, nil
	}

	channel := event.Channel
	if channel == "" {
		channel = common.ChannelInApp
	}
	priority := event.Priority
	if priority == "" {
		priority = common.PriorityNormal
	}

	notification := &dbmysql.Notification{
		ID:                uuid.NewString(),
		UserID:            event.UserID,
		SenderID:          event.SenderID,
		Type:              string(event.Type),
		Title:             event.Title,
		Message:           event.Message,
		Channel:           string(channel),
		Priority:          string(priority),
		ActionURL:         event.ActionURL,
		ActionLabel:       event.ActionLabel,
		RelatedEntityID:   event.RelatedEntityID,
		RelatedEntityType: event.RelatedEntityType,
		Metadata:          event.Metadata,
		ExpiresAt:         event.ExpiresAt,
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		return nil, err
	}

	s.pushRealtime(ctx, notification)
	s.enqueueChannelDelivery(ctx, pref, notification, priority)

	return notification, nil
}

// pushRealtime surfaces the fresh notification on the recipient's live
// sessions, if any.
func (s *Service) pushRealtime(ctx context.Context, n *dbmysql.Notification) {
	if s.pusher == nil {
		return
	}
	s.pusher.PushToUser(n.UserID, "notification", n)
	if count, err := s.repo.UnreadCount(ctx, n.UserID); err == nil {
		s.pusher.PushToUser(n.UserID, "unreadCount", map[string]int64{"count": count})
	}
}

// enqueueChannelDelivery evaluates email and push delivery for one persisted
// notification. The in-app row is already written; quiet hours only defer
// the channel jobs (urgent is exempt). Enqueue failures are logged, never
// propagated: channel delivery is subordinate to the in-app record.
func (s *Service) enqueueChannelDelivery(
	ctx context.Context,
	pref *dbmysql.NotificationPreference,
	n *dbmysql.Notification,
	priority common.NotificationPriority,
) {
	var delay time.Duration
	now := s.now()
	if pref.QuietHoursEnabled && priority != common.PriorityUrgent &&
		inQuietHours(now, pref.QuietHoursStart, pref.QuietHoursEnd) {
		delay = untilQuietEnd(now, pref.QuietHoursEnd)
	}

	if pref.EmailEnabled && priority != common.PriorityLow {
		user, err := s.users.ByID(ctx, n.UserID)
		if err != nil {
			log.Printf("email delivery skipped, cannot resolve user %d: %v", n.UserID, err)
		} else {
			payload := queue.EmailJobPayload{
				NotificationID: n.ID,
				To:             user.Email,
				Subject:        n.Title,
				Body:           n.Message,
			}
			if err := s.queue.EnqueueIn(ctx, queue.TopicEmailDelivery, queue.JobTypeEmail, payload, delay); err != nil {
				log.Printf("failed to enqueue email job for notification %s: %v", n.ID, err)
			}
		}
	}

	if pref.PushEnabled && pref.PushToken != "" {
		payload := queue.PushJobPayload{
			NotificationID: n.ID,
			Token:          pref.PushToken,
			Title:          n.Title,
			Body:           n.Message,
			Data: map[string]string{
				"type":            n.Type,
				"notification_id": n.ID,
			},
		}
		if err := s.queue.EnqueueIn(ctx, queue.TopicNotificationDelivery, queue.JobTypePush, payload, delay); err != nil {
			log.Printf("failed to enqueue push job for notification %s: %v", n.ID, err)
		}
	}
}

// --- read side, consumed by the HTTP surface and gateway ---

func (s *Service) List(ctx context.Context, userID uint64, page, limit int) ([]*dbmysql.Notification, common.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	notifications, total, err := s.repo.ByUserID(ctx, userID, limit, (page-1)*limit)
	if err != nil {
		return nil, common.Pagination{}, err
	}
	return notifications, common.NewPagination(page, limit, total), nil
}

func (s *Service) UnreadCount(ctx context.Context, userID uint64) (int64, error) {
	return s.repo.UnreadCount(ctx, userID)
}

// MarkRead flips one notification read. A missing or foreign notification
// is NotFound; a storage failure stays an internal error so transient
// outages do not masquerade as 404s.
func (s *Service) MarkRead(ctx context.Context, id string, userID uint64) error {
	if err := s.repo.MarkAsRead(ctx, id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.ErrNotFound("notification not found")
		}
		return common.ErrInternal("failed to mark notification as read", err)
	}
	if s.pusher != nil {
		if count, err := s.repo.UnreadCount(ctx, userID); err == nil {
			s.pusher.PushToUser(userID, "unreadCount", map[string]int64{"count": count})
		}
	}
	return nil
}

func (s *Service) MarkAllRead(ctx context.Context, userID uint64) error {
	if err := s.repo.MarkAllAsRead(ctx, userID); err != nil {
		return err
	}
	if s.pusher != nil {
		s.pusher.PushToUser(userID, "unreadCount", map[string]int64{"count": 0})
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, id string, userID uint64) error {
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.ErrNotFound("notification not found")
		}
		return common.ErrInternal("failed to delete notification", err)
	}
	return nil
}

func (s *Service) GetPreferences(ctx context.Context, userID uint64) (*dbmysql.NotificationPreference, error) {
	return s.prefs.GetOrCreate(ctx, userID)
}

func (s *Service) UpdatePreferences(ctx context.Context, pref *dbmysql.NotificationPreference) error {
	return s.prefs.Update(ctx, pref)
}

func (s *Service) RegisterPushToken(ctx context.Context, userID uint64, token, platform string) error {
	if token == "" {
		return common.ErrInvalidOperation("push token is required")
	}
	return s.prefs.SetPushToken(ctx, userID, token, platform)
}
