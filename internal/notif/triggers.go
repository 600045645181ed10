package notif

import (
	"context"
	"fmt"
	"time"

	"alumnihub/internal/common"
)

// Convenience triggers: each is a thin wrapper over Create/CreateBulk for
// one domain event. Callers treat failures as best-effort and log them.

func (s *Service) ConnectionRequested(ctx context.Context, requesterID, receiverID, connectionID uint64) error {
	_, err := s.Create(ctx, common.NotificationEvent{
		UserID:            receiverID,
		SenderID:          &requesterID,
		Type:              common.ConnectionRequestType,
		Title:             "New connection request",
		Message:           "You have a new connection request",
		Priority:          common.PriorityNormal,
		ActionURL:         "/connections/pending",
		ActionLabel:       "View request",
		RelatedEntityID:   &connectionID,
		RelatedEntityType: "connection",
	})
	return err
}

func (s *Service) ConnectionAccepted(ctx context.Context, accepterID, requesterID, connectionID uint64) error {
	_, err := s.Create(ctx, common.NotificationEvent{
		UserID:            requesterID,
		SenderID:          &accepterID,
		Type:              common.ConnectionAcceptedType,
		Title:             "Connection accepted",
		Message:           "Your connection request was accepted",
		Priority:          common.PriorityNormal,
		ActionURL:         "/connections",
		ActionLabel:       "View connections",
		RelatedEntityID:   &connectionID,
		RelatedEntityType: "connection",
	})
	return err
}

func (s *Service) NewMessage(ctx context.Context, senderID, receiverID, messageID uint64, preview string) error {
	_, err := s.Create(ctx, common.NotificationEvent{
		UserID:            receiverID,
		SenderID:          &senderID,
		Type:              common.NewMessageType,
		Title:             "New message",
		Message:           preview,
		Priority:          common.PriorityHigh,
		ActionURL:         fmt.Sprintf("/messages/conversation/%d", senderID),
		ActionLabel:       "Reply",
		RelatedEntityID:   &messageID,
		RelatedEntityType: "message",
	})
	return err
}

func (s *Service) JobPosted(ctx context.Context, userIDs []uint64, jobID uint64, title, company string) (int, error) {
	return s.CreateBulk(ctx, userIDs, common.NotificationEvent{
		Type:              common.JobPostingType,
		Title:             "New job posting",
		Message:           fmt.Sprintf("%s at %s", title, company),
		Priority:          common.PriorityNormal,
		ActionURL:         fmt.Sprintf("/jobs/%d", jobID),
		ActionLabel:       "View job",
		RelatedEntityID:   &jobID,
		RelatedEntityType: "job",
	})
}

func (s *Service) EventReminder(ctx context.Context, userID, eventID uint64, eventTitle string, startsAt time.Time) error {
	expires := startsAt
	_, err := s.Create(ctx, common.NotificationEvent{
		UserID:            userID,
		Type:              common.EventReminderType,
		Title:             "Event reminder",
		Message:           fmt.Sprintf("%s starts at %s", eventTitle, startsAt.Format("15:04 Jan 2")),
		Priority:          common.PriorityHigh,
		ActionURL:         fmt.Sprintf("/events/%d", eventID),
		ActionLabel:       "View event",
		RelatedEntityID:   &eventID,
		RelatedEntityType: "event",
		ExpiresAt:         &expires,
	})
	return err
}

func (s *Service) SystemAnnouncement(ctx context.Context, userIDs []uint64, title, message string) (int, error) {
	return s.CreateBulk(ctx, userIDs, common.NotificationEvent{
		Type:     common.SystemAnnouncementType,
		Title:    title,
		Message:  message,
		Priority: common.PriorityHigh,
	})
}
