package jobs

import (
	"context"
	"log"
	"time"

	"alumnihub/internal/dbmysql"
	"alumnihub/internal/queue"

	"github.com/robfig/cron/v3"
)

// RetentionJob prunes expired and stale notification rows and trims the
// bookkeeping sets of the delivery queue.
type RetentionJob struct {
	notifications dbmysql.NotificationRepository
	queue         *queue.RedisQueue

	readRetention   time.Duration
	completedWindow time.Duration
	failedWindow    time.Duration
}

func NewRetentionJob(notifications dbmysql.NotificationRepository, q *queue.RedisQueue, completedWindow, failedWindow time.Duration) *RetentionJob {
	return &RetentionJob{
		notifications:   notifications,
		queue:           q,
		readRetention:   30 * 24 * time.Hour,
		completedWindow: completedWindow,
		failedWindow:    failedWindow,
	}
}

// Run executes one retention sweep. It keeps going past individual failures
// so one broken store does not starve the others.
func (j *RetentionJob) Run(ctx context.Context) {
	now := time.Now()

	removed, err := j.notifications.DeleteExpired(ctx, now)
	if err != nil {
		log.Printf("retention: delete expired notifications: %v", err)
	} else if removed > 0 {
		log.Printf("retention: removed %d expired notifications", removed)
	}

	removed, err = j.notifications.DeleteReadBefore(ctx, now.Add(-j.readRetention))
	if err != nil {
		log.Printf("retention: delete old read notifications: %v", err)
	} else if removed > 0 {
		log.Printf("retention: removed %d read notifications", removed)
	}

	for _, topic := range []string{queue.TopicEmailDelivery, queue.TopicNotificationDelivery} {
		if err := j.queue.Trim(ctx, topic, j.completedWindow, j.failedWindow); err != nil {
			log.Printf("retention: trim queue %s: %v", topic, err)
		}
	}
}

// Scheduler owns the cron runner for the worker process.
type Scheduler struct {
	cron *cron.Cron
}

func NewScheduler(retention *RetentionJob) (*Scheduler, error) {
	c := cron.New()

	_, err := c.AddFunc("@hourly", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		retention.Run(ctx)
	})
	if err != nil {
		return nil, err
	}

	return &Scheduler{cron: c}, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	log.Println("retention scheduler started")
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
