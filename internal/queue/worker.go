package queue

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"alumnihub/internal/common"
	"alumnihub/internal/dbmysql"
)

const (
	dequeueTimeout  = 5 * time.Second
	promoteInterval = time.Second
)

// Handler processes one job. Delivery is at-least-once, so handlers must
// tolerate replays.
type Handler func(ctx context.Context, job *Job) error

// Consumer runs one goroutine per subscribed topic, promoting due delayed
// jobs and dispatching waiting ones to the handler registered for the
// job's type tag.
type Consumer struct {
	queue    *RedisQueue
	handlers map[string]Handler
	wg       sync.WaitGroup
}

func NewConsumer(queue *RedisQueue) *Consumer {
	return &Consumer{
		queue:    queue,
		handlers: make(map[string]Handler),
	}
}

func (c *Consumer) Handle(jobType string, h Handler) {
	c.handlers[jobType] = h
}

func (c *Consumer) Run(ctx context.Context, topics ...string) {
	for _, topic := range topics {
		c.wg.Add(1)
		go c.consume(ctx, topic)
	}
}

func (c *Consumer) Wait() {
	c.wg.Wait()
}

func (c *Consumer) consume(ctx context.Context, topic string) {
	defer c.wg.Done()

	// jobs stranded in flight by a previous crash go back to waiting
	if recovered, err := c.queue.Recover(ctx, topic); err != nil {
		log.Printf("failed to recover in-flight jobs on %s: %v", topic, err)
	} else if recovered > 0 {
		log.Printf("requeued %d in-flight jobs on %s", recovered, topic)
	}

	promote := time.NewTicker(promoteInterval)
	defer promote.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("queue consumer for %s stopped", topic)
			return
		case <-promote.C:
			if err := c.queue.PromoteDue(ctx, topic); err != nil && ctx.Err() == nil {
				log.Printf("failed to promote delayed jobs on %s: %v", topic, err)
			}
		default:
		}

		job, err := c.queue.Dequeue(ctx, topic, dequeueTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("dequeue error on %s: %v", topic, err)
			time.Sleep(time.Second)
			continue
		}
		if job == nil {
			continue
		}
		c.process(ctx, job)
	}
}

func (c *Consumer) process(ctx context.Context, job *Job) {
	handler, ok := c.handlers[job.Type]
	if !ok {
		log.Printf("no handler for job type %s on %s, parking as failed", job.Type, job.Topic)
		job.Attempts = job.MaxAttempts
		if _, err := c.queue.Retry(ctx, job); err != nil {
			log.Printf("failed to park job %s: %v", job.ID, err)
		}
		return
	}

	if err := handler(ctx, job); err != nil {
		retrying, retryErr := c.queue.Retry(ctx, job)
		if retryErr != nil {
			log.Printf("failed to requeue job %s: %v", job.ID, retryErr)
			return
		}
		if retrying {
			log.Printf("job %s (%s) failed, retry %d/%d: %v",
				job.ID, job.Type, job.Attempts, job.MaxAttempts, err)
		} else {
			log.Printf("job %s (%s) exhausted retries, parked as failed: %v",
				job.ID, job.Type, err)
		}
		return
	}

	if err := c.queue.Complete(ctx, job); err != nil {
		log.Printf("failed to mark job %s completed: %v", job.ID, err)
	}
}

// NewDeliveryConsumer wires the email and push delivery handlers used by
// the worker process.
func NewDeliveryConsumer(
	queue *RedisQueue,
	email common.EmailService,
	push common.PushSender,
	prefs dbmysql.PreferenceRepository,
) *Consumer {
	c := NewConsumer(queue)

	c.Handle(JobTypeEmail, func(ctx context.Context, job *Job) error {
		var payload EmailJobPayload
		if err := job.DecodePayload(&payload); err != nil {
			return err
		}
		return email.SendEmail(payload.To, payload.Subject, payload.Body)
	})

	c.Handle(JobTypePush, func(ctx context.Context, job *Job) error {
		var payload PushJobPayload
		if err := job.DecodePayload(&payload); err != nil {
			return err
		}
		err := push.Send(ctx, payload.Token, payload.Title, payload.Body, payload.Data)
		if err != nil && isInvalidTokenErr(err) {
			// dead token: drop it and stop retrying the job
			if clearErr := prefs.ClearPushToken(ctx, payload.Token); clearErr != nil {
				log.Printf("failed to clear invalid push token: %v", clearErr)
			}
			return nil
		}
		return err
	})

	return c
}

func isInvalidTokenErr(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "registration-token-not-registered") ||
		strings.Contains(msg, "invalid-argument")
}
