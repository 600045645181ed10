package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultMaxAttempts = 3

// RedisQueue is a durable at-least-once job queue. Waiting jobs live on a
// list, in-flight jobs on a processing list until acked, delayed/retrying
// jobs on a ready-time sorted set, and finished jobs are retained on
// completed/failed sorted sets for inspection until trimmed.
type RedisQueue struct {
	rdb          *redis.Client
	retryBackoff time.Duration
}

func NewRedisQueue(rdb *redis.Client, retryBackoff time.Duration) *RedisQueue {
	if retryBackoff <= 0 {
		retryBackoff = 5 * time.Second
	}
	return &RedisQueue{rdb: rdb, retryBackoff: retryBackoff}
}

func waitingKey(topic string) string    { return "queue:" + topic + ":waiting" }
func processingKey(topic string) string { return "queue:" + topic + ":processing" }
func delayedKey(topic string) string    { return "queue:" + topic + ":delayed" }
func completedKey(topic string) string  { return "queue:" + topic + ":completed" }
func failedKey(topic string) string     { return "queue:" + topic + ":failed" }

func (q *RedisQueue) Enqueue(ctx context.Context, topic, jobType string, payload interface{}) error {
	return q.EnqueueIn(ctx, topic, jobType, payload, 0)
}

func (q *RedisQueue) EnqueueIn(ctx context.Context, topic, jobType string, payload interface{}, delay time.Duration) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal job payload: %w", err)
	}
	job := &Job{
		ID:          uuid.NewString(),
		Topic:       topic,
		Type:        jobType,
		MaxAttempts: defaultMaxAttempts,
		EnqueuedAt:  time.Now(),
		Payload:     raw,
	}
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	if delay > 0 {
		score := float64(time.Now().Add(delay).Unix())
		return q.rdb.ZAdd(ctx, delayedKey(topic), redis.Z{Score: score, Member: data}).Err()
	}
	return q.rdb.LPush(ctx, waitingKey(topic), data).Err()
}

// Dequeue blocks up to timeout for the next waiting job. Returns nil when
// the timeout elapses with nothing to do. The job stays on the processing
// list until Complete or Retry acks it, so a worker crash mid-handler
// leaves it recoverable instead of lost.
func (q *RedisQueue) Dequeue(ctx context.Context, topic string, timeout time.Duration) (*Job, error) {
	raw, err := q.rdb.BLMove(ctx, waitingKey(topic), processingKey(topic), "RIGHT", "LEFT", timeout).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		// undecodable entries can never be acked by a handler, drop them
		_ = q.rdb.LRem(ctx, processingKey(topic), 1, raw).Err()
		return nil, fmt.Errorf("malformed job on %s: %w", topic, err)
	}
	job.raw = raw
	return &job, nil
}

// ack drops the in-flight copy after the job has been parked on its next
// home. Crashing between the park and the ack replays the job, which
// at-least-once handlers tolerate.
func (q *RedisQueue) ack(ctx context.Context, job *Job) error {
	if job.raw == "" {
		return nil
	}
	return q.rdb.LRem(ctx, processingKey(job.Topic), 1, job.raw).Err()
}

// Recover moves jobs a crashed worker left in flight back onto the waiting
// list. Consumers run it once per topic before dequeuing. Returns how many
// jobs were requeued.
func (q *RedisQueue) Recover(ctx context.Context, topic string) (int64, error) {
	var recovered int64
	for {
		err := q.rdb.LMove(ctx, processingKey(topic), waitingKey(topic), "RIGHT", "LEFT").Err()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return recovered, nil
			}
			return recovered, err
		}
		recovered++
	}
}

// PromoteDue moves delayed jobs whose ready time has passed onto the
// waiting list. Called periodically by consumers.
func (q *RedisQueue) PromoteDue(ctx context.Context, topic string) error {
	now := fmt.Sprintf("%d", time.Now().Unix())
	due, err := q.rdb.ZRangeByScore(ctx, delayedKey(topic), &redis.ZRangeBy{
		Min: "-inf",
		Max: now,
	}).Result()
	if err != nil || len(due) == 0 {
		return err
	}

	pipe := q.rdb.TxPipeline()
	for _, member := range due {
		pipe.LPush(ctx, waitingKey(topic), member)
		pipe.ZRem(ctx, delayedKey(topic), member)
	}
	_, err = pipe.Exec(ctx)
	return err
}

// Retry re-delays a failed attempt with exponential backoff, or parks the
// job on the failed set once attempts are exhausted. Returns true when the
// job will be retried.
func (q *RedisQueue) Retry(ctx context.Context, job *Job) (bool, error) {
	job.Attempts++
	if job.Attempts >= job.MaxAttempts {
		if err := q.park(ctx, failedKey(job.Topic), job); err != nil {
			return false, err
		}
		return false, q.ack(ctx, job)
	}

	data, err := json.Marshal(job)
	if err != nil {
		return false, err
	}
	score := float64(time.Now().Add(q.BackoffFor(job.Attempts)).Unix())
	if err := q.rdb.ZAdd(ctx, delayedKey(job.Topic), redis.Z{Score: score, Member: data}).Err(); err != nil {
		return false, err
	}
	return true, q.ack(ctx, job)
}

func (q *RedisQueue) Complete(ctx context.Context, job *Job) error {
	if err := q.park(ctx, completedKey(job.Topic), job); err != nil {
		return err
	}
	return q.ack(ctx, job)
}

func (q *RedisQueue) park(ctx context.Context, key string, job *Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return q.rdb.ZAdd(ctx, key, redis.Z{
		Score:  float64(time.Now().Unix()),
		Member: data,
	}).Err()
}

// BackoffFor returns the delay before the given retry attempt: base doubled
// per attempt (base, 2x, 4x, ...).
func (q *RedisQueue) BackoffFor(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return q.retryBackoff << (attempt - 1)
}

// Trim drops completed jobs older than completedWindow and failed jobs
// older than failedWindow. Failed jobs are retained longer for inspection.
func (q *RedisQueue) Trim(ctx context.Context, topic string, completedWindow, failedWindow time.Duration) error {
	now := time.Now()
	completedCutoff := fmt.Sprintf("%d", now.Add(-completedWindow).Unix())
	failedCutoff := fmt.Sprintf("%d", now.Add(-failedWindow).Unix())

	if err := q.rdb.ZRemRangeByScore(ctx, completedKey(topic), "-inf", completedCutoff).Err(); err != nil {
		return err
	}
	return q.rdb.ZRemRangeByScore(ctx, failedKey(topic), "-inf", failedCutoff).Err()
}

// Depths reports waiting/delayed/failed sizes, mostly for logging.
func (q *RedisQueue) Depths(ctx context.Context, topic string) (waiting, delayed, failed int64, err error) {
	if waiting, err = q.rdb.LLen(ctx, waitingKey(topic)).Result(); err != nil {
		return
	}
	if delayed, err = q.rdb.ZCard(ctx, delayedKey(topic)).Result(); err != nil {
		return
	}
	failed, err = q.rdb.ZCard(ctx, failedKey(topic)).Result()
	return
}
