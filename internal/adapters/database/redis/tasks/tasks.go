package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	pendingKey    = "tasks:pending"
	processingKey = "tasks:processing"
	delayedKey    = "tasks:delayed"
	deadKey       = "tasks:dead"
)

// Envelope is the JSON form of a queued task.
type Envelope struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Payload    json.RawMessage `json:"payload"`
	Attempt    int             `json:"attempt"`
	EnqueuedAt time.Time       `json:"enqueued_at"`
	LastError  string          `json:"last_error,omitempty"`
}

// Delivery is a task taken off the pending list. It stays in the processing
// list until it is acked, retried or dead-lettered.
type Delivery struct {
	Envelope
	raw string
}

type Backoff struct {
	Initial time.Duration
	Max     time.Duration
}

// Delay returns Initial*2^attempt capped at Max.
func (b Backoff) Delay(attempt int) time.Duration {
	delay := float64(b.Initial) * math.Pow(2, float64(attempt))
	if delay > float64(b.Max) {
		return b.Max
	}
	return time.Duration(delay)
}

var DefaultBackoff = Backoff{Initial: time.Second, Max: time.Minute}

type Queue struct {
	redis   *redis.Client
	backoff Backoff
	now     func() time.Time
}

func NewQueue(client *redis.Client, backoff Backoff) *Queue {
	return &Queue{
		redis:   client,
		backoff: backoff,
		now:     time.Now,
	}
}

// Enqueue pushes a task and returns its id.
func (q *Queue) Enqueue(ctx context.Context, name string, payload interface{}) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal %s payload: %w", name, err)
	}

	envelope := Envelope{
		ID:         uuid.NewString(),
		Name:       name,
		Payload:    data,
		EnqueuedAt: q.now().UTC(),
	}
	raw, err := json.Marshal(envelope)
	if err != nil {
		return "", err
	}

	if err = q.redis.LPush(ctx, pendingKey, raw).Err(); err != nil {
		return "", fmt.Errorf("enqueue %s: %w", name, err)
	}
	return envelope.ID, nil
}

// Dequeue blocks up to timeout for a task. It returns nil, nil on timeout.
func (q *Queue) Dequeue(ctx context.Context, timeout time.Duration) (*Delivery, error) {
	raw, err := q.redis.BLMove(ctx, pendingKey, processingKey, "RIGHT", "LEFT", timeout).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	delivery := &Delivery{raw: raw}
	if err = json.Unmarshal([]byte(raw), &delivery.Envelope); err != nil {
		// unreadable envelopes can never succeed
		_ = q.moveToDead(ctx, raw, raw)
		return nil, fmt.Errorf("decode task envelope: %w", err)
	}
	return delivery, nil
}

// Ack removes a finished task.
func (q *Queue) Ack(ctx context.Context, d *Delivery) error {
	return q.redis.LRem(ctx, processingKey, 1, d.raw).Err()
}

// Retry schedules the task again after the backoff delay, or dead-letters it
// once maxAttempts runs are used up. It reports whether the task was dead-lettered.
func (q *Queue) Retry(ctx context.Context, d *Delivery, cause error, maxAttempts int) (bool, error) {
	next := d.Envelope
	next.Attempt++
	if cause != nil {
		next.LastError = cause.Error()
	}

	raw, err := json.Marshal(next)
	if err != nil {
		return false, err
	}

	if next.Attempt >= maxAttempts {
		return true, q.moveToDead(ctx, d.raw, string(raw))
	}

	readyAt := q.now().Add(q.backoff.Delay(d.Attempt))
	_, err = q.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LRem(ctx, processingKey, 1, d.raw)
		pipe.ZAdd(ctx, delayedKey, redis.Z{Score: float64(readyAt.UnixMilli()), Member: raw})
		return nil
	})
	return false, err
}

// DeadLetter moves the task to the dead-letter list without retrying.
func (q *Queue) DeadLetter(ctx context.Context, d *Delivery, cause error) error {
	next := d.Envelope
	if cause != nil {
		next.LastError = cause.Error()
	}
	raw, err := json.Marshal(next)
	if err != nil {
		return err
	}
	return q.moveToDead(ctx, d.raw, string(raw))
}

func (q *Queue) moveToDead(ctx context.Context, processingRaw, deadRaw string) error {
	_, err := q.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LRem(ctx, processingKey, 1, processingRaw)
		pipe.LPush(ctx, deadKey, deadRaw)
		return nil
	})
	return err
}

// PromoteDue moves delayed tasks whose backoff has elapsed back to pending.
func (q *Queue) PromoteDue(ctx context.Context) (int, error) {
	until := strconv.FormatInt(q.now().UnixMilli(), 10)
	due, err := q.redis.ZRangeByScore(ctx, delayedKey, &redis.ZRangeBy{Min: "-inf", Max: until}).Result()
	if err != nil {
		return 0, err
	}

	promoted := 0
	for _, raw := range due {
		removed, err := q.redis.ZRem(ctx, delayedKey, raw).Result()
		if err != nil {
			return promoted, err
		}
		// another worker got it first
		if removed == 0 {
			continue
		}
		if err = q.redis.LPush(ctx, pendingKey, raw).Err(); err != nil {
			return promoted, err
		}
		promoted++
	}
	return promoted, nil
}

// RecoverProcessing puts tasks left in the processing list by a crashed worker
// back on the pending list. Call it before any worker of the pool starts.
func (q *Queue) RecoverProcessing(ctx context.Context) (int, error) {
	recovered := 0
	for {
		err := q.redis.LMove(ctx, processingKey, pendingKey, "LEFT", "RIGHT").Err()
		if errors.Is(err, redis.Nil) {
			return recovered, nil
		}
		if err != nil {
			return recovered, err
		}
		recovered++
	}
}

type Stats struct {
	Pending    int64
	Processing int64
	Delayed    int64
	Dead       int64
}

func (q *Queue) Stats(ctx context.Context) (Stats, error) {
	pipe := q.redis.Pipeline()
	pending := pipe.LLen(ctx, pendingKey)
	processing := pipe.LLen(ctx, processingKey)
	delayed := pipe.ZCard(ctx, delayedKey)
	dead := pipe.LLen(ctx, deadKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return Stats{}, err
	}
	return Stats{
		Pending:    pending.Val(),
		Processing: processing.Val(),
		Delayed:    delayed.Val(),
		Dead:       dead.Val(),
	}, nil
}

// Dead returns up to limit dead-lettered tasks, newest first.
func (q *Queue) Dead(ctx context.Context, limit int64) ([]Envelope, error) {
	raws, err := q.redis.LRange(ctx, deadKey, 0, limit-1).Result()
	if err != nil {
		return nil, err
	}
	envelopes := make([]Envelope, 0, len(raws))
	for _, raw := range raws {
		var envelope Envelope
		if err = json.Unmarshal([]byte(raw), &envelope); err != nil {
			continue
		}
		envelopes = append(envelopes, envelope)
	}
	return envelopes, nil
}
