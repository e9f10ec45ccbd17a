package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Badsnus/events-backend/internal/adapters/database/redis/tasks"
	"github.com/Badsnus/events-backend/internal/domain/dto"
	"github.com/Badsnus/events-backend/pkg/logger/types"
)

func setupWorker(t *testing.T, opts Options) (*Worker, *tasks.Queue) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	queue := tasks.NewQueue(client, tasks.Backoff{Initial: time.Hour, Max: time.Hour})
	logger := &types.Logger{SugaredLogger: zap.NewNop().Sugar(), Name: "test"}
	return New(queue, opts, logger), queue
}

func deliver(t *testing.T, q *tasks.Queue, name string, payload interface{}) *tasks.Delivery {
	t.Helper()
	ctx := context.Background()
	_, err := q.Enqueue(ctx, name, payload)
	require.NoError(t, err)
	d, err := q.Dequeue(ctx, time.Second)
	require.NoError(t, err)
	require.NotNil(t, d)
	return d
}

func stats(t *testing.T, q *tasks.Queue) tasks.Stats {
	t.Helper()
	s, err := q.Stats(context.Background())
	require.NoError(t, err)
	return s
}

func TestProcess_SuccessAcks(t *testing.T) {
	w, q := setupWorker(t, Options{})
	var got dto.FetchEventWeatherPayload
	w.Register(dto.TaskFetchEventWeather, func(_ context.Context, _ string, raw json.RawMessage) error {
		return json.Unmarshal(raw, &got)
	})

	w.Process(context.Background(), deliver(t, q, dto.TaskFetchEventWeather, dto.FetchEventWeatherPayload{EventID: "e1"}))

	assert.Equal(t, "e1", got.EventID)
	assert.Equal(t, tasks.Stats{}, stats(t, q))
}

func TestProcess_FailureSchedulesRetry(t *testing.T) {
	w, q := setupWorker(t, Options{MaxAttempts: 3})
	w.Register("flaky", func(context.Context, string, json.RawMessage) error {
		return errors.New("boom")
	})

	w.Process(context.Background(), deliver(t, q, "flaky", nil))

	s := stats(t, q)
	assert.Equal(t, int64(1), s.Delayed)
	assert.Zero(t, s.Processing)
	assert.Zero(t, s.Dead)
}

func TestProcess_DeadLettersAfterMaxAttempts(t *testing.T) {
	w, q := setupWorker(t, Options{MaxAttempts: 1})
	w.Register("flaky", func(context.Context, string, json.RawMessage) error {
		return errors.New("boom")
	})

	w.Process(context.Background(), deliver(t, q, "flaky", nil))

	dead, err := q.Dead(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, dead, 1)
	assert.Equal(t, "boom", dead[0].LastError)
	assert.Zero(t, stats(t, q).Delayed)
}

func TestProcess_UnknownTaskIsDeadLettered(t *testing.T) {
	w, q := setupWorker(t, Options{MaxAttempts: 5})

	w.Process(context.Background(), deliver(t, q, "nobody.handles", nil))

	dead, err := q.Dead(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, dead, 1)
	assert.Contains(t, dead[0].LastError, "unknown task")
}

func TestProcess_PanicIsRetried(t *testing.T) {
	w, q := setupWorker(t, Options{MaxAttempts: 3})
	w.Register("panics", func(context.Context, string, json.RawMessage) error {
		panic("oops")
	})

	assert.NotPanics(t, func() {
		w.Process(context.Background(), deliver(t, q, "panics", nil))
	})
	assert.Equal(t, int64(1), stats(t, q).Delayed)
}

func TestRun_ConsumesUntilCancelled(t *testing.T) {
	w, q := setupWorker(t, Options{Concurrency: 2, PollTimeout: 100 * time.Millisecond, PromoteEvery: 50 * time.Millisecond})
	var handled atomic.Int32
	w.Register("count", func(context.Context, string, json.RawMessage) error {
		handled.Add(1)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	for i := 0; i < 3; i++ {
		_, err := q.Enqueue(ctx, "count", nil)
		require.NoError(t, err)
	}

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	assert.Eventually(t, func() bool { return handled.Load() == 3 }, 2*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
}

type stubWeather struct{ eventID string }

func (s *stubWeather) SetEventWeather(_ context.Context, eventID string) error {
	s.eventID = eventID
	return nil
}

type stubSender struct {
	taskID  string
	payload dto.SendEventNotificationPayload
}

func (s *stubSender) SendEventNotification(_ context.Context, taskID string, payload dto.SendEventNotificationPayload) error {
	s.taskID = taskID
	s.payload = payload
	return nil
}

func TestHandlers_DecodePayloads(t *testing.T) {
	ctx := context.Background()

	weather := &stubWeather{}
	require.NoError(t, FetchEventWeather(weather)(ctx, "t1", json.RawMessage(`{"event_id":"e9"}`)))
	assert.Equal(t, "e9", weather.eventID)

	sender := &stubSender{}
	raw := json.RawMessage(`{"event_id":"e9","subject":"s","message":"m","recipient_list":["a@b.c"]}`)
	require.NoError(t, SendEventNotification(sender)(ctx, "t2", raw))
	assert.Equal(t, "t2", sender.taskID)
	assert.Equal(t, []string{"a@b.c"}, sender.payload.RecipientList)

	assert.Error(t, FetchEventWeather(weather)(ctx, "t3", json.RawMessage(`not json`)))
}
