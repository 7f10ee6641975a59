package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type eventPayload struct {
	Code string
}

func TestQueueDeliversTypedPayload(t *testing.T) {
	got := make(chan eventPayload, 1)
	q := NewQueue[eventPayload]("test", func(_ context.Context, job Job[eventPayload]) error {
		got <- job.Payload
		return nil
	}, QueueConfig{Workers: 1})

	q.Start(context.Background())
	defer q.Stop()

	err := q.Enqueue(Job[eventPayload]{ID: "1", Type: "noop", Payload: eventPayload{Code: "CASE-2026-0001"}})
	require.NoError(t, err)

	select {
	case p := <-got:
		assert.Equal(t, "CASE-2026-0001", p.Code)
	case <-time.After(time.Second):
		t.Fatal("handler never ran")
	}
}

func TestQueueRetriesFailedJobs(t *testing.T) {
	attempts := make(chan int, 4)
	q := NewQueue[eventPayload]("test", func(_ context.Context, job Job[eventPayload]) error {
		attempts <- job.Attempt
		if job.Attempt == 0 {
			return errors.New("transient")
		}
		return nil
	}, QueueConfig{Workers: 1, MaxRetries: 2, RetryDelay: 10 * time.Millisecond})

	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job[eventPayload]{ID: "1", Type: "noop"}))

	seen := []int{}
	for len(seen) < 2 {
		select {
		case a := <-attempts:
			seen = append(seen, a)
		case <-time.After(2 * time.Second):
			t.Fatalf("expected a retry, saw attempts %v", seen)
		}
	}
	assert.Equal(t, []int{0, 1}, seen)
}

func TestQueueRejectsEnqueueBeforeStart(t *testing.T) {
	q := NewQueue[eventPayload]("test", func(context.Context, Job[eventPayload]) error {
		return nil
	}, QueueConfig{})

	err := q.Enqueue(Job[eventPayload]{ID: "1"})
	require.Error(t, err)
}
