package queue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnqueueDequeueFIFO(t *testing.T) {
	q := New()
	ctx := context.Background()

	assert.True(t, q.Enqueue(Job{WorldID: "wrld_a", Filename: "1.png"}))
	assert.True(t, q.Enqueue(Job{WorldID: "wrld_a", Filename: "2.png"}))

	first, err := q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1.png", first.Filename)

	second, err := q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2.png", second.Filename)
}

func TestEnqueueSuppressesDuplicates(t *testing.T) {
	q := New()

	job := Job{WorldID: "wrld_a", Filename: "1.png"}
	assert.True(t, q.Enqueue(job))
	assert.False(t, q.Enqueue(job), "pending job must not be re-queued")

	got, err := q.Dequeue(context.Background())
	require.NoError(t, err)

	// Still in flight, so still suppressed.
	assert.False(t, q.Enqueue(job))

	q.Done(got)
	assert.True(t, q.Enqueue(job), "after Done the job may be queued again")
}

func TestDequeueBlocksUntilEnqueue(t *testing.T) {
	q := New()

	got := make(chan Job, 1)
	go func() {
		job, err := q.Dequeue(context.Background())
		if err == nil {
			got <- job
		}
	}()

	time.Sleep(20 * time.Millisecond)
	q.Enqueue(Job{WorldID: "wrld_a", Filename: "1.png"})

	select {
	case job := <-got:
		assert.Equal(t, "1.png", job.Filename)
	case <-time.After(2 * time.Second):
		t.Fatal("dequeue did not wake up")
	}
}

func TestDequeueCancellation(t *testing.T) {
	q := New()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := q.Dequeue(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLen(t *testing.T) {
	q := New()
	assert.Equal(t, 0, q.Len())

	q.Enqueue(Job{WorldID: "wrld_a", Filename: "1.png"})
	q.Enqueue(Job{WorldID: "wrld_a", Filename: "2.png"})
	assert.Equal(t, 2, q.Len())

	_, err := q.Dequeue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, q.Len())
}
