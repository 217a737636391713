// Package queue holds the in-process conversion queue.
package queue

import (
	"context"
	"sync"
)

// Job identifies one source image to convert.
type Job struct {
	WorldID  string
	Filename string
}

func (j Job) key() string {
	return j.WorldID + "/" + j.Filename
}

// Queue is an unbounded FIFO of conversion jobs with duplicate suppression.
// A job stays "pending" from Enqueue until the worker calls Done, so a
// rescan that sees the same file again while it is queued or converting
// does not produce a second job.
type Queue struct {
	mu      sync.Mutex
	jobs    []Job
	pending map[string]bool

	// notify has capacity 1; a send marks "work may be available" without
	// blocking the producer.
	notify chan struct{}
}

// New creates an empty queue.
func New() *Queue {
	return &Queue{
		pending: make(map[string]bool),
		notify:  make(chan struct{}, 1),
	}
}

// Enqueue adds a job unless the same world/filename pair is already pending.
// Returns true if the job was added.
func (q *Queue) Enqueue(job Job) bool {
	q.mu.Lock()
	key := job.key()
	if q.pending[key] {
		q.mu.Unlock()
		return false
	}
	q.pending[key] = true
	q.jobs = append(q.jobs, job)
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
	return true
}

// Dequeue blocks until a job is available or ctx is done. The returned job
// remains pending until Done is called for it.
func (q *Queue) Dequeue(ctx context.Context) (Job, error) {
	for {
		q.mu.Lock()
		if len(q.jobs) > 0 {
			job := q.jobs[0]
			q.jobs = q.jobs[1:]
			q.mu.Unlock()
			return job, nil
		}
		q.mu.Unlock()

		select {
		case <-ctx.Done():
			return Job{}, ctx.Err()
		case <-q.notify:
		}
	}
}

// Done releases the duplicate-suppression slot for a finished job. Call it
// after the job's outcome is recorded, whether it succeeded or failed.
func (q *Queue) Done(job Job) {
	q.mu.Lock()
	delete(q.pending, job.key())
	q.mu.Unlock()
}

// Len returns the number of jobs waiting to be dequeued.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.jobs)
}
