package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

type countJob struct {
	counter *int64
	fail    bool
}

type countResult struct {
	err error
}

func (r *countResult) GetError() error { return r.err }

func (j *countJob) Execute(ctx context.Context) Result {
	atomic.AddInt64(j.counter, 1)
	if j.fail {
		return &countResult{err: errors.New("job failed")}
	}
	return &countResult{}
}

func TestPool_AllJobsExecuted(t *testing.T) {
	var counter int64
	pool := NewPool(3)
	pool.Start()

	for i := 0; i < 10; i++ {
		pool.Submit(&countJob{counter: &counter})
	}

	results := pool.Wait()

	if len(results) != 10 {
		t.Errorf("Expected 10 results, got %d", len(results))
	}
	if atomic.LoadInt64(&counter) != 10 {
		t.Errorf("Expected 10 executions, got %d", counter)
	}
}

func TestPool_ErrorsSurfaceInResults(t *testing.T) {
	var counter int64
	pool := NewPool(2)
	pool.Start()

	pool.Submit(&countJob{counter: &counter, fail: true})
	pool.Submit(&countJob{counter: &counter})

	results := pool.Wait()

	failures := 0
	for _, r := range results {
		if r.GetError() != nil {
			failures++
		}
	}
	if failures != 1 {
		t.Errorf("Expected 1 failure, got %d", failures)
	}
}

func TestPool_ZeroWorkersClampedToOne(t *testing.T) {
	var counter int64
	pool := NewPool(0)
	pool.Start()

	pool.Submit(&countJob{counter: &counter})
	results := pool.Wait()

	if len(results) != 1 {
		t.Errorf("Expected 1 result, got %d", len(results))
	}
}
