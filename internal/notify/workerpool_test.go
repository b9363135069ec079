package notify

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorkerPool(t *testing.T) {
	tests := []struct {
		name       string
		numTasks   int
		numWorkers int
		failEvery  int
	}{
		{
			name:       "Test worker pool with simple tasks",
			numTasks:   5,
			numWorkers: 2,
		},
		{
			name:       "Test worker pool with error in task",
			numTasks:   4,
			numWorkers: 2,
			failEvery:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wp := NewWorkerPool(tt.numWorkers, tt.numTasks)

			var executed atomic.Int32
			for i := 0; i < tt.numTasks; i++ {
				i := i
				ok := wp.TryAdd(func() error {
					executed.Add(1)
					if tt.failEvery > 0 && i%tt.failEvery == 0 {
						return errors.New("task failed")
					}
					return nil
				})
				assert.True(t, ok)
			}
			wp.Close()

			assert.Equal(t, int32(tt.numTasks), executed.Load())
		})
	}
}

func TestWorkerPool_FullQueue(t *testing.T) {
	wp := NewWorkerPool(1, 1)
	release := make(chan struct{})
	started := make(chan struct{})

	assert.True(t, wp.TryAdd(func() error {
		close(started)
		<-release
		return nil
	}))
	<-started
	assert.True(t, wp.TryAdd(func() error { return nil }))
	assert.False(t, wp.TryAdd(func() error { return nil }))

	close(release)
	wp.Close()
}

func TestWorkerPool_ClosedRejects(t *testing.T) {
	wp := NewWorkerPool(1, 1)
	wp.Close()
	wp.Close()
	assert.False(t, wp.TryAdd(func() error { return nil }))
}
