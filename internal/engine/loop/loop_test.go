package loop_test

import (
	"context"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/runq/internal/engine/loop"
)

func TestLoop_RunsInPostOrder(t *testing.T) {
	l := loop.New()

	var order []int
	for i := range 5 {
		l.Post(func() { order = append(order, i) })
	}
	assert.Equal(t, 5, l.Pending())
	assert.Empty(t, order, "Post must not run the continuation")

	require.NoError(t, l.Run(context.Background(), func() bool { return true }))
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
	assert.Equal(t, 0, l.Pending())
}

func TestLoop_PostFromContinuationRunsOnLaterTurn(t *testing.T) {
	l := loop.New()

	var order []string
	l.Post(func() {
		order = append(order, "a")
		l.Post(func() { order = append(order, "c") })
	})
	l.Post(func() { order = append(order, "b") })

	require.NoError(t, l.Run(context.Background(), func() bool { return true }))
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestLoop_WaitsUntilSettled(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		l := loop.New()

		var mu sync.Mutex
		finished := false
		go func() {
			time.Sleep(time.Second)
			l.Post(func() {
				mu.Lock()
				finished = true
				mu.Unlock()
			})
		}()

		err := l.Run(context.Background(), func() bool {
			mu.Lock()
			defer mu.Unlock()
			return finished
		})
		require.NoError(t, err)
		assert.True(t, finished)
	})
}

func TestLoop_ContextCancellation(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		l := loop.New()
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		err := l.Run(ctx, func() bool { return false })
		require.ErrorIs(t, err, context.DeadlineExceeded)

		// Work posted after cancellation runs on the next Run.
		ran := false
		l.Post(func() { ran = true })
		require.NoError(t, l.Run(context.Background(), func() bool { return true }))
		assert.True(t, ran)
	})
}

func TestLoop_CancelledContextLeavesTasksQueued(t *testing.T) {
	l := loop.New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l.Post(func() { t.Fatal("continuation ran under a cancelled context") })
	require.ErrorIs(t, l.Run(ctx, func() bool { return true }), context.Canceled)
	assert.Equal(t, 1, l.Pending())
}

func TestLoop_ConcurrentPosts(t *testing.T) {
	l := loop.New()

	var wg sync.WaitGroup
	count := 0
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				l.Post(func() { count++ })
			}
		}()
	}
	wg.Wait()

	require.NoError(t, l.Run(context.Background(), func() bool { return true }))
	assert.Equal(t, 800, count)
}
