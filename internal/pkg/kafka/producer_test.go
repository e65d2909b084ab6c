package kafka

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ds124wfegd/cardforge/internal/entity"
)

func TestInProcessProducerRunsTasksInOrder(t *testing.T) {
	var (
		mu  sync.Mutex
		got []string
	)
	p := NewInProcessProducer(func(_ context.Context, task entity.RenderTask) {
		mu.Lock()
		got = append(got, task.CardID)
		mu.Unlock()
	}, 4)

	for _, id := range []string{"a", "b", "c", "d", "e", "f"} {
		require.NoError(t, p.Publish(context.Background(), entity.RenderTask{CardID: id}))
	}
	require.NoError(t, p.Close())

	assert.Equal(t, []string{"a", "b", "c", "d", "e", "f"}, got)
	assert.ErrorIs(t, p.Publish(context.Background(), entity.RenderTask{CardID: "late"}), ErrProducerClosed)
	assert.NoError(t, p.Close(), "second close is a no-op")
}

func TestDisabledKafkaFallsBack(t *testing.T) {
	done := make(chan string, 1)
	p := NewProducer(Config{Enabled: false, Topic: "render-tasks"}, func(_ context.Context, task entity.RenderTask) {
		done <- task.CardID
	})
	defer p.Close()

	require.NoError(t, p.Publish(context.Background(), entity.RenderTask{CardID: "x"}))
	assert.Equal(t, "x", <-done)
}

func TestPublishHonoursContextWhenQueueFull(t *testing.T) {
	block := make(chan struct{})
	p := NewInProcessProducer(func(context.Context, entity.RenderTask) { <-block }, 1)

	require.NoError(t, p.Publish(context.Background(), entity.RenderTask{CardID: "running"}))

	// the worker may or may not have taken the first task yet; fill whatever room is left
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var err error
	for i := 0; i < 3 && err == nil; i++ {
		err = p.Publish(ctx, entity.RenderTask{CardID: "queued"})
	}
	assert.ErrorIs(t, err, context.Canceled)

	close(block)
	require.NoError(t, p.Close())
}
