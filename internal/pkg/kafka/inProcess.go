package kafka

import (
	"context"
	"errors"
	"sync"

	"github.com/ds124wfegd/cardforge/internal/entity"
)

var ErrProducerClosed = errors.New("producer closed")

// inProcessProducer queues tasks for a single local worker goroutine.
type inProcessProducer struct {
	tasks  chan entity.RenderTask
	handle TaskHandler
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	mu     sync.RWMutex
	closed bool
}

func NewInProcessProducer(handle TaskHandler, queue int) Producer {
	ctx, cancel := context.WithCancel(context.Background())
	p := &inProcessProducer{
		tasks:  make(chan entity.RenderTask, queue),
		handle: handle,
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go p.run()
	return p
}

func (p *inProcessProducer) run() {
	defer close(p.done)
	for task := range p.tasks {
		if p.handle != nil {
			p.handle(p.ctx, task)
		}
	}
}

func (p *inProcessProducer) Publish(ctx context.Context, task entity.RenderTask) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrProducerClosed
	}
	select {
	case p.tasks <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting tasks and waits for the queued ones to finish.
func (p *inProcessProducer) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()

	<-p.done
	p.cancel()
	return nil
}
