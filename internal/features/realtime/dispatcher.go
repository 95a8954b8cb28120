package realtime

import (
	"context"
	"sync"
	"time"

	"go-bighil/internal/config"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Sink receives events drained from the outbox.
type Sink interface {
	Publish(ctx context.Context, ev Event) error
}

// Dispatcher is the in-process outbox between domain writes and realtime delivery.
// Enqueue never blocks and never fails the caller.
type Dispatcher struct {
	queue  chan Event
	sink   Sink
	logger *zap.Logger

	quit    chan struct{}
	done    chan struct{}
	started sync.Once
	stopped sync.Once
}

func NewDispatcher(lc fx.Lifecycle, cfg *config.Config, sink Sink, logger *zap.Logger) *Dispatcher {
	d := newDispatcher(cfg.OutboxBuffer, sink, logger)
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			d.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return d.Stop(ctx)
		},
	})
	return d
}

func newDispatcher(buffer int, sink Sink, logger *zap.Logger) *Dispatcher {
	if buffer <= 0 {
		buffer = 1024
	}
	return &Dispatcher{
		queue:  make(chan Event, buffer),
		sink:   sink,
		logger: logger,
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

func (d *Dispatcher) Enqueue(ev Event) bool {
	select {
	case d.queue <- ev:
		return true
	default:
		d.logger.Warn("realtime outbox full, dropping event",
			zap.String("room", ev.Room),
			zap.String("event", ev.Name),
		)
		return false
	}
}

func (d *Dispatcher) Start() {
	d.started.Do(func() {
		go d.run()
	})
}

// Stop flushes whatever is queued and waits for the worker to exit.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.stopped.Do(func() {
		close(d.quit)
	})
	d.Start()
	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for {
		select {
		case ev := <-d.queue:
			d.publish(ev)
		case <-d.quit:
			for {
				select {
				case ev := <-d.queue:
					d.publish(ev)
				default:
					return
				}
			}
		}
	}
}

func (d *Dispatcher) publish(ev Event) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.sink.Publish(ctx, ev); err != nil {
		d.logger.Error("failed to publish realtime event",
			zap.String("room", ev.Room),
			zap.String("event", ev.Name),
			zap.Error(err),
		)
	}
}
