package notification

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"realestate.backend/internal/config"
	"realestate.backend/pkg/logger"
	"realestate.backend/pkg/metrics"
)

// Dispatcher delivers messages asynchronously with a fixed worker pool.
// Send never blocks: when the queue is full the message is dropped.
type Dispatcher struct {
	mailer     Mailer
	queue      chan Message
	workers    int
	maxRetries int
	retryDelay time.Duration

	wg      sync.WaitGroup
	mu      sync.RWMutex
	started bool
	stopped bool
	cancel  context.CancelFunc
}

var waitRetry = func(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// NewDispatcher creates a dispatcher; call Start before sending
func NewDispatcher(mailer Mailer, cfg config.NotificationConfig) *Dispatcher {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	size := cfg.QueueSize
	if size < 1 {
		size = 1
	}
	retries := cfg.MaxRetries
	if retries < 0 {
		retries = 0
	}
	return &Dispatcher{
		mailer:     mailer,
		queue:      make(chan Message, size),
		workers:    workers,
		maxRetries: retries,
		retryDelay: cfg.RetryDelay,
	}
}

// Start launches the workers. Cancelling ctx aborts pending retries.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started {
		return
	}
	d.started = true
	ctx, d.cancel = context.WithCancel(ctx)
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.run(ctx)
	}
}

// Send enqueues msg and reports whether it was accepted
func (d *Dispatcher) Send(ctx context.Context, msg Message) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		logger.Warn(ctx, "Notification dropped, dispatcher stopped", zap.String("template", msg.Template))
		return false
	}
	select {
	case d.queue <- msg:
		metrics.NotificationQueueDepth.Set(float64(len(d.queue)))
		return true
	default:
		logger.Warn(ctx, "Notification dropped, queue full",
			zap.String("template", msg.Template),
			zap.String("to", msg.To),
		)
		metrics.RecordNotification(msg.Template, ErrQueueFull)
		return false
	}
}

// Stop drains the queue and waits for workers to finish
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	close(d.queue)
	started := d.started
	d.mu.Unlock()

	if started {
		d.wg.Wait()
		d.cancel()
	}
}

func (d *Dispatcher) run(ctx context.Context) {
	defer d.wg.Done()
	for msg := range d.queue {
		metrics.NotificationQueueDepth.Set(float64(len(d.queue)))
		d.deliver(ctx, msg)
	}
}

func (d *Dispatcher) deliver(ctx context.Context, msg Message) {
	var err error
	for attempt := 0; attempt <= d.maxRetries; attempt++ {
		if attempt > 0 {
			if waitErr := waitRetry(ctx, d.retryDelay*time.Duration(attempt)); waitErr != nil {
				err = waitErr
				break
			}
		}
		if err = d.mailer.Send(ctx, msg); err == nil {
			break
		}
		if errors.Is(err, ErrMailerNotConfigured) {
			break
		}
		logger.Warn(ctx, "Notification attempt failed",
			zap.String("template", msg.Template),
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)
	}

	metrics.RecordNotification(msg.Template, err)
	if err != nil {
		logger.Error(ctx, "Notification failed",
			zap.String("template", msg.Template),
			zap.String("to", msg.To),
			zap.Error(err),
		)
		return
	}
	logger.Debug(ctx, "Notification sent", zap.String("template", msg.Template), zap.String("to", msg.To))
}
