package plugin

import (
	"context"
	"log/slog"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/ayusman/airkeys/internal/selection"
)

// DefaultQueueSize is the number of activations buffered for a slow plugin.
const DefaultQueueSize = 64

// drainTimeout bounds how long Close lets the worker finish queued requests
// before the in-flight one is cancelled.
const drainTimeout = 500 * time.Millisecond

// Runner executes a request against a plugin.
type Runner interface {
	Execute(ctx context.Context, plugin *Plugin, req *Request) (*Response, error)
}

// Dispatcher forwards activations to one plugin from a worker goroutine.
// Observe never blocks: when the queue is full the activation is dropped.
type Dispatcher struct {
	plugin *Plugin
	runner Runner
	logger *slog.Logger

	queue chan Request
	wg    sync.WaitGroup

	mu      sync.Mutex
	closed  bool
	dropped int
	cancel  context.CancelFunc
}

// NewDispatcher starts a worker sending requests for plugin through runner.
// The worker stops when ctx is cancelled or Close is called.
func NewDispatcher(ctx context.Context, plugin *Plugin, runner Runner, queueSize int, logger *slog.Logger) *Dispatcher {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(ctx)

	d := &Dispatcher{
		plugin: plugin,
		runner: runner,
		logger: logger.With("plugin", plugin.Manifest.Name),
		queue:  make(chan Request, queueSize),
		cancel: cancel,
	}
	d.wg.Add(1)
	go d.run(ctx)
	return d
}

// NewRequest builds the request for an activation. Char is set when the key
// appended a character, which is then the last rune of text.
func NewRequest(act selection.Activation, text string) Request {
	req := Request{Action: ActionType, Key: act.Label, Text: text}
	if utf8.RuneCountInString(act.Label) == 1 && text != "" {
		r, _ := utf8.DecodeLastRuneInString(text)
		req.Char = string(r)
	}
	return req
}

// Observe queues an activation. It has the session observer signature.
func (d *Dispatcher) Observe(act selection.Activation, text string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}
	select {
	case d.queue <- NewRequest(act, text):
	default:
		d.dropped++
		d.logger.Warn("plugin queue full, dropping activation", "key", act.Label, "dropped", d.dropped)
	}
}

// Dropped returns how many activations were dropped on a full queue.
func (d *Dispatcher) Dropped() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dropped
}

func (d *Dispatcher) run(ctx context.Context) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case req, ok := <-d.queue:
			if !ok || ctx.Err() != nil {
				return
			}
			if _, err := d.runner.Execute(ctx, d.plugin, &req); err != nil {
				d.logger.Error("plugin request failed", "key", req.Key, "error", err)
			}
		}
	}
}

// Close stops accepting activations and waits for the worker. Queued
// requests get drainTimeout to finish; whatever is left is cancelled.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(drainTimeout):
		d.logger.Warn("plugin queue not drained, cancelling", "pending", len(d.queue))
	}
	d.cancel()
	<-done
}
