package dispatch

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/snipstorm/internal/render"
	"github.com/dshills/snipstorm/internal/trigger"
)

// Default queue and worker sizing.
const (
	DefaultQueueSize = 64
	DefaultWorkers   = 2
)

// GenerationSource reports the current generation of an input
// context. The matcher implements it.
type GenerationSource interface {
	Generation(contextID string) uint64
}

// Request is one render job.
type Request struct {
	// ID correlates the eventual response with this request.
	ID uuid.UUID

	// Template is the matched trigger's template.
	Template *trigger.Template

	// Event is the match that triggered the render.
	Event *trigger.MatchEvent
}

// Response is the outcome of one render job.
type Response struct {
	// ID is the correlation id of the originating request.
	ID uuid.UUID

	// ContextID is the input context the match occurred in.
	ContextID string

	// Generation is the context generation the match belonged to.
	Generation uint64

	// Output is the rendered result; nil when Err is set.
	Output *render.Output

	// Err is the render failure, if any. The caller must not inject
	// partial text on error.
	Err error
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithQueueSize sets the request queue capacity.
func WithQueueSize(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.queueSize = n
		}
	}
}

// WithWorkers sets the number of render workers.
func WithWorkers(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.workers = n
		}
	}
}

// Dispatcher runs render passes on worker goroutines and delivers
// results asynchronously.
type Dispatcher struct {
	engine *render.Engine
	lookup render.Context
	gens   GenerationSource

	queueSize int
	workers   int

	mu        sync.Mutex
	running   bool
	requests  chan Request
	responses chan Response
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// New creates a dispatcher rendering through the given engine. The
// lookup provides catalog context for global variables and nested
// matches; gens is consulted to flag stale responses.
func New(engine *render.Engine, lookup render.Context, gens GenerationSource, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		engine:    engine,
		lookup:    lookup,
		gens:      gens,
		queueSize: DefaultQueueSize,
		workers:   DefaultWorkers,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Start launches the worker goroutines.
func (d *Dispatcher) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running {
		return ErrAlreadyRunning
	}

	ctx, d.cancel = context.WithCancel(ctx)
	d.requests = make(chan Request, d.queueSize)
	d.responses = make(chan Response, d.queueSize)
	d.running = true

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.work(ctx)
	}
	return nil
}

// Stop cancels in-flight renders and waits for the workers. Pending
// responses remain readable until the channel is drained.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	d.running = false
	d.cancel()
	close(d.requests)
	d.mu.Unlock()

	d.wg.Wait()
	close(d.responses)
}

// Submit enqueues a render job and returns its correlation id. It
// never blocks: a full queue returns ErrQueueFull and the caller
// drops the match.
func (d *Dispatcher) Submit(tmpl *trigger.Template, ev *trigger.MatchEvent) (uuid.UUID, error) {
	if ev == nil {
		return uuid.Nil, ErrNilEvent
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.running {
		return uuid.Nil, ErrNotRunning
	}

	req := Request{ID: uuid.New(), Template: tmpl, Event: ev}
	select {
	case d.requests <- req:
		return req.ID, nil
	default:
		return uuid.Nil, ErrQueueFull
	}
}

// Responses returns the channel render results arrive on.
func (d *Dispatcher) Responses() <-chan Response {
	return d.responses
}

// Valid reports whether a response may still be injected: the input
// context must be on the same generation as when the match occurred.
// Call it immediately before injecting.
func (d *Dispatcher) Valid(resp Response) bool {
	if d.gens == nil {
		return true
	}
	return resp.Generation == d.gens.Generation(resp.ContextID)
}

// work renders requests until the queue closes or the context ends.
func (d *Dispatcher) work(ctx context.Context) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case req, ok := <-d.requests:
			if !ok {
				return
			}
			out, err := d.engine.Render(ctx, req.Template, req.Event, d.lookup)
			resp := Response{
				ID:         req.ID,
				ContextID:  req.Event.ContextID,
				Generation: req.Event.Generation,
				Output:     out,
				Err:        err,
			}
			select {
			case d.responses <- resp:
			case <-ctx.Done():
				return
			}
		}
	}
}
