package cascade

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// DefaultAttemptTimeout bounds a single attempt when no WithAttemptTimeout
// option is given.
const DefaultAttemptTimeout = 60 * time.Second

// Cascade tries the backends of a Catalog in order through a Transport
// until one of them answers.
type Cascade struct {
	catalog   *Catalog
	transport Transport
}

// New creates a Cascade over the given catalog and transport.
func New(catalog *Catalog, transport Transport) *Cascade {
	return &Cascade{catalog: catalog, transport: transport}
}

// RunOption configures a single Run invocation.
type RunOption func(*runConfig)

type runConfig struct {
	order    []string // nil = whole catalog
	timeout  time.Duration
	handlers []func(Event)
}

// WithBackendOrder restricts and reorders the backends for this run. Any
// call installs an override, so WithBackendOrder() with no IDs resolves to
// no backends and Run fails with ErrConfiguration.
func WithBackendOrder(ids ...string) RunOption {
	return func(c *runConfig) {
		c.order = append([]string{}, ids...)
	}
}

// WithAttemptTimeout sets the deadline of each individual attempt.
// Non-positive values keep the default.
func WithAttemptTimeout(d time.Duration) RunOption {
	return func(c *runConfig) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithEventHandler adds a callback that receives attempt lifecycle events.
// Handlers run synchronously in the order they were added. Nil handlers
// are ignored.
func WithEventHandler(h func(Event)) RunOption {
	return func(c *runConfig) {
		if h != nil {
			c.handlers = append(c.handlers, h)
		}
	}
}

func (c *runConfig) emit(e Event) {
	for _, h := range c.handlers {
		h(e)
	}
}

// Run sends req to each resolved backend in turn and returns the first
// non-empty answer.
//
// Failures are classified with Classify. Quota, timeout, empty-response
// and transient failures move on to the next backend; an authentication
// failure stops the cascade. When no backend succeeds Run returns an
// *ExhaustedError holding every failed attempt. A request failing
// validation or an empty resolved order fails before any transport call
// with ErrValidation or ErrConfiguration respectively.
func (c *Cascade) Run(ctx context.Context, req Request, opts ...RunOption) (Result, error) {
	cfg := runConfig{timeout: DefaultAttemptTimeout}
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := req.Validate(); err != nil {
		return Result{}, err
	}
	order := c.catalog.ResolveOrder(cfg.order)
	if len(order) == 0 {
		return Result{}, fmt.Errorf("no backends resolved: %w", ErrConfiguration)
	}

	var reporter Reporter
	total := len(order)
	for i, backend := range order {
		if err := ctx.Err(); err != nil {
			return Result{}, exhausted(&reporter, err)
		}
		index := i + 1
		cfg.emit(EventAttemptStart{Attempt: index, Total: total, Backend: backend})

		start := time.Now()
		resp, err := c.attempt(ctx, req.forBackend(backend.ID), cfg.timeout)
		elapsed := time.Since(start)
		if err == nil && strings.TrimSpace(resp.Content) == "" {
			err = fmt.Errorf("backend %s returned no content: %w", backend.ID, ErrEmptyResponse)
		}

		if err == nil {
			cfg.emit(EventAttemptSuccess{Attempt: index, Total: total, Backend: backend, Duration: elapsed})
			return Result{
				Content:       resp.Content,
				Citations:     resp.Citations,
				Usage:         resp.Usage,
				Model:         resp.Model,
				BackendID:     backend.ID,
				DisplayName:   backend.DisplayName,
				Attempt:       index,
				TotalAttempts: total,
				Failures:      reporter.All(),
			}, nil
		}

		record := Attempt{
			Index:       index,
			BackendID:   backend.ID,
			DisplayName: backend.DisplayName,
			Class:       Classify(err),
			Message:     err.Error(),
			StatusCode:  StatusCode(err),
			Duration:    elapsed,
		}
		reporter.Record(record)
		cfg.emit(EventAttemptFailure{Record: record, Total: total})

		if !record.Class.Recoverable() {
			break
		}
	}
	return Result{}, exhausted(&reporter, ctx.Err())
}

type outcome struct {
	resp Response
	err  error
}

// attempt runs one transport call under its own deadline. The deadline
// holds even if the transport ignores ctx; the buffered channel lets the
// call's goroutine exit whenever the transport returns.
func (c *Cascade) attempt(ctx context.Context, req Request, timeout time.Duration) (Response, error) {
	actx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan outcome, 1)
	go func() {
		resp, err := c.transport.Complete(actx, req)
		done <- outcome{resp: resp, err: err}
	}()

	select {
	case o := <-done:
		if o.err != nil && actx.Err() != nil {
			return Response{}, cancelled(ctx, timeout)
		}
		return o.resp, o.err
	case <-actx.Done():
		return Response{}, cancelled(ctx, timeout)
	}
}

// cancelled describes why an attempt context ended: the caller's context
// or the attempt's own deadline.
func cancelled(ctx context.Context, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("attempt aborted: %w", err)
	}
	return fmt.Errorf("no response within %s: %w", timeout, ErrTimeout)
}

func exhausted(r *Reporter, cause error) *ExhaustedError {
	e := &ExhaustedError{Attempts: r.All(), cause: cause}
	if last, ok := r.Last(); ok {
		e.LastMessage = last.Message
	}
	return e
}
