// Package mock provides test doubles for cascade interfaces using function fields.
package mock

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/fwojciec/cascade"
)

// Interface compliance checks.
var (
	_ cascade.Transport = (*Transport)(nil)
	_ cascade.Transport = (*Router)(nil)
)

// Transport is a test double for cascade.Transport.
// Set CompleteFn before calling Complete.
type Transport struct {
	CompleteFn func(ctx context.Context, req cascade.Request) (cascade.Response, error)
}

// Complete delegates to CompleteFn.
func (t *Transport) Complete(ctx context.Context, req cascade.Request) (cascade.Response, error) {
	return t.CompleteFn(ctx, req)
}

// CompleteFunc is the behavior of one backend behind a Router.
type CompleteFunc func(ctx context.Context, req cascade.Request) (cascade.Response, error)

// Router is a test double for cascade.Transport that dispatches on
// Request.Model and records the backend of every call in order.
// Calling a backend without a route panics.
type Router struct {
	Routes map[string]CompleteFunc

	mu    sync.Mutex
	calls []string
}

// Complete records the call and delegates to the route for req.Model.
func (r *Router) Complete(ctx context.Context, req cascade.Request) (cascade.Response, error) {
	r.mu.Lock()
	r.calls = append(r.calls, req.Model)
	fn, ok := r.Routes[req.Model]
	r.mu.Unlock()
	if !ok {
		panic(fmt.Sprintf("mock: no route for backend %q", req.Model))
	}
	return fn(ctx, req)
}

// Calls returns the backend IDs called so far, in call order.
func (r *Router) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.calls)
}

// Reply returns a CompleteFunc answering with the given content.
func Reply(content string) CompleteFunc {
	return func(context.Context, cascade.Request) (cascade.Response, error) {
		return cascade.Response{Content: content}, nil
	}
}

// Fail returns a CompleteFunc failing with err.
func Fail(err error) CompleteFunc {
	return func(context.Context, cascade.Request) (cascade.Response, error) {
		return cascade.Response{}, err
	}
}

// Status returns a CompleteFunc failing with a *cascade.StatusError.
func Status(code int, msg string) CompleteFunc {
	return Fail(&cascade.StatusError{StatusCode: code, Message: msg})
}

// Hang returns a CompleteFunc that blocks until ctx is done and then
// returns ctx's error.
func Hang() CompleteFunc {
	return func(ctx context.Context, _ cascade.Request) (cascade.Response, error) {
		<-ctx.Done()
		return cascade.Response{}, ctx.Err()
	}
}
