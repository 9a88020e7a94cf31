package cascade

import "context"

// Transport sends one request to one backend. Request.Model names the
// backend. Cancellation and the per-attempt deadline flow through ctx.
//
// Implementations report backend status failures as *StatusError so the
// classifier can read the code. They must be safe for concurrent use.
type Transport interface {
	Complete(ctx context.Context, req Request) (Response, error)
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, req Request) (Response, error)

// Complete calls f.
func (f TransportFunc) Complete(ctx context.Context, req Request) (Response, error) {
	return f(ctx, req)
}
