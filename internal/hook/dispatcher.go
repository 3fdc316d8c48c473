package hook

import (
	"context"
	"log"

	"github.com/ayusman/chitra/internal/painter"
)

// Dispatcher feeds canvas events to the hooks that subscribe to them.
type Dispatcher struct {
	manager  *Manager
	executor *Executor
	session  func() string
}

// NewDispatcher creates a Dispatcher. session, when set, supplies the current
// session ID for each request.
func NewDispatcher(m *Manager, e *Executor, session func() string) *Dispatcher {
	return &Dispatcher{manager: m, executor: e, session: session}
}

// Run handles events until the channel closes or ctx is done. Hooks run one
// at a time in event order.
func (d *Dispatcher) Run(ctx context.Context, events <-chan painter.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			d.Dispatch(ctx, ev)
		}
	}
}

// Dispatch runs every hook subscribed to ev and returns how many succeeded.
func (d *Dispatcher) Dispatch(ctx context.Context, ev painter.Event) int {
	kind := ev.Kind.String()
	hooks := d.manager.For(kind)
	if len(hooks) == 0 {
		return 0
	}

	req := &Request{
		Event: kind,
		From:  ev.From.String(),
		Mode:  ev.To.String(),
		Color: ev.Color.Name,
		At:    ev.At,
	}
	if d.session != nil {
		req.Session = d.session()
	}

	ok := 0
	for _, h := range hooks {
		resp, err := d.executor.Execute(ctx, h, req)
		if err != nil {
			log.Printf("Hook error: %v", err)
			continue
		}
		if !resp.Success {
			log.Printf("Hook %s reported failure: %s", h.Manifest.Name, resp.Error)
			continue
		}
		ok++
	}
	return ok
}
