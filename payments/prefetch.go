package payments

import (
	"context"
	"sync"
)

// Prefetcher warms a payment link ahead of the user's confirmation so the
// link is usually ready by the time they tap Pay. Ensure is idempotent per
// parameter tuple: concurrent identical calls share one in-flight request,
// and any parameter change discards the cached attempt. Purely an
// optimisation; order placement works if it never ran.
type Prefetcher struct {
	client *Client

	mu       sync.Mutex
	key      CreateLinkParams
	inflight *linkFuture
}

type linkFuture struct {
	done chan struct{}
	link *PaymentLink
	err  error
}

func NewPrefetcher(client *Client) *Prefetcher {
	return &Prefetcher{client: client}
}

// Ensure returns the link for params, starting a request only when no
// identical one is already in flight or completed. Failed attempts are not
// cached: the next Ensure retries.
func (p *Prefetcher) Ensure(ctx context.Context, params CreateLinkParams) (*PaymentLink, error) {
	p.mu.Lock()
	if p.inflight != nil && p.key == params {
		f := p.inflight
		p.mu.Unlock()
		return f.wait(ctx)
	}
	f := &linkFuture{done: make(chan struct{})}
	p.key = params
	p.inflight = f
	p.mu.Unlock()

	go func() {
		f.link, f.err = p.client.CreateLink(context.Background(), params)
		close(f.done)

		if f.err != nil {
			p.mu.Lock()
			if p.inflight == f {
				p.inflight = nil
			}
			p.mu.Unlock()
		}
	}()

	return f.wait(ctx)
}

// Invalidate drops any cached attempt for the reference, forcing the next
// Ensure to hit the service again.
func (p *Prefetcher) Invalidate(referenceID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.key.ReferenceID == referenceID {
		p.inflight = nil
		p.key = CreateLinkParams{}
	}
}

func (f *linkFuture) wait(ctx context.Context) (*PaymentLink, error) {
	select {
	case <-f.done:
		return f.link, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
