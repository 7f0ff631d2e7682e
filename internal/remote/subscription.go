package remote

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tallard/campusreel/internal/media"
)

// ErrAlreadySubscribed is returned when a second live subscription is
// requested; the item-list subscription is process-wide, one per client.
var ErrAlreadySubscribed = errors.New("item-list subscription already active")

// Subscription is a live, ordered (most-recent-first) view of the item
// list, delivered as whole pages. Pages and errors arrive on independent
// channels; both close after Close, which is safe to call more than once
// but tears the poll loop down exactly once.
type Subscription struct {
	items chan []media.Item
	errs  chan error

	cancel   context.CancelFunc
	done     chan struct{}
	stopOnce sync.Once
	release  func()
}

// Subscribe starts the poll loop: one immediate fetch, then one per
// interval. Failed polls surface on Errors without stopping the loop, so a
// transient outage degrades to stale data instead of a dead feed.
func (c *Client) Subscribe(ctx context.Context, interval time.Duration, limit int) (*Subscription, error) {
	c.subMu.Lock()
	if c.subscribed {
		c.subMu.Unlock()
		return nil, ErrAlreadySubscribed
	}
	c.subscribed = true
	c.subMu.Unlock()
	if interval <= 0 {
		interval = 30 * time.Second
	}

	ctx, cancel := context.WithCancel(ctx)
	s := &Subscription{
		items:   make(chan []media.Item, 1),
		errs:    make(chan error, 1),
		cancel:  cancel,
		done:    make(chan struct{}),
		release: func() {
			c.subMu.Lock()
			c.subscribed = false
			c.subMu.Unlock()
		},
	}

	go s.run(ctx, c, interval, limit)
	return s, nil
}

func (s *Subscription) Items() <-chan []media.Item { return s.items }
func (s *Subscription) Errors() <-chan error       { return s.errs }

// Close tears the subscription down. Repeated calls are no-ops; the
// channels close once the poll goroutine has exited.
func (s *Subscription) Close() {
	s.stopOnce.Do(func() {
		s.cancel()
		<-s.done
	})
}

func (s *Subscription) run(ctx context.Context, c *Client, interval time.Duration, limit int) {
	defer func() {
		close(s.items)
		close(s.errs)
		s.release()
		close(s.done)
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.poll(ctx, c, limit)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.poll(ctx, c, limit)
		}
	}
}

func (s *Subscription) poll(ctx context.Context, c *Client, limit int) {
	pollCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	page, err := c.ListItems(pollCtx, limit)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		select {
		case s.errs <- err:
		default: // drop if the consumer is behind; the next poll retries
		}
		return
	}

	select {
	case s.items <- page:
	case <-ctx.Done():
	default:
		// Consumer still holds the previous page: replace it with the
		// fresher one rather than queueing history.
		select {
		case <-s.items:
		default:
		}
		select {
		case s.items <- page:
		default:
		}
	}
}
