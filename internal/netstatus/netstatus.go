// Package netstatus watches store reachability and reports
// online/offline transitions.
package netstatus

import (
	"context"
	"net"
	"time"
)

// Checker probes the store once. A nil error means online.
type Checker func(ctx context.Context) error

// DialChecker probes by opening a TCP connection to addr.
func DialChecker(addr string) Checker {
	return func(ctx context.Context) error {
		var d net.Dialer
		conn, err := d.DialContext(ctx, "tcp", addr)
		if err != nil {
			return err
		}
		return conn.Close()
	}
}

// Prober runs the checker on an interval and emits a value only when
// the online state flips, so consumers see transitions, not heartbeats.
type Prober struct {
	check    Checker
	interval time.Duration

	changes chan bool
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewProber(check Checker, interval time.Duration) *Prober {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &Prober{
		check:    check,
		interval: interval,
		changes:  make(chan bool, 1),
		done:     make(chan struct{}),
	}
}

// Changes emits true when the store becomes reachable and false when it
// stops being reachable. The first probe always emits.
func (p *Prober) Changes() <-chan bool { return p.changes }

func (p *Prober) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)
	go p.run(ctx)
}

func (p *Prober) Stop() {
	if p.cancel == nil {
		return
	}
	p.cancel()
	<-p.done
}

func (p *Prober) run(ctx context.Context) {
	defer func() {
		close(p.changes)
		close(p.done)
	}()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	var known, online bool
	probe := func() {
		probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		now := p.check(probeCtx) == nil
		cancel()
		if known && now == online {
			return
		}
		known, online = true, now
		select {
		case p.changes <- now:
		case <-ctx.Done():
		}
	}

	probe()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			probe()
		}
	}
}
