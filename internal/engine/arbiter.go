package engine

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"auction-engine/internal/auctionerrors"
)

// request claim states. A request is executed by the worker or abandoned by
// a timed-out submitter, never both: whoever wins the CAS owns the outcome.
const (
	claimPending   int32 = 0
	claimWorker    int32 = 1
	claimAbandoned int32 = 2
)

type request struct {
	claimed int32
	execute func()
	done    chan struct{}
}

// arbiter serializes all operations against one session into a single total
// order, decided by admission into the queue. One worker goroutine executes
// requests strictly in arrival order; different sessions carry independent
// arbiters and proceed fully in parallel.
type arbiter struct {
	queue    chan *request
	timeout  time.Duration
	quit     chan struct{}
	stopOnce sync.Once
}

func newArbiter(timeout time.Duration) *arbiter {
	a := &arbiter{
		queue:   make(chan *request, 64),
		timeout: timeout,
		quit:    make(chan struct{}),
	}
	go a.work()
	return a
}

func (a *arbiter) work() {
	for {
		select {
		case req := <-a.queue:
			if atomic.CompareAndSwapInt32(&req.claimed, claimPending, claimWorker) {
				req.execute()
				close(req.done)
			}
		case <-a.quit:
			return
		}
	}
}

// do runs fn inside the serialization boundary and blocks until the decision
// is produced. If no decision can be produced within the configured bound,
// do returns ErrTimeout and fn is guaranteed not to have run: the timed-out
// submitter claims the request so the worker skips it.
func (a *arbiter) do(fn func()) error {
	req := &request{execute: fn, done: make(chan struct{})}

	timer := time.NewTimer(a.timeout)
	defer timer.Stop()

	select {
	case a.queue <- req:
	case <-timer.C:
		return fmt.Errorf("engine: admission queue full: %w", auctionerrors.ErrTimeout)
	case <-a.quit:
		return fmt.Errorf("engine: arbiter stopped: %w", auctionerrors.ErrStaleSession)
	}

	select {
	case <-req.done:
		return nil
	case <-timer.C:
		if atomic.CompareAndSwapInt32(&req.claimed, claimPending, claimAbandoned) {
			return fmt.Errorf("engine: decision window exceeded: %w", auctionerrors.ErrTimeout)
		}
		// The worker claimed first; the decision is in flight and will
		// complete, so report it rather than a spurious timeout.
		<-req.done
		return nil
	case <-a.quit:
		if atomic.CompareAndSwapInt32(&req.claimed, claimPending, claimAbandoned) {
			return fmt.Errorf("engine: arbiter stopped: %w", auctionerrors.ErrStaleSession)
		}
		<-req.done
		return nil
	}
}

func (a *arbiter) stop() {
	a.stopOnce.Do(func() { close(a.quit) })
}
