package engine

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"auction-engine/internal/auctionerrors"

	"github.com/stretchr/testify/require"
)

func TestArbiter_ExecutesSerially(t *testing.T) {
	arb := newArbiter(2 * time.Second)
	defer arb.stop()

	var inFlight, executed, overlaps, failures int32
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := arb.do(func() {
				if atomic.AddInt32(&inFlight, 1) > 1 {
					atomic.AddInt32(&overlaps, 1)
				}
				atomic.AddInt32(&executed, 1)
				atomic.AddInt32(&inFlight, -1)
			})
			if err != nil {
				atomic.AddInt32(&failures, 1)
			}
		}()
	}
	wg.Wait()

	require.Zero(t, overlaps, "at most one in-flight decision")
	require.Zero(t, failures)
	require.Equal(t, int32(50), executed, "every admitted request executes exactly once")
}

func TestArbiter_TimeoutLeavesStateUnchanged(t *testing.T) {
	arb := newArbiter(50 * time.Millisecond)
	defer arb.stop()

	release := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		// Occupies the worker well past the second submission's window.
		_ = arb.do(func() { <-release })
	}()

	time.Sleep(10 * time.Millisecond)

	var executed int32
	err := arb.do(func() { atomic.AddInt32(&executed, 1) })
	require.ErrorIs(t, err, auctionerrors.ErrTimeout)

	close(release)
	wg.Wait()
	time.Sleep(50 * time.Millisecond) // give the worker a chance to misbehave

	require.Zero(t, atomic.LoadInt32(&executed), "a timed-out submission must never execute")
}

func TestArbiter_DecisionInFlightCompletes(t *testing.T) {
	arb := newArbiter(30 * time.Millisecond)
	defer arb.stop()

	var executed int32
	err := arb.do(func() {
		// Slower than the timeout: the worker claimed the request first,
		// so the submitter waits for the real outcome instead of a
		// spurious timeout.
		time.Sleep(80 * time.Millisecond)
		atomic.AddInt32(&executed, 1)
	})

	require.NoError(t, err)
	require.Equal(t, int32(1), atomic.LoadInt32(&executed))
}

func TestArbiter_StoppedRejectsSubmissions(t *testing.T) {
	arb := newArbiter(time.Second)
	arb.stop()

	err := arb.do(func() {})
	require.ErrorIs(t, err, auctionerrors.ErrStaleSession)
}
