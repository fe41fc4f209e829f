package perftests

import (
	"fmt"
	"math/rand"
	"sync/atomic"
	"testing"
	"time"

	"auction-engine/internal/config"
	"auction-engine/internal/engine"
	"auction-engine/internal/models"
	"auction-engine/internal/repository"
)

func benchConfig() config.Config {
	cfg := config.Default()
	cfg.DefaultBalance = 1 << 50 // bidders never run out during a benchmark
	cfg.MinIncrement = 1
	cfg.Duration = time.Hour
	return cfg
}

func setupEngine(b *testing.B, numSessions int) (*engine.Engine, []string) {
	cfg := benchConfig()
	e := engine.New(cfg, repository.NewMemoryStore())
	b.Cleanup(e.Shutdown)

	ids := make([]string, numSessions)
	for i := 0; i < numSessions; i++ {
		item := models.Item{
			ItemID:    fmt.Sprintf("item_%d", i),
			Name:      fmt.Sprintf("Benchmark Item %d", i),
			BasePrice: 1,
		}
		id, err := e.StartSession(fmt.Sprintf("group_%d", i), item, 1, models.ModeAuto, time.Hour)
		if err != nil {
			b.Fatalf("failed to start session: %v", err)
		}
		ids[i] = id
	}
	return e, ids
}

// Benchmark 1: SubmitBid - Isolated Sessions (Low Contention - Micro Benchmark)
func Benchmark_SubmitBid_Isolated(b *testing.B) {
	const numSessions = 256
	e, ids := setupEngine(b, numSessions)
	prices := make([]int64, numSessions)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		s := i % numSessions
		amount := atomic.AddInt64(&prices[s], 1)
		bidderID := fmt.Sprintf("bidder_%d", i)
		if _, err := e.SubmitBid(ids[s], bidderID, amount); err != nil {
			b.Fatalf("failed to submit bid: %v", err)
		}
	}
}

// Benchmark 2: SubmitBid - Shared Session (High Contention - Concurrency Benchmark)
func Benchmark_SubmitBid_ConcurrentSharedSession(b *testing.B) {
	e, ids := setupEngine(b, 1)
	sessionID := ids[0]

	b.ReportAllocs()
	b.ResetTimer()

	var lastBid int64 = 1

	b.RunParallel(func(pb *testing.PB) {
		rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
		for pb.Next() {
			bidderID := fmt.Sprintf("bidder_parallel_%d", rnd.Int())

			// Racing bidders overshoot each other; losers are rejected with
			// the live price, which is exactly the contended path.
			nextBid := atomic.AddInt64(&lastBid, int64(rnd.Intn(5)+1))
			_, _ = e.SubmitBid(sessionID, bidderID, nextBid)
		}
	})
}

// Benchmark 3: Query - Single-Threaded (Low Contention)
func Benchmark_Query_SingleThreaded(b *testing.B) {
	const numSessions = 256
	e, ids := setupEngine(b, numSessions)

	for i, id := range ids {
		for j := 0; j < 10; j++ {
			bidderID := fmt.Sprintf("bidder_%d_%d", i, j)
			if _, err := e.SubmitBid(id, bidderID, int64(j+1)); err != nil {
				b.Fatalf("failed to seed bid: %v", err)
			}
		}
	}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := e.Query(ids[i%numSessions]); err != nil {
			b.Fatalf("failed to query session: %v", err)
		}
	}
}

// Benchmark 4: Query - Concurrent (High Contention)
func Benchmark_Query_ConcurrentSharedSession(b *testing.B) {
	e, ids := setupEngine(b, 1)
	sessionID := ids[0]

	for j := 0; j < 100; j++ {
		bidderID := fmt.Sprintf("bidder_%d", j)
		if _, err := e.SubmitBid(sessionID, bidderID, int64(j+1)); err != nil {
			b.Fatalf("failed to seed bid: %v", err)
		}
	}

	b.ReportAllocs()
	b.ResetTimer()

	var counter int64

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := e.Query(sessionID); err != nil {
				b.Fatalf("failed to query session: %v", err)
			}
			atomic.AddInt64(&counter, 1)
		}
	})
}

// Benchmark 5: Mixed Workload (Readers + Writers concurrently)
func Benchmark_MixedWorkload_SharedSession(b *testing.B) {
	e, ids := setupEngine(b, 1)
	sessionID := ids[0]

	for j := 0; j < 50; j++ {
		bidderID := fmt.Sprintf("bidder_seed_%d", j)
		if _, err := e.SubmitBid(sessionID, bidderID, int64(j+1)); err != nil {
			b.Fatalf("failed to seed bid: %v", err)
		}
	}

	b.ReportAllocs()
	b.ResetTimer()

	var lastBid int64 = 50
	var counter int64

	// Ratio: 70% readers, 30% writers
	b.RunParallel(func(pb *testing.PB) {
		rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
		for pb.Next() {
			opType := rnd.Intn(10)
			switch {
			case opType < 3:
				// Writer: submit a new bid
				bidderID := fmt.Sprintf("bidder_writer_%d", rnd.Int())
				nextBid := atomic.AddInt64(&lastBid, int64(rnd.Intn(5)+1))
				_, _ = e.SubmitBid(sessionID, bidderID, nextBid)
			default:
				// Reader: query the live snapshot
				if _, err := e.Query(sessionID); err != nil {
					b.Fatalf("failed to query session: %v", err)
				}
			}
			atomic.AddInt64(&counter, 1)
		}
	})
}
