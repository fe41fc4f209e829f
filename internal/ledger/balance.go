package ledger

import (
	"fmt"
	"sort"
	"sync"

	"auction-engine/internal/auctionerrors"
	"auction-engine/internal/models"
)

// account holds one bidder's funds and stats. Each account carries its own
// mutex so concurrent operations on different bidders never contend.
type account struct {
	mu           sync.Mutex
	available    int64
	holds        map[string]int64 // sessionID -> reserved amount
	stats        models.BidderStats
	achievements map[string]bool
}

func (a *account) reservedTotal() int64 {
	var total int64
	for _, amt := range a.holds {
		total += amt
	}
	return total
}

// AccountLoader fetches a bidder's persisted record. The book consults it
// exactly when an account is first touched; a load error of any kind falls
// back to a fresh account with the default balance.
type AccountLoader func(bidderID string) (models.BidderAccount, error)

// BalanceBook is the balance ledger for all bidders. Accounts are created
// lazily on first touch: hydrated from the loader when a persisted record
// exists, seeded with the configured default balance otherwise. Mutating
// operations on one bidder are atomic with respect to each other: available
// is never observed temporarily negative and a hold is never released twice.
type BalanceBook struct {
	mu             sync.RWMutex
	accounts       map[string]*account
	defaultBalance int64
	loader         AccountLoader
}

// NewBalanceBook creates a balance ledger seeding new accounts with
// defaultBalance credits. A non-nil loader hydrates first-touched accounts
// from persistence, so restarts keep balances, stats and achievements.
func NewBalanceBook(defaultBalance int64, loader AccountLoader) *BalanceBook {
	return &BalanceBook{
		accounts:       make(map[string]*account),
		defaultBalance: defaultBalance,
		loader:         loader,
	}
}

func (b *BalanceBook) get(bidderID string) *account {
	b.mu.RLock()
	acc, ok := b.accounts[bidderID]
	b.mu.RUnlock()
	if ok {
		return acc
	}

	// Hydrate outside the book lock; concurrent first touches are settled
	// by the double-check below, so exactly one account wins and no caller
	// ever sees a half-restored record.
	acc = b.hydrate(bidderID)

	b.mu.Lock()
	defer b.mu.Unlock()
	if existing, ok := b.accounts[bidderID]; ok {
		return existing
	}
	b.accounts[bidderID] = acc
	return acc
}

func (b *BalanceBook) hydrate(bidderID string) *account {
	acc := &account{
		available:    b.defaultBalance,
		holds:        make(map[string]int64),
		achievements: make(map[string]bool),
	}
	if b.loader == nil {
		return acc
	}
	rec, err := b.loader(bidderID)
	if err != nil {
		return acc
	}
	acc.available = rec.Available
	acc.stats = rec.Stats
	acc.stats.Roster = append([]string(nil), rec.Stats.Roster...)
	for _, id := range rec.Achievements {
		acc.achievements[id] = true
	}
	return acc
}

// Reserve earmarks amount against the bidder's available balance for a
// leading bid in sessionID, replacing any prior hold for the same session.
// Fails ErrInsufficientBalance leaving state unchanged.
func (b *BalanceBook) Reserve(bidderID, sessionID string, amount int64) error {
	acc := b.get(bidderID)
	acc.mu.Lock()
	defer acc.mu.Unlock()

	delta := amount - acc.holds[sessionID]
	if acc.available < delta {
		return fmt.Errorf("ledger: reserve %d for %s: %w", amount, bidderID, auctionerrors.ErrInsufficientBalance)
	}
	acc.available -= delta
	acc.holds[sessionID] = amount
	return nil
}

// Release returns the hold for sessionID to the bidder's available balance
// and reports the released amount.
func (b *BalanceBook) Release(bidderID, sessionID string) (int64, error) {
	acc := b.get(bidderID)
	acc.mu.Lock()
	defer acc.mu.Unlock()

	amount, ok := acc.holds[sessionID]
	if !ok {
		return 0, fmt.Errorf("ledger: release for %s in %s: %w", bidderID, sessionID, auctionerrors.ErrNoSuchReservation)
	}
	delete(acc.holds, sessionID)
	acc.available += amount
	return amount, nil
}

// Commit converts the hold for sessionID into a debit. A missing hold is an
// integrity failure (ErrNoSuchReservation), not a recoverable condition.
func (b *BalanceBook) Commit(bidderID, sessionID string) (int64, error) {
	acc := b.get(bidderID)
	acc.mu.Lock()
	defer acc.mu.Unlock()

	amount, ok := acc.holds[sessionID]
	if !ok {
		return 0, fmt.Errorf("ledger: commit for %s in %s: %w", bidderID, sessionID, auctionerrors.ErrNoSuchReservation)
	}
	delete(acc.holds, sessionID)
	return amount, nil
}

// Balance returns the bidder's available and reserved totals as one
// consistent pair.
func (b *BalanceBook) Balance(bidderID string) (available, reserved int64) {
	acc := b.get(bidderID)
	acc.mu.Lock()
	defer acc.mu.Unlock()
	return acc.available, acc.reservedTotal()
}

// RecordBid increments the bidder's placed-bid counter.
func (b *BalanceBook) RecordBid(bidderID string) {
	acc := b.get(bidderID)
	acc.mu.Lock()
	defer acc.mu.Unlock()
	acc.stats.BidsPlaced++
}

// RecordWin updates the bidder's cumulative stats after a committed sale.
func (b *BalanceBook) RecordWin(bidderID, itemID string, amount int64) {
	acc := b.get(bidderID)
	acc.mu.Lock()
	defer acc.mu.Unlock()
	acc.stats.AuctionsWon++
	acc.stats.TotalSpent += amount
	acc.stats.Roster = append(acc.stats.Roster, itemID)
}

// Stats returns a snapshot of the bidder's cumulative statistics, including
// the available balance at snapshot time.
func (b *BalanceBook) Stats(bidderID string) models.BidderStats {
	acc := b.get(bidderID)
	acc.mu.Lock()
	defer acc.mu.Unlock()

	stats := acc.stats
	stats.Roster = append([]string(nil), acc.stats.Roster...)
	stats.Available = acc.available
	return stats
}

// Unlocked returns a copy of the bidder's unlocked achievement set.
func (b *BalanceBook) Unlocked(bidderID string) map[string]bool {
	acc := b.get(bidderID)
	acc.mu.Lock()
	defer acc.mu.Unlock()

	out := make(map[string]bool, len(acc.achievements))
	for id := range acc.achievements {
		out[id] = true
	}
	return out
}

// AddUnlocked records newly unlocked achievements for the bidder.
func (b *BalanceBook) AddUnlocked(bidderID string, ids []string) {
	acc := b.get(bidderID)
	acc.mu.Lock()
	defer acc.mu.Unlock()
	for _, id := range ids {
		acc.achievements[id] = true
	}
}

// Account returns the bidder's full persistent record.
func (b *BalanceBook) Account(bidderID string) models.BidderAccount {
	acc := b.get(bidderID)
	acc.mu.Lock()
	defer acc.mu.Unlock()

	unlocked := make([]string, 0, len(acc.achievements))
	for id := range acc.achievements {
		unlocked = append(unlocked, id)
	}
	sort.Strings(unlocked)

	stats := acc.stats
	stats.Roster = append([]string(nil), acc.stats.Roster...)
	stats.Available = acc.available

	return models.BidderAccount{
		BidderID:     bidderID,
		Available:    acc.available,
		Reserved:     acc.reservedTotal(),
		Stats:        stats,
		Achievements: unlocked,
	}
}
