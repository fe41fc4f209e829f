package ledger

import (
	"fmt"
	"sync"
	"time"

	"auction-engine/internal/auctionerrors"
	"auction-engine/internal/models"
	"auction-engine/utils"
)

// BidLog is the append-only bid record of one session. Entries are never
// mutated or removed: an undo appends a compensating entry referencing the
// voided sequence number, so the audit trail stays complete. Sequence numbers
// are strictly increasing with no gaps.
type BidLog struct {
	mu        sync.RWMutex
	sessionID string
	entries   []models.Bid
	leaderIdx int // index of the current leading entry, -1 when none
}

// NewBidLog creates an empty bid log for a session.
func NewBidLog(sessionID string) *BidLog {
	return &BidLog{
		sessionID: sessionID,
		leaderIdx: -1,
	}
}

// Append records an accepted bid and returns it with its sequence number
// assigned. Returns ErrSequenceGap if the internal sequence is inconsistent.
func (l *BidLog) Append(bidderID string, amount int64) (models.Bid, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	seq := int64(len(l.entries)) + 1
	if len(l.entries) > 0 && l.entries[len(l.entries)-1].Seq != seq-1 {
		return models.Bid{}, fmt.Errorf("ledger: session %s: %w", l.sessionID, auctionerrors.ErrSequenceGap)
	}

	bid := models.Bid{
		BidID:     utils.GenerateID(),
		SessionID: l.sessionID,
		BidderID:  bidderID,
		Amount:    amount,
		Seq:       seq,
		PlacedAt:  time.Now().UTC(),
	}
	l.entries = append(l.entries, bid)
	l.leaderIdx = len(l.entries) - 1
	return bid, nil
}

// Leader returns the current leading bidder and amount. ok is false when no
// non-voided bid exists.
func (l *BidLog) Leader() (bidderID string, amount int64, ok bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.leaderIdx < 0 {
		return "", 0, false
	}
	e := l.entries[l.leaderIdx]
	return e.BidderID, e.Amount, true
}

// PeekUndo reports, without mutating the log, which bid an undo would void
// and which prior bid would be restored as leader (nil when none).
func (l *BidLog) PeekUndo() (last models.Bid, restored *models.Bid, err error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.leaderIdx < 0 {
		return models.Bid{}, nil, fmt.Errorf("ledger: session %s: %w", l.sessionID, auctionerrors.ErrNoBidsToUndo)
	}
	last = l.entries[l.leaderIdx]
	for i := l.leaderIdx - 1; i >= 0; i-- {
		e := l.entries[i]
		if !e.Voided && !e.Compensating() {
			prev := e
			restored = &prev
			break
		}
	}
	return last, restored, nil
}

// VoidLast appends a compensating entry for the most recent non-voided bid
// and returns the voided bid plus the restored leader (nil when the log is
// left without a leader). Returns ErrNoBidsToUndo on an empty log.
func (l *BidLog) VoidLast() (voided models.Bid, restored *models.Bid, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.leaderIdx < 0 {
		return models.Bid{}, nil, fmt.Errorf("ledger: session %s: %w", l.sessionID, auctionerrors.ErrNoBidsToUndo)
	}

	target := l.leaderIdx
	l.entries[target].Voided = true
	voided = l.entries[target]

	comp := models.Bid{
		BidID:     utils.GenerateID(),
		SessionID: l.sessionID,
		BidderID:  voided.BidderID,
		Amount:    voided.Amount,
		Seq:       int64(len(l.entries)) + 1,
		PlacedAt:  time.Now().UTC(),
		Voids:     voided.Seq,
	}
	l.entries = append(l.entries, comp)

	l.leaderIdx = -1
	for i := target - 1; i >= 0; i-- {
		e := l.entries[i]
		if !e.Voided && !e.Compensating() {
			l.leaderIdx = i
			prev := e
			restored = &prev
			break
		}
	}
	return voided, restored, nil
}

// History returns the ordered entries, compensating records included.
func (l *BidLog) History() []models.Bid {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]models.Bid(nil), l.entries...)
}

// ActiveBids counts non-voided, non-compensating entries.
func (l *BidLog) ActiveBids() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	n := 0
	for _, e := range l.entries {
		if !e.Voided && !e.Compensating() {
			n++
		}
	}
	return n
}
