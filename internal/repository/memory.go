package repository

import (
	"fmt"
	"sync"

	"auction-engine/internal/auctionerrors"
	"auction-engine/internal/models"
)

// MemoryStore is a concurrency-safe in-memory implementation of AuctionStore.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]models.Session
	accounts map[string]models.BidderAccount
	bids     map[string][]models.Bid // key: sessionID -> ordered bid records
}

// NewMemoryStore creates a new in-memory store instance.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]models.Session),
		accounts: make(map[string]models.BidderAccount),
		bids:     make(map[string][]models.Bid),
	}
}

// SaveSession upserts a session record.
func (m *MemoryStore) SaveSession(s models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.SessionID] = s
	return nil
}

// LoadSession returns a session record by id.
func (m *MemoryStore) LoadSession(sessionID string) (models.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[sessionID]
	if !ok {
		return models.Session{}, fmt.Errorf("store: load session %s: %w", sessionID, auctionerrors.ErrSessionNotFound)
	}
	return s, nil
}

// SaveAccount upserts a bidder account record.
func (m *MemoryStore) SaveAccount(a models.BidderAccount) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[a.BidderID] = a
	return nil
}

// LoadAccount returns a bidder account record by id.
func (m *MemoryStore) LoadAccount(bidderID string) (models.BidderAccount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.accounts[bidderID]
	if !ok {
		return models.BidderAccount{}, fmt.Errorf("store: load account %s: %w", bidderID, auctionerrors.ErrBidderNotFound)
	}
	return a, nil
}

// AppendBid records one bid ledger entry.
func (m *MemoryStore) AppendBid(b models.Bid) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bids[b.SessionID] = append(m.bids[b.SessionID], b)
	return nil
}

// ListBids returns the ordered bid records for a session.
func (m *MemoryStore) ListBids(sessionID string) ([]models.Bid, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.Bid(nil), m.bids[sessionID]...), nil
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error {
	return nil
}
