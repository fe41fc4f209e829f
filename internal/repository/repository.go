package repository

import "auction-engine/internal/models"

//go:generate mockgen -source=repository.go -destination=mock_store.go -package=repository

// AuctionStore is the durable store collaborator. The engine only requires
// this mapping abstraction; persistence schema is the implementation's
// concern. All calls happen outside engine locks, on the write-behind queue.
type AuctionStore interface {
	SaveSession(s models.Session) error
	LoadSession(sessionID string) (models.Session, error)
	SaveAccount(a models.BidderAccount) error
	LoadAccount(bidderID string) (models.BidderAccount, error)
	AppendBid(b models.Bid) error
	ListBids(sessionID string) ([]models.Bid, error)
	Close() error
}
