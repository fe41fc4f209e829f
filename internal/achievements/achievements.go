// Package achievements evaluates threshold-based achievement predicates
// against a bidder's cumulative statistics.
package achievements

import (
	"sort"

	"auction-engine/internal/models"
)

// Achievement is one unlockable badge with its predicate.
type Achievement struct {
	ID          string
	Name        string
	Points      int
	Description string
	Unlocked    func(models.BidderStats) bool
}

// Catalogue returns the built-in achievement set.
func Catalogue() []Achievement {
	return []Achievement{
		{
			ID: "first_bid", Name: "First Blood", Points: 10,
			Description: "Place your first bid",
			Unlocked:    func(s models.BidderStats) bool { return s.BidsPlaced >= 1 },
		},
		{
			ID: "win_auction", Name: "Winner Winner", Points: 20,
			Description: "Win your first auction",
			Unlocked:    func(s models.BidderStats) bool { return s.AuctionsWon >= 1 },
		},
		{
			ID: "bid_warrior", Name: "Bid Warrior", Points: 50,
			Description: "Win 10 auctions",
			Unlocked:    func(s models.BidderStats) bool { return s.AuctionsWon >= 10 },
		},
		{
			ID: "auction_master", Name: "Auction Master", Points: 500,
			Description: "Win 50 auctions",
			Unlocked:    func(s models.BidderStats) bool { return s.AuctionsWon >= 50 },
		},
		{
			ID: "big_spender", Name: "Big Spender", Points: 100,
			Description: "Spend over 100M total",
			Unlocked:    func(s models.BidderStats) bool { return s.TotalSpent >= 100_000_000 },
		},
		{
			ID: "perfect_team", Name: "Perfect XI", Points: 200,
			Description: "Build a roster of 11 items",
			Unlocked:    func(s models.BidderStats) bool { return len(s.Roster) >= 11 },
		},
		{
			ID: "millionaire", Name: "Millionaire Club", Points: 150,
			Description: "Maintain a 100M+ balance",
			Unlocked:    func(s models.BidderStats) bool { return s.Available >= 100_000_000 },
		},
	}
}

// Evaluator computes newly satisfied achievements. It is a pure function of
// the stats snapshot and the already-unlocked set: evaluating twice with
// identical inputs returns nothing the second time.
type Evaluator struct {
	catalogue []Achievement
}

// NewEvaluator creates an evaluator over the given catalogue.
func NewEvaluator(catalogue []Achievement) *Evaluator {
	return &Evaluator{catalogue: catalogue}
}

// Evaluate returns the IDs of achievements whose predicate holds for stats
// and that are not in unlocked, sorted for stable output.
func (e *Evaluator) Evaluate(stats models.BidderStats, unlocked map[string]bool) []string {
	var fresh []string
	for _, a := range e.catalogue {
		if unlocked[a.ID] {
			continue
		}
		if a.Unlocked(stats) {
			fresh = append(fresh, a.ID)
		}
	}
	sort.Strings(fresh)
	return fresh
}

// Lookup returns the achievement with the given ID.
func Lookup(id string) (Achievement, bool) {
	for _, a := range Catalogue() {
		if a.ID == id {
			return a, true
		}
	}
	return Achievement{}, false
}
