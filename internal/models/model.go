package models

import "time"

// Mode selects how a session resolves: Auto resolves on timer expiry,
// Manual requires an explicit final call followed by resolve.
type Mode string

const (
	ModeAuto   Mode = "auto"
	ModeManual Mode = "manual"
)

// SessionState is the lifecycle state of an auction session.
type SessionState string

const (
	StateActive      SessionState = "active"
	StatePaused      SessionState = "paused"
	StateFinalCall   SessionState = "final_call"
	StateSold        SessionState = "sold"
	StateUnsold      SessionState = "unsold"
	StateClosed      SessionState = "closed"
	StateQuarantined SessionState = "quarantined"
)

// Resolved reports whether the state is one of the terminal outcomes.
func (s SessionState) Resolved() bool {
	return s == StateSold || s == StateUnsold
}

// Item represents the virtual item under auction.
type Item struct {
	ItemID    string `json:"item_id"`
	Name      string `json:"name"`
	Position  string `json:"position,omitempty"`
	Rating    int    `json:"rating,omitempty"`
	BasePrice int64  `json:"base_price"`
}

// Session is the persistent record of one auction session.
type Session struct {
	SessionID     string       `json:"session_id"`
	GroupID       string       `json:"group_id"`
	Item          Item         `json:"item"`
	StartingPrice int64        `json:"starting_price"`
	Mode          Mode         `json:"mode"`
	State         SessionState `json:"state"`
	Leader        string       `json:"leader,omitempty"`
	CurrentPrice  int64        `json:"current_price"`
	Duration      int64        `json:"duration_sec"`
	CreatedAt     time.Time    `json:"created_at"`
	ResolvedAt    time.Time    `json:"resolved_at,omitempty"`
}

// Bid is an immutable ledger entry. A compensating entry carries Voids set to
// the sequence number it cancels; the cancelled entry is flagged Voided.
type Bid struct {
	BidID     string    `json:"bid_id"`
	SessionID string    `json:"session_id"`
	BidderID  string    `json:"bidder_id"`
	Amount    int64     `json:"amount"`
	Seq       int64     `json:"seq"`
	PlacedAt  time.Time `json:"placed_at"`
	Voided    bool      `json:"voided,omitempty"`
	Voids     int64     `json:"voids,omitempty"`
}

// Compensating reports whether the entry voids a prior bid rather than
// placing a new one.
func (b Bid) Compensating() bool {
	return b.Voids != 0
}

// BidderStats are the cumulative statistics achievements are evaluated
// against. Available mirrors the account balance at snapshot time.
type BidderStats struct {
	BidsPlaced  int      `json:"bids_placed"`
	AuctionsWon int      `json:"auctions_won"`
	TotalSpent  int64    `json:"total_spent"`
	Roster      []string `json:"roster"`
	Available   int64    `json:"available"`
}

// BidderAccount is the persistent record of one bidder.
type BidderAccount struct {
	BidderID     string      `json:"bidder_id"`
	Available    int64       `json:"available"`
	Reserved     int64       `json:"reserved"`
	Stats        BidderStats `json:"stats"`
	Achievements []string    `json:"achievements"`
}

// BidDecision is the definitive outcome of one bid submission. Leader and
// Price always carry the authoritative values, also on rejection, so the
// messaging layer can tell the bidder why without a follow-up query.
type BidDecision struct {
	Accepted bool   `json:"accepted"`
	Seq      int64  `json:"seq,omitempty"`
	Leader   string `json:"leader,omitempty"`
	Price    int64  `json:"price"`
}

// SessionView is a consistent snapshot of a session for queries.
type SessionView struct {
	SessionID string        `json:"session_id"`
	GroupID   string        `json:"group_id"`
	Item      Item          `json:"item"`
	Mode      Mode          `json:"mode"`
	State     SessionState  `json:"state"`
	Leader    string        `json:"leader,omitempty"`
	Price     int64         `json:"price"`
	Remaining time.Duration `json:"remaining_ms"`
	BidCount  int           `json:"bid_count"`
}

// EventType identifies an engine event consumed by the messaging layer.
type EventType string

const (
	EventBidAccepted          EventType = "bid_accepted"
	EventTierChanged          EventType = "urgency_tier_changed"
	EventSessionResolved      EventType = "session_resolved"
	EventAchievementsUnlocked EventType = "achievements_unlocked"
	EventSessionQuarantined   EventType = "session_quarantined"
)

// Event is one entry on the engine's outbound event stream.
type Event struct {
	Type         EventType     `json:"type"`
	SessionID    string        `json:"session_id,omitempty"`
	GroupID      string        `json:"group_id,omitempty"`
	BidderID     string        `json:"bidder_id,omitempty"`
	Amount       int64         `json:"amount,omitempty"`
	Seq          int64         `json:"seq,omitempty"`
	Tier         string        `json:"tier,omitempty"`
	Remaining    time.Duration `json:"remaining,omitempty"`
	Outcome      SessionState  `json:"outcome,omitempty"`
	Achievements []string      `json:"achievements,omitempty"`
	At           time.Time     `json:"at"`
}
