package helpers

// Request/Response DTOs
type ItemPayload struct {
	ItemID    string `json:"item_id" binding:"required"`
	Name      string `json:"name" binding:"required"`
	Position  string `json:"position"`
	Rating    int    `json:"rating"`
	BasePrice int64  `json:"base_price"`
}

type StartSessionRequest struct {
	GroupID       string      `json:"group_id" binding:"required"`
	Item          ItemPayload `json:"item" binding:"required"`
	StartingPrice int64       `json:"starting_price"`
	Mode          string      `json:"mode"`
	DurationSec   int64       `json:"duration_sec"`
}

type StartSessionResponse struct {
	SessionID string `json:"session_id"`
}

type PlaceBidRequest struct {
	BidderID string `json:"bidder_id" binding:"required"`
	Amount   int64  `json:"amount" binding:"required,gt=0"`
}

type BidDecisionResponse struct {
	Accepted bool   `json:"accepted"`
	Seq      int64  `json:"seq,omitempty"`
	Leader   string `json:"leader,omitempty"`
	Price    int64  `json:"price"`
}
