package auctionerrors

import "errors"

// Validation errors: recoverable, returned to the caller, no state mutated.
var (
	ErrInvalidState        = errors.New("operation not valid in current session state")
	ErrStaleSession        = errors.New("session is no longer accepting bids")
	ErrBidTooLow           = errors.New("bid amount too low")
	ErrInsufficientBalance = errors.New("insufficient available balance")
	ErrSameBidder          = errors.New("bidder already holds the leading bid")
	ErrNoBidsToUndo        = errors.New("no bids to undo")
	ErrInvalidRequest      = errors.New("invalid request")
)

// Concurrency errors: recoverable, the caller may retry; no partial mutation.
var (
	ErrTimeout = errors.New("bid decision timed out")
)

// Integrity errors: fatal for the affected session, which is quarantined for
// admin intervention. Never auto-corrected.
var (
	ErrNoSuchReservation  = errors.New("no matching reservation")
	ErrSequenceGap        = errors.New("bid ledger sequence gap detected")
	ErrSessionQuarantined = errors.New("session quarantined, admin intervention required")
)

// Registry errors
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrGroupBusy       = errors.New("group already has an active session")
	ErrBidderNotFound  = errors.New("bidder not found")
)
