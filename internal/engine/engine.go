// Package engine implements the auction session engine: the state machine
// and concurrency arbiter that admit bids, drive countdowns, resolve
// outcomes and mutate bidder balances.
package engine

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"auction-engine/internal/achievements"
	"auction-engine/internal/auctionerrors"
	"auction-engine/internal/config"
	"auction-engine/internal/countdown"
	"auction-engine/internal/ledger"
	"auction-engine/internal/models"
	"auction-engine/internal/repository"
	"auction-engine/utils"
)

type persistOp struct {
	label string
	fn    func() error
}

// Engine is the facade the command layer talks to. It maps each auction
// group to at most one live session, shares one balance ledger across all
// sessions, and emits events for the messaging layer to deliver. It never
// calls back into the transport.
type Engine struct {
	cfg       config.Config
	balances  *ledger.BalanceBook
	evaluator *achievements.Evaluator
	store     repository.AuctionStore

	events    chan models.Event
	persistCh chan persistOp

	mu       sync.RWMutex
	groups   map[string]*session // groupID -> live session occupying the slot
	sessions map[string]*session // sessionID -> live session

	quit     chan struct{}
	stopOnce sync.Once
}

// New creates an engine over the given store and starts the write-behind
// persistence worker.
func New(cfg config.Config, store repository.AuctionStore) *Engine {
	e := &Engine{
		cfg:       cfg,
		balances:  ledger.NewBalanceBook(cfg.DefaultBalance, store.LoadAccount),
		evaluator: achievements.NewEvaluator(achievements.Catalogue()),
		store:     store,
		events:    make(chan models.Event, 64),
		persistCh: make(chan persistOp, 256),
		groups:    make(map[string]*session),
		sessions:  make(map[string]*session),
		quit:      make(chan struct{}),
	}
	go e.persistLoop()
	return e
}

// Events returns the outbound event stream consumed by the messaging layer.
func (e *Engine) Events() <-chan models.Event {
	return e.events
}

// emit delivers an event without ever blocking engine progress; a slow or
// absent consumer loses events rather than stalling bid decisions.
func (e *Engine) emit(ev models.Event) {
	select {
	case e.events <- ev:
	default:
		utils.Warn("event dropped, consumer too slow", map[string]any{
			"type":       string(ev.Type),
			"session_id": ev.SessionID,
		})
	}
}

// persist queues a durability write. Writes run on a dedicated worker so no
// store I/O ever happens inside a session's serialization boundary.
func (e *Engine) persist(label string, fn func() error) {
	select {
	case e.persistCh <- persistOp{label: label, fn: fn}:
	case <-e.quit:
	}
}

func (e *Engine) persistLoop() {
	for {
		select {
		case op := <-e.persistCh:
			if err := op.fn(); err != nil {
				utils.Error("durability write failed", map[string]any{"op": op.label, "error": err.Error()})
			}
		case <-e.quit:
			for {
				select {
				case op := <-e.persistCh:
					if err := op.fn(); err != nil {
						utils.Error("durability write failed", map[string]any{"op": op.label, "error": err.Error()})
					}
				default:
					return
				}
			}
		}
	}
}

func (e *Engine) services() services {
	return services{
		cfg:       e.cfg,
		balances:  e.balances,
		evaluator: e.evaluator,
		store:     e.store,
		emit:      e.emit,
		persist:   e.persist,
	}
}

// StartSession opens a new auction session for the group. Fails ErrGroupBusy
// while the group slot holds any non-closed session. Zero startingPrice
// falls back to the item's base price, zero duration to the configured
// default, empty mode to auto.
func (e *Engine) StartSession(groupID string, item models.Item, startingPrice int64, mode models.Mode, duration time.Duration) (string, error) {
	if groupID == "" || item.ItemID == "" {
		return "", fmt.Errorf("engine: missing group or item id: %w", auctionerrors.ErrInvalidRequest)
	}
	if startingPrice <= 0 {
		startingPrice = item.BasePrice
	}
	if startingPrice <= 0 {
		return "", fmt.Errorf("engine: non-positive starting price: %w", auctionerrors.ErrInvalidRequest)
	}
	if duration <= 0 {
		duration = e.cfg.Duration
	}
	switch mode {
	case models.ModeAuto, models.ModeManual:
	case "":
		mode = models.ModeAuto
	default:
		return "", fmt.Errorf("engine: unknown mode %q: %w", mode, auctionerrors.ErrInvalidRequest)
	}

	e.mu.Lock()
	if _, busy := e.groups[groupID]; busy {
		e.mu.Unlock()
		return "", fmt.Errorf("engine: group %s: %w", groupID, auctionerrors.ErrGroupBusy)
	}
	s := newSession(groupID, item, startingPrice, mode, duration, e.services())
	// Register only once the countdown is running; a session that failed to
	// start must not occupy the group slot.
	if err := s.timer.Start(duration); err != nil {
		e.mu.Unlock()
		s.arb.stop()
		return "", fmt.Errorf("engine: start countdown for %s: %w", s.id, err)
	}
	e.groups[groupID] = s
	e.sessions[s.id] = s
	e.mu.Unlock()

	go e.pump(s)

	rec := s.record()
	e.persist("save session", func() error { return e.store.SaveSession(rec) })

	utils.Info("session started", map[string]any{
		"session_id": s.id,
		"group_id":   groupID,
		"item":       item.Name,
		"price":      startingPrice,
		"mode":       string(mode),
	})
	return s.id, nil
}

// pump forwards countdown notifications for one session: tier changes go out
// on the event stream, expiry enters the session's arbiter so resolution
// takes an atomic position in the bid total order.
func (e *Engine) pump(s *session) {
	for ev := range s.timer.Events() {
		switch ev.Kind {
		case countdown.TierChanged:
			e.emit(models.Event{
				Type:      models.EventTierChanged,
				SessionID: s.id,
				GroupID:   s.groupID,
				Tier:      ev.Tier.String(),
				Remaining: ev.Remaining,
				At:        time.Now().UTC(),
			})
		case countdown.Expired:
			e.settleExpiry(s)
		}
	}
}

// settleExpiry pushes the one-shot expiry decision through the arbiter.
// The countdown never fires again, so a timed-out decision is retried until
// it lands; each attempt blocks for the decision window, which paces the
// loop. A stopped arbiter means the session was closed underneath the timer
// and the expiry is moot.
func (e *Engine) settleExpiry(s *session) {
	for {
		err := s.arb.do(s.onExpiry)
		if err == nil || errors.Is(err, auctionerrors.ErrStaleSession) {
			return
		}
		utils.Warn("expiry decision stalled, retrying", map[string]any{"session_id": s.id, "error": err.Error()})
		select {
		case <-e.quit:
			return
		default:
		}
	}
}

func (e *Engine) lookup(sessionID string) (*session, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	s, ok := e.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("engine: session %s: %w", sessionID, auctionerrors.ErrSessionNotFound)
	}
	return s, nil
}

// SubmitBid submits one bid into the session's serialization boundary and
// returns its definitive outcome. On arbiter timeout the decision carries
// the last observed leader/price and no state was mutated.
func (e *Engine) SubmitBid(sessionID, bidderID string, amount int64) (models.BidDecision, error) {
	if bidderID == "" || amount <= 0 {
		return models.BidDecision{}, fmt.Errorf("engine: missing bidder or non-positive amount: %w", auctionerrors.ErrInvalidRequest)
	}
	s, err := e.lookup(sessionID)
	if err != nil {
		return models.BidDecision{}, err
	}

	var decision models.BidDecision
	var opErr error
	if err := s.arb.do(func() {
		decision, opErr = s.submitBid(bidderID, amount)
	}); err != nil {
		v := s.view()
		return models.BidDecision{Leader: v.Leader, Price: v.Price}, err
	}
	return decision, opErr
}

func (e *Engine) withSession(sessionID string, fn func(*session) error) error {
	s, err := e.lookup(sessionID)
	if err != nil {
		return err
	}
	var opErr error
	if err := s.arb.do(func() { opErr = fn(s) }); err != nil {
		return err
	}
	return opErr
}

// Pause freezes the session's countdown.
func (e *Engine) Pause(sessionID string) error {
	return e.withSession(sessionID, (*session).pause)
}

// Resume restores a paused session's countdown unchanged.
func (e *Engine) Resume(sessionID string) error {
	return e.withSession(sessionID, (*session).resume)
}

// Skip resolves a bidless session as unsold.
func (e *Engine) Skip(sessionID string) error {
	return e.withSession(sessionID, (*session).skip)
}

// FinalCall arms manual resolution for a manual-mode session.
func (e *Engine) FinalCall(sessionID string) error {
	return e.withSession(sessionID, (*session).finalCall)
}

// Resolve triggers the resolution armed by FinalCall.
func (e *Engine) Resolve(sessionID string) error {
	return e.withSession(sessionID, (*session).resolveCmd)
}

// UndoLastBid voids the most recent bid and restores the previous leader.
func (e *Engine) UndoLastBid(sessionID string) error {
	return e.withSession(sessionID, (*session).undoLastBid)
}

// CloseSession archives a resolved session and frees the group slot. The
// archived record is flushed through the write-behind queue before the
// session leaves the in-memory maps, so a query racing the close finds the
// session either live or in the store, never in a gap between the two.
func (e *Engine) CloseSession(sessionID string) error {
	s, err := e.lookup(sessionID)
	if err != nil {
		return err
	}
	if err := e.withSession(sessionID, (*session).closeSession); err != nil {
		return err
	}

	rec := s.record()
	flushed := make(chan struct{})
	e.persist("save session", func() error {
		defer close(flushed)
		return e.store.SaveSession(rec)
	})
	select {
	case <-flushed:
	case <-e.quit:
		// Shutting down; the drain pass owns any queued writes.
	}

	e.mu.Lock()
	if e.groups[s.groupID] == s {
		delete(e.groups, s.groupID)
	}
	delete(e.sessions, sessionID)
	e.mu.Unlock()

	s.arb.stop()
	return nil
}

// Query returns a consistent snapshot of a session. Closed sessions are
// served from the store.
func (e *Engine) Query(sessionID string) (models.SessionView, error) {
	if s, err := e.lookup(sessionID); err == nil {
		return s.view(), nil
	}

	rec, err := e.store.LoadSession(sessionID)
	if err != nil {
		return models.SessionView{}, err
	}
	bids, err := e.store.ListBids(sessionID)
	if err != nil {
		return models.SessionView{}, err
	}
	count := 0
	for _, b := range bids {
		if !b.Voided && !b.Compensating() {
			count++
		}
	}
	return models.SessionView{
		SessionID: rec.SessionID,
		GroupID:   rec.GroupID,
		Item:      rec.Item,
		Mode:      rec.Mode,
		State:     rec.State,
		Leader:    rec.Leader,
		Price:     rec.CurrentPrice,
		BidCount:  count,
	}, nil
}

// History returns the full ordered bid record of a session, compensating
// entries included. Closed sessions are served from the store.
func (e *Engine) History(sessionID string) ([]models.Bid, error) {
	if s, err := e.lookup(sessionID); err == nil {
		return s.bids.History(), nil
	}
	return e.store.ListBids(sessionID)
}

// Bidder returns a bidder's account. First touch hydrates it from the store
// inside the balance ledger, the same as on the bid path.
func (e *Engine) Bidder(bidderID string) (models.BidderAccount, error) {
	if bidderID == "" {
		return models.BidderAccount{}, fmt.Errorf("engine: empty bidder id: %w", auctionerrors.ErrInvalidRequest)
	}
	return e.balances.Account(bidderID), nil
}

// Shutdown stops all sessions, the persistence worker and the arbiters.
// Pending durability writes are flushed.
func (e *Engine) Shutdown() {
	e.stopOnce.Do(func() {
		e.mu.Lock()
		for _, s := range e.sessions {
			s.timer.Cancel()
			s.arb.stop()
		}
		e.mu.Unlock()
		close(e.quit)
	})
}
