package engine

import (
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

// services bundles the collaborators a session consults. Shared across all
// sessions; only the balance ledger carries cross-session state.
type services struct {
	cfg       config.Config
	balances  *ledger.BalanceBook
	evaluator *achievements.Evaluator
	store     repository.AuctionStore
	emit      func(models.Event)
	persist   func(label string, fn func() error)
}

// session owns one item's auction lifecycle: its bid log, its countdown and
// its arbiter. State fields are mutated only from the arbiter worker; mu
// makes leader+price+state readable as a consistent snapshot from Query.
type session struct {
	id            string
	groupID       string
	item          models.Item
	mode          models.Mode
	startingPrice int64
	duration      time.Duration
	createdAt     time.Time

	mu         sync.RWMutex
	state      models.SessionState
	leader     string
	price      int64
	resolvedAt time.Time

	bids  *ledger.BidLog
	timer *countdown.Timer
	arb   *arbiter
	svc   services
}

func newSession(groupID string, item models.Item, startingPrice int64, mode models.Mode, duration time.Duration, svc services) *session {
	id := utils.GenerateID()
	s := &session{
		id:            id,
		groupID:       groupID,
		item:          item,
		mode:          mode,
		startingPrice: startingPrice,
		duration:      duration,
		createdAt:     time.Now().UTC(),
		state:         models.StateActive,
		price:         startingPrice,
		bids:          ledger.NewBidLog(id),
		timer:         countdown.New(id, svc.cfg.WarningThreshold, svc.cfg.CriticalThreshold, svc.cfg.Tick),
		arb:           newArbiter(svc.cfg.ArbiterTimeout),
		svc:           svc,
	}
	return s
}

// decision returns the authoritative leader/price pair carried on every
// submission outcome, accepted or rejected.
func (s *session) decision(accepted bool, seq int64) models.BidDecision {
	return models.BidDecision{
		Accepted: accepted,
		Seq:      seq,
		Leader:   s.leader,
		Price:    s.price,
	}
}

// submitBid admits one bid. Runs inside the arbiter boundary.
func (s *session) submitBid(bidderID string, amount int64) (models.BidDecision, error) {
	if s.state != models.StateActive && s.state != models.StateFinalCall {
		return s.decision(false, 0), fmt.Errorf("engine: session %s is %s: %w", s.id, s.state, auctionerrors.ErrStaleSession)
	}

	minimum := s.startingPrice
	if s.leader != "" {
		minimum = s.price + s.svc.cfg.MinIncrement
	}
	if amount < minimum {
		return s.decision(false, 0), fmt.Errorf("engine: bid %d below minimum %d: %w", amount, minimum, auctionerrors.ErrBidTooLow)
	}
	if s.leader == bidderID && !s.svc.cfg.AllowSelfOutbid {
		return s.decision(false, 0), fmt.Errorf("engine: %s: %w", bidderID, auctionerrors.ErrSameBidder)
	}

	if err := s.svc.balances.Reserve(bidderID, s.id, amount); err != nil {
		return s.decision(false, 0), err
	}

	prevLeader := s.leader
	if prevLeader != "" && prevLeader != bidderID {
		if _, err := s.svc.balances.Release(prevLeader, s.id); err != nil {
			// The prior leader's hold must exist; a missing one means the
			// ledgers disagree and the session cannot continue safely.
			s.quarantine(err)
			return s.decision(false, 0), fmt.Errorf("engine: session %s: %w", s.id, auctionerrors.ErrSessionQuarantined)
		}
	}

	bid, err := s.bids.Append(bidderID, amount)
	if err != nil {
		s.quarantine(err)
		return s.decision(false, 0), fmt.Errorf("engine: session %s: %w", s.id, auctionerrors.ErrSessionQuarantined)
	}

	s.mu.Lock()
	s.leader = bidderID
	s.price = amount
	s.mu.Unlock()

	s.svc.balances.RecordBid(bidderID)
	s.resetCountdown()

	s.svc.emit(models.Event{
		Type:      models.EventBidAccepted,
		SessionID: s.id,
		GroupID:   s.groupID,
		BidderID:  bidderID,
		Amount:    amount,
		Seq:       bid.Seq,
		At:        time.Now().UTC(),
	})
	s.evaluateAchievements(bidderID)

	rec := s.record()
	s.svc.persist("append bid", func() error { return s.svc.store.AppendBid(bid) })
	s.svc.persist("save session", func() error { return s.svc.store.SaveSession(rec) })
	s.persistAccount(bidderID)

	return s.decision(true, bid.Seq), nil
}

// resetCountdown applies the configured reset policy after an accepted bid.
func (s *session) resetCountdown() {
	switch s.svc.cfg.ResetPolicy {
	case config.ResetExtend:
		if s.timer.Remaining() >= s.svc.cfg.ExtendThreshold {
			return
		}
	}
	if err := s.timer.Reset(s.duration); err != nil {
		utils.Warn("countdown reset failed", map[string]any{"session_id": s.id, "error": err.Error()})
	}
}

// pause freezes the countdown. Valid only while Active.
func (s *session) pause() error {
	if s.state != models.StateActive {
		return fmt.Errorf("engine: pause in state %s: %w", s.state, auctionerrors.ErrInvalidState)
	}
	remaining, err := s.timer.Pause()
	if err != nil {
		return fmt.Errorf("engine: pause session %s: %w", s.id, err)
	}
	s.setState(models.StatePaused)
	utils.Info("session paused", map[string]any{"session_id": s.id, "remaining": remaining.String()})
	return nil
}

// resume restores the countdown with its remaining time unchanged.
func (s *session) resume() error {
	if s.state != models.StatePaused {
		return fmt.Errorf("engine: resume in state %s: %w", s.state, auctionerrors.ErrInvalidState)
	}
	if err := s.timer.Resume(); err != nil {
		return fmt.Errorf("engine: resume session %s: %w", s.id, err)
	}
	s.setState(models.StateActive)
	return nil
}

// skip resolves a bidless session as unsold. No reservations exist, so no
// balance is touched.
func (s *session) skip() error {
	if s.state != models.StateActive && s.state != models.StatePaused {
		return fmt.Errorf("engine: skip in state %s: %w", s.state, auctionerrors.ErrInvalidState)
	}
	if s.bids.ActiveBids() > 0 {
		return fmt.Errorf("engine: skip with bids placed: %w", auctionerrors.ErrInvalidState)
	}
	return s.resolve()
}

// finalCall arms manual resolution. Bids are still accepted until resolve.
func (s *session) finalCall() error {
	if s.mode != models.ModeManual {
		return fmt.Errorf("engine: final call in %s mode: %w", s.mode, auctionerrors.ErrInvalidState)
	}
	if s.state != models.StateActive {
		return fmt.Errorf("engine: final call in state %s: %w", s.state, auctionerrors.ErrInvalidState)
	}
	s.setState(models.StateFinalCall)
	return nil
}

// resolveCmd is the explicit resolution trigger armed by finalCall.
func (s *session) resolveCmd() error {
	if s.state != models.StateFinalCall {
		return fmt.Errorf("engine: resolve in state %s: %w", s.state, auctionerrors.ErrInvalidState)
	}
	return s.resolve()
}

// onExpiry handles the countdown reaching zero. Auto mode resolves; manual
// mode ignores expiry, since resolution there is the admin's explicit call.
func (s *session) onExpiry() {
	if s.state != models.StateActive && s.state != models.StateFinalCall {
		return
	}
	if s.mode == models.ModeManual {
		utils.Info("countdown expired in manual mode, awaiting resolve", map[string]any{"session_id": s.id})
		return
	}
	if err := s.resolve(); err != nil {
		utils.Error("resolution on expiry failed", map[string]any{"session_id": s.id, "error": err.Error()})
	}
}

// resolve drives the session to its terminal outcome: commit the leader's
// reservation and record the win, or close out unsold.
func (s *session) resolve() error {
	outcome := models.StateUnsold
	leader, price, hasLeader := s.bids.Leader()

	if hasLeader {
		amount, err := s.svc.balances.Commit(leader, s.id)
		if err != nil {
			s.quarantine(err)
			return fmt.Errorf("engine: session %s: %w", s.id, auctionerrors.ErrSessionQuarantined)
		}
		if amount != price {
			s.quarantine(fmt.Errorf("committed %d, ledger price %d: %w", amount, price, auctionerrors.ErrNoSuchReservation))
			return fmt.Errorf("engine: session %s: %w", s.id, auctionerrors.ErrSessionQuarantined)
		}
		s.svc.balances.RecordWin(leader, s.item.ItemID, amount)
		outcome = models.StateSold
	}

	s.timer.Cancel()
	s.mu.Lock()
	s.state = outcome
	s.resolvedAt = time.Now().UTC()
	s.mu.Unlock()

	s.svc.emit(models.Event{
		Type:      models.EventSessionResolved,
		SessionID: s.id,
		GroupID:   s.groupID,
		BidderID:  leader,
		Amount:    price,
		Outcome:   outcome,
		At:        time.Now().UTC(),
	})

	if hasLeader {
		s.evaluateAchievements(leader)
		s.persistAccount(leader)
	}

	rec := s.record()
	s.svc.persist("save session", func() error { return s.svc.store.SaveSession(rec) })

	utils.Info("session resolved", map[string]any{
		"session_id": s.id,
		"outcome":    string(outcome),
		"leader":     leader,
		"price":      price,
	})
	return nil
}

// undoLastBid voids the most recent bid with a compensating record and
// restores the previous leader. Validation happens before any mutation, so a
// failed undo leaves every ledger untouched.
func (s *session) undoLastBid() error {
	if s.state != models.StateActive && s.state != models.StatePaused {
		return fmt.Errorf("engine: undo in state %s: %w", s.state, auctionerrors.ErrInvalidState)
	}

	last, prev, err := s.bids.PeekUndo()
	if err != nil {
		return err
	}

	if prev != nil && prev.BidderID == last.BidderID {
		// Same bidder outbid themselves; shrink their hold to the prior
		// amount instead of release-then-reserve.
		if err := s.svc.balances.Reserve(prev.BidderID, s.id, prev.Amount); err != nil {
			return err
		}
	} else {
		if prev != nil {
			if err := s.svc.balances.Reserve(prev.BidderID, s.id, prev.Amount); err != nil {
				return err
			}
		}
		if _, err := s.svc.balances.Release(last.BidderID, s.id); err != nil {
			s.quarantine(err)
			return fmt.Errorf("engine: session %s: %w", s.id, auctionerrors.ErrSessionQuarantined)
		}
	}

	voided, restored, err := s.bids.VoidLast()
	if err != nil {
		s.quarantine(err)
		return fmt.Errorf("engine: session %s: %w", s.id, auctionerrors.ErrSessionQuarantined)
	}

	s.mu.Lock()
	if restored != nil {
		s.leader = restored.BidderID
		s.price = restored.Amount
	} else {
		s.leader = ""
		s.price = s.startingPrice
	}
	s.mu.Unlock()

	history := s.bids.History()
	comp := history[len(history)-1]
	rec := s.record()
	s.svc.persist("append bid", func() error { return s.svc.store.AppendBid(comp) })
	s.svc.persist("save session", func() error { return s.svc.store.SaveSession(rec) })

	utils.Info("bid undone", map[string]any{
		"session_id": s.id,
		"voided_seq": voided.Seq,
		"leader":     s.leader,
		"price":      s.price,
	})
	return nil
}

// closeSession archives a resolved session and frees the group slot. A
// quarantined session may also be closed; that is the operator's way to
// abandon it after reconciling the ledgers by hand. The closed record is
// persisted by the engine, which waits for the flush before unmapping.
func (s *session) closeSession() error {
	if !s.state.Resolved() && s.state != models.StateQuarantined {
		return fmt.Errorf("engine: close in state %s: %w", s.state, auctionerrors.ErrInvalidState)
	}
	s.setState(models.StateClosed)
	return nil
}

// quarantine freezes the session after an integrity failure. Never
// auto-corrected; an admin has to intervene.
func (s *session) quarantine(cause error) {
	s.timer.Cancel()
	s.setState(models.StateQuarantined)
	s.svc.emit(models.Event{
		Type:      models.EventSessionQuarantined,
		SessionID: s.id,
		GroupID:   s.groupID,
		At:        time.Now().UTC(),
	})
	rec := s.record()
	s.svc.persist("save session", func() error { return s.svc.store.SaveSession(rec) })
	utils.Error("session quarantined", map[string]any{"session_id": s.id, "cause": cause.Error()})
}

// evaluateAchievements computes newly unlocked achievements for a bidder and
// emits them. Evaluation is idempotent; already-unlocked IDs never repeat.
func (s *session) evaluateAchievements(bidderID string) {
	stats := s.svc.balances.Stats(bidderID)
	unlocked := s.svc.balances.Unlocked(bidderID)
	fresh := s.svc.evaluator.Evaluate(stats, unlocked)
	if len(fresh) == 0 {
		return
	}
	s.svc.balances.AddUnlocked(bidderID, fresh)
	s.svc.emit(models.Event{
		Type:         models.EventAchievementsUnlocked,
		SessionID:    s.id,
		BidderID:     bidderID,
		Achievements: fresh,
		At:           time.Now().UTC(),
	})
}

func (s *session) persistAccount(bidderID string) {
	acc := s.svc.balances.Account(bidderID)
	s.svc.persist("save account", func() error { return s.svc.store.SaveAccount(acc) })
}

func (s *session) setState(state models.SessionState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// record builds the persistent form of the session.
func (s *session) record() models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return models.Session{
		SessionID:     s.id,
		GroupID:       s.groupID,
		Item:          s.item,
		StartingPrice: s.startingPrice,
		Mode:          s.mode,
		State:         s.state,
		Leader:        s.leader,
		CurrentPrice:  s.price,
		Duration:      int64(s.duration / time.Second),
		CreatedAt:     s.createdAt,
		ResolvedAt:    s.resolvedAt,
	}
}

// view returns a consistent query snapshot: state, leader and price are read
// under one lock so no torn leader/price pair is ever observed.
func (s *session) view() models.SessionView {
	s.mu.RLock()
	state := s.state
	leader := s.leader
	price := s.price
	s.mu.RUnlock()

	return models.SessionView{
		SessionID: s.id,
		GroupID:   s.groupID,
		Item:      s.item,
		Mode:      s.mode,
		State:     state,
		Leader:    leader,
		Price:     price,
		Remaining: s.timer.Remaining(),
		BidCount:  s.bids.ActiveBids(),
	}
}
