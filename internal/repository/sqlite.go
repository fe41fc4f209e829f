package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"auction-engine/internal/auctionerrors"
	"auction-engine/internal/models"
)

// SQLiteStore persists auction state in SQLite. Structured fields (item,
// stats, achievements) are stored as JSON columns.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens the database at path and creates the schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	dsn := path + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ping sqlite db: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.createTables(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		session_id TEXT PRIMARY KEY,
		group_id TEXT NOT NULL,
		item_json TEXT NOT NULL,
		starting_price INTEGER NOT NULL,
		mode TEXT NOT NULL,
		state TEXT NOT NULL,
		leader TEXT,
		current_price INTEGER NOT NULL,
		duration_sec INTEGER NOT NULL,
		created_at DATETIME NOT NULL,
		resolved_at DATETIME
	);
	CREATE TABLE IF NOT EXISTS accounts (
		bidder_id TEXT PRIMARY KEY,
		available INTEGER NOT NULL,
		reserved INTEGER NOT NULL,
		stats_json TEXT NOT NULL,
		achievements_json TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS bids (
		bid_id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		bidder_id TEXT NOT NULL,
		amount INTEGER NOT NULL,
		seq INTEGER NOT NULL,
		placed_at DATETIME NOT NULL,
		voided INTEGER NOT NULL DEFAULT 0,
		voids INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_bids_session ON bids(session_id, seq);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("store: create tables: %w", err)
	}
	return nil
}

// SaveSession upserts a session record.
func (s *SQLiteStore) SaveSession(sess models.Session) error {
	itemJSON, err := json.Marshal(sess.Item)
	if err != nil {
		return fmt.Errorf("store: marshal item for session %s: %w", sess.SessionID, err)
	}

	var resolvedAt any
	if !sess.ResolvedAt.IsZero() {
		resolvedAt = sess.ResolvedAt
	}

	_, err = s.db.Exec(`
		INSERT INTO sessions
			(session_id, group_id, item_json, starting_price, mode, state, leader, current_price, duration_sec, created_at, resolved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			state = excluded.state,
			leader = excluded.leader,
			current_price = excluded.current_price,
			resolved_at = excluded.resolved_at`,
		sess.SessionID, sess.GroupID, string(itemJSON), sess.StartingPrice, string(sess.Mode),
		string(sess.State), sess.Leader, sess.CurrentPrice, sess.Duration, sess.CreatedAt, resolvedAt)
	if err != nil {
		return fmt.Errorf("store: save session %s: %w", sess.SessionID, err)
	}
	return nil
}

// LoadSession returns a session record by id.
func (s *SQLiteStore) LoadSession(sessionID string) (models.Session, error) {
	row := s.db.QueryRow(`
		SELECT session_id, group_id, item_json, starting_price, mode, state, leader, current_price, duration_sec, created_at, resolved_at
		FROM sessions WHERE session_id = ?`, sessionID)

	var sess models.Session
	var itemJSON, mode, state string
	var leader sql.NullString
	var resolvedAt sql.NullTime

	err := row.Scan(&sess.SessionID, &sess.GroupID, &itemJSON, &sess.StartingPrice, &mode,
		&state, &leader, &sess.CurrentPrice, &sess.Duration, &sess.CreatedAt, &resolvedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Session{}, fmt.Errorf("store: load session %s: %w", sessionID, auctionerrors.ErrSessionNotFound)
	}
	if err != nil {
		return models.Session{}, fmt.Errorf("store: load session %s: %w", sessionID, err)
	}

	if err := json.Unmarshal([]byte(itemJSON), &sess.Item); err != nil {
		return models.Session{}, fmt.Errorf("store: unmarshal item for session %s: %w", sessionID, err)
	}
	sess.Mode = models.Mode(mode)
	sess.State = models.SessionState(state)
	sess.Leader = leader.String
	if resolvedAt.Valid {
		sess.ResolvedAt = resolvedAt.Time
	}
	return sess, nil
}

// SaveAccount upserts a bidder account record.
func (s *SQLiteStore) SaveAccount(a models.BidderAccount) error {
	statsJSON, err := json.Marshal(a.Stats)
	if err != nil {
		return fmt.Errorf("store: marshal stats for %s: %w", a.BidderID, err)
	}
	achievementsJSON, err := json.Marshal(a.Achievements)
	if err != nil {
		return fmt.Errorf("store: marshal achievements for %s: %w", a.BidderID, err)
	}

	_, err = s.db.Exec(`
		INSERT INTO accounts (bidder_id, available, reserved, stats_json, achievements_json)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(bidder_id) DO UPDATE SET
			available = excluded.available,
			reserved = excluded.reserved,
			stats_json = excluded.stats_json,
			achievements_json = excluded.achievements_json`,
		a.BidderID, a.Available, a.Reserved, string(statsJSON), string(achievementsJSON))
	if err != nil {
		return fmt.Errorf("store: save account %s: %w", a.BidderID, err)
	}
	return nil
}

// LoadAccount returns a bidder account record by id.
func (s *SQLiteStore) LoadAccount(bidderID string) (models.BidderAccount, error) {
	row := s.db.QueryRow(`
		SELECT bidder_id, available, reserved, stats_json, achievements_json
		FROM accounts WHERE bidder_id = ?`, bidderID)

	var a models.BidderAccount
	var statsJSON, achievementsJSON string

	err := row.Scan(&a.BidderID, &a.Available, &a.Reserved, &statsJSON, &achievementsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return models.BidderAccount{}, fmt.Errorf("store: load account %s: %w", bidderID, auctionerrors.ErrBidderNotFound)
	}
	if err != nil {
		return models.BidderAccount{}, fmt.Errorf("store: load account %s: %w", bidderID, err)
	}

	if err := json.Unmarshal([]byte(statsJSON), &a.Stats); err != nil {
		return models.BidderAccount{}, fmt.Errorf("store: unmarshal stats for %s: %w", bidderID, err)
	}
	if err := json.Unmarshal([]byte(achievementsJSON), &a.Achievements); err != nil {
		return models.BidderAccount{}, fmt.Errorf("store: unmarshal achievements for %s: %w", bidderID, err)
	}
	return a, nil
}

// AppendBid records one bid ledger entry.
func (s *SQLiteStore) AppendBid(b models.Bid) error {
	voided := 0
	if b.Voided {
		voided = 1
	}
	_, err := s.db.Exec(`
		INSERT INTO bids (bid_id, session_id, bidder_id, amount, seq, placed_at, voided, voids)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		b.BidID, b.SessionID, b.BidderID, b.Amount, b.Seq, b.PlacedAt, voided, b.Voids)
	if err != nil {
		return fmt.Errorf("store: append bid %s: %w", b.BidID, err)
	}
	return nil
}

// ListBids returns the ordered bid records for a session.
func (s *SQLiteStore) ListBids(sessionID string) ([]models.Bid, error) {
	rows, err := s.db.Query(`
		SELECT bid_id, session_id, bidder_id, amount, seq, placed_at, voided, voids
		FROM bids WHERE session_id = ? ORDER BY seq`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("store: list bids for session %s: %w", sessionID, err)
	}
	defer rows.Close()

	var bids []models.Bid
	for rows.Next() {
		var b models.Bid
		var voided int
		var placedAt time.Time
		if err := rows.Scan(&b.BidID, &b.SessionID, &b.BidderID, &b.Amount, &b.Seq, &placedAt, &voided, &b.Voids); err != nil {
			return nil, fmt.Errorf("store: scan bid for session %s: %w", sessionID, err)
		}
		b.PlacedAt = placedAt
		b.Voided = voided != 0
		bids = append(bids, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate bids for session %s: %w", sessionID, err)
	}
	return bids, nil
}

// Close closes the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
