package crash

import (
	"database/sql"
	"time"
)

// Store is the durable round ledger. Terminal transitions are a single
// conditional UPDATE guarded on status='running', so for any round
// exactly one of crashed/cashed can ever win.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Create inserts a running round inside the caller's transaction; the
// bet debit shares that transaction, so a visible round always means
// the bet was taken.
func (s *Store) Create(tx *sql.Tx, r *Round) error {
	_, err := tx.Exec(`
	INSERT INTO rounds(id, player_id, seed, crash_point, bet_cents, status, start_ms)
	VALUES (?,?,?,?,?,?,?)
	`, r.ID, r.PlayerID, r.Seed, r.CrashPoint, r.BetCents, StatusRunning, r.StartTime.UnixMilli())

	return err
}

func (s *Store) Get(roundID string) (*Round, error) {
	var (
		r       Round
		mult    sql.NullFloat64
		startMs int64
		endMs   sql.NullInt64
	)

	err := s.db.QueryRow(`
	SELECT id, player_id, seed, crash_point, bet_cents, status,
	       cashout_multiplier, payout_cents, start_ms, end_ms
	FROM rounds WHERE id = ?
	`, roundID).Scan(&r.ID, &r.PlayerID, &r.Seed, &r.CrashPoint, &r.BetCents,
		&r.Status, &mult, &r.PayoutCents, &startMs, &endMs)

	if err == sql.ErrNoRows {
		return nil, ErrRoundNotFound
	}
	if err != nil {
		return nil, err
	}

	r.CashoutMultiplier = mult.Float64
	r.StartTime = time.UnixMilli(startMs)
	if endMs.Valid {
		r.EndTime = time.UnixMilli(endMs.Int64)
	}
	return &r, nil
}

// TransitionToCrashed finalizes a lost round. No balance effect, so it
// runs against the database directly.
func (s *Store) TransitionToCrashed(roundID string, at time.Time) error {
	res, err := s.db.Exec(`
	UPDATE rounds SET status = ?, end_ms = ?
	WHERE id = ? AND status = ?
	`, StatusCrashed, at.UnixMilli(), roundID, StatusRunning)

	return casOutcome(res, err)
}

// TransitionToCashed finalizes a won round inside the caller's
// transaction; the payout credit shares it. Losing the per-round race
// reports ErrAlreadyTerminal and the caller must discard its payout.
func (s *Store) TransitionToCashed(tx *sql.Tx, roundID string, multiplier float64, payoutCents int64, at time.Time) error {
	res, err := tx.Exec(`
	UPDATE rounds SET status = ?, cashout_multiplier = ?, payout_cents = ?, end_ms = ?
	WHERE id = ? AND status = ?
	`, StatusCashed, multiplier, payoutCents, at.UnixMilli(), roundID, StatusRunning)

	return casOutcome(res, err)
}

func casOutcome(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAlreadyTerminal
	}
	return nil
}

// ListRunning returns running rounds started before the cutoff, for
// the background sweeper.
func (s *Store) ListRunning(startedBefore time.Time) ([]*Round, error) {
	rows, err := s.db.Query(`
	SELECT id, player_id, seed, crash_point, bet_cents, status,
	       cashout_multiplier, payout_cents, start_ms, end_ms
	FROM rounds WHERE status = ? AND start_ms < ?
	`, StatusRunning, startedBefore.UnixMilli())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Round
	for rows.Next() {
		var (
			r       Round
			mult    sql.NullFloat64
			startMs int64
			endMs   sql.NullInt64
		)
		if err := rows.Scan(&r.ID, &r.PlayerID, &r.Seed, &r.CrashPoint, &r.BetCents,
			&r.Status, &mult, &r.PayoutCents, &startMs, &endMs); err != nil {
			return nil, err
		}
		r.CashoutMultiplier = mult.Float64
		r.StartTime = time.UnixMilli(startMs)
		if endMs.Valid {
			r.EndTime = time.UnixMilli(endMs.Int64)
		}
		out = append(out, &r)
	}
	return out, rows.Err()
}
