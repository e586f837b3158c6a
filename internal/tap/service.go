package tap

import (
	"database/sql"
	"time"
)

type Wallet interface {
	Credit(tx *sql.Tx, uid int64, cents int64, kind, roundID string) error
	Balance(uid int64) (int64, error)
}

// Service credits the tap-to-earn reward. The client batches taps and
// calls once per batch; the reward per call is fixed server-side.
type Service struct {
	db          *sql.DB
	wallet      Wallet
	rewardCents int64
}

func New(db *sql.DB, wallet Wallet, rewardCents int64) *Service {
	return &Service{db: db, wallet: wallet, rewardCents: rewardCents}
}

func (s *Service) Tap(uid int64) (balanceCents, taps int64, err error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, 0, err
	}

	if err := s.wallet.Credit(tx, uid, s.rewardCents, "tap_reward", ""); err != nil {
		tx.Rollback()
		return 0, 0, err
	}

	_, err = tx.Exec(`
	INSERT INTO taps(uid, taps, updated_ms) VALUES (?, 1, ?)
	ON CONFLICT(uid) DO UPDATE SET taps = taps + 1, updated_ms = excluded.updated_ms
	`, uid, time.Now().UnixMilli())
	if err != nil {
		tx.Rollback()
		return 0, 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, err
	}

	if err := s.db.QueryRow(`SELECT taps FROM taps WHERE uid = ?`, uid).Scan(&taps); err != nil {
		return 0, 0, err
	}

	balanceCents, err = s.wallet.Balance(uid)
	return balanceCents, taps, err
}
