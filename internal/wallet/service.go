package wallet

import (
	"database/sql"
	"errors"
)

var ErrInsufficientBalance = errors.New("insufficient balance")

type Ledger interface {
	RecordDebit(tx *sql.Tx, uid int64, cents int64, kind, roundID string) error
	RecordCredit(tx *sql.Tx, uid int64, cents int64, kind, roundID string) error
}

// Service holds spendable balances as integer cents so concurrent
// increments stay exact under SQL arithmetic.
type Service struct {
	db     *sql.DB
	ledger Ledger
}

func New(db *sql.DB, ledger Ledger) *Service {
	return &Service{db: db, ledger: ledger}
}

// Debit subtracts cents only if the balance covers it. The conditional
// UPDATE is the atomicity boundary: no check-then-act window.
func (s *Service) Debit(tx *sql.Tx, uid int64, cents int64, kind, roundID string) error {
	res, err := tx.Exec(`
	UPDATE wallets SET cents = cents - ?
	WHERE uid = ? AND cents >= ?
	`, cents, uid, cents)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrInsufficientBalance
	}

	return s.ledger.RecordDebit(tx, uid, cents, kind, roundID)
}

func (s *Service) Credit(tx *sql.Tx, uid int64, cents int64, kind, roundID string) error {
	_, err := tx.Exec(`
	INSERT INTO wallets(uid, cents) VALUES (?, ?)
	ON CONFLICT(uid) DO UPDATE SET cents = cents + excluded.cents
	`, uid, cents)
	if err != nil {
		return err
	}

	return s.ledger.RecordCredit(tx, uid, cents, kind, roundID)
}

func (s *Service) Balance(uid int64) (int64, error) {
	var cents int64
	err := s.db.QueryRow(`SELECT cents FROM wallets WHERE uid = ?`, uid).Scan(&cents)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return cents, err
}
