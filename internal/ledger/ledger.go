package ledger

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Service keeps the append-only money movement journal. Every wallet
// mutation writes exactly one row here, inside the caller's transaction.
type Service struct {
	db *sql.DB
}

func New(db *sql.DB) *Service {
	return &Service{db: db}
}

func (s *Service) RecordDebit(tx *sql.Tx, uid int64, cents int64, kind, roundID string) error {
	return s.record(tx, uid, cents, 0, kind, roundID)
}

func (s *Service) RecordCredit(tx *sql.Tx, uid int64, cents int64, kind, roundID string) error {
	return s.record(tx, uid, 0, cents, kind, roundID)
}

func (s *Service) record(tx *sql.Tx, uid, debit, credit int64, kind, roundID string) error {
	ref := uuid.New().String()
	ts := time.Now().Unix()

	_, err := tx.Exec(`
	INSERT INTO ledger(ref,uid,kind,debit,credit,round_id,ts)
	VALUES (?,?,?,?,?,?,?)
	`, ref, uid, kind, debit, credit, roundID, ts)

	return err
}
