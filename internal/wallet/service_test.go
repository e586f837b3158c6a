package wallet

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"tapify/internal/db"
	"tapify/internal/ledger"
)

func newTestWallet(t *testing.T) (*Service, *sql.DB) {
	t.Helper()
	d := db.Init(filepath.Join(t.TempDir(), "test.db"))
	t.Cleanup(func() { d.Close() })
	return New(d, ledger.New(d)), d
}

func inTx(t *testing.T, d *sql.DB, fn func(tx *sql.Tx) error) error {
	t.Helper()

	tx, err := d.Begin()
	if err != nil {
		t.Fatal(err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		t.Fatal(err)
	}
	return nil
}

func TestCreditCreatesWallet(t *testing.T) {
	w, d := newTestWallet(t)

	if err := inTx(t, d, func(tx *sql.Tx) error {
		return w.Credit(tx, 1, 2500, "test", "")
	}); err != nil {
		t.Fatal(err)
	}

	b, err := w.Balance(1)
	if err != nil {
		t.Fatal(err)
	}
	if b != 2500 {
		t.Fatalf("balance = %d, want 2500", b)
	}
}

func TestBalanceOfUnknownUserIsZero(t *testing.T) {
	w, _ := newTestWallet(t)

	b, err := w.Balance(42)
	if err != nil {
		t.Fatal(err)
	}
	if b != 0 {
		t.Fatalf("balance = %d, want 0", b)
	}
}

func TestDebitRequiresCoverage(t *testing.T) {
	w, d := newTestWallet(t)

	inTx(t, d, func(tx *sql.Tx) error {
		return w.Credit(tx, 1, 1000, "test", "")
	})

	err := inTx(t, d, func(tx *sql.Tx) error {
		return w.Debit(tx, 1, 1001, "test", "")
	})
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("got %v, want ErrInsufficientBalance", err)
	}

	if b, _ := w.Balance(1); b != 1000 {
		t.Fatalf("failed debit changed balance: %d", b)
	}

	if err := inTx(t, d, func(tx *sql.Tx) error {
		return w.Debit(tx, 1, 1000, "test", "")
	}); err != nil {
		t.Fatal(err)
	}

	if b, _ := w.Balance(1); b != 0 {
		t.Fatalf("balance = %d, want 0", b)
	}
}

func TestDebitUnknownUser(t *testing.T) {
	w, d := newTestWallet(t)

	err := inTx(t, d, func(tx *sql.Tx) error {
		return w.Debit(tx, 99, 100, "test", "")
	})
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("got %v, want ErrInsufficientBalance", err)
	}
}

func TestMutationsJournalToLedger(t *testing.T) {
	w, d := newTestWallet(t)

	inTx(t, d, func(tx *sql.Tx) error {
		return w.Credit(tx, 1, 1000, "test_credit", "round-a")
	})
	inTx(t, d, func(tx *sql.Tx) error {
		return w.Debit(tx, 1, 400, "test_debit", "round-b")
	})

	var rows int
	if err := d.QueryRow(`SELECT COUNT(*) FROM ledger`).Scan(&rows); err != nil {
		t.Fatal(err)
	}
	if rows != 2 {
		t.Fatalf("ledger rows = %d, want one per mutation", rows)
	}
}
