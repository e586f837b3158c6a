package crash

import (
	"database/sql"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"tapify/internal/db"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	d := db.Init(filepath.Join(t.TempDir(), "test.db"))
	t.Cleanup(func() { d.Close() })
	return d
}

func insertRunning(t *testing.T, d *sql.DB, store *Store, crashPoint float64) *Round {
	t.Helper()

	r := &Round{
		ID:         uuid.New().String(),
		PlayerID:   7,
		Seed:       NewSeed(),
		CrashPoint: crashPoint,
		BetCents:   1000,
		Status:     StatusRunning,
		StartTime:  time.Now(),
	}

	tx, err := d.Begin()
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Create(tx, r); err != nil {
		t.Fatal(err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatal(err)
	}
	return r
}

func TestGetNotFound(t *testing.T) {
	store := NewStore(openTestDB(t))

	_, err := store.Get(uuid.New().String())
	if !errors.Is(err, ErrRoundNotFound) {
		t.Fatalf("got %v, want ErrRoundNotFound", err)
	}
}

func TestCreateAndGet(t *testing.T) {
	d := openTestDB(t)
	store := NewStore(d)

	r := insertRunning(t, d, store, 2.5)

	got, err := store.Get(r.ID)
	if err != nil {
		t.Fatal(err)
	}

	if got.PlayerID != 7 || got.CrashPoint != 2.5 || got.BetCents != 1000 {
		t.Fatalf("roundtrip mismatch: %+v", got)
	}
	if got.Status != StatusRunning {
		t.Fatalf("status = %q, want running", got.Status)
	}
	if !got.EndTime.IsZero() {
		t.Fatalf("end time set on running round: %v", got.EndTime)
	}
}

func TestTerminalTransitionHappensOnce(t *testing.T) {
	d := openTestDB(t)
	store := NewStore(d)
	r := insertRunning(t, d, store, 2.5)

	if err := store.TransitionToCrashed(r.ID, time.Now()); err != nil {
		t.Fatalf("first transition: %v", err)
	}

	if err := store.TransitionToCrashed(r.ID, time.Now()); !errors.Is(err, ErrAlreadyTerminal) {
		t.Fatalf("second crash transition: got %v, want ErrAlreadyTerminal", err)
	}

	tx, err := d.Begin()
	if err != nil {
		t.Fatal(err)
	}
	err = store.TransitionToCashed(tx, r.ID, 1.5, 1470, time.Now())
	tx.Rollback()
	if !errors.Is(err, ErrAlreadyTerminal) {
		t.Fatalf("cash transition after crash: got %v, want ErrAlreadyTerminal", err)
	}

	got, err := store.Get(r.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != StatusCrashed || got.PayoutCents != 0 {
		t.Fatalf("terminal state mutated: %+v", got)
	}
}

func TestConcurrentCrashTransitionsSingleWinner(t *testing.T) {
	d := openTestDB(t)
	store := NewStore(d)
	r := insertRunning(t, d, store, 3.0)

	const workers = 10

	var wg sync.WaitGroup
	wins := make(chan struct{}, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := store.TransitionToCrashed(r.ID, time.Now()); err == nil {
				wins <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(wins)

	won := 0
	for range wins {
		won++
	}
	if won != 1 {
		t.Fatalf("%d transitions won, want exactly 1", won)
	}
}

func TestListRunningFiltersByStartAndStatus(t *testing.T) {
	d := openTestDB(t)
	store := NewStore(d)

	old := insertRunning(t, d, store, 2.0)
	done := insertRunning(t, d, store, 2.0)
	if err := store.TransitionToCrashed(done.ID, time.Now()); err != nil {
		t.Fatal(err)
	}

	rounds, err := store.ListRunning(time.Now().Add(time.Minute))
	if err != nil {
		t.Fatal(err)
	}

	if len(rounds) != 1 || rounds[0].ID != old.ID {
		t.Fatalf("got %d running rounds, want only the unfinished one", len(rounds))
	}

	none, err := store.ListRunning(old.StartTime.Add(-time.Minute))
	if err != nil {
		t.Fatal(err)
	}
	if len(none) != 0 {
		t.Fatalf("cutoff before start returned %d rounds", len(none))
	}
}
