package tap

import (
	"path/filepath"
	"testing"

	"tapify/internal/db"
	"tapify/internal/ledger"
	"tapify/internal/wallet"
)

func TestTapCreditsRewardAndCounts(t *testing.T) {
	d := db.Init(filepath.Join(t.TempDir(), "test.db"))
	t.Cleanup(func() { d.Close() })

	w := wallet.New(d, ledger.New(d))
	s := New(d, w, 1) // one cent per batched tap call

	for i := int64(1); i <= 5; i++ {
		balance, taps, err := s.Tap(42)
		if err != nil {
			t.Fatal(err)
		}
		if taps != i {
			t.Fatalf("taps = %d, want %d", taps, i)
		}
		if balance != i {
			t.Fatalf("balance = %d, want %d", balance, i)
		}
	}
}
