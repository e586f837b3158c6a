package crash

import (
	"errors"
	"time"
)

const (
	StatusRunning = "running"
	StatusCrashed = "crashed"
	StatusCashed  = "cashed"
)

var (
	ErrInvalidBet    = errors.New("bet outside allowed bounds")
	ErrRoundNotFound = errors.New("round not found")
	ErrForbidden     = errors.New("round belongs to another player")

	// ErrAlreadyTerminal is internal: a transition lost the per-round
	// race. It is never surfaced to callers; they get the recorded
	// terminal state instead.
	ErrAlreadyTerminal = errors.New("round already terminal")
)

// Round is one crash-game play from bet placement to settlement.
// Rows are append-only apart from the single running->terminal update.
type Round struct {
	ID                string
	PlayerID          int64
	Seed              string
	CrashPoint        float64
	BetCents          int64
	Status            string
	CashoutMultiplier float64
	PayoutCents       int64
	StartTime         time.Time
	EndTime           time.Time
}

func (r *Round) Terminal() bool {
	return r.Status != StatusRunning
}

// Outcome maps status to the ledger outcome: none, win or lose.
func (r *Round) Outcome() string {
	switch r.Status {
	case StatusCashed:
		return "win"
	case StatusCrashed:
		return "lose"
	}
	return "none"
}

// Settlement is published on the event bus when a round reaches a
// terminal state. Consumers only observe; balances are already final.
type Settlement struct {
	RoundID     string  `json:"round_id"`
	PlayerID    int64   `json:"player_id"`
	Outcome     string  `json:"outcome"`
	CrashPoint  float64 `json:"crash_point"`
	Multiplier  float64 `json:"multiplier,omitempty"`
	BetCents    int64   `json:"bet_cents"`
	PayoutCents int64   `json:"payout_cents"`
	Seed        string  `json:"seed"`
}
