package crash

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"tapify/internal/config"
	"tapify/internal/event"
	"tapify/internal/logger"
	"tapify/internal/monitoring"
)

type Wallet interface {
	Debit(tx *sql.Tx, uid int64, cents int64, kind, roundID string) error
	Credit(tx *sql.Tx, uid int64, cents int64, kind, roundID string) error
	Balance(uid int64) (int64, error)
}

// Engine orchestrates bet placement, crash detection and cash-out.
// The settlement invariants live here: the bet is debited exactly once
// at round creation, the payout is credited exactly once on the
// running->cashed transition, and never after the crash instant.
type Engine struct {
	db      *sql.DB
	store   *Store
	wallet  Wallet
	sampler *Sampler
	clock   *Clock
	bus     *event.Bus

	minBetCents int64
	maxBetCents int64
	edge        decimal.Decimal

	now func() time.Time
}

func NewEngine(db *sql.DB, wallet Wallet, bus *event.Bus, cfg *config.Config) *Engine {
	return &Engine{
		db:      db,
		store:   NewStore(db),
		wallet:  wallet,
		sampler: NewSampler(cfg.CrashFloor, cfg.MaxCrash),
		clock:   NewClock(cfg.GrowthRate),
		bus:     bus,

		minBetCents: cfg.MinBetCents,
		maxBetCents: cfg.MaxBetCents,
		edge:        decimal.NewFromFloat(cfg.HouseEdge),

		now: time.Now,
	}
}

// StartRound debits the bet and creates a running round in a single
// transaction: either both happen or neither.
func (e *Engine) StartRound(playerID, betCents int64) (*Round, error) {
	if betCents < e.minBetCents || betCents > e.maxBetCents {
		return nil, ErrInvalidBet
	}

	id := uuid.New().String()
	seed := NewSeed()

	r := &Round{
		ID:         id,
		PlayerID:   playerID,
		Seed:       seed,
		CrashPoint: e.sampler.Sample(seed, id),
		BetCents:   betCents,
		Status:     StatusRunning,
		StartTime:  e.now(),
	}

	tx, err := e.db.Begin()
	if err != nil {
		return nil, err
	}

	if err := e.wallet.Debit(tx, playerID, betCents, "crash_bet", id); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := e.store.Create(tx, r); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	monitoring.RoundsStarted.Inc()
	monitoring.CentsWagered.Add(float64(betCents))

	return r, nil
}

// StatusView is what a polling client sees. The crash point and seed
// stay hidden until the round is terminal.
type StatusView struct {
	RoundID     string
	Status      string
	Multiplier  float64
	CrashPoint  float64
	PayoutCents int64
	Seed        string
}

// QueryStatus reports the round's state. If the curve has already
// passed the crash point this performs lazy crash detection; losing
// that race to a concurrent cash-out just reports the winner's result.
func (e *Engine) QueryStatus(roundID string, playerID int64) (*StatusView, error) {
	r, err := e.authorize(roundID, playerID)
	if err != nil {
		return nil, err
	}

	if r.Terminal() {
		return terminalView(r), nil
	}

	now := e.now()
	m := e.clock.MultiplierAt(now.Sub(r.StartTime))

	if m < r.CrashPoint {
		return &StatusView{
			RoundID:    r.ID,
			Status:     StatusRunning,
			Multiplier: Trunc2(m),
		}, nil
	}

	if err := e.finalizeCrashed(r, now); err != nil {
		return nil, err
	}

	r, err = e.store.Get(roundID)
	if err != nil {
		return nil, err
	}
	return terminalView(r), nil
}

// CashOutResult is the settled outcome returned to the player.
type CashOutResult struct {
	RoundID      string
	Status       string
	Multiplier   float64
	CrashPoint   float64
	PayoutCents  int64
	BalanceCents int64
	Seed         string
}

// CashOut settles the round at the authoritative server clock. The
// conditional transition guarantees at most one credit per round: if a
// concurrent path finalized first, the computed payout is discarded
// and the recorded outcome is returned instead.
func (e *Engine) CashOut(roundID string, playerID int64) (*CashOutResult, error) {
	r, err := e.authorize(roundID, playerID)
	if err != nil {
		return nil, err
	}

	if r.Terminal() {
		return e.recordedResult(r)
	}

	now := e.now()
	m := e.clock.MultiplierAt(now.Sub(r.StartTime))

	if m >= r.CrashPoint {
		if err := e.finalizeCrashed(r, now); err != nil {
			return nil, err
		}
		return e.reread(roundID)
	}

	mult := Trunc2(m)
	payout := e.payoutCents(r.BetCents, mult)

	tx, err := e.db.Begin()
	if err != nil {
		return nil, err
	}

	if err := e.store.TransitionToCashed(tx, r.ID, mult, payout, now); err != nil {
		tx.Rollback()
		if errors.Is(err, ErrAlreadyTerminal) {
			return e.reread(roundID)
		}
		return nil, err
	}

	if err := e.wallet.Credit(tx, playerID, payout, "crash_payout", r.ID); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	r.Status = StatusCashed
	r.CashoutMultiplier = mult
	r.PayoutCents = payout
	e.publishSettled(r)

	return e.recordedResult(r)
}

// Sweep finalizes running rounds whose curve has provably passed the
// crash point. Pure bookkeeping: it uses the same conditional
// transition as lazy detection, so it can never double-settle.
func (e *Engine) Sweep(startedBefore time.Time) {
	rounds, err := e.store.ListRunning(startedBefore)
	if err != nil {
		logger.Log.Warn("sweep query failed", zap.Error(err))
		return
	}

	now := e.now()
	for _, r := range rounds {
		if e.clock.MultiplierAt(now.Sub(r.StartTime)) < r.CrashPoint {
			continue
		}
		if err := e.finalizeCrashed(r, now); err != nil {
			logger.Log.Warn("sweep transition failed",
				zap.String("round", r.ID), zap.Error(err))
		}
	}
}

func (e *Engine) authorize(roundID string, playerID int64) (*Round, error) {
	r, err := e.store.Get(roundID)
	if err != nil {
		return nil, err
	}
	if r.PlayerID != playerID {
		return nil, ErrForbidden
	}
	return r, nil
}

// finalizeCrashed applies the crash transition; losing the race to a
// concurrent cash-out is not an error.
func (e *Engine) finalizeCrashed(r *Round, at time.Time) error {
	err := e.store.TransitionToCrashed(r.ID, at)
	if errors.Is(err, ErrAlreadyTerminal) {
		return nil
	}
	if err != nil {
		return err
	}

	r.Status = StatusCrashed
	e.publishSettled(r)
	return nil
}

func (e *Engine) reread(roundID string) (*CashOutResult, error) {
	r, err := e.store.Get(roundID)
	if err != nil {
		return nil, err
	}
	return e.recordedResult(r)
}

func (e *Engine) recordedResult(r *Round) (*CashOutResult, error) {
	balance, err := e.wallet.Balance(r.PlayerID)
	if err != nil {
		return nil, err
	}
	return &CashOutResult{
		RoundID:      r.ID,
		Status:       r.Status,
		Multiplier:   r.CashoutMultiplier,
		CrashPoint:   r.CrashPoint,
		PayoutCents:  r.PayoutCents,
		BalanceCents: balance,
		Seed:         r.Seed,
	}, nil
}

// payoutCents applies the house edge to the profit portion only and
// truncates down to the smallest currency unit.
func (e *Engine) payoutCents(betCents int64, mult float64) int64 {
	bet := decimal.New(betCents, -2)
	m := decimal.NewFromFloat(mult)

	profit := bet.Mul(m.Sub(decimal.New(1, 0)))
	if profit.IsNegative() {
		profit = decimal.Zero
	}

	keep := decimal.New(1, 0).Sub(e.edge)
	payout := bet.Add(profit.Mul(keep)).Truncate(2)

	return payout.Shift(2).IntPart()
}

func (e *Engine) publishSettled(r *Round) {
	monitoring.RoundsSettled.WithLabelValues(r.Status).Inc()
	monitoring.CentsPaid.Add(float64(r.PayoutCents))

	if e.bus == nil {
		return
	}
	e.bus.Publish(event.EventRoundSettled, &Settlement{
		RoundID:     r.ID,
		PlayerID:    r.PlayerID,
		Outcome:     r.Outcome(),
		CrashPoint:  r.CrashPoint,
		Multiplier:  r.CashoutMultiplier,
		BetCents:    r.BetCents,
		PayoutCents: r.PayoutCents,
		Seed:        r.Seed,
	})
}

func terminalView(r *Round) *StatusView {
	return &StatusView{
		RoundID:     r.ID,
		Status:      r.Status,
		Multiplier:  r.CashoutMultiplier,
		CrashPoint:  r.CrashPoint,
		PayoutCents: r.PayoutCents,
		Seed:        r.Seed,
	}
}
