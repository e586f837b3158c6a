package crash

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const (
	historyKey     = "crash:history"
	leaderboardKey = "crash:leaderboard"
	historyLen     = 50
)

// History keeps the client-facing extras in redis: the last crash
// points and a profit leaderboard. It is fed by the settlement
// consumer, never by the engine itself, so redis being down can delay
// bookkeeping but never block a settlement.
type History struct {
	rdb *redis.Client
}

func NewHistory(rdb *redis.Client) *History {
	return &History{rdb: rdb}
}

func (h *History) RecordSettlement(s *Settlement) error {
	ctx := context.Background()

	pipe := h.rdb.Pipeline()
	pipe.LPush(ctx, historyKey, strconv.FormatFloat(s.CrashPoint, 'f', 2, 64))
	pipe.LTrim(ctx, historyKey, 0, historyLen-1)

	profit := float64(s.PayoutCents-s.BetCents) / 100
	pipe.ZIncrBy(ctx, leaderboardKey, profit, strconv.FormatInt(s.PlayerID, 10))

	_, err := pipe.Exec(ctx)
	return err
}

func (h *History) Recent(n int64) ([]float64, error) {
	ctx := context.Background()

	raw, err := h.rdb.LRange(ctx, historyKey, 0, n-1).Result()
	if err != nil {
		return nil, err
	}

	out := make([]float64, 0, len(raw))
	for _, v := range raw {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

type LeaderboardEntry struct {
	PlayerID int64   `json:"player_id"`
	Profit   float64 `json:"profit"`
}

func (h *History) Top(n int64) ([]LeaderboardEntry, error) {
	ctx := context.Background()

	zs, err := h.rdb.ZRevRangeWithScores(ctx, leaderboardKey, 0, n-1).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(zs))
	for _, z := range zs {
		uid, err := strconv.ParseInt(z.Member.(string), 10, 64)
		if err != nil {
			continue
		}
		entries = append(entries, LeaderboardEntry{PlayerID: uid, Profit: z.Score})
	}
	return entries, nil
}
