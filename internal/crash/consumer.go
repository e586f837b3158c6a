package crash

import (
	"fmt"

	"go.uber.org/zap"

	"tapify/internal/event"
	"tapify/internal/logger"
)

type Auditor interface {
	Log(uid int64, action string, metadata string)
}

type Broadcaster interface {
	BroadcastJSON(v interface{})
}

type Notifier interface {
	RoundSettled(s *Settlement)
}

// RegisterConsumers wires settlement fan-out: audit trail, websocket
// broadcast, redis history and player notification. Consumers run
// async and only observe; the balance effect happened in the engine.
func RegisterConsumers(bus *event.Bus, audit Auditor, hub Broadcaster, history *History, notifier Notifier) {

	bus.Subscribe(event.EventRoundSettled, func(payload interface{}) {

		s := payload.(*Settlement)

		audit.Log(s.PlayerID, "crash_settle",
			fmt.Sprintf("round=%s outcome=%s crash=%.2f payout=%d", s.RoundID, s.Outcome, s.CrashPoint, s.PayoutCents))

		hub.BroadcastJSON(s)

		if history != nil {
			if err := history.RecordSettlement(s); err != nil {
				logger.Log.Warn("history record failed",
					zap.String("round", s.RoundID), zap.Error(err))
			}
		}

		if notifier != nil {
			notifier.RoundSettled(s)
		}
	})
}
