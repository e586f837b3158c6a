package notify

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"tapify/internal/crash"
	"tapify/internal/logger"
)

// Telegram pushes settlement outcomes to the player's chat. The player
// id doubles as the Telegram chat id, as in the bot's registration flow.
type Telegram struct {
	bot *tgbotapi.BotAPI
}

func NewTelegram(token string) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Telegram{bot: bot}, nil
}

func (t *Telegram) RoundSettled(s *crash.Settlement) {
	var text string

	switch s.Outcome {
	case "win":
		payout := decimal.New(s.PayoutCents, -2).StringFixed(2)
		text = fmt.Sprintf("🎉 Tapify: You cashed out at %.2fx!\nPayout: %s", s.Multiplier, payout)
	default:
		text = fmt.Sprintf("💥 Tapify: Round crashed at %.2fx. You lost your bet.", s.CrashPoint)
	}

	msg := tgbotapi.NewMessage(s.PlayerID, text)
	if _, err := t.bot.Send(msg); err != nil {
		logger.Log.Warn("telegram notify failed",
			zap.Int64("chat", s.PlayerID), zap.Error(err))
	}
}
