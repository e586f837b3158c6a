package event

const (
	EventRoundSettled = "crash.round_settled"
)
