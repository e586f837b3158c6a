package monitoring

import "github.com/prometheus/client_golang/prometheus"

var (
	HttpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "endpoint"},
	)

	RoundsStarted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "crash_rounds_started_total",
			Help: "Total crash rounds created",
		},
	)

	RoundsSettled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crash_rounds_settled_total",
			Help: "Total crash rounds settled, by terminal status",
		},
		[]string{"status"},
	)

	CentsWagered = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "crash_cents_wagered_total",
			Help: "Total cents wagered on crash rounds",
		},
	)

	CentsPaid = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "crash_cents_paid_total",
			Help: "Total cents paid out on crash rounds",
		},
	)
)

func Init() {
	prometheus.MustRegister(HttpRequests)
	prometheus.MustRegister(RoundsStarted)
	prometheus.MustRegister(RoundsSettled)
	prometheus.MustRegister(CentsWagered)
	prometheus.MustRegister(CentsPaid)
}
