package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(updatesTotal, repliesTotal, rateLimitHits)
}

var (
	updatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telegram_updates_total",
			Help: "Processed Telegram updates by kind (command/prompt/other).",
		},
		[]string{"kind"},
	)

	repliesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telegram_replies_total",
			Help: "Messages sent back to Telegram by type (text/photo/edit/delete).",
		},
		[]string{"type", "status"},
	)

	rateLimitHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telegram_rate_limit_hits_total",
			Help: "Updates rejected by the per-user rate limiter.",
		},
		[]string{"scope"},
	)
)

func IncUpdate(kind string)        { updatesTotal.WithLabelValues(norm(kind)).Inc() }
func IncRateLimitHit(scope string) { rateLimitHits.WithLabelValues(norm(scope)).Inc() }
func IncReply(typ string, ok bool) {
	status := "ok"
	if !ok {
		status = "error"
	}
	repliesTotal.WithLabelValues(norm(typ), status).Inc()
}
