package observability

import "github.com/prometheus/client_golang/prometheus"

var (
	Submissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "quoterelay_submissions_total", Help: "Quote submission outcomes"},
		[]string{"outcome"},
	)
	Provisioning = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "quoterelay_provisioning_total", Help: "Schema provisioning results"},
		[]string{"result"},
	)
	NotificationFailures = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "quoterelay_notification_failures_total", Help: "Merchant notification emails that failed to send"},
	)
	SettingsFallbacks = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "quoterelay_settings_fallbacks_total", Help: "Settings reads that degraded to defaults"},
	)
	EdgeRateLimited = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "quoterelay_edge_rate_limited_total", Help: "Requests rejected by the per-IP edge limiter"},
	)
)

func Register(reg prometheus.Registerer) {
	reg.MustRegister(Submissions, Provisioning, NotificationFailures, SettingsFallbacks, EdgeRateLimited)
}
