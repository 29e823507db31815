package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coopfund_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "coopfund_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	ContributionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coopfund_contributions_total",
			Help: "Total number of weekly contribution payments",
		},
		[]string{"status"},
	)

	WalletTransactionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coopfund_wallet_transactions_total",
			Help: "Total number of wallet transactions",
		},
		[]string{"type", "direction"},
	)

	TierUpgradesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "coopfund_tier_upgrades_total",
			Help: "Total number of tier upgrades",
		},
	)

	RedemptionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coopfund_redemptions_total",
			Help: "Total number of redemption requests",
		},
		[]string{"status"},
	)

	EnforcementActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coopfund_enforcement_actions_total",
			Help: "Total number of enforcement status transitions",
		},
		[]string{"action"},
	)

	EnforcementSweepDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "coopfund_enforcement_sweep_duration_seconds",
			Help:    "Duration of enforcement sweeps in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	NotificationsQueuedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coopfund_notifications_queued_total",
			Help: "Total number of notifications queued",
		},
		[]string{"status"},
	)

	NotificationQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "coopfund_notification_queue_length",
			Help: "Current length of the notification queue",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordContribution(status string) {
	ContributionsTotal.WithLabelValues(status).Inc()
}

func RecordWalletTransaction(txType, direction string) {
	WalletTransactionsTotal.WithLabelValues(txType, direction).Inc()
}

func RecordTierUpgrade() {
	TierUpgradesTotal.Inc()
}

func RecordRedemption(status string) {
	RedemptionsTotal.WithLabelValues(status).Inc()
}

func RecordEnforcementAction(action string) {
	EnforcementActionsTotal.WithLabelValues(action).Inc()
}

func RecordNotification(status string) {
	NotificationsQueuedTotal.WithLabelValues(status).Inc()
}
