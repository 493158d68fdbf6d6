package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	SignupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registry_signups_total",
			Help: "Total number of account signup attempts.",
		},
		[]string{"result"},
	)

	LoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registry_logins_total",
			Help: "Total number of login attempts.",
		},
		[]string{"result"},
	)

	TokensIssuedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registry_tokens_issued_total",
			Help: "Total number of bearer tokens issued.",
		},
		[]string{"result"},
	)

	LandRegistrationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registry_land_registrations_total",
			Help: "Total number of land registration attempts.",
		},
		[]string{"result"},
	)

	WorkflowTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registry_workflow_transitions_total",
			Help: "Total number of land workflow transition attempts.",
		},
		[]string{"operation", "result"},
	)

	NotificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registry_notifications_total",
			Help: "Total number of outbound notification attempts.",
		},
		[]string{"channel", "result"},
	)

	ChainAnchorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registry_chain_anchors_total",
			Help: "Total number of on-chain anchoring attempts.",
		},
		[]string{"result"},
	)
)

func MustRegister() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDurationSeconds,
		SignupsTotal,
		LoginsTotal,
		TokensIssuedTotal,
		LandRegistrationsTotal,
		WorkflowTransitionsTotal,
		NotificationsTotal,
		ChainAnchorsTotal,
	)
}
