// Package metrics defines and registers all custom Prometheus metrics for the
// admin service. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics register with the default Prometheus registry at import time and
// are exposed on /metrics by the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "changecomm"

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, labelled by result.",
	},
	[]string{"result"},
)

// OTPIssuedTotal counts one-time codes issued through the forgot-password
// flow, including resends.
var OTPIssuedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "otp_issued_total",
		Help:      "Total number of password-reset codes issued.",
	},
)

// TrainerMutationsTotal counts successful trainer mutations.
// Label:
//   - action: "create", "update", or "delete"
var TrainerMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "trainer_mutations_total",
		Help:      "Total number of successful trainer mutations, by action.",
	},
	[]string{"action"},
)

// SettingsUpdatesTotal counts successful settings writes.
// Label:
//   - field: "helpTexts", "roleTypes", "categoryTypes", "measureTypes", or "init"
var SettingsUpdatesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "settings_updates_total",
		Help:      "Total number of successful system-settings writes, by field.",
	},
	[]string{"field"},
)
