// Package metrics defines the custom Prometheus metrics of the blog API.
// Metrics are registered with the default registry on package init through
// promauto and exposed by the router on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "blog"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// SignupsTotal counts accounts created through /auth/signup.
var SignupsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of user accounts created.",
	},
)

// SigninsTotal counts sign-in attempts.
// Label:
//   - result: "success", "invalid_credentials", "not_verified", "not_active" or "error"
var SigninsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signins_total",
		Help:      "Total number of sign-in attempts, labelled by outcome.",
	},
	[]string{"result"},
)

// TokensIssuedTotal counts tokens handed out to clients.
// Label:
//   - purpose: "access", "refresh", "verification" or "reset"
var TokensIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_issued_total",
		Help:      "Total number of tokens issued, by purpose.",
	},
	[]string{"purpose"},
)

// ── Blog metrics ──────────────────────────────────────────────────────────────

var BlogsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "blogs_created_total",
		Help:      "Total number of blog posts created.",
	},
)

var BlogsDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "blogs_deleted_total",
		Help:      "Total number of blog posts deleted.",
	},
)
