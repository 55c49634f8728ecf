// Package metrics defines and registers the custom Prometheus metrics of the
// voting API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics register with the default Prometheus registry on package load via
// promauto; /metrics serves that registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "voting"

// ── Vote metrics ──────────────────────────────────────────────────────────────

// VotesCastTotal counts votes written to the store.
var VotesCastTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "votes_cast_total",
		Help:      "Total number of votes successfully cast.",
	},
)

// VotesRejectedTotal counts cast attempts that did not produce a vote.
// Label:
//   - reason: "duplicate_vote", "type_conflict", "candidate_not_found", "user_not_found", "validation" or "error"
var VotesRejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "votes_rejected_total",
		Help:      "Total number of vote attempts rejected, by reason.",
	},
	[]string{"reason"},
)

// VotesRetractedTotal counts votes deleted by their owner.
var VotesRetractedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "votes_retracted_total",
		Help:      "Total number of votes retracted by their owner.",
	},
)

// EligibilityCheckDuration measures the eligibility checks run inside the cast transaction.
// Label:
//   - result: "allowed" or the rejection reason
var EligibilityCheckDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "eligibility_check_duration_seconds",
		Help:      "Duration of vote eligibility checks.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"result"},
)

// ── Candidate metrics ─────────────────────────────────────────────────────────

// CandidatesCreatedTotal counts newly created candidates.
// Label:
//   - type_source: "existing" (linked by typeId) or "new" (type created inline)
var CandidatesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "candidates_created_total",
		Help:      "Total number of candidates created, by how their type was supplied.",
	},
	[]string{"type_source"},
)

// ── Activity metrics ──────────────────────────────────────────────────────────

// ActivityQueueDepth tracks the number of audit records waiting in each worker channel.
var ActivityQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "activity_queue_depth",
		Help:      "Current number of vote activity records pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ActivityDroppedTotal counts audit records dropped because a worker channel was full.
var ActivityDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activity_dropped_total",
		Help:      "Total number of vote activity records dropped on a full queue.",
	},
)

// ActivityErrorsTotal counts audit records that failed to persist.
var ActivityErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activity_errors_total",
		Help:      "Total number of vote activity records that failed to persist.",
	},
)
