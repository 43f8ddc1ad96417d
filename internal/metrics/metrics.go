package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RunsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "campaign_runs_started_total",
		Help: "Campaign runs launched.",
	})

	RunsAborted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "campaign_runs_aborted_total",
		Help: "Campaign runs that ended in a fatal abort.",
	})

	MessagesSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campaign_messages_sent_total",
		Help: "Messages delivered successfully, by channel.",
	}, []string{"channel"})

	MessagesFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campaign_messages_failed_total",
		Help: "Message delivery failures, by channel.",
	}, []string{"channel"})

	RecipientsSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campaign_recipients_skipped_total",
		Help: "Recipients excluded by opt-out or missing contact field, by channel.",
	}, []string{"channel"})
)
