package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CheckoutsTotal counts finished checkout sagas by terminal outcome.
	CheckoutsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bazaar_checkouts_total",
		Help: "Number of checkout sagas, labelled by outcome.",
	}, []string{"outcome"})

	// PublishOutcomesTotal counts broker publish attempts by reported status.
	PublishOutcomesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bazaar_publish_outcomes_total",
		Help: "Number of order event publish attempts, labelled by status.",
	}, []string{"status"})

	// TenantConnectionsOpened counts storage connections created by the
	// tenant registry over the process lifetime.
	TenantConnectionsOpened = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bazaar_tenant_connections_opened_total",
		Help: "Number of tenant storage connections opened.",
	})
)
