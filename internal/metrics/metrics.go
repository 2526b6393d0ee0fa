package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cafepos_orders_created_total",
		Help: "Orders accepted through the API.",
	})

	PaymentsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cafepos_payments_completed_total",
		Help: "Payments that reached COMPLETED.",
	})

	WSConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cafepos_ws_connections",
		Help: "Currently connected realtime clients.",
	})
)
