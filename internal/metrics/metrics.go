package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	reg *prometheus.Registry

	OrdersCreated   prometheus.Counter
	OrdersRejected  *prometheus.CounterVec // reason: product_not_found | insufficient_stock | conflict
	OrderCreateSec  prometheus.Histogram
	EventsPublished prometheus.Counter
	EventsDropped   prometheus.Counter
	StockUnitsFreed prometheus.Counter
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()

	created := prometheus.NewCounter(prometheus.CounterOpts{Name: "orderdesk_orders_created_total"})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "orderdesk_orders_rejected_total"}, []string{"reason"})
	latency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "orderdesk_order_create_seconds",
		Buckets: prometheus.DefBuckets,
	})
	published := prometheus.NewCounter(prometheus.CounterOpts{Name: "orderdesk_events_published_total"})
	dropped := prometheus.NewCounter(prometheus.CounterOpts{Name: "orderdesk_events_dropped_total"})
	freed := prometheus.NewCounter(prometheus.CounterOpts{Name: "orderdesk_stock_units_freed_total"})

	r.MustRegister(created, rejected, latency, published, dropped, freed)
	return &Registry{
		reg:             r,
		OrdersCreated:   created,
		OrdersRejected:  rejected,
		OrderCreateSec:  latency,
		EventsPublished: published,
		EventsDropped:   dropped,
		StockUnitsFreed: freed,
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
