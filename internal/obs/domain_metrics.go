package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// PricingTotal counts line-item pricing outcomes by order mode.
	PricingTotal *prometheus.CounterVec
	// PlatformCallTotal counts outbound marketplace API calls by outcome.
	PlatformCallTotal *prometheus.CounterVec
	// GeocodeCallTotal counts outbound geocoding and routing calls by outcome.
	GeocodeCallTotal *prometheus.CounterVec
	// StockReservationTotal counts stock reservation child transaction outcomes.
	StockReservationTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		PricingTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pricing_total",
			Help:      "Count of line-item pricing outcomes by order mode.",
		}, []string{"mode", "result"})
		PlatformCallTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "platform_call_total",
			Help:      "Count of outbound marketplace API calls by outcome.",
		}, []string{"result"})
		GeocodeCallTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_call_total",
			Help:      "Count of outbound geocoding and routing calls by outcome.",
		}, []string{"kind", "result"})
		StockReservationTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_reservation_total",
			Help:      "Count of stock reservation child transaction outcomes.",
		}, []string{"result"})

		mustRegisterCollector(reg, PricingTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				PricingTotal = v
			}
		})
		mustRegisterCollector(reg, PlatformCallTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				PlatformCallTotal = v
			}
		})
		mustRegisterCollector(reg, GeocodeCallTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				GeocodeCallTotal = v
			}
		})
		mustRegisterCollector(reg, StockReservationTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				StockReservationTotal = v
			}
		})
	})
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register domain metric: %w", err))
	}
}
