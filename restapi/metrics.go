package restapi

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ordtree",
		Subsystem: "restapi",
		Name:      "requests_total",
		Help:      "Total number of REST requests, per operation",
	}, []string{"op"})
	metricItems = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "ordtree",
		Subsystem: "restapi",
		Name:      "items",
		Help:      "Number of entries in the served container",
	})
)
