package main

import "github.com/prometheus/client_golang/prometheus"

type metrics struct {
	requests        *prometheus.CounterVec
	duration        *prometheus.HistogramVec
	ordersCreated   prometheus.Counter
	stockRejections prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "api_requests_total",
				Help: "Total number of API requests.",
			},
			[]string{"route", "method", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "api_request_duration_seconds",
				Help:    "Duration of API request handling in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		ordersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orders_created_total",
			Help: "Count of successfully created orders.",
		}),
		stockRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orders_rejected_insufficient_stock_total",
			Help: "Count of orders rejected because a line exceeded available stock.",
		}),
	}
	reg.MustRegister(m.requests, m.duration, m.ordersCreated, m.stockRejections)
	return m
}
