package main

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (app *application) routes(reg *prometheus.Registry) http.Handler {
	r := mux.NewRouter()
	r.Use(app.measureRequest)

	r.HandleFunc("/api/products", app.listProducts).Methods(http.MethodGet)
	r.HandleFunc("/api/products", app.createProduct).Methods(http.MethodPost)
	r.HandleFunc("/api/products/{id}", app.showProduct).Methods(http.MethodGet)
	r.HandleFunc("/api/products/{id}", app.updateProduct).Methods(http.MethodPut)
	r.HandleFunc("/api/products/{id}", app.deactivateProduct).Methods(http.MethodDelete)

	r.HandleFunc("/api/customers", app.listCustomers).Methods(http.MethodGet)
	r.HandleFunc("/api/customers", app.createCustomer).Methods(http.MethodPost)
	r.HandleFunc("/api/customers/{id}", app.showCustomer).Methods(http.MethodGet)
	r.HandleFunc("/api/customers/{id}/orders", app.listCustomerOrders).Methods(http.MethodGet)

	r.HandleFunc("/api/orders", app.listOrders).Methods(http.MethodGet)
	r.HandleFunc("/api/orders", app.createOrder).Methods(http.MethodPost)
	r.HandleFunc("/api/orders/{id}", app.showOrder).Methods(http.MethodGet)
	r.HandleFunc("/api/orders/{id}/status", app.updateOrderStatus).Methods(http.MethodPut)

	r.HandleFunc("/api/admin/stats", app.adminStats).Methods(http.MethodGet)

	r.HandleFunc("/api/contact-messages", app.listContactMessages).Methods(http.MethodGet)
	r.HandleFunc("/api/contact-messages", app.createContactMessage).Methods(http.MethodPost)
	r.HandleFunc("/api/contact-messages/{id}/read", app.markMessageRead).Methods(http.MethodPut)

	r.HandleFunc("/api/auth/signup", app.createCustomer).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/login", app.loginCustomer).Methods(http.MethodPost)

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	r.HandleFunc("/health", app.healthcheck).Methods(http.MethodGet)

	return app.recoverPanic(app.requestID(app.logRequest(r)))
}
