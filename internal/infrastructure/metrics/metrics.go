// Package metrics expone los colectores Prometheus del servicio (registro por defecto, servido en /metrics).
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Store
	StoreWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stock_store_writes_total",
			Help: "Escrituras completas del documento JSON por resultado",
		},
		[]string{"result"}, // ok, error
	)

	StoreWriteDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "stock_store_write_duration_seconds",
			Help:    "Duración de la serialización y reemplazo atómico del documento",
			Buckets: prometheus.DefBuckets,
		},
	)

	StoreDocumentBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "stock_store_document_bytes",
			Help: "Tamaño del último documento persistido",
		},
	)

	CredentialsMigrated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stock_store_credentials_migrated_total",
			Help: "Usuarios con credencial heredada re-hasheada al arrancar",
		},
	)

	// API
	APIRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stock_api_requests_total",
			Help: "Peticiones HTTP por método, ruta y status",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stock_api_request_duration_seconds",
			Help:    "Latencia de peticiones HTTP",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Dominio
	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stock_login_attempts_total",
			Help: "Intentos de login por resultado",
		},
		[]string{"result"}, // ok, invalid, inactive
	)

	TransactionsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stock_transactions_recorded_total",
			Help: "Transacciones de inventario registradas por tipo",
		},
		[]string{"type"},
	)

	TransactionUnits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stock_transaction_units_total",
			Help: "Unidades movidas por tipo de transacción",
		},
		[]string{"type"},
	)
)

// RecordStoreWrite registra una escritura del documento.
func RecordStoreWrite(duration time.Duration, size int, err error) {
	if err != nil {
		StoreWrites.WithLabelValues("error").Inc()
		return
	}
	StoreWrites.WithLabelValues("ok").Inc()
	StoreWriteDuration.Observe(duration.Seconds())
	StoreDocumentBytes.Set(float64(size))
}

// RecordAPIRequest registra una petición HTTP. route es la plantilla de la ruta, no el path concreto.
func RecordAPIRequest(method, route string, status int, duration time.Duration) {
	APIRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordLogin registra un intento de login.
func RecordLogin(result string) {
	LoginAttempts.WithLabelValues(result).Inc()
}

// RecordTransaction registra una transacción creada.
func RecordTransaction(txType string, quantity int64) {
	TransactionsRecorded.WithLabelValues(txType).Inc()
	TransactionUnits.WithLabelValues(txType).Add(float64(quantity))
}
