// Package metrics содержит Prometheus-инструментацию сервиса.
package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequestsTotal считает HTTP запросы по методу, маршруту и статусу.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "skillswap",
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by method, route pattern, and status bucket.",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration наблюдает длительность запросов.
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "skillswap",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// ExchangesTotal считает переходы обменов по итоговому действию.
	ExchangesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "skillswap",
			Name:      "exchanges_total",
			Help:      "Total exchange transitions by action (created, accepted, declined, completed).",
		},
		[]string{"action"},
	)

	// SettlementClampsTotal считает срабатывания защитного урезания при расчёте.
	SettlementClampsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "skillswap",
			Name:      "settlement_clamps_total",
			Help:      "Total settlements where the transfer was clamped to the actually held amount.",
		},
	)

	// ActiveWebSocketClients отслеживает подключённых WebSocket клиентов.
	ActiveWebSocketClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "skillswap",
			Name:      "active_websocket_clients",
			Help:      "Number of currently connected WebSocket clients.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		ExchangesTotal,
		SettlementClampsTotal,
		ActiveWebSocketClients,
	)
}

// Middleware возвращает gin middleware, записывающий метрики запроса.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		timer := prometheus.NewTimer(HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(), // паттерн маршрута, а не фактический путь — иначе взрыв кардинальности
		))

		c.Next()

		timer.ObserveDuration()
		HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			statusBucket(c.Writer.Status()),
		).Inc()
	}
}

// Handler возвращает HTTP-хэндлер Prometheus для /metrics.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// statusBucket группирует статус-коды по классам (2xx, 3xx, 4xx, 5xx).
func statusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
