package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 监控指标
type Metrics struct {
	// HTTP 请求指标
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// 案件指标
	CasesCompleted prometheus.Counter
	CasesCreated   prometheus.Counter

	// RPC 指标
	RPCRequestsTotal *prometheus.CounterVec

	// 聊天指标
	ChatMessagesHandled  prometheus.Counter
	MailResponsesCreated prometheus.Counter
	WebsocketClients     prometheus.Gauge

	// 错误指标
	ErrorsTotal *prometheus.CounterVec
	PanicsTotal prometheus.Counter
}

// NewMetrics 创建监控指标
func NewMetrics() *Metrics {
	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "casemanager_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "casemanager_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		CasesCompleted: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "casemanager_cases_completed_total",
				Help: "Total number of cases completed",
			},
		),

		CasesCreated: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "casemanager_cases_created_total",
				Help: "Total number of cases created",
			},
		),

		RPCRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "casemanager_rpc_requests_total",
				Help: "Total number of JSON-RPC requests by method and outcome",
			},
			[]string{"method", "outcome"},
		),

		ChatMessagesHandled: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "casemanager_chat_messages_total",
				Help: "Total number of chat messages handled",
			},
		),

		MailResponsesCreated: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "casemanager_mail_responses_total",
				Help: "Total number of generated mail responses",
			},
		),

		WebsocketClients: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "casemanager_websocket_clients",
				Help: "Number of connected websocket clients",
			},
		),

		ErrorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "casemanager_errors_total",
				Help: "Total number of errors by type and component",
			},
			[]string{"type", "component"},
		),

		PanicsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "casemanager_panics_total",
				Help: "Total number of recovered panics",
			},
		),
	}
}

// RecordHTTPRequest 记录 HTTP 请求指标
func (m *Metrics) RecordHTTPRequest(method, endpoint, statusCode string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordRPCRequest 记录 JSON-RPC 请求指标
func (m *Metrics) RecordRPCRequest(method, outcome string) {
	m.RPCRequestsTotal.WithLabelValues(method, outcome).Inc()
}

// RecordError 记录错误指标
func (m *Metrics) RecordError(errorType, component string) {
	m.ErrorsTotal.WithLabelValues(errorType, component).Inc()
}

// RecordPanic 记录 panic 指标
func (m *Metrics) RecordPanic() {
	m.PanicsTotal.Inc()
}

// Handler 返回 Prometheus 指标端点
func (m *Metrics) Handler() http.Handler {
	return promhttp.Handler()
}
