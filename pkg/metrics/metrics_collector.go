package metrics

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector 指标收集器，nil 接收者上的调用为空操作
type MetricsCollector struct {
	registry *prometheus.Registry

	// HTTP 指标
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// 缓存指标
	cacheHitsTotal   *prometheus.CounterVec
	cacheMissesTotal *prometheus.CounterVec

	// 业务指标
	ordersCreatedTotal  prometheus.Counter
	couponsAppliedTotal prometheus.Counter
	notificationsTotal  *prometheus.CounterVec
}

// NewMetricsCollector 创建指标收集器，使用独立 registry
func NewMetricsCollector() *MetricsCollector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &MetricsCollector{
		registry: reg,

		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),

		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		cacheHitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_hits_total",
				Help: "Total number of cache hits",
			},
			[]string{"key_prefix"},
		),

		cacheMissesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_misses_total",
				Help: "Total number of cache misses",
			},
			[]string{"key_prefix"},
		),

		ordersCreatedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "orders_created_total",
				Help: "Total number of orders created from carts",
			},
		),

		couponsAppliedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "coupons_applied_total",
				Help: "Total number of coupon applications",
			},
		),

		notificationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "order_notifications_total",
				Help: "Order status notifications by channel and result",
			},
			[]string{"channel", "result"},
		),
	}
}

// Handler /metrics 处理器
func (m *MetricsCollector) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RegisterDBPool 暴露连接池统计（open / in_use / idle / wait）
func (m *MetricsCollector) RegisterDBPool(name string, db *sql.DB) error {
	if m == nil || db == nil {
		return nil
	}
	return m.registry.Register(collectors.NewDBStatsCollector(db, name))
}

// RecordHTTPRequest 记录 HTTP 请求
func (m *MetricsCollector) RecordHTTPRequest(method, endpoint, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordCacheOperation 记录缓存命中情况
func (m *MetricsCollector) RecordCacheOperation(keyPrefix string, hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cacheHitsTotal.WithLabelValues(keyPrefix).Inc()
	} else {
		m.cacheMissesTotal.WithLabelValues(keyPrefix).Inc()
	}
}

func (m *MetricsCollector) IncOrdersCreated() {
	if m == nil {
		return
	}
	m.ordersCreatedTotal.Inc()
}

func (m *MetricsCollector) IncCouponsApplied() {
	if m == nil {
		return
	}
	m.couponsAppliedTotal.Inc()
}

// RecordNotification 记录通知发送结果
func (m *MetricsCollector) RecordNotification(channel string, ok bool) {
	if m == nil {
		return
	}
	result := "sent"
	if !ok {
		result = "failed"
	}
	m.notificationsTotal.WithLabelValues(channel, result).Inc()
}
