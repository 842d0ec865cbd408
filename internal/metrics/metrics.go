package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics 业务与 HTTP 指标，nil 接收者上的调用均为空操作
type Metrics struct {
	httpDuration       *prometheus.HistogramVec
	ordersPlaced       prometheus.Counter
	statusTransitions  *prometheus.CounterVec
	notifications      *prometheus.CounterVec
	lowStockAlerts     prometheus.Counter
	cartDuplicateDrops prometheus.Counter
}

// New 在给定 registerer 上注册全部指标，reg 为 nil 时返回空实现
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return &Metrics{}
	}
	m := &Metrics{
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		ordersPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orders_placed_total",
			Help: "Orders placed successfully.",
		}),
		statusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "order_status_transitions_total",
			Help: "Order status transitions applied.",
		}, []string{"from", "to"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notifications_total",
			Help: "Notifications dispatched by type, channel and result.",
		}, []string{"type", "channel", "result"}),
		lowStockAlerts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "low_stock_alerts_total",
			Help: "Low stock alerts raised for farmers.",
		}),
		cartDuplicateDrops: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cart_duplicate_adds_total",
			Help: "Cart adds rejected as rapid duplicates.",
		}),
	}
	reg.MustRegister(
		m.httpDuration,
		m.ordersPlaced,
		m.statusTransitions,
		m.notifications,
		m.lowStockAlerts,
		m.cartDuplicateDrops,
	)
	return m
}

// ObserveHTTP 记录请求耗时
func (m *Metrics) ObserveHTTP(method, route string, status int, duration time.Duration) {
	if m == nil || m.httpDuration == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(duration.Seconds())
}

// IncOrdersPlaced 下单成功计数
func (m *Metrics) IncOrdersPlaced() {
	if m == nil || m.ordersPlaced == nil {
		return
	}
	m.ordersPlaced.Inc()
}

// IncStatusTransition 状态流转计数
func (m *Metrics) IncStatusTransition(from, to string) {
	if m == nil || m.statusTransitions == nil {
		return
	}
	m.statusTransitions.WithLabelValues(normalizeLabel(from), normalizeLabel(to)).Inc()
}

// IncNotification 通知投递计数，result 取 sent / failed / skipped
func (m *Metrics) IncNotification(notificationType, channel, result string) {
	if m == nil || m.notifications == nil {
		return
	}
	m.notifications.WithLabelValues(normalizeLabel(notificationType), normalizeLabel(channel), normalizeLabel(result)).Inc()
}

// IncLowStockAlert 低库存提醒计数
func (m *Metrics) IncLowStockAlert() {
	if m == nil || m.lowStockAlerts == nil {
		return
	}
	m.lowStockAlerts.Inc()
}

// IncCartDuplicate 重复加购拦截计数
func (m *Metrics) IncCartDuplicate() {
	if m == nil || m.cartDuplicateDrops == nil {
		return
	}
	m.cartDuplicateDrops.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
