package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

// BusinessMetrics holds Prometheus metrics for cart, checkout and notification flows.
// Every recording method is safe on a nil receiver so services can run without metrics.
type BusinessMetrics struct {
	// Cart
	CartCreated      *prometheus.CounterVec
	CartItemsAdded   *prometheus.CounterVec
	CartCleared      *prometheus.CounterVec
	GuestCartsMerged prometheus.Counter
	MergeFailures    prometheus.Counter

	// Orders
	OrdersCreated         *prometheus.CounterVec
	OrderValue            prometheus.Histogram
	OrderItemCount        prometheus.Histogram
	OrderStatusChanges    *prometheus.CounterVec
	CheckoutTotalMismatch prometheus.Counter

	// Engagement
	ReviewsCreated  prometheus.Counter
	CommentsCreated prometheus.Counter

	// Auth & accounts
	Signups     prometheus.Counter
	Logins      prometheus.Counter
	LoginFailed prometheus.Counter

	// Notifications and background jobs
	NotificationsPublished *prometheus.CounterVec
	NotificationsFailed    *prometheus.CounterVec
	JobsProcessed          *prometheus.CounterVec
	JobsFailed             *prometheus.CounterVec
	CleanupDeleted         *prometheus.CounterVec
}

// NewBusinessMetrics creates the metrics and registers them with reg.
func NewBusinessMetrics(namespace string, reg prometheus.Registerer) *BusinessMetrics {
	if namespace == "" {
		namespace = "shopery"
	}
	factory := promauto.With(reg)
	subsystem := "business"

	counter := func(name, help string) prometheus.Counter {
		return factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem, Name: name, Help: help,
		})
	}
	counterVec := func(name, help string, labels ...string) *prometheus.CounterVec {
		return factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem, Name: name, Help: help,
		}, labels)
	}

	return &BusinessMetrics{
		CartCreated:      counterVec("carts_created_total", "Carts created", "cart_type"),
		CartItemsAdded:   counterVec("cart_items_added_total", "Add to cart actions", "cart_type"),
		CartCleared:      counterVec("carts_cleared_total", "Carts cleared by the client", "cart_type"),
		GuestCartsMerged: counter("guest_carts_merged_total", "Guest carts merged into a user cart"),
		MergeFailures:    counter("merge_failures_total", "Guest cart merges that failed and were swallowed"),

		OrdersCreated: counterVec("orders_created_total", "Orders created at checkout", "source"),
		OrderValue: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "order_value",
			Help:      "Order total in the store currency",
			Buckets:   []float64{10, 25, 50, 100, 250, 500, 1000, 2500},
		}),
		OrderItemCount: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "order_item_count",
			Help:      "Units per order",
			Buckets:   []float64{1, 2, 3, 5, 10, 20, 50},
		}),
		OrderStatusChanges:    counterVec("order_status_changes_total", "Order status transitions", "status"),
		CheckoutTotalMismatch: counter("checkout_total_mismatch_total", "Checkouts whose client total differed from the recomputed total"),

		ReviewsCreated:  counter("reviews_created_total", "Reviews submitted"),
		CommentsCreated: counter("comments_created_total", "Comments posted"),

		Signups:     counter("signups_total", "Accounts registered"),
		Logins:      counter("logins_total", "Successful logins"),
		LoginFailed: counter("login_failed_total", "Failed logins"),

		NotificationsPublished: counterVec("notifications_published_total", "Notifications handed to the queue", "template"),
		NotificationsFailed:    counterVec("notifications_failed_total", "Notifications that could not be published or delivered", "template", "stage"),
		JobsProcessed:          counterVec("jobs_processed_total", "Background jobs processed", "job"),
		JobsFailed:             counterVec("jobs_failed_total", "Background jobs failed", "job"),
		CleanupDeleted:         counterVec("cleanup_deleted_total", "Rows removed by the cleanup job", "table"),
	}
}

// Business is the process-wide instance set by InitBusinessMetrics.
var Business *BusinessMetrics

// InitBusinessMetrics registers the metrics with the default registry and sets Business.
func InitBusinessMetrics(namespace string) *BusinessMetrics {
	Business = NewBusinessMetrics(namespace, prometheus.DefaultRegisterer)
	return Business
}

func (m *BusinessMetrics) RecordCartCreated(cartType string) {
	if m == nil {
		return
	}
	m.CartCreated.WithLabelValues(cartType).Inc()
}

func (m *BusinessMetrics) RecordItemAdded(cartType string) {
	if m == nil {
		return
	}
	m.CartItemsAdded.WithLabelValues(cartType).Inc()
}

func (m *BusinessMetrics) RecordCartCleared(cartType string) {
	if m == nil {
		return
	}
	m.CartCleared.WithLabelValues(cartType).Inc()
}

func (m *BusinessMetrics) RecordMerge(err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.MergeFailures.Inc()
		return
	}
	m.GuestCartsMerged.Inc()
}

func (m *BusinessMetrics) RecordOrder(source string, total decimal.Decimal, units int32) {
	if m == nil {
		return
	}
	m.OrdersCreated.WithLabelValues(source).Inc()
	m.OrderValue.Observe(total.InexactFloat64())
	m.OrderItemCount.Observe(float64(units))
}

func (m *BusinessMetrics) RecordTotalMismatch() {
	if m == nil {
		return
	}
	m.CheckoutTotalMismatch.Inc()
}

func (m *BusinessMetrics) RecordStatusChange(status string) {
	if m == nil {
		return
	}
	m.OrderStatusChanges.WithLabelValues(status).Inc()
}

func (m *BusinessMetrics) RecordReview() {
	if m == nil {
		return
	}
	m.ReviewsCreated.Inc()
}

func (m *BusinessMetrics) RecordComment() {
	if m == nil {
		return
	}
	m.CommentsCreated.Inc()
}

func (m *BusinessMetrics) RecordSignup() {
	if m == nil {
		return
	}
	m.Signups.Inc()
}

func (m *BusinessMetrics) RecordLogin(ok bool) {
	if m == nil {
		return
	}
	if ok {
		m.Logins.Inc()
		return
	}
	m.LoginFailed.Inc()
}

func (m *BusinessMetrics) RecordNotification(template string, err error, stage string) {
	if m == nil {
		return
	}
	if err != nil {
		m.NotificationsFailed.WithLabelValues(template, stage).Inc()
		return
	}
	m.NotificationsPublished.WithLabelValues(template).Inc()
}

func (m *BusinessMetrics) RecordJob(job string, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.JobsFailed.WithLabelValues(job).Inc()
		return
	}
	m.JobsProcessed.WithLabelValues(job).Inc()
}

func (m *BusinessMetrics) RecordCleanup(table string, n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.CleanupDeleted.WithLabelValues(table).Add(float64(n))
}
