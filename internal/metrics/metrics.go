package metrics

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

var (
	// API 请求计数器
	apiRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "path", "status"},
	)

	// API 请求响应时间
	apiRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// 职位创建数
	jobPostsCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "job_posts_created_total",
			Help: "Total number of job posts created",
		},
	)

	// 雇主创建数
	employersCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "employers_created_total",
			Help: "Total number of employers created",
		},
	)

	// 状态转换数
	transitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workflow_transitions_total",
			Help: "Total number of workflow transition attempts",
		},
		[]string{"event", "result"}, // result: success/conflict/invalid/error
	)

	// 定时扫描结果
	sweepTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scheduler_sweep_total",
			Help: "Total number of scheduler sweep item outcomes",
		},
		[]string{"kind", "result"}, // kind: expire/publish, result: success/failed
	)

	// 数据库连接数
	databaseConnectionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "database_connections_active",
			Help: "Number of active database connections",
		},
	)

	databaseConnectionsIdle = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "database_connections_idle",
			Help: "Number of idle database connections",
		},
	)

	databaseConnectionsMax = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "database_connections_max",
			Help: "Maximum number of database connections",
		},
	)

	// 职位状态分布
	jobPostsByStatus = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "job_posts_by_status",
			Help: "Number of job posts by workflow status",
		},
		[]string{"status"},
	)
)

var (
	once sync.Once
)

func init() {
	// 注册指标
	prometheus.MustRegister(apiRequestsTotal)
	prometheus.MustRegister(apiRequestDuration)
	prometheus.MustRegister(jobPostsCreatedTotal)
	prometheus.MustRegister(employersCreatedTotal)
	prometheus.MustRegister(transitionsTotal)
	prometheus.MustRegister(sweepTotal)
	prometheus.MustRegister(databaseConnectionsActive)
	prometheus.MustRegister(databaseConnectionsIdle)
	prometheus.MustRegister(databaseConnectionsMax)
	prometheus.MustRegister(jobPostsByStatus)

	// 注册 Go 运行时指标（只注册一次）
	once.Do(func() {
		// 尝试注册 Go 运行时指标，如果已注册则忽略错误
		_ = prometheus.Register(prometheus.NewGoCollector())
		_ = prometheus.Register(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	})
}

// Handler 返回 Prometheus 指标处理器
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordAPIRequest 记录 API 请求
func RecordAPIRequest(method, path string, status int, duration float64) {
	statusText := http.StatusText(status)
	if statusText == "" {
		statusText = fmt.Sprintf("%d", status)
	}
	apiRequestsTotal.WithLabelValues(method, path, statusText).Inc()
	apiRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// RecordPostCreated 记录职位创建
func RecordPostCreated() {
	jobPostsCreatedTotal.Inc()
}

// RecordEmployerCreated 记录雇主创建
func RecordEmployerCreated() {
	employersCreatedTotal.Inc()
}

// RecordTransition 记录状态转换尝试
func RecordTransition(event string, result string) {
	transitionsTotal.WithLabelValues(event, result).Inc()
}

// RecordSweepItem 记录定时扫描单条目结果
func RecordSweepItem(kind string, result string) {
	sweepTotal.WithLabelValues(kind, result).Inc()
}

// UpdateDatabaseConnections 更新数据库连接数指标
func UpdateDatabaseConnections(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	stats := sqlDB.Stats()
	databaseConnectionsActive.Set(float64(stats.OpenConnections - stats.Idle))
	databaseConnectionsIdle.Set(float64(stats.Idle))
	databaseConnectionsMax.Set(float64(stats.MaxOpenConnections))

	return nil
}

// UpdateJobPostsByStatus 更新职位状态分布指标
func UpdateJobPostsByStatus(status string, count float64) {
	jobPostsByStatus.WithLabelValues(status).Set(count)
}
