// Package metrics 提供 Prometheus 监控指标
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 优化运行指标集合
// 每个实例持有独立的注册表，互不干扰
type Metrics struct {
	registry *prometheus.Registry

	runsTotal    *prometheus.CounterVec
	runDuration  prometheus.Histogram
	solveNodes   prometheus.Histogram
	rosterSize   prometheus.Histogram
	doubleBooked prometheus.Counter
}

// New 创建指标集合
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		runsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rosterd",
			Name:      "runs_total",
			Help:      "优化运行次数，按求解状态分类",
		}, []string{"status"}),
		runDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "rosterd",
			Name:      "run_duration_seconds",
			Help:      "单次优化运行耗时",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		solveNodes: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "rosterd",
			Name:      "solve_nodes",
			Help:      "求解器搜索节点数",
			Buckets:   prometheus.ExponentialBuckets(10, 10, 7),
		}),
		rosterSize: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "rosterd",
			Name:      "roster_entries",
			Help:      "产出花名册的条目数",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}),
		doubleBooked: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "rosterd",
			Name:      "double_booking_warnings_total",
			Help:      "求解结果中检出的重复指派告警数",
		}),
	}
}

// ObserveRun 记录一次优化运行
func (m *Metrics) ObserveRun(status string, duration time.Duration, nodes, entries, warnings int) {
	m.runsTotal.WithLabelValues(status).Inc()
	m.runDuration.Observe(duration.Seconds())
	m.solveNodes.Observe(float64(nodes))
	if entries > 0 {
		m.rosterSize.Observe(float64(entries))
	}
	if warnings > 0 {
		m.doubleBooked.Add(float64(warnings))
	}
}

// Handler 返回指标抓取端点
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
