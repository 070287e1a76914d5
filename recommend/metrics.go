package recommend

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 推荐结果 outcome 标签
const (
	OutcomePersonalized = "personalized"
	OutcomeColdStart    = "cold_start"
	OutcomeError        = "error"
)

// Metrics 是推荐服务的 Prometheus 指标。
type Metrics struct {
	Requests             *prometheus.CounterVec
	Latency              *prometheus.HistogramVec
	ResultSize           prometheus.Histogram
	Interactions         *prometheus.CounterVec
	RejectedInteractions prometheus.Counter
}

// NewMetrics 在 reg 上注册指标；reg 为 nil 时指标只存在于内存，不对外暴露。
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "tagrec_recommend_requests_total",
			Help: "Recommendation requests by outcome",
		}, []string{"outcome"}),
		Latency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tagrec_recommend_duration_seconds",
			Help:    "Recommendation latency in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"outcome"}),
		ResultSize: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "tagrec_recommend_result_size",
			Help:    "Number of items returned per recommendation",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
		}),
		Interactions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "tagrec_interactions_recorded_total",
			Help: "Recorded interactions by type",
		}, []string{"type"}),
		RejectedInteractions: f.NewCounter(prometheus.CounterOpts{
			Name: "tagrec_interactions_rejected_total",
			Help: "Interactions rejected by validation",
		}),
	}
}
