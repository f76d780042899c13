package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// 解析結果標籤
const (
	OutcomeCacheHit  = "cache_hit"
	OutcomeDedupeHit = "dedupe_hit"
	OutcomeGenerated = "generated"
	OutcomeInvalid   = "invalid"
	OutcomeError     = "error"
)

// 寫回結果標籤
const (
	WriteBackOK      = "ok"
	WriteBackFailed  = "failed"
	WriteBackDropped = "dropped"
)

// generator 延遲分桶（秒），模型回應通常在 1~20 秒
var generatorBuckets = []float64{0.25, 0.5, 1, 2, 4, 8, 15, 30, 60}

// Metrics 服務指標，nil 接收者的方法都是 no-op
type Metrics struct {
	registry *prometheus.Registry

	resolutions       *prometheus.CounterVec
	generatorDuration *prometheus.HistogramVec
	rateLimited       prometheus.Counter
	writeBacks        *prometheus.CounterVec
}

// New 建立並註冊指標到獨立的 registry
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		resolutions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ingredient_resolutions_total",
			Help: "Ingredient resolutions by outcome",
		}, []string{"outcome"}),
		generatorDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ingredient_generator_duration_seconds",
			Help:    "Generator call latency",
			Buckets: generatorBuckets,
		}, []string{"result"}),
		rateLimited: factory.NewCounter(prometheus.CounterOpts{
			Name: "ingredient_rate_limited_total",
			Help: "Requests rejected by the per-client rate limiter",
		}),
		writeBacks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ingredient_writeback_total",
			Help: "Asynchronous record write-backs by result",
		}, []string{"result"}),
	}
}

// Registry 返回底層 registry
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler 返回 /metrics 的 HTTP handler
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveResolution 記錄一次解析結果
func (m *Metrics) ObserveResolution(outcome string) {
	if m == nil {
		return
	}
	m.resolutions.WithLabelValues(outcome).Inc()
}

// ObserveGenerator 記錄一次生成器呼叫
func (m *Metrics) ObserveGenerator(d time.Duration, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.generatorDuration.WithLabelValues(result).Observe(d.Seconds())
}

// IncRateLimited 記錄一次限流拒絕
func (m *Metrics) IncRateLimited() {
	if m == nil {
		return
	}
	m.rateLimited.Inc()
}

// ObserveWriteBack 記錄一次寫回結果
func (m *Metrics) ObserveWriteBack(result string) {
	if m == nil {
		return
	}
	m.writeBacks.WithLabelValues(result).Inc()
}
