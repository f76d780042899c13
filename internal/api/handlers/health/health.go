package health

import (
	"context"
	"net/http"
	"runtime"
	"time"

	core "ingredient-guide/internal/core/ingredient"
	"ingredient-guide/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// readinessTimeout 就緒檢查時 ping 儲存層的上限
const readinessTimeout = 2 * time.Second

// Pinger 可檢查連線的依賴
type Pinger interface {
	Ping(ctx context.Context) error
}

// statsReporter 可提供統計的儲存
type statsReporter interface {
	Stats() map[string]interface{}
}

// QueueReporter 回報寫回佇列狀態
type QueueReporter interface {
	Status() core.WriteBackStatus
}

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Uptime    string                 `json:"uptime"`
	Runtime   map[string]interface{} `json:"runtime"`
	Queue     *core.WriteBackStatus  `json:"queue,omitempty"`
	Store     map[string]interface{} `json:"store,omitempty"`
}

// Handler 健康檢查處理器
type Handler struct {
	version string
	store   Pinger
	queue   QueueReporter
	started time.Time
}

// NewHandler 創建健康檢查處理器；store 與 queue 可為 nil
func NewHandler(version string, store Pinger, queue QueueReporter) *Handler {
	return &Handler{
		version: version,
		store:   store,
		queue:   queue,
		started: time.Now(),
	}
}

// HealthCheck 健康檢查處理器
func (h *Handler) HealthCheck(c *gin.Context) {
	// 獲取運行時信息
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   h.version,
		Uptime:    time.Since(h.started).Round(time.Second).String(),
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
	}

	if h.queue != nil {
		status := h.queue.Status()
		response.Queue = &status
	}
	if sr, ok := h.store.(statsReporter); ok {
		response.Store = sr.Stats()
	}

	common.LogDebug("Health check request",
		zap.String("client_ip", c.ClientIP()),
		zap.String("path", c.Request.URL.Path),
	)

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 儲存層可連線才算就緒
func (h *Handler) ReadinessCheck(c *gin.Context) {
	if h.store != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
		defer cancel()

		if err := h.store.Ping(ctx); err != nil {
			common.LogWarn("Readiness check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not_ready",
				"error":  common.ErrServiceUnavail.Message,
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

// LivenessCheck 存活檢查處理器
func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
