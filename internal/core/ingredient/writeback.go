package ingredient

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"ingredient-guide/internal/infrastructure/metrics"
	"ingredient-guide/internal/pkg/common"

	"go.uber.org/zap"
)

// writeJob 一筆待寫回的紀錄
type writeJob struct {
	key    string
	record common.IngredientRecord
}

// WriteBackStatus 寫回佇列狀態
type WriteBackStatus struct {
	QueueLength  int   `json:"queue_length"`
	MaxQueueSize int   `json:"max_queue_size"`
	Workers      int   `json:"workers"`
	Written      int64 `json:"written"`
	Failed       int64 `json:"failed"`
	Dropped      int64 `json:"dropped"`
}

// WriteBack 非同步寫回分派器，Submit 永不阻塞，結果只用於日誌與指標
type WriteBack struct {
	store   RecordStore
	queue   chan writeJob
	timeout time.Duration
	workers int
	metrics *metrics.Metrics

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup

	written int64
	failed  int64
	dropped int64
}

// NewWriteBack 建立並啟動寫回 worker
func NewWriteBack(store RecordStore, workers, queueSize int, timeout time.Duration, m *metrics.Metrics) *WriteBack {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 1
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	w := &WriteBack{
		store:   store,
		queue:   make(chan writeJob, queueSize),
		timeout: timeout,
		workers: workers,
		metrics: m,
	}

	w.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go w.run()
	}

	return w
}

// Submit 將紀錄加入寫回佇列；佇列已滿或已關閉時丟棄並記錄
func (w *WriteBack) Submit(key string, record common.IngredientRecord) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.closed {
		w.drop(key, "dispatcher closed")
		return false
	}

	select {
	case w.queue <- writeJob{key: key, record: record}:
		common.LogDebug("Write-back enqueued",
			zap.String("key", key),
			zap.Int("queue_length", len(w.queue)),
		)
		return true
	default:
		w.drop(key, "queue full")
		return false
	}
}

func (w *WriteBack) drop(key, reason string) {
	atomic.AddInt64(&w.dropped, 1)
	w.metrics.ObserveWriteBack(metrics.WriteBackDropped)
	common.LogError("寫回失敗",
		zap.String("key", key),
		zap.Error(common.ErrWriteBackFailure.Wrap(errors.New(reason))),
	)
}

func (w *WriteBack) run() {
	defer w.wg.Done()
	for job := range w.queue {
		w.write(job)
	}
}

func (w *WriteBack) write(job writeJob) {
	// 與請求脫鉤，請求結束後寫入仍會完成
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	if err := w.store.Upsert(ctx, job.key, job.record); err != nil {
		atomic.AddInt64(&w.failed, 1)
		w.metrics.ObserveWriteBack(metrics.WriteBackFailed)
		common.LogError("寫回失敗",
			zap.String("key", job.key),
			zap.Error(common.ErrWriteBackFailure.Wrap(err)),
		)
		return
	}

	atomic.AddInt64(&w.written, 1)
	w.metrics.ObserveWriteBack(metrics.WriteBackOK)
	common.LogInfo("食材已寫入儲存層", zap.String("key", job.key))
}

// Status 返回佇列狀態
func (w *WriteBack) Status() WriteBackStatus {
	return WriteBackStatus{
		QueueLength:  len(w.queue),
		MaxQueueSize: cap(w.queue),
		Workers:      w.workers,
		Written:      atomic.LoadInt64(&w.written),
		Failed:       atomic.LoadInt64(&w.failed),
		Dropped:      atomic.LoadInt64(&w.dropped),
	}
}

// Close 停止接收新工作並等待佇列中的寫入完成
func (w *WriteBack) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	close(w.queue)
	w.mu.Unlock()

	w.wg.Wait()
	common.LogInfo("寫回分派器已關閉",
		zap.Int64("written", atomic.LoadInt64(&w.written)),
		zap.Int64("failed", atomic.LoadInt64(&w.failed)),
		zap.Int64("dropped", atomic.LoadInt64(&w.dropped)),
	)
}
