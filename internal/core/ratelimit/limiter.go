// Package ratelimit 提供每個呼叫者的固定視窗限流器。
//
// 狀態只存在於本行程中，多個實例部署時每個實例各自計數，
// 實際上限會隨實例數倍增。條目不會被刪除。
package ratelimit

import (
	"sync"
	"time"
)

const (
	// DefaultLimit 每個視窗允許的請求數
	DefaultLimit = 10
	// DefaultWindow 視窗長度
	DefaultWindow = 60 * time.Second
)

// Limiter 決定某個呼叫者的請求是否放行
type Limiter interface {
	Admit(identity string) bool
}

// Decision 單次判斷的詳細結果
type Decision struct {
	Allowed   bool
	Count     int
	Limit     int
	ResetAt   time.Time
	Remaining int
}

// RetryAfter 距離視窗重置的時間
func (d Decision) RetryAfter(now time.Time) time.Duration {
	if d.Allowed || !d.ResetAt.After(now) {
		return 0
	}
	return d.ResetAt.Sub(now)
}

type entry struct {
	count   int
	resetAt time.Time
}

// FixedWindow 固定視窗計數器，每個 identity 一個條目
type FixedWindow struct {
	mu      sync.Mutex
	entries map[string]*entry
	limit   int
	window  time.Duration
	now     func() time.Time
}

// Option 設定 FixedWindow
type Option func(*FixedWindow)

// WithClock 注入時鐘，測試用
func WithClock(now func() time.Time) Option {
	return func(l *FixedWindow) {
		l.now = now
	}
}

// NewFixedWindow 建立限流器，非正值回退為預設
func NewFixedWindow(limit int, window time.Duration, opts ...Option) *FixedWindow {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}
	l := &FixedWindow{
		entries: make(map[string]*entry),
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Admit 判斷並記錄一次請求
func (l *FixedWindow) Admit(identity string) bool {
	return l.Check(identity).Allowed
}

// Check 判斷並記錄一次請求，返回詳細結果
func (l *FixedWindow) Check(identity string) Decision {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[identity]
	if !ok || now.After(e.resetAt) {
		e = &entry{count: 1, resetAt: now.Add(l.window)}
		l.entries[identity] = e
		return l.decision(true, e)
	}

	// 超過上限時不改變狀態
	if e.count >= l.limit {
		return l.decision(false, e)
	}

	e.count++
	return l.decision(true, e)
}

func (l *FixedWindow) decision(allowed bool, e *entry) Decision {
	return Decision{
		Allowed:   allowed,
		Count:     e.count,
		Limit:     l.limit,
		ResetAt:   e.resetAt,
		Remaining: l.limit - e.count,
	}
}

// Len 目前追蹤的 identity 數量
func (l *FixedWindow) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Window 視窗長度
func (l *FixedWindow) Window() time.Duration {
	return l.window
}

// Now 限流器使用的目前時間
func (l *FixedWindow) Now() time.Time {
	return l.now()
}
