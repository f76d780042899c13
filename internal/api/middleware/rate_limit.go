package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"ingredient-guide/internal/core/ratelimit"
	"ingredient-guide/internal/infrastructure/metrics"
	"ingredient-guide/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UnknownIdentity 無法辨識來源時共用的 identity
const UnknownIdentity = "unknown"

// ClientIdentity 取 X-Forwarded-For 的第一個位址，沒有時為 "unknown"
func ClientIdentity(r *http.Request) string {
	forwarded := r.Header.Get("X-Forwarded-For")
	first, _, _ := strings.Cut(forwarded, ",")
	if ip := strings.TrimSpace(first); ip != "" {
		return ip
	}
	return UnknownIdentity
}

// RateLimit 每個呼叫者的固定視窗限流中間件
func RateLimit(limiter *ratelimit.FixedWindow, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := ClientIdentity(c.Request)
		decision := limiter.Check(identity)

		c.Header("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(max(decision.Remaining, 0)))

		if !decision.Allowed {
			retryAfter := decision.RetryAfter(limiter.Now())
			m.IncRateLimited()
			common.LogWarn("Rate limit exceeded",
				zap.String("identity", identity),
				zap.String("path", c.Request.URL.Path),
				zap.Duration("retry_after", retryAfter),
			)

			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			c.AbortWithStatusJSON(common.ErrTooManyRequests.Status, common.FailureResponse(common.ErrTooManyRequests))
			return
		}

		c.Next()
	}
}
