package ingredient

import (
	"context"
	"net/http"
	"strings"

	core "ingredient-guide/internal/core/ingredient"
	"ingredient-guide/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Resolver 搜尋處理器需要的解析能力
type Resolver interface {
	Resolve(ctx context.Context, rawQuery string) (*common.ResolutionOutcome, error)
}

// Handler 食材搜尋處理器
type Handler struct {
	resolver       Resolver
	maxQueryLength int
}

// NewHandler 創建搜尋處理器
func NewHandler(resolver Resolver, maxQueryLength int) *Handler {
	if maxQueryLength <= 0 {
		maxQueryLength = core.DefaultMaxQueryLength
	}
	return &Handler{
		resolver:       resolver,
		maxQueryLength: maxQueryLength,
	}
}

// Search GET ?q= 查詢食材
func (h *Handler) Search(c *gin.Context) {
	raw := c.Query("q")
	if strings.TrimSpace(raw) == "" {
		c.JSON(http.StatusBadRequest, common.FailureResponse(common.ErrInvalidInput))
		return
	}
	query := core.Normalize(raw, h.maxQueryLength).Display

	outcome, err := h.resolver.Resolve(c.Request.Context(), raw)
	if err != nil {
		ce := common.AsCustomError(err)
		common.LogError("Ingredient search failed",
			zap.String("code", ce.Code),
			zap.String("query", query),
			zap.String("request_id", requestid.Get(c)),
			zap.Error(err),
		)
		_ = c.Error(err)
		c.JSON(ce.Status, common.FailureResponse(ce))
		return
	}

	cached := outcome.Cached
	c.JSON(http.StatusOK, common.SearchResponse{
		Success: true,
		Data:    outcome,
		Query:   query,
		Cached:  &cached,
	})
}
