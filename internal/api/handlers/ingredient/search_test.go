package ingredient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"unicode/utf8"

	"ingredient-guide/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type failingResolver struct{}

func (failingResolver) Resolve(ctx context.Context, rawQuery string) (*common.ResolutionOutcome, error) {
	return nil, errors.New("model unavailable")
}

func TestSearchFailureLogsBoundedQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	obs, logs := observer.New(zapcore.ErrorLevel)
	prev := common.Logger
	common.Logger = zap.New(obs)
	t.Cleanup(func() { common.Logger = prev })

	r := gin.New()
	r.GET("/api/search", NewHandler(failingResolver{}, 0).Search)

	raw := strings.Repeat("사", 1000)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/search?q="+url.QueryEscape(raw), nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	entries := logs.FilterMessage("Ingredient search failed").All()
	require.Len(t, entries, 1)
	query, ok := entries[0].ContextMap()["query"].(string)
	require.True(t, ok)
	assert.Equal(t, 50, utf8.RuneCountInString(query))
	assert.Equal(t, common.ErrCodeUpstreamFailure, entries[0].ContextMap()["code"])
}
