package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestCustomErrorIsMatchesByCode(t *testing.T) {
	cause := errors.New("gemini timeout")
	err := fmt.Errorf("resolve: %w", ErrUpstreamFailure.Wrap(cause))

	assert.True(t, errors.Is(err, ErrUpstreamFailure))
	assert.False(t, errors.Is(err, ErrInvalidInput))
	assert.True(t, errors.Is(err, cause))
}

func TestAsCustomErrorDefaultsToUpstreamFailure(t *testing.T) {
	ce := AsCustomError(errors.New("boom"))
	assert.Equal(t, ErrCodeUpstreamFailure, ce.Code)
	assert.Equal(t, 500, ce.Status)

	ce = AsCustomError(ErrInvalidInput)
	assert.Equal(t, ErrCodeInvalidInput, ce.Code)
}

func TestRecordValidateNormalizesMonths(t *testing.T) {
	rec := IngredientRecord{
		CanonicalName: "사과",
		Seasonal:      SeasonalInfo{SeasonMonths: []int{11, 9, 10, 9}},
	}
	require.NoError(t, rec.Validate())
	assert.Equal(t, []int{9, 10, 11}, rec.Seasonal.SeasonMonths)

	rec.Seasonal.SeasonMonths = []int{13}
	assert.Error(t, rec.Validate())

	rec = IngredientRecord{CanonicalName: "  "}
	assert.Error(t, rec.Validate())

	rec = IngredientRecord{CanonicalName: "무", ShelfLife: ShelfLifeInfo{Freezer: ShelfLifeEntry{Days: -1}}}
	assert.Error(t, rec.Validate())
}

func TestOutcomeFromJudgmentInvalidKeepsEmptySuggestion(t *testing.T) {
	out := OutcomeFromJudgment(&IngredientJudgment{IsValid: false})

	js, err := json.Marshal(out)
	require.NoError(t, err)
	assert.JSONEq(t, `{"isValid":false,"suggestion":""}`, string(js))
}

func TestParseJSONRejectsTrailingData(t *testing.T) {
	var v map[string]interface{}
	assert.NoError(t, ParseJSON(`{"a":1}`, &v))
	assert.Error(t, ParseJSON(`{"a":1} {"b":2}`, &v))
}

func TestStripCodeFenceAndExtract(t *testing.T) {
	raw := "```json\n{\"isValid\":true}\n```"
	assert.Equal(t, `{"isValid":true}`, StripCodeFence(raw))
	assert.Equal(t, `{"x":1}`, ExtractJSONObject(`sure! {"x":1} done`))
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "****", MaskSecret("short"))
	assert.Equal(t, "abcd...6789", MaskSecret("abcdef0123456789"))
}

func TestLogFatalMasksSecrets(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	prev := Logger
	Logger = zap.New(core, zap.WithFatalHook(zapcore.WriteThenPanic))
	t.Cleanup(func() { Logger = prev })

	assert.Panics(t, func() {
		LogFatal("啟動失敗", zap.String("database_dsn", "postgres://guide:secret@db/guide"), zap.String("model", "gemini"))
	})

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "post...uide", fields["database_dsn"])
	assert.Equal(t, "gemini", fields["model"])
}
