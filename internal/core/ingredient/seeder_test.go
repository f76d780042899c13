package ingredient

import (
	"context"
	"errors"
	"testing"
	"time"

	"ingredient-guide/internal/core/ingredient/store"
	"ingredient-guide/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedOutcomes(t *testing.T) {
	mem := store.NewMemoryStore()
	require.NoError(t, mem.Upsert(context.Background(), "배", appleJudgment("배").Record("배")))

	gen := newFakeGenerator()
	gen.judgments["사과"] = appleJudgment("사과")
	gen.judgments["apple"] = appleJudgment("사과")
	gen.judgments["당근"] = appleJudgment("당근")

	s := NewSeeder(mem, gen, WithSeedInterval(0))
	report, err := s.Seed(context.Background(), []string{"사과", "배", "apple", "당근", "qwerty", "!!"})
	require.NoError(t, err)

	assert.Equal(t, 6, report.Total())
	assert.Equal(t, 2, report.Saved)
	assert.Equal(t, 2, report.Skipped)
	assert.Equal(t, 2, report.Failed)

	assert.Equal(t, SeedSaved, report.Items[0].Result)
	assert.Equal(t, SeedSkipped, report.Items[1].Result)
	assert.Equal(t, SeedSkipped, report.Items[2].Result)
	assert.Equal(t, "사과", report.Items[2].Key)
	assert.Equal(t, SeedSaved, report.Items[3].Result)
	assert.Equal(t, SeedFailed, report.Items[4].Result)
	assert.Equal(t, SeedFailed, report.Items[5].Result)

	assert.ElementsMatch(t, []string{"배", "사과", "당근"}, mem.Keys())
	// 已存在的名稱不呼叫生成器
	assert.Equal(t, 3+1, gen.Calls())
}

func TestSeedGeneratorErrorCountsAsFailed(t *testing.T) {
	gen := newFakeGenerator()
	gen.err = errors.New("quota exceeded")
	s := NewSeeder(store.NewMemoryStore(), gen, WithSeedInterval(0))

	report, err := s.Seed(context.Background(), []string{"사과", "배"})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Failed)
	assert.Contains(t, report.Items[0].Reason, "quota exceeded")
}

func TestSeedStoreErrorCountsAsFailed(t *testing.T) {
	gen := newFakeGenerator()
	s := NewSeeder(errStore{err: errors.New("connection refused")}, gen, WithSeedInterval(0))

	report, err := s.Seed(context.Background(), []string{"사과"})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 0, gen.Calls())
}

func TestSeedConcurrent(t *testing.T) {
	mem := store.NewMemoryStore()
	gen := newFakeGenerator()
	names := DefaultSeedNames[:20]
	for _, n := range names {
		gen.judgments[n] = appleJudgment(n)
	}

	s := NewSeeder(mem, gen, WithSeedInterval(time.Millisecond), WithSeedConcurrency(4))
	report, err := s.Seed(context.Background(), names)
	require.NoError(t, err)
	assert.Equal(t, 20, report.Saved)
	assert.Equal(t, 20, mem.Len())
}

func TestSeedCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewSeeder(store.NewMemoryStore(), newFakeGenerator(), WithSeedInterval(time.Hour))
	_, err := s.Seed(ctx, []string{"사과"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDefaultSeedNamesAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, n := range DefaultSeedNames {
		assert.False(t, seen[n], n)
		seen[n] = true
		assert.NotEmpty(t, Sanitize(n))
	}
	assert.Greater(t, len(DefaultSeedNames), 150)
}

func TestSeedRecordKeyMatchesCorrectedName(t *testing.T) {
	mem := store.NewMemoryStore()
	gen := newFakeGenerator()
	gen.judgments["Tomato"] = appleJudgment("토마토")

	_, err := NewSeeder(mem, gen, WithSeedInterval(0)).Seed(context.Background(), []string{"Tomato"})
	require.NoError(t, err)

	rec, err := mem.Get(context.Background(), "토마토")
	require.NoError(t, err)
	assert.Equal(t, "토마토", rec.CanonicalName)
	_, err = mem.Get(context.Background(), "tomato")
	assert.ErrorIs(t, err, common.ErrRecordNotFound)
}
