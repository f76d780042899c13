package store

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"ingredient-guide/internal/infrastructure/config"
	"ingredient-guide/internal/pkg/common"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func sampleRecord(name string) common.IngredientRecord {
	return common.IngredientRecord{
		CanonicalName: name,
		Storage: common.StorageInfo{
			RoomTemp:     "서늘한 곳에 보관",
			Refrigerator: "비닐에 싸서 냉장 보관",
			Freezer:      "잘라서 냉동 보관",
		},
		ShelfLife: common.ShelfLifeInfo{
			RoomTemp:     common.ShelfLifeEntry{Days: 7, Label: "약 7일"},
			Refrigerator: common.ShelfLifeEntry{Days: 30, Label: "약 30일"},
			Freezer:      common.ShelfLifeEntry{Days: 180, Label: "약 6개월"},
		},
		Seasonal: common.SeasonalInfo{
			IsInSeason:   true,
			SeasonMonths: []int{9, 10, 11},
			SeasonLabel:  "9월 ~ 11월",
			Description:  "가을이 제철입니다.",
		},
	}
}

func TestMemoryStoreGetMiss(t *testing.T) {
	m := NewMemoryStore()
	_, err := m.Get(context.Background(), "사과")
	assert.ErrorIs(t, err, common.ErrRecordNotFound)
}

func TestMemoryStoreUpsertOverwritesByKey(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	first := sampleRecord("ignored")
	require.NoError(t, m.Upsert(ctx, "사과", first))

	second := sampleRecord("사과")
	second.Storage.RoomTemp = "changed"
	require.NoError(t, m.Upsert(ctx, "사과", second))

	got, err := m.Get(ctx, "사과")
	require.NoError(t, err)
	assert.Equal(t, "사과", got.CanonicalName)
	assert.Equal(t, "changed", got.Storage.RoomTemp)
	assert.Equal(t, 1, m.Len())

	stats := m.GetStats()
	assert.Equal(t, int64(2), stats["upserts"])
	assert.Equal(t, int64(1), stats["hits"])
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	require.NoError(t, m.Upsert(ctx, "배", sampleRecord("배")))

	got, err := m.Get(ctx, "배")
	require.NoError(t, err)
	got.Seasonal.SeasonMonths[0] = 1

	again, err := m.Get(ctx, "배")
	require.NoError(t, err)
	assert.Equal(t, []int{9, 10, 11}, again.Seasonal.SeasonMonths)
}

func TestMemoryStoreConcurrentUpsertsKeepKeyUnique(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.Upsert(ctx, "사과", sampleRecord("사과"))
		}()
	}
	wg.Wait()

	assert.Equal(t, []string{"사과"}, m.Keys())
}

func TestMemoryStoreConcurrentGetsCountEveryLookup(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	require.NoError(t, m.Upsert(ctx, "사과", sampleRecord("사과")))

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := "사과"
			if i%2 == 1 {
				key = "없음"
			}
			_, _ = m.Get(ctx, key)
		}(i)
	}
	wg.Wait()

	stats := m.GetStats()
	assert.Equal(t, int64(50), stats["hits"])
	assert.Equal(t, int64(50), stats["misses"])
	assert.Equal(t, 0.5, stats["hit_ratio"])
}

func TestPreparePoolClosesOnPingFailure(t *testing.T) {
	db, err := gorm.Open(postgres.Open("host=127.0.0.1 port=1 user=guide dbname=guide sslmode=disable connect_timeout=1"), &gorm.Config{
		Logger:               logger.Default.LogMode(logger.Silent),
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)

	ctx := context.Background()
	s, err := preparePool(ctx, db, PostgresOptions{MaxOpenConns: 2})
	require.Error(t, err)
	assert.Nil(t, s)
	assert.Contains(t, err.Error(), "database ping failed")

	// 連線池已關閉
	assert.ErrorContains(t, sqlDB.PingContext(ctx), "database is closed")
}

func TestOpenPostgresUnreachable(t *testing.T) {
	s, err := OpenPostgres(context.Background(), "host=127.0.0.1 port=1 user=guide dbname=guide sslmode=disable connect_timeout=1", PostgresOptions{})
	require.Error(t, err)
	assert.Nil(t, s)
}

func TestRedisStoreGet(t *testing.T) {
	db, mock := redismock.NewClientMock()
	s := NewRedisStore(db, "ingredient:")

	rec := sampleRecord("사과")
	data, err := json.Marshal(rec)
	require.NoError(t, err)

	mock.ExpectGet("ingredient:사과").SetVal(string(data))
	mock.ExpectGet("ingredient:없음").RedisNil()
	mock.ExpectGet("ingredient:broken").SetErr(errors.New("connection refused"))

	got, err := s.Get(context.Background(), "사과")
	require.NoError(t, err)
	assert.Equal(t, rec, *got)

	_, err = s.Get(context.Background(), "없음")
	assert.ErrorIs(t, err, common.ErrRecordNotFound)

	_, err = s.Get(context.Background(), "broken")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrRecordNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStoreUpsertSetsWithoutExpiry(t *testing.T) {
	db, mock := redismock.NewClientMock()
	s := NewRedisStore(db, "ingredient:")

	rec := sampleRecord("whatever")
	stored := rec
	stored.CanonicalName = "사과"
	data, err := json.Marshal(stored)
	require.NoError(t, err)

	mock.ExpectSet("ingredient:사과", data, 0).SetVal("OK")

	require.NoError(t, s.Upsert(context.Background(), "사과", rec))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStoreUpsertError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	s := NewRedisStore(db, "ingredient:")

	rec := sampleRecord("무")
	data, err := json.Marshal(rec)
	require.NoError(t, err)
	mock.ExpectSet("ingredient:무", data, 0).SetErr(errors.New("READONLY"))

	assert.Error(t, s.Upsert(context.Background(), "무", rec))
}

func TestRedisStorePing(t *testing.T) {
	db, mock := redismock.NewClientMock()
	s := NewRedisStore(db, "ingredient:")

	mock.ExpectPing().SetVal("PONG")
	assert.NoError(t, s.Ping(context.Background()))
}

// failingBackend 每個操作都失敗
type failingBackend struct{ err error }

func (f failingBackend) Get(context.Context, string) (*common.IngredientRecord, error) {
	return nil, f.err
}

func (f failingBackend) Upsert(context.Context, string, common.IngredientRecord) error {
	return f.err
}

func (f failingBackend) Ping(context.Context) error { return f.err }

func TestTieredStoreBackfillsFastTier(t *testing.T) {
	ctx := context.Background()
	fast, durable := NewMemoryStore(), NewMemoryStore()
	require.NoError(t, durable.Upsert(ctx, "사과", sampleRecord("사과")))

	tiered := NewTieredStore(fast, durable)
	got, err := tiered.Get(ctx, "사과")
	require.NoError(t, err)
	assert.Equal(t, "사과", got.CanonicalName)
	assert.Equal(t, 1, fast.Len())

	_, err = tiered.Get(ctx, "없음")
	assert.ErrorIs(t, err, common.ErrRecordNotFound)
}

func TestTieredStoreUpsertWritesBoth(t *testing.T) {
	ctx := context.Background()
	fast, durable := NewMemoryStore(), NewMemoryStore()
	tiered := NewTieredStore(fast, durable)

	require.NoError(t, tiered.Upsert(ctx, "배", sampleRecord("배")))
	assert.Equal(t, 1, fast.Len())
	assert.Equal(t, 1, durable.Len())
}

func TestTieredStoreToleratesFastTierFailure(t *testing.T) {
	ctx := context.Background()
	durable := NewMemoryStore()
	tiered := NewTieredStore(failingBackend{err: errors.New("redis down")}, durable)

	require.NoError(t, tiered.Upsert(ctx, "배", sampleRecord("배")))
	got, err := tiered.Get(ctx, "배")
	require.NoError(t, err)
	assert.Equal(t, "배", got.CanonicalName)
	assert.NoError(t, tiered.Ping(ctx))
}

func TestTieredStoreDurableFailureSurfaces(t *testing.T) {
	ctx := context.Background()
	tiered := NewTieredStore(NewMemoryStore(), failingBackend{err: errors.New("pg down")})

	assert.Error(t, tiered.Upsert(ctx, "배", sampleRecord("배")))
	_, err := tiered.Get(ctx, "배")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrRecordNotFound)
}

func TestJSONColumnRoundTrip(t *testing.T) {
	col := jsonColumn[common.SeasonalInfo]{Data: sampleRecord("x").Seasonal}
	v, err := col.Value()
	require.NoError(t, err)

	var scanned jsonColumn[common.SeasonalInfo]
	require.NoError(t, scanned.Scan([]byte(v.(string))))
	assert.Equal(t, col.Data, scanned.Data)

	assert.NoError(t, scanned.Scan(nil))
	assert.Error(t, scanned.Scan(42))
}

func TestRowFromRecordUsesKey(t *testing.T) {
	row := rowFromRecord("사과", sampleRecord("Apple"))
	assert.Equal(t, "사과", row.Name)
	assert.Equal(t, "ingredients", row.TableName())

	rec := row.record()
	assert.Equal(t, "사과", rec.CanonicalName)
	assert.Equal(t, 180, rec.ShelfLife.Freezer.Days)
}

func TestOpenMemoryDriver(t *testing.T) {
	cfg, err := config.Default()
	require.NoError(t, err)

	h, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer h.Close()

	_, ok := h.Backend.(*MemoryStore)
	assert.True(t, ok)
	assert.NoError(t, h.Ping(context.Background()))
	assert.Equal(t, 0, h.Stats()["size"])
}

func TestOpenUnknownDriver(t *testing.T) {
	cfg, err := config.Default()
	require.NoError(t, err)
	cfg.Store.Driver = "sqlite"

	_, err = Open(context.Background(), cfg)
	assert.Error(t, err)
}
