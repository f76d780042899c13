package store

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ingredient-guide/internal/pkg/common"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// jsonColumn 以 jsonb 欄位保存的值
type jsonColumn[T any] struct {
	Data T
}

// Value 實作 driver.Valuer
func (j jsonColumn[T]) Value() (driver.Value, error) {
	b, err := json.Marshal(j.Data)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan 實作 sql.Scanner
func (j *jsonColumn[T]) Scan(src interface{}) error {
	var b []byte
	switch v := src.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	case nil:
		return nil
	default:
		return fmt.Errorf("unsupported jsonb source type %T", src)
	}
	return json.Unmarshal(b, &j.Data)
}

// ingredientRow ingredients 資料表
type ingredientRow struct {
	Name      string                           `gorm:"primaryKey;type:text"`
	Storage   jsonColumn[common.StorageInfo]   `gorm:"type:jsonb;not null"`
	ShelfLife jsonColumn[common.ShelfLifeInfo] `gorm:"column:shelf_life;type:jsonb;not null"`
	Seasonal  jsonColumn[common.SeasonalInfo]  `gorm:"type:jsonb;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName 資料表名稱
func (ingredientRow) TableName() string {
	return "ingredients"
}

func rowFromRecord(key string, rec common.IngredientRecord) ingredientRow {
	return ingredientRow{
		Name:      key,
		Storage:   jsonColumn[common.StorageInfo]{Data: rec.Storage},
		ShelfLife: jsonColumn[common.ShelfLifeInfo]{Data: rec.ShelfLife},
		Seasonal:  jsonColumn[common.SeasonalInfo]{Data: rec.Seasonal},
	}
}

func (r ingredientRow) record() common.IngredientRecord {
	return common.IngredientRecord{
		CanonicalName: r.Name,
		Storage:       r.Storage.Data,
		ShelfLife:     r.ShelfLife.Data,
		Seasonal:      r.Seasonal.Data,
	}
}

// PostgresOptions 連線池設定
type PostgresOptions struct {
	MaxOpenConns int
	MaxIdleConns int
	ConnLifetime time.Duration
}

// PostgresStore 以 Postgres 保存紀錄，name 為主鍵
type PostgresStore struct {
	db *gorm.DB
}

// OpenPostgres 連線、設定連線池並建立資料表
func OpenPostgres(ctx context.Context, dsn string, opts PostgresOptions) (*PostgresStore, error) {
	// 由 preparePool 以 ctx ping，失敗時可關閉連線池
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:               logger.Default.LogMode(logger.Silent),
		DisableAutomaticPing: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return preparePool(ctx, db, opts)
}

// preparePool 設定連線池、檢查連線並遷移；任何一步失敗都會關閉連線池
func preparePool(ctx context.Context, db *gorm.DB, opts PostgresOptions) (*PostgresStore, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql DB: %w", err)
	}
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnLifetime > 0 {
		sqlDB.SetConnMaxLifetime(opts.ConnLifetime)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	store, err := NewPostgresStore(ctx, db)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return store, nil
}

// NewPostgresStore 以既有的 gorm 連線建立儲存並執行遷移
func NewPostgresStore(ctx context.Context, db *gorm.DB) (*PostgresStore, error) {
	if err := db.WithContext(ctx).AutoMigrate(&ingredientRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate ingredients table: %w", err)
	}
	common.LogInfo("Postgres 儲存已初始化", zap.String("table", ingredientRow{}.TableName()))
	return &PostgresStore{db: db}, nil
}

// Get 依鍵讀取
func (s *PostgresStore) Get(ctx context.Context, key string) (*common.IngredientRecord, error) {
	var row ingredientRow
	err := s.db.WithContext(ctx).Where("name = ?", key).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to query ingredient: %w", err)
	}
	rec := row.record()
	return &rec, nil
}

// Upsert INSERT ... ON CONFLICT (name) DO UPDATE
func (s *PostgresStore) Upsert(ctx context.Context, key string, record common.IngredientRecord) error {
	row := rowFromRecord(key, record)
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"storage", "shelf_life", "seasonal", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to upsert ingredient: %w", err)
	}
	return nil
}

// Ping 檢查連線
func (s *PostgresStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close 關閉連線
func (s *PostgresStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
