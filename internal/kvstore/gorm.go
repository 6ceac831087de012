package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"rainbow-properties/internal/config"
)

// kvRow mirrors the hosted kv_store table for self-hosted MySQL.
type kvRow struct {
	Key   string `gorm:"column:key;type:varchar(255);primaryKey"`
	Value []byte `gorm:"column:value;type:json;not null"`
}

func (kvRow) TableName() string {
	return kvTable
}

// GormStore is a MySQL-backed store for deployments without the hosted
// backend.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore connects to MySQL and pings the database.
func NewGormStore(cfg *config.MySQLConfig) (*GormStore, error) {
	port := cfg.Port
	if port == 0 {
		port = 3306
	}
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.User, cfg.Password, cfg.Host, port, cfg.Database)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time {
			return time.Now().Local()
		},
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}

	return &GormStore{db: db}, nil
}

// InitSchema creates the kv_store table if it doesn't exist
func (s *GormStore) InitSchema() error {
	return s.db.AutoMigrate(&kvRow{})
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *GormStore) Get(ctx context.Context, key string) (json.RawMessage, error) {
	var row kvRow
	err := s.db.WithContext(ctx).Where("`key` = ?", key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return json.RawMessage(row.Value), nil
}

func (s *GormStore) Set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	row := kvRow{Key: key, Value: data}

	// Upsert: find existing, create or save
	var existing kvRow
	result := s.db.WithContext(ctx).Where("`key` = ?", key).First(&existing)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return s.db.WithContext(ctx).Create(&row).Error
	}
	if result.Error != nil {
		return result.Error
	}
	return s.db.WithContext(ctx).Save(&row).Error
}

func (s *GormStore) Delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Where("`key` = ?", key).Delete(&kvRow{}).Error
}

func (s *GormStore) GetByPrefix(ctx context.Context, prefix string) ([]Entry, error) {
	var rows []kvRow
	pattern := escapeLike(prefix) + "%"
	err := s.db.WithContext(ctx).Where("`key` LIKE ?", pattern).Find(&rows).Error
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, Entry{Key: row.Key, Value: json.RawMessage(row.Value)})
	}
	return entries, nil
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}
