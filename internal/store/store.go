// Package store provides the keyed JSON stores that back the collection
// output and the handoffs between pipeline stages. Each store is a single
// SQLite file holding one table of (key, JSON value) rows.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store is a SQLite-backed key to JSON value mapping.
type Store struct {
	db *gorm.DB
}

type row struct {
	Key   string `gorm:"column:key;primaryKey"`
	Value string `gorm:"column:value;type:text;not null"`
}

func (row) TableName() string { return "data" }

// Open opens (creating if necessary) the store at path. Parent directories
// are created as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("open store %s: %w", path, err)
		}
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Discard,
	})
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", path, err)
	}
	if err := db.AutoMigrate(&row{}); err != nil {
		return nil, fmt.Errorf("migrate store %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Get returns the raw JSON value stored under key. The boolean reports
// whether the key exists.
func (s *Store) Get(key string) (json.RawMessage, bool, error) {
	var data row
	err := s.db.Where("key = ?", key).Take(&data).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return json.RawMessage(data.Value), true, nil
}

// GetJSON unmarshals the value stored under key into out.
func (s *Store) GetJSON(key string, out any) (bool, error) {
	raw, ok, err := s.Get(key)
	if err != nil || !ok {
		return ok, err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return true, fmt.Errorf("decode value for key %s: %w", key, err)
	}
	return true, nil
}

// Put stores value under key, replacing any existing value. Values that are
// not already raw JSON are marshalled.
func (s *Store) Put(key string, value any) error {
	var encoded []byte
	switch v := value.(type) {
	case json.RawMessage:
		encoded = v
	case []byte:
		encoded = v
	default:
		var err error
		encoded, err = json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode value for key %s: %w", key, err)
		}
	}
	data := row{Key: key, Value: string(encoded)}
	return s.db.Save(&data).Error
}

// Delete removes key from the store. Deleting a missing key is not an error.
func (s *Store) Delete(key string) error {
	return s.db.Where("key = ?", key).Delete(&row{}).Error
}

// Keys returns all keys in ascending lexicographic order.
func (s *Store) Keys() ([]string, error) {
	var keys []string
	err := s.db.Model(&row{}).Order("key").Pluck("key", &keys).Error
	return keys, err
}

// Len returns the number of stored entries.
func (s *Store) Len() (int64, error) {
	var count int64
	err := s.db.Model(&row{}).Count(&count).Error
	return count, err
}

// ForEach calls fn for every entry in ascending key order. Iteration stops on
// the first error.
func (s *Store) ForEach(fn func(key string, value json.RawMessage) error) error {
	var data []row
	if err := s.db.Order("key").Find(&data).Error; err != nil {
		return err
	}
	for _, item := range data {
		if err := fn(item.Key, json.RawMessage(item.Value)); err != nil {
			return err
		}
	}
	return nil
}
