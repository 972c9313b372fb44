package localstore

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/apprende-client/internal/data/db"
	"github.com/yungbote/apprende-client/internal/platform/logger"
)

// Entry is one key in the client's local key/value storage.
type Entry struct {
	Key       string    `gorm:"primaryKey;column:key"`
	Value     string    `gorm:"column:value;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (Entry) TableName() string { return "local_storage" }

// Store is a tiny persistent key/value store. The client keeps nothing in it but the session token.
type Store struct {
	svc *db.Service
	log *logger.Logger
}

func Open(path string, baseLog *logger.Logger) (*Store, error) {
	svc, err := db.Open(path, baseLog)
	if err != nil {
		return nil, err
	}
	if err := svc.DB().AutoMigrate(&Entry{}); err != nil {
		_ = svc.Close()
		return nil, err
	}
	return &Store{svc: svc, log: baseLog.With("component", "LocalStore")}, nil
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var e Entry
	err := s.svc.DB().WithContext(ctx).Where("key = ?", key).Take(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return e.Value, true, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	e := Entry{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	return s.svc.DB().WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&e).Error
}

func (s *Store) Remove(ctx context.Context, key string) error {
	return s.svc.DB().WithContext(ctx).Where("key = ?", key).Delete(&Entry{}).Error
}

func (s *Store) Close() error { return s.svc.Close() }
