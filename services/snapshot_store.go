package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"mission-bridge/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrSnapshotNotFound = errors.New("snapshot not found")

// SnapshotStore is the durable key/value storage behind the session.
type SnapshotStore interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key, payload string) error
	Delete(ctx context.Context, key string) error
}

// GormSnapshotStore keeps snapshots in the snapshots table (postgres or sqlite).
type GormSnapshotStore struct {
	DB *gorm.DB
}

func NewGormSnapshotStore(db *gorm.DB) (*GormSnapshotStore, error) {
	if err := db.AutoMigrate(&models.Snapshot{}); err != nil {
		return nil, err
	}
	return &GormSnapshotStore{DB: db}, nil
}

func (s *GormSnapshotStore) Get(ctx context.Context, key string) (string, error) {
	var snap models.Snapshot
	err := s.DB.WithContext(ctx).Where("snapshot_key = ?", key).First(&snap).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrSnapshotNotFound
	}
	if err != nil {
		return "", err
	}
	return snap.Payload, nil
}

func (s *GormSnapshotStore) Put(ctx context.Context, key, payload string) error {
	snap := models.Snapshot{Key: key, Payload: payload, UpdatedAt: time.Now()}
	return s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "snapshot_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&snap).Error
}

func (s *GormSnapshotStore) Delete(ctx context.Context, key string) error {
	return s.DB.WithContext(ctx).Where("snapshot_key = ?", key).Delete(&models.Snapshot{}).Error
}

// RedisSnapshotStore keeps snapshots as plain redis strings without expiry.
type RedisSnapshotStore struct {
	Client  *redis.Client
	Timeout time.Duration
}

func NewRedisSnapshotStore(client *redis.Client) *RedisSnapshotStore {
	return &RedisSnapshotStore{Client: client, Timeout: 2 * time.Second}
}

func (s *RedisSnapshotStore) Get(ctx context.Context, key string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()
	v, err := s.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrSnapshotNotFound
	}
	return v, err
}

func (s *RedisSnapshotStore) Put(ctx context.Context, key, payload string) error {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()
	return s.Client.Set(ctx, key, payload, 0).Err()
}

func (s *RedisSnapshotStore) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()
	return s.Client.Del(ctx, key).Err()
}

// MemorySnapshotStore is a process-local store for development and tests.
type MemorySnapshotStore struct {
	mu   sync.Mutex
	data map[string]string
}

func NewMemorySnapshotStore() *MemorySnapshotStore {
	return &MemorySnapshotStore{data: map[string]string{}}
}

func (s *MemorySnapshotStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	if !ok {
		return "", ErrSnapshotNotFound
	}
	return v, nil
}

func (s *MemorySnapshotStore) Put(_ context.Context, key, payload string) error {
	s.mu.Lock()
	s.data[key] = payload
	s.mu.Unlock()
	return nil
}

func (s *MemorySnapshotStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
	return nil
}
