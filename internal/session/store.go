package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/krishi-setu/internal/cache"
	"github.com/krishi-setu/internal/models"
	"github.com/krishi-setu/internal/repository"
)

// Store 会话存储接口
type Store interface {
	// Load 读取会话，不存在或已过期时返回 nil
	Load(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, sess *Session) error
	Delete(ctx context.Context, id string) error
}

func sessionKey(id string) string {
	return "session:" + id
}

type redisPayload struct {
	Data      Data  `json:"data"`
	ExpiresAt int64 `json:"expires_at"`
}

// RedisStore 基于 Redis 的会话存储
type RedisStore struct{}

// NewRedisStore 创建 Redis 会话存储
func NewRedisStore() *RedisStore {
	return &RedisStore{}
}

// Load 读取会话
func (s *RedisStore) Load(ctx context.Context, id string) (*Session, error) {
	var payload redisPayload
	hit, err := cache.GetJSON(ctx, sessionKey(id), &payload)
	if err != nil || !hit {
		return nil, err
	}
	expiresAt := time.Unix(payload.ExpiresAt, 0)
	if !expiresAt.After(time.Now()) {
		return nil, nil
	}
	return &Session{ID: id, Data: payload.Data, ExpiresAt: expiresAt}, nil
}

// Save 写入会话，TTL 与过期时间一致
func (s *RedisStore) Save(ctx context.Context, sess *Session) error {
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return s.Delete(ctx, sess.ID)
	}
	return cache.SetJSON(ctx, sessionKey(sess.ID), redisPayload{
		Data:      sess.Data,
		ExpiresAt: sess.ExpiresAt.Unix(),
	}, ttl)
}

// Delete 删除会话
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return cache.Del(ctx, sessionKey(id))
}

// DBStore 基于数据库的会话存储（未启用 Redis 时使用）
type DBStore struct {
	repo repository.SessionRepository
	now  func() time.Time
}

// NewDBStore 创建数据库会话存储
func NewDBStore(repo repository.SessionRepository) *DBStore {
	return &DBStore{repo: repo, now: time.Now}
}

// Load 读取会话
func (s *DBStore) Load(_ context.Context, id string) (*Session, error) {
	record, err := s.repo.Get(id, s.now())
	if err != nil || record == nil {
		return nil, err
	}
	var data Data
	if err := json.Unmarshal([]byte(record.Data), &data); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &Session{ID: record.ID, Data: data, ExpiresAt: record.ExpiresAt}, nil
}

// Save 写入会话
func (s *DBStore) Save(_ context.Context, sess *Session) error {
	payload, err := json.Marshal(sess.Data)
	if err != nil {
		return err
	}
	return s.repo.Upsert(&models.SessionRecord{
		ID:        sess.ID,
		UserID:    sess.Data.UserID,
		Data:      string(payload),
		ExpiresAt: sess.ExpiresAt,
	})
}

// Delete 删除会话
func (s *DBStore) Delete(_ context.Context, id string) error {
	return s.repo.Delete(id)
}

// Purge 清理过期会话
func (s *DBStore) Purge() (int64, error) {
	return s.repo.DeleteExpired(s.now())
}
