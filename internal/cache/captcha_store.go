package cache

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/krishi-setu/internal/logger"

	"github.com/redis/go-redis/v9"
)

// CaptchaStore Redis 验证码存储，实现 base64Captcha.Store，多实例部署时共享答案
type CaptchaStore struct {
	ttl time.Duration
}

// NewCaptchaStore 创建 Redis 验证码存储
func NewCaptchaStore(ttl time.Duration) *CaptchaStore {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CaptchaStore{ttl: ttl}
}

func captchaKey(id string) string {
	return "captcha:" + strings.TrimSpace(id)
}

// Set 保存验证码答案
func (s *CaptchaStore) Set(id string, value string) error {
	client := Client()
	if client == nil {
		return nil
	}
	return client.Set(context.Background(), buildKey(captchaKey(id)), value, s.ttl).Err()
}

// Get 读取验证码答案，clear 为 true 时读取后删除
func (s *CaptchaStore) Get(id string, clear bool) string {
	client := Client()
	if client == nil {
		return ""
	}
	ctx := context.Background()
	key := buildKey(captchaKey(id))
	var (
		value string
		err   error
	)
	if clear {
		value, err = client.GetDel(ctx, key).Result()
	} else {
		value, err = client.Get(ctx, key).Result()
	}
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warnw("captcha_store_get_failed", "captcha_id", id, "error", err)
		}
		return ""
	}
	return value
}

// Verify 校验验证码答案（忽略大小写）
func (s *CaptchaStore) Verify(id, answer string, clear bool) bool {
	stored := s.Get(id, clear)
	if stored == "" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(stored), strings.TrimSpace(answer))
}
