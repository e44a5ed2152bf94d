package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// SetWithExpiration 设置键值对并设置过期时间
func SetWithExpiration(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return Rdb.Set(ctx, key, value, expiration).Err()
}

// GetValue 获取字符串类型的值，键不存在时返回空字符串
func GetValue(ctx context.Context, key string) (string, error) {
	value, err := Rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", err
	}
	return value, nil
}

// SetNX 键不存在时写入，返回是否写入成功
func SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	return Rdb.SetNX(ctx, key, value, expiration).Result()
}

// TryLock 尝试加锁，retryTimes 为 -1 时一直重试
func TryLock(ctx context.Context, key string, value interface{}, expiration time.Duration, retryTimes int) (bool, error) {
	for i := 0; i <= retryTimes || retryTimes == -1; i++ {
		success, err := SetNX(ctx, key, value, expiration)
		if err != nil {
			return false, err
		}
		if success {
			return true, nil
		}
		if i == retryTimes {
			break
		}
		time.Sleep(time.Millisecond * 200)
	}
	return false, nil
}

// UnLock 释放锁
func UnLock(ctx context.Context, key string, value interface{}) {
	Rdb.Eval(ctx, "if redis.call('get', KEYS[1]) == ARGV[1] then return redis.call('del', KEYS[1]) else return 0 end", []string{key}, value)
}

// Store 基于全局客户端的实现，供服务层以接口形式注入
type Store struct{}

func NewStore() *Store {
	return &Store{}
}

func (Store) GetValue(ctx context.Context, key string) (string, error) {
	return GetValue(ctx, key)
}

func (Store) SetWithExpiration(ctx context.Context, key string, value string, expiration time.Duration) error {
	return SetWithExpiration(ctx, key, value, expiration)
}

func (Store) SetNX(ctx context.Context, key string, value string, expiration time.Duration) (bool, error) {
	return SetNX(ctx, key, value, expiration)
}

func (Store) TryLock(ctx context.Context, key string, value string, expiration time.Duration) (bool, error) {
	return TryLock(ctx, key, value, expiration, 0)
}

func (Store) UnLock(ctx context.Context, key string, value string) {
	UnLock(ctx, key, value)
}
