package cache

import (
	"context"
	"time"

	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/common/log"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/config"
	"github.com/go-redis/redis/v8"
	"github.com/google/wire"
	"github.com/pkg/errors"
)

var ProviderSet = wire.NewSet(NewCache)

// ErrKeyNotFound 缓存未命中
var ErrKeyNotFound = errors.New("key not found")

// Cache 用户组等热点数据的缓存
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Close() error
}

// RedisCache redis客户端
type RedisCache struct {
	client redis.UniversalClient
}

// NewCache redis.enabled 为 false 时返回 nil，调用方直接查库。cleanup 在服务退出时关闭连接
func NewCache() (Cache, func(), error) {
	cfg := config.Get().Redis
	if !cfg.Enabled {
		return nil, func() {}, nil
	}
	c, err := NewRedisCache(cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := c.Close(); err != nil {
			log.Warnf("close redis client failed: %v", err)
		}
	}
	return c, cleanup, nil
}

// NewRedisCache 创建 Redis 实例，mode 为 sentinel 时使用哨兵模式
func NewRedisCache(cfg config.RedisCfg) (*RedisCache, error) {
	var client redis.UniversalClient
	if cfg.Mode == config.RedisModeSentinel {
		client = newSentinelClient(cfg)
	} else {
		client = newStandaloneClient(cfg)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "连接 redis 失败")
	}

	return &RedisCache{client: client}, nil
}

// newSentinelClient Sentinel 模式
func newSentinelClient(cfg config.RedisCfg) redis.UniversalClient {
	return redis.NewFailoverClient(&redis.FailoverOptions{
		MasterName:    cfg.MasterName,
		SentinelAddrs: cfg.Addrs,
		Username:      cfg.Username,
		Password:      cfg.Password,
		DB:            cfg.DB,

		PoolSize:     50,
		MinIdleConns: 5,
		MaxRetries:   3,

		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
}

// newStandaloneClient Standalone 模式，只使用第一个地址
func newStandaloneClient(cfg config.RedisCfg) *redis.Client {
	addr := ""
	if len(cfg.Addrs) > 0 {
		addr = cfg.Addrs[0]
	}
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,

		PoolSize:     50,
		MinIdleConns: 5,
		MaxRetries:   3,

		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
}

// Get 未命中时返回 ErrKeyNotFound
func (r *RedisCache) Get(ctx context.Context, key string) (string, error) {
	value, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", errors.Wrap(ErrKeyNotFound, key)
	}
	if err != nil {
		return "", errors.Wrap(err, "redis get")
	}
	return value, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	if err := r.client.Set(ctx, key, value, expiration).Err(); err != nil {
		return errors.Wrap(err, "redis set")
	}
	return nil
}

func (r *RedisCache) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return errors.Wrap(err, "redis del")
	}
	return nil
}

// Close 关闭 Redis 连接。
func (r *RedisCache) Close() error {
	return r.client.Close()
}
