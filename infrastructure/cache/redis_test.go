package cache

import (
	"context"
	"testing"
	"time"

	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/config"
	"github.com/agiledragon/gomonkey/v2"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redismock/v8"
	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNewRedisCache(t *testing.T) {
	Convey("TestNewRedisCache", t, func() {
		Convey("Standalone 模式创建成功", func() {
			db, mock := redismock.NewClientMock()
			mock.ExpectPing().SetVal("PONG")

			patches := gomonkey.ApplyFunc(newStandaloneClient, func(cfg config.RedisCfg) *redis.Client {
				return db
			})
			defer patches.Reset()

			c, err := NewRedisCache(config.RedisCfg{Mode: config.RedisModeStandalone, Addrs: []string{"localhost:6379"}})
			So(err, ShouldBeNil)
			So(c, ShouldNotBeNil)
			So(mock.ExpectationsWereMet(), ShouldBeNil)
		})

		Convey("Sentinel 模式 Ping 失败", func() {
			db, mock := redismock.NewClientMock()
			mock.ExpectPing().SetErr(redis.ErrClosed)

			patches := gomonkey.ApplyFunc(newSentinelClient, func(cfg config.RedisCfg) redis.UniversalClient {
				return db
			})
			defer patches.Reset()

			c, err := NewRedisCache(config.RedisCfg{
				Mode:       config.RedisModeSentinel,
				MasterName: "mymaster",
				Addrs:      []string{"localhost:26379"},
			})
			So(err, ShouldNotBeNil)
			So(c, ShouldBeNil)
			So(err.Error(), ShouldContainSubstring, "连接 redis 失败")
		})

		Convey("未启用时不创建", func() {
			c, cleanup, err := NewCache()
			So(err, ShouldBeNil)
			So(c, ShouldBeNil)
			cleanup()
		})
	})
}

func TestRedisCache(t *testing.T) {
	Convey("TestRedisCache", t, func() {
		db, mock := redismock.NewClientMock()
		c := &RedisCache{client: db}
		ctx := context.Background()

		Convey("获取存在的 key", func() {
			mock.ExpectGet("user_groups:2").SetVal("[7]")

			value, err := c.Get(ctx, "user_groups:2")
			So(err, ShouldBeNil)
			So(value, ShouldEqual, "[7]")
		})

		Convey("key 不存在", func() {
			mock.ExpectGet("user_groups:3").RedisNil()

			_, err := c.Get(ctx, "user_groups:3")
			So(errors.Is(err, ErrKeyNotFound), ShouldBeTrue)
		})

		Convey("设置与删除", func() {
			mock.ExpectSet("user_groups:2", "[7]", time.Minute).SetVal("OK")
			mock.ExpectDel("user_groups:2").SetVal(1)

			So(c.Set(ctx, "user_groups:2", "[7]", time.Minute), ShouldBeNil)
			So(c.Del(ctx, "user_groups:2"), ShouldBeNil)
			So(c.Del(ctx), ShouldBeNil)
			So(mock.ExpectationsWereMet(), ShouldBeNil)
		})
	})
}
