// redis.go
package repository

import (
	"context"

	"go-acquire/utils"

	"github.com/go-redis/redis/v8"
)

var (
	Rdb *redis.Client
	Ctx = context.Background()
)

func InitRedis(addr, password string, db int) {
	Rdb = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	_, err := Rdb.Ping(Ctx).Result()
	if err != nil {
		utils.Log.Fatalf("❌ Redis 连接失败: %v", err)
	}
	utils.Log.Infof("✅ Redis 连接成功")
}
