package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// 进程角色
const (
	RoleHost   = "host"
	RoleRemote = "remote"
)

type Config struct {
	Role          string // host 起权威服务端，remote 起副本客户端
	Name          string // remote 角色的玩家名，留空由主机分配
	Players       int    // host 角色启动即建房的人数，0 表示不建
	Addr          string // remote 角色要连的主机地址
	Port          int
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	MySQLDSN      string
	JWTSecret     string
}

// Load 读取配置。优先级：环境变量（ACQUIRE_ 前缀）> config.yaml > 默认值
func Load() (*Config, error) {
	v := viper.New()
	v.SetDefault("role", RoleHost)
	v.SetDefault("name", "")
	v.SetDefault("players", 0)
	v.SetDefault("addr", "ws://127.0.0.1:8000/ws")
	v.SetDefault("port", 8000)
	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("mysql.dsn", "")
	v.SetDefault("jwt.secret", "")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	v.SetEnvPrefix("ACQUIRE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		Role:          v.GetString("role"),
		Name:          v.GetString("name"),
		Players:       v.GetInt("players"),
		Addr:          v.GetString("addr"),
		Port:          v.GetInt("port"),
		RedisAddr:     v.GetString("redis.addr"),
		RedisPassword: v.GetString("redis.password"),
		RedisDB:       v.GetInt("redis.db"),
		MySQLDSN:      v.GetString("mysql.dsn"),
		JWTSecret:     v.GetString("jwt.secret"),
	}
	if cfg.Role != RoleHost && cfg.Role != RoleRemote {
		return nil, fmt.Errorf("未知角色: %s", cfg.Role)
	}
	if cfg.Players != 0 && (cfg.Players < 2 || cfg.Players > 6) {
		return nil, fmt.Errorf("人数必须在 2~6 之间")
	}
	return cfg, nil
}
