package main

import (
	"fmt"
	"time"

	"go-acquire/config"
	"go-acquire/dto"
	"go-acquire/repository"
	"go-acquire/router"
	"go-acquire/service"
	"go-acquire/utils"
	"go-acquire/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	utils.InitLogger()

	cfg, err := config.Load()
	if err != nil {
		utils.Log.Fatalf("❌ 加载配置失败: %v", err)
	}

	if cfg.Role == config.RoleRemote {
		runRemote(cfg)
		return
	}
	runHost(cfg)
}

// runHost 权威服务端：大厅接口 + 房间中枢
func runHost(cfg *config.Config) {
	utils.SetJWTSecret(cfg.JWTSecret)
	repository.InitRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	repository.InitMySQL(cfg.MySQLDSN)

	// 配置了人数就启动即建房，省去一次建房请求
	if cfg.Players > 0 {
		roomID, err := service.CreateRoom(dto.CreateRoomRequest{MaxPlayers: cfg.Players})
		if err != nil {
			utils.Log.Fatalf("❌ 启动建房失败: %v", err)
		}
		utils.Log.Infof("✅ 启动即建房 %s（%d 人）", roomID, cfg.Players)
	}

	r := gin.Default()

	// 设置 CORS 中间件，允许所有域名、所有方法、所有 header
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:   []string{"Content-Length"},
		MaxAge:          12 * time.Hour,
	}))

	router.InitRouter(r)

	if err := r.Run(fmt.Sprintf(":%d", cfg.Port)); err != nil {
		utils.Log.Fatalf("❌ 服务启动失败: %v", err)
	}
}

// runRemote 远端副本：连上主机，跟着事件流维护本地投影
func runRemote(cfg *config.Config) {
	client, err := ws.Dial(cfg.Addr, cfg.Name)
	if err != nil {
		utils.Log.Fatalf("❌ 连接主机失败: %v", err)
	}
	defer client.Close()

	client.OnEvent = func(evt dto.Event) {
		utils.Log.Infof("事件 seq=%d kind=%s player=%s", evt.Seq, evt.Kind, evt.Player)
	}

	utils.Log.Infof("✅ 已连接主机 %s", cfg.Addr)
	if err := client.Run(); err != nil {
		utils.Log.Errorf("❌ 与主机的连接断开: %v", err)
	}
}
