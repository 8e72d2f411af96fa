package router

import (
	"go-acquire/controller"
	"go-acquire/middleware"
	"go-acquire/ws"

	"github.com/gin-gonic/gin"
)

func InitRouter(r *gin.Engine) {
	r.POST("/auth/login", controller.Login)

	// 房间接口路由
	api := r.Group("/room", middleware.AuthMiddleware())
	{
		api.POST("/create", controller.CreateRoom)
		api.GET("/list", controller.GetRoomList)
		api.POST("/delete", controller.DeleteRoom)
		api.GET("/:roomID", controller.GetRoomInfo)
	}

	// 历史战绩
	r.GET("/results", middleware.AuthMiddleware(), controller.GetResults)

	// WebSocket 路由
	r.GET("/ws", ws.HandleWebSocket)
}
