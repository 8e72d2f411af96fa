package controller

import (
	"net/http"
	"strconv"

	"go-acquire/dto"
	"go-acquire/service"

	"github.com/gin-gonic/gin"
)

func CreateRoom(c *gin.Context) {
	var req dto.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少必要字段"})
		return
	}

	roomID, err := service.CreateRoom(req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status_code": http.StatusOK,
		"msg":         "房间创建成功",
		"data": dto.CreateRoomResponse{
			RoomID: roomID,
		},
	})
}

func DeleteRoom(c *gin.Context) {
	var req dto.DeleteRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少必要字段"})
		return
	}
	if err := service.DeleteRoom(req); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status_code": http.StatusOK,
		"msg":         "房间删除成功",
	})
}

func GetRoomList(c *gin.Context) {
	rooms, err := service.GetRoomList()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "获取房间列表失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "获取成功",
		"status_code": http.StatusOK,
		"data": dto.GetRoomList{
			Rooms: rooms,
		},
	})
}

// GetResults 历史战绩，可按 roomID 过滤
func GetResults(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit 必须是数字"})
		return
	}

	results, err := service.ListResults(c.Query("roomID"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询战绩失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status_code": http.StatusOK,
		"data": gin.H{
			"results": results,
		},
	})
}

func GetRoomInfo(c *gin.Context) {
	roomID := c.Param("roomID")
	info, err := service.GetRoomInfo(roomID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status_code": http.StatusOK,
		"data":        info,
	})
}
