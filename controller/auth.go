package controller

import (
	"net/http"

	"go-acquire/dto"
	"go-acquire/utils"

	"github.com/gin-gonic/gin"
)

// Login 匿名登录：昵称换 token，后续房间接口都要带上
func Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少必要字段"})
		return
	}

	token, err := utils.GenerateToken(req.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "生成 token 失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status_code": http.StatusOK,
		"data": dto.LoginResponse{
			Token:  token,
			UserID: req.Name,
		},
	})
}
