package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wfunc/nation-game/internal/errors"
)

// Response 统一响应信封
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// respondOK 返回成功响应
func respondOK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// respondCreated 返回创建成功响应
func respondCreated(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// respondError 按错误码映射HTTP状态返回失败响应
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "服务器内部错误"

	if appErr, ok := err.(*errors.AppError); ok {
		status = appErr.HTTPStatus()
		message = appErr.Message
		if appErr.Details != "" {
			message = appErr.Details
		}
	} else if err != nil {
		message = err.Error()
	}

	c.JSON(status, Response{
		Success: false,
		Message: message,
	})
}

// respondBadRequest 返回参数错误响应
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Response{
		Success: false,
		Message: message,
	})
}
