package websocket

import (
	"net/http"

	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"
	"github.com/wfunc/nation-game/internal/config"
	"github.com/wfunc/nation-game/internal/middleware"
	"go.uber.org/zap"
)

// WorldMapHandler 世界地图推送通道处理器
type WorldMapHandler struct {
	hub      *Hub
	upgrader gorilla.Upgrader
	logger   *zap.Logger
}

// NewWorldMapHandler 创建世界地图通道处理器
func NewWorldMapHandler(hub *Hub, cfg *config.WebSocketConfig, logger *zap.Logger) *WorldMapHandler {
	readBuf := cfg.ReadBufferSize
	if readBuf <= 0 {
		readBuf = 1024
	}
	writeBuf := cfg.WriteBufferSize
	if writeBuf <= 0 {
		writeBuf = 1024
	}

	return &WorldMapHandler{
		hub:    hub,
		logger: logger,
		upgrader: gorilla.Upgrader{
			ReadBufferSize:  readBuf,
			WriteBufferSize: writeBuf,
			CheckOrigin: func(r *http.Request) bool {
				// 浏览器客户端来源不固定，握手已由令牌校验保护
				return true
			},
		},
	}
}

// Handle 处理WebSocket握手
// 令牌校验由认证中间件完成（支持query参数token）
func (h *WorldMapHandler) Handle(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "缺少认证令牌",
		})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("WebSocket升级失败",
			zap.Uint("user_id", userID),
			zap.Error(err))
		return
	}

	client := NewClient(h.hub, conn, userID)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
