package websocket

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	gorillaWS "github.com/gorilla/websocket"
	"github.com/remotehive/jobboard-gin/internal/auth"
)

var upgrader = gorillaWS.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// 在生产环境中应该检查 Origin
		return true
	},
}

// WebSocketHandler WebSocket 处理器
// 订阅指定职位的状态变更事件,支持 token 携带操作人身份
func WebSocketHandler(hub *Hub, parser *auth.TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. 订阅的职位 ID
		jobPostID := c.Param("id")
		if jobPostID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing job post ID"})
			return
		}

		// 2. 从 query 参数获取 token
		token := c.Query("token")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		actor, err := parser.Parse(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		// 3. 升级连接
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to upgrade connection"})
			return
		}

		// 4. 创建并注册客户端
		client := NewClient(
			uuid.New().String(),
			jobPostID,
			actor.ID,
			hub,
			conn,
		)

		hub.Register <- client

		// 5. 启动 readPump 和 writePump
		go client.ReadPump()
		go client.WritePump()
	}
}
