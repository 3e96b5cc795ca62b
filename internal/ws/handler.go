package ws

import (
	"net/http"

	"github.com/Sigma-Eleven/model/internal/logger"
	"github.com/Sigma-Eleven/model/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// HandleWS upgrades a seat token holder to the seat's socket.
func HandleWS(hub *Hub, tokens *service.SeatTokens, allowedOrigin string) gin.HandlerFunc {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			if allowedOrigin == "" {
				return true
			}
			return r.Header.Get("Origin") == allowedOrigin
		},
	}

	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "token required"})
			return
		}

		claims, err := tokens.Parse(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		client, err := hub.Lookup(claims.GameID, claims.Seat)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "seat not found"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn("ws upgrade error", "error", err)
			return
		}

		go client.Serve(conn)
	}
}
