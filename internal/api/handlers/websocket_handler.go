// server/internal/api/handlers/websocket_handler.go
package handlers

import (
	"log"
	"net/http"
	"time"

	"reeutil-tradein-api-server/internal/auth"
	"reeutil-tradein-api-server/internal/socket"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Maximum wait for a message from the client before the connection is
// considered dead.
const pongWait = 30 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHandler struct {
	Hub       *socket.Hub
	JWTSecret []byte
}

// ServeWs upgrades the connection and keeps it registered in the hub until
// the client goes away. Auth comes from a token query parameter since
// browsers cannot set headers on WebSocket dials.
func (h *WebSocketHandler) ServeWs(c *gin.Context) {
	tokenString := c.Query("token")
	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token is required"})
		return
	}

	claims, err := auth.ParseJWT(h.JWTSecret, tokenString)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}
	userID := claims.Sub

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}

	h.Hub.Register(userID, conn)

	defer func() {
		h.Hub.Unregister(userID)
		conn.Close()
	}()

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPingHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("Unexpected close error: %v", err)
			}
			break
		}
	}
}
