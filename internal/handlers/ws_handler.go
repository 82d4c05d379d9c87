package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/pritamkumarbishwas/backend/internal/realtime"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// matches the wide-open CORS policy of the REST surface
	CheckOrigin: func(r *http.Request) bool { return true },
}

type WSHandler struct {
	relay *realtime.Relay
}

func NewWSHandler(relay *realtime.Relay) *WSHandler {
	return &WSHandler{relay: relay}
}

// Serve upgrades the request and services the connection until it ends. The
// connection identifies itself through the `setup` event, not through the
// HTTP layer.
func (h *WSHandler) Serve(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[relay][conn] upgrade failed: %v", err)
		return
	}
	realtime.NewClient(conn, h.relay).Run()
}
