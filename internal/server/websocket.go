package server

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// handleWebSocket upgrades to WebSocket and streams parse events to the
// client as they are produced by the pipeline.
func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	events := s.hub.Subscribe()

	// Read pump, only to detect client disconnect.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				conn.Close()
				return
			}
		}
	}()

	// Write pump: send events as JSON.
	for ev := range events {
		msg := struct {
			Timestamp string `json:"timestamp"`
			Build     int    `json:"build"`
			Kind      string `json:"kind"`
			Text      string `json:"text"`
		}{
			Timestamp: ev.Timestamp.Format(time.RFC3339),
			Build:     ev.Build,
			Kind:      ev.Kind,
			Text:      ev.Text,
		}

		if err := conn.WriteJSON(msg); err != nil {
			log.Printf("websocket write failed: %v", err)
			return
		}
	}
}
