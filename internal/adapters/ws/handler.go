package ws

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/som23ya/workwale-core/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler upgrades HTTP requests into hub-managed websocket clients.
type Handler struct {
	hub *Hub
	log logger.Logger
}

// NewHandler creates a websocket handler on the given hub.
func NewHandler(hub *Hub) *Handler {
	return &Handler{hub: hub, log: logger.Named("ws.handler")}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn(r.Context(), "websocket upgrade failed", logger.Error(err))
		return
	}

	client := NewClient(h.hub, conn)
	h.hub.register <- client
	go client.WritePump()
	go client.ReadPump()
}
