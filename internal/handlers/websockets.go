package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/punyarb62/dsde-cctv/internal/logger"
	ws "github.com/punyarb62/dsde-cctv/internal/services/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true }, // same placeholder policy as CORS
}

const viewerReadDeadline = 60 * time.Second

// StatusWebsocket upgrades dashboard viewers and registers them with the
// status hub. Viewers only listen; the read loop exists to notice
// disconnects and answer pings.
func StatusWebsocket(hub *ws.HubService, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		connection, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warning("websocket upgrade failed: %v", err)
			return
		}
		connection.SetReadLimit(512)
		connection.SetReadDeadline(time.Now().Add(viewerReadDeadline))
		connection.SetPongHandler(func(string) error {
			connection.SetReadDeadline(time.Now().Add(viewerReadDeadline))
			return nil
		})
		defer connection.Close()

		hub.Register(connection)
		defer hub.Unregister(connection)

		for {
			if _, _, err := connection.ReadMessage(); err != nil {
				return
			}
		}
	}
}
