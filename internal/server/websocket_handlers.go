package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// FeedHandler upgrades the connection and registers it with the feed hub.
// The route must be guarded by WebSocketAuthRequired so userID is in locals.
func (s *Server) FeedHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		if s.hub == nil {
			_ = conn.Close()
			return
		}

		userID := conn.Locals("userID").(uint)
		client, err := s.hub.Register(userID, conn)
		if err != nil {
			_ = conn.Close()
			return
		}

		go client.WritePump()
		// ReadPump blocks until the peer disconnects, keeping the
		// websocket.New handler alive for the connection's lifetime.
		client.ReadPump()
	})
}
