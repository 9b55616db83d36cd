package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/maliksaad1/ai-surrogate/internal/db"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
}

// SocketFrame is one inbound chat frame on /ws/chat. The connection
// carries one frame per user message; each frame yields exactly one
// SocketReply.
type SocketFrame struct {
	UserID   string `json:"user_id"`
	ThreadID string `json:"thread_id"`
	Message  string `json:"message"`
}

// SocketReply is the outbound frame answering a SocketFrame.
type SocketReply struct {
	Turn  *ChatResponse `json:"turn,omitempty"`
	Error string        `json:"error,omitempty"`
}

// handleChatSocket upgrades the connection and serves chat turns until
// the client disconnects. A bad frame answers with an error reply and
// keeps the connection open; only transport errors close it.
func (s *Server) handleChatSocket(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "websocket upgrade failed")
	}
	defer conn.Close()

	log := s.logger.With(
		"conn_id", uuid.NewString(),
		"remote", conn.RemoteAddr().String())
	log.Info("chat socket opened")

	ctx := c.Request().Context()
	for {
		var frame SocketFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn("chat socket closed unexpectedly", "error", err)
			}
			return nil
		}

		reply := s.serveFrame(ctx, frame)
		if err := conn.WriteJSON(reply); err != nil {
			log.Warn("chat socket write failed", "error", err)
			return nil
		}
	}
}

// serveFrame validates and executes one chat frame.
func (s *Server) serveFrame(ctx context.Context, frame SocketFrame) SocketReply {
	switch {
	case frame.UserID == "":
		return SocketReply{Error: "user_id is required"}
	case frame.ThreadID == "":
		return SocketReply{Error: "thread_id is required"}
	}

	turn, err := s.chat.SendMessage(ctx, frame.UserID, frame.ThreadID, frame.Message)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return SocketReply{Error: "thread not found"}
		}
		return SocketReply{Error: err.Error()}
	}
	return SocketReply{Turn: turnToResponse(turn)}
}
