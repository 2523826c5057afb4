package realtime

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/videoflow/server/internal/module/auth"
	"github.com/videoflow/server/internal/utils/middleware"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Client message types.
const (
	msgJoinRoom  = "join-video-room"
	msgLeaveRoom = "leave-video-room"
	msgTyping    = "typing"
)

type clientMessage struct {
	Type     string    `json:"type"`
	VideoID  uuid.UUID `json:"video_id"`
	IsTyping bool      `json:"is_typing"`
}

// TokenValidator validates session tokens; the websocket uses the same JWT
// manager as the REST surface.
type TokenValidator interface {
	ValidateToken(token string) (*auth.Claims, error)
}

// UserDirectory confirms the token's user still exists and yields their
// display name for typing events.
type UserDirectory interface {
	GetName(ctx context.Context, id uuid.UUID) (string, error)
}

// Handler upgrades websocket connections and feeds the hub.
type Handler struct {
	hub        *Hub
	validator  TokenValidator
	users      UserDirectory
	cookieName string
	upgrader   websocket.Upgrader
	logger     *zap.Logger
}

// NewHandler creates a websocket handler.
func NewHandler(hub *Hub, validator TokenValidator, users UserDirectory, cookieName, frontendOrigin string, logger *zap.Logger) *Handler {
	return &Handler{
		hub:        hub,
		validator:  validator,
		users:      users,
		cookieName: cookieName,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || origin == frontendOrigin
			},
		},
		logger: logger,
	}
}

// RegisterRoutes registers the websocket endpoint. Auth happens during the
// upgrade, not via the REST middleware, so the route is registered on the
// bare router group.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/ws", h.ServeWS)
}

// ServeWS authenticates and upgrades a websocket connection.
func (h *Handler) ServeWS(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		token = middleware.ExtractToken(c, h.cookieName)
	}
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication_required"})
		return
	}

	claims, err := h.validator.ValidateToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_token"})
		return
	}

	name, err := h.users.GetName(c.Request.Context(), claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unknown_user"})
		return
	}

	teamID := uuid.Nil
	if claims.TeamID != nil {
		teamID = *claims.TeamID
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	session := NewSession(claims.UserID, name, teamID)
	h.hub.Register(session)

	go h.writePump(conn, session)
	go h.readPump(conn, session)
}

func (h *Handler) readPump(conn *websocket.Conn, s *Session) {
	defer func() {
		h.hub.Unregister(s)
		conn.Close()
	}()

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg clientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("websocket closed unexpectedly", zap.Error(err))
			}
			return
		}

		switch msg.Type {
		case msgJoinRoom:
			if err := h.hub.JoinRoom(context.Background(), s, msg.VideoID); err != nil {
				h.logger.Debug("room join refused",
					zap.String("user_id", s.UserID.String()),
					zap.String("video_id", msg.VideoID.String()),
					zap.Error(err),
				)
			}
		case msgLeaveRoom:
			h.hub.LeaveRoom(s, msg.VideoID)
		case msgTyping:
			h.hub.Typing(s, msg.VideoID, msg.IsTyping)
		}
	}
}

func (h *Handler) writePump(conn *websocket.Conn, s *Session) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case msg, ok := <-s.Outbound():
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
