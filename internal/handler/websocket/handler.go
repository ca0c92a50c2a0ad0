package websocket

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/alpranjal28/mspaint-sub000/internal/hub"
)

// TokenVerifier validates a raw token string and returns the user it belongs to.
type TokenVerifier interface {
	VerifyToken(token string) (uint, error)
}

// Handler upgrades HTTP requests to websocket connections and hands
// authenticated clients to the hub.
type Handler struct {
	upgrader websocket.Upgrader
	hub      *hub.Hub
	auth     TokenVerifier
}

func NewHandler(h *hub.Hub, auth TokenVerifier) *Handler {
	return &Handler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		hub:  h,
		auth: auth,
	}
}

// HandleConnection serves GET /ws?token=<jwt>. The connection is upgraded
// first; a missing or invalid token then closes the socket without sending
// any frame, so an unauthenticated probe learns nothing.
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithField("error", err.Error()).Warn("Websocket upgrade failed")
		return
	}

	token := c.Query("token")
	if token == "" {
		conn.Close()
		return
	}
	userID, err := h.auth.VerifyToken(token)
	if err != nil {
		logrus.WithField("error", err.Error()).Warn("Websocket auth failed")
		conn.Close()
		return
	}

	client := hub.NewClient(h.hub, conn, userID)
	h.hub.Register(client)
	client.Run()
	logrus.WithField("user_id", userID).Info("Websocket connection established")
}
