package handlers

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"

	"github.com/smartspend/smartspend-api/middleware"
	"github.com/smartspend/smartspend-api/services"
	"github.com/smartspend/smartspend-api/utils"
)

const (
	keyUserID  = "user_id"
	keyIsAdmin = "is_admin"
)

// WSHandler pushes live events to connected sessions. It implements
// services.Notifier.
type WSHandler struct {
	M *melody.Melody
}

func NewWSHandler() *WSHandler {
	m := melody.New()

	// Clients only listen; inbound messages are small pings at most.
	m.Config.MaxMessageSize = 4 * 1024

	// Keep-alive for hosted proxies that drop idle connections.
	m.Config.PingPeriod = 30 * time.Second
	m.Config.PongWait = 60 * time.Second

	m.HandleConnect(func(s *melody.Session) {
		utils.LogWebSocket("connected", sessionUser(s))
	})

	m.HandleDisconnect(func(s *melody.Session) {
		utils.LogWebSocket("disconnected", sessionUser(s))
	})

	m.HandleError(func(s *melody.Session, err error) {
		log.Printf("❌ WebSocket Error: %v", err)
	})

	return &WSHandler{M: m}
}

// HandleWS upgrades an authenticated request. Identity is attached before the
// connect hook runs.
func (h *WSHandler) HandleWS(c *gin.Context) {
	keys := map[string]interface{}{
		keyUserID:  middleware.GetUserID(c),
		keyIsAdmin: middleware.IsAdmin(c),
	}
	if err := h.M.HandleRequestWithKeys(c.Writer, c.Request, keys); err != nil {
		log.Printf("❌ Failed to upgrade websocket: %v", err)
	}
}

func sessionUser(s *melody.Session) string {
	v, _ := s.Get(keyUserID)
	id, _ := v.(string)
	return id
}

func (h *WSHandler) broadcast(evt services.Event, keep func(*melody.Session) bool) {
	msg, err := json.Marshal(evt)
	if err != nil {
		log.Printf("⚠️ Could not encode %s event: %v", evt.Type, err)
		return
	}
	if err := h.M.BroadcastFilter(msg, keep); err != nil {
		log.Printf("⚠️ Error broadcasting %s: %v", evt.Type, err)
	}
}

func (h *WSHandler) NotifyUser(userID string, evt services.Event) {
	h.broadcast(evt, func(q *melody.Session) bool {
		return sessionUser(q) == userID
	})
}

func (h *WSHandler) NotifyAdmins(evt services.Event) {
	h.broadcast(evt, func(q *melody.Session) bool {
		admin, exists := q.Get(keyIsAdmin)
		return exists && admin == true
	})
}

func (h *WSHandler) Close() error {
	return h.M.Close()
}

var _ services.Notifier = (*WSHandler)(nil)
