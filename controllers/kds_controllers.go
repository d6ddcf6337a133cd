package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/yeremiapane/restaurant-ops/kds"
	"github.com/yeremiapane/restaurant-ops/utils"
)

type KDSController struct {
	Hub      *kds.Hub
	upgrader websocket.Upgrader
}

// NewKDSController accepts upgrades from the configured origins, or from any
// origin when the list contains "*". Requests without an Origin header (non
// browser clients) are always accepted.
func NewKDSController(hub *kds.Hub, allowedOrigins []string) *KDSController {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &KDSController{
		Hub: hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed["*"] || allowed[origin]
			},
		},
	}
}

// KDSHandler -> websocket feed of order, table and reservation events
func (kc *KDSController) KDSHandler(c *gin.Context) {
	session := mustSession(c)

	ws, err := kc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.Warnf("kds upgrade failed: %v", err)
		return
	}

	kc.Hub.Register(ws, session.Role)
	utils.InfoLogger.WithField("role", session.Role).Info("kds client connected")

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	kc.Hub.Unregister(ws)
	utils.InfoLogger.WithField("role", session.Role).Info("kds client disconnected")
}
