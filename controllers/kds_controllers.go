package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/yeremiapane/canteen-pos/kds"
	"github.com/yeremiapane/canteen-pos/middlewares"
	"github.com/yeremiapane/canteen-pos/utils"
)

type KDSController struct {
	Hub      *kds.Hub
	upgrader websocket.Upgrader
}

// NewKDSController accepts upgrades from the given origins, or from any
// origin when the list is empty.
func NewKDSController(hub *kds.Hub, origins []string) *KDSController {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}

	return &KDSController{
		Hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if len(allowed) == 0 {
					return true
				}
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				_, ok := allowed[origin]
				return ok
			},
		},
	}
}

// OrdersSocket -> endpoint WebSocket, joins the "orders" group until the
// client disconnects
func (kc *KDSController) OrdersSocket(c *gin.Context) {
	role := c.GetString(middlewares.CtxRole)
	userID := c.GetUint(middlewares.CtxUserID)

	ws, err := kc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// the upgrader has already written the HTTP error
		utils.InfoLogger.WithError(err).Debug("websocket upgrade failed")
		return
	}

	opts := kc.Hub.Options()
	session := kds.NewSession(ws, role, userID, opts.SendBuffer)
	utils.InfoLogger.Printf("dashboard connected: session=%s role=%q", session.ID, role)

	kc.Hub.Serve(kds.GroupOrders, session)

	utils.InfoLogger.Printf("dashboard disconnected: session=%s", session.ID)
}
