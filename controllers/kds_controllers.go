package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/yeremiapane/waffle-wala/kds"
	"github.com/yeremiapane/waffle-wala/middlewares"
	"github.com/yeremiapane/waffle-wala/models"
	"github.com/yeremiapane/waffle-wala/services"
	"github.com/yeremiapane/waffle-wala/utils"
)

// TopicTracking streams tracker views for the session's last order.
const TopicTracking = "tracking"

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Sesuaikan dengan kebutuhan keamanan
	},
}

type KDSController struct {
	Hub     *kds.Hub
	Tracker *services.OrderTracker
}

func NewKDSController(hub *kds.Hub, tracker *services.OrderTracker) *KDSController {
	return &KDSController{Hub: hub, Tracker: tracker}
}

// allowedTopic reports whether role may follow topic. Customers only see
// stock, the operations flag and single orders.
func allowedTopic(role, topic string) bool {
	if role == middlewares.RoleAdmin {
		return true
	}
	switch {
	case topic == kds.TopicInventory, topic == kds.TopicSettings, topic == TopicTracking:
		return true
	case strings.HasPrefix(topic, models.CollectionInventory+"/"),
		strings.HasPrefix(topic, models.CollectionSettings+"/"),
		strings.HasPrefix(topic, models.CollectionOrders+"/"):
		return true
	}
	return false
}

// Handler -> endpoint WebSocket, ?topic= bisa diulang
func (kc *KDSController) Handler(c *gin.Context) {
	role := c.GetString("role")
	topics := c.QueryArray("topic")
	if len(topics) == 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("at least one topic is required"))
		return
	}
	tracking := false
	var hubTopics []string
	for _, t := range topics {
		if !allowedTopic(role, t) {
			utils.RespondError(c, http.StatusForbidden, errors.New("topic not allowed: "+t))
			return
		}
		if t == TopicTracking {
			tracking = true
			continue
		}
		hubTopics = append(hubTopics, t)
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	kc.Hub.Register(ws, role, hubTopics...)
	defer kc.Hub.Unregister(ws)

	if tracking {
		sessionID := middlewares.SessionID(c)
		stop, err := kc.Tracker.Watch(c.Request.Context(), sessionID, func(v services.TrackingView) {
			if err := kc.Hub.Send(ws, kds.Message{Event: kds.EventTrackingUpdate, Topic: TopicTracking, Data: v}); err != nil {
				utils.ErrorLogger.Errorf("Failed to push tracking update: %v", err)
			}
		})
		if err == nil {
			defer stop()
			if view, err := kc.Tracker.Current(c.Request.Context(), sessionID); err == nil {
				kc.Hub.Send(ws, kds.Message{Event: kds.EventTrackingUpdate, Topic: TopicTracking, Data: view})
			}
		} else {
			utils.InfoLogger.Debugf("Tracking not started for session %s: %v", sessionID, err)
		}
	}

	// Baca pesan sampai client disconnect
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}
}
