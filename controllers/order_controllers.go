package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/waffle-wala/middlewares"
	"github.com/yeremiapane/waffle-wala/services"
	"github.com/yeremiapane/waffle-wala/utils"
)

type OrderController struct {
	Orders  *services.OrderService
	Tracker *services.OrderTracker
}

func NewOrderController(orders *services.OrderService, tracker *services.OrderTracker) *OrderController {
	return &OrderController{Orders: orders, Tracker: tracker}
}

// TrackOrder -> lanjutkan tracking dari pointer last order session
func (oc *OrderController) TrackOrder(c *gin.Context) {
	view, err := oc.Tracker.Current(c.Request.Context(), middlewares.SessionID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Tracking "+view.Label, view)
}

func (oc *OrderController) DismissTracking(c *gin.Context) {
	if err := oc.Tracker.Dismiss(c.Request.Context(), middlewares.SessionID(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Tracking dismissed", nil)
}

// GetOrderStatus -> status satu order berdasarkan id
func (oc *OrderController) GetOrderStatus(c *gin.Context) {
	order, err := oc.Orders.Get(c.Request.Context(), c.Param("order_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	view := services.NewTrackingView(services.PointerFor(order), order.Status)
	utils.RespondJSON(c, http.StatusOK, "Order status", view)
}
