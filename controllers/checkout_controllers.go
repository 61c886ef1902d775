package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/waffle-wala/middlewares"
	"github.com/yeremiapane/waffle-wala/services"
	"github.com/yeremiapane/waffle-wala/utils"
)

type CheckoutController struct {
	Orders *services.OrderService
}

func NewCheckoutController(orders *services.OrderService) *CheckoutController {
	return &CheckoutController{Orders: orders}
}

// Checkout -> COD langsung jadi order, UPI menunggu konfirmasi pembayaran
func (cc *CheckoutController) Checkout(c *gin.Context) {
	var req services.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid checkout form"))
		return
	}

	result, err := cc.Orders.Checkout(c.Request.Context(), middlewares.SessionID(c), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if result.AwaitingPayment() {
		utils.RespondJSON(c, http.StatusAccepted, "Complete the UPI payment, then confirm", result.Hold)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Order "+result.Order.Label()+" placed", result.Order)
}

// ConfirmHold -> customer sudah bayar via UPI
func (cc *CheckoutController) ConfirmHold(c *gin.Context) {
	order, err := cc.Orders.ConfirmPayment(c.Request.Context(), middlewares.SessionID(c), c.Param("hold_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Order "+order.Label()+" placed", order)
}

func (cc *CheckoutController) CancelHold(c *gin.Context) {
	if err := cc.Orders.CancelPayment(c.Request.Context(), middlewares.SessionID(c), c.Param("hold_id")); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Payment cancelled", nil)
}
