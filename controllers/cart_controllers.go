package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/waffle-wala/middlewares"
	"github.com/yeremiapane/waffle-wala/services"
	"github.com/yeremiapane/waffle-wala/utils"
)

type CartController struct {
	Carts *services.CartService
}

func NewCartController(carts *services.CartService) *CartController {
	return &CartController{Carts: carts}
}

func (cc *CartController) GetCart(c *gin.Context) {
	cart := cc.Carts.Get(c.Request.Context(), middlewares.SessionID(c))
	utils.RespondJSON(c, http.StatusOK, "Cart", cart.View())
}

// AddItem -> tambah item (simple, customized, combo) ke cart
func (cc *CartController) AddItem(c *gin.Context) {
	var req services.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondFieldError(c, http.StatusBadRequest, "name", err)
		return
	}

	cart, err := cc.Carts.AddItem(c.Request.Context(), middlewares.SessionID(c), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Added to cart", cart.View())
}

func (cc *CartController) Increment(c *gin.Context) {
	cc.mutate(c, "Quantity updated", cc.Carts.Increment)
}

func (cc *CartController) Decrement(c *gin.Context) {
	cc.mutate(c, "Quantity updated", cc.Carts.Decrement)
}

func (cc *CartController) RemoveItem(c *gin.Context) {
	cc.mutate(c, "Item removed", cc.Carts.Remove)
}

func (cc *CartController) ClearCart(c *gin.Context) {
	cart, err := cc.Carts.Clear(c.Request.Context(), middlewares.SessionID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Cart cleared", cart.View())
}

type lineAction func(ctx context.Context, sessionID, key string) (*services.Cart, error)

func (cc *CartController) mutate(c *gin.Context, message string, action lineAction) {
	cart, err := action(c.Request.Context(), middlewares.SessionID(c), c.Param("key"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, message, cart.View())
}
