package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/yeremiapane/waffle-wala/middlewares"
	"github.com/yeremiapane/waffle-wala/models"
	"github.com/yeremiapane/waffle-wala/services"
	"github.com/yeremiapane/waffle-wala/utils"
)

type AdminController struct {
	Admin *services.AdminService
	Ops   *services.OperationsService

	adminKeyHash []byte
}

// NewAdminController hashes the shared admin key once at start.
func NewAdminController(admin *services.AdminService, ops *services.OperationsService, adminKey string) (*AdminController, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(adminKey), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &AdminController{Admin: admin, Ops: ops, adminKeyHash: hash}, nil
}

// Login -> tukar admin key dengan JWT
func (ac *AdminController) Login(c *gin.Context) {
	var input struct {
		Key string `json:"key" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("key is required"))
		return
	}

	if err := bcrypt.CompareHashAndPassword(ac.adminKeyHash, []byte(input.Key)); err != nil {
		utils.InfoLogger.Warnf("Failed admin login from %s", c.ClientIP())
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid admin key"))
		return
	}

	token, err := utils.GenerateToken(middlewares.RoleAdmin)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Login success", gin.H{"token": token})
}

func (ac *AdminController) Logout(c *gin.Context) {
	utils.BlacklistToken(c.GetString("token"))
	utils.RespondJSON(c, http.StatusOK, "Logged out", nil)
}

func (ac *AdminController) ListOrders(c *gin.Context) {
	orders, err := ac.Admin.Orders(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// ExportOrders -> download semua order sebagai CSV
func (ac *AdminController) ExportOrders(c *gin.Context) {
	filename := fmt.Sprintf("waffle-wala-orders-%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := ac.Admin.ExportCSV(c.Request.Context(), c.Writer); err != nil {
		utils.ErrorLogger.Errorf("CSV export failed: %v", err)
		c.Status(http.StatusInternalServerError)
	}
}

func (ac *AdminController) CompleteOrder(c *gin.Context) {
	order, err := ac.Admin.Complete(c.Request.Context(), c.Param("order_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order completed", order)
}

func (ac *AdminController) CancelOrder(c *gin.Context) {
	order, err := ac.Admin.Cancel(c.Request.Context(), c.Param("order_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order cancelled, stock restored", order)
}

// AdvanceOrder -> pending > preparing > ready > delivered
func (ac *AdminController) AdvanceOrder(c *gin.Context) {
	var body struct {
		Status models.OrderStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondFieldError(c, http.StatusBadRequest, "status", errors.New("status is required"))
		return
	}
	order, err := ac.Admin.Advance(c.Request.Context(), c.Param("order_id"), body.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order is now "+string(order.Status), order)
}

func (ac *AdminController) DeleteOrder(c *gin.Context) {
	confirmed, _ := strconv.ParseBool(c.Query("confirm"))
	if err := ac.Admin.Delete(c.Request.Context(), c.Param("order_id"), confirmed); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order deleted", nil)
}

func (ac *AdminController) GetInventory(c *gin.Context) {
	inv, err := ac.Admin.Inventory(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Inventory", inv)
}

// SetStock -> set quantity langsung, menerima angka atau string angka
func (ac *AdminController) SetStock(c *gin.Context) {
	var body struct {
		Quantity interface{} `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondFieldError(c, http.StatusBadRequest, "quantity", errors.New("Invalid quantity"))
		return
	}

	qty, err := services.ParseQuantity(fmt.Sprint(body.Quantity))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	name := c.Param("name")
	if err := ac.Admin.SetStock(c.Request.Context(), name, qty); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, fmt.Sprintf("%s set to %d", name, qty), gin.H{"name": name, "quantity": qty})
}

func (ac *AdminController) GetDashboard(c *gin.Context) {
	stats, err := ac.Admin.Dashboard(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Dashboard stats", stats)
}

func (ac *AdminController) ToggleOperations(c *gin.Context) {
	settings, err := ac.Ops.Toggle(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	msg := "Store is now OPEN"
	if settings.Closed {
		msg = "Store is now CLOSED"
	}
	utils.RespondJSON(c, http.StatusOK, msg, settings)
}

// SetOperations -> buka/tutup toko secara eksplisit
func (ac *AdminController) SetOperations(c *gin.Context) {
	var body struct {
		Closed *bool `json:"closed" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondFieldError(c, http.StatusBadRequest, "closed", errors.New("closed flag is required"))
		return
	}
	settings, err := ac.Ops.Set(c.Request.Context(), *body.Closed)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	msg := "Store is now OPEN"
	if settings.Closed {
		msg = "Store is now CLOSED"
	}
	utils.RespondJSON(c, http.StatusOK, msg, settings)
}
