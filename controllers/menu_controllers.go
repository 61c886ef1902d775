package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/waffle-wala/services"
	"github.com/yeremiapane/waffle-wala/utils"
)

type MenuController struct {
	Menu *services.MenuService
	Ops  *services.OperationsService
}

func NewMenuController(menu *services.MenuService, ops *services.OperationsService) *MenuController {
	return &MenuController{Menu: menu, Ops: ops}
}

// GetMenu -> katalog dengan stok dan badge
func (mc *MenuController) GetMenu(c *gin.Context) {
	menu, err := mc.Menu.Menu(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu", menu)
}

// GetOperations -> apakah toko sedang tutup
func (mc *MenuController) GetOperations(c *gin.Context) {
	settings, err := mc.Ops.Get(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Operations", settings)
}
