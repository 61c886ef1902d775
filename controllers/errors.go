package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/waffle-wala/services"
	"github.com/yeremiapane/waffle-wala/utils"
)

// respondServiceError maps service errors onto HTTP status codes.
func respondServiceError(c *gin.Context, err error) {
	var (
		validation *services.ValidationError
		conflict   *services.StockConflictError
		persist    *services.PersistenceError
	)

	switch {
	case errors.As(err, &validation):
		utils.RespondFieldError(c, http.StatusBadRequest, validation.Field, err)
	case errors.As(err, &conflict):
		utils.RespondJSON(c, http.StatusConflict, err.Error(), gin.H{
			"item":      conflict.Item,
			"available": conflict.Available,
		})
	case errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrStockContention):
		utils.RespondError(c, http.StatusConflict, err)
	case errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrSuggestionNotFound),
		errors.Is(err, services.ErrHoldNotFound),
		errors.Is(err, services.ErrLineNotFound),
		errors.Is(err, services.ErrNoActiveOrder):
		utils.RespondError(c, http.StatusNotFound, err)
	case errors.Is(err, services.ErrHoldExpired):
		utils.RespondError(c, http.StatusGone, err)
	case errors.Is(err, services.ErrEmptyCart),
		errors.Is(err, services.ErrConfirmationRequired):
		utils.RespondError(c, http.StatusBadRequest, err)
	case errors.Is(err, services.ErrStoreClosed):
		utils.RespondError(c, http.StatusServiceUnavailable, err)
	case errors.As(err, &persist):
		utils.ErrorLogger.Errorf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		utils.RespondError(c, http.StatusInternalServerError, errors.New("Something went wrong, please try again"))
	default:
		utils.ErrorLogger.Errorf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		utils.RespondError(c, http.StatusInternalServerError, errors.New("Something went wrong, please try again"))
	}
}
