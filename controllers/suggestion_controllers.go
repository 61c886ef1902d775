package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/waffle-wala/services"
	"github.com/yeremiapane/waffle-wala/utils"
)

type SuggestionController struct {
	Suggestions *services.SuggestionService
}

func NewSuggestionController(suggestions *services.SuggestionService) *SuggestionController {
	return &SuggestionController{Suggestions: suggestions}
}

func (sc *SuggestionController) Submit(c *gin.Context) {
	var in services.SuggestionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.RespondFieldError(c, http.StatusBadRequest, "text", errors.New("Please write something first"))
		return
	}
	sug, err := sc.Suggestions.Submit(c.Request.Context(), in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Thanks! We'll read your suggestion soon", sug)
}

// List -> inbox admin, filter all|unread|new-item|feedback|issue
func (sc *SuggestionController) List(c *gin.Context) {
	ctx := c.Request.Context()
	list, err := sc.Suggestions.List(ctx, c.DefaultQuery("filter", services.FilterAll))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	unread, err := sc.Suggestions.UnreadCount(ctx)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Suggestions", gin.H{
		"suggestions": list,
		"unread":      unread,
	})
}

func (sc *SuggestionController) SetRead(c *gin.Context) {
	var body struct {
		Read *bool `json:"read" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondFieldError(c, http.StatusBadRequest, "read", errors.New("read flag is required"))
		return
	}
	sug, err := sc.Suggestions.SetRead(c.Request.Context(), c.Param("id"), *body.Read)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Suggestion updated", sug)
}

func (sc *SuggestionController) Delete(c *gin.Context) {
	confirmed, _ := strconv.ParseBool(c.Query("confirm"))
	if err := sc.Suggestions.Delete(c.Request.Context(), c.Param("id"), confirmed); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Suggestion deleted", nil)
}
