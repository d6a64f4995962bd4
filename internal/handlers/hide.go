package handlers

import (
	"errors"
	"net/http"
	"time"

	"sellboard/internal/db"
	"sellboard/internal/views"

	"github.com/gin-gonic/gin"
)

// HideHandler 用户隐藏帖子；被隐藏的帖子不会出现在该用户的搜索结果里
type HideHandler struct {
	store *db.Store
}

func NewHideHandler(store *db.Store) *HideHandler {
	return &HideHandler{store: store}
}

func (h *HideHandler) List(c *gin.Context) {
	userID, postID, ok := pairFilter(c)
	if !ok {
		return
	}

	hides, err := h.store.ListHides(c.Request.Context(), userID, postID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, views.HideList(hides, time.Now()))
}

func (h *HideHandler) Create(c *gin.Context) {
	var req pairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	hide, err := h.store.CreateHide(c.Request.Context(), req.Post, req.User)
	if errors.Is(err, db.ErrConflict) {
		c.JSON(http.StatusConflict, gin.H{"error": "This post was already hidden"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, views.NewCreatedHide(*hide))
}

func (h *HideHandler) Destroy(c *gin.Context) {
	postID, userID, ok := pairParams(c)
	if !ok {
		return
	}

	deleted, err := h.store.DeleteHide(c.Request.Context(), postID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !deleted {
		c.JSON(http.StatusOK, "This post was not hidden")
		return
	}
	c.JSON(http.StatusOK, msgSuccess)
}
