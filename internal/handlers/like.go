package handlers

import (
	"errors"
	"net/http"
	"time"

	"sellboard/internal/db"
	"sellboard/internal/utils"
	"sellboard/internal/views"

	"github.com/gin-gonic/gin"
)

// pairRequest 点赞/隐藏请求体
type pairRequest struct {
	Post uint `json:"post" binding:"required"`
	User uint `json:"user" binding:"required"`
}

// pairFilter 解析 ?user_id=&post_id=，user_id 必填
func pairFilter(c *gin.Context) (uint, *uint, bool) {
	userID, err := utils.ParseID(c.Query("user_id"))
	if err != nil {
		badRequest(c, err)
		return 0, nil, false
	}
	postID, err := utils.ParseOptionalID(c.Query("post_id"))
	if err != nil {
		badRequest(c, err)
		return 0, nil, false
	}
	return userID, postID, true
}

// pairParams 解析路径参数 /:post_id/:user_id
func pairParams(c *gin.Context) (uint, uint, bool) {
	postID, err := utils.ParseID(c.Param("post_id"))
	if err != nil {
		badRequest(c, err)
		return 0, 0, false
	}
	userID, err := utils.ParseID(c.Param("user_id"))
	if err != nil {
		badRequest(c, err)
		return 0, 0, false
	}
	return postID, userID, true
}

type LikeHandler struct {
	store *db.Store
}

func NewLikeHandler(store *db.Store) *LikeHandler {
	return &LikeHandler{store: store}
}

// List GET /api/likes?user_id=&post_id=
func (h *LikeHandler) List(c *gin.Context) {
	userID, postID, ok := pairFilter(c)
	if !ok {
		return
	}

	likes, err := h.store.ListLikes(c.Request.Context(), userID, postID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, views.LikeList(likes, time.Now()))
}

// Create POST /api/likes {"post": 1, "user": 2}
func (h *LikeHandler) Create(c *gin.Context) {
	var req pairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	like, err := h.store.CreateLike(c.Request.Context(), req.Post, req.User)
	if errors.Is(err, db.ErrConflict) {
		c.JSON(http.StatusConflict, gin.H{"error": "This post was already liked"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, views.NewCreatedLike(*like))
}

// Destroy DELETE /api/likes/:post_id/:user_id
func (h *LikeHandler) Destroy(c *gin.Context) {
	postID, userID, ok := pairParams(c)
	if !ok {
		return
	}

	deleted, err := h.store.DeleteLike(c.Request.Context(), postID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !deleted {
		c.JSON(http.StatusOK, "This post was not liked")
		return
	}
	c.JSON(http.StatusOK, msgSuccess)
}
