package handlers

import (
	"errors"
	"net/http"
	"time"

	"sellboard/internal/db"
	"sellboard/internal/models"
	"sellboard/internal/utils"
	"sellboard/internal/views"

	"github.com/gin-gonic/gin"
)

type InterestHandler struct {
	store *db.Store
}

func NewInterestHandler(store *db.Store) *InterestHandler {
	return &InterestHandler{store: store}
}

type interestRequest struct {
	Buyer uint `json:"buyer" binding:"required"` // buyer profile id
	Item  uint `json:"item" binding:"required"`
}

// List GET /api/interests?profile_id=&post_id=&buyer_id=
// profile_id 是收到意向的发帖人，至少需要一个过滤条件
func (h *InterestHandler) List(c *gin.Context) {
	var (
		filter db.InterestFilter
		err    error
	)
	if filter.PosterID, err = utils.ParseOptionalID(c.Query("profile_id")); err != nil {
		badRequest(c, err)
		return
	}
	if filter.PostID, err = utils.ParseOptionalID(c.Query("post_id")); err != nil {
		badRequest(c, err)
		return
	}
	if filter.BuyerID, err = utils.ParseOptionalID(c.Query("buyer_id")); err != nil {
		badRequest(c, err)
		return
	}
	if filter.PosterID == nil && filter.PostID == nil && filter.BuyerID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "one of profile_id, post_id or buyer_id is required"})
		return
	}

	ctx := c.Request.Context()
	interests, err := h.store.ListInterests(ctx, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	// 一次查询取出所有相关帖子的图片
	pictures, err := h.store.PicturesByPosts(ctx, itemIDs(interests))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, views.InterestList(interests, pictures, time.Now()))
}

func itemIDs(interests []models.ReceivedInterest) []uint {
	seen := make(map[uint]bool, len(interests))
	ids := make([]uint, 0, len(interests))
	for _, i := range interests {
		if !seen[i.ItemID] {
			seen[i.ItemID] = true
			ids = append(ids, i.ItemID)
		}
	}
	return ids
}

// Create POST /api/interests {"buyer": 1, "item": 2}
func (h *InterestHandler) Create(c *gin.Context) {
	var req interestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	interest, err := h.store.CreateInterest(ctx, req.Buyer, req.Item)
	if errors.Is(err, db.ErrConflict) {
		c.JSON(http.StatusConflict, gin.H{"error": "This interest was already received"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	pictures, err := h.store.PicturesByPost(ctx, interest.ItemID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, views.NewInterest(*interest, pictures, time.Now()))
}

// Destroy DELETE /api/interests/:post_id/:buyer_id
func (h *InterestHandler) Destroy(c *gin.Context) {
	postID, err := utils.ParseID(c.Param("post_id"))
	if err != nil {
		badRequest(c, err)
		return
	}
	buyerID, err := utils.ParseID(c.Param("buyer_id"))
	if err != nil {
		badRequest(c, err)
		return
	}

	deleted, err := h.store.DeleteInterest(c.Request.Context(), postID, buyerID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !deleted {
		c.JSON(http.StatusOK, "This interest was not received")
		return
	}
	c.JSON(http.StatusOK, msgSuccess)
}
