package handlers

import (
	"errors"
	"math"
	"net/http"
	"strings"
	"time"

	"sellboard/internal/db"
	"sellboard/internal/middleware"
	"sellboard/internal/models"
	"sellboard/internal/services"
	"sellboard/internal/utils"
	"sellboard/internal/views"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	store    *db.Store
	searcher *services.PostSearcher
}

func NewPostHandler(store *db.Store, searcher *services.PostSearcher) *PostHandler {
	return &PostHandler{store: store, searcher: searcher}
}

// Search GET /api/posts/search?q=&price_min=&price_max=
// 已登录用户看不到自己隐藏的帖子
func (h *PostHandler) Search(c *gin.Context) {
	posts, ok := h.search(c, true)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, views.PostFullList(posts, time.Now()))
}

// SearchMap GET /api/posts/search/map，参数同 Search，只返回坐标和价格
func (h *PostHandler) SearchMap(c *gin.Context) {
	posts, ok := h.search(c, false)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, views.PostMapList(posts))
}

func (h *PostHandler) search(c *gin.Context, withPoster bool) ([]models.Post, bool) {
	params, err := services.ParseSearchParams(c.Request.URL.Query())
	if err != nil {
		badRequest(c, err)
		return nil, false
	}
	params.RequesterID = middleware.RequesterID(c)

	posts, err := h.searcher.Search(c.Request.Context(), params, withPoster)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return posts, true
}

// ListByUser GET /api/posts/user?id=<profile id>
func (h *PostHandler) ListByUser(c *gin.Context) {
	profileID, err := utils.ParseID(c.Query("id"))
	if err != nil {
		badRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	if _, err := h.store.FindProfile(ctx, profileID); err != nil {
		respondError(c, err)
		return
	}

	posts, err := h.store.PostsByPoster(ctx, profileID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, views.PostPerUserList(posts))
}

// postDetailRequest 的 id 可以是数字或数字字符串
type postDetailRequest struct {
	ID interface{} `json:"id"`
}

func (r postDetailRequest) postID() (uint, bool) {
	switch v := r.ID.(type) {
	case float64:
		if v < 1 || v > 1<<53 || v != math.Trunc(v) {
			return 0, false
		}
		return uint(v), true
	case string:
		id, err := utils.ParseID(v)
		return id, err == nil
	}
	return 0, false
}

// Detail POST /api/posts/detail {"id": 1}
// 缺少或无效的 id 与帖子不存在一样返回 403
func (h *PostHandler) Detail(c *gin.Context) {
	var req postDetailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	id, ok := req.postID()
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "No post to show"})
		return
	}

	post, err := h.store.GetPost(c.Request.Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		c.JSON(http.StatusForbidden, gin.H{"error": "No post to show"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, views.NewPostDetail(*post, time.Now()))
}

type pictureInput struct {
	Image string `json:"image" binding:"required"`
}

type createPostRequest struct {
	Poster         uint           `json:"poster" binding:"required"` // account id
	PostType       string         `json:"post_type" binding:"max=150"`
	Title          string         `json:"title" binding:"required,max=150"`
	Latitude       string         `json:"latitude" binding:"required,max=160"`
	Longitude      string         `json:"longitude" binding:"required,max=150"`
	Price          *int           `json:"price" binding:"required,min=0"`
	Size           string         `json:"size" binding:"required,max=100"`
	ShowToVerified *bool          `json:"show_to_verified"`
	Description    string         `json:"description" binding:"max=300"`
	FlatNo         string         `json:"flat_no" binding:"max=100"`
	StreetNo       string         `json:"street_no" binding:"required,max=100"`
	Street         string         `json:"street" binding:"required,max=100"`
	Neighborhood   string         `json:"neighborhood" binding:"required,max=100"`
	City           string         `json:"city" binding:"required,max=100"`
	Country        string         `json:"country" binding:"required,max=100"`
	PostalCode     string         `json:"postal_code" binding:"required,max=100"`
	Condition      string         `json:"condition" binding:"required,max=100"`
	Age            *int           `json:"age" binding:"required,min=0"`
	AgeUnit        string         `json:"age_unit" binding:"required,max=100"`
	Pictures       []pictureInput `json:"pictures" binding:"omitempty,dive"`
}

func (r createPostRequest) toModel() models.Post {
	showToVerified := true
	if r.ShowToVerified != nil {
		showToVerified = *r.ShowToVerified
	}
	return models.Post{
		PostType:       utils.StripHTML(r.PostType),
		Title:          utils.StripHTML(r.Title),
		Latitude:       r.Latitude,
		Longitude:      r.Longitude,
		Price:          *r.Price,
		Size:           utils.StripHTML(r.Size),
		ShowToVerified: showToVerified,
		Description:    utils.StripHTML(r.Description),
		FlatNo:         utils.StripHTML(r.FlatNo),
		StreetNo:       utils.StripHTML(r.StreetNo),
		Street:         utils.StripHTML(r.Street),
		Neighborhood:   utils.StripHTML(r.Neighborhood),
		City:           utils.StripHTML(r.City),
		Country:        utils.StripHTML(r.Country),
		PostalCode:     utils.StripHTML(r.PostalCode),
		Condition:      utils.StripHTML(r.Condition),
		Age:            *r.Age,
		AgeUnit:        utils.StripHTML(r.AgeUnit),
	}
}

// emptyRequiredField 返回去掉 HTML 后变成空串的第一个必填字段
func emptyRequiredField(p models.Post) string {
	for _, f := range []struct {
		name, value string
	}{
		{"title", p.Title},
		{"size", p.Size},
		{"street_no", p.StreetNo},
		{"street", p.Street},
		{"neighborhood", p.Neighborhood},
		{"city", p.City},
		{"country", p.Country},
		{"postal_code", p.PostalCode},
		{"condition", p.Condition},
		{"age_unit", p.AgeUnit},
	} {
		if strings.TrimSpace(f.value) == "" {
			return f.name
		}
	}
	return ""
}

// Create POST /api/posts
// poster 是发帖账号的 id，pictures 中每一项生成一条 PostPicture
func (h *PostHandler) Create(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	post := req.toModel()
	if field := emptyRequiredField(post); field != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": field + " must not be empty"})
		return
	}

	ctx := c.Request.Context()
	profile, err := h.store.FindProfileByAccount(ctx, req.Poster)
	if err != nil {
		respondError(c, err)
		return
	}
	post.PosterID = profile.ID
	pictures := make([]models.PostPicture, 0, len(req.Pictures))
	for _, p := range req.Pictures {
		pictures = append(pictures, models.PostPicture{Image: p.Image})
	}

	if err := h.store.CreatePost(ctx, &post, pictures); err != nil {
		respondError(c, err)
		return
	}
	post.Poster = *profile

	c.JSON(http.StatusCreated, views.NewCreatedPost(post, pictures, time.Now()))
}

// Delete DELETE /api/posts/:id，只有发帖人可以删除
func (h *PostHandler) Delete(c *gin.Context) {
	account, _ := middleware.CurrentUser(c)

	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		badRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	post, err := h.store.GetPost(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if account == nil || post.Poster.AccountID != account.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the poster can delete this post"})
		return
	}

	if err := h.store.DeletePost(ctx, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, msgSuccess)
}
