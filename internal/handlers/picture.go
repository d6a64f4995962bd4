package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"sellboard/internal/db"
	"sellboard/internal/log"
	"sellboard/internal/models"
	"sellboard/internal/services"
	"sellboard/internal/utils"
	"sellboard/internal/views"

	"github.com/gin-gonic/gin"
)

// PictureHandler 帖子图片
type PictureHandler struct {
	store     *db.Store
	images    *services.ImageStore
	maxUpload int64 // bytes
}

func NewPictureHandler(store *db.Store, images *services.ImageStore, maxUploadMB int64) *PictureHandler {
	return &PictureHandler{store: store, images: images, maxUpload: maxUploadMB << 20}
}

// List GET /api/posts/pictures?post_id=
func (h *PictureHandler) List(c *gin.Context) {
	postID, err := utils.ParseID(c.Query("post_id"))
	if err != nil {
		badRequest(c, err)
		return
	}

	pictures, err := h.store.PicturesByPost(c.Request.Context(), postID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, views.PictureList(pictures))
}

// Upload POST /api/posts/pictures (multipart: post, image)
func (h *PictureHandler) Upload(c *gin.Context) {
	postID, err := utils.ParseID(c.PostForm("post"))
	if err != nil {
		badRequest(c, err)
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	defer file.Close()

	// 验证文件类型
	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "only image files can be uploaded"})
		return
	}
	// 验证文件大小
	if header.Size > h.maxUpload {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("image must not exceed %d MB", h.maxUpload>>20)})
		return
	}

	ctx := c.Request.Context()
	if _, err := h.store.GetPost(ctx, postID); err != nil {
		respondError(c, err)
		return
	}

	result, err := h.images.Save(file, header.Filename, contentType)
	if err != nil {
		respondError(c, err)
		return
	}

	picture := models.PostPicture{PostID: postID, Image: result.URL}
	if err := h.store.CreatePicture(ctx, &picture); err != nil {
		// 只删除本次新写入的文件，已存在的文件可能被其他图片记录引用
		if result.Created {
			if rmErr := h.images.Remove(result.Name); rmErr != nil {
				log.Log.WithError(rmErr).WithField("image", result.Name).Warn("remove orphan image failed")
			}
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, views.NewPicture(picture))
}
