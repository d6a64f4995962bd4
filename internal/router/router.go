package router

import (
	"sellboard/internal/config"
	"sellboard/internal/db"
	"sellboard/internal/handlers"
	"sellboard/internal/middleware"
	"sellboard/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const sessionName = "sellboard_session"

// New builds the engine with middleware and every route registered.
func New(cfg *config.Config, conn *gorm.DB) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	if len(cfg.CORSOrigins) > 0 {
		corsCfg := cors.DefaultConfig()
		corsCfg.AllowOrigins = cfg.CORSOrigins
		corsCfg.AllowCredentials = true
		r.Use(cors.New(corsCfg))
	}

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30,
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
	})
	r.Use(sessions.Sessions(sessionName, store))
	r.Use(middleware.LoadUser(conn))

	// 上传的图片
	r.Static(cfg.Media.URL, cfg.Media.Root)
	r.MaxMultipartMemory = cfg.MaxUploadMB << 20

	RegisterRoutes(r, cfg, db.NewStore(conn))
	return r
}

func RegisterRoutes(r *gin.Engine, cfg *config.Config, store *db.Store) {
	// Handlers
	postHandler := handlers.NewPostHandler(store, services.NewPostSearcher(store.DB()))
	pictureHandler := handlers.NewPictureHandler(store, services.NewImageStore(cfg.Media.Root, cfg.Media.URL), cfg.MaxUploadMB)
	likeHandler := handlers.NewLikeHandler(store)
	hideHandler := handlers.NewHideHandler(store)
	interestHandler := handlers.NewInterestHandler(store)
	healthHandler := handlers.NewHealthHandler(store)

	r.GET("/healthz", healthHandler.Check)

	api := r.Group("/api")

	// 帖子 (Posts)
	posts := api.Group("/posts")
	{
		posts.GET("/search", postHandler.Search)        // 关键词 + 价格区间搜索
		posts.GET("/search/map", postHandler.SearchMap) // 地图视图
		posts.GET("/user", postHandler.ListByUser)      // 某用户发布的帖子
		posts.POST("/detail", postHandler.Detail)       // 帖子详情
		posts.POST("", postHandler.Create)              // 发帖
		posts.GET("/pictures", pictureHandler.List)     // 帖子图片列表
		posts.POST("/pictures", pictureHandler.Upload)  // 上传图片

		posts.DELETE("/:id", middleware.AuthRequired(), postHandler.Delete) // 删除帖子，仅发帖人
	}

	// 点赞 (Likes)
	likes := api.Group("/likes")
	{
		likes.GET("", likeHandler.List)
		likes.POST("", likeHandler.Create)
		likes.DELETE("/:post_id/:user_id", likeHandler.Destroy)
	}

	// 隐藏 (Hides)
	hides := api.Group("/hides")
	{
		hides.GET("", hideHandler.List)
		hides.POST("", hideHandler.Create)
		hides.DELETE("/:post_id/:user_id", hideHandler.Destroy)
	}

	// 买家意向 (Interests)
	interests := api.Group("/interests")
	{
		interests.GET("", interestHandler.List)
		interests.POST("", interestHandler.Create)
		interests.DELETE("/:post_id/:buyer_id", interestHandler.Destroy)
	}
}
