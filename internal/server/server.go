package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/linkfeed/backend/internal/config"
	"github.com/linkfeed/backend/internal/handler"
	"github.com/linkfeed/backend/internal/middleware"
	"github.com/linkfeed/backend/internal/repository"
	"github.com/linkfeed/backend/internal/service"
	"github.com/linkfeed/backend/pkg/storage"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	engine *gin.Engine
}

func New(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	imageStorage, err := newImageStorage(cfg)
	if err != nil {
		return nil, err
	}

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)

	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTTTL)
	authHandler := handler.NewAuthHandler(authSvc)

	userSvc := service.NewUserService(userRepo, postRepo)
	userHandler := handler.NewUserHandler(userSvc)

	postSvc := service.NewPostService(postRepo, imageStorage, redisClient, service.PostServiceConfig{
		UploadFolder:  cfg.UploadFolder,
		MaxUploadSize: cfg.MaxUploadSize,
		MaxTextLength: cfg.MaxTextLength,
		RateLimitPost: cfg.RateLimitPost,
	})
	postHandler := handler.NewPostHandler(postSvc)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.MaxMultipartMemory = cfg.MaxUploadSize

	setupCORS(router, cfg.AllowedOrigins)

	// Cap request bodies before any handler logic runs: the image limit plus
	// headroom for the text field and multipart framing.
	router.Use(limitBodySize(cfg.MaxUploadSize + 64<<10))

	if cfg.StorageDriver == "local" {
		router.Static(storage.PublicUploadPrefix, cfg.UploadDir)
	}

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWTSecret)

	api := router.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		protected.POST("/posts", postHandler.CreatePost)
		protected.GET("/posts", postHandler.ListPosts)
		protected.PUT("/posts/:id", postHandler.UpdatePost)
		protected.DELETE("/posts/:id", postHandler.DeletePost)
		protected.PUT("/posts/:id/like", postHandler.ToggleLike)
		protected.POST("/posts/:id/comment", postHandler.AddComment)

		protected.GET("/users", userHandler.ListUsers)
		protected.GET("/users/:id", userHandler.GetProfile)
	}

	return &Server{engine: router}, nil
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func newImageStorage(cfg *config.Config) (storage.ImageStorage, error) {
	switch cfg.StorageDriver {
	case "cloudinary":
		return storage.NewCloudinaryStorage()
	default:
		return storage.NewLocalStorage(cfg.UploadDir)
	}
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	origins := []string{"http://localhost:3000"}
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}

// limitBodySize wraps the body in a MaxBytesReader so oversized uploads fail
// during form parsing, before any post logic or attachment write happens.
func limitBodySize(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}
