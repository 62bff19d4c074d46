package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wfunc/nation-game/internal/middleware"
	"github.com/wfunc/nation-game/internal/models"
	"github.com/wfunc/nation-game/internal/service"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Router API路由器
type Router struct {
	engine         *gin.Engine
	db             *gorm.DB
	services       *service.Services
	authHandler    *AuthHandler
	userHandler    *UserHandler
	nationHandler  *NationHandler
	worldHandler   *WorldHandler
	storyHandler   *StoryHandler
	authMiddleware *middleware.AuthMiddleware
	log            *zap.Logger
}

// NewRouter 创建路由器
func NewRouter(db *gorm.DB, services *service.Services, log *zap.Logger) *Router {
	engine := gin.New()

	// 全局中间件
	engine.Use(gin.Recovery())
	engine.Use(gin.Logger())

	router := &Router{
		engine:         engine,
		db:             db,
		services:       services,
		authHandler:    NewAuthHandler(services.Auth, services.User),
		userHandler:    NewUserHandler(services.User),
		nationHandler:  NewNationHandler(services.Nation),
		worldHandler:   NewWorldHandler(services.World),
		storyHandler:   NewStoryHandler(services.Story),
		authMiddleware: middleware.NewAuthMiddleware(services.Auth),
		log:            log,
	}

	router.setupRoutes()

	return router
}

// setupRoutes 设置路由
func (r *Router) setupRoutes() {
	// 健康检查
	r.engine.GET("/health", r.healthCheck)

	// API文档
	registerOpenAPIRoutes(r.engine)
	registerSwaggerRoutes(r.engine)

	v1 := r.engine.Group("/api/v1")
	{
		// 认证相关路由（不需要认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authHandler.Register)
			auth.POST("/login", r.authHandler.Login)
			auth.POST("/refresh", r.authHandler.RefreshToken)
			auth.GET("/verify-email", r.authHandler.VerifyEmail)
		}

		// 个人设置路由（需要认证，操作的是令牌对应的账号）
		profile := v1.Group("/profile")
		profile.Use(r.authMiddleware.RequireAuth())
		{
			profile.POST("/email", r.userHandler.RequestEmailChange)
			profile.POST("/password", r.userHandler.ChangePassword)
		}

		// 玩家国家路由（需要认证，且只能操作自己的国家）
		users := v1.Group("/users/:userId")
		users.Use(r.authMiddleware.RequireAuth(), r.requireSelf())
		{
			users.GET("/profile", r.userHandler.GetProfile)

			users.POST("/armyManagement", r.nationHandler.UpdateArmy)
			users.GET("/armyManagement", r.nationHandler.GetArmy)
			users.POST("/gdpManagement", r.nationHandler.UpdateGDP)
			users.GET("/publicSentiment", r.nationHandler.GetSentiment)
			users.POST("/diplomaticRelationships", r.nationHandler.SetDiplomacy)
			users.GET("/diplomaticRelationships", r.nationHandler.ListDiplomacy)

			users.POST("/countrySelection", r.worldHandler.SelectCountry)
			users.POST("/captureCountry", r.worldHandler.CaptureCountry)
			users.POST("/randomEvent", r.worldHandler.TriggerRandomEvent)
		}

		// 世界地图路由（需要认证，全服可见）
		world := v1.Group("")
		world.Use(r.authMiddleware.RequireAuth())
		{
			world.GET("/worldMap", r.worldHandler.GetWorldMap)
			world.GET("/countries/:countryId/features", r.worldHandler.GetCountryFeatures)
		}

		// 故事路由（读公开，写需要认证）
		stories := v1.Group("/stories")
		{
			stories.GET("", r.storyHandler.ListStories)
			stories.GET("/search", r.storyHandler.SearchStories)
			stories.GET("/:id", r.storyHandler.GetStory)

			authed := stories.Group("")
			authed.Use(r.authMiddleware.RequireAuth())
			{
				authed.POST("", r.storyHandler.CreateStory)
				authed.PUT("/:id", r.storyHandler.UpdateStory)
				authed.DELETE("/:id", r.storyHandler.DeleteStory)
			}
		}
	}

	// 404处理
	r.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, Response{
			Success: false,
			Message: "接口不存在",
		})
	})
}

// requireSelf 校验路径userId与令牌一致，管理员不受限
func (r *Router) requireSelf() gin.HandlerFunc {
	return func(c *gin.Context) {
		pathID, err := parseID(c.Param("userId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, Response{
				Success: false,
				Message: "无效的用户ID",
			})
			c.Abort()
			return
		}

		tokenID, exists := middleware.GetUserID(c)
		if !exists {
			c.JSON(http.StatusUnauthorized, Response{
				Success: false,
				Message: "缺少认证令牌",
			})
			c.Abort()
			return
		}

		if tokenID != pathID && !middleware.HasRole(c, models.RoleAdmin) {
			c.JSON(http.StatusForbidden, Response{
				Success: false,
				Message: "只能操作自己的国家",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// RegisterWorldMapChannel 注册世界地图WebSocket路由
// 握手经过认证中间件，支持query参数携带令牌
func (r *Router) RegisterWorldMapChannel(path string, handler gin.HandlerFunc) {
	r.engine.GET(path, r.authMiddleware.RequireAuth(), handler)
}

// healthCheck 健康检查
func (r *Router) healthCheck(c *gin.Context) {
	sqlDB, err := r.db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "unhealthy",
			"message": "数据库连接失败",
		})
		return
	}

	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "unhealthy",
			"message": "数据库ping失败",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "服务运行正常",
	})
}

// Run 运行服务器
func (r *Router) Run(addr string) error {
	r.log.Info("Starting API server", zap.String("address", addr))
	return r.engine.Run(addr)
}

// GetEngine 获取Gin引擎（用于测试）
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
