package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/remotehive/jobboard-gin/internal/auth"
	"github.com/remotehive/jobboard-gin/internal/config"
	"github.com/remotehive/jobboard-gin/internal/service"
	"github.com/remotehive/jobboard-gin/internal/websocket"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "github.com/remotehive/jobboard-gin/docs" // 导入生成的 docs 包
)

// RouterDeps 路由依赖
type RouterDeps struct {
	Config            *config.Config
	DB                *gorm.DB
	Hub               *websocket.Hub
	TokenParser       *auth.TokenParser
	JobPostService    service.JobPostService
	EmployerService   service.EmployerService
	QueryService      service.QueryService
	StatisticsService service.StatisticsService
	SchedulerService  *service.SchedulerService
	ArchiveService    *service.ArchiveService
}

// SetupRoutes 配置路由
func SetupRoutes(deps RouterDeps) *gin.Engine {
	if deps.Config != nil && deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	// 中间件
	router.Use(RequestIDMiddleware())
	router.Use(RequestLogMiddleware())
	router.Use(ErrorHandlerMiddleware())
	router.Use(SecurityHeadersMiddleware())
	if deps.Config != nil {
		router.Use(CORSMiddleware(deps.Config.CORS))
		router.Use(HTTPSRedirectMiddlewareWithConfig(deps.Config.Env == "production"))
		if deps.Config.RateLimit.Enabled {
			router.Use(RateLimitMiddleware(deps.Config.RateLimit.RPS, deps.Config.RateLimit.Burst))
		}
	}
	if deps.TokenParser != nil {
		router.Use(auth.ActorMiddleware(deps.TokenParser))
	}

	// 健康检查
	healthController := NewHealthController(deps.DB, deps.Hub)
	router.GET("/health", healthController.Check)

	// Prometheus 指标端点
	router.GET("/metrics", MetricsHandler)

	// WebSocket 路由
	if deps.Hub != nil && deps.TokenParser != nil {
		router.GET("/ws/job-posts/:id", websocket.WebSocketHandler(deps.Hub, deps.TokenParser))
	}

	// Swagger UI 路由
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler,
		ginSwagger.URL("http://localhost:8080/swagger/doc.json"), // Swagger JSON URL
	))

	jobPostController := NewJobPostController(deps.JobPostService)
	employerController := NewEmployerController(deps.EmployerService)
	queryController := NewQueryController(deps.QueryService)
	statisticsController := NewStatisticsController(deps.StatisticsService)

	// API v1 路由组
	v1 := router.Group("/api/v1")
	{
		// 雇主管理路由
		employers := v1.Group("/employers")
		{
			employers.POST("", employerController.Create)
			employers.GET("", queryController.ListEmployers)
			employers.GET("/:id", employerController.Get)
			employers.PUT("/:id", employerController.Update)
			employers.POST("/:id/verify", employerController.Verify)
			employers.POST("/:id/deactivate", employerController.Deactivate)
		}

		// 职位管理路由
		jobPosts := v1.Group("/job-posts")
		{
			jobPosts.POST("", jobPostController.Create)
			jobPosts.GET("", queryController.ListJobPosts)
			jobPosts.GET("/:id", jobPostController.Get)
			jobPosts.PUT("/:id", jobPostController.UpdateContent)
			jobPosts.POST("/:id/submit", jobPostController.Submit)
			jobPosts.POST("/:id/approve", jobPostController.Approve)
			jobPosts.POST("/:id/reject", jobPostController.Reject)
			jobPosts.POST("/:id/publish", jobPostController.Publish)
			jobPosts.POST("/:id/pause", jobPostController.Pause)
			jobPosts.POST("/:id/resume", jobPostController.Resume)
			jobPosts.POST("/:id/close", jobPostController.Close)
			jobPosts.POST("/:id/fill", jobPostController.MarkFilled)
			jobPosts.POST("/:id/restore", jobPostController.Restore)
			jobPosts.PUT("/:id/facets", jobPostController.SetFacet)
			jobPosts.GET("/:id/history", queryController.GetHistory)
			jobPosts.POST("/bulk-transition", jobPostController.BulkTransition)
		}

		// 统计路由
		statistics := v1.Group("/statistics")
		{
			statistics.GET("/by-status", statisticsController.ByStatus)
			statistics.GET("/by-employer", statisticsController.ByEmployer)
			statistics.GET("/by-time", statisticsController.ByTime)
			statistics.GET("/reviews", statisticsController.Reviews)
		}

		// 运维管理路由
		if deps.SchedulerService != nil {
			schedulerController := NewSchedulerController(deps.SchedulerService)
			v1.POST("/scheduler/sweep", schedulerController.TriggerSweep)
		}
		if deps.ArchiveService != nil {
			archiveController := NewArchiveController(deps.ArchiveService)
			archives := v1.Group("/archives")
			{
				archives.POST("", archiveController.Create)
				archives.GET("", archiveController.List)
				archives.DELETE("/:filename", archiveController.Delete)
			}
		}
	}

	// 自定义 NoRoute 处理器,返回 JSON 格式的 404
	// 必须在所有业务路由注册之后设置,确保未匹配的路由返回 JSON 而不是 HTML
	router.NoRoute(func(c *gin.Context) {
		Error(c, http.StatusNotFound, "route not found", "the requested route does not exist")
	})

	return router
}
