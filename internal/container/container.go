package container

import (
	"fmt"
	"time"

	"github.com/remotehive/jobboard-gin/internal/auth"
	"github.com/remotehive/jobboard-gin/internal/config"
	"github.com/remotehive/jobboard-gin/internal/database"
	"github.com/remotehive/jobboard-gin/internal/integration"
	"github.com/remotehive/jobboard-gin/internal/repository"
	"github.com/remotehive/jobboard-gin/internal/service"
	"github.com/remotehive/jobboard-gin/internal/websocket"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Container 依赖注入容器
// 管理所有应用依赖,包括数据库、服务、客户端等
type Container struct {
	db                  *gorm.DB
	hub                 *websocket.Hub
	tokenParser         *auth.TokenParser
	notificationHandler integration.NotificationHandler
	postMgr             integration.PostManager
	employerMgr         integration.EmployerManager
	auditLogSvc         service.AuditLogService
	jobPostSvc          service.JobPostService
	employerSvc         service.EmployerService
	querySvc            service.QueryService
	statisticsSvc       service.StatisticsService
	schedulerSvc        *service.SchedulerService
	archiveSvc          *service.ArchiveService
}

// NewContainer 创建依赖注入容器
// 根据配置初始化所有依赖组件
func NewContainer(cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	// 1. 初始化数据库（带重试机制）
	// 默认重试 3 次，初始间隔 1 秒，指数退避
	db, err := database.ConnectWithRetry(cfg.Database, 3, time.Second)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// 执行数据库迁移
	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	if err := database.CreateIndexes(db); err != nil {
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}

	// 2. 初始化 WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run()

	// 3. 初始化令牌解析器
	tokenParser := auth.NewTokenParser(cfg.Auth.JWTSecret)

	// 4. 初始化通知处理器
	var notificationHandler integration.NotificationHandler
	if cfg.Notification.Enabled {
		webhooks := make([]integration.WebhookConfig, 0, len(cfg.Notification.Webhooks))
		for _, w := range cfg.Notification.Webhooks {
			webhooks = append(webhooks, integration.WebhookConfig{
				URL:       w.URL,
				Method:    w.Method,
				Headers:   w.Headers,
				AuthType:  w.AuthType,
				AuthKey:   w.AuthKey,
				AuthToken: w.AuthToken,
			})
		}
		notificationHandler = integration.NewNotificationHandler(db, hub, webhooks, cfg.Notification.Workers, logger)
	}

	// 5. 初始化管理器
	postMgr := integration.NewPostManager(db, notificationHandler)
	employerMgr := integration.NewEmployerManager(db)

	// 6. 初始化服务层
	auditLogSvc := service.NewAuditLogService(repository.NewAuditLogRepository(db))
	jobPostSvc := service.NewJobPostService(postMgr, auditLogSvc)
	employerSvc := service.NewEmployerService(employerMgr, auditLogSvc)
	querySvc := service.NewQueryService(db)
	statisticsSvc := service.NewStatisticsService(db)

	// 7. 初始化定时扫描服务
	var schedulerSvc *service.SchedulerService
	if cfg.Scheduler.Enabled {
		interval := time.Duration(cfg.Scheduler.Interval) * time.Second
		schedulerSvc = service.NewSchedulerService(postMgr, repository.NewJobPostRepository(db), interval)
	}

	// 8. 初始化归档服务
	var archiveSvc *service.ArchiveService
	if cfg.Archive.Enabled {
		archiveSvc = service.NewArchiveService(db, cfg.Archive.Dir)
	}

	return &Container{
		db:                  db,
		hub:                 hub,
		tokenParser:         tokenParser,
		notificationHandler: notificationHandler,
		postMgr:             postMgr,
		employerMgr:         employerMgr,
		auditLogSvc:         auditLogSvc,
		jobPostSvc:          jobPostSvc,
		employerSvc:         employerSvc,
		querySvc:            querySvc,
		statisticsSvc:       statisticsSvc,
		schedulerSvc:        schedulerSvc,
		archiveSvc:          archiveSvc,
	}, nil
}

// DB 获取数据库连接
func (c *Container) DB() *gorm.DB {
	return c.db
}

// Hub 获取 WebSocket Hub
func (c *Container) Hub() *websocket.Hub {
	return c.hub
}

// TokenParser 获取令牌解析器
func (c *Container) TokenParser() *auth.TokenParser {
	return c.tokenParser
}

// PostManager 获取职位管理器
func (c *Container) PostManager() integration.PostManager {
	return c.postMgr
}

// EmployerManager 获取雇主管理器
func (c *Container) EmployerManager() integration.EmployerManager {
	return c.employerMgr
}

// AuditLogService 获取审计日志服务
func (c *Container) AuditLogService() service.AuditLogService {
	return c.auditLogSvc
}

// JobPostService 获取职位服务
func (c *Container) JobPostService() service.JobPostService {
	return c.jobPostSvc
}

// EmployerService 获取雇主服务
func (c *Container) EmployerService() service.EmployerService {
	return c.employerSvc
}

// QueryService 获取查询服务
func (c *Container) QueryService() service.QueryService {
	return c.querySvc
}

// StatisticsService 获取统计服务
func (c *Container) StatisticsService() service.StatisticsService {
	return c.statisticsSvc
}

// SchedulerService 获取定时扫描服务
// 未启用时返回 nil
func (c *Container) SchedulerService() *service.SchedulerService {
	return c.schedulerSvc
}

// ArchiveService 获取归档服务
// 未启用时返回 nil
func (c *Container) ArchiveService() *service.ArchiveService {
	return c.archiveSvc
}

// Close 关闭容器,清理资源
func (c *Container) Close() error {
	if c.schedulerSvc != nil {
		c.schedulerSvc.Stop()
	}

	if c.notificationHandler != nil {
		c.notificationHandler.Stop()
	}

	if c.db != nil {
		sqlDB, err := c.db.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	return nil
}
