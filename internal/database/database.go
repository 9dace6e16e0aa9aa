package database

import (
	"context"
	"fmt"
	"time"

	"github.com/remotehive/jobboard-gin/internal/config"
	"github.com/remotehive/jobboard-gin/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// PoolConfig 连接池配置
type PoolConfig struct {
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime int // 秒
	ConnMaxIdleTime int // 秒
}

// BuildDSN 构建 PostgreSQL DSN
func BuildDSN(cfg config.DatabaseConfig) string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)
}

// GetPoolConfig 获取连接池配置
func GetPoolConfig() *PoolConfig {
	return &PoolConfig{
		MaxIdleConns:    10,
		MaxOpenConns:    100,
		ConnMaxLifetime: 3600, // 1 小时
		ConnMaxIdleTime: 600,  // 10 分钟
	}
}

// GetProductionPoolConfig 获取生产环境连接池配置
func GetProductionPoolConfig() *PoolConfig {
	return &PoolConfig{
		MaxIdleConns:    20,   // 生产环境增加空闲连接数
		MaxOpenConns:    200,  // 生产环境增加最大连接数
		ConnMaxLifetime: 3600, // 1 小时
		ConnMaxIdleTime: 300,  // 5 分钟（生产环境缩短空闲时间）
	}
}

// Connect 连接数据库
func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := BuildDSN(cfg)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	// 配置连接池
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	// 从配置中读取连接池参数，如果没有配置则使用默认值
	var poolConfig *PoolConfig
	if cfg.MaxIdleConns > 0 || cfg.MaxOpenConns > 0 {
		poolConfig = &PoolConfig{
			MaxIdleConns:    cfg.MaxIdleConns,
			MaxOpenConns:    cfg.MaxOpenConns,
			ConnMaxLifetime: cfg.ConnMaxLifetime,
			ConnMaxIdleTime: cfg.ConnMaxIdleTime,
		}
		// 如果某些值未设置，使用默认值
		if poolConfig.MaxIdleConns == 0 {
			poolConfig.MaxIdleConns = 10
		}
		if poolConfig.MaxOpenConns == 0 {
			poolConfig.MaxOpenConns = 100
		}
		if poolConfig.ConnMaxLifetime == 0 {
			poolConfig.ConnMaxLifetime = 3600
		}
		if poolConfig.ConnMaxIdleTime == 0 {
			poolConfig.ConnMaxIdleTime = 600
		}
	} else {
		poolConfig = GetPoolConfig()
	}

	sqlDB.SetMaxIdleConns(poolConfig.MaxIdleConns)
	sqlDB.SetMaxOpenConns(poolConfig.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Duration(poolConfig.ConnMaxLifetime) * time.Second)
	sqlDB.SetConnMaxIdleTime(time.Duration(poolConfig.ConnMaxIdleTime) * time.Second)

	return db, nil
}

// ConnectProduction 连接数据库（生产环境配置）
func ConnectProduction(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := BuildDSN(cfg)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	// 配置连接池（生产环境）
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	// 从配置中读取连接池参数，如果没有配置则使用生产环境默认值
	var poolConfig *PoolConfig
	if cfg.MaxIdleConns > 0 || cfg.MaxOpenConns > 0 {
		poolConfig = &PoolConfig{
			MaxIdleConns:    cfg.MaxIdleConns,
			MaxOpenConns:    cfg.MaxOpenConns,
			ConnMaxLifetime: cfg.ConnMaxLifetime,
			ConnMaxIdleTime: cfg.ConnMaxIdleTime,
		}
		if poolConfig.MaxIdleConns == 0 {
			poolConfig.MaxIdleConns = 20
		}
		if poolConfig.MaxOpenConns == 0 {
			poolConfig.MaxOpenConns = 200
		}
		if poolConfig.ConnMaxLifetime == 0 {
			poolConfig.ConnMaxLifetime = 3600
		}
		if poolConfig.ConnMaxIdleTime == 0 {
			poolConfig.ConnMaxIdleTime = 300
		}
	} else {
		poolConfig = GetProductionPoolConfig()
	}

	sqlDB.SetMaxIdleConns(poolConfig.MaxIdleConns)
	sqlDB.SetMaxOpenConns(poolConfig.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Duration(poolConfig.ConnMaxLifetime) * time.Second)
	sqlDB.SetConnMaxIdleTime(time.Duration(poolConfig.ConnMaxIdleTime) * time.Second)

	return db, nil
}

// Migrate 执行数据库迁移
func Migrate(db *gorm.DB) error {
	// 检测数据库类型
	dialector := db.Dialector.Name()

	// SQLite 不支持 jsonb，需要手动创建表
	// GORM SQLite dialector 的名称可能是 "sqlite" 或 "sqlite3"
	if dialector == "sqlite" || dialector == "sqlite3" {
		if err := createSQLiteTables(db); err != nil {
			return fmt.Errorf("failed to create SQLite tables: %w", err)
		}
	} else {
		// PostgreSQL 等其他数据库使用 AutoMigrate
		if err := db.AutoMigrate(
			&model.EmployerModel{},
			&model.JobPostModel{},
			&model.WorkflowLogModel{},
			&model.SequenceModel{},
			&model.NotificationEventModel{},
			&model.AuditLogModel{},
		); err != nil {
			return fmt.Errorf("failed to auto migrate: %w", err)
		}
	}

	// 创建索引
	if err := CreateIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}

// createSQLiteTables 为 SQLite 手动创建表（使用 TEXT 替代 jsonb）
func createSQLiteTables(db *gorm.DB) error {
	// 创建 employers 表
	if err := db.Exec(`
		CREATE TABLE IF NOT EXISTS employers (
			id VARCHAR(64) PRIMARY KEY,
			employer_number VARCHAR(32) NOT NULL UNIQUE,
			name VARCHAR(255) NOT NULL,
			contact_email VARCHAR(255) NOT NULL,
			industry VARCHAR(64),
			size_band VARCHAR(32),
			location VARCHAR(255),
			verification_status VARCHAR(32) NOT NULL DEFAULT 'unverified',
			is_active BOOLEAN NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)
	`).Error; err != nil {
		return fmt.Errorf("failed to create employers table: %w", err)
	}

	// 创建 job_posts 表
	if err := db.Exec(`
		CREATE TABLE IF NOT EXISTS job_posts (
			id VARCHAR(64) PRIMARY KEY,
			employer_id VARCHAR(64) NOT NULL,
			title VARCHAR(255) NOT NULL,
			description TEXT,
			location VARCHAR(255),
			employment_type VARCHAR(32),
			remote_type VARCHAR(32),
			salary_range VARCHAR(64),
			status VARCHAR(32) NOT NULL,
			is_flagged BOOLEAN NOT NULL DEFAULT 0,
			flagged_reason TEXT,
			flagged_at DATETIME,
			is_urgent BOOLEAN NOT NULL DEFAULT 0,
			urgent_at DATETIME,
			is_featured BOOLEAN NOT NULL DEFAULT 0,
			featured_at DATETIME,
			auto_publish BOOLEAN NOT NULL DEFAULT 0,
			publish_date DATETIME,
			expiry_date DATETIME,
			approved_at DATETIME,
			approved_by VARCHAR(64),
			rejection_reason TEXT,
			published_at DATETIME,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			created_by VARCHAR(64)
		)
	`).Error; err != nil {
		return fmt.Errorf("failed to create job_posts table: %w", err)
	}

	// 创建 workflow_logs 表
	if err := db.Exec(`
		CREATE TABLE IF NOT EXISTS workflow_logs (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id VARCHAR(64) NOT NULL UNIQUE,
			job_post_id VARCHAR(64) NOT NULL,
			from_status VARCHAR(32),
			to_status VARCHAR(32) NOT NULL,
			actor_id VARCHAR(64) NOT NULL,
			actor_role VARCHAR(32),
			reason TEXT,
			occurred_at DATETIME NOT NULL
		)
	`).Error; err != nil {
		return fmt.Errorf("failed to create workflow_logs table: %w", err)
	}

	// 创建 sequences 表
	if err := db.Exec(`
		CREATE TABLE IF NOT EXISTS sequences (
			name VARCHAR(64) PRIMARY KEY,
			value BIGINT NOT NULL DEFAULT 0,
			updated_at DATETIME NOT NULL
		)
	`).Error; err != nil {
		return fmt.Errorf("failed to create sequences table: %w", err)
	}

	// 创建 notification_events 表
	if err := db.Exec(`
		CREATE TABLE IF NOT EXISTS notification_events (
			id VARCHAR(64) PRIMARY KEY,
			job_post_id VARCHAR(64) NOT NULL,
			from_status VARCHAR(32),
			to_status VARCHAR(32) NOT NULL,
			actor_id VARCHAR(64) NOT NULL,
			data TEXT NOT NULL,
			status VARCHAR(32) NOT NULL DEFAULT 'pending',
			retry_count INTEGER DEFAULT 0,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)
	`).Error; err != nil {
		return fmt.Errorf("failed to create notification_events table: %w", err)
	}

	// 创建 audit_logs 表
	if err := db.Exec(`
		CREATE TABLE IF NOT EXISTS audit_logs (
			id VARCHAR(64) PRIMARY KEY,
			actor_id VARCHAR(64) NOT NULL,
			actor_role VARCHAR(32),
			action VARCHAR(64) NOT NULL,
			resource_type VARCHAR(32) NOT NULL,
			resource_id VARCHAR(64) NOT NULL,
			request_id VARCHAR(64),
			ip VARCHAR(45),
			user_agent TEXT,
			details TEXT,
			created_at DATETIME NOT NULL
		)
	`).Error; err != nil {
		return fmt.Errorf("failed to create audit_logs table: %w", err)
	}

	return nil
}

// CreateIndexes 创建数据库索引
func CreateIndexes(db *gorm.DB) error {
	// employers 表索引
	if err := db.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_employers_number ON employers(employer_number)").Error; err != nil {
		return fmt.Errorf("failed to create idx_employers_number: %w", err)
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_employers_contact_email ON employers(contact_email)").Error; err != nil {
		return fmt.Errorf("failed to create idx_employers_contact_email: %w", err)
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_employers_created_at ON employers(created_at)").Error; err != nil {
		return fmt.Errorf("failed to create idx_employers_created_at: %w", err)
	}

	// job_posts 表索引
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_job_posts_employer_status ON job_posts(employer_id, status)").Error; err != nil {
		return fmt.Errorf("failed to create idx_job_posts_employer_status: %w", err)
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_job_posts_status ON job_posts(status)").Error; err != nil {
		return fmt.Errorf("failed to create idx_job_posts_status: %w", err)
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_job_posts_expiry_date ON job_posts(status, expiry_date)").Error; err != nil {
		return fmt.Errorf("failed to create idx_job_posts_expiry_date: %w", err)
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_job_posts_publish_date ON job_posts(status, publish_date)").Error; err != nil {
		return fmt.Errorf("failed to create idx_job_posts_publish_date: %w", err)
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_job_posts_created_by ON job_posts(created_by)").Error; err != nil {
		return fmt.Errorf("failed to create idx_job_posts_created_by: %w", err)
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_job_posts_updated_at ON job_posts(updated_at)").Error; err != nil {
		return fmt.Errorf("failed to create idx_job_posts_updated_at: %w", err)
	}

	// workflow_logs 表索引
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_workflow_logs_job_post_id ON workflow_logs(job_post_id)").Error; err != nil {
		return fmt.Errorf("failed to create idx_workflow_logs_job_post_id: %w", err)
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_workflow_logs_occurred_at ON workflow_logs(occurred_at)").Error; err != nil {
		return fmt.Errorf("failed to create idx_workflow_logs_occurred_at: %w", err)
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_workflow_logs_actor_id ON workflow_logs(actor_id)").Error; err != nil {
		return fmt.Errorf("failed to create idx_workflow_logs_actor_id: %w", err)
	}

	// notification_events 表索引
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_notification_events_status ON notification_events(status)").Error; err != nil {
		return fmt.Errorf("failed to create idx_notification_events_status: %w", err)
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_notification_events_job_post_id ON notification_events(job_post_id)").Error; err != nil {
		return fmt.Errorf("failed to create idx_notification_events_job_post_id: %w", err)
	}

	// audit_logs 表索引
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_audit_resource ON audit_logs(resource_type, resource_id)").Error; err != nil {
		return fmt.Errorf("failed to create idx_audit_resource: %w", err)
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_audit_actor_id ON audit_logs(actor_id)").Error; err != nil {
		return fmt.Errorf("failed to create idx_audit_actor_id: %w", err)
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_audit_created_at ON audit_logs(created_at)").Error; err != nil {
		return fmt.Errorf("failed to create idx_audit_created_at: %w", err)
	}

	return nil
}

// ConnectWithRetry 带重试的数据库连接
func ConnectWithRetry(cfg config.DatabaseConfig, maxRetries int, retryInterval time.Duration) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	for i := 0; i < maxRetries; i++ {
		db, err = Connect(cfg)
		if err == nil {
			return db, nil
		}

		// 如果不是最后一次重试，等待后重试
		if i < maxRetries-1 {
			time.Sleep(retryInterval)
			retryInterval *= 2 // 指数退避
		}
	}

	return nil, fmt.Errorf("failed to connect database after %d retries: %w", maxRetries, err)
}

// CheckHealth 检查数据库连接健康状态
func CheckHealth(db *gorm.DB) bool {
	if db == nil {
		return false
	}

	sqlDB, err := db.DB()
	if err != nil {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return false
	}

	return true
}

// Reconnect 重新连接数据库
func Reconnect(cfg config.DatabaseConfig, oldDB *gorm.DB) (*gorm.DB, error) {
	// 关闭旧连接
	if oldDB != nil {
		if sqlDB, err := oldDB.DB(); err == nil {
			sqlDB.Close()
		}
	}

	// 重新连接
	return Connect(cfg)
}
