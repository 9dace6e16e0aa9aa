package model

import (
	"errors"
	"time"
)

// 审计资源类型
const (
	ResourceEmployer = "employer"
	ResourceJobPost  = "job_post"
)

// AuditLogModel 操作审计日志数据模型
// 记录管理操作的调用方与请求上下文,独立于工作流日志
type AuditLogModel struct {
	ID           string    `gorm:"primaryKey;type:varchar(64)"`
	ActorID      string    `gorm:"type:varchar(64);not null;index"`
	ActorRole    string    `gorm:"type:varchar(32)"`
	Action       string    `gorm:"type:varchar(64);not null;index"` // create/update/submit/approve/reject/...
	ResourceType string    `gorm:"type:varchar(32);not null"`       // employer/job_post
	ResourceID   string    `gorm:"type:varchar(64);not null;index"`
	RequestID    string    `gorm:"type:varchar(64);index"`
	IP           string    `gorm:"type:varchar(45)"` // IPv4 或 IPv6
	UserAgent    string    `gorm:"type:text"`
	Details      []byte    `gorm:"type:jsonb"` // 操作详情
	CreatedAt    time.Time `gorm:"not null;index"`
}

// TableName 指定表名
func (AuditLogModel) TableName() string {
	return "audit_logs"
}

// Validate 验证审计日志模型
func (alm *AuditLogModel) Validate() error {
	if alm.ID == "" {
		return errors.New("audit log ID is required")
	}
	if alm.ActorID == "" {
		return errors.New("actor ID is required")
	}
	if alm.Action == "" {
		return errors.New("action is required")
	}
	if alm.ResourceType == "" {
		return errors.New("resource type is required")
	}
	if alm.ResourceID == "" {
		return errors.New("resource ID is required")
	}
	return nil
}
