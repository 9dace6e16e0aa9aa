package model

import (
	"errors"
	"time"
)

// WorkflowLogModel 工作流日志数据模型
// 只追加,每次成功的状态转换写入一条,工作流引擎不提供更新或删除操作
// Seq 由数据库自增分配,同一时间戳写入的多条日志按 Seq 还原写入顺序
type WorkflowLogModel struct {
	Seq        int64     `gorm:"primaryKey;autoIncrement"`
	ID         string    `gorm:"type:varchar(64);not null;uniqueIndex"`
	JobPostID  string    `gorm:"type:varchar(64);not null;index"`
	FromStatus string    `gorm:"type:varchar(32)"`
	ToStatus   string    `gorm:"type:varchar(32);not null"`
	ActorID    string    `gorm:"type:varchar(64);not null"`
	ActorRole  string    `gorm:"type:varchar(32)"`
	Reason     string    `gorm:"type:text"`
	OccurredAt time.Time `gorm:"not null;index"`
}

// TableName 指定表名
func (WorkflowLogModel) TableName() string {
	return "workflow_logs"
}

// Validate 验证工作流日志模型
func (wlm *WorkflowLogModel) Validate() error {
	if wlm.ID == "" {
		return errors.New("workflow log ID is required")
	}
	if wlm.JobPostID == "" {
		return errors.New("job post ID is required")
	}
	if wlm.ToStatus == "" {
		return errors.New("to status is required")
	}
	if wlm.ActorID == "" {
		return errors.New("actor ID is required")
	}
	return nil
}
