package model

import (
	"errors"
	"time"
)

// 通知事件投递状态
const (
	NotificationPending = "pending"
	NotificationSuccess = "success"
	NotificationFailed  = "failed"
)

// NotificationEventModel 通知事件数据模型
// 状态转换提交后产生,异步推送到通知方,失败不影响已提交的转换
type NotificationEventModel struct {
	ID         string    `gorm:"primaryKey;type:varchar(64)"`
	JobPostID  string    `gorm:"type:varchar(64);not null;index"`
	FromStatus string    `gorm:"type:varchar(32)"`
	ToStatus   string    `gorm:"type:varchar(32);not null"`
	ActorID    string    `gorm:"type:varchar(64);not null"`
	Data       []byte    `gorm:"type:jsonb;not null"` // 序列化后的事件数据
	Status     string    `gorm:"type:varchar(32);not null;default:'pending';index"`
	RetryCount int       `gorm:"type:int;default:0"`
	CreatedAt  time.Time `gorm:"not null;index"`
	UpdatedAt  time.Time `gorm:"not null"`
}

// TableName 指定表名
func (NotificationEventModel) TableName() string {
	return "notification_events"
}

// Validate 验证通知事件模型
func (nem *NotificationEventModel) Validate() error {
	if nem.ID == "" {
		return errors.New("notification event ID is required")
	}
	if nem.JobPostID == "" {
		return errors.New("job post ID is required")
	}
	if nem.ToStatus == "" {
		return errors.New("to status is required")
	}
	if len(nem.Data) == 0 {
		return errors.New("event data is required")
	}
	if nem.Status == "" {
		nem.Status = NotificationPending
	}
	return nil
}
