package model

import (
	"errors"
	"time"
)

// JobPostModel 职位数据模型
type JobPostModel struct {
	ID             string `gorm:"primaryKey;type:varchar(64)"`
	EmployerID     string `gorm:"type:varchar(64);not null;index"`
	Title          string `gorm:"type:varchar(255);not null"`
	Description    string `gorm:"type:text"`
	Location       string `gorm:"type:varchar(255)"`
	EmploymentType string `gorm:"type:varchar(32)"` // full_time/part_time/contract/internship
	RemoteType     string `gorm:"type:varchar(32)"` // remote/hybrid/onsite
	SalaryRange    string `gorm:"type:varchar(64)"`
	Status         string `gorm:"type:varchar(32);not null;index"` // 职位工作流状态

	// 独立标记位,与工作流状态无关
	IsFlagged     bool       `gorm:"not null;default:false"`
	FlaggedReason string     `gorm:"type:text"`
	FlaggedAt     *time.Time ``
	IsUrgent      bool       `gorm:"not null;default:false"`
	UrgentAt      *time.Time ``
	IsFeatured    bool       `gorm:"not null;default:false"`
	FeaturedAt    *time.Time ``

	// 调度字段,由定时扫描消费
	AutoPublish bool       `gorm:"not null;default:false"` // 审核通过后直接发布
	PublishDate *time.Time `gorm:"index"`
	ExpiryDate  *time.Time `gorm:"index"`

	// 状态转换元数据,仅由产生它们的转换写入
	ApprovedAt      *time.Time ``
	ApprovedBy      string     `gorm:"type:varchar(64)"`
	RejectionReason *string    `gorm:"type:text"`
	PublishedAt     *time.Time ``

	CreatedAt time.Time `gorm:"not null;index"`
	UpdatedAt time.Time `gorm:"not null;index"`
	CreatedBy string    `gorm:"type:varchar(64);index"` // 创建人 ID
}

// TableName 指定表名
func (JobPostModel) TableName() string {
	return "job_posts"
}

// Validate 验证职位模型
func (jpm *JobPostModel) Validate() error {
	if jpm.ID == "" {
		return errors.New("job post ID is required")
	}
	if jpm.EmployerID == "" {
		return errors.New("employer ID is required")
	}
	if jpm.Title == "" {
		return errors.New("job post title is required")
	}
	if jpm.Status == "" {
		return errors.New("job post status is required")
	}
	return nil
}
