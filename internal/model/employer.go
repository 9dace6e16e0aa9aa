package model

import (
	"errors"
	"time"
)

// 雇主认证状态
const (
	VerificationUnverified = "unverified"
	VerificationVerified   = "verified"
)

// EmployerModel 雇主数据模型
type EmployerModel struct {
	ID                 string    `gorm:"primaryKey;type:varchar(64)"`
	EmployerNumber     string    `gorm:"type:varchar(32);not null;uniqueIndex"` // 雇主编号,如 RH0001,创建后不可变
	Name               string    `gorm:"type:varchar(255);not null"`
	ContactEmail       string    `gorm:"type:varchar(255);not null;index"`
	Industry           string    `gorm:"type:varchar(64)"`
	SizeBand           string    `gorm:"type:varchar(32)"` // 规模区间,如 1-10/11-50/51-200
	Location           string    `gorm:"type:varchar(255)"`
	VerificationStatus string    `gorm:"type:varchar(32);not null;default:'unverified'"`
	IsActive           bool      `gorm:"not null;default:true"` // 雇主只停用不删除
	CreatedAt          time.Time `gorm:"not null;index"`
	UpdatedAt          time.Time `gorm:"not null"`
}

// TableName 指定表名
func (EmployerModel) TableName() string {
	return "employers"
}

// Validate 验证雇主模型
func (em *EmployerModel) Validate() error {
	if em.ID == "" {
		return errors.New("employer ID is required")
	}
	if em.EmployerNumber == "" {
		return errors.New("employer number is required")
	}
	if em.Name == "" {
		return errors.New("employer name is required")
	}
	if em.ContactEmail == "" {
		return errors.New("contact email is required")
	}
	if em.VerificationStatus == "" {
		em.VerificationStatus = VerificationUnverified
	}
	return nil
}
