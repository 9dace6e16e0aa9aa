package model

import (
	"errors"
	"time"
)

// SequenceEmployerNumber 雇主编号序列名
const SequenceEmployerNumber = "employer_number"

// SequenceModel 序列计数器数据模型
// 单行原子自增,为雇主编号提供并发安全的单调递增序号
type SequenceModel struct {
	Name      string    `gorm:"primaryKey;type:varchar(64)"`
	Value     int64     `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName 指定表名
func (SequenceModel) TableName() string {
	return "sequences"
}

// Validate 验证序列模型
func (sm *SequenceModel) Validate() error {
	if sm.Name == "" {
		return errors.New("sequence name is required")
	}
	if sm.Value < 0 {
		return errors.New("sequence value cannot be negative")
	}
	return nil
}
