package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/remotehive/jobboard-gin/internal/workflow"
	"gorm.io/gorm"
)

// wrapStoreErr 包装持久层错误
// 超时或取消的调用对调用方表现为可重试的 ErrStoreUnavailable,
// 记录不存在的错误原样透传,调用方用 gorm.ErrRecordNotFound 判断
func wrapStoreErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", workflow.ErrStoreUnavailable, err)
	}
	return err
}

// IsNotFound 判断是否为记录不存在错误
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
