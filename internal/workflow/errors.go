package workflow

import (
	"errors"
	"fmt"
)

// ErrStoreUnavailable 持久层不可用或超时,调用方可重试
var ErrStoreUnavailable = errors.New("store unavailable")

// InvalidTransitionError 非法状态转换错误
// 事件在当前状态下不存在于转换表中,属于调用方逻辑错误,无任何副作用
type InvalidTransitionError struct {
	From  Status
	Event Event
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition: event %q is not allowed from status %q", e.Event, e.From)
}

// ConflictError 并发冲突错误
// 条件写入时发现状态已被其他写入者修改,调用方应重新读取后重试
type ConflictError struct {
	JobPostID string
	Expected  Status
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict: job post %q is no longer in status %q", e.JobPostID, e.Expected)
}

// ValidationError 输入校验错误
// 在任何状态变更之前被拒绝,调用方修正输入后可重新提交
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %q: %s", e.Field, e.Message)
}

// IsInvalidTransition 判断是否为非法状态转换错误
func IsInvalidTransition(err error) bool {
	var target *InvalidTransitionError
	return errors.As(err, &target)
}

// IsConflict 判断是否为并发冲突错误
func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}

// IsValidation 判断是否为输入校验错误
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsStoreUnavailable 判断是否为持久层不可用错误
func IsStoreUnavailable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}
