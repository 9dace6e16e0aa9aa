package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/remotehive/jobboard-gin/internal/repository"
	"github.com/remotehive/jobboard-gin/internal/workflow"
)

// APIError API 错误
type APIError struct {
	Code    int
	Message string
	Detail  string
}

func (e *APIError) Error() string {
	return e.Message
}

// ErrorHandlerMiddleware 错误处理中间件
func ErrorHandlerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last()

			var apiErr *APIError
			if errors.As(err, &apiErr) {
				Error(c, apiErr.Code, apiErr.Message, apiErr.Detail)
			} else {
				Error(c, http.StatusInternalServerError, "internal server error", err.Error())
			}
		}
	}
}

// WrapError 包装错误
func WrapError(err error, code int, message string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
		Detail:  err.Error(),
	}
}

// HandleWorkflowError 将工作流错误映射为 HTTP 响应
// 校验错误 400,未找到 404,并发冲突 409,非法转换 422,存储不可用 503
func HandleWorkflowError(c *gin.Context, err error, operation string) {
	switch {
	case workflow.IsValidation(err):
		Error(c, http.StatusBadRequest, "invalid request", err.Error())
	case repository.IsNotFound(err):
		Error(c, http.StatusNotFound, "resource not found", err.Error())
	case workflow.IsConflict(err):
		Error(c, http.StatusConflict, "concurrent modification", err.Error())
	case workflow.IsInvalidTransition(err):
		Error(c, http.StatusUnprocessableEntity, "invalid transition", err.Error())
	case workflow.IsStoreUnavailable(err):
		Error(c, http.StatusServiceUnavailable, "store unavailable", err.Error())
	default:
		Error(c, http.StatusInternalServerError, "failed to "+operation, err.Error())
	}
}
