package api_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/remotehive/jobboard-gin/internal/api"
	"github.com/remotehive/jobboard-gin/internal/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// handleError 在测试 gin 引擎中执行 HandleWorkflowError
func handleError(t *testing.T, err error) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/job-posts/post-1/approve", nil)

	api.HandleWorkflowError(c, err, "approve job post")
	return w
}

// TestHandleWorkflowError 测试工作流错误到 HTTP 状态码的映射
func TestHandleWorkflowError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "validation error maps to 400",
			err:  &workflow.ValidationError{Field: "reason", Message: "rejection reason is required"},
			want: http.StatusBadRequest,
		},
		{
			name: "not found maps to 404",
			err:  fmt.Errorf("job post not found: %w", gorm.ErrRecordNotFound),
			want: http.StatusNotFound,
		},
		{
			name: "conflict maps to 409",
			err:  &workflow.ConflictError{JobPostID: "post-1", Expected: workflow.StatusDraft},
			want: http.StatusConflict,
		},
		{
			name: "invalid transition maps to 422",
			err:  &workflow.InvalidTransitionError{From: workflow.StatusDraft, Event: workflow.EventApprove},
			want: http.StatusUnprocessableEntity,
		},
		{
			name: "store unavailable maps to 503",
			err:  fmt.Errorf("failed to save: %w", workflow.ErrStoreUnavailable),
			want: http.StatusServiceUnavailable,
		},
		{
			name: "unknown error maps to 500",
			err:  errors.New("boom"),
			want: http.StatusInternalServerError,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := handleError(t, tc.err)
			assert.Equal(t, tc.want, w.Code)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.NotEmpty(t, body["message"])
		})
	}
}
