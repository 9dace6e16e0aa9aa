package utils_test

import (
	"strings"
	"testing"

	"github.com/remotehive/jobboard-gin/internal/utils"
	"github.com/stretchr/testify/assert"
)

// TestValidateTitle 测试职位标题校验
func TestValidateTitle(t *testing.T) {
	assert.NoError(t, utils.ValidateTitle("Senior Go Engineer"))
	assert.NoError(t, utils.ValidateTitle("运维工程师 (远程)"))

	assert.ErrorIs(t, utils.ValidateTitle(""), utils.ErrEmptyName)
	assert.ErrorIs(t, utils.ValidateTitle("   "), utils.ErrEmptyName)
	assert.ErrorIs(t, utils.ValidateTitle(strings.Repeat("a", 256)), utils.ErrNameTooLong)
	assert.ErrorIs(t, utils.ValidateTitle("<script>alert(1)</script>"), utils.ErrDangerousChars)
	assert.ErrorIs(t, utils.ValidateTitle("x'; drop table job_posts"), utils.ErrDangerousChars)
}

// TestValidateJobPostID 测试职位 ID 校验
func TestValidateJobPostID(t *testing.T) {
	assert.NoError(t, utils.ValidateJobPostID("post-123_abc"))

	assert.ErrorIs(t, utils.ValidateJobPostID(""), utils.ErrEmptyID)
	assert.ErrorIs(t, utils.ValidateJobPostID("post 123"), utils.ErrInvalidIDFormat)
	assert.ErrorIs(t, utils.ValidateJobPostID("post;drop"), utils.ErrInvalidIDFormat)
	assert.ErrorIs(t, utils.ValidateJobPostID(strings.Repeat("a", 65)), utils.ErrIDTooLong)
}

// TestSanitizeString 测试字符串清理
func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "&lt;b&gt;bold&lt;/b&gt;", utils.SanitizeString("<b>bold</b>"))
	// 控制字符被移除,换行与制表符保留
	assert.Equal(t, "a\nb\tc", utils.SanitizeString("a\nb\tc\x00"))
}

// TestTrimAndValidate 测试清理并校验
func TestTrimAndValidate(t *testing.T) {
	got, err := utils.TrimAndValidate("  hello  ", 10)
	assert.NoError(t, err)
	assert.Equal(t, "hello", got)

	_, err = utils.TrimAndValidate("   ", 10)
	assert.ErrorIs(t, err, utils.ErrEmptyString)

	_, err = utils.TrimAndValidate("toolongvalue", 5)
	assert.ErrorIs(t, err, utils.ErrStringTooLong)
}

// TestValidateSortField 测试排序字段校验
func TestValidateSortField(t *testing.T) {
	assert.NoError(t, utils.ValidateSortField("created_at"))
	assert.NoError(t, utils.ValidateSortField("job_posts.updated_at"))

	assert.Error(t, utils.ValidateSortField(""))
	assert.Error(t, utils.ValidateSortField("created_at; DROP TABLE job_posts"))
	assert.Error(t, utils.ValidateSortField("name DESC, SELECT"))
	assert.Error(t, utils.ValidateSortField("union"))
}

// TestValidateSortOrder 测试排序方向校验
func TestValidateSortOrder(t *testing.T) {
	assert.NoError(t, utils.ValidateSortOrder("asc"))
	assert.NoError(t, utils.ValidateSortOrder("DESC"))
	assert.Error(t, utils.ValidateSortOrder("sideways"))
}

// TestSanitizeSortFieldAndOrder 测试排序字段与方向清理
func TestSanitizeSortFieldAndOrder(t *testing.T) {
	assert.Equal(t, "created_at", utils.SanitizeSortField("created_at;--"))
	assert.Equal(t, "ASC", utils.SanitizeSortOrder(" asc "))
	assert.Equal(t, "DESC", utils.SanitizeSortOrder("sideways"))
}
