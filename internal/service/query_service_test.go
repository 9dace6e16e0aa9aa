package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/remotehive/jobboard-gin/internal/auth"
	"github.com/remotehive/jobboard-gin/internal/integration"
	"github.com/remotehive/jobboard-gin/internal/service"
	"github.com/remotehive/jobboard-gin/internal/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestQueryService_ListJobPosts 测试职位列表查询
func TestQueryService_ListJobPosts(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := service.NewQueryService(db)
	ctx := context.Background()

	now := time.Now()
	past := now.Add(-time.Hour)
	seedPost(t, db, "post-1", string(workflow.StatusActive), nil, nil)
	seedPost(t, db, "post-2", string(workflow.StatusActive), nil, &past)
	seedPost(t, db, "post-3", string(workflow.StatusDraft), nil, nil)

	// 按状态过滤
	status := string(workflow.StatusActive)
	posts, total, err := svc.ListJobPosts(ctx, &service.ListJobPostsFilter{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, posts, 2)

	// 分页
	posts, total, err = svc.ListJobPosts(ctx, &service.ListJobPostsFilter{
		Status:   &status,
		Page:     2,
		PageSize: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, posts, 1)

	// 非法排序字段被拒绝
	_, _, err = svc.ListJobPosts(ctx, &service.ListJobPostsFilter{
		SortBy: "created_at; DROP TABLE job_posts",
	})
	require.Error(t, err)
}

// TestQueryService_GetHistory 测试工作流历史查询
func TestQueryService_GetHistory(t *testing.T) {
	db := setupServiceTestDB(t)
	postMgr := integration.NewPostManager(db, nil)
	svc := service.NewQueryService(db)
	ctx := context.Background()

	admin := auth.Actor{ID: "admin-1", Role: auth.RoleAdmin}
	employer := auth.Actor{ID: "user-1", Role: auth.RoleEmployer}

	post, err := postMgr.Create(ctx, &integration.CreatePostInput{
		EmployerID: "emp-001",
		Title:      "Senior Go Engineer",
		CreatedBy:  employer.ID,
	})
	require.NoError(t, err)
	_, err = postMgr.Transition(ctx, post.ID, workflow.EventSubmit, employer, "")
	require.NoError(t, err)
	_, err = postMgr.Transition(ctx, post.ID, workflow.EventApprove, admin, "")
	require.NoError(t, err)
	current, err := postMgr.Transition(ctx, post.ID, workflow.EventPublish, admin, "")
	require.NoError(t, err)

	entries, err := svc.GetHistory(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// 条目按发生时间升序
	assert.Equal(t, string(workflow.StatusDraft), entries[0].FromStatus)
	assert.Equal(t, string(workflow.StatusPendingApproval), entries[0].ToStatus)
	assert.Equal(t, string(workflow.StatusApproved), entries[2].FromStatus)

	// 最后一条的 to_status 与职位当前状态一致
	assert.Equal(t, current.Status, entries[len(entries)-1].ToStatus)

	// 无历史的职位返回空列表
	entries, err = svc.GetHistory(ctx, "post-missing")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

// TestQueryService_ListEmployers 测试雇主列表查询
func TestQueryService_ListEmployers(t *testing.T) {
	db := setupServiceTestDB(t)
	mgr := integration.NewEmployerManager(db)
	svc := service.NewQueryService(db)
	ctx := context.Background()

	created, err := mgr.Create(ctx, &integration.CreateEmployerInput{
		Name:         "Globex",
		ContactEmail: "hr@globex.example",
		Industry:     "manufacturing",
	})
	require.NoError(t, err)
	_, err = mgr.Verify(ctx, created.ID)
	require.NoError(t, err)

	// setupServiceTestDB 预置了一个未认证雇主
	verified := "verified"
	employers, total, err := svc.ListEmployers(ctx, &service.ListEmployersFilter{
		VerificationStatus: &verified,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, employers, 1)
	assert.Equal(t, "Globex", employers[0].Name)

	employers, total, err = svc.ListEmployers(ctx, &service.ListEmployersFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, employers, 2)
}
