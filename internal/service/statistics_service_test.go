package service_test

import (
	"context"
	"testing"

	"github.com/remotehive/jobboard-gin/internal/auth"
	"github.com/remotehive/jobboard-gin/internal/integration"
	"github.com/remotehive/jobboard-gin/internal/service"
	"github.com/remotehive/jobboard-gin/internal/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestStatisticsService_ByStatus 测试按状态统计
func TestStatisticsService_ByStatus(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := service.NewStatisticsService(db)

	seedPost(t, db, "post-1", string(workflow.StatusActive), nil, nil)
	seedPost(t, db, "post-2", string(workflow.StatusActive), nil, nil)
	seedPost(t, db, "post-3", string(workflow.StatusDraft), nil, nil)

	stats, err := svc.GetJobPostStatisticsByStatus()
	require.NoError(t, err)

	counts := make(map[string]int64)
	for _, s := range stats {
		counts[s.Status] = s.Count
	}
	assert.Equal(t, int64(2), counts[string(workflow.StatusActive)])
	assert.Equal(t, int64(1), counts[string(workflow.StatusDraft)])
}

// TestStatisticsService_ByEmployer 测试按雇主统计
func TestStatisticsService_ByEmployer(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := service.NewStatisticsService(db)

	seedPost(t, db, "post-1", string(workflow.StatusActive), nil, nil)
	seedPost(t, db, "post-2", string(workflow.StatusDraft), nil, nil)

	stats, err := svc.GetJobPostStatisticsByEmployer()
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, "emp-001", stats[0].EmployerID)
	assert.Equal(t, "RH0001", stats[0].EmployerNumber)
	assert.Equal(t, "Acme Remote", stats[0].EmployerName)
	assert.Equal(t, int64(2), stats[0].Count)
}

// TestStatisticsService_Reviews 测试审核统计
func TestStatisticsService_Reviews(t *testing.T) {
	db := setupServiceTestDB(t)
	postMgr := integration.NewPostManager(db, nil)
	svc := service.NewStatisticsService(db)
	ctx := context.Background()

	admin := auth.Actor{ID: "admin-1", Role: auth.RoleAdmin}
	employer := auth.Actor{ID: "user-1", Role: auth.RoleEmployer}

	// 一个审核通过(auto_publish 直达 active),一个审核通过(两步),一个被拒绝
	makePending := func(autoPublish bool) string {
		post, err := postMgr.Create(ctx, &integration.CreatePostInput{
			EmployerID:  "emp-001",
			Title:       "Role",
			AutoPublish: autoPublish,
			CreatedBy:   employer.ID,
		})
		require.NoError(t, err)
		_, err = postMgr.Transition(ctx, post.ID, workflow.EventSubmit, employer, "")
		require.NoError(t, err)
		return post.ID
	}

	autoID := makePending(true)
	manualID := makePending(false)
	rejectedID := makePending(false)

	_, err := postMgr.Transition(ctx, autoID, workflow.EventApprove, admin, "")
	require.NoError(t, err)
	_, err = postMgr.Transition(ctx, manualID, workflow.EventApprove, admin, "")
	require.NoError(t, err)
	_, err = postMgr.Transition(ctx, rejectedID, workflow.EventReject, admin, "spam")
	require.NoError(t, err)

	stats, err := svc.GetReviewStatistics()
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalReviews)
	assert.Equal(t, int64(2), stats.ApprovedCount)
	assert.Equal(t, int64(1), stats.RejectedCount)
	assert.InDelta(t, 66.67, stats.ApprovalRate, 0.01)
}
