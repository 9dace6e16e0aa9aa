package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/remotehive/jobboard-gin/internal/auth"
	"github.com/remotehive/jobboard-gin/internal/integration"
	"github.com/remotehive/jobboard-gin/internal/model"
	"github.com/remotehive/jobboard-gin/internal/repository"
	"github.com/remotehive/jobboard-gin/internal/service"
	"github.com/remotehive/jobboard-gin/internal/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupServiceTestDB 创建服务层测试数据库,并预置一个启用状态的雇主
func setupServiceTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&model.EmployerModel{},
		&model.JobPostModel{},
		&model.WorkflowLogModel{},
		&model.SequenceModel{},
		&model.AuditLogModel{},
	)
	require.NoError(t, err)

	now := time.Now()
	employer := &model.EmployerModel{
		ID:                 "emp-001",
		EmployerNumber:     "RH0001",
		Name:               "Acme Remote",
		ContactEmail:       "jobs@acme.example",
		VerificationStatus: model.VerificationUnverified,
		IsActive:           true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	require.NoError(t, db.Create(employer).Error)

	return db
}

// adminContext 构造带管理员身份的 context
func adminContext() context.Context {
	return auth.WithActor(context.Background(), auth.Actor{ID: "admin-1", Role: auth.RoleAdmin})
}

// TestJobPostService_CreateAndTransition 测试创建与单条转换
func TestJobPostService_CreateAndTransition(t *testing.T) {
	db := setupServiceTestDB(t)
	postMgr := integration.NewPostManager(db, nil)
	svc := service.NewJobPostService(postMgr, nil)
	ctx := adminContext()

	post, err := svc.Create(ctx, &service.CreateJobPostRequest{
		EmployerID: "emp-001",
		Title:      "Senior Go Engineer",
	})
	require.NoError(t, err)
	assert.Equal(t, string(workflow.StatusDraft), post.Status)
	assert.Equal(t, "admin-1", post.CreatedBy)

	post, err = svc.Transition(ctx, post.ID, workflow.EventSubmit, nil)
	require.NoError(t, err)
	assert.Equal(t, string(workflow.StatusPendingApproval), post.Status)

	// 未认证的请求缺少操作人,转换被拒绝
	_, err = svc.Transition(context.Background(), post.ID, workflow.EventApprove, nil)
	require.Error(t, err)
	assert.True(t, workflow.IsValidation(err))
}

// TestJobPostService_BulkTransition 测试批量转换
func TestJobPostService_BulkTransition(t *testing.T) {
	db := setupServiceTestDB(t)
	postMgr := integration.NewPostManager(db, nil)
	svc := service.NewJobPostService(postMgr, nil)
	ctx := adminContext()

	// 两个待审核职位,一个草稿职位(approve 会失败)
	var ids []string
	for i := 0; i < 3; i++ {
		post, err := svc.Create(ctx, &service.CreateJobPostRequest{
			EmployerID: "emp-001",
			Title:      "Role",
		})
		require.NoError(t, err)
		ids = append(ids, post.ID)
	}
	_, err := svc.Transition(ctx, ids[0], workflow.EventSubmit, nil)
	require.NoError(t, err)
	_, err = svc.Transition(ctx, ids[1], workflow.EventSubmit, nil)
	require.NoError(t, err)

	result, err := svc.BulkTransition(ctx, &service.BulkTransitionRequest{
		JobPostIDs: ids,
		Event:      "approve",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Results, 3)

	// 单条失败不影响其他条目
	assert.True(t, result.Results[0].Success)
	assert.True(t, result.Results[1].Success)
	assert.False(t, result.Results[2].Success)
	assert.NotEmpty(t, result.Results[2].Error)
}

// TestJobPostService_BulkTransition_Dedupe 测试重复 ID 只处理一次
func TestJobPostService_BulkTransition_Dedupe(t *testing.T) {
	db := setupServiceTestDB(t)
	postMgr := integration.NewPostManager(db, nil)
	svc := service.NewJobPostService(postMgr, nil)
	ctx := adminContext()

	post, err := svc.Create(ctx, &service.CreateJobPostRequest{
		EmployerID: "emp-001",
		Title:      "Role",
	})
	require.NoError(t, err)

	result, err := svc.BulkTransition(ctx, &service.BulkTransitionRequest{
		JobPostIDs: []string{post.ID, post.ID, post.ID},
		Event:      "submit",
	})
	require.NoError(t, err)
	// 重复 ID 折叠为一条结果,不会因第二次 submit 产生失败
	require.Len(t, result.Results, 1)
	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, 0, result.Failed)
}

// TestJobPostService_BulkTransition_Validation 测试批量请求校验
func TestJobPostService_BulkTransition_Validation(t *testing.T) {
	db := setupServiceTestDB(t)
	postMgr := integration.NewPostManager(db, nil)
	svc := service.NewJobPostService(postMgr, nil)
	ctx := adminContext()

	_, err := svc.BulkTransition(ctx, &service.BulkTransitionRequest{
		JobPostIDs: []string{"post-1"},
		Event:      "teleport",
	})
	require.Error(t, err)
	assert.True(t, workflow.IsValidation(err))

	_, err = svc.BulkTransition(ctx, &service.BulkTransitionRequest{
		JobPostIDs: []string{},
		Event:      "approve",
	})
	require.Error(t, err)
	assert.True(t, workflow.IsValidation(err))
}

// TestJobPostService_AuditTrail 测试变更写入审计日志
func TestJobPostService_AuditTrail(t *testing.T) {
	db := setupServiceTestDB(t)
	postMgr := integration.NewPostManager(db, nil)
	auditSvc := service.NewAuditLogService(repository.NewAuditLogRepository(db))
	svc := service.NewJobPostService(postMgr, auditSvc)
	ctx := adminContext()

	post, err := svc.Create(ctx, &service.CreateJobPostRequest{
		EmployerID: "emp-001",
		Title:      "Senior Go Engineer",
	})
	require.NoError(t, err)
	_, err = svc.Transition(ctx, post.ID, workflow.EventSubmit, nil)
	require.NoError(t, err)

	var logs []model.AuditLogModel
	require.NoError(t, db.Order("created_at ASC").Find(&logs).Error)
	require.Len(t, logs, 2)
	assert.Equal(t, "create", logs[0].Action)
	assert.Equal(t, "submit", logs[1].Action)
	assert.Equal(t, "admin-1", logs[0].ActorID)
	assert.Equal(t, model.ResourceJobPost, logs[0].ResourceType)
}
