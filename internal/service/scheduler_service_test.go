package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/remotehive/jobboard-gin/internal/integration"
	"github.com/remotehive/jobboard-gin/internal/model"
	"github.com/remotehive/jobboard-gin/internal/repository"
	"github.com/remotehive/jobboard-gin/internal/service"
	"github.com/remotehive/jobboard-gin/internal/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// seedPost 直接落库一个指定状态的职位
func seedPost(t *testing.T, db *gorm.DB, id, status string, publishDate, expiryDate *time.Time) {
	now := time.Now()
	post := &model.JobPostModel{
		ID:          id,
		EmployerID:  "emp-001",
		Title:       "Role " + id,
		Status:      status,
		PublishDate: publishDate,
		ExpiryDate:  expiryDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, db.Create(post).Error)
}

// TestSchedulerService_RunSweep 测试过期与定时上线扫描
func TestSchedulerService_RunSweep(t *testing.T) {
	db := setupServiceTestDB(t)
	postMgr := integration.NewPostManager(db, nil)
	postRepo := repository.NewJobPostRepository(db)
	svc := service.NewSchedulerService(postMgr, postRepo, time.Minute)
	ctx := context.Background()

	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	seedPost(t, db, "post-expired", string(workflow.StatusActive), nil, &past)
	seedPost(t, db, "post-due", string(workflow.StatusApproved), &past, nil)
	seedPost(t, db, "post-fresh", string(workflow.StatusActive), nil, &future)
	seedPost(t, db, "post-draft", string(workflow.StatusDraft), &past, &past)

	summary, err := svc.RunSweep(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Expired)
	assert.Equal(t, 1, summary.Published)
	assert.Equal(t, 0, summary.Failures)

	var expired model.JobPostModel
	require.NoError(t, db.First(&expired, "id = ?", "post-expired").Error)
	assert.Equal(t, string(workflow.StatusExpired), expired.Status)

	var published model.JobPostModel
	require.NoError(t, db.First(&published, "id = ?", "post-due").Error)
	assert.Equal(t, string(workflow.StatusActive), published.Status)
	assert.NotNil(t, published.PublishedAt)

	// 未命中的职位不受影响
	var fresh model.JobPostModel
	require.NoError(t, db.First(&fresh, "id = ?", "post-fresh").Error)
	assert.Equal(t, string(workflow.StatusActive), fresh.Status)
	var draft model.JobPostModel
	require.NoError(t, db.First(&draft, "id = ?", "post-draft").Error)
	assert.Equal(t, string(workflow.StatusDraft), draft.Status)
}

// TestSchedulerService_RunSweep_FutureReference 测试以未来时刻扫描
// 筛选与过期守卫必须使用同一个时间基准,过期时间晚于墙上时钟
// 但早于扫描时刻的职位应当被标记过期而不是计入失败
func TestSchedulerService_RunSweep_FutureReference(t *testing.T) {
	db := setupServiceTestDB(t)
	postMgr := integration.NewPostManager(db, nil)
	postRepo := repository.NewJobPostRepository(db)
	svc := service.NewSchedulerService(postMgr, postRepo, time.Minute)
	ctx := context.Background()

	expiry := time.Now().Add(time.Hour)
	seedPost(t, db, "post-ahead", string(workflow.StatusActive), nil, &expiry)

	summary, err := svc.RunSweep(ctx, time.Now().Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Expired)
	assert.Equal(t, 0, summary.Failures)

	var post model.JobPostModel
	require.NoError(t, db.First(&post, "id = ?", "post-ahead").Error)
	assert.Equal(t, string(workflow.StatusExpired), post.Status)
}

// TestSchedulerService_RunSweep_Idempotent 测试重复扫描幂等
func TestSchedulerService_RunSweep_Idempotent(t *testing.T) {
	db := setupServiceTestDB(t)
	postMgr := integration.NewPostManager(db, nil)
	postRepo := repository.NewJobPostRepository(db)
	svc := service.NewSchedulerService(postMgr, postRepo, time.Minute)
	ctx := context.Background()

	now := time.Now()
	past := now.Add(-time.Hour)
	seedPost(t, db, "post-expired", string(workflow.StatusActive), nil, &past)

	first, err := svc.RunSweep(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Expired)

	// 第二次扫描没有可处理的条目
	second, err := svc.RunSweep(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Expired)
	assert.Equal(t, 0, second.Published)
	assert.Equal(t, 0, second.Failures)
}

// TestSchedulerService_RunSweep_SystemActor 测试系统扫描的日志归属
func TestSchedulerService_RunSweep_SystemActor(t *testing.T) {
	db := setupServiceTestDB(t)
	postMgr := integration.NewPostManager(db, nil)
	postRepo := repository.NewJobPostRepository(db)
	svc := service.NewSchedulerService(postMgr, postRepo, time.Minute)
	ctx := context.Background()

	now := time.Now()
	past := now.Add(-time.Hour)
	seedPost(t, db, "post-expired", string(workflow.StatusActive), nil, &past)

	_, err := svc.RunSweep(ctx, now)
	require.NoError(t, err)

	logRepo := repository.NewWorkflowLogRepository(db)
	logs, err := logRepo.FindByJobPostID(ctx, "post-expired")
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, workflow.SystemActorID, logs[0].ActorID)
	assert.Equal(t, workflow.SystemActorRole, logs[0].ActorRole)
	assert.Equal(t, string(workflow.StatusExpired), logs[0].ToStatus)
}

// TestSchedulerService_ExpiredBeforePublish 测试同时到期的职位先过期不再上线
func TestSchedulerService_ExpiredBeforePublish(t *testing.T) {
	db := setupServiceTestDB(t)
	postMgr := integration.NewPostManager(db, nil)
	postRepo := repository.NewJobPostRepository(db)
	svc := service.NewSchedulerService(postMgr, postRepo, time.Minute)
	ctx := context.Background()

	now := time.Now()
	past := now.Add(-time.Hour)
	// approved 职位的上线时间与过期时间都已过去,过期优先
	seedPost(t, db, "post-both", string(workflow.StatusApproved), &past, &past)

	summary, err := svc.RunSweep(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Expired)
	assert.Equal(t, 0, summary.Published)

	var post model.JobPostModel
	require.NoError(t, db.First(&post, "id = ?", "post-both").Error)
	assert.Equal(t, string(workflow.StatusExpired), post.Status)
}
