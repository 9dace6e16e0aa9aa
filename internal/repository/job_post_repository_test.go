package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/remotehive/jobboard-gin/internal/model"
	"github.com/remotehive/jobboard-gin/internal/repository"
	"github.com/remotehive/jobboard-gin/internal/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupJobPostTestDB 创建职位仓储测试数据库
func setupJobPostTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&model.JobPostModel{},
		&model.WorkflowLogModel{},
	)
	require.NoError(t, err)

	return db
}

// newTestPost 构造测试职位
func newTestPost(id, status string) *model.JobPostModel {
	now := time.Now()
	return &model.JobPostModel{
		ID:         id,
		EmployerID: "emp-001",
		Title:      "Senior Go Engineer",
		Status:     status,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// TestJobPostRepository_SaveAndFind 测试保存与查找
func TestJobPostRepository_SaveAndFind(t *testing.T) {
	db := setupJobPostTestDB(t)
	repo := repository.NewJobPostRepository(db)
	ctx := context.Background()

	post := newTestPost("post-001", string(workflow.StatusDraft))
	require.NoError(t, repo.Save(ctx, post))

	found, err := repo.FindByID(ctx, "post-001")
	require.NoError(t, err)
	assert.Equal(t, "Senior Go Engineer", found.Title)
	assert.Equal(t, string(workflow.StatusDraft), found.Status)

	_, err = repo.FindByID(ctx, "post-missing")
	require.Error(t, err)
	assert.True(t, repository.IsNotFound(err))
}

// TestJobPostRepository_UpdateStatusConditional 测试条件更新
func TestJobPostRepository_UpdateStatusConditional(t *testing.T) {
	db := setupJobPostTestDB(t)
	repo := repository.NewJobPostRepository(db)
	ctx := context.Background()

	post := newTestPost("post-001", string(workflow.StatusDraft))
	require.NoError(t, repo.Save(ctx, post))

	// 条件匹配时更新成功
	post.Status = string(workflow.StatusPendingApproval)
	err := repo.UpdateStatusConditional(ctx, nil, post, workflow.StatusDraft)
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, "post-001")
	require.NoError(t, err)
	assert.Equal(t, string(workflow.StatusPendingApproval), found.Status)

	// 前置状态不再匹配时返回冲突
	stale := newTestPost("post-001", string(workflow.StatusPendingApproval))
	err = repo.UpdateStatusConditional(ctx, nil, stale, workflow.StatusDraft)
	require.Error(t, err)
	assert.True(t, workflow.IsConflict(err))

	// 冲突写入不产生任何变更
	found, err = repo.FindByID(ctx, "post-001")
	require.NoError(t, err)
	assert.Equal(t, string(workflow.StatusPendingApproval), found.Status)
}

// TestJobPostRepository_FindExpirable 测试过期扫描查询
func TestJobPostRepository_FindExpirable(t *testing.T) {
	db := setupJobPostTestDB(t)
	repo := repository.NewJobPostRepository(db)
	ctx := context.Background()

	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	// 已过期的 active 职位,应命中
	expired := newTestPost("post-expired", string(workflow.StatusActive))
	expired.ExpiryDate = &past
	require.NoError(t, repo.Save(ctx, expired))

	// 已过期的 paused 职位,应命中
	expiredPaused := newTestPost("post-expired-paused", string(workflow.StatusPaused))
	expiredPaused.ExpiryDate = &past
	require.NoError(t, repo.Save(ctx, expiredPaused))

	// 未到期的 active 职位,不应命中
	fresh := newTestPost("post-fresh", string(workflow.StatusActive))
	fresh.ExpiryDate = &future
	require.NoError(t, repo.Save(ctx, fresh))

	// 无过期时间的职位,不应命中
	open := newTestPost("post-open", string(workflow.StatusActive))
	require.NoError(t, repo.Save(ctx, open))

	// 已过期但处于终态的职位,不应命中
	closed := newTestPost("post-closed", string(workflow.StatusClosed))
	closed.ExpiryDate = &past
	require.NoError(t, repo.Save(ctx, closed))

	posts, err := repo.FindExpirable(ctx, now)
	require.NoError(t, err)
	require.Len(t, posts, 2)

	ids := []string{posts[0].ID, posts[1].ID}
	assert.Contains(t, ids, "post-expired")
	assert.Contains(t, ids, "post-expired-paused")
}

// TestJobPostRepository_FindPublishable 测试定时上线扫描查询
func TestJobPostRepository_FindPublishable(t *testing.T) {
	db := setupJobPostTestDB(t)
	repo := repository.NewJobPostRepository(db)
	ctx := context.Background()

	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	// 上线时间已到的 approved 职位,应命中
	due := newTestPost("post-due", string(workflow.StatusApproved))
	due.PublishDate = &past
	require.NoError(t, repo.Save(ctx, due))

	// 上线时间未到的 approved 职位,不应命中
	scheduled := newTestPost("post-scheduled", string(workflow.StatusApproved))
	scheduled.PublishDate = &future
	require.NoError(t, repo.Save(ctx, scheduled))

	// 上线时间已到但已是 active 的职位,不应命中
	active := newTestPost("post-active", string(workflow.StatusActive))
	active.PublishDate = &past
	require.NoError(t, repo.Save(ctx, active))

	posts, err := repo.FindPublishable(ctx, now)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "post-due", posts[0].ID)
}

// TestJobPostRepository_CountByStatus 测试按状态统计
func TestJobPostRepository_CountByStatus(t *testing.T) {
	db := setupJobPostTestDB(t)
	repo := repository.NewJobPostRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, newTestPost("post-1", string(workflow.StatusDraft))))
	require.NoError(t, repo.Save(ctx, newTestPost("post-2", string(workflow.StatusDraft))))
	require.NoError(t, repo.Save(ctx, newTestPost("post-3", string(workflow.StatusActive))))

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[string(workflow.StatusDraft)])
	assert.Equal(t, int64(1), counts[string(workflow.StatusActive)])
}

// TestJobPostRepository_FindByFilter 测试过滤查询
func TestJobPostRepository_FindByFilter(t *testing.T) {
	db := setupJobPostTestDB(t)
	repo := repository.NewJobPostRepository(db)
	ctx := context.Background()

	p1 := newTestPost("post-1", string(workflow.StatusActive))
	p1.IsFeatured = true
	require.NoError(t, repo.Save(ctx, p1))

	p2 := newTestPost("post-2", string(workflow.StatusActive))
	p2.EmployerID = "emp-002"
	require.NoError(t, repo.Save(ctx, p2))

	status := string(workflow.StatusActive)
	featured := true
	posts, err := repo.FindByFilter(ctx, &repository.JobPostFilter{
		Status:     &status,
		IsFeatured: &featured,
	})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "post-1", posts[0].ID)

	employerID := "emp-002"
	posts, err = repo.FindByFilter(ctx, &repository.JobPostFilter{EmployerID: &employerID})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "post-2", posts[0].ID)
}
