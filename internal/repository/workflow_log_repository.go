package repository

import (
	"context"

	"github.com/remotehive/jobboard-gin/internal/model"
	"gorm.io/gorm"
)

// WorkflowLogRepository 工作流日志仓储接口
// 只追加,不暴露更新或删除操作
type WorkflowLogRepository interface {
	Append(ctx context.Context, tx *gorm.DB, entry *model.WorkflowLogModel) error
	FindByJobPostID(ctx context.Context, jobPostID string) ([]*model.WorkflowLogModel, error)
	FindByActor(ctx context.Context, actorID string) ([]*model.WorkflowLogModel, error)
	Count(ctx context.Context, jobPostID string) (int64, error)
}

// workflowLogRepository 工作流日志仓储实现
type workflowLogRepository struct {
	db *gorm.DB
}

// NewWorkflowLogRepository 创建工作流日志仓储
func NewWorkflowLogRepository(db *gorm.DB) WorkflowLogRepository {
	return &workflowLogRepository{db: db}
}

// Append 追加工作流日志
// 传入事务句柄时在事务内写入,与职位状态更新原子提交
func (r *workflowLogRepository) Append(ctx context.Context, tx *gorm.DB, entry *model.WorkflowLogModel) error {
	db := tx
	if db == nil {
		db = r.db
	}
	return wrapStoreErr(db.WithContext(ctx).Create(entry).Error)
}

// FindByJobPostID 根据职位 ID 查找工作流日志,按发生时间升序
// 同一时间戳的多条日志按自增序号决出写入顺序,回放顺序是确定的
func (r *workflowLogRepository) FindByJobPostID(ctx context.Context, jobPostID string) ([]*model.WorkflowLogModel, error) {
	var entries []*model.WorkflowLogModel
	err := r.db.WithContext(ctx).
		Where("job_post_id = ?", jobPostID).
		Order("occurred_at ASC, seq ASC").
		Find(&entries).Error
	return entries, wrapStoreErr(err)
}

// FindByActor 根据操作人查找工作流日志
func (r *workflowLogRepository) FindByActor(ctx context.Context, actorID string) ([]*model.WorkflowLogModel, error) {
	var entries []*model.WorkflowLogModel
	err := r.db.WithContext(ctx).
		Where("actor_id = ?", actorID).
		Order("occurred_at DESC, seq DESC").
		Find(&entries).Error
	return entries, wrapStoreErr(err)
}

// Count 统计职位的工作流日志条数
func (r *workflowLogRepository) Count(ctx context.Context, jobPostID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.WorkflowLogModel{}).
		Where("job_post_id = ?", jobPostID).
		Count(&count).Error
	return count, wrapStoreErr(err)
}
