package repository

import (
	"context"
	"time"

	"github.com/remotehive/jobboard-gin/internal/model"
	"github.com/remotehive/jobboard-gin/internal/workflow"
	"gorm.io/gorm"
)

// JobPostRepository 职位仓储接口
type JobPostRepository interface {
	Save(ctx context.Context, post *model.JobPostModel) error
	FindByID(ctx context.Context, id string) (*model.JobPostModel, error)
	FindByFilter(ctx context.Context, filter *JobPostFilter) ([]*model.JobPostModel, error)
	// UpdateStatusConditional 条件更新职位
	// 写入以 fromStatus 为条件,如果当前状态已被其他写入者修改则返回 ConflictError
	UpdateStatusConditional(ctx context.Context, tx *gorm.DB, post *model.JobPostModel, fromStatus workflow.Status) error
	// FindExpirable 查找 expiry_date 已过期且处于可过期状态的职位
	FindExpirable(ctx context.Context, now time.Time) ([]*model.JobPostModel, error)
	// FindPublishable 查找 publish_date 已到达且处于 approved 状态的职位
	FindPublishable(ctx context.Context, now time.Time) ([]*model.JobPostModel, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

// JobPostFilter 职位查询过滤器
type JobPostFilter struct {
	EmployerID *string
	Status     *string
	IsFlagged  *bool
	IsUrgent   *bool
	IsFeatured *bool
	StartTime  *time.Time
	EndTime    *time.Time
}

// jobPostRepository 职位仓储实现
type jobPostRepository struct {
	db *gorm.DB
}

// NewJobPostRepository 创建职位仓储
func NewJobPostRepository(db *gorm.DB) JobPostRepository {
	return &jobPostRepository{db: db}
}

// Save 保存职位
func (r *jobPostRepository) Save(ctx context.Context, post *model.JobPostModel) error {
	return wrapStoreErr(r.db.WithContext(ctx).Save(post).Error)
}

// FindByID 根据 ID 查找职位
func (r *jobPostRepository) FindByID(ctx context.Context, id string) (*model.JobPostModel, error) {
	var post model.JobPostModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&post).Error; err != nil {
		return nil, wrapStoreErr(err)
	}
	return &post, nil
}

// FindByFilter 根据过滤器查找职位
func (r *jobPostRepository) FindByFilter(ctx context.Context, filter *JobPostFilter) ([]*model.JobPostModel, error) {
	var posts []*model.JobPostModel
	query := r.db.WithContext(ctx).Model(&model.JobPostModel{})

	if filter != nil {
		if filter.EmployerID != nil {
			query = query.Where("employer_id = ?", *filter.EmployerID)
		}
		if filter.Status != nil {
			query = query.Where("status = ?", *filter.Status)
		}
		if filter.IsFlagged != nil {
			query = query.Where("is_flagged = ?", *filter.IsFlagged)
		}
		if filter.IsUrgent != nil {
			query = query.Where("is_urgent = ?", *filter.IsUrgent)
		}
		if filter.IsFeatured != nil {
			query = query.Where("is_featured = ?", *filter.IsFeatured)
		}
		if filter.StartTime != nil {
			query = query.Where("created_at >= ?", *filter.StartTime)
		}
		if filter.EndTime != nil {
			query = query.Where("created_at <= ?", *filter.EndTime)
		}
	}

	err := query.Order("created_at DESC").Find(&posts).Error
	return posts, wrapStoreErr(err)
}

// UpdateStatusConditional 条件更新职位
// 全字段写入,WHERE 条件同时匹配 id 与转换前状态,
// RowsAffected 为 0 说明状态已被并发修改,返回 ConflictError
func (r *jobPostRepository) UpdateStatusConditional(ctx context.Context, tx *gorm.DB, post *model.JobPostModel, fromStatus workflow.Status) error {
	db := tx
	if db == nil {
		db = r.db
	}

	result := db.WithContext(ctx).
		Model(&model.JobPostModel{}).
		Where("id = ? AND status = ?", post.ID, string(fromStatus)).
		Select("*").
		Omit("id", "created_at", "created_by").
		Updates(post)
	if result.Error != nil {
		return wrapStoreErr(result.Error)
	}
	if result.RowsAffected == 0 {
		return &workflow.ConflictError{JobPostID: post.ID, Expected: fromStatus}
	}
	return nil
}

// FindExpirable 查找待过期职位
func (r *jobPostRepository) FindExpirable(ctx context.Context, now time.Time) ([]*model.JobPostModel, error) {
	var posts []*model.JobPostModel
	err := r.db.WithContext(ctx).
		Where("status IN ?", []string{
			string(workflow.StatusActive),
			string(workflow.StatusApproved),
			string(workflow.StatusPaused),
		}).
		Where("expiry_date IS NOT NULL AND expiry_date <= ?", now).
		Order("expiry_date ASC").
		Find(&posts).Error
	return posts, wrapStoreErr(err)
}

// FindPublishable 查找待发布职位
func (r *jobPostRepository) FindPublishable(ctx context.Context, now time.Time) ([]*model.JobPostModel, error) {
	var posts []*model.JobPostModel
	err := r.db.WithContext(ctx).
		Where("status = ?", string(workflow.StatusApproved)).
		Where("publish_date IS NOT NULL AND publish_date <= ?", now).
		Order("publish_date ASC").
		Find(&posts).Error
	return posts, wrapStoreErr(err)
}

// CountByStatus 按状态统计职位数量
func (r *jobPostRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}

	var rows []statusCount
	err := r.db.WithContext(ctx).
		Model(&model.JobPostModel{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&rows).Error
	if err != nil {
		return nil, wrapStoreErr(err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
