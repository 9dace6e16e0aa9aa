package repository

import (
	"context"

	"github.com/remotehive/jobboard-gin/internal/model"
	"gorm.io/gorm"
)

// NotificationEventRepository 通知事件仓储接口
type NotificationEventRepository interface {
	Save(ctx context.Context, event *model.NotificationEventModel) error
	FindByID(ctx context.Context, id string) (*model.NotificationEventModel, error)
	FindByJobPostID(ctx context.Context, jobPostID string) ([]*model.NotificationEventModel, error)
	FindByStatus(ctx context.Context, status string) ([]*model.NotificationEventModel, error)
}

// notificationEventRepository 通知事件仓储实现
type notificationEventRepository struct {
	db *gorm.DB
}

// NewNotificationEventRepository 创建通知事件仓储
func NewNotificationEventRepository(db *gorm.DB) NotificationEventRepository {
	return &notificationEventRepository{db: db}
}

// Save 保存通知事件
func (r *notificationEventRepository) Save(ctx context.Context, event *model.NotificationEventModel) error {
	return wrapStoreErr(r.db.WithContext(ctx).Save(event).Error)
}

// FindByID 根据 ID 查找通知事件
func (r *notificationEventRepository) FindByID(ctx context.Context, id string) (*model.NotificationEventModel, error) {
	var event model.NotificationEventModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&event).Error; err != nil {
		return nil, wrapStoreErr(err)
	}
	return &event, nil
}

// FindByJobPostID 根据职位 ID 查找通知事件
func (r *notificationEventRepository) FindByJobPostID(ctx context.Context, jobPostID string) ([]*model.NotificationEventModel, error) {
	var events []*model.NotificationEventModel
	err := r.db.WithContext(ctx).
		Where("job_post_id = ?", jobPostID).
		Order("created_at ASC").
		Find(&events).Error
	return events, wrapStoreErr(err)
}

// FindByStatus 根据投递状态查找通知事件
func (r *notificationEventRepository) FindByStatus(ctx context.Context, status string) ([]*model.NotificationEventModel, error) {
	var events []*model.NotificationEventModel
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at ASC").
		Find(&events).Error
	return events, wrapStoreErr(err)
}
