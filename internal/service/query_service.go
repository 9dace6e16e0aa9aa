package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/remotehive/jobboard-gin/internal/model"
	"github.com/remotehive/jobboard-gin/internal/repository"
	"github.com/remotehive/jobboard-gin/internal/utils"
	"gorm.io/gorm"
)

// QueryService 查询服务接口
type QueryService interface {
	ListJobPosts(ctx context.Context, filter *ListJobPostsFilter) ([]*model.JobPostModel, int64, error)
	GetHistory(ctx context.Context, jobPostID string) ([]*WorkflowLogEntry, error)
	ListEmployers(ctx context.Context, filter *ListEmployersFilter) ([]*model.EmployerModel, int64, error)
}

// ListJobPostsFilter 职位列表查询过滤器
type ListJobPostsFilter struct {
	EmployerID *string
	Status     *string
	IsFlagged  *bool
	IsUrgent   *bool
	IsFeatured *bool
	StartTime  *string
	EndTime    *string
	Page       int
	PageSize   int
	SortBy     string
	Order      string
}

// ListEmployersFilter 雇主列表查询过滤器
type ListEmployersFilter struct {
	VerificationStatus *string
	Industry           *string
	IsActive           *bool
	Page               int
	PageSize           int
}

// WorkflowLogEntry 工作流日志条目
// @Description 职位的工作流历史条目,按发生时间升序返回
type WorkflowLogEntry struct {
	ID         string `json:"id"`          // 日志 ID
	JobPostID  string `json:"job_post_id"` // 职位 ID
	FromStatus string `json:"from_status"` // 转换前状态
	ToStatus   string `json:"to_status"`   // 转换后状态
	ActorID    string `json:"actor_id"`    // 操作人 ID
	ActorRole  string `json:"actor_role"`  // 操作人角色
	Reason     string `json:"reason"`      // 转换原因
	OccurredAt string `json:"occurred_at"` // 发生时间
}

// queryService 查询服务实现
type queryService struct {
	db           *gorm.DB
	logRepo      repository.WorkflowLogRepository
	employerRepo repository.EmployerRepository
}

// NewQueryService 创建查询服务
func NewQueryService(db *gorm.DB) QueryService {
	return &queryService{
		db:           db,
		logRepo:      repository.NewWorkflowLogRepository(db),
		employerRepo: repository.NewEmployerRepository(db),
	}
}

// ListJobPosts 列出职位
func (s *queryService) ListJobPosts(ctx context.Context, filter *ListJobPostsFilter) ([]*model.JobPostModel, int64, error) {
	// 构建查询
	query := s.db.WithContext(ctx).Model(&model.JobPostModel{})

	// 应用过滤条件
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

	// 获取总数
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count job posts: %w", err)
	}

	// 应用排序(验证并清理排序字段,防止 SQL 注入)
	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}
	if err := utils.ValidateSortField(sortBy); err != nil {
		return nil, 0, fmt.Errorf("invalid sort field: %w", err)
	}

	order := filter.Order
	if order == "" {
		order = "desc"
	}
	if err := utils.ValidateSortOrder(order); err != nil {
		return nil, 0, fmt.Errorf("invalid sort order: %w", err)
	}
	query = query.Order(fmt.Sprintf("%s %s", sortBy, strings.ToUpper(order)))

	// 应用分页
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	query = query.Offset((page - 1) * pageSize).Limit(pageSize)

	// 执行查询
	var posts []*model.JobPostModel
	if err := query.Find(&posts).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to query job posts: %w", err)
	}

	return posts, total, nil
}

// GetHistory 获取职位工作流历史
// 条目按发生时间升序,最后一条的 to_status 与职位当前状态一致
func (s *queryService) GetHistory(ctx context.Context, jobPostID string) ([]*WorkflowLogEntry, error) {
	models, err := s.logRepo.FindByJobPostID(ctx, jobPostID)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}

	entries := make([]*WorkflowLogEntry, 0, len(models))
	for _, m := range models {
		entries = append(entries, &WorkflowLogEntry{
			ID:         m.ID,
			JobPostID:  m.JobPostID,
			FromStatus: m.FromStatus,
			ToStatus:   m.ToStatus,
			ActorID:    m.ActorID,
			ActorRole:  m.ActorRole,
			Reason:     m.Reason,
			OccurredAt: m.OccurredAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	return entries, nil
}

// ListEmployers 列出雇主
func (s *queryService) ListEmployers(ctx context.Context, filter *ListEmployersFilter) ([]*model.EmployerModel, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.EmployerModel{})

	if filter.VerificationStatus != nil {
		query = query.Where("verification_status = ?", *filter.VerificationStatus)
	}
	if filter.Industry != nil {
		query = query.Where("industry = ?", *filter.Industry)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count employers: %w", err)
	}

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	query = query.Order("created_at DESC").Offset((page - 1) * pageSize).Limit(pageSize)

	var employers []*model.EmployerModel
	if err := query.Find(&employers).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to query employers: %w", err)
	}

	return employers, total, nil
}
