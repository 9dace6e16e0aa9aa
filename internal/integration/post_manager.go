package integration

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/remotehive/jobboard-gin/internal/auth"
	"github.com/remotehive/jobboard-gin/internal/metrics"
	"github.com/remotehive/jobboard-gin/internal/model"
	"github.com/remotehive/jobboard-gin/internal/repository"
	"github.com/remotehive/jobboard-gin/internal/workflow"
	"gorm.io/gorm"
)

// Facet 独立标记位
type Facet string

const (
	FacetFlagged  Facet = "flagged"
	FacetUrgent   Facet = "urgent"
	FacetFeatured Facet = "featured"
)

// CreatePostInput 创建职位输入
type CreatePostInput struct {
	EmployerID     string
	Title          string
	Description    string
	Location       string
	EmploymentType string
	RemoteType     string
	SalaryRange    string
	AutoPublish    bool
	PublishDate    *time.Time
	ExpiryDate     *time.Time
	CreatedBy      string
}

// ContentUpdate 职位内容更新
// nil 字段保持不变,终态职位不允许更新内容
type ContentUpdate struct {
	Title          *string
	Description    *string
	Location       *string
	EmploymentType *string
	RemoteType     *string
	SalaryRange    *string
}

// PostManager 职位管理器接口
// 工作流引擎的单条目操作面,所有状态变更都经过 Transition
type PostManager interface {
	Create(ctx context.Context, input *CreatePostInput) (*model.JobPostModel, error)
	Get(ctx context.Context, id string) (*model.JobPostModel, error)
	Transition(ctx context.Context, id string, event workflow.Event, actor auth.Actor, reason string) (*model.JobPostModel, error)
	// TransitionAt 以调用方给定的时刻执行状态转换
	// 定时扫描用它保证筛选与过期判定使用同一个时间基准
	TransitionAt(ctx context.Context, id string, event workflow.Event, actor auth.Actor, reason string, at time.Time) (*model.JobPostModel, error)
	// RestoreToDraft 管理员恢复终态职位到草稿,独立授权的管理操作,不是普通工作流转换
	RestoreToDraft(ctx context.Context, id string, actor auth.Actor, reason string) (*model.JobPostModel, error)
	UpdateContent(ctx context.Context, id string, update *ContentUpdate) (*model.JobPostModel, error)
	SetFacet(ctx context.Context, id string, facet Facet, value bool, reason string) (*model.JobPostModel, error)
}

// dbPostManager 基于数据库的职位管理器
type dbPostManager struct {
	db           *gorm.DB
	postRepo     repository.JobPostRepository
	logRepo      repository.WorkflowLogRepository
	employerRepo repository.EmployerRepository
	notifier     NotificationHandler
	now          func() time.Time
}

// NewPostManager 创建职位管理器
func NewPostManager(db *gorm.DB, notifier NotificationHandler) PostManager {
	return &dbPostManager{
		db:           db,
		postRepo:     repository.NewJobPostRepository(db),
		logRepo:      repository.NewWorkflowLogRepository(db),
		employerRepo: repository.NewEmployerRepository(db),
		notifier:     notifier,
		now:          time.Now,
	}
}

// Create 创建职位,初始状态为 draft
func (m *dbPostManager) Create(ctx context.Context, input *CreatePostInput) (*model.JobPostModel, error) {
	// 1. 校验输入
	if input.EmployerID == "" {
		return nil, &workflow.ValidationError{Field: "employer_id", Message: "employer ID is required"}
	}
	if input.Title == "" {
		return nil, &workflow.ValidationError{Field: "title", Message: "title is required"}
	}

	// 2. 校验雇主存在且处于启用状态
	employer, err := m.employerRepo.FindByID(ctx, input.EmployerID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, &workflow.ValidationError{Field: "employer_id", Message: "employer not found"}
		}
		return nil, fmt.Errorf("failed to get employer: %w", err)
	}
	if !employer.IsActive {
		return nil, &workflow.ValidationError{Field: "employer_id", Message: "employer is deactivated"}
	}

	// 3. 创建职位对象
	now := m.now()
	post := &model.JobPostModel{
		ID:             generatePostID(),
		EmployerID:     input.EmployerID,
		Title:          input.Title,
		Description:    input.Description,
		Location:       input.Location,
		EmploymentType: input.EmploymentType,
		RemoteType:     input.RemoteType,
		SalaryRange:    input.SalaryRange,
		Status:         string(workflow.StatusDraft),
		AutoPublish:    input.AutoPublish,
		PublishDate:    input.PublishDate,
		ExpiryDate:     input.ExpiryDate,
		CreatedAt:      now,
		UpdatedAt:      now,
		CreatedBy:      input.CreatedBy,
	}

	if err := post.Validate(); err != nil {
		return nil, &workflow.ValidationError{Field: "job_post", Message: err.Error()}
	}

	// 4. 保存到数据库
	if err := m.postRepo.Save(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to save job post: %w", err)
	}

	metrics.RecordPostCreated()

	return post, nil
}

// Get 获取职位详情
func (m *dbPostManager) Get(ctx context.Context, id string) (*model.JobPostModel, error) {
	return m.postRepo.FindByID(ctx, id)
}

// Transition 执行单条目状态转换
// 读取当前状态,按转换表计算目标状态并应用元数据副作用,
// 状态条件更新与工作流日志追加在同一事务内提交,
// 提交后尽力投递通知事件,通知失败不回滚已提交的转换
func (m *dbPostManager) Transition(ctx context.Context, id string, event workflow.Event, actor auth.Actor, reason string) (*model.JobPostModel, error) {
	return m.TransitionAt(ctx, id, event, actor, reason, m.now())
}

// TransitionAt 以给定时刻执行状态转换
// 过期判定与全部元数据时间戳都基于 at 而不是墙上时钟
func (m *dbPostManager) TransitionAt(ctx context.Context, id string, event workflow.Event, actor auth.Actor, reason string, at time.Time) (*model.JobPostModel, error) {
	// 1. 校验事件必填输入
	if err := workflow.ValidateInput(event, actor.ID, reason); err != nil {
		return nil, err
	}

	// 2. 获取职位
	post, err := m.postRepo.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, fmt.Errorf("job post not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get job post: %w", err)
	}

	fromStatus := workflow.Status(post.Status)

	// 3. 计算目标状态
	toStatus, err := workflow.Target(fromStatus, event, post.AutoPublish)
	if err != nil {
		metrics.RecordTransition(string(event), "invalid")
		return nil, err
	}

	// 4. expire 只在过期时间已到时允许
	now := at
	if event == workflow.EventExpire {
		if post.ExpiryDate == nil || now.Before(*post.ExpiryDate) {
			return nil, &workflow.ValidationError{Field: "expiry_date", Message: "expiry date has not passed"}
		}
	}

	// 5. 应用转换元数据副作用
	applyTransitionEffects(post, event, toStatus, actor, reason, now)
	post.Status = string(toStatus)
	post.UpdatedAt = now

	// 6. 条件更新与日志追加在同一事务内提交
	logEntry := &model.WorkflowLogModel{
		ID:         generateLogID(),
		JobPostID:  post.ID,
		FromStatus: string(fromStatus),
		ToStatus:   string(toStatus),
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Reason:     reason,
		OccurredAt: now,
	}
	if workflow.IsSystemEvent(event) && logEntry.ActorID == "" {
		logEntry.ActorID = workflow.SystemActorID
		logEntry.ActorRole = workflow.SystemActorRole
	}

	err = m.db.Transaction(func(tx *gorm.DB) error {
		if err := m.postRepo.UpdateStatusConditional(ctx, tx, post, fromStatus); err != nil {
			return err
		}
		return m.logRepo.Append(ctx, tx, logEntry)
	})
	if err != nil {
		if workflow.IsConflict(err) {
			metrics.RecordTransition(string(event), "conflict")
		} else {
			metrics.RecordTransition(string(event), "error")
		}
		return nil, err
	}

	metrics.RecordTransition(string(event), "success")

	// 7. 投递通知事件(尽力而为)
	if m.notifier != nil {
		m.notifier.Handle(&StatusChangeEvent{
			JobPostID:  post.ID,
			FromStatus: string(fromStatus),
			ToStatus:   string(toStatus),
			ActorID:    logEntry.ActorID,
			ActorRole:  logEntry.ActorRole,
			Reason:     reason,
			OccurredAt: now,
		})
	}

	return post, nil
}

// applyTransitionEffects 应用转换元数据副作用
// 元数据的置入与清除集中在这里,调用方无法绕过产生不一致记录:
// 进入 pending_approval/approved/active 清除拒绝原因,进入 rejected 清除审核通过元数据
func applyTransitionEffects(post *model.JobPostModel, event workflow.Event, toStatus workflow.Status, actor auth.Actor, reason string, now time.Time) {
	switch toStatus {
	case workflow.StatusPendingApproval, workflow.StatusApproved, workflow.StatusActive:
		post.RejectionReason = nil
	case workflow.StatusRejected:
		post.ApprovedAt = nil
		post.ApprovedBy = ""
	}

	switch event {
	case workflow.EventApprove:
		approvedAt := now
		post.ApprovedAt = &approvedAt
		post.ApprovedBy = actor.ID
		if toStatus == workflow.StatusActive && post.PublishedAt == nil {
			publishedAt := now
			post.PublishedAt = &publishedAt
		}
	case workflow.EventReject:
		rejectionReason := reason
		post.RejectionReason = &rejectionReason
	case workflow.EventPublish:
		if post.PublishedAt == nil {
			publishedAt := now
			post.PublishedAt = &publishedAt
		}
	}
}

// RestoreToDraft 恢复终态职位到草稿
// 清除全部转换元数据,写入工作流日志,只对终态职位生效
func (m *dbPostManager) RestoreToDraft(ctx context.Context, id string, actor auth.Actor, reason string) (*model.JobPostModel, error) {
	if actor.ID == "" {
		return nil, &workflow.ValidationError{Field: "actor_id", Message: "actor ID is required"}
	}

	post, err := m.postRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get job post: %w", err)
	}

	fromStatus := workflow.Status(post.Status)
	if !workflow.IsTerminal(fromStatus) {
		return nil, &workflow.InvalidTransitionError{From: fromStatus, Event: "restore"}
	}

	now := m.now()
	post.Status = string(workflow.StatusDraft)
	post.ApprovedAt = nil
	post.ApprovedBy = ""
	post.RejectionReason = nil
	post.PublishedAt = nil
	post.UpdatedAt = now

	logEntry := &model.WorkflowLogModel{
		ID:         generateLogID(),
		JobPostID:  post.ID,
		FromStatus: string(fromStatus),
		ToStatus:   string(workflow.StatusDraft),
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Reason:     reason,
		OccurredAt: now,
	}

	err = m.db.Transaction(func(tx *gorm.DB) error {
		if err := m.postRepo.UpdateStatusConditional(ctx, tx, post, fromStatus); err != nil {
			return err
		}
		return m.logRepo.Append(ctx, tx, logEntry)
	})
	if err != nil {
		return nil, err
	}

	return post, nil
}

// UpdateContent 更新职位内容
// 终态职位的内容不可变更
func (m *dbPostManager) UpdateContent(ctx context.Context, id string, update *ContentUpdate) (*model.JobPostModel, error) {
	post, err := m.postRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get job post: %w", err)
	}

	if workflow.IsTerminal(workflow.Status(post.Status)) {
		return nil, &workflow.ValidationError{Field: "status", Message: "cannot update content of a job post in terminal status " + post.Status}
	}

	if update.Title != nil {
		post.Title = *update.Title
	}
	if update.Description != nil {
		post.Description = *update.Description
	}
	if update.Location != nil {
		post.Location = *update.Location
	}
	if update.EmploymentType != nil {
		post.EmploymentType = *update.EmploymentType
	}
	if update.RemoteType != nil {
		post.RemoteType = *update.RemoteType
	}
	if update.SalaryRange != nil {
		post.SalaryRange = *update.SalaryRange
	}
	post.UpdatedAt = m.now()

	if err := post.Validate(); err != nil {
		return nil, &workflow.ValidationError{Field: "job_post", Message: err.Error()}
	}

	if err := m.postRepo.Save(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to save job post: %w", err)
	}

	return post, nil
}

// SetFacet 设置独立标记位
// 标记位与工作流状态无关,任何状态下都可设置
func (m *dbPostManager) SetFacet(ctx context.Context, id string, facet Facet, value bool, reason string) (*model.JobPostModel, error) {
	post, err := m.postRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get job post: %w", err)
	}

	now := m.now()
	switch facet {
	case FacetFlagged:
		post.IsFlagged = value
		if value {
			post.FlaggedReason = reason
			post.FlaggedAt = &now
		} else {
			post.FlaggedReason = ""
			post.FlaggedAt = nil
		}
	case FacetUrgent:
		post.IsUrgent = value
		if value {
			post.UrgentAt = &now
		} else {
			post.UrgentAt = nil
		}
	case FacetFeatured:
		post.IsFeatured = value
		if value {
			post.FeaturedAt = &now
		} else {
			post.FeaturedAt = nil
		}
	default:
		return nil, &workflow.ValidationError{Field: "facet", Message: "unknown facet: " + string(facet)}
	}
	post.UpdatedAt = now

	if err := m.postRepo.Save(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to save job post: %w", err)
	}

	return post, nil
}

// generatePostID 生成职位 ID
func generatePostID() string {
	return "post-" + uuid.New().String()
}

// generateLogID 生成工作流日志 ID
func generateLogID() string {
	return "wlog-" + uuid.New().String()
}
