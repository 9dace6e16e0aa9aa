package service

import (
	"context"
	"fmt"
	"time"

	"github.com/remotehive/jobboard-gin/internal/auth"
	"github.com/remotehive/jobboard-gin/internal/integration"
	"github.com/remotehive/jobboard-gin/internal/model"
	"github.com/remotehive/jobboard-gin/internal/workflow"
)

// JobPostService 职位服务接口
type JobPostService interface {
	Create(ctx context.Context, req *CreateJobPostRequest) (*model.JobPostModel, error)
	Get(ctx context.Context, id string) (*model.JobPostModel, error)
	Transition(ctx context.Context, id string, event workflow.Event, req *TransitionRequest) (*model.JobPostModel, error)
	RestoreToDraft(ctx context.Context, id string, req *RestoreRequest) (*model.JobPostModel, error)
	UpdateContent(ctx context.Context, id string, req *UpdateContentRequest) (*model.JobPostModel, error)
	SetFacet(ctx context.Context, id string, req *SetFacetRequest) (*model.JobPostModel, error)
	// 批量操作方法
	BulkTransition(ctx context.Context, req *BulkTransitionRequest) (*BulkResult, error)
}

// CreateJobPostRequest 创建职位请求
// @Description 创建职位的请求参数
type CreateJobPostRequest struct {
	EmployerID     string     `json:"employer_id" example:"emp-001" binding:"required"`       // 雇主 ID
	Title          string     `json:"title" example:"Senior Go Engineer" binding:"required"`  // 职位标题
	Description    string     `json:"description" example:"Build backend services"`           // 职位描述
	Location       string     `json:"location" example:"Remote"`                              // 工作地点
	EmploymentType string     `json:"employment_type" example:"full_time"`                    // 雇佣类型
	RemoteType     string     `json:"remote_type" example:"remote"`                           // 远程类型
	SalaryRange    string     `json:"salary_range" example:"120k-160k"`                       // 薪资范围
	AutoPublish    bool       `json:"auto_publish" example:"true"`                            // 审核通过后是否自动上线
	PublishDate    *time.Time `json:"publish_date,omitempty"`                                 // 计划上线时间
	ExpiryDate     *time.Time `json:"expiry_date,omitempty"`                                  // 过期时间
}

// TransitionRequest 状态转换请求
// @Description 状态转换的请求参数
type TransitionRequest struct {
	Reason string `json:"reason" example:"duplicate posting"` // 转换原因(reject 必填)
}

// RestoreRequest 恢复草稿请求
// @Description 恢复终态职位到草稿的请求参数
type RestoreRequest struct {
	Reason string `json:"reason" example:"repost after refresh"` // 恢复原因
}

// UpdateContentRequest 职位内容更新请求
// @Description 更新职位内容的请求参数,缺省字段保持不变
type UpdateContentRequest struct {
	Title          *string `json:"title,omitempty"`           // 职位标题
	Description    *string `json:"description,omitempty"`     // 职位描述
	Location       *string `json:"location,omitempty"`        // 工作地点
	EmploymentType *string `json:"employment_type,omitempty"` // 雇佣类型
	RemoteType     *string `json:"remote_type,omitempty"`     // 远程类型
	SalaryRange    *string `json:"salary_range,omitempty"`    // 薪资范围
}

// SetFacetRequest 标记位设置请求
// @Description 设置独立标记位的请求参数
type SetFacetRequest struct {
	Facet  string `json:"facet" example:"flagged" binding:"required"` // 标记位名称(flagged/urgent/featured)
	Value  bool   `json:"value" example:"true"`                       // 目标值
	Reason string `json:"reason" example:"reported by user"`          // 原因(flagged 置位时记录)
}

// BulkTransitionRequest 批量状态转换请求
// @Description 批量状态转换的请求参数
type BulkTransitionRequest struct {
	JobPostIDs []string `json:"job_post_ids" binding:"required"`       // 职位 ID 列表
	Event      string   `json:"event" example:"approve" binding:"required"` // 工作流事件
	Reason     string   `json:"reason"`                                // 转换原因
}

// BatchOperationResult 批量操作结果
// @Description 批量操作中单个条目的结果
type BatchOperationResult struct {
	JobPostID string `json:"job_post_id"`     // 职位 ID
	Success   bool   `json:"success"`         // 是否成功
	Error     string `json:"error,omitempty"` // 错误信息(如果失败)
}

// BulkResult 批量操作汇总结果
// @Description 批量操作的汇总结果
type BulkResult struct {
	Results   []BatchOperationResult `json:"results"`   // 每个条目的结果
	Succeeded int                    `json:"succeeded"` // 成功数量
	Failed    int                    `json:"failed"`    // 失败数量
}

type jobPostService struct {
	postMgr     integration.PostManager
	auditLogSvc AuditLogService
}

// NewJobPostService 创建职位服务
func NewJobPostService(postMgr integration.PostManager, auditLogSvc AuditLogService) JobPostService {
	return &jobPostService{
		postMgr:     postMgr,
		auditLogSvc: auditLogSvc,
	}
}

// Create 创建职位
func (s *jobPostService) Create(ctx context.Context, req *CreateJobPostRequest) (*model.JobPostModel, error) {
	actor := auth.ActorFromContext(ctx)

	post, err := s.postMgr.Create(ctx, &integration.CreatePostInput{
		EmployerID:     req.EmployerID,
		Title:          req.Title,
		Description:    req.Description,
		Location:       req.Location,
		EmploymentType: req.EmploymentType,
		RemoteType:     req.RemoteType,
		SalaryRange:    req.SalaryRange,
		AutoPublish:    req.AutoPublish,
		PublishDate:    req.PublishDate,
		ExpiryDate:     req.ExpiryDate,
		CreatedBy:      actor.ID,
	})
	if err != nil {
		return nil, err
	}

	// 记录审计日志
	if s.auditLogSvc != nil && actor.ID != "" {
		details := fmt.Sprintf(`{"job_post_id":"%s","employer_id":"%s","title":"%s"}`, post.ID, post.EmployerID, post.Title)
		_ = s.auditLogSvc.RecordAction(ctx, actor, "create", model.ResourceJobPost, post.ID, details)
	}

	return post, nil
}

// Get 获取职位详情
func (s *jobPostService) Get(ctx context.Context, id string) (*model.JobPostModel, error) {
	return s.postMgr.Get(ctx, id)
}

// Transition 执行单条目状态转换
func (s *jobPostService) Transition(ctx context.Context, id string, event workflow.Event, req *TransitionRequest) (*model.JobPostModel, error) {
	actor := auth.ActorFromContext(ctx)
	reason := ""
	if req != nil {
		reason = req.Reason
	}

	post, err := s.postMgr.Transition(ctx, id, event, actor, reason)
	if err != nil {
		return nil, err
	}

	// 记录审计日志
	if s.auditLogSvc != nil && actor.ID != "" {
		details := fmt.Sprintf(`{"job_post_id":"%s","event":"%s","to_status":"%s","reason":"%s"}`, id, event, post.Status, reason)
		_ = s.auditLogSvc.RecordAction(ctx, actor, string(event), model.ResourceJobPost, id, details)
	}

	return post, nil
}

// RestoreToDraft 恢复终态职位到草稿
func (s *jobPostService) RestoreToDraft(ctx context.Context, id string, req *RestoreRequest) (*model.JobPostModel, error) {
	actor := auth.ActorFromContext(ctx)
	reason := ""
	if req != nil {
		reason = req.Reason
	}

	post, err := s.postMgr.RestoreToDraft(ctx, id, actor, reason)
	if err != nil {
		return nil, err
	}

	if s.auditLogSvc != nil && actor.ID != "" {
		details := fmt.Sprintf(`{"job_post_id":"%s","reason":"%s"}`, id, reason)
		_ = s.auditLogSvc.RecordAction(ctx, actor, "restore", model.ResourceJobPost, id, details)
	}

	return post, nil
}

// UpdateContent 更新职位内容
func (s *jobPostService) UpdateContent(ctx context.Context, id string, req *UpdateContentRequest) (*model.JobPostModel, error) {
	post, err := s.postMgr.UpdateContent(ctx, id, &integration.ContentUpdate{
		Title:          req.Title,
		Description:    req.Description,
		Location:       req.Location,
		EmploymentType: req.EmploymentType,
		RemoteType:     req.RemoteType,
		SalaryRange:    req.SalaryRange,
	})
	if err != nil {
		return nil, err
	}

	if s.auditLogSvc != nil {
		actor := auth.ActorFromContext(ctx)
		if actor.ID != "" {
			details := fmt.Sprintf(`{"job_post_id":"%s"}`, id)
			_ = s.auditLogSvc.RecordAction(ctx, actor, "update", model.ResourceJobPost, id, details)
		}
	}

	return post, nil
}

// SetFacet 设置独立标记位
func (s *jobPostService) SetFacet(ctx context.Context, id string, req *SetFacetRequest) (*model.JobPostModel, error) {
	post, err := s.postMgr.SetFacet(ctx, id, integration.Facet(req.Facet), req.Value, req.Reason)
	if err != nil {
		return nil, err
	}

	if s.auditLogSvc != nil {
		actor := auth.ActorFromContext(ctx)
		if actor.ID != "" {
			details := fmt.Sprintf(`{"job_post_id":"%s","facet":"%s","value":%t}`, id, req.Facet, req.Value)
			_ = s.auditLogSvc.RecordAction(ctx, actor, "set_facet", model.ResourceJobPost, id, details)
		}
	}

	return post, nil
}

// BulkTransition 批量状态转换
// 逐条执行,单条失败不影响其他条目,重复 ID 只处理一次
func (s *jobPostService) BulkTransition(ctx context.Context, req *BulkTransitionRequest) (*BulkResult, error) {
	event := workflow.Event(req.Event)
	if !workflow.IsValidEvent(event) {
		return nil, &workflow.ValidationError{Field: "event", Message: "unknown event: " + req.Event}
	}
	if len(req.JobPostIDs) == 0 {
		return nil, &workflow.ValidationError{Field: "job_post_ids", Message: "job post ID list cannot be empty"}
	}

	result := &BulkResult{
		Results: make([]BatchOperationResult, 0, len(req.JobPostIDs)),
	}

	seen := make(map[string]bool, len(req.JobPostIDs))
	for _, postID := range req.JobPostIDs {
		if seen[postID] {
			continue
		}
		seen[postID] = true

		_, err := s.Transition(ctx, postID, event, &TransitionRequest{Reason: req.Reason})
		item := BatchOperationResult{
			JobPostID: postID,
			Success:   err == nil,
		}
		if err != nil {
			item.Error = err.Error()
			result.Failed++
		} else {
			result.Succeeded++
		}
		result.Results = append(result.Results, item)
	}

	return result, nil
}
