package service

import (
	"context"
	"fmt"

	"github.com/remotehive/jobboard-gin/internal/auth"
	"github.com/remotehive/jobboard-gin/internal/integration"
	"github.com/remotehive/jobboard-gin/internal/model"
)

// EmployerService 雇主服务接口
type EmployerService interface {
	Create(ctx context.Context, req *CreateEmployerRequest) (*model.EmployerModel, error)
	Get(ctx context.Context, id string) (*model.EmployerModel, error)
	Update(ctx context.Context, id string, req *UpdateEmployerRequest) (*model.EmployerModel, error)
	Verify(ctx context.Context, id string) (*model.EmployerModel, error)
	Deactivate(ctx context.Context, id string) (*model.EmployerModel, error)
}

// CreateEmployerRequest 创建雇主请求
// @Description 创建雇主的请求参数
type CreateEmployerRequest struct {
	Name         string `json:"name" example:"Acme Robotics" binding:"required"`            // 雇主名称
	ContactEmail string `json:"contact_email" example:"jobs@acme.dev" binding:"required"`   // 联系邮箱
	Industry     string `json:"industry" example:"software"`                                // 行业
	SizeBand     string `json:"size_band" example:"51-200"`                                 // 规模区间
	Location     string `json:"location" example:"Berlin"`                                  // 所在地
}

// UpdateEmployerRequest 更新雇主请求
// @Description 更新雇主描述属性的请求参数,缺省字段保持不变
type UpdateEmployerRequest struct {
	Name         *string `json:"name,omitempty"`          // 雇主名称
	ContactEmail *string `json:"contact_email,omitempty"` // 联系邮箱
	Industry     *string `json:"industry,omitempty"`      // 行业
	SizeBand     *string `json:"size_band,omitempty"`     // 规模区间
	Location     *string `json:"location,omitempty"`      // 所在地
}

type employerService struct {
	employerMgr integration.EmployerManager
	auditLogSvc AuditLogService
}

// NewEmployerService 创建雇主服务
func NewEmployerService(employerMgr integration.EmployerManager, auditLogSvc AuditLogService) EmployerService {
	return &employerService{
		employerMgr: employerMgr,
		auditLogSvc: auditLogSvc,
	}
}

// Create 创建雇主
func (s *employerService) Create(ctx context.Context, req *CreateEmployerRequest) (*model.EmployerModel, error) {
	employer, err := s.employerMgr.Create(ctx, &integration.CreateEmployerInput{
		Name:         req.Name,
		ContactEmail: req.ContactEmail,
		Industry:     req.Industry,
		SizeBand:     req.SizeBand,
		Location:     req.Location,
	})
	if err != nil {
		return nil, err
	}

	// 记录审计日志
	if s.auditLogSvc != nil {
		actor := auth.ActorFromContext(ctx)
		if actor.ID != "" {
			details := fmt.Sprintf(`{"employer_id":"%s","employer_number":"%s","name":"%s"}`, employer.ID, employer.EmployerNumber, employer.Name)
			_ = s.auditLogSvc.RecordAction(ctx, actor, "create", model.ResourceEmployer, employer.ID, details)
		}
	}

	return employer, nil
}

// Get 获取雇主详情
func (s *employerService) Get(ctx context.Context, id string) (*model.EmployerModel, error) {
	return s.employerMgr.Get(ctx, id)
}

// Update 更新雇主描述属性
func (s *employerService) Update(ctx context.Context, id string, req *UpdateEmployerRequest) (*model.EmployerModel, error) {
	employer, err := s.employerMgr.Update(ctx, id, &integration.EmployerUpdate{
		Name:         req.Name,
		ContactEmail: req.ContactEmail,
		Industry:     req.Industry,
		SizeBand:     req.SizeBand,
		Location:     req.Location,
	})
	if err != nil {
		return nil, err
	}

	if s.auditLogSvc != nil {
		actor := auth.ActorFromContext(ctx)
		if actor.ID != "" {
			details := fmt.Sprintf(`{"employer_id":"%s"}`, id)
			_ = s.auditLogSvc.RecordAction(ctx, actor, "update", model.ResourceEmployer, id, details)
		}
	}

	return employer, nil
}

// Verify 标记雇主为已认证
func (s *employerService) Verify(ctx context.Context, id string) (*model.EmployerModel, error) {
	employer, err := s.employerMgr.Verify(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.auditLogSvc != nil {
		actor := auth.ActorFromContext(ctx)
		if actor.ID != "" {
			details := fmt.Sprintf(`{"employer_id":"%s","verification_status":"%s"}`, id, employer.VerificationStatus)
			_ = s.auditLogSvc.RecordAction(ctx, actor, "verify", model.ResourceEmployer, id, details)
		}
	}

	return employer, nil
}

// Deactivate 停用雇主
func (s *employerService) Deactivate(ctx context.Context, id string) (*model.EmployerModel, error) {
	employer, err := s.employerMgr.Deactivate(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.auditLogSvc != nil {
		actor := auth.ActorFromContext(ctx)
		if actor.ID != "" {
			details := fmt.Sprintf(`{"employer_id":"%s"}`, id)
			_ = s.auditLogSvc.RecordAction(ctx, actor, "deactivate", model.ResourceEmployer, id, details)
		}
	}

	return employer, nil
}
