package integration

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/remotehive/jobboard-gin/internal/metrics"
	"github.com/remotehive/jobboard-gin/internal/model"
	"github.com/remotehive/jobboard-gin/internal/repository"
	"github.com/remotehive/jobboard-gin/internal/workflow"
	"gorm.io/gorm"
)

// EmployerNumberPrefix 雇主编号前缀
const EmployerNumberPrefix = "RH"

// CreateEmployerInput 创建雇主输入
type CreateEmployerInput struct {
	Name         string
	ContactEmail string
	Industry     string
	SizeBand     string
	Location     string
}

// EmployerUpdate 雇主属性更新,nil 字段保持不变
type EmployerUpdate struct {
	Name         *string
	ContactEmail *string
	Industry     *string
	SizeBand     *string
	Location     *string
}

// EmployerManager 雇主管理器接口
type EmployerManager interface {
	// Create 创建雇主
	// 雇主编号在创建时同步分配,编号分配失败则整个创建失败
	Create(ctx context.Context, input *CreateEmployerInput) (*model.EmployerModel, error)
	Get(ctx context.Context, id string) (*model.EmployerModel, error)
	Update(ctx context.Context, id string, update *EmployerUpdate) (*model.EmployerModel, error)
	Verify(ctx context.Context, id string) (*model.EmployerModel, error)
	// Deactivate 停用雇主,雇主从不删除
	Deactivate(ctx context.Context, id string) (*model.EmployerModel, error)
}

// dbEmployerManager 基于数据库的雇主管理器
type dbEmployerManager struct {
	db           *gorm.DB
	employerRepo repository.EmployerRepository
	seqRepo      repository.SequenceRepository
}

// NewEmployerManager 创建雇主管理器
func NewEmployerManager(db *gorm.DB) EmployerManager {
	return &dbEmployerManager{
		db:           db,
		employerRepo: repository.NewEmployerRepository(db),
		seqRepo:      repository.NewSequenceRepository(db),
	}
}

// FormatEmployerNumber 格式化雇主编号
// 前缀 RH 加左补零至少 4 位的序号,超过 4 位后自然扩展位宽而不回绕
func FormatEmployerNumber(n int64) string {
	return fmt.Sprintf("%s%04d", EmployerNumberPrefix, n)
}

// Create 创建雇主
func (m *dbEmployerManager) Create(ctx context.Context, input *CreateEmployerInput) (*model.EmployerModel, error) {
	// 1. 校验输入
	if input.Name == "" {
		return nil, &workflow.ValidationError{Field: "name", Message: "employer name is required"}
	}
	if input.ContactEmail == "" || !strings.Contains(input.ContactEmail, "@") {
		return nil, &workflow.ValidationError{Field: "contact_email", Message: "a valid contact email is required"}
	}

	// 2. 分配雇主编号
	// 序号自增被数据库行锁串行化,失败产生的空洞可接受,重复不可接受
	seq, err := m.seqRepo.Next(ctx, model.SequenceEmployerNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to assign employer number: %w", err)
	}

	// 3. 保存雇主,编号在记录对外可见之前已经落库
	now := time.Now()
	employer := &model.EmployerModel{
		ID:                 generateEmployerID(),
		EmployerNumber:     FormatEmployerNumber(seq),
		Name:               input.Name,
		ContactEmail:       input.ContactEmail,
		Industry:           input.Industry,
		SizeBand:           input.SizeBand,
		Location:           input.Location,
		VerificationStatus: model.VerificationUnverified,
		IsActive:           true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := employer.Validate(); err != nil {
		return nil, &workflow.ValidationError{Field: "employer", Message: err.Error()}
	}

	if err := m.employerRepo.Save(ctx, employer); err != nil {
		return nil, fmt.Errorf("failed to save employer: %w", err)
	}

	metrics.RecordEmployerCreated()

	return employer, nil
}

// Get 获取雇主详情
func (m *dbEmployerManager) Get(ctx context.Context, id string) (*model.EmployerModel, error) {
	return m.employerRepo.FindByID(ctx, id)
}

// Update 更新雇主描述属性
// 雇主编号不可变更
func (m *dbEmployerManager) Update(ctx context.Context, id string, update *EmployerUpdate) (*model.EmployerModel, error) {
	employer, err := m.employerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get employer: %w", err)
	}

	if update.Name != nil {
		employer.Name = *update.Name
	}
	if update.ContactEmail != nil {
		employer.ContactEmail = *update.ContactEmail
	}
	if update.Industry != nil {
		employer.Industry = *update.Industry
	}
	if update.SizeBand != nil {
		employer.SizeBand = *update.SizeBand
	}
	if update.Location != nil {
		employer.Location = *update.Location
	}
	employer.UpdatedAt = time.Now()

	if err := employer.Validate(); err != nil {
		return nil, &workflow.ValidationError{Field: "employer", Message: err.Error()}
	}

	if err := m.employerRepo.Save(ctx, employer); err != nil {
		return nil, fmt.Errorf("failed to save employer: %w", err)
	}

	return employer, nil
}

// Verify 标记雇主为已认证
// 认证状态独立于职位工作流
func (m *dbEmployerManager) Verify(ctx context.Context, id string) (*model.EmployerModel, error) {
	employer, err := m.employerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get employer: %w", err)
	}

	employer.VerificationStatus = model.VerificationVerified
	employer.UpdatedAt = time.Now()

	if err := m.employerRepo.Save(ctx, employer); err != nil {
		return nil, fmt.Errorf("failed to save employer: %w", err)
	}

	return employer, nil
}

// Deactivate 停用雇主
func (m *dbEmployerManager) Deactivate(ctx context.Context, id string) (*model.EmployerModel, error) {
	employer, err := m.employerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get employer: %w", err)
	}

	employer.IsActive = false
	employer.UpdatedAt = time.Now()

	if err := m.employerRepo.Save(ctx, employer); err != nil {
		return nil, fmt.Errorf("failed to save employer: %w", err)
	}

	return employer, nil
}

// generateEmployerID 生成雇主 ID
func generateEmployerID() string {
	return "emp-" + uuid.New().String()
}
