package repository

import (
	"context"

	"github.com/remotehive/jobboard-gin/internal/model"
	"gorm.io/gorm"
)

// EmployerRepository 雇主仓储接口
type EmployerRepository interface {
	Save(ctx context.Context, employer *model.EmployerModel) error
	FindByID(ctx context.Context, id string) (*model.EmployerModel, error)
	FindByNumber(ctx context.Context, number string) (*model.EmployerModel, error)
	FindByFilter(ctx context.Context, filter *EmployerFilter) ([]*model.EmployerModel, error)
	Exists(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (int64, error)
}

// EmployerFilter 雇主查询过滤器
type EmployerFilter struct {
	VerificationStatus *string
	Industry           *string
	IsActive           *bool
}

// employerRepository 雇主仓储实现
type employerRepository struct {
	db *gorm.DB
}

// NewEmployerRepository 创建雇主仓储
func NewEmployerRepository(db *gorm.DB) EmployerRepository {
	return &employerRepository{db: db}
}

// Save 保存雇主
func (r *employerRepository) Save(ctx context.Context, employer *model.EmployerModel) error {
	return wrapStoreErr(r.db.WithContext(ctx).Save(employer).Error)
}

// FindByID 根据 ID 查找雇主
func (r *employerRepository) FindByID(ctx context.Context, id string) (*model.EmployerModel, error) {
	var employer model.EmployerModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&employer).Error; err != nil {
		return nil, wrapStoreErr(err)
	}
	return &employer, nil
}

// FindByNumber 根据雇主编号查找雇主
func (r *employerRepository) FindByNumber(ctx context.Context, number string) (*model.EmployerModel, error) {
	var employer model.EmployerModel
	if err := r.db.WithContext(ctx).Where("employer_number = ?", number).First(&employer).Error; err != nil {
		return nil, wrapStoreErr(err)
	}
	return &employer, nil
}

// FindByFilter 根据过滤器查找雇主
func (r *employerRepository) FindByFilter(ctx context.Context, filter *EmployerFilter) ([]*model.EmployerModel, error) {
	var employers []*model.EmployerModel
	query := r.db.WithContext(ctx).Model(&model.EmployerModel{})

	if filter != nil {
		if filter.VerificationStatus != nil {
			query = query.Where("verification_status = ?", *filter.VerificationStatus)
		}
		if filter.Industry != nil {
			query = query.Where("industry = ?", *filter.Industry)
		}
		if filter.IsActive != nil {
			query = query.Where("is_active = ?", *filter.IsActive)
		}
	}

	err := query.Order("created_at DESC").Find(&employers).Error
	return employers, wrapStoreErr(err)
}

// Exists 判断雇主是否存在
func (r *employerRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.EmployerModel{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, wrapStoreErr(err)
	}
	return count > 0, nil
}

// Count 统计雇主总数
func (r *employerRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.EmployerModel{}).Count(&count).Error
	return count, wrapStoreErr(err)
}
