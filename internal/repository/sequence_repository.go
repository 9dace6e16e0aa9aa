package repository

import (
	"context"
	"errors"
	"time"

	"github.com/remotehive/jobboard-gin/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SequenceRepository 序列计数器仓储接口
type SequenceRepository interface {
	// Next 原子自增并返回序列的下一个值
	// 并发调用被数据库行锁串行化,两个并发调用永远不会得到相同的值
	Next(ctx context.Context, name string) (int64, error)
	Current(ctx context.Context, name string) (int64, error)
}

// sequenceRepository 序列计数器仓储实现
type sequenceRepository struct {
	db *gorm.DB
}

// NewSequenceRepository 创建序列计数器仓储
func NewSequenceRepository(db *gorm.DB) SequenceRepository {
	return &sequenceRepository{db: db}
}

// Next 原子自增并返回下一个值
// 自增用 UPDATE value = value + 1 持有行锁,并发调用被数据库串行化;
// 序列行在首次使用时创建,并发首次创建由主键冲突兜底,失败方改走自增路径
func (r *sequenceRepository) Next(ctx context.Context, name string) (int64, error) {
	var next int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		increment := func() (int64, error) {
			res := tx.Model(&model.SequenceModel{}).
				Where("name = ?", name).
				Updates(map[string]interface{}{
					"value":      gorm.Expr("value + 1"),
					"updated_at": time.Now(),
				})
			return res.RowsAffected, res.Error
		}

		affected, err := increment()
		if err != nil {
			return err
		}
		if affected == 0 {
			seq := model.SequenceModel{Name: name, Value: 0, UpdatedAt: time.Now()}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seq).Error; err != nil {
				return err
			}
			if _, err := increment(); err != nil {
				return err
			}
		}

		var seq model.SequenceModel
		if err := tx.Where("name = ?", name).First(&seq).Error; err != nil {
			return err
		}
		next = seq.Value
		return nil
	})
	if err != nil {
		return 0, wrapStoreErr(err)
	}

	return next, nil
}

// Current 读取序列当前值,序列不存在时返回 0
func (r *sequenceRepository) Current(ctx context.Context, name string) (int64, error) {
	var seq model.SequenceModel
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&seq).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, wrapStoreErr(err)
	}
	return seq.Value, nil
}
