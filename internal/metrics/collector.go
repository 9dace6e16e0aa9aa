package metrics

import (
	"context"
	"time"

	"github.com/remotehive/jobboard-gin/internal/model"
	"gorm.io/gorm"
)

// Collector 指标收集器
// 定期采集数据库连接数与职位状态分布
type Collector struct {
	db       *gorm.DB
	interval time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewCollector 创建指标收集器
func NewCollector(db *gorm.DB, interval time.Duration) *Collector {
	ctx, cancel := context.WithCancel(context.Background())
	return &Collector{
		db:       db,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
}

// Start 启动指标收集器
func (c *Collector) Start() {
	go c.collect()
}

// Stop 停止指标收集器
func (c *Collector) Stop() {
	c.cancel()
	<-c.done
}

// collect 定期收集指标
func (c *Collector) collect() {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	defer close(c.done)

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			// 更新数据库连接数指标
			_ = UpdateDatabaseConnections(c.db)
			// 更新职位状态分布指标
			c.collectJobPostsByStatus()
		}
	}
}

// collectJobPostsByStatus 采集职位状态分布
func (c *Collector) collectJobPostsByStatus() {
	type statusCount struct {
		Status string
		Count  int64
	}

	var rows []statusCount
	if err := c.db.Model(&model.JobPostModel{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&rows).Error; err != nil {
		return
	}

	for _, row := range rows {
		UpdateJobPostsByStatus(row.Status, float64(row.Count))
	}
}
