package service

import (
	"context"
	"time"

	"github.com/remotehive/jobboard-gin/internal/auth"
	"github.com/remotehive/jobboard-gin/internal/integration"
	"github.com/remotehive/jobboard-gin/internal/metrics"
	"github.com/remotehive/jobboard-gin/internal/repository"
	"github.com/remotehive/jobboard-gin/internal/workflow"
	"github.com/sirupsen/logrus"
)

// SweepSummary 扫描结果汇总
// @Description 定时扫描的结果汇总
type SweepSummary struct {
	Expired   int `json:"expired"`   // 本次标记过期的职位数
	Published int `json:"published"` // 本次定时上线的职位数
	Failures  int `json:"failures"`  // 处理失败的职位数
}

// SchedulerService 定时扫描服务
// 周期性执行两类扫描:过期时间已到的职位标记为 expired,
// 计划上线时间已到的 approved 职位发布为 active
type SchedulerService struct {
	postMgr  integration.PostManager
	postRepo repository.JobPostRepository
	interval time.Duration
	stopChan chan struct{}
}

// NewSchedulerService 创建定时扫描服务
func NewSchedulerService(postMgr integration.PostManager, postRepo repository.JobPostRepository, interval time.Duration) *SchedulerService {
	if interval <= 0 {
		interval = 60 * time.Second
	}
	return &SchedulerService{
		postMgr:  postMgr,
		postRepo: postRepo,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Start 启动扫描循环
func (s *SchedulerService) Start(ctx context.Context) error {
	go s.scheduleSweep(ctx)
	return nil
}

// Stop 停止扫描循环
func (s *SchedulerService) Stop() {
	close(s.stopChan)
}

// scheduleSweep 调度周期扫描
func (s *SchedulerService) scheduleSweep(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// 启动后立即执行一次
	s.sweepOnce(ctx)

	for {
		select {
		case <-ticker.C:
			s.sweepOnce(ctx)
		case <-s.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}

// sweepOnce 执行一次扫描并记录结果
func (s *SchedulerService) sweepOnce(ctx context.Context) {
	summary, err := s.RunSweep(ctx, time.Now())
	if err != nil {
		logrus.WithError(err).Error("Scheduled sweep failed")
		return
	}
	if summary.Expired > 0 || summary.Published > 0 || summary.Failures > 0 {
		logrus.WithFields(logrus.Fields{
			"expired":   summary.Expired,
			"published": summary.Published,
			"failures":  summary.Failures,
		}).Info("Scheduled sweep finished")
	}
}

// RunSweep 执行一次完整扫描
// 每个条目独立处理,单条失败不影响其他条目;重复执行是幂等的,
// 已经过期或已上线的职位不会再次被扫描命中
func (s *SchedulerService) RunSweep(ctx context.Context, now time.Time) (*SweepSummary, error) {
	summary := &SweepSummary{}

	// 1. 过期扫描
	expirable, err := s.postRepo.FindExpirable(ctx, now)
	if err != nil {
		return nil, err
	}
	for _, post := range expirable {
		// 过期判定与筛选使用同一个 now,避免筛选命中后再被守卫拒绝
		if _, err := s.postMgr.TransitionAt(ctx, post.ID, workflow.EventExpire, auth.SystemActor(), "", now); err != nil {
			// 并发冲突说明状态已被他处修改,下一轮扫描会重新评估
			summary.Failures++
			metrics.RecordSweepItem("expire", "error")
			logrus.WithError(err).WithField("job_post_id", post.ID).Warn("Failed to expire job post")
			continue
		}
		summary.Expired++
		metrics.RecordSweepItem("expire", "success")
	}

	// 2. 定时上线扫描
	publishable, err := s.postRepo.FindPublishable(ctx, now)
	if err != nil {
		return nil, err
	}
	for _, post := range publishable {
		if _, err := s.postMgr.TransitionAt(ctx, post.ID, workflow.EventPublish, auth.SystemActor(), "", now); err != nil {
			summary.Failures++
			metrics.RecordSweepItem("publish", "error")
			logrus.WithError(err).WithField("job_post_id", post.ID).Warn("Failed to publish job post")
			continue
		}
		summary.Published++
		metrics.RecordSweepItem("publish", "success")
	}

	return summary, nil
}
