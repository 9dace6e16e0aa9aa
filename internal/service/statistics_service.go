package service

import (
	"fmt"

	"github.com/remotehive/jobboard-gin/internal/model"
	"github.com/remotehive/jobboard-gin/internal/workflow"
	"gorm.io/gorm"
)

// StatisticsService 统计服务接口
type StatisticsService interface {
	GetJobPostStatisticsByStatus() ([]*JobPostStatisticsByStatus, error)
	GetJobPostStatisticsByEmployer() ([]*JobPostStatisticsByEmployer, error)
	GetJobPostStatisticsByTime() ([]*JobPostStatisticsByTime, error)
	GetReviewStatistics() (*ReviewStatistics, error)
}

// JobPostStatisticsByStatus 按状态统计
type JobPostStatisticsByStatus struct {
	Status string
	Count  int64
}

// JobPostStatisticsByEmployer 按雇主统计
type JobPostStatisticsByEmployer struct {
	EmployerID     string
	EmployerNumber string
	EmployerName   string
	Count          int64
}

// JobPostStatisticsByTime 按时间统计
type JobPostStatisticsByTime struct {
	Date  string
	Count int64
}

// ReviewStatistics 审核统计
type ReviewStatistics struct {
	TotalReviews  int64
	ApprovedCount int64
	RejectedCount int64
	ApprovalRate  float64
}

// statisticsService 统计服务实现
type statisticsService struct {
	db *gorm.DB
}

// NewStatisticsService 创建统计服务
func NewStatisticsService(db *gorm.DB) StatisticsService {
	return &statisticsService{db: db}
}

// GetJobPostStatisticsByStatus 按状态统计职位
func (s *statisticsService) GetJobPostStatisticsByStatus() ([]*JobPostStatisticsByStatus, error) {
	var results []struct {
		Status string
		Count  int64
	}

	err := s.db.Model(&model.JobPostModel{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&results).Error

	if err != nil {
		return nil, fmt.Errorf("failed to get job post statistics by status: %w", err)
	}

	stats := make([]*JobPostStatisticsByStatus, 0, len(results))
	for _, r := range results {
		stats = append(stats, &JobPostStatisticsByStatus{
			Status: r.Status,
			Count:  r.Count,
		})
	}

	return stats, nil
}

// GetJobPostStatisticsByEmployer 按雇主统计职位
func (s *statisticsService) GetJobPostStatisticsByEmployer() ([]*JobPostStatisticsByEmployer, error) {
	var results []struct {
		EmployerID string
		Count      int64
	}

	err := s.db.Model(&model.JobPostModel{}).
		Select("employer_id, COUNT(*) as count").
		Group("employer_id").
		Scan(&results).Error

	if err != nil {
		return nil, fmt.Errorf("failed to get job post statistics by employer: %w", err)
	}

	// 获取雇主名称与编号
	stats := make([]*JobPostStatisticsByEmployer, 0, len(results))
	for _, r := range results {
		var employer model.EmployerModel
		if err := s.db.Where("id = ?", r.EmployerID).First(&employer).Error; err == nil {
			stats = append(stats, &JobPostStatisticsByEmployer{
				EmployerID:     r.EmployerID,
				EmployerNumber: employer.EmployerNumber,
				EmployerName:   employer.Name,
				Count:          r.Count,
			})
		} else {
			stats = append(stats, &JobPostStatisticsByEmployer{
				EmployerID:   r.EmployerID,
				EmployerName: "unknown",
				Count:        r.Count,
			})
		}
	}

	return stats, nil
}

// GetJobPostStatisticsByTime 按时间统计职位
func (s *statisticsService) GetJobPostStatisticsByTime() ([]*JobPostStatisticsByTime, error) {
	var results []struct {
		Date  string
		Count int64
	}

	err := s.db.Model(&model.JobPostModel{}).
		Select("DATE(created_at) as date, COUNT(*) as count").
		Group("DATE(created_at)").
		Order("date DESC").
		Scan(&results).Error

	if err != nil {
		return nil, fmt.Errorf("failed to get job post statistics by time: %w", err)
	}

	stats := make([]*JobPostStatisticsByTime, 0, len(results))
	for _, r := range results {
		stats = append(stats, &JobPostStatisticsByTime{
			Date:  r.Date,
			Count: r.Count,
		})
	}

	return stats, nil
}

// GetReviewStatistics 获取审核统计
// 基于工作流日志统计 approve/reject 事件的占比
func (s *statisticsService) GetReviewStatistics() (*ReviewStatistics, error) {
	var approvedCount int64
	err := s.db.Model(&model.WorkflowLogModel{}).
		Where("from_status = ? AND to_status IN ?",
			string(workflow.StatusPendingApproval),
			[]string{string(workflow.StatusApproved), string(workflow.StatusActive)}).
		Count(&approvedCount).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count approvals: %w", err)
	}

	var rejectedCount int64
	err = s.db.Model(&model.WorkflowLogModel{}).
		Where("from_status = ? AND to_status = ?",
			string(workflow.StatusPendingApproval),
			string(workflow.StatusRejected)).
		Count(&rejectedCount).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count rejections: %w", err)
	}

	totalCount := approvedCount + rejectedCount
	approvalRate := 0.0
	if totalCount > 0 {
		approvalRate = float64(approvedCount) / float64(totalCount) * 100
	}

	return &ReviewStatistics{
		TotalReviews:  totalCount,
		ApprovedCount: approvedCount,
		RejectedCount: rejectedCount,
		ApprovalRate:  approvalRate,
	}, nil
}
