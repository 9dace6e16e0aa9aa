package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/remotehive/jobboard-gin/internal/service"
)

// StatisticsController 统计控制器
type StatisticsController struct {
	statisticsService service.StatisticsService
}

// NewStatisticsController 创建统计控制器
func NewStatisticsController(statisticsService service.StatisticsService) *StatisticsController {
	return &StatisticsController{
		statisticsService: statisticsService,
	}
}

// ByStatus 按状态统计职位
// @Summary      按状态统计职位
// @Description  返回每个工作流状态下的职位数量
// @Tags         查询统计
// @Produce      json
// @Success      200  {object}  Response
// @Failure      500  {object}  ErrorResponse
// @Router       /statistics/job-posts/by-status [get]
// @Security     BearerAuth
func (c *StatisticsController) ByStatus(ctx *gin.Context) {
	stats, err := c.statisticsService.GetJobPostStatisticsByStatus()
	if err != nil {
		Error(ctx, http.StatusInternalServerError, "failed to get statistics", err.Error())
		return
	}

	Success(ctx, stats)
}

// ByEmployer 按雇主统计职位
// @Summary      按雇主统计职位
// @Description  返回每个雇主的职位数量
// @Tags         查询统计
// @Produce      json
// @Success      200  {object}  Response
// @Failure      500  {object}  ErrorResponse
// @Router       /statistics/job-posts/by-employer [get]
// @Security     BearerAuth
func (c *StatisticsController) ByEmployer(ctx *gin.Context) {
	stats, err := c.statisticsService.GetJobPostStatisticsByEmployer()
	if err != nil {
		Error(ctx, http.StatusInternalServerError, "failed to get statistics", err.Error())
		return
	}

	Success(ctx, stats)
}

// ByTime 按时间统计职位
// @Summary      按时间统计职位
// @Description  返回每天创建的职位数量
// @Tags         查询统计
// @Produce      json
// @Success      200  {object}  Response
// @Failure      500  {object}  ErrorResponse
// @Router       /statistics/job-posts/by-time [get]
// @Security     BearerAuth
func (c *StatisticsController) ByTime(ctx *gin.Context) {
	stats, err := c.statisticsService.GetJobPostStatisticsByTime()
	if err != nil {
		Error(ctx, http.StatusInternalServerError, "failed to get statistics", err.Error())
		return
	}

	Success(ctx, stats)
}

// Reviews 审核统计
// @Summary      审核统计
// @Description  返回审核通过与拒绝的数量与通过率
// @Tags         查询统计
// @Produce      json
// @Success      200  {object}  Response
// @Failure      500  {object}  ErrorResponse
// @Router       /statistics/reviews [get]
// @Security     BearerAuth
func (c *StatisticsController) Reviews(ctx *gin.Context) {
	stats, err := c.statisticsService.GetReviewStatistics()
	if err != nil {
		Error(ctx, http.StatusInternalServerError, "failed to get statistics", err.Error())
		return
	}

	Success(ctx, stats)
}
