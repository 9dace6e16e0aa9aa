package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/remotehive/jobboard-gin/internal/service"
)

// SchedulerController 定时扫描控制器
type SchedulerController struct {
	schedulerService *service.SchedulerService
}

// NewSchedulerController 创建定时扫描控制器
func NewSchedulerController(schedulerService *service.SchedulerService) *SchedulerController {
	return &SchedulerController{
		schedulerService: schedulerService,
	}
}

// TriggerSweep 手动触发一次扫描
// @Summary      触发扫描
// @Description  立即执行一次过期与定时上线扫描,返回处理汇总
// @Tags         运维管理
// @Produce      json
// @Success      200  {object}  Response
// @Failure      500  {object}  ErrorResponse
// @Router       /scheduler/sweep [post]
// @Security     BearerAuth
func (c *SchedulerController) TriggerSweep(ctx *gin.Context) {
	summary, err := c.schedulerService.RunSweep(ctx.Request.Context(), time.Now())
	if err != nil {
		Error(ctx, http.StatusInternalServerError, "failed to run sweep", err.Error())
		return
	}

	Success(ctx, summary)
}
