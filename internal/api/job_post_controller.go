package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/remotehive/jobboard-gin/internal/service"
	"github.com/remotehive/jobboard-gin/internal/utils"
	"github.com/remotehive/jobboard-gin/internal/workflow"
)

// JobPostController 职位控制器
type JobPostController struct {
	jobPostService service.JobPostService
}

// NewJobPostController 创建职位控制器
func NewJobPostController(jobPostService service.JobPostService) *JobPostController {
	return &JobPostController{
		jobPostService: jobPostService,
	}
}

// validateJobPostID 验证职位 ID 并返回错误响应（如果无效）
func (c *JobPostController) validateJobPostID(ctx *gin.Context, id string) bool {
	if err := utils.ValidateJobPostID(id); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid job post ID", err.Error())
		return false
	}
	return true
}

// Create 创建职位
// @Summary      创建职位
// @Description  创建新职位,初始状态为 draft
// @Tags         职位管理
// @Accept       json
// @Produce      json
// @Param        request body service.CreateJobPostRequest true "职位信息"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /job-posts [post]
// @Security     BearerAuth
func (c *JobPostController) Create(ctx *gin.Context) {
	var req service.CreateJobPostRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	post, err := c.jobPostService.Create(ctx.Request.Context(), &req)
	if err != nil {
		HandleWorkflowError(ctx, err, "create job post")
		return
	}

	Success(ctx, post)
}

// Get 获取职位
// @Summary      获取职位详情
// @Description  根据 ID 获取职位详情
// @Tags         职位管理
// @Accept       json
// @Produce      json
// @Param        id path string true "职位 ID"
// @Success      200  {object}  Response
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /job-posts/{id} [get]
// @Security     BearerAuth
func (c *JobPostController) Get(ctx *gin.Context) {
	id := ctx.Param("id")
	if !c.validateJobPostID(ctx, id) {
		return
	}

	post, err := c.jobPostService.Get(ctx.Request.Context(), id)
	if err != nil {
		Error(ctx, http.StatusNotFound, "job post not found", err.Error())
		return
	}

	Success(ctx, post)
}

// UpdateContent 更新职位内容
// @Summary      更新职位内容
// @Description  更新职位的描述性字段,终态职位不可更新
// @Tags         职位管理
// @Accept       json
// @Produce      json
// @Param        id path string true "职位 ID"
// @Param        request body service.UpdateContentRequest true "更新内容"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /job-posts/{id} [put]
// @Security     BearerAuth
func (c *JobPostController) UpdateContent(ctx *gin.Context) {
	id := ctx.Param("id")
	if !c.validateJobPostID(ctx, id) {
		return
	}

	var req service.UpdateContentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	post, err := c.jobPostService.UpdateContent(ctx.Request.Context(), id, &req)
	if err != nil {
		HandleWorkflowError(ctx, err, "update job post")
		return
	}

	Success(ctx, post)
}

// transition 执行指定事件的状态转换
func (c *JobPostController) transition(ctx *gin.Context, event workflow.Event) {
	id := ctx.Param("id")
	if !c.validateJobPostID(ctx, id) {
		return
	}

	// 转换请求体可为空
	var req service.TransitionRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
			return
		}
	}

	post, err := c.jobPostService.Transition(ctx.Request.Context(), id, event, &req)
	if err != nil {
		HandleWorkflowError(ctx, err, string(event)+" job post")
		return
	}

	Success(ctx, post)
}

// Submit 提交审核
// @Summary      提交职位审核
// @Description  将 draft 状态的职位提交审核
// @Tags         职位管理
// @Accept       json
// @Produce      json
// @Param        id path string true "职位 ID"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Failure      422  {object}  ErrorResponse
// @Router       /job-posts/{id}/submit [post]
// @Security     BearerAuth
func (c *JobPostController) Submit(ctx *gin.Context) {
	c.transition(ctx, workflow.EventSubmit)
}

// Approve 审核通过
// @Summary      审核通过
// @Description  通过待审核职位,auto_publish 职位直接上线
// @Tags         职位管理
// @Accept       json
// @Produce      json
// @Param        id path string true "职位 ID"
// @Param        request body service.TransitionRequest false "审核信息"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Failure      422  {object}  ErrorResponse
// @Router       /job-posts/{id}/approve [post]
// @Security     BearerAuth
func (c *JobPostController) Approve(ctx *gin.Context) {
	c.transition(ctx, workflow.EventApprove)
}

// Reject 审核拒绝
// @Summary      审核拒绝
// @Description  拒绝待审核职位,必须提供拒绝原因
// @Tags         职位管理
// @Accept       json
// @Produce      json
// @Param        id path string true "职位 ID"
// @Param        request body service.TransitionRequest true "拒绝原因"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Failure      422  {object}  ErrorResponse
// @Router       /job-posts/{id}/reject [post]
// @Security     BearerAuth
func (c *JobPostController) Reject(ctx *gin.Context) {
	c.transition(ctx, workflow.EventReject)
}

// Publish 发布职位
// @Summary      发布职位
// @Description  将已审核职位发布上线
// @Tags         职位管理
// @Router       /job-posts/{id}/publish [post]
// @Security     BearerAuth
func (c *JobPostController) Publish(ctx *gin.Context) {
	c.transition(ctx, workflow.EventPublish)
}

// Pause 暂停职位
// @Summary      暂停职位
// @Description  暂停已上线职位
// @Tags         职位管理
// @Router       /job-posts/{id}/pause [post]
// @Security     BearerAuth
func (c *JobPostController) Pause(ctx *gin.Context) {
	c.transition(ctx, workflow.EventPause)
}

// Resume 恢复职位
// @Summary      恢复职位
// @Description  恢复已暂停职位到上线状态
// @Tags         职位管理
// @Router       /job-posts/{id}/resume [post]
// @Security     BearerAuth
func (c *JobPostController) Resume(ctx *gin.Context) {
	c.transition(ctx, workflow.EventResume)
}

// Close 关闭职位
// @Summary      关闭职位
// @Description  关闭职位,进入终态
// @Tags         职位管理
// @Router       /job-posts/{id}/close [post]
// @Security     BearerAuth
func (c *JobPostController) Close(ctx *gin.Context) {
	c.transition(ctx, workflow.EventClose)
}

// MarkFilled 标记招满
// @Summary      标记职位已招满
// @Description  标记职位已招满,进入终态
// @Tags         职位管理
// @Router       /job-posts/{id}/fill [post]
// @Security     BearerAuth
func (c *JobPostController) MarkFilled(ctx *gin.Context) {
	c.transition(ctx, workflow.EventMarkFilled)
}

// Restore 恢复终态职位到草稿
// @Summary      恢复职位到草稿
// @Description  管理操作,把终态职位恢复到 draft 并清除转换元数据
// @Tags         职位管理
// @Accept       json
// @Produce      json
// @Param        id path string true "职位 ID"
// @Param        request body service.RestoreRequest false "恢复原因"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      422  {object}  ErrorResponse
// @Router       /job-posts/{id}/restore [post]
// @Security     BearerAuth
func (c *JobPostController) Restore(ctx *gin.Context) {
	id := ctx.Param("id")
	if !c.validateJobPostID(ctx, id) {
		return
	}

	var req service.RestoreRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
			return
		}
	}

	post, err := c.jobPostService.RestoreToDraft(ctx.Request.Context(), id, &req)
	if err != nil {
		HandleWorkflowError(ctx, err, "restore job post")
		return
	}

	Success(ctx, post)
}

// SetFacet 设置标记位
// @Summary      设置职位标记位
// @Description  设置 flagged/urgent/featured 标记位,与工作流状态无关
// @Tags         职位管理
// @Accept       json
// @Produce      json
// @Param        id path string true "职位 ID"
// @Param        request body service.SetFacetRequest true "标记位信息"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /job-posts/{id}/facets [put]
// @Security     BearerAuth
func (c *JobPostController) SetFacet(ctx *gin.Context) {
	id := ctx.Param("id")
	if !c.validateJobPostID(ctx, id) {
		return
	}

	var req service.SetFacetRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	post, err := c.jobPostService.SetFacet(ctx.Request.Context(), id, &req)
	if err != nil {
		HandleWorkflowError(ctx, err, "set facet")
		return
	}

	Success(ctx, post)
}

// BulkTransition 批量状态转换
// @Summary      批量状态转换
// @Description  对一组职位执行同一事件,逐条返回结果,单条失败不影响其他条目
// @Tags         职位管理
// @Accept       json
// @Produce      json
// @Param        request body service.BulkTransitionRequest true "批量转换信息"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Router       /job-posts/bulk-transition [post]
// @Security     BearerAuth
func (c *JobPostController) BulkTransition(ctx *gin.Context) {
	var req service.BulkTransitionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	result, err := c.jobPostService.BulkTransition(ctx.Request.Context(), &req)
	if err != nil {
		HandleWorkflowError(ctx, err, "bulk transition")
		return
	}

	Success(ctx, result)
}
