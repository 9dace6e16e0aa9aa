package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/remotehive/jobboard-gin/internal/service"
	"github.com/remotehive/jobboard-gin/internal/utils"
)

// QueryController 查询控制器
type QueryController struct {
	queryService service.QueryService
}

// NewQueryController 创建查询控制器
func NewQueryController(queryService service.QueryService) *QueryController {
	return &QueryController{
		queryService: queryService,
	}
}

// ListJobPosts 列出职位
// @Summary      获取职位列表
// @Description  分页获取职位列表,支持多条件查询、排序
// @Tags         查询统计
// @Accept       json
// @Produce      json
// @Param        employer_id query string false "雇主 ID"
// @Param        status query string false "职位状态"
// @Param        is_flagged query bool false "是否被举报标记"
// @Param        is_urgent query bool false "是否急聘"
// @Param        is_featured query bool false "是否精选"
// @Param        created_at_start query string false "创建时间起始"
// @Param        created_at_end query string false "创建时间结束"
// @Param        page query int false "页码" default(1)
// @Param        page_size query int false "每页数量" default(20)
// @Param        sort_by query string false "排序字段" default(created_at)
// @Param        order query string false "排序方向" Enums(asc, desc) default(desc)
// @Success      200  {object}  PaginatedResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /job-posts [get]
// @Security     BearerAuth
func (c *QueryController) ListJobPosts(ctx *gin.Context) {
	var filter service.ListJobPostsFilter

	if employerID := ctx.Query("employer_id"); employerID != "" {
		filter.EmployerID = &employerID
	}
	if status := ctx.Query("status"); status != "" {
		filter.Status = &status
	}
	if flagged := ctx.Query("is_flagged"); flagged != "" {
		value := flagged == "true"
		filter.IsFlagged = &value
	}
	if urgent := ctx.Query("is_urgent"); urgent != "" {
		value := urgent == "true"
		filter.IsUrgent = &value
	}
	if featured := ctx.Query("is_featured"); featured != "" {
		value := featured == "true"
		filter.IsFeatured = &value
	}
	if start := ctx.Query("created_at_start"); start != "" {
		filter.StartTime = &start
	}
	if end := ctx.Query("created_at_end"); end != "" {
		filter.EndTime = &end
	}

	filter.SortBy = ctx.DefaultQuery("sort_by", "created_at")
	filter.Order = ctx.DefaultQuery("order", "desc")
	filter.Page, _ = strconv.Atoi(ctx.DefaultQuery("page", "1"))
	filter.PageSize, _ = strconv.Atoi(ctx.DefaultQuery("page_size", "20"))

	// 设置默认值
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	posts, total, err := c.queryService.ListJobPosts(ctx.Request.Context(), &filter)
	if err != nil {
		Error(ctx, http.StatusInternalServerError, "failed to list job posts", err.Error())
		return
	}

	// 计算总页数
	totalPage := int((total + int64(filter.PageSize) - 1) / int64(filter.PageSize))

	Paginated(ctx, posts, PaginationInfo{
		Page:      filter.Page,
		PageSize:  filter.PageSize,
		Total:     total,
		TotalPage: totalPage,
	})
}

// GetHistory 获取职位工作流历史
// @Summary      获取职位工作流历史
// @Description  按发生时间升序返回职位的全部状态转换记录
// @Tags         查询统计
// @Accept       json
// @Produce      json
// @Param        id path string true "职位 ID"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /job-posts/{id}/history [get]
// @Security     BearerAuth
func (c *QueryController) GetHistory(ctx *gin.Context) {
	jobPostID := ctx.Param("id")
	if err := utils.ValidateJobPostID(jobPostID); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid job post ID", err.Error())
		return
	}

	history, err := c.queryService.GetHistory(ctx.Request.Context(), jobPostID)
	if err != nil {
		Error(ctx, http.StatusInternalServerError, "failed to get history", err.Error())
		return
	}

	Success(ctx, history)
}

// ListEmployers 列出雇主
// @Summary      获取雇主列表
// @Description  分页获取雇主列表,支持认证状态、行业与启用状态过滤
// @Tags         查询统计
// @Accept       json
// @Produce      json
// @Param        verification_status query string false "认证状态"
// @Param        industry query string false "行业"
// @Param        is_active query bool false "是否启用"
// @Param        page query int false "页码" default(1)
// @Param        page_size query int false "每页数量" default(20)
// @Success      200  {object}  PaginatedResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /employers [get]
// @Security     BearerAuth
func (c *QueryController) ListEmployers(ctx *gin.Context) {
	var filter service.ListEmployersFilter

	if status := ctx.Query("verification_status"); status != "" {
		filter.VerificationStatus = &status
	}
	if industry := ctx.Query("industry"); industry != "" {
		filter.Industry = &industry
	}
	if active := ctx.Query("is_active"); active != "" {
		value := active == "true"
		filter.IsActive = &value
	}

	filter.Page, _ = strconv.Atoi(ctx.DefaultQuery("page", "1"))
	filter.PageSize, _ = strconv.Atoi(ctx.DefaultQuery("page_size", "20"))

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	employers, total, err := c.queryService.ListEmployers(ctx.Request.Context(), &filter)
	if err != nil {
		Error(ctx, http.StatusInternalServerError, "failed to list employers", err.Error())
		return
	}

	totalPage := int((total + int64(filter.PageSize) - 1) / int64(filter.PageSize))

	Paginated(ctx, employers, PaginationInfo{
		Page:      filter.Page,
		PageSize:  filter.PageSize,
		Total:     total,
		TotalPage: totalPage,
	})
}
