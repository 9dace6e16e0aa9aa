package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/remotehive/jobboard-gin/internal/service"
	"github.com/remotehive/jobboard-gin/internal/utils"
)

// EmployerController 雇主控制器
type EmployerController struct {
	employerService service.EmployerService
}

// NewEmployerController 创建雇主控制器
func NewEmployerController(employerService service.EmployerService) *EmployerController {
	return &EmployerController{
		employerService: employerService,
	}
}

// validateEmployerID 验证雇主 ID 并返回错误响应（如果无效）
func (c *EmployerController) validateEmployerID(ctx *gin.Context, id string) bool {
	if err := utils.ValidateEmployerID(id); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid employer ID", err.Error())
		return false
	}
	return true
}

// Create 创建雇主
// @Summary      创建雇主
// @Description  创建新雇主,同步分配雇主编号
// @Tags         雇主管理
// @Accept       json
// @Produce      json
// @Param        request body service.CreateEmployerRequest true "雇主信息"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /employers [post]
// @Security     BearerAuth
func (c *EmployerController) Create(ctx *gin.Context) {
	var req service.CreateEmployerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	employer, err := c.employerService.Create(ctx.Request.Context(), &req)
	if err != nil {
		HandleWorkflowError(ctx, err, "create employer")
		return
	}

	Success(ctx, employer)
}

// Get 获取雇主
// @Summary      获取雇主详情
// @Description  根据 ID 获取雇主详情
// @Tags         雇主管理
// @Accept       json
// @Produce      json
// @Param        id path string true "雇主 ID"
// @Success      200  {object}  Response
// @Failure      404  {object}  ErrorResponse
// @Router       /employers/{id} [get]
// @Security     BearerAuth
func (c *EmployerController) Get(ctx *gin.Context) {
	id := ctx.Param("id")
	if !c.validateEmployerID(ctx, id) {
		return
	}

	employer, err := c.employerService.Get(ctx.Request.Context(), id)
	if err != nil {
		Error(ctx, http.StatusNotFound, "employer not found", err.Error())
		return
	}

	Success(ctx, employer)
}

// Update 更新雇主
// @Summary      更新雇主信息
// @Description  更新雇主描述属性,雇主编号不可变更
// @Tags         雇主管理
// @Accept       json
// @Produce      json
// @Param        id path string true "雇主 ID"
// @Param        request body service.UpdateEmployerRequest true "更新内容"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /employers/{id} [put]
// @Security     BearerAuth
func (c *EmployerController) Update(ctx *gin.Context) {
	id := ctx.Param("id")
	if !c.validateEmployerID(ctx, id) {
		return
	}

	var req service.UpdateEmployerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	employer, err := c.employerService.Update(ctx.Request.Context(), id, &req)
	if err != nil {
		HandleWorkflowError(ctx, err, "update employer")
		return
	}

	Success(ctx, employer)
}

// Verify 认证雇主
// @Summary      认证雇主
// @Description  将雇主标记为已认证
// @Tags         雇主管理
// @Accept       json
// @Produce      json
// @Param        id path string true "雇主 ID"
// @Success      200  {object}  Response
// @Failure      404  {object}  ErrorResponse
// @Router       /employers/{id}/verify [post]
// @Security     BearerAuth
func (c *EmployerController) Verify(ctx *gin.Context) {
	id := ctx.Param("id")
	if !c.validateEmployerID(ctx, id) {
		return
	}

	employer, err := c.employerService.Verify(ctx.Request.Context(), id)
	if err != nil {
		HandleWorkflowError(ctx, err, "verify employer")
		return
	}

	Success(ctx, employer)
}

// Deactivate 停用雇主
// @Summary      停用雇主
// @Description  停用雇主,雇主从不删除
// @Tags         雇主管理
// @Accept       json
// @Produce      json
// @Param        id path string true "雇主 ID"
// @Success      200  {object}  Response
// @Failure      404  {object}  ErrorResponse
// @Router       /employers/{id}/deactivate [post]
// @Security     BearerAuth
func (c *EmployerController) Deactivate(ctx *gin.Context) {
	id := ctx.Param("id")
	if !c.validateEmployerID(ctx, id) {
		return
	}

	employer, err := c.employerService.Deactivate(ctx.Request.Context(), id)
	if err != nil {
		HandleWorkflowError(ctx, err, "deactivate employer")
		return
	}

	Success(ctx, employer)
}
