package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/remotehive/jobboard-gin/internal/service"
)

// ArchiveController 归档控制器
type ArchiveController struct {
	archiveService *service.ArchiveService
}

// NewArchiveController 创建归档控制器
func NewArchiveController(archiveService *service.ArchiveService) *ArchiveController {
	return &ArchiveController{
		archiveService: archiveService,
	}
}

// Create 创建归档
// @Summary      创建归档
// @Description  导出终态职位及其工作流日志为归档文件
// @Tags         运维管理
// @Accept       json
// @Produce      json
// @Param        before query string false "归档截止时间(RFC3339),默认当前时间"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /archives [post]
// @Security     BearerAuth
func (c *ArchiveController) Create(ctx *gin.Context) {
	before := time.Now()
	if beforeStr := ctx.Query("before"); beforeStr != "" {
		parsed, err := time.Parse(time.RFC3339, beforeStr)
		if err != nil {
			Error(ctx, http.StatusBadRequest, "invalid before parameter", err.Error())
			return
		}
		before = parsed
	}

	path, err := c.archiveService.CreateArchive(ctx.Request.Context(), before)
	if err != nil {
		Error(ctx, http.StatusInternalServerError, "failed to create archive", err.Error())
		return
	}

	Success(ctx, gin.H{"path": path})
}

// List 列出归档
// @Summary      列出归档文件
// @Description  返回归档目录下的全部归档文件信息
// @Tags         运维管理
// @Produce      json
// @Success      200  {object}  Response
// @Failure      500  {object}  ErrorResponse
// @Router       /archives [get]
// @Security     BearerAuth
func (c *ArchiveController) List(ctx *gin.Context) {
	archives, err := c.archiveService.ListArchives(ctx.Request.Context())
	if err != nil {
		Error(ctx, http.StatusInternalServerError, "failed to list archives", err.Error())
		return
	}

	Success(ctx, archives)
}

// Delete 删除归档
// @Summary      删除归档文件
// @Description  删除指定归档文件,文件必须位于归档目录内
// @Tags         运维管理
// @Produce      json
// @Param        filename path string true "归档文件名"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /archives/{filename} [delete]
// @Security     BearerAuth
func (c *ArchiveController) Delete(ctx *gin.Context) {
	filename := ctx.Param("filename")
	if filename == "" {
		Error(ctx, http.StatusBadRequest, "filename is required", "")
		return
	}

	if err := c.archiveService.DeleteArchive(ctx.Request.Context(), filename); err != nil {
		Error(ctx, http.StatusInternalServerError, "failed to delete archive", err.Error())
		return
	}

	Success(ctx, nil)
}
