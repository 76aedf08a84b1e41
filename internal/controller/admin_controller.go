package controller

import (
	"balance_scale_backend/internal/service"
	"balance_scale_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AdminController struct {
	ProgressService *service.ProgressService
	SessionService  *service.SessionService
	ExportService   *service.ExportService
}

func NewAdminController(progressService *service.ProgressService, sessionService *service.SessionService, exportService *service.ExportService) *AdminController {
	return &AdminController{
		ProgressService: progressService,
		SessionService:  sessionService,
		ExportService:   exportService,
	}
}

// @Summary 所有用户的游戏进度
// @Tags 管理员
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.GameProgress}
// @Router /admin/all-progress [get]
func (c *AdminController) AllProgress(ctx *gin.Context) {
	progress, err := c.ProgressService.ListAll(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

// @Summary 用户答题记录
// @Description 最近提交的在前
// @Tags 管理员
// @Produce json
// @Security ApiKeyAuth
// @Param userId path string true "用户ID"
// @Param limit query int false "数量上限" default(100)
// @Success 200 {object} util.Response{data=[]model.ProblemAttempt}
// @Router /admin/user-attempts/{userId} [get]
func (c *AdminController) UserAttempts(ctx *gin.Context) {
	limit := util.ParseLimit(ctx.Query("limit"), util.DefaultAttemptListLimit, 1000)
	attempts, err := c.SessionService.ListUserAttempts(ctx.Request.Context(), ctx.Param("userId"), limit)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, attempts)
}

// @Summary 导出用户答题记录
// @Description 把用户全部答题记录以 JSON 写入对象存储
// @Tags 管理员
// @Produce json
// @Security ApiKeyAuth
// @Param userId path string true "用户ID"
// @Success 200 {object} util.Response{data=service.ExportResult}
// @Router /admin/user-attempts/{userId}/export [post]
func (c *AdminController) ExportUserAttempts(ctx *gin.Context) {
	result, err := c.ExportService.ExportUserAttempts(ctx.Request.Context(), ctx.Param("userId"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}
