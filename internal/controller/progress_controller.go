package controller

import (
	"balance_scale_backend/internal/model"
	"balance_scale_backend/internal/service"
	"balance_scale_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

// @Summary 我的游戏进度
// @Tags 游戏进度
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.GameProgress}
// @Router /progress [get]
func (c *ProgressController) List(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	progress, err := c.ProgressService.ListByUser(ctx.Request.Context(), user.UserID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

// @Summary 单个配置的游戏进度
// @Tags 游戏进度
// @Produce json
// @Security ApiKeyAuth
// @Param configId path string true "配置ID"
// @Success 200 {object} util.Response{data=model.GameProgress}
// @Failure 404 {object} util.Response
// @Router /progress/{configId} [get]
func (c *ProgressController) Get(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	progress, err := c.ProgressService.Get(ctx.Request.Context(), user.UserID, ctx.Param("configId"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

// @Summary 保存游戏进度
// @Description 按 "{user_id}_{configuration_id}" 覆盖写入，后写者生效
// @Tags 游戏进度
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param progress body model.GameProgress true "进度（user_id 以当前用户为准）"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /progress [put]
func (c *ProgressController) Upsert(ctx *gin.Context) {
	var req model.GameProgress
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	req.UserID = util.GetUserFromContext(ctx).UserID

	key, err := c.ProgressService.Upsert(ctx.Request.Context(), &req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": key})
}
