package controller

import (
	"strconv"

	"balance_scale_backend/internal/service"
	"balance_scale_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type GameConfigurationController struct {
	ConfigurationService *service.ConfigurationService
}

func NewGameConfigurationController(configurationService *service.ConfigurationService) *GameConfigurationController {
	return &GameConfigurationController{ConfigurationService: configurationService}
}

// @Summary 创建游戏配置
// @Description 创建新的天平加法游戏配置（管理员权限）
// @Tags 游戏配置
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param configuration body service.GameConfigurationInput true "游戏配置"
// @Success 201 {object} util.Response{data=model.GameConfiguration}
// @Failure 400 {object} util.Response
// @Router /game-configurations [post]
func (c *GameConfigurationController) Create(ctx *gin.Context) {
	var req service.GameConfigurationInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user := util.GetUserFromContext(ctx)
	cfg, err := c.ConfigurationService.Create(ctx.Request.Context(), user.UserID, &req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, cfg)
}

// @Summary 游戏配置列表
// @Description 返回所有公开配置及当前用户创建的配置（去重）
// @Tags 游戏配置
// @Produce json
// @Security ApiKeyAuth
// @Param public_only query bool false "只返回公开配置"
// @Success 200 {object} util.Response{data=[]model.GameConfiguration}
// @Router /game-configurations [get]
func (c *GameConfigurationController) List(ctx *gin.Context) {
	publicOnly := false
	if v := ctx.Query("public_only"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			util.BadRequest(ctx, "public_only must be a boolean")
			return
		}
		publicOnly = b
	}

	user := util.GetUserFromContext(ctx)
	list, err := c.ConfigurationService.List(ctx.Request.Context(), user.UserID, publicOnly)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// @Summary 获取游戏配置
// @Tags 游戏配置
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "配置ID"
// @Success 200 {object} util.Response{data=model.GameConfiguration}
// @Failure 404 {object} util.Response
// @Router /game-configurations/{id} [get]
func (c *GameConfigurationController) Get(ctx *gin.Context) {
	cfg, err := c.ConfigurationService.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, cfg)
}

// @Summary 更新游戏配置
// @Description 替换配置内容，保留ID、创建者与创建时间（管理员权限）
// @Tags 游戏配置
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "配置ID"
// @Param configuration body service.GameConfigurationInput true "游戏配置"
// @Success 200 {object} util.Response{data=model.GameConfiguration}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /game-configurations/{id} [put]
func (c *GameConfigurationController) Update(ctx *gin.Context) {
	var req service.GameConfigurationInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	cfg, err := c.ConfigurationService.Update(ctx.Request.Context(), ctx.Param("id"), &req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, cfg)
}

// @Summary 删除游戏配置
// @Tags 游戏配置
// @Security ApiKeyAuth
// @Param id path string true "配置ID"
// @Success 204
// @Failure 404 {object} util.Response
// @Router /game-configurations/{id} [delete]
func (c *GameConfigurationController) Delete(ctx *gin.Context) {
	if err := c.ConfigurationService.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.NoContent(ctx)
}
