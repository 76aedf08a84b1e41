package controller

import (
	"strconv"

	"balance_scale_backend/internal/service"
	"balance_scale_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type GameSessionController struct {
	SessionService *service.SessionService
}

func NewGameSessionController(sessionService *service.SessionService) *GameSessionController {
	return &GameSessionController{SessionService: sessionService}
}

type CreateSessionRequest struct {
	ConfigID string `json:"config_id"`
}

type AttemptRequest struct {
	Addends   []int   `json:"addends" binding:"required,min=1"`
	TimeTaken float64 `json:"time_taken" binding:"min=0"`
}

type CompleteSessionRequest struct {
	Success *bool `json:"success" binding:"required"`
}

// @Summary 开始游戏会话
// @Description 按配置的起始难度生成目标数并开启会话
// @Tags 游戏会话
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body CreateSessionRequest false "配置ID（也可用查询参数 config_id）"
// @Param config_id query string false "配置ID"
// @Success 201 {object} util.Response{data=model.GameSession}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /game-sessions [post]
func (c *GameSessionController) Create(ctx *gin.Context) {
	var req CreateSessionRequest
	if ctx.Request.ContentLength != 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			util.BadRequest(ctx, err.Error())
			return
		}
	}
	if req.ConfigID == "" {
		req.ConfigID = ctx.Query("config_id")
	}
	if req.ConfigID == "" {
		util.BadRequest(ctx, "config_id is required")
		return
	}

	user := util.GetUserFromContext(ctx)
	session, err := c.SessionService.Create(ctx.Request.Context(), req.ConfigID, user.UserID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, session)
}

// @Summary 我的游戏会话
// @Description 最近开始的会话在前
// @Tags 游戏会话
// @Produce json
// @Security ApiKeyAuth
// @Param limit query int false "数量上限" default(50)
// @Success 200 {object} util.Response{data=[]model.GameSession}
// @Router /game-sessions [get]
func (c *GameSessionController) List(ctx *gin.Context) {
	limit := util.ParseLimit(ctx.Query("limit"), util.DefaultSessionListLimit, 500)
	user := util.GetUserFromContext(ctx)
	sessions, err := c.SessionService.ListByUser(ctx.Request.Context(), user.UserID, limit)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, sessions)
}

// @Summary 获取游戏会话
// @Tags 游戏会话
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "会话ID"
// @Success 200 {object} util.Response{data=model.GameSession}
// @Failure 404 {object} util.Response
// @Router /game-sessions/{id} [get]
func (c *GameSessionController) Get(ctx *gin.Context) {
	session, err := c.SessionService.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, session)
}

// @Summary 提交答案
// @Description 加数之和等于目标数即答对并结束会话
// @Tags 游戏会话
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "会话ID"
// @Param attempt body AttemptRequest true "加数与用时（秒）"
// @Success 200 {object} util.Response{data=model.ProblemAttempt}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /game-sessions/{id}/attempt [post]
func (c *GameSessionController) RecordAttempt(ctx *gin.Context) {
	var req AttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user := util.GetUserFromContext(ctx)
	result, err := c.SessionService.RecordAttempt(ctx.Request.Context(), ctx.Param("id"), user.UserID, service.AttemptInput{
		Addends:   req.Addends,
		TimeTaken: req.TimeTaken,
	})
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result.Attempt)
}

// @Summary 会话答题记录
// @Description 按提交时间先后排列
// @Tags 游戏会话
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "会话ID"
// @Success 200 {object} util.Response{data=[]model.ProblemAttempt}
// @Failure 404 {object} util.Response
// @Router /game-sessions/{id}/attempts [get]
func (c *GameSessionController) ListAttempts(ctx *gin.Context) {
	attempts, err := c.SessionService.ListAttempts(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, attempts)
}

// @Summary 结束游戏会话
// @Description 以给定结果关闭进行中的会话；已结束的会话返回 400
// @Tags 游戏会话
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "会话ID"
// @Param request body CompleteSessionRequest false "结果（也可用查询参数 success）"
// @Param success query bool false "结果"
// @Success 200 {object} util.Response{data=model.GameSession}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /game-sessions/{id}/complete [post]
func (c *GameSessionController) Complete(ctx *gin.Context) {
	var success bool
	var req CompleteSessionRequest
	switch {
	case ctx.Request.ContentLength != 0:
		if err := ctx.ShouldBindJSON(&req); err != nil {
			util.BadRequest(ctx, err.Error())
			return
		}
		success = *req.Success
	case ctx.Query("success") != "":
		b, err := strconv.ParseBool(ctx.Query("success"))
		if err != nil {
			util.BadRequest(ctx, "success must be a boolean")
			return
		}
		success = b
	default:
		util.BadRequest(ctx, "success is required")
		return
	}

	session, err := c.SessionService.Complete(ctx.Request.Context(), ctx.Param("id"), success)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, session)
}
