package controller

import (
	"context"
	"net/http"
	"time"

	"balance_scale_backend/internal/repository"
	"balance_scale_backend/internal/util"
	"balance_scale_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type HealthController struct {
	Store *repository.Store
}

func NewHealthController(store *repository.Store) *HealthController {
	return &HealthController{Store: store}
}

// @Summary 健康检查
// @Description 检查服务与存储后端状态
// @Tags 系统
// @Produce json
// @Success 200 {object} util.Response
// @Failure 503 {object} util.Response
// @Router /health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	if err := c.Store.Ping(pingCtx); err != nil {
		logger.Log.Warn("Storage ping failed", zap.String("driver", c.Store.Driver), zap.Error(err))
		util.Error(ctx, http.StatusServiceUnavailable, "Storage unavailable")
		return
	}

	util.Success(ctx, gin.H{
		"status": "ok",
		"components": gin.H{
			"storage": gin.H{"driver": c.Store.Driver, "status": "up"},
		},
	})
}
