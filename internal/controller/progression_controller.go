package controller

import (
	"dentsim_backend/internal/service"
	"dentsim_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressionController struct {
	ProgressionService *service.ProgressionService
}

func NewProgressionController(progressionService *service.ProgressionService) *ProgressionController {
	return &ProgressionController{ProgressionService: progressionService}
}

func (c *ProgressionController) GetProfile(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	profile, err := c.ProgressionService.GetProfile(user.UserID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, profile)
}

func (c *ProgressionController) GetBadges(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	badges, err := c.ProgressionService.Badges(user.UserID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, badges)
}

func (c *ProgressionController) GetLeaderboard(ctx *gin.Context) {
	entries, err := c.ProgressionService.Leaderboard(ctx.Request.Context())
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, entries)
}
