package controller

import (
	"dentsim_backend/internal/model"
	"dentsim_backend/internal/service"
	"dentsim_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SessionController struct {
	SessionService     *service.SessionService
	ProgressionService *service.ProgressionService
}

func NewSessionController(sessionService *service.SessionService, progressionService *service.ProgressionService) *SessionController {
	return &SessionController{
		SessionService:     sessionService,
		ProgressionService: progressionService,
	}
}

type StartSessionRequest struct {
	Difficulty model.CaseDifficulty `json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
}

type SendMessageRequest struct {
	Message string `json:"message" binding:"required"`
}

type SubmitDiagnosisRequest struct {
	Diagnosis string `json:"diagnosis" binding:"required"`
}

func (c *SessionController) StartSession(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req StartSessionRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			util.BadRequest(ctx, err.Error())
			return
		}
	}

	start, err := c.SessionService.Start(user.UserID, req.Difficulty)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Created(ctx, start)
}

func (c *SessionController) SendMessage(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SendMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	reply, err := c.SessionService.SendMessage(ctx.Request.Context(), user.UserID, ctx.Param("id"), req.Message)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"reply": reply})
}

func (c *SessionController) SubmitDiagnosis(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SubmitDiagnosisRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.ProgressionService.Settle(ctx.Request.Context(), user.UserID, ctx.Param("id"), req.Diagnosis)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	message := "Not quite. Review the findings and try the next case."
	if result.Correct {
		message = "Correct diagnosis!"
	}

	util.Success(ctx, gin.H{
		"correct":          result.Correct,
		"message":          message,
		"xpGained":         result.XPGained,
		"correctDiagnosis": result.CorrectDiagnosis,
		"badgesUnlocked":   result.BadgesUnlocked,
		"streak":           result.Streak,
		"rank":             result.Rank,
	})
}

func (c *SessionController) GetHistory(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	history, err := c.SessionService.History(user.UserID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, history)
}
