package http

import (
	"net/http"

	"lotto-settlement/pkg/logger"
	"lotto-settlement/services/settlement/internal/entity"
	"lotto-settlement/services/settlement/internal/usecase"

	"github.com/gin-gonic/gin"
)

type PrizeHandler struct {
	prizeUseCase    usecase.PrizeUseCase
	approvalUseCase usecase.ApprovalUseCase
	logger          *logger.Logger
}

func NewPrizeHandler(prizeUseCase usecase.PrizeUseCase, approvalUseCase usecase.ApprovalUseCase, logger *logger.Logger) *PrizeHandler {
	return &PrizeHandler{
		prizeUseCase:    prizeUseCase,
		approvalUseCase: approvalUseCase,
		logger:          logger,
	}
}

type PreviewRequest struct {
	WinningNumbers []int `json:"winning_numbers" binding:"required"`
}

// PreviewPrizes godoc
// @Summary      Preview matching statistics
// @Description  Count active tickets per match count for the given numbers without settling anything
// @Tags         prizes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Lotto ID"
// @Param        request body PreviewRequest true "Winning numbers"
// @Success      200  {object}  map[string]interface{}
// @Router       /lottos/{id}/prizes/preview [post]
func (h *PrizeHandler) PreviewPrizes(c *gin.Context) {
	var req PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	stats, err := h.prizeUseCase.CalculateMatchingStats(c.Request.Context(), c.Param("id"), req.WinningNumbers)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ticket_stats": stats})
}

// SubmitPrizes godoc
// @Summary      Submit draw
// @Description  Admins settle immediately; managers and staff open an approval request
// @Tags         prizes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Lotto ID"
// @Param        request body entity.Draw true "Winning numbers and prize table"
// @Success      200  {object}  usecase.SubmitResult
// @Success      202  {object}  usecase.SubmitResult
// @Failure      409  {object}  ErrorResponse
// @Router       /lottos/{id}/prizes [post]
func (h *PrizeHandler) SubmitPrizes(c *gin.Context) {
	var draw entity.Draw
	if err := c.ShouldBindJSON(&draw); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.approvalUseCase.SubmitPrizes(c.Request.Context(), actorFrom(c), c.Param("id"), draw)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if result.Request != nil {
		c.JSON(http.StatusAccepted, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetResult godoc
// @Summary      Get prize result
// @Tags         prizes
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Lotto ID"
// @Success      200  {object}  entity.PrizeResult
// @Failure      404  {object}  ErrorResponse
// @Router       /lottos/{id}/prizes [get]
func (h *PrizeHandler) GetResult(c *gin.Context) {
	result, err := h.prizeUseCase.GetResult(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
