package http

import (
	"net/http"

	"lotto-settlement/pkg/logger"
	"lotto-settlement/services/settlement/internal/usecase"

	"github.com/gin-gonic/gin"
)

type ParticipationHandler struct {
	participationUseCase usecase.ParticipationUseCase
	logger               *logger.Logger
}

func NewParticipationHandler(participationUseCase usecase.ParticipationUseCase, logger *logger.Logger) *ParticipationHandler {
	return &ParticipationHandler{
		participationUseCase: participationUseCase,
		logger:               logger,
	}
}

type ParticipateRequest struct {
	Numbers []int `json:"numbers" binding:"required"`
}

// Participate godoc
// @Summary      Buy a ticket
// @Description  Debit the ticket price from the caller's wallet and record the selection
// @Tags         participations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Lotto ID"
// @Param        request body ParticipateRequest true "Selected numbers"
// @Success      201  {object}  entity.Participation
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Failure      422  {object}  ErrorResponse
// @Router       /lottos/{id}/participations [post]
func (h *ParticipationHandler) Participate(c *gin.Context) {
	var req ParticipateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	participation, err := h.participationUseCase.Participate(c.Request.Context(), actorFrom(c), c.Param("id"), req.Numbers)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, participation)
}

// ListByLotto godoc
// @Summary      List tickets of a lotto
// @Tags         participations
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Lotto ID"
// @Success      200  {object}  map[string]interface{}
// @Router       /lottos/{id}/participations [get]
func (h *ParticipationHandler) ListByLotto(c *gin.Context) {
	participations, err := h.participationUseCase.ListByLotto(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"participations": participations, "count": len(participations)})
}

// ListMine godoc
// @Summary      List my tickets
// @Tags         participations
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Number of tickets"
// @Param        offset query int false "Offset"
// @Success      200  {object}  map[string]interface{}
// @Router       /participations/mine [get]
func (h *ParticipationHandler) ListMine(c *gin.Context) {
	actor := actorFrom(c)
	limit, offset := pagination(c)

	participations, err := h.participationUseCase.ListByUser(c.Request.Context(), actor, actor.ID, limit, offset)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"participations": participations, "count": len(participations)})
}

// GetParticipation godoc
// @Summary      Get ticket
// @Tags         participations
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Participation ID"
// @Success      200  {object}  entity.Participation
// @Failure      404  {object}  ErrorResponse
// @Router       /participations/{id} [get]
func (h *ParticipationHandler) GetParticipation(c *gin.Context) {
	participation, err := h.participationUseCase.Get(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, participation)
}

// Cancel godoc
// @Summary      Cancel ticket
// @Description  Refund a ticket minus the cancellation fee within the cancellation window
// @Tags         participations
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Participation ID"
// @Success      200  {object}  entity.Participation
// @Failure      409  {object}  ErrorResponse
// @Router       /participations/{id}/cancel [post]
func (h *ParticipationHandler) Cancel(c *gin.Context) {
	participation, err := h.participationUseCase.Cancel(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, participation)
}

// PayPrize godoc
// @Summary      Pay prize
// @Description  Credit a settled winning ticket's prize to its purchaser
// @Tags         participations
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Participation ID"
// @Success      200  {object}  entity.Participation
// @Failure      409  {object}  ErrorResponse
// @Router       /participations/{id}/pay [post]
func (h *ParticipationHandler) PayPrize(c *gin.Context) {
	participation, err := h.participationUseCase.PayPrize(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, participation)
}
