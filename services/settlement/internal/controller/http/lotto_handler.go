package http

import (
	"net/http"

	"lotto-settlement/pkg/logger"
	"lotto-settlement/services/settlement/internal/entity"
	"lotto-settlement/services/settlement/internal/usecase"

	"github.com/gin-gonic/gin"
)

type LottoHandler struct {
	lottoUseCase usecase.LottoUseCase
	logger       *logger.Logger
}

func NewLottoHandler(lottoUseCase usecase.LottoUseCase, logger *logger.Logger) *LottoHandler {
	return &LottoHandler{
		lottoUseCase: lottoUseCase,
		logger:       logger,
	}
}

type SetEnabledRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// CreateLotto godoc
// @Summary      Create lotto
// @Description  Create a lotto event; its status follows the start and end dates
// @Tags         lottos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body entity.LottoInput true "Lotto definition"
// @Success      201  {object}  entity.Lotto
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Router       /lottos [post]
func (h *LottoHandler) CreateLotto(c *gin.Context) {
	var input entity.LottoInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	lotto, err := h.lottoUseCase.Create(c.Request.Context(), actorFrom(c), input)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, lotto)
}

// ListLottos godoc
// @Summary      List lottos
// @Tags         lottos
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /lottos [get]
func (h *LottoHandler) ListLottos(c *gin.Context) {
	lottos, err := h.lottoUseCase.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lottos": lottos, "count": len(lottos)})
}

// GetLotto godoc
// @Summary      Get lotto
// @Tags         lottos
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Lotto ID"
// @Success      200  {object}  entity.Lotto
// @Failure      404  {object}  ErrorResponse
// @Router       /lottos/{id} [get]
func (h *LottoHandler) GetLotto(c *gin.Context) {
	lotto, err := h.lottoUseCase.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, lotto)
}

// UpdateLotto godoc
// @Summary      Update lotto
// @Description  Change a lotto while it is still pending
// @Tags         lottos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Lotto ID"
// @Param        request body entity.LottoPatch true "Fields to change"
// @Success      200  {object}  entity.Lotto
// @Failure      409  {object}  ErrorResponse
// @Router       /lottos/{id} [put]
func (h *LottoHandler) UpdateLotto(c *gin.Context) {
	var patch entity.LottoPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err)
		return
	}

	lotto, err := h.lottoUseCase.Update(c.Request.Context(), actorFrom(c), c.Param("id"), patch)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, lotto)
}

// DeleteLotto godoc
// @Summary      Delete lotto
// @Description  Delete a pending lotto that has no participations
// @Tags         lottos
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Lotto ID"
// @Success      200  {object}  map[string]string
// @Failure      409  {object}  ErrorResponse
// @Router       /lottos/{id} [delete]
func (h *LottoHandler) DeleteLotto(c *gin.Context) {
	if err := h.lottoUseCase.Delete(c.Request.Context(), actorFrom(c), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Lotto deleted"})
}

// SetEnabled godoc
// @Summary      Enable or disable lotto
// @Description  A disabled lotto rejects new participations in any status
// @Tags         lottos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Lotto ID"
// @Param        request body SetEnabledRequest true "Enabled flag"
// @Success      200  {object}  entity.Lotto
// @Router       /lottos/{id}/enabled [patch]
func (h *LottoHandler) SetEnabled(c *gin.Context) {
	var req SetEnabledRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	lotto, err := h.lottoUseCase.SetEnabled(c.Request.Context(), actorFrom(c), c.Param("id"), *req.Enabled)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, lotto)
}
