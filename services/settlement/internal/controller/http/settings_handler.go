package http

import (
	"net/http"

	"lotto-settlement/pkg/logger"
	"lotto-settlement/services/settlement/internal/entity"
	"lotto-settlement/services/settlement/internal/usecase"

	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	settingsUseCase usecase.SettingsUseCase
	logger          *logger.Logger
}

func NewSettingsHandler(settingsUseCase usecase.SettingsUseCase, logger *logger.Logger) *SettingsHandler {
	return &SettingsHandler{
		settingsUseCase: settingsUseCase,
		logger:          logger,
	}
}

// GetCommissionRates godoc
// @Summary      Get commission rates
// @Tags         settings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /settings/commission [get]
func (h *SettingsHandler) GetCommissionRates(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"rates": h.settingsUseCase.CommissionRates(c.Request.Context())})
}

// UpdateCommissionRates godoc
// @Summary      Replace commission rates
// @Tags         settings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body map[string]string true "Rate per key, in percent"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Router       /settings/commission [put]
func (h *SettingsHandler) UpdateCommissionRates(c *gin.Context) {
	var rates entity.CommissionRates
	if err := c.ShouldBindJSON(&rates); err != nil {
		badRequest(c, err)
		return
	}

	saved, err := h.settingsUseCase.UpdateCommissionRates(c.Request.Context(), actorFrom(c), rates)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rates": saved})
}

// GetCancellationFee godoc
// @Summary      Get cancellation fee
// @Tags         settings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  entity.CancellationFee
// @Router       /settings/cancellation-fee [get]
func (h *SettingsHandler) GetCancellationFee(c *gin.Context) {
	c.JSON(http.StatusOK, h.settingsUseCase.CancellationFee(c.Request.Context()))
}

// UpdateCancellationFee godoc
// @Summary      Update cancellation fee
// @Tags         settings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body entity.CancellationFee true "Fee percentage and flag"
// @Success      200  {object}  entity.CancellationFee
// @Failure      400  {object}  ErrorResponse
// @Router       /settings/cancellation-fee [put]
func (h *SettingsHandler) UpdateCancellationFee(c *gin.Context) {
	var fee entity.CancellationFee
	if err := c.ShouldBindJSON(&fee); err != nil {
		badRequest(c, err)
		return
	}

	saved, err := h.settingsUseCase.UpdateCancellationFee(c.Request.Context(), actorFrom(c), fee)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}
