package http

import (
	"net/http"

	"lotto-settlement/pkg/logger"
	"lotto-settlement/services/settlement/internal/entity"
	"lotto-settlement/services/settlement/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type TransferHandler struct {
	transferUseCase usecase.TransferUseCase
	logger          *logger.Logger
}

func NewTransferHandler(transferUseCase usecase.TransferUseCase, logger *logger.Logger) *TransferHandler {
	return &TransferHandler{
		transferUseCase: transferUseCase,
		logger:          logger,
	}
}

type TransferRequest struct {
	RecipientEmail string           `json:"recipient_email" binding:"required,email"`
	Amount         decimal.Decimal  `json:"amount"`
	Direction      entity.Direction `json:"direction" binding:"required"`
}

// Transfer godoc
// @Summary      Transfer funds
// @Description  Move funds to another user; the commission is routed by direction
// @Tags         transfers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body TransferRequest true "Transfer"
// @Success      201  {object}  entity.Transfer
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      422  {object}  ErrorResponse
// @Router       /transfers [post]
func (h *TransferHandler) Transfer(c *gin.Context) {
	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	transfer, err := h.transferUseCase.Transfer(c.Request.Context(), actorFrom(c), usecase.TransferRequest{
		RecipientEmail: req.RecipientEmail,
		Amount:         req.Amount,
		Direction:      req.Direction,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, transfer)
}

// Quote godoc
// @Summary      Quote a transfer
// @Description  Fee and total debit of a transfer at the current commission rate
// @Tags         transfers
// @Produce      json
// @Security     BearerAuth
// @Param        direction query string true "agent_to_staff, staff_to_staff or staff_to_agent"
// @Param        amount query string true "Amount"
// @Success      200  {object}  entity.TransferQuote
// @Failure      400  {object}  ErrorResponse
// @Router       /transfers/quote [get]
func (h *TransferHandler) Quote(c *gin.Context) {
	amount, err := decimal.NewFromString(c.Query("amount"))
	if err != nil {
		respondError(c, h.logger, entity.ErrInvalidAmount)
		return
	}

	quote, err := h.transferUseCase.Quote(c.Request.Context(), entity.Direction(c.Query("direction")), amount)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

// ListTransfers godoc
// @Summary      List transfers
// @Description  Transfers sent or received by the authenticated user, or by owner_id for managers and admins
// @Tags         transfers
// @Produce      json
// @Security     BearerAuth
// @Param        owner_id query string false "Owner ID"
// @Param        limit query int false "Number of transfers"
// @Param        offset query int false "Offset"
// @Success      200  {object}  map[string]interface{}
// @Router       /transfers [get]
func (h *TransferHandler) ListTransfers(c *gin.Context) {
	actor := actorFrom(c)
	limit, offset := pagination(c)

	transfers, err := h.transferUseCase.ListTransfers(c.Request.Context(), actor, ownerParam(c, actor), limit, offset)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transfers": transfers, "count": len(transfers)})
}
