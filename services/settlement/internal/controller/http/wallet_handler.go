package http

import (
	"net/http"

	"lotto-settlement/pkg/logger"
	"lotto-settlement/services/settlement/internal/entity"
	"lotto-settlement/services/settlement/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type WalletHandler struct {
	walletUseCase usecase.WalletUseCase
	logger        *logger.Logger
}

func NewWalletHandler(walletUseCase usecase.WalletUseCase, logger *logger.Logger) *WalletHandler {
	return &WalletHandler{
		walletUseCase: walletUseCase,
		logger:        logger,
	}
}

type DepositRequest struct {
	Kind   entity.WalletKind `json:"kind" binding:"required"`
	Amount decimal.Decimal   `json:"amount"`
}

// ListMyWallets godoc
// @Summary      List my wallets
// @Description  Balances of every wallet the authenticated user holds
// @Tags         wallets
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /wallets [get]
func (h *WalletHandler) ListMyWallets(c *gin.Context) {
	actor := actorFrom(c)
	wallets, err := h.walletUseCase.ListWallets(c.Request.Context(), actor, actor.ID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"wallets": wallets, "count": len(wallets)})
}

// ListWallets godoc
// @Summary      List wallets of a user
// @Tags         wallets
// @Produce      json
// @Security     BearerAuth
// @Param        owner_id path string true "Owner ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  ErrorResponse
// @Router       /wallets/{owner_id} [get]
func (h *WalletHandler) ListWallets(c *gin.Context) {
	wallets, err := h.walletUseCase.ListWallets(c.Request.Context(), actorFrom(c), c.Param("owner_id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"wallets": wallets, "count": len(wallets)})
}

// OpenWallets godoc
// @Summary      Open wallets
// @Description  Create the wallets the user's role holds; existing wallets are kept
// @Tags         wallets
// @Produce      json
// @Security     BearerAuth
// @Param        owner_id path string true "Owner ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /wallets/{owner_id}/open [post]
func (h *WalletHandler) OpenWallets(c *gin.Context) {
	actor := actorFrom(c)
	ownerID := c.Param("owner_id")
	if !entity.CanView(actor, ownerID) {
		respondError(c, h.logger, entity.ErrUnauthorized.With("cannot open wallets of another user"))
		return
	}

	wallets, err := h.walletUseCase.OpenWallets(c.Request.Context(), ownerID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"wallets": wallets, "count": len(wallets)})
}

// Deposit godoc
// @Summary      Deposit funds
// @Description  Admin top-up of a user's wallet
// @Tags         wallets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        owner_id path string true "Owner ID"
// @Param        request body DepositRequest true "Wallet kind and amount"
// @Success      200  {object}  entity.Wallet
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Router       /wallets/{owner_id}/deposit [post]
func (h *WalletHandler) Deposit(c *gin.Context) {
	var req DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	wallet, err := h.walletUseCase.Deposit(c.Request.Context(), actorFrom(c), c.Param("owner_id"), req.Kind, req.Amount)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, wallet)
}

// GetTransactions godoc
// @Summary      Get ledger entries
// @Description  Ledger entries of the authenticated user, or of owner_id for managers and admins
// @Tags         wallets
// @Produce      json
// @Security     BearerAuth
// @Param        owner_id query string false "Owner ID"
// @Param        limit query int false "Number of entries"
// @Param        offset query int false "Offset"
// @Success      200  {object}  map[string]interface{}
// @Router       /wallets/transactions [get]
func (h *WalletHandler) GetTransactions(c *gin.Context) {
	actor := actorFrom(c)
	limit, offset := pagination(c)

	transactions, err := h.walletUseCase.GetTransactions(c.Request.Context(), actor, ownerParam(c, actor), limit, offset)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": transactions, "count": len(transactions)})
}
