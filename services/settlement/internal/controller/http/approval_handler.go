package http

import (
	"net/http"

	"lotto-settlement/pkg/logger"
	"lotto-settlement/services/settlement/internal/entity"
	"lotto-settlement/services/settlement/internal/usecase"

	"github.com/gin-gonic/gin"
)

type ApprovalHandler struct {
	approvalUseCase usecase.ApprovalUseCase
	logger          *logger.Logger
}

func NewApprovalHandler(approvalUseCase usecase.ApprovalUseCase, logger *logger.Logger) *ApprovalHandler {
	return &ApprovalHandler{
		approvalUseCase: approvalUseCase,
		logger:          logger,
	}
}

type VoteRequest struct {
	Decision entity.Decision `json:"decision" binding:"required"`
	Comment  string          `json:"comment"`
}

type CommentRequest struct {
	Comment string `json:"comment" binding:"required"`
}

// ListApprovals godoc
// @Summary      List approval requests
// @Tags         approvals
// @Produce      json
// @Security     BearerAuth
// @Param        status query string false "pending, approved or rejected"
// @Param        limit query int false "Number of requests"
// @Param        offset query int false "Offset"
// @Success      200  {object}  map[string]interface{}
// @Router       /approvals [get]
func (h *ApprovalHandler) ListApprovals(c *gin.Context) {
	status := entity.ApprovalStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid status", Code: "invalid_request"})
		return
	}
	limit, offset := pagination(c)

	requests, err := h.approvalUseCase.List(c.Request.Context(), actorFrom(c), status, limit, offset)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"approvals": requests, "count": len(requests)})
}

// GetApproval godoc
// @Summary      Get approval request
// @Tags         approvals
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Request ID"
// @Success      200  {object}  entity.ApprovalRequest
// @Failure      404  {object}  ErrorResponse
// @Router       /approvals/{id} [get]
func (h *ApprovalHandler) GetApproval(c *gin.Context) {
	request, err := h.approvalUseCase.Get(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, request)
}

// Vote godoc
// @Summary      Vote on approval request
// @Description  Record or replace the caller's vote; a rejection or a quorum of approvals decides the request
// @Tags         approvals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Request ID"
// @Param        request body VoteRequest true "Decision"
// @Success      200  {object}  entity.ApprovalRequest
// @Failure      403  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /approvals/{id}/vote [post]
func (h *ApprovalHandler) Vote(c *gin.Context) {
	var req VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	request, err := h.approvalUseCase.Vote(c.Request.Context(), actorFrom(c), c.Param("id"), req.Decision, req.Comment)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, request)
}

// Comment godoc
// @Summary      Comment on approval request
// @Tags         approvals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Request ID"
// @Param        request body CommentRequest true "Comment"
// @Success      200  {object}  entity.ApprovalRequest
// @Router       /approvals/{id}/comments [post]
func (h *ApprovalHandler) Comment(c *gin.Context) {
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	request, err := h.approvalUseCase.Comment(c.Request.Context(), actorFrom(c), c.Param("id"), req.Comment)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, request)
}

// Process godoc
// @Summary      Retry prize calculation
// @Description  Rerun the prize engine for an approved request whose run failed
// @Tags         approvals
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Request ID"
// @Success      200  {object}  entity.ApprovalRequest
// @Router       /approvals/{id}/process [post]
func (h *ApprovalHandler) Process(c *gin.Context) {
	request, err := h.approvalUseCase.Process(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, request)
}
