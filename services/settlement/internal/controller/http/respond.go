package http

import (
	"errors"
	"net/http"
	"strconv"

	"lotto-settlement/pkg/logger"
	"lotto-settlement/services/settlement/internal/entity"

	"github.com/gin-gonic/gin"
)

var statusByKind = map[entity.ErrorKind]int{
	entity.KindValidation:          http.StatusBadRequest,
	entity.KindState:               http.StatusConflict,
	entity.KindNotFound:            http.StatusNotFound,
	entity.KindInsufficientBalance: http.StatusUnprocessableEntity,
	entity.KindAuthorization:       http.StatusForbidden,
	entity.KindWindowExpired:       http.StatusConflict,
	entity.KindConflict:            http.StatusConflict,
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// respondError writes a business rejection with its mapped status, anything
// else as a 500 without internal detail.
func respondError(c *gin.Context, log *logger.Logger, err error) {
	var e *entity.Error
	if errors.As(err, &e) {
		status, ok := statusByKind[e.Kind]
		if !ok {
			status = http.StatusBadRequest
		}
		c.JSON(status, ErrorResponse{Error: err.Error(), Code: e.Code})
		return
	}
	log.Error("Request %s %s failed: %v", c.Request.Method, c.FullPath(), err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "invalid_request"})
}

// actorFrom reads the caller set by middleware.AuthMiddleware.
func actorFrom(c *gin.Context) entity.Actor {
	return entity.Actor{
		ID:   c.GetString("user_id"),
		Role: entity.Role(c.GetString("user_role")),
	}
}

func pagination(c *gin.Context) (limit, offset int) {
	limit = 50
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}
	if offsetStr := c.Query("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}
	return limit, offset
}

// ownerParam returns the owner_id query parameter, defaulting to the caller.
func ownerParam(c *gin.Context, actor entity.Actor) string {
	if ownerID := c.Query("owner_id"); ownerID != "" {
		return ownerID
	}
	return actor.ID
}
