package http

import (
	"net/http"
	"strconv"

	"lotto-settlement/pkg/jwt"
	"lotto-settlement/pkg/logger"
	"lotto-settlement/services/notification/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type NotificationHandler struct {
	notificationUseCase usecase.NotificationUseCase
	logger              *logger.Logger
	jwtService          *jwt.Service
}

func NewNotificationHandler(notificationUseCase usecase.NotificationUseCase, logger *logger.Logger, jwtService *jwt.Service) *NotificationHandler {
	return &NotificationHandler{
		notificationUseCase: notificationUseCase,
		logger:              logger,
		jwtService:          jwtService,
	}
}

// GetNotifications godoc
// @Summary      List notifications
// @Description  Most recent settlement notifications for the authenticated user, newest first
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Number of notifications to return (max 100)"
// @Param        offset query int false "Offset for pagination"
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /notifications [get]
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	limit := 50
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}
	offset := 0
	if offsetStr := c.Query("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}

	notifications, total, err := h.notificationUseCase.GetNotifications(c.Request.Context(), userID, limit, offset)
	if err != nil {
		h.logger.Error("Failed to get notifications: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":  notifications,
		"count":  len(notifications),
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// HandleWebSocket godoc
// @Summary      Stream notifications
// @Description  Upgrades to a WebSocket that pushes each new notification as a JSON text frame. Browsers pass the JWT in the token query parameter.
// @Tags         notifications
// @Param        token query string false "JWT when no Authorization header is sent"
// @Success      101
// @Failure      401  {object}  map[string]string
// @Router       /notifications/ws [get]
func (h *NotificationHandler) HandleWebSocket(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		token := c.Query("token")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token required"})
			return
		}

		claims, err := h.jwtService.ValidateToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		userID = claims.UserID
	}

	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade connection to WebSocket: %v", err)
		return
	}
	defer conn.Close()

	h.logger.Info("WebSocket connected for user %s", userID)

	ctx := c.Request.Context()
	pubsub := h.notificationUseCase.Subscribe(ctx, userID)
	defer pubsub.Close()

	messages := pubsub.Channel()
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-done:
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
					h.logger.Error("Failed to write WebSocket message: %v", err)
					return
				}
			}
		}
	}()

	for {
		messageType, _, err := conn.ReadMessage()
		if err != nil {
			h.logger.Warn("WebSocket read error: %v", err)
			break
		}
		if messageType == websocket.CloseMessage {
			break
		}
		if messageType == websocket.PingMessage {
			conn.WriteMessage(websocket.PongMessage, nil)
		}
	}

	close(done)
	h.logger.Info("WebSocket disconnected for user %s", userID)
}
