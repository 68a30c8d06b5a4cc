package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"lotto-settlement/pkg/logger"
	"lotto-settlement/services/settlement/internal/entity"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParticipate_Success(t *testing.T) {
	mockUseCase := new(MockParticipationUseCase)
	handler := NewParticipationHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.POST("/lottos/:id/participations", as("agent-1", entity.RoleAgent, handler.Participate))

	numbers := []int{1, 2, 3, 4, 5, 6}
	participation := &entity.Participation{
		ID:              "p-1",
		LottoID:         "lotto-1",
		UserID:          "agent-1",
		SelectedNumbers: numbers,
		TicketPrice:     decimal.NewFromInt(10),
		Status:          entity.ParticipationActive,
	}
	mockUseCase.On("Participate", entity.Actor{ID: "agent-1", Role: entity.RoleAgent}, "lotto-1", numbers).Return(participation, nil)

	body := []byte(`{"numbers":[1,2,3,4,5,6]}`)
	req := httptest.NewRequest(http.MethodPost, "/lottos/lotto-1/participations", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response entity.Participation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "p-1", response.ID)
	assert.Equal(t, numbers, response.SelectedNumbers)
	mockUseCase.AssertExpectations(t)
}

func TestParticipate_MissingNumbers(t *testing.T) {
	mockUseCase := new(MockParticipationUseCase)
	handler := NewParticipationHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.POST("/lottos/:id/participations", as("agent-1", entity.RoleAgent, handler.Participate))

	req := httptest.NewRequest(http.MethodPost, "/lottos/lotto-1/participations", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockUseCase.AssertNotCalled(t, "Participate")
}

func TestParticipate_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"disabled", entity.ErrLottoDisabled, http.StatusConflict},
		{"not started", entity.ErrLottoNotStarted, http.StatusConflict},
		{"bad selection", entity.ErrInvalidSelection.With("duplicate number 3"), http.StatusBadRequest},
		{"no funds", entity.ErrInsufficientBalance, http.StatusUnprocessableEntity},
		{"missing lotto", entity.ErrLottoNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUseCase := new(MockParticipationUseCase)
			handler := NewParticipationHandler(mockUseCase, logger.New())

			router := setupTestRouter()
			router.POST("/lottos/:id/participations", as("agent-1", entity.RoleAgent, handler.Participate))

			mockUseCase.On("Participate", entity.Actor{ID: "agent-1", Role: entity.RoleAgent}, "lotto-1", []int{1, 2, 3, 3, 5, 6}).
				Return(nil, tt.err)

			body := []byte(`{"numbers":[1,2,3,3,5,6]}`)
			req := httptest.NewRequest(http.MethodPost, "/lottos/lotto-1/participations", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestCancel_WindowExpired(t *testing.T) {
	mockUseCase := new(MockParticipationUseCase)
	handler := NewParticipationHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.POST("/participations/:id/cancel", as("agent-1", entity.RoleAgent, handler.Cancel))

	mockUseCase.On("Cancel", entity.Actor{ID: "agent-1", Role: entity.RoleAgent}, "p-1").
		Return(nil, entity.ErrCancellationWindowExpired)

	req := httptest.NewRequest(http.MethodPost, "/participations/p-1/cancel", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)

	var response ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "cancellation_window_expired", response.Code)
	mockUseCase.AssertExpectations(t)
}

func TestPayPrize(t *testing.T) {
	mockUseCase := new(MockParticipationUseCase)
	handler := NewParticipationHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.POST("/participations/:id/pay", as("staff-1", entity.RoleStaff, handler.PayPrize))

	paid := &entity.Participation{ID: "p-1", Status: entity.ParticipationPaid, IsWinner: true, WinAmount: decimal.NewFromInt(500)}
	mockUseCase.On("PayPrize", entity.Actor{ID: "staff-1", Role: entity.RoleStaff}, "p-1").Return(paid, nil)

	req := httptest.NewRequest(http.MethodPost, "/participations/p-1/pay", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockUseCase.AssertExpectations(t)
}

func TestListMine(t *testing.T) {
	mockUseCase := new(MockParticipationUseCase)
	handler := NewParticipationHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.GET("/participations/mine", as("agent-1", entity.RoleAgent, handler.ListMine))

	actor := entity.Actor{ID: "agent-1", Role: entity.RoleAgent}
	mockUseCase.On("ListByUser", actor, "agent-1", 10, 0).Return([]*entity.Participation{{ID: "p-1"}, {ID: "p-2"}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/participations/mine?limit=10", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(2), response["count"])
	mockUseCase.AssertExpectations(t)
}
