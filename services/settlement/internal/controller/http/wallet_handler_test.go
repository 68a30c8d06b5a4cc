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

func TestListMyWallets(t *testing.T) {
	mockUseCase := new(MockWalletUseCase)
	handler := NewWalletHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.GET("/wallets", as("staff-1", entity.RoleStaff, handler.ListMyWallets))

	wallets := []*entity.Wallet{
		{ID: "w-1", OwnerID: "staff-1", Kind: entity.WalletStaff, Balance: decimal.NewFromInt(50)},
		{ID: "w-2", OwnerID: "staff-1", Kind: entity.WalletStaffCommission, Balance: decimal.Zero},
	}
	mockUseCase.On("ListWallets", entity.Actor{ID: "staff-1", Role: entity.RoleStaff}, "staff-1").Return(wallets, nil)

	req := httptest.NewRequest(http.MethodGet, "/wallets", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(2), response["count"])
	mockUseCase.AssertExpectations(t)
}

func TestOpenWallets_OtherUserForbidden(t *testing.T) {
	mockUseCase := new(MockWalletUseCase)
	handler := NewWalletHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.POST("/wallets/:owner_id/open", as("agent-1", entity.RoleAgent, handler.OpenWallets))

	req := httptest.NewRequest(http.MethodPost, "/wallets/agent-2/open", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	mockUseCase.AssertNotCalled(t, "OpenWallets")
}

func TestDeposit(t *testing.T) {
	mockUseCase := new(MockWalletUseCase)
	handler := NewWalletHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.POST("/wallets/:owner_id/deposit", as("admin-1", entity.RoleAdmin, handler.Deposit))

	actor := entity.Actor{ID: "admin-1", Role: entity.RoleAdmin}
	wallet := &entity.Wallet{ID: "w-1", OwnerID: "agent-1", Kind: entity.WalletAgent, Balance: decimal.NewFromInt(250)}
	mockUseCase.On("Deposit", actor, "agent-1", entity.WalletAgent, "250").Return(wallet, nil)

	body := []byte(`{"kind":"agent","amount":"250"}`)
	req := httptest.NewRequest(http.MethodPost, "/wallets/agent-1/deposit", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockUseCase.AssertExpectations(t)
}

func TestGetTransactions_OwnerQuery(t *testing.T) {
	mockUseCase := new(MockWalletUseCase)
	handler := NewWalletHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.GET("/wallets/transactions", as("agent-1", entity.RoleAgent, handler.GetTransactions))

	actor := entity.Actor{ID: "agent-1", Role: entity.RoleAgent}
	mockUseCase.On("GetTransactions", actor, "agent-2", 50, 0).
		Return(nil, entity.ErrUnauthorized.With("cannot view another user's ledger"))

	req := httptest.NewRequest(http.MethodGet, "/wallets/transactions?owner_id=agent-2", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	mockUseCase.AssertExpectations(t)
}
