package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUser_BeforeCreate(t *testing.T) {
	user := &User{
		Email:    "test@example.com",
		Username: "testuser",
		Password: "password",
		Role:     RoleAgent,
		IsActive: true,
	}

	// BeforeCreate should set ID if empty
	err := user.BeforeCreate(nil)
	assert.NoError(t, err)
	assert.NotEmpty(t, user.ID)
}

func TestUser_BeforeCreate_WithID(t *testing.T) {
	existingID := "existing-id-123"
	user := &User{
		ID:       existingID,
		Email:    "test@example.com",
		Username: "testuser",
		Password: "password",
	}

	err := user.BeforeCreate(nil)
	assert.NoError(t, err)
	// ID should remain unchanged if already set
	assert.Equal(t, existingID, user.ID)
}

func TestWallet_BeforeCreate(t *testing.T) {
	wallet := &Wallet{OwnerID: "user-123", Kind: WalletAgent}
	assert.NoError(t, wallet.BeforeCreate(nil))
	assert.NotEmpty(t, wallet.ID)

	entry := &Transaction{ID: "tx-1"}
	assert.NoError(t, entry.BeforeCreate(nil))
	assert.Equal(t, "tx-1", entry.ID)
}

func TestWalletKindsFor(t *testing.T) {
	assert.Equal(t, []WalletKind{WalletAgent, WalletAgentCommission}, WalletKindsFor(RoleAgent))
	assert.Equal(t, []WalletKind{WalletStaff, WalletStaffCommission}, WalletKindsFor(RoleStaff))
	assert.Empty(t, WalletKindsFor(RoleManager))
	assert.Empty(t, WalletKindsFor(RoleExternal))
}

func TestLotto_StatusAt(t *testing.T) {
	start := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)
	lotto := &Lotto{StartDate: start, EndDate: start.Add(24 * time.Hour)}

	assert.Equal(t, LottoPending, lotto.StatusAt(start.Add(-time.Second)))
	assert.Equal(t, LottoActive, lotto.StatusAt(start))
	assert.Equal(t, LottoCompleted, lotto.StatusAt(start.Add(24*time.Hour)))
}
