package usecase

import (
	"context"
	"sync"
	"testing"

	"lotto-settlement/services/settlement/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransfer_StaffToAgentCreditsSenderCommission(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := f.transfers(f.settings())

	staff := f.addUser(t, "staff-1", entity.RoleStaff)
	f.addUser(t, "agent-1", entity.RoleAgent)
	f.fund(t, staff.ID, entity.WalletStaff, "1500")

	transfer, err := uc.Transfer(ctx, staff, TransferRequest{
		RecipientEmail: "agent-1@example.com",
		Amount:         dec("1000"),
		Direction:      entity.StaffToAgent,
	})
	require.NoError(t, err)

	assert.True(t, transfer.Fee.Equal(dec("20")))
	assert.True(t, transfer.TotalDebit.Equal(dec("1000")))
	assert.Equal(t, staff.ID, transfer.CommissionOwnerID)

	assert.True(t, f.balance(t, staff.ID, entity.WalletStaff).Equal(dec("500")))
	assert.True(t, f.balance(t, "agent-1", entity.WalletAgent).Equal(dec("1000")))
	assert.True(t, f.balance(t, staff.ID, entity.WalletStaffCommission).Equal(dec("20")))
	assert.True(t, f.balance(t, "agent-1", entity.WalletAgentCommission).IsZero())

	entries, err := f.store.Repos(ctx).Transactions.ListByReference(entity.ReferenceTransfer, transfer.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestTransfer_AgentToStaffAddsFeeToDebit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := f.transfers(f.settings())

	agent := f.addUser(t, "agent-1", entity.RoleAgent)
	f.addUser(t, "staff-1", entity.RoleStaff)
	f.fund(t, agent.ID, entity.WalletAgent, "1020")

	transfer, err := uc.Transfer(ctx, agent, TransferRequest{
		RecipientEmail: "staff-1@example.com",
		Amount:         dec("1000"),
		Direction:      entity.AgentToStaff,
	})
	require.NoError(t, err)
	assert.True(t, transfer.TotalDebit.Equal(dec("1020")))

	// sender before - after == total debit, recipient after - before == amount
	assert.True(t, f.balance(t, agent.ID, entity.WalletAgent).IsZero())
	assert.True(t, f.balance(t, "staff-1", entity.WalletStaff).Equal(dec("1000")))
	assert.True(t, f.balance(t, "staff-1", entity.WalletStaffCommission).Equal(dec("20")))
	assert.True(t, f.balance(t, agent.ID, entity.WalletAgentCommission).IsZero())
}

func TestTransfer_StaffToStaffCreditsRecipientCommission(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	settings := f.settings()
	settings.rates = entity.CommissionRates{
		entity.StaffTransferRateKey:    dec("5"),
		entity.StaffToStaff.RateKey(): dec("1.5"),
	}
	uc := f.transfers(settings)

	sender := f.addUser(t, "staff-1", entity.RoleStaff)
	f.addUser(t, "staff-2", entity.RoleStaff)
	f.fund(t, sender.ID, entity.WalletStaff, "300")

	transfer, err := uc.Transfer(ctx, sender, TransferRequest{
		RecipientEmail: "STAFF-2@example.com",
		Amount:         dec("200"),
		Direction:      entity.StaffToStaff,
	})
	require.NoError(t, err)
	assert.True(t, transfer.Rate.Equal(dec("1.5")))

	assert.True(t, f.balance(t, sender.ID, entity.WalletStaff).Equal(dec("97")))
	assert.True(t, f.balance(t, "staff-2", entity.WalletStaff).Equal(dec("200")))
	assert.True(t, f.balance(t, "staff-2", entity.WalletStaffCommission).Equal(dec("3")))
	assert.True(t, f.balance(t, sender.ID, entity.WalletStaffCommission).IsZero())
}

func TestTransfer_InsufficientBalanceUsesDirectionalDebit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := f.transfers(f.settings())

	agent := f.addUser(t, "agent-1", entity.RoleAgent)
	f.addUser(t, "staff-1", entity.RoleStaff)
	f.fund(t, agent.ID, entity.WalletAgent, "1010")

	_, err := uc.Transfer(ctx, agent, TransferRequest{
		RecipientEmail: "staff-1@example.com",
		Amount:         dec("1000"),
		Direction:      entity.AgentToStaff,
	})
	assert.ErrorIs(t, err, entity.ErrInsufficientBalance)

	assert.True(t, f.balance(t, agent.ID, entity.WalletAgent).Equal(dec("1010")))
	assert.True(t, f.balance(t, "staff-1", entity.WalletStaff).IsZero())
	assert.True(t, f.balance(t, "staff-1", entity.WalletStaffCommission).IsZero())

	transfers, err := uc.ListTransfers(ctx, agent, agent.ID, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, transfers)
}

func TestTransfer_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := f.transfers(f.settings())

	staff := f.addUser(t, "staff-1", entity.RoleStaff)
	agent := f.addUser(t, "agent-1", entity.RoleAgent)
	f.fund(t, staff.ID, entity.WalletStaff, "100")

	cases := []struct {
		name  string
		actor entity.Actor
		req   TransferRequest
		want  error
	}{
		{"unknown recipient", staff, TransferRequest{"nobody@example.com", dec("10"), entity.StaffToAgent}, entity.ErrRecipientNotFound},
		{"recipient has wrong role", staff, TransferRequest{"staff-1@example.com", dec("10"), entity.StaffToAgent}, entity.ErrRecipientNotFound},
		{"self transfer", staff, TransferRequest{"staff-1@example.com", dec("10"), entity.StaffToStaff}, entity.ErrSelfTransfer},
		{"zero amount", staff, TransferRequest{"agent-1@example.com", dec("0"), entity.StaffToAgent}, entity.ErrInvalidAmount},
		{"negative amount", staff, TransferRequest{"agent-1@example.com", dec("-3"), entity.StaffToAgent}, entity.ErrInvalidAmount},
		{"sender role mismatch", agent, TransferRequest{"agent-1@example.com", dec("10"), entity.StaffToAgent}, entity.ErrUnauthorized},
		{"unknown direction", staff, TransferRequest{"agent-1@example.com", dec("10"), entity.Direction("up")}, entity.ErrInvalidDirection},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Transfer(ctx, tc.actor, tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	assert.True(t, f.balance(t, staff.ID, entity.WalletStaff).Equal(dec("100")))
}

func TestTransfer_OpposingStaffTransfersBothSettle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	settings := f.settings()
	settings.rates = entity.CommissionRates{entity.StaffToStaff.RateKey(): dec("2")}
	uc := f.transfers(settings)

	a := f.addUser(t, "staff-a", entity.RoleStaff)
	b := f.addUser(t, "staff-b", entity.RoleStaff)
	f.fund(t, a.ID, entity.WalletStaff, "500")
	f.fund(t, b.ID, entity.WalletStaff, "500")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, pair := range [][2]entity.Actor{{a, b}, {b, a}} {
		wg.Add(1)
		go func(i int, from, to entity.Actor) {
			defer wg.Done()
			_, errs[i] = uc.Transfer(ctx, from, TransferRequest{
				RecipientEmail: to.ID + "@example.com",
				Amount:         dec("100"),
				Direction:      entity.StaffToStaff,
			})
		}(i, pair[0], pair[1])
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	for _, owner := range []string{a.ID, b.ID} {
		assert.True(t, f.balance(t, owner, entity.WalletStaff).Equal(dec("498")), owner)
		assert.True(t, f.balance(t, owner, entity.WalletStaffCommission).Equal(dec("2")), owner)
	}
}
