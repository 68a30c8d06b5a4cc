package usecase

import (
	"context"
	"fmt"
	"sort"

	"lotto-settlement/pkg/logger"
	"lotto-settlement/services/settlement/internal/entity"
	"lotto-settlement/services/settlement/internal/repo/persistent"

	"github.com/shopspring/decimal"
)

type WalletUseCase interface {
	GetWallet(ctx context.Context, actor entity.Actor, ownerID string, kind entity.WalletKind) (*entity.Wallet, error)
	ListWallets(ctx context.Context, actor entity.Actor, ownerID string) ([]*entity.Wallet, error)
	// OpenWallets creates the wallets the owner's role holds. Safe to repeat.
	OpenWallets(ctx context.Context, ownerID string) ([]*entity.Wallet, error)
	Deposit(ctx context.Context, actor entity.Actor, ownerID string, kind entity.WalletKind, amount decimal.Decimal) (*entity.Wallet, error)
	GetTransactions(ctx context.Context, actor entity.Actor, ownerID string, limit, offset int) ([]*entity.Transaction, error)
}

type walletUseCase struct {
	store  persistent.Store
	logger *logger.Logger
}

func NewWalletUseCase(store persistent.Store, logger *logger.Logger) WalletUseCase {
	return &walletUseCase{
		store:  store,
		logger: logger,
	}
}

func (uc *walletUseCase) GetWallet(ctx context.Context, actor entity.Actor, ownerID string, kind entity.WalletKind) (*entity.Wallet, error) {
	if !entity.CanView(actor, ownerID) {
		return nil, entity.ErrUnauthorized.With("cannot view wallets of another user")
	}
	if !kind.Valid() {
		return nil, entity.ErrInvalidWallet.With("%q", kind)
	}
	wallet, err := uc.store.Repos(ctx).Wallets.Get(ownerID, kind)
	if err != nil {
		return nil, fail(uc.logger, "get wallet", err)
	}
	return wallet, nil
}

func (uc *walletUseCase) ListWallets(ctx context.Context, actor entity.Actor, ownerID string) ([]*entity.Wallet, error) {
	if !entity.CanView(actor, ownerID) {
		return nil, entity.ErrUnauthorized.With("cannot view wallets of another user")
	}
	wallets, err := uc.store.Repos(ctx).Wallets.ListByOwner(ownerID)
	if err != nil {
		return nil, fail(uc.logger, "list wallets", err)
	}
	return wallets, nil
}

func (uc *walletUseCase) OpenWallets(ctx context.Context, ownerID string) ([]*entity.Wallet, error) {
	repos := uc.store.Repos(ctx)
	user, err := repos.Users.GetByID(ownerID)
	if err != nil {
		return nil, fail(uc.logger, "look up wallet owner", err)
	}

	for _, kind := range entity.WalletKindsFor(user.Role) {
		if err := repos.Wallets.CreateIfMissing(ownerID, kind); err != nil {
			return nil, fail(uc.logger, "open wallet", err)
		}
	}

	wallets, err := repos.Wallets.ListByOwner(ownerID)
	if err != nil {
		return nil, fail(uc.logger, "list wallets", err)
	}
	uc.logger.Info("Opened %d wallets for %s (%s)", len(wallets), ownerID, user.Role)
	return wallets, nil
}

func (uc *walletUseCase) Deposit(ctx context.Context, actor entity.Actor, ownerID string, kind entity.WalletKind, amount decimal.Decimal) (*entity.Wallet, error) {
	if err := actor.Require(entity.CapDeposit); err != nil {
		return nil, err
	}
	if !kind.Valid() {
		return nil, entity.ErrInvalidWallet.With("%q", kind)
	}
	if !amount.IsPositive() {
		return nil, entity.ErrInvalidAmount
	}

	var wallet *entity.Wallet
	err := uc.store.Atomic(ctx, func(r persistent.Repositories) error {
		var err error
		wallet, err = applyDelta(r, ownerID, kind, amount, entity.Transaction{
			Type:          entity.TransactionCredit,
			ReferenceType: entity.ReferenceDeposit,
			Description:   fmt.Sprintf("deposit by %s", actor.ID),
		})
		return err
	})
	if err != nil {
		return nil, fail(uc.logger, "deposit", err)
	}
	return wallet, nil
}

func (uc *walletUseCase) GetTransactions(ctx context.Context, actor entity.Actor, ownerID string, limit, offset int) ([]*entity.Transaction, error) {
	if !entity.CanView(actor, ownerID) {
		return nil, entity.ErrUnauthorized.With("cannot view transactions of another user")
	}
	transactions, err := uc.store.Repos(ctx).Transactions.ListByOwner(ownerID, limit, offset)
	if err != nil {
		return nil, fail(uc.logger, "get transactions", err)
	}
	return transactions, nil
}

// applyDelta moves the (owner, kind) wallet by delta and writes the paired
// ledger entry. It must run inside Store.Atomic so sibling mutations of the
// same operation commit or abort together. A missing wallet aborts with
// ErrWalletNotFound and a debit below zero with ErrInsufficientBalance,
// both before anything is written.
func applyDelta(r persistent.Repositories, ownerID string, kind entity.WalletKind, delta decimal.Decimal, entry entity.Transaction) (*entity.Wallet, error) {
	wallet, err := r.Wallets.Get(ownerID, kind)
	if err != nil {
		return nil, err
	}

	before := wallet.Balance
	after := before.Add(delta)
	if after.IsNegative() {
		return nil, entity.ErrInsufficientBalance.With("%s wallet has %s, needs %s", kind, before.StringFixed(2), delta.Neg().StringFixed(2))
	}

	if err := r.Wallets.UpdateBalance(wallet, after); err != nil {
		return nil, err
	}

	entry.WalletID = wallet.ID
	entry.OwnerID = ownerID
	entry.WalletKind = kind
	entry.Amount = delta.Abs()
	entry.BalanceBefore = before
	entry.BalanceAfter = after
	if entry.Status == "" {
		entry.Status = entity.TransactionCompleted
	}
	if err := r.Transactions.Create(&entry); err != nil {
		return nil, err
	}

	wallet.Balance = after
	return wallet, nil
}

type walletKey struct {
	ownerID string
	kind    entity.WalletKind
}

// lockWallets reads each distinct wallet once in (owner, kind) order, taking
// its row lock inside Store.Atomic. Operations touching several wallets call
// it first so opposing transfers queue instead of deadlocking.
func lockWallets(r persistent.Repositories, keys ...walletKey) error {
	sorted := append([]walletKey(nil), keys...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].ownerID != sorted[j].ownerID {
			return sorted[i].ownerID < sorted[j].ownerID
		}
		return sorted[i].kind < sorted[j].kind
	})
	for i, k := range sorted {
		if i > 0 && k == sorted[i-1] {
			continue
		}
		if _, err := r.Wallets.Get(k.ownerID, k.kind); err != nil {
			return err
		}
	}
	return nil
}
