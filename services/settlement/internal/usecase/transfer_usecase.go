package usecase

import (
	"context"
	"fmt"
	"strings"

	"lotto-settlement/pkg/config"
	"lotto-settlement/pkg/logger"
	"lotto-settlement/services/settlement/internal/entity"
	"lotto-settlement/services/settlement/internal/repo/persistent"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransferRequest struct {
	RecipientEmail string
	Amount         decimal.Decimal
	Direction      entity.Direction
}

type TransferUseCase interface {
	// Quote prices a transfer with the current commission table without moving funds.
	Quote(ctx context.Context, direction entity.Direction, amount decimal.Decimal) (entity.TransferQuote, error)
	Transfer(ctx context.Context, actor entity.Actor, req TransferRequest) (*entity.Transfer, error)
	ListTransfers(ctx context.Context, actor entity.Actor, ownerID string, limit, offset int) ([]*entity.Transfer, error)
}

type transferUseCase struct {
	store  persistent.Store
	rates  CommissionRateProvider
	policy *config.Policy
	logger *logger.Logger
}

func NewTransferUseCase(store persistent.Store, rates CommissionRateProvider, policy *config.Policy, logger *logger.Logger) TransferUseCase {
	return &transferUseCase{
		store:  store,
		rates:  rates,
		policy: policy,
		logger: logger,
	}
}

func (uc *transferUseCase) Quote(ctx context.Context, direction entity.Direction, amount decimal.Decimal) (entity.TransferQuote, error) {
	rate := uc.rates.CommissionRates(ctx).Rate(uc.policy.DefaultCommissionRate, direction.RateKey(), entity.StaffTransferRateKey)
	return entity.QuoteTransfer(direction, amount, rate)
}

func (uc *transferUseCase) Transfer(ctx context.Context, actor entity.Actor, req TransferRequest) (*entity.Transfer, error) {
	rule, ok := req.Direction.Rule()
	if !ok {
		return nil, entity.ErrInvalidDirection.With("%q", req.Direction)
	}
	if actor.Role != rule.SenderRole {
		return nil, entity.ErrUnauthorized.With("%s cannot send %s", actor.Role, req.Direction)
	}
	if !req.Amount.IsPositive() {
		return nil, entity.ErrInvalidAmount
	}

	recipient, err := uc.resolveRecipient(ctx, req.RecipientEmail, rule.RecipientRole)
	if err != nil {
		return nil, err
	}
	if recipient.ID == actor.ID {
		return nil, entity.ErrSelfTransfer
	}

	quote, err := uc.Quote(ctx, req.Direction, req.Amount)
	if err != nil {
		return nil, err
	}

	transfer := &entity.Transfer{
		ID:             uuid.New().String(),
		Direction:      req.Direction,
		FromOwnerID:    actor.ID,
		ToOwnerID:      recipient.ID,
		RecipientEmail: recipient.Email,
		Amount:         quote.Amount,
		Fee:            quote.Fee,
		TotalDebit:     quote.TotalDebit,
		Rate:           quote.Rate,
	}

	commissionOwner, commissionRole := recipient.ID, rule.RecipientRole
	if quote.FeeToSender {
		commissionOwner, commissionRole = actor.ID, rule.SenderRole
	}
	transfer.CommissionOwnerID = commissionOwner

	locks := []walletKey{{actor.ID, rule.SenderKind}, {recipient.ID, rule.RecipientKind}}
	if quote.Fee.IsPositive() {
		locks = append(locks, walletKey{commissionOwner, entity.CommissionKind(commissionRole)})
	}

	err = uc.store.Atomic(ctx, func(r persistent.Repositories) error {
		if err := lockWallets(r, locks...); err != nil {
			return err
		}
		// The debit goes first so an insufficient balance aborts before any credit.
		if _, err := applyDelta(r, actor.ID, rule.SenderKind, quote.TotalDebit.Neg(), entity.Transaction{
			Type:          entity.TransactionDebit,
			ReferenceType: entity.ReferenceTransfer,
			ReferenceID:   transfer.ID,
			TransferTo:    recipient.ID,
			FeeAmount:     quote.TotalDebit.Sub(quote.Amount),
			Description:   fmt.Sprintf("%s transfer to %s", req.Direction, recipient.Email),
		}); err != nil {
			return err
		}

		if _, err := applyDelta(r, recipient.ID, rule.RecipientKind, quote.CreditTotal, entity.Transaction{
			Type:          entity.TransactionCredit,
			ReferenceType: entity.ReferenceTransfer,
			ReferenceID:   transfer.ID,
			TransferFrom:  actor.ID,
			Description:   fmt.Sprintf("%s transfer from %s", req.Direction, actor.ID),
		}); err != nil {
			return err
		}

		if quote.Fee.IsPositive() {
			commissionWallet, err := applyDelta(r, commissionOwner, entity.CommissionKind(commissionRole), quote.Fee, entity.Transaction{
				Type:          entity.TransactionCommission,
				ReferenceType: entity.ReferenceTransfer,
				ReferenceID:   transfer.ID,
				TransferFrom:  actor.ID,
				TransferTo:    recipient.ID,
				FeeAmount:     quote.Fee,
				Description:   fmt.Sprintf("%s%% commission on %s", quote.Rate.String(), req.Direction),
			})
			if err != nil {
				return err
			}
			transfer.CommissionWalletID = commissionWallet.ID
		}

		return r.Transfers.Create(transfer)
	})
	if err != nil {
		return nil, fail(uc.logger, "transfer", err)
	}

	transfersTotal.WithLabelValues(string(req.Direction)).Inc()
	transferVolume.WithLabelValues(string(req.Direction)).Add(quote.Amount.InexactFloat64())
	uc.logger.Info("Transfer %s: %s -> %s amount=%s fee=%s", transfer.ID, actor.ID, recipient.ID, quote.Amount.StringFixed(2), quote.Fee.StringFixed(2))
	return transfer, nil
}

func (uc *transferUseCase) ListTransfers(ctx context.Context, actor entity.Actor, ownerID string, limit, offset int) ([]*entity.Transfer, error) {
	if !entity.CanView(actor, ownerID) {
		return nil, entity.ErrUnauthorized.With("cannot view transfers of another user")
	}
	transfers, err := uc.store.Repos(ctx).Transfers.ListByOwner(ownerID, limit, offset)
	if err != nil {
		return nil, fail(uc.logger, "list transfers", err)
	}
	return transfers, nil
}

// resolveRecipient requires exactly one active user with email and role.
func (uc *transferUseCase) resolveRecipient(ctx context.Context, email string, role entity.Role) (*entity.DirectoryUser, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, entity.ErrRecipientNotFound.With("recipient email is required")
	}
	users, err := uc.store.Repos(ctx).Users.FindByEmailAndRole(email, role)
	if err != nil {
		return nil, fail(uc.logger, "resolve recipient", err)
	}
	switch len(users) {
	case 0:
		return nil, entity.ErrRecipientNotFound.With("no %s with email %s", role, email)
	case 1:
		return users[0], nil
	default:
		return nil, entity.ErrRecipientNotFound.With("email %s matches more than one %s", email, role)
	}
}
