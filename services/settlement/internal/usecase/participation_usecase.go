package usecase

import (
	"context"
	"fmt"
	"time"

	"lotto-settlement/pkg/config"
	"lotto-settlement/pkg/logger"
	"lotto-settlement/services/settlement/internal/entity"
	"lotto-settlement/services/settlement/internal/repo/persistent"

	"github.com/google/uuid"
)

type ParticipationUseCase interface {
	Participate(ctx context.Context, actor entity.Actor, lottoID string, numbers []int) (*entity.Participation, error)
	Cancel(ctx context.Context, actor entity.Actor, participationID string) (*entity.Participation, error)
	// PayPrize credits a completed winning ticket's prize to its purchaser.
	PayPrize(ctx context.Context, actor entity.Actor, participationID string) (*entity.Participation, error)
	Get(ctx context.Context, actor entity.Actor, participationID string) (*entity.Participation, error)
	ListByLotto(ctx context.Context, actor entity.Actor, lottoID string) ([]*entity.Participation, error)
	ListByUser(ctx context.Context, actor entity.Actor, userID string, limit, offset int) ([]*entity.Participation, error)
}

type participationUseCase struct {
	store  persistent.Store
	rates  CommissionRateProvider
	fees   CancellationFeeProvider
	policy *config.Policy
	logger *logger.Logger
	now    func() time.Time
}

func NewParticipationUseCase(store persistent.Store, rates CommissionRateProvider, fees CancellationFeeProvider, policy *config.Policy, logger *logger.Logger) ParticipationUseCase {
	return &participationUseCase{
		store:  store,
		rates:  rates,
		fees:   fees,
		policy: policy,
		logger: logger,
		now:    time.Now,
	}
}

func (uc *participationUseCase) Participate(ctx context.Context, actor entity.Actor, lottoID string, numbers []int) (*entity.Participation, error) {
	if err := actor.Require(entity.CapParticipate); err != nil {
		return nil, err
	}
	kind, ok := entity.PrimaryWalletKind(actor.Role)
	if !ok {
		return nil, entity.ErrUnauthorized.With("%s holds no wallet", actor.Role)
	}
	rate := uc.rates.CommissionRates(ctx).Rate(uc.policy.DefaultCommissionRate, entity.LottoSubmissionRateKey)

	var participation *entity.Participation
	err := uc.store.Atomic(ctx, func(r persistent.Repositories) error {
		lotto, err := r.Lottos.Get(lottoID)
		if err != nil {
			return err
		}

		now := uc.now()
		switch {
		case !lotto.IsEnabled:
			return entity.ErrLottoDisabled
		case now.Before(lotto.StartDate):
			return entity.ErrLottoNotStarted.With("opens at %s", lotto.StartDate.Format(time.RFC3339))
		case lotto.HasEnded(now) || lotto.PrizeCalculated:
			return entity.ErrLottoEnded
		}
		if err := entity.ValidateSelection(numbers, lotto.NumbersToSelect, uc.policy.MinNumber, uc.policy.MaxNumber); err != nil {
			return err
		}

		participation = &entity.Participation{
			ID:                   uuid.New().String(),
			LottoID:              lotto.ID,
			UserID:               actor.ID,
			UserRole:             actor.Role,
			WalletKind:           kind,
			SelectedNumbers:      append([]int(nil), numbers...),
			TicketPrice:          lotto.TicketPrice,
			Currency:             lotto.Currency,
			PurchaseDate:         now,
			Status:               entity.ParticipationActive,
			LottoEventName:       lotto.EventName,
			DrawEndDate:          lotto.EndDate,
			CommissionRate:       rate,
			SubmissionCommission: entity.PercentOf(lotto.TicketPrice, rate),
		}

		if _, err := applyDelta(r, actor.ID, kind, lotto.TicketPrice.Neg(), entity.Transaction{
			Type:          entity.TransactionDebit,
			ReferenceType: entity.ReferenceTicketPurchase,
			ReferenceID:   participation.ID,
			Description:   fmt.Sprintf("ticket for %s", lotto.EventName),
		}); err != nil {
			return err
		}
		return r.Participations.Create(participation)
	})
	if err != nil {
		return nil, fail(uc.logger, "participate", err)
	}

	ticketsTotal.WithLabelValues("purchased").Inc()
	return participation, nil
}

func (uc *participationUseCase) Cancel(ctx context.Context, actor entity.Actor, participationID string) (*entity.Participation, error) {
	fee := uc.fees.CancellationFee(ctx)

	// The lotto is locked before the ticket, the same order prize
	// calculation uses.
	ticket, err := uc.store.Repos(ctx).Participations.Get(participationID)
	if err != nil {
		return nil, fail(uc.logger, "get participation", err)
	}

	var cancelled *entity.Participation
	err = uc.store.Atomic(ctx, func(r persistent.Repositories) error {
		lotto, err := r.Lottos.Get(ticket.LottoID)
		if err != nil {
			return err
		}
		p, err := r.Participations.Get(participationID)
		if err != nil {
			return err
		}
		switch p.Status {
		case entity.ParticipationCancelled:
			return entity.ErrAlreadyCancelled
		case entity.ParticipationPaid:
			return entity.ErrAlreadyPaid
		case entity.ParticipationCompleted:
			return entity.ErrLottoEnded.With("draw already settled")
		}

		now := uc.now()
		if age := now.Sub(p.PurchaseDate); age > uc.policy.CancellationWindow {
			return entity.ErrCancellationWindowExpired.With("purchased %s ago", age.Truncate(time.Second))
		}
		if lotto.HasEnded(now) {
			return entity.ErrLottoEnded
		}
		if !entity.CanCancelTicket(actor, p) {
			return entity.ErrUnauthorized.With("%s cannot cancel tickets", actor.Role)
		}

		refund, retained := entity.CancellationRefund(p.TicketPrice, fee)
		if refund.IsPositive() {
			if _, err := applyDelta(r, p.UserID, p.WalletKind, refund, entity.Transaction{
				Type:          entity.TransactionCredit,
				ReferenceType: entity.ReferenceTicketRefund,
				ReferenceID:   p.ID,
				FeeAmount:     retained,
				Description:   fmt.Sprintf("refund for %s", p.LottoEventName),
			}); err != nil {
				return err
			}
		}

		p.Status = entity.ParticipationCancelled
		p.CancelledBy = actor.ID
		p.CancelledAt = &now
		p.CancellationFee = retained
		p.RefundAmount = refund
		if err := r.Participations.Update(p); err != nil {
			return err
		}
		cancelled = p
		return nil
	})
	if err != nil {
		return nil, fail(uc.logger, "cancel participation", err)
	}

	ticketsTotal.WithLabelValues("cancelled").Inc()
	uc.logger.Info("Participation %s cancelled by %s, refund=%s fee=%s", cancelled.ID, actor.ID, cancelled.RefundAmount.StringFixed(2), cancelled.CancellationFee.StringFixed(2))
	return cancelled, nil
}

func (uc *participationUseCase) PayPrize(ctx context.Context, actor entity.Actor, participationID string) (*entity.Participation, error) {
	if err := actor.Require(entity.CapPayPrize); err != nil {
		return nil, err
	}

	var paid *entity.Participation
	err := uc.store.Atomic(ctx, func(r persistent.Repositories) error {
		p, err := r.Participations.Get(participationID)
		if err != nil {
			return err
		}
		switch {
		case p.Status == entity.ParticipationPaid:
			return entity.ErrAlreadyPaid
		case p.Status == entity.ParticipationCancelled:
			return entity.ErrAlreadyCancelled
		case p.Status != entity.ParticipationCompleted || !p.IsWinner || !p.WinAmount.IsPositive():
			return entity.ErrNotWinner
		}

		if _, err := applyDelta(r, p.UserID, p.WalletKind, p.WinAmount, entity.Transaction{
			Type:          entity.TransactionCredit,
			ReferenceType: entity.ReferencePrizePayout,
			ReferenceID:   p.ID,
			Description:   fmt.Sprintf("prize for %d matches in %s", p.MatchedNumbers, p.LottoEventName),
		}); err != nil {
			return err
		}

		now := uc.now()
		p.Status = entity.ParticipationPaid
		p.PaidBy = actor.ID
		p.PaidAt = &now
		if err := r.Participations.Update(p); err != nil {
			return err
		}
		paid = p
		return nil
	})
	if err != nil {
		return nil, fail(uc.logger, "pay prize", err)
	}

	ticketsTotal.WithLabelValues("paid").Inc()
	uc.logger.Info("Prize %s paid on participation %s by %s", paid.WinAmount.StringFixed(2), paid.ID, actor.ID)
	return paid, nil
}

func (uc *participationUseCase) Get(ctx context.Context, actor entity.Actor, participationID string) (*entity.Participation, error) {
	p, err := uc.store.Repos(ctx).Participations.Get(participationID)
	if err != nil {
		return nil, fail(uc.logger, "get participation", err)
	}
	if !canViewTickets(actor, p.UserID) {
		return nil, entity.ErrUnauthorized.With("cannot view participation of another user")
	}
	return p, nil
}

func (uc *participationUseCase) ListByLotto(ctx context.Context, actor entity.Actor, lottoID string) ([]*entity.Participation, error) {
	if !canViewTickets(actor, "") {
		return nil, entity.ErrUnauthorized.With("cannot list participations of a lotto")
	}
	participations, err := uc.store.Repos(ctx).Participations.ListByLotto(lottoID)
	if err != nil {
		return nil, fail(uc.logger, "list participations", err)
	}
	return participations, nil
}

func (uc *participationUseCase) ListByUser(ctx context.Context, actor entity.Actor, userID string, limit, offset int) ([]*entity.Participation, error) {
	if !canViewTickets(actor, userID) {
		return nil, entity.ErrUnauthorized.With("cannot view participations of another user")
	}
	participations, err := uc.store.Repos(ctx).Participations.ListByUser(userID, limit, offset)
	if err != nil {
		return nil, fail(uc.logger, "list participations", err)
	}
	return participations, nil
}

// canViewTickets lets the purchaser, the viewers of everything and the
// roles that settle tickets read them.
func canViewTickets(actor entity.Actor, ownerID string) bool {
	return (ownerID != "" && entity.CanView(actor, ownerID)) || actor.Can(entity.CapViewAll) || actor.Can(entity.CapPayPrize)
}
