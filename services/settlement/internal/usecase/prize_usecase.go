package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"lotto-settlement/pkg/config"
	"lotto-settlement/pkg/logger"
	"lotto-settlement/services/settlement/internal/entity"
	"lotto-settlement/services/settlement/internal/repo/persistent"

	"github.com/shopspring/decimal"
)

// PrizeUseCase is the prize engine.
type PrizeUseCase interface {
	// CalculateMatchingStats counts active tickets per match count without writing anything.
	CalculateMatchingStats(ctx context.Context, lottoID string, winningNumbers []int) (entity.MatchingStats, error)
	// CalculatePrizes settles every active ticket of an ended lotto and records
	// the result. A second run for the same lotto fails with
	// ErrPrizesAlreadyCalculated and changes nothing.
	CalculatePrizes(ctx context.Context, lottoID string, draw entity.Draw, calculatedBy, requestID string) (*entity.PrizeResult, error)
	GetResult(ctx context.Context, lottoID string) (*entity.PrizeResult, error)
}

type prizeUseCase struct {
	store     persistent.Store
	archive   ArchiveStore
	publisher EventPublisher
	policy    *config.Policy
	logger    *logger.Logger
	now       func() time.Time
}

// NewPrizeUseCase builds the prize engine. archive and publisher may be nil.
func NewPrizeUseCase(store persistent.Store, archive ArchiveStore, publisher EventPublisher, policy *config.Policy, logger *logger.Logger) PrizeUseCase {
	return &prizeUseCase{
		store:     store,
		archive:   archive,
		publisher: publisher,
		policy:    policy,
		logger:    logger,
		now:       time.Now,
	}
}

func (uc *prizeUseCase) CalculateMatchingStats(ctx context.Context, lottoID string, winningNumbers []int) (entity.MatchingStats, error) {
	if err := entity.ValidateWinningNumbers(winningNumbers, uc.policy.MinNumber, uc.policy.MaxNumber); err != nil {
		return nil, err
	}
	repos := uc.store.Repos(ctx)
	if _, err := repos.Lottos.Get(lottoID); err != nil {
		return nil, fail(uc.logger, "get lotto", err)
	}
	participations, err := repos.Participations.ListByLotto(lottoID, entity.ParticipationActive)
	if err != nil {
		return nil, fail(uc.logger, "list participations", err)
	}

	stats := entity.MatchingStats{}
	for _, p := range participations {
		stats[entity.MatchCount(p.SelectedNumbers, winningNumbers)]++
	}
	return stats, nil
}

func (uc *prizeUseCase) CalculatePrizes(ctx context.Context, lottoID string, draw entity.Draw, calculatedBy, requestID string) (*entity.PrizeResult, error) {
	if err := entity.ValidateDraw(draw, uc.policy.MinNumber, uc.policy.MaxNumber); err != nil {
		return nil, err
	}

	var result *entity.PrizeResult
	err := uc.store.Atomic(ctx, func(r persistent.Repositories) error {
		lotto, err := r.Lottos.Get(lottoID)
		if err != nil {
			return err
		}
		now := uc.now()
		if lotto.PrizeCalculated {
			return entity.ErrPrizesAlreadyCalculated
		}
		if !lotto.HasEnded(now) {
			return entity.ErrDrawNotEnded.With("ends at %s", lotto.EndDate.Format(time.RFC3339))
		}

		participations, err := r.Participations.ListByLotto(lottoID, entity.ParticipationActive)
		if err != nil {
			return err
		}

		winners := make([]entity.Winner, 0)
		total := decimal.Zero
		for _, p := range participations {
			matched := entity.MatchCount(p.SelectedNumbers, draw.WinningNumbers)
			prize := draw.PrizeFor(matched)

			p.MatchedNumbers = matched
			p.WinAmount = prize
			p.IsWinner = prize.IsPositive()
			p.IsLost = !p.IsWinner
			p.Status = entity.ParticipationCompleted
			if err := r.Participations.Update(p); err != nil {
				return err
			}

			if p.IsWinner {
				winners = append(winners, entity.Winner{
					ParticipationID: p.ID,
					UserID:          p.UserID,
					MatchedNumbers:  matched,
					Prize:           prize,
				})
				total = total.Add(prize)
			}
		}

		lotto.PrizeCalculated = true
		lotto.Status = entity.LottoCompleted
		lotto.WinningNumbers = append([]int(nil), draw.WinningNumbers...)
		if err := r.Lottos.Update(lotto); err != nil {
			return err
		}

		result = &entity.PrizeResult{
			LottoID:           lottoID,
			CalculationDate:   now,
			WinningNumbers:    lotto.WinningNumbers,
			JackpotAmount:     draw.JackpotAmount,
			PrizeDistribution: draw.PrizeDistribution,
			Winners:           winners,
			TicketCount:       len(participations),
			TotalPayout:       total,
			CalculatedBy:      calculatedBy,
			ApprovalRequestID: requestID,
		}
		return r.Prizes.Create(result)
	})
	if err != nil {
		prizeRunsTotal.WithLabelValues(runOutcome(err)).Inc()
		return nil, fail(uc.logger, "calculate prizes", err)
	}

	prizeRunsTotal.WithLabelValues("succeeded").Inc()
	uc.logger.Info("Prizes calculated for lotto %s by %s: %d tickets, %d winners, payout=%s",
		lottoID, calculatedBy, result.TicketCount, len(result.Winners), result.TotalPayout.StringFixed(2))

	uc.archiveResult(ctx, result)
	notify(uc.publisher, uc.logger, EventPrizesCalculated, map[string]interface{}{
		"lotto_id":     lottoID,
		"result_id":    result.ID,
		"winners":      len(result.Winners),
		"total_payout": result.TotalPayout.StringFixed(2),
	})
	return result, nil
}

func (uc *prizeUseCase) GetResult(ctx context.Context, lottoID string) (*entity.PrizeResult, error) {
	result, err := uc.store.Repos(ctx).Prizes.GetByLotto(lottoID)
	if err != nil {
		return nil, fail(uc.logger, "get prize result", err)
	}
	return result, nil
}

// archiveResult uploads the committed result as JSON. Failures are logged only.
func (uc *prizeUseCase) archiveResult(ctx context.Context, result *entity.PrizeResult) {
	if uc.archive == nil {
		return
	}
	body, err := json.Marshal(result)
	if err != nil {
		uc.logger.Warn("Failed to encode prize result %s: %v", result.ID, err)
		return
	}
	url, err := uc.archive.UploadFile(fmt.Sprintf("prize-results/%s.json", result.LottoID), bytes.NewReader(body), "application/json")
	if err != nil {
		uc.logger.Warn("Failed to archive prize result %s: %v", result.ID, err)
		return
	}
	if err := uc.store.Repos(ctx).Prizes.SetArchiveURL(result.ID, url); err != nil {
		uc.logger.Warn("Failed to record archive url for %s: %v", result.ID, err)
		return
	}
	result.ArchiveURL = url
}

func runOutcome(err error) string {
	if entity.KindOf(err) != "" {
		return "rejected"
	}
	return "failed"
}
