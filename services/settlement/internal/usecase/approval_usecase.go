package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"lotto-settlement/pkg/config"
	"lotto-settlement/pkg/logger"
	"lotto-settlement/services/settlement/internal/entity"
	"lotto-settlement/services/settlement/internal/repo/persistent"
)

// SubmitResult holds the outcome of a prize submission: a settled result for
// callers who bypass approval, otherwise the pending request.
type SubmitResult struct {
	Request *entity.ApprovalRequest `json:"request,omitempty"`
	Result  *entity.PrizeResult     `json:"result,omitempty"`
}

type ApprovalUseCase interface {
	// SubmitPrizes is the single entry point for committing a draw.
	SubmitPrizes(ctx context.Context, actor entity.Actor, lottoID string, draw entity.Draw) (*SubmitResult, error)
	CreateRequest(ctx context.Context, lottoID string, draw entity.Draw, requestedBy string) (*entity.ApprovalRequest, error)
	Vote(ctx context.Context, actor entity.Actor, requestID string, decision entity.Decision, comment string) (*entity.ApprovalRequest, error)
	Comment(ctx context.Context, actor entity.Actor, requestID, text string) (*entity.ApprovalRequest, error)
	// Process reruns the prize engine for an approved request whose run failed.
	Process(ctx context.Context, actor entity.Actor, requestID string) (*entity.ApprovalRequest, error)
	Get(ctx context.Context, actor entity.Actor, requestID string) (*entity.ApprovalRequest, error)
	List(ctx context.Context, actor entity.Actor, status entity.ApprovalStatus, limit, offset int) ([]*entity.ApprovalRequest, error)
}

type approvalUseCase struct {
	store     persistent.Store
	prizes    PrizeUseCase
	publisher EventPublisher
	policy    *config.Policy
	logger    *logger.Logger
	now       func() time.Time
}

func NewApprovalUseCase(store persistent.Store, prizes PrizeUseCase, publisher EventPublisher, policy *config.Policy, logger *logger.Logger) ApprovalUseCase {
	return &approvalUseCase{
		store:     store,
		prizes:    prizes,
		publisher: publisher,
		policy:    policy,
		logger:    logger,
		now:       time.Now,
	}
}

func (uc *approvalUseCase) SubmitPrizes(ctx context.Context, actor entity.Actor, lottoID string, draw entity.Draw) (*SubmitResult, error) {
	if err := actor.Require(entity.CapSubmitPrizes); err != nil {
		return nil, err
	}
	if err := entity.ValidateDraw(draw, uc.policy.MinNumber, uc.policy.MaxNumber); err != nil {
		return nil, err
	}

	lotto, err := uc.store.Repos(ctx).Lottos.Get(lottoID)
	if err != nil {
		return nil, fail(uc.logger, "get lotto", err)
	}
	if lotto.PrizeCalculated {
		return nil, entity.ErrPrizesAlreadyCalculated
	}
	if !lotto.HasEnded(uc.now()) {
		return nil, entity.ErrDrawNotEnded.With("ends at %s", lotto.EndDate.Format(time.RFC3339))
	}

	stats, err := uc.prizes.CalculateMatchingStats(ctx, lottoID, draw.WinningNumbers)
	if err != nil {
		return nil, err
	}
	draw.TicketStats = stats

	if actor.Can(entity.CapBypassApproval) {
		// An open request must be decided before a direct run.
		pending, err := uc.store.Repos(ctx).Approvals.HasPending(lottoID)
		if err != nil {
			return nil, fail(uc.logger, "check pending approvals", err)
		}
		if pending {
			return nil, entity.ErrPendingRequestExists.With("reject it before settling directly")
		}
		result, err := uc.prizes.CalculatePrizes(ctx, lottoID, draw, actor.ID, "")
		if err != nil {
			return nil, err
		}
		return &SubmitResult{Result: result}, nil
	}

	request, err := uc.CreateRequest(ctx, lottoID, draw, actor.ID)
	if err != nil {
		return nil, err
	}
	return &SubmitResult{Request: request}, nil
}

func (uc *approvalUseCase) CreateRequest(ctx context.Context, lottoID string, draw entity.Draw, requestedBy string) (*entity.ApprovalRequest, error) {
	var request *entity.ApprovalRequest
	err := uc.store.Atomic(ctx, func(r persistent.Repositories) error {
		// Locking the lotto serializes concurrent submissions for it.
		if _, err := r.Lottos.Get(lottoID); err != nil {
			return err
		}
		pending, err := r.Approvals.HasPending(lottoID)
		if err != nil {
			return err
		}
		if pending {
			return entity.ErrPendingRequestExists
		}

		request = &entity.ApprovalRequest{
			LottoID:     lottoID,
			RequestType: entity.RequestPrizeCalculation,
			Draw:        draw,
			Status:      entity.ApprovalPending,
			RequestedBy: requestedBy,
		}
		if err := r.Approvals.Create(request); err != nil {
			return err
		}
		entry := entity.ApprovalHistoryEntry{RequestID: request.ID, Action: entity.HistoryCreated, ActorID: requestedBy}
		if err := r.Approvals.AppendHistory(&entry); err != nil {
			return err
		}
		request.History = []entity.ApprovalHistoryEntry{entry}
		return nil
	})
	if err != nil {
		return nil, fail(uc.logger, "create approval request", err)
	}

	uc.logger.Info("Approval request %s created for lotto %s by %s", request.ID, lottoID, requestedBy)
	notify(uc.publisher, uc.logger, EventApprovalRequested, map[string]interface{}{
		"request_id":   request.ID,
		"lotto_id":     lottoID,
		"requested_by": requestedBy,
	})
	return request, nil
}

func (uc *approvalUseCase) Vote(ctx context.Context, actor entity.Actor, requestID string, decision entity.Decision, comment string) (*entity.ApprovalRequest, error) {
	if !entity.CanVote(actor) {
		return nil, entity.ErrUnauthorized.With("%s cannot vote", actor.Role)
	}
	if !decision.Valid() {
		return nil, entity.ErrInvalidDecision.With("%q", decision)
	}

	var request *entity.ApprovalRequest
	var decided bool
	err := uc.store.Atomic(ctx, func(r persistent.Repositories) error {
		decided = false
		var err error
		request, err = r.Approvals.Get(requestID)
		if err != nil {
			return err
		}
		if request.Status != entity.ApprovalPending {
			return entity.ErrAlreadyProcessed.With("request is %s", request.Status)
		}

		vote := entity.ApprovalVote{RequestID: requestID, ManagerID: actor.ID, Decision: decision, Comment: comment}
		if err := r.Approvals.UpsertVote(&vote); err != nil {
			return err
		}
		action := entity.HistoryApproved
		if decision == entity.DecisionReject {
			action = entity.HistoryRejected
		}
		if err := r.Approvals.AppendHistory(&entity.ApprovalHistoryEntry{RequestID: requestID, Action: action, ActorID: actor.ID, Comment: comment}); err != nil {
			return err
		}

		// The decision is taken on the full vote set as of this transaction.
		votes, err := r.Approvals.ListVotes(requestID)
		if err != nil {
			return err
		}
		if next := entity.Tally(votes, uc.policy.ApprovalQuorum); next != entity.ApprovalPending {
			now := uc.now()
			request.Status = next
			request.DecidedAt = &now
			if err := r.Approvals.AppendHistory(&entity.ApprovalHistoryEntry{RequestID: requestID, Action: entity.HistoryProcessed, ActorID: actor.ID}); err != nil {
				return err
			}
			decided = true
		}
		// Always bump the version so racing voters conflict and retry.
		return r.Approvals.Update(request)
	})
	if err != nil {
		return nil, fail(uc.logger, "vote", err)
	}
	approvalVotesTotal.WithLabelValues(string(decision)).Inc()

	if decided {
		uc.logger.Info("Approval request %s %s after vote by %s", requestID, request.Status, actor.ID)
		notify(uc.publisher, uc.logger, EventApprovalDecided, map[string]interface{}{
			"request_id":   requestID,
			"lotto_id":     request.LottoID,
			"status":       string(request.Status),
			"requested_by": request.RequestedBy,
		})
		if request.Status == entity.ApprovalApproved && request.RequestType == entity.RequestPrizeCalculation {
			if err := uc.process(ctx, request); err != nil {
				return nil, err
			}
		}
	}
	return uc.load(ctx, requestID)
}

func (uc *approvalUseCase) Comment(ctx context.Context, actor entity.Actor, requestID, text string) (*entity.ApprovalRequest, error) {
	if !canSeeApprovals(actor) {
		return nil, entity.ErrUnauthorized.With("%s cannot comment on approvals", actor.Role)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, entity.ErrInvalidComment
	}

	err := uc.store.Atomic(ctx, func(r persistent.Repositories) error {
		if _, err := r.Approvals.Get(requestID); err != nil {
			return err
		}
		return r.Approvals.AppendHistory(&entity.ApprovalHistoryEntry{RequestID: requestID, Action: entity.HistoryCommented, ActorID: actor.ID, Comment: text})
	})
	if err != nil {
		return nil, fail(uc.logger, "comment on approval request", err)
	}
	return uc.load(ctx, requestID)
}

func (uc *approvalUseCase) Process(ctx context.Context, actor entity.Actor, requestID string) (*entity.ApprovalRequest, error) {
	if err := actor.Require(entity.CapBypassApproval); err != nil {
		return nil, err
	}
	request, err := uc.store.Repos(ctx).Approvals.Get(requestID)
	if err != nil {
		return nil, fail(uc.logger, "get approval request", err)
	}
	if request.Status != entity.ApprovalApproved {
		return nil, entity.ErrNotApproved.With("request is %s", request.Status)
	}
	if request.Processed {
		return nil, entity.ErrAlreadyProcessed
	}
	if err := uc.process(ctx, request); err != nil {
		return nil, err
	}
	return uc.load(ctx, requestID)
}

func (uc *approvalUseCase) Get(ctx context.Context, actor entity.Actor, requestID string) (*entity.ApprovalRequest, error) {
	if !canSeeApprovals(actor) {
		return nil, entity.ErrUnauthorized.With("%s cannot view approvals", actor.Role)
	}
	return uc.load(ctx, requestID)
}

func (uc *approvalUseCase) List(ctx context.Context, actor entity.Actor, status entity.ApprovalStatus, limit, offset int) ([]*entity.ApprovalRequest, error) {
	if !canSeeApprovals(actor) {
		return nil, entity.ErrUnauthorized.With("%s cannot view approvals", actor.Role)
	}
	if status != "" && !status.Valid() {
		return nil, entity.ErrInvalidDecision.With("unknown status %q", status)
	}
	requests, err := uc.store.Repos(ctx).Approvals.List(status, limit, offset)
	if err != nil {
		return nil, fail(uc.logger, "list approval requests", err)
	}
	return requests, nil
}

// process runs the prize engine for an approved request and records the
// outcome on it. An engine failure is stored on the request for an admin
// retry and is not returned; only failing to record the outcome is.
func (uc *approvalUseCase) process(ctx context.Context, request *entity.ApprovalRequest) error {
	processError := ""
	_, err := uc.prizes.CalculatePrizes(ctx, request.LottoID, request.Draw, request.RequestedBy, request.ID)
	if errors.Is(err, entity.ErrPrizesAlreadyCalculated) && uc.settledBy(ctx, request) {
		err = nil
	}
	if err != nil {
		processError = err.Error()
		uc.logger.Error("Prize calculation for approval request %s failed: %v", request.ID, err)
		notify(uc.publisher, uc.logger, EventPrizeRunFailed, map[string]interface{}{
			"request_id": request.ID,
			"lotto_id":   request.LottoID,
			"error":      processError,
		})
	}

	err = uc.store.Atomic(ctx, func(r persistent.Repositories) error {
		stored, err := r.Approvals.Get(request.ID)
		if err != nil {
			return err
		}
		stored.Processed = processError == ""
		stored.ProcessError = processError
		return r.Approvals.Update(stored)
	})
	if err != nil {
		return fail(uc.logger, "record approval processing", err)
	}
	return nil
}

// settledBy reports whether the committed result for the lotto came from
// request. A result from any other run leaves request unprocessed.
func (uc *approvalUseCase) settledBy(ctx context.Context, request *entity.ApprovalRequest) bool {
	result, err := uc.store.Repos(ctx).Prizes.GetByLotto(request.LottoID)
	if err != nil {
		uc.logger.Warn("Failed to load prize result for lotto %s: %v", request.LottoID, err)
		return false
	}
	return result.ApprovalRequestID == request.ID
}

func (uc *approvalUseCase) load(ctx context.Context, requestID string) (*entity.ApprovalRequest, error) {
	repos := uc.store.Repos(ctx)
	request, err := repos.Approvals.Get(requestID)
	if err != nil {
		return nil, fail(uc.logger, "get approval request", err)
	}
	if request.Votes, err = repos.Approvals.ListVotes(requestID); err != nil {
		return nil, fail(uc.logger, "list votes", err)
	}
	if request.History, err = repos.Approvals.ListHistory(requestID); err != nil {
		return nil, fail(uc.logger, "list approval history", err)
	}
	return request, nil
}

func canSeeApprovals(actor entity.Actor) bool {
	return actor.Can(entity.CapSubmitPrizes) || actor.Can(entity.CapVote)
}
