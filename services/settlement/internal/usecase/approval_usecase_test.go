package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"lotto-settlement/services/settlement/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPrizeUseCase struct {
	mock.Mock
}

var _ PrizeUseCase = (*MockPrizeUseCase)(nil)

func (m *MockPrizeUseCase) CalculateMatchingStats(ctx context.Context, lottoID string, winningNumbers []int) (entity.MatchingStats, error) {
	args := m.Called(ctx, lottoID, winningNumbers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(entity.MatchingStats), args.Error(1)
}

func (m *MockPrizeUseCase) CalculatePrizes(ctx context.Context, lottoID string, draw entity.Draw, calculatedBy, requestID string) (*entity.PrizeResult, error) {
	args := m.Called(ctx, lottoID, draw, calculatedBy, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PrizeResult), args.Error(1)
}

func (m *MockPrizeUseCase) GetResult(ctx context.Context, lottoID string) (*entity.PrizeResult, error) {
	args := m.Called(ctx, lottoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PrizeResult), args.Error(1)
}

type approvalSetup struct {
	f         *fixture
	uc        *approvalUseCase
	publisher *recordingPublisher
	lotto     *entity.Lotto
	admin     entity.Actor
	staff     entity.Actor
	m1, m2    entity.Actor
	m3        entity.Actor
}

func newApprovalSetup(t *testing.T) *approvalSetup {
	t.Helper()
	f := newFixture(t)
	lotto, _ := drawFixture(t, f)
	f.setNow(baseTime.Add(2 * time.Hour))

	publisher := &recordingPublisher{}
	s := &approvalSetup{
		f:         f,
		publisher: publisher,
		lotto:     lotto,
		admin:     f.addUser(t, "admin-1", entity.RoleAdmin),
		staff:     f.addUser(t, "staff-1", entity.RoleStaff),
		m1:        f.addUser(t, "manager-1", entity.RoleManager),
		m2:        f.addUser(t, "manager-2", entity.RoleManager),
		m3:        f.addUser(t, "manager-3", entity.RoleManager),
	}
	s.uc = f.approvals(f.prizes(nil, publisher), publisher)
	return s
}

func (s *approvalSetup) submit(t *testing.T) *entity.ApprovalRequest {
	t.Helper()
	out, err := s.uc.SubmitPrizes(context.Background(), s.staff, s.lotto.ID, exampleDraw())
	require.NoError(t, err)
	require.NotNil(t, out.Request)
	require.Nil(t, out.Result)
	return out.Request
}

func (s *approvalSetup) lottoCalculated(t *testing.T) bool {
	t.Helper()
	lotto, err := s.f.store.Repos(context.Background()).Lottos.Get(s.lotto.ID)
	require.NoError(t, err)
	return lotto.PrizeCalculated
}

func historyActions(request *entity.ApprovalRequest) []entity.HistoryAction {
	actions := make([]entity.HistoryAction, len(request.History))
	for i, h := range request.History {
		actions[i] = h.Action
	}
	return actions
}

func TestSubmitPrizes_AdminBypassesApproval(t *testing.T) {
	s := newApprovalSetup(t)
	ctx := context.Background()

	out, err := s.uc.SubmitPrizes(ctx, s.admin, s.lotto.ID, exampleDraw())
	require.NoError(t, err)
	require.NotNil(t, out.Result)
	assert.Nil(t, out.Request)
	assert.Equal(t, s.admin.ID, out.Result.CalculatedBy)
	assert.True(t, s.lottoCalculated(t))

	requests, err := s.uc.List(ctx, s.admin, "", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, requests)

	_, err = s.uc.SubmitPrizes(ctx, s.admin, s.lotto.ID, exampleDraw())
	assert.ErrorIs(t, err, entity.ErrPrizesAlreadyCalculated)
}

func TestSubmitPrizes_NonAdminCreatesPendingRequest(t *testing.T) {
	s := newApprovalSetup(t)
	ctx := context.Background()

	request := s.submit(t)
	assert.Equal(t, entity.ApprovalPending, request.Status)
	assert.Equal(t, entity.RequestPrizeCalculation, request.RequestType)
	assert.Equal(t, s.staff.ID, request.RequestedBy)
	assert.Equal(t, entity.MatchingStats{3: 1, 0: 1}, request.Draw.TicketStats)
	assert.Equal(t, []entity.HistoryAction{entity.HistoryCreated}, historyActions(request))
	assert.False(t, s.lottoCalculated(t))
	assert.Equal(t, []string{EventApprovalRequested}, s.publisher.types())

	_, err := s.uc.SubmitPrizes(ctx, s.m1, s.lotto.ID, exampleDraw())
	assert.ErrorIs(t, err, entity.ErrPendingRequestExists)

	agent := entity.Actor{ID: "agent-1", Role: entity.RoleAgent}
	_, err = s.uc.SubmitPrizes(ctx, agent, s.lotto.ID, exampleDraw())
	assert.ErrorIs(t, err, entity.ErrUnauthorized)
}

func TestSubmitPrizes_BeforeDrawEnds(t *testing.T) {
	s := newApprovalSetup(t)
	s.f.setNow(baseTime)

	_, err := s.uc.SubmitPrizes(context.Background(), s.staff, s.lotto.ID, exampleDraw())
	assert.ErrorIs(t, err, entity.ErrDrawNotEnded)
}

func TestVote_QuorumApprovesAndRunsEngineOnce(t *testing.T) {
	s := newApprovalSetup(t)
	ctx := context.Background()
	request := s.submit(t)

	after, err := s.uc.Vote(ctx, s.m1, request.ID, entity.DecisionApprove, "looks right")
	require.NoError(t, err)
	assert.Equal(t, entity.ApprovalPending, after.Status)
	assert.False(t, s.lottoCalculated(t))

	after, err = s.uc.Vote(ctx, s.m2, request.ID, entity.DecisionApprove, "")
	require.NoError(t, err)
	assert.Equal(t, entity.ApprovalApproved, after.Status)
	assert.True(t, after.Processed)
	assert.Empty(t, after.ProcessError)
	assert.NotNil(t, after.DecidedAt)
	assert.Len(t, after.Votes, 2)
	assert.Equal(t, []entity.HistoryAction{
		entity.HistoryCreated, entity.HistoryApproved, entity.HistoryApproved, entity.HistoryProcessed,
	}, historyActions(after))
	assert.True(t, s.lottoCalculated(t))

	result, err := s.f.store.Repos(ctx).Prizes.GetByLotto(s.lotto.ID)
	require.NoError(t, err)
	assert.Equal(t, request.ID, result.ApprovalRequestID)
	assert.Equal(t, s.staff.ID, result.CalculatedBy)

	_, err = s.uc.Vote(ctx, s.m3, request.ID, entity.DecisionApprove, "")
	assert.ErrorIs(t, err, entity.ErrAlreadyProcessed)
}

func TestVote_RejectShortCircuits(t *testing.T) {
	s := newApprovalSetup(t)
	ctx := context.Background()
	request := s.submit(t)

	_, err := s.uc.Vote(ctx, s.m1, request.ID, entity.DecisionApprove, "")
	require.NoError(t, err)
	after, err := s.uc.Vote(ctx, s.m2, request.ID, entity.DecisionReject, "wrong numbers")
	require.NoError(t, err)

	assert.Equal(t, entity.ApprovalRejected, after.Status)
	assert.False(t, after.Processed)
	assert.Equal(t, entity.HistoryProcessed, after.History[len(after.History)-1].Action)
	assert.False(t, s.lottoCalculated(t))

	_, err = s.uc.Vote(ctx, s.m3, request.ID, entity.DecisionApprove, "")
	assert.ErrorIs(t, err, entity.ErrAlreadyProcessed)

	// a rejected draw can be resubmitted
	s.submit(t)
}

func TestVote_ResubmissionReplacesPriorVote(t *testing.T) {
	s := newApprovalSetup(t)
	ctx := context.Background()
	request := s.submit(t)

	_, err := s.uc.Vote(ctx, s.m1, request.ID, entity.DecisionApprove, "")
	require.NoError(t, err)
	after, err := s.uc.Vote(ctx, s.m1, request.ID, entity.DecisionApprove, "still fine")
	require.NoError(t, err)

	assert.Equal(t, entity.ApprovalPending, after.Status, "one manager twice is not a quorum")
	require.Len(t, after.Votes, 1)
	assert.Equal(t, "still fine", after.Votes[0].Comment)

	after, err = s.uc.Vote(ctx, s.m1, request.ID, entity.DecisionReject, "changed my mind")
	require.NoError(t, err)
	assert.Equal(t, entity.ApprovalRejected, after.Status)
	assert.Len(t, after.Votes, 1)
}

func TestVote_ConcurrentManagersReachQuorum(t *testing.T) {
	s := newApprovalSetup(t)
	ctx := context.Background()
	request := s.submit(t)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, manager := range []entity.Actor{s.m1, s.m2} {
		wg.Add(1)
		go func(i int, manager entity.Actor) {
			defer wg.Done()
			_, errs[i] = s.uc.Vote(ctx, manager, request.ID, entity.DecisionApprove, "")
		}(i, manager)
	}
	wg.Wait()
	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	final, err := s.uc.Get(ctx, s.m1, request.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ApprovalApproved, final.Status)
	assert.True(t, final.Processed)
	assert.True(t, s.lottoCalculated(t))

	processed := 0
	for _, h := range final.History {
		if h.Action == entity.HistoryProcessed {
			processed++
		}
	}
	assert.Equal(t, 1, processed)
}

func TestVote_Permissions(t *testing.T) {
	s := newApprovalSetup(t)
	ctx := context.Background()
	request := s.submit(t)

	_, err := s.uc.Vote(ctx, s.admin, request.ID, entity.DecisionApprove, "")
	assert.ErrorIs(t, err, entity.ErrUnauthorized)
	_, err = s.uc.Vote(ctx, s.staff, request.ID, entity.DecisionApprove, "")
	assert.ErrorIs(t, err, entity.ErrUnauthorized)
	_, err = s.uc.Vote(ctx, s.m1, request.ID, entity.Decision("abstain"), "")
	assert.ErrorIs(t, err, entity.ErrInvalidDecision)
	_, err = s.uc.Vote(ctx, s.m1, "missing", entity.DecisionApprove, "")
	assert.ErrorIs(t, err, entity.ErrRequestNotFound)
}

func TestComment_AppendsHistory(t *testing.T) {
	s := newApprovalSetup(t)
	ctx := context.Background()
	request := s.submit(t)

	after, err := s.uc.Comment(ctx, s.m1, request.ID, "checking ticket 42")
	require.NoError(t, err)
	assert.Equal(t, []entity.HistoryAction{entity.HistoryCreated, entity.HistoryCommented}, historyActions(after))
	assert.Equal(t, "checking ticket 42", after.History[1].Comment)
	assert.Equal(t, entity.ApprovalPending, after.Status)

	_, err = s.uc.Comment(ctx, s.m1, request.ID, "   ")
	assert.ErrorIs(t, err, entity.ErrInvalidComment)
}

func TestVote_EngineFailureIsRecordedAndRetried(t *testing.T) {
	s := newApprovalSetup(t)
	ctx := context.Background()

	engine := new(MockPrizeUseCase)
	s.uc.prizes = engine
	engine.On("CalculateMatchingStats", mock.Anything, s.lotto.ID, exampleDraw().WinningNumbers).
		Return(entity.MatchingStats{3: 1}, nil)
	request := s.submit(t)

	engine.On("CalculatePrizes", mock.Anything, s.lotto.ID, mock.Anything, s.staff.ID, request.ID).
		Return(nil, errors.New("database is gone")).Once()

	_, err := s.uc.Vote(ctx, s.m1, request.ID, entity.DecisionApprove, "")
	require.NoError(t, err)
	after, err := s.uc.Vote(ctx, s.m2, request.ID, entity.DecisionApprove, "")
	require.NoError(t, err)
	assert.Equal(t, entity.ApprovalApproved, after.Status)
	assert.False(t, after.Processed)
	assert.Contains(t, after.ProcessError, "database is gone")
	assert.Contains(t, s.publisher.types(), EventPrizeRunFailed)

	_, err = s.uc.Process(ctx, s.m1, request.ID)
	assert.ErrorIs(t, err, entity.ErrUnauthorized)

	engine.On("CalculatePrizes", mock.Anything, s.lotto.ID, mock.Anything, s.staff.ID, request.ID).
		Return(&entity.PrizeResult{LottoID: s.lotto.ID}, nil).Once()
	retried, err := s.uc.Process(ctx, s.admin, request.ID)
	require.NoError(t, err)
	assert.True(t, retried.Processed)
	assert.Empty(t, retried.ProcessError)

	_, err = s.uc.Process(ctx, s.admin, request.ID)
	assert.ErrorIs(t, err, entity.ErrAlreadyProcessed)
	engine.AssertNumberOfCalls(t, "CalculatePrizes", 2)
}

func TestSubmitPrizes_AdminBlockedByPendingRequest(t *testing.T) {
	s := newApprovalSetup(t)
	ctx := context.Background()
	request := s.submit(t)

	_, err := s.uc.SubmitPrizes(ctx, s.admin, s.lotto.ID, exampleDraw())
	assert.ErrorIs(t, err, entity.ErrPendingRequestExists)
	assert.False(t, s.lottoCalculated(t))

	_, err = s.uc.Vote(ctx, s.m1, request.ID, entity.DecisionReject, "wrong numbers")
	require.NoError(t, err)

	out, err := s.uc.SubmitPrizes(ctx, s.admin, s.lotto.ID, exampleDraw())
	require.NoError(t, err)
	require.NotNil(t, out.Result)
	assert.True(t, s.lottoCalculated(t))
}

func TestVote_ApprovalAfterForeignSettlementIsNotProcessed(t *testing.T) {
	s := newApprovalSetup(t)
	ctx := context.Background()
	request := s.submit(t)

	other := exampleDraw()
	other.WinningNumbers = []int{40, 41, 42, 43, 44, 45}
	_, err := s.uc.prizes.CalculatePrizes(ctx, s.lotto.ID, other, s.admin.ID, "")
	require.NoError(t, err)

	_, err = s.uc.Vote(ctx, s.m1, request.ID, entity.DecisionApprove, "")
	require.NoError(t, err)
	after, err := s.uc.Vote(ctx, s.m2, request.ID, entity.DecisionApprove, "")
	require.NoError(t, err)

	assert.Equal(t, entity.ApprovalApproved, after.Status)
	assert.False(t, after.Processed)
	assert.Contains(t, after.ProcessError, entity.ErrPrizesAlreadyCalculated.Message)
	assert.Contains(t, s.publisher.types(), EventPrizeRunFailed)

	result, err := s.f.store.Repos(ctx).Prizes.GetByLotto(s.lotto.ID)
	require.NoError(t, err)
	assert.Empty(t, result.ApprovalRequestID)
	assert.Equal(t, other.WinningNumbers, result.WinningNumbers)
}
