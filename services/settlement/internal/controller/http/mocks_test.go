package http

import (
	"context"

	"lotto-settlement/services/settlement/internal/entity"
	"lotto-settlement/services/settlement/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockWalletUseCase struct {
	mock.Mock
}

func (m *MockWalletUseCase) GetWallet(ctx context.Context, actor entity.Actor, ownerID string, kind entity.WalletKind) (*entity.Wallet, error) {
	args := m.Called(actor, ownerID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Wallet), args.Error(1)
}

func (m *MockWalletUseCase) ListWallets(ctx context.Context, actor entity.Actor, ownerID string) ([]*entity.Wallet, error) {
	args := m.Called(actor, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Wallet), args.Error(1)
}

func (m *MockWalletUseCase) OpenWallets(ctx context.Context, ownerID string) ([]*entity.Wallet, error) {
	args := m.Called(ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Wallet), args.Error(1)
}

func (m *MockWalletUseCase) Deposit(ctx context.Context, actor entity.Actor, ownerID string, kind entity.WalletKind, amount decimal.Decimal) (*entity.Wallet, error) {
	args := m.Called(actor, ownerID, kind, amount.String())
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Wallet), args.Error(1)
}

func (m *MockWalletUseCase) GetTransactions(ctx context.Context, actor entity.Actor, ownerID string, limit, offset int) ([]*entity.Transaction, error) {
	args := m.Called(actor, ownerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Transaction), args.Error(1)
}

var _ usecase.WalletUseCase = (*MockWalletUseCase)(nil)

type MockTransferUseCase struct {
	mock.Mock
}

func (m *MockTransferUseCase) Quote(ctx context.Context, direction entity.Direction, amount decimal.Decimal) (entity.TransferQuote, error) {
	args := m.Called(direction, amount.String())
	return args.Get(0).(entity.TransferQuote), args.Error(1)
}

func (m *MockTransferUseCase) Transfer(ctx context.Context, actor entity.Actor, req usecase.TransferRequest) (*entity.Transfer, error) {
	args := m.Called(actor, req.RecipientEmail, req.Amount.String(), req.Direction)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Transfer), args.Error(1)
}

func (m *MockTransferUseCase) ListTransfers(ctx context.Context, actor entity.Actor, ownerID string, limit, offset int) ([]*entity.Transfer, error) {
	args := m.Called(actor, ownerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Transfer), args.Error(1)
}

var _ usecase.TransferUseCase = (*MockTransferUseCase)(nil)

type MockParticipationUseCase struct {
	mock.Mock
}

func (m *MockParticipationUseCase) Participate(ctx context.Context, actor entity.Actor, lottoID string, numbers []int) (*entity.Participation, error) {
	args := m.Called(actor, lottoID, numbers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Participation), args.Error(1)
}

func (m *MockParticipationUseCase) Cancel(ctx context.Context, actor entity.Actor, participationID string) (*entity.Participation, error) {
	args := m.Called(actor, participationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Participation), args.Error(1)
}

func (m *MockParticipationUseCase) PayPrize(ctx context.Context, actor entity.Actor, participationID string) (*entity.Participation, error) {
	args := m.Called(actor, participationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Participation), args.Error(1)
}

func (m *MockParticipationUseCase) Get(ctx context.Context, actor entity.Actor, participationID string) (*entity.Participation, error) {
	args := m.Called(actor, participationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Participation), args.Error(1)
}

func (m *MockParticipationUseCase) ListByLotto(ctx context.Context, actor entity.Actor, lottoID string) ([]*entity.Participation, error) {
	args := m.Called(actor, lottoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Participation), args.Error(1)
}

func (m *MockParticipationUseCase) ListByUser(ctx context.Context, actor entity.Actor, userID string, limit, offset int) ([]*entity.Participation, error) {
	args := m.Called(actor, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Participation), args.Error(1)
}

var _ usecase.ParticipationUseCase = (*MockParticipationUseCase)(nil)

type MockApprovalUseCase struct {
	mock.Mock
}

func (m *MockApprovalUseCase) SubmitPrizes(ctx context.Context, actor entity.Actor, lottoID string, draw entity.Draw) (*usecase.SubmitResult, error) {
	args := m.Called(actor, lottoID, draw.WinningNumbers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.SubmitResult), args.Error(1)
}

func (m *MockApprovalUseCase) CreateRequest(ctx context.Context, lottoID string, draw entity.Draw, requestedBy string) (*entity.ApprovalRequest, error) {
	args := m.Called(lottoID, draw.WinningNumbers, requestedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ApprovalRequest), args.Error(1)
}

func (m *MockApprovalUseCase) Vote(ctx context.Context, actor entity.Actor, requestID string, decision entity.Decision, comment string) (*entity.ApprovalRequest, error) {
	args := m.Called(actor, requestID, decision, comment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ApprovalRequest), args.Error(1)
}

func (m *MockApprovalUseCase) Comment(ctx context.Context, actor entity.Actor, requestID, text string) (*entity.ApprovalRequest, error) {
	args := m.Called(actor, requestID, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ApprovalRequest), args.Error(1)
}

func (m *MockApprovalUseCase) Process(ctx context.Context, actor entity.Actor, requestID string) (*entity.ApprovalRequest, error) {
	args := m.Called(actor, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ApprovalRequest), args.Error(1)
}

func (m *MockApprovalUseCase) Get(ctx context.Context, actor entity.Actor, requestID string) (*entity.ApprovalRequest, error) {
	args := m.Called(actor, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ApprovalRequest), args.Error(1)
}

func (m *MockApprovalUseCase) List(ctx context.Context, actor entity.Actor, status entity.ApprovalStatus, limit, offset int) ([]*entity.ApprovalRequest, error) {
	args := m.Called(actor, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.ApprovalRequest), args.Error(1)
}

var _ usecase.ApprovalUseCase = (*MockApprovalUseCase)(nil)

type MockPrizeUseCase struct {
	mock.Mock
}

func (m *MockPrizeUseCase) CalculateMatchingStats(ctx context.Context, lottoID string, winningNumbers []int) (entity.MatchingStats, error) {
	args := m.Called(lottoID, winningNumbers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(entity.MatchingStats), args.Error(1)
}

func (m *MockPrizeUseCase) CalculatePrizes(ctx context.Context, lottoID string, draw entity.Draw, calculatedBy, requestID string) (*entity.PrizeResult, error) {
	args := m.Called(lottoID, draw.WinningNumbers, calculatedBy, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PrizeResult), args.Error(1)
}

func (m *MockPrizeUseCase) GetResult(ctx context.Context, lottoID string) (*entity.PrizeResult, error) {
	args := m.Called(lottoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PrizeResult), args.Error(1)
}

var _ usecase.PrizeUseCase = (*MockPrizeUseCase)(nil)

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// as wraps a handler with the identity AuthMiddleware would have set.
func as(userID string, role entity.Role, h gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("user_role", string(role))
		h(c)
	}
}
