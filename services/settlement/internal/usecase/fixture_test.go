package usecase

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"lotto-settlement/pkg/config"
	"lotto-settlement/pkg/logger"
	"lotto-settlement/services/settlement/internal/entity"
	"lotto-settlement/services/settlement/internal/model"
	"lotto-settlement/services/settlement/internal/repo/persistent"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var baseTime = time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)

type fixture struct {
	db     *gorm.DB
	store  persistent.Store
	policy *config.Policy
	log    *logger.Logger

	mu  sync.Mutex
	now time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, persistent.AutoMigrate(db))

	return &fixture{
		db:     db,
		store:  persistent.NewStore(db),
		policy: config.DefaultPolicy(),
		log:    logger.New(),
		now:    baseTime,
	}
}

func (f *fixture) clock() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fixture) setNow(now time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = now
}

// addUser registers a directory user and opens the wallets of its role.
func (f *fixture) addUser(t *testing.T, id string, role entity.Role) entity.Actor {
	t.Helper()
	require.NoError(t, f.db.Create(&model.UserModel{
		ID:       id,
		Email:    id + "@example.com",
		Username: id,
		Password: "x",
		Role:     string(role),
		IsActive: true,
	}).Error)
	repos := f.store.Repos(context.Background())
	for _, kind := range entity.WalletKindsFor(role) {
		require.NoError(t, repos.Wallets.CreateIfMissing(id, kind))
	}
	return entity.Actor{ID: id, Role: role}
}

func (f *fixture) fund(t *testing.T, ownerID string, kind entity.WalletKind, amount string) {
	t.Helper()
	err := f.store.Atomic(context.Background(), func(r persistent.Repositories) error {
		_, err := applyDelta(r, ownerID, kind, dec(amount), entity.Transaction{
			Type:          entity.TransactionCredit,
			ReferenceType: entity.ReferenceDeposit,
		})
		return err
	})
	require.NoError(t, err)
}

func (f *fixture) balance(t *testing.T, ownerID string, kind entity.WalletKind) decimal.Decimal {
	t.Helper()
	w, err := f.store.Repos(context.Background()).Wallets.Get(ownerID, kind)
	require.NoError(t, err)
	return w.Balance
}

// addLotto stores a lotto open over [start, end) picking 6 of [1,50].
func (f *fixture) addLotto(t *testing.T, start, end time.Time, price string) *entity.Lotto {
	t.Helper()
	lotto := &entity.Lotto{
		EventName:       "Weekly Draw",
		StartDate:       start,
		EndDate:         end,
		TicketPrice:     dec(price),
		Currency:        "THB",
		NumbersToSelect: 6,
		GridsPerTicket:  1,
		Status:          entity.StatusAt(start, end, f.clock()),
		IsEnabled:       true,
	}
	require.NoError(t, f.store.Repos(context.Background()).Lottos.Create(lotto))
	return lotto
}

func (f *fixture) settings() *staticSettings {
	return &staticSettings{
		rates: entity.CommissionRates{},
		fee:   entity.CancellationFee{Percentage: dec("10"), Enabled: true},
	}
}

func (f *fixture) wallets() *walletUseCase {
	return NewWalletUseCase(f.store, f.log).(*walletUseCase)
}

func (f *fixture) transfers(settings *staticSettings) *transferUseCase {
	return NewTransferUseCase(f.store, settings, f.policy, f.log).(*transferUseCase)
}

func (f *fixture) lottos() *lottoUseCase {
	uc := NewLottoUseCase(f.store, f.policy, f.log).(*lottoUseCase)
	uc.now = f.clock
	return uc
}

func (f *fixture) participations(settings *staticSettings) *participationUseCase {
	uc := NewParticipationUseCase(f.store, settings, settings, f.policy, f.log).(*participationUseCase)
	uc.now = f.clock
	return uc
}

func (f *fixture) prizes(archive ArchiveStore, publisher EventPublisher) *prizeUseCase {
	uc := NewPrizeUseCase(f.store, archive, publisher, f.policy, f.log).(*prizeUseCase)
	uc.now = f.clock
	return uc
}

func (f *fixture) approvals(prizes PrizeUseCase, publisher EventPublisher) *approvalUseCase {
	uc := NewApprovalUseCase(f.store, prizes, publisher, f.policy, f.log).(*approvalUseCase)
	uc.now = f.clock
	return uc
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type staticSettings struct {
	rates entity.CommissionRates
	fee   entity.CancellationFee
}

func (s *staticSettings) CommissionRates(context.Context) entity.CommissionRates {
	return s.rates
}

func (s *staticSettings) CancellationFee(context.Context) entity.CancellationFee {
	return s.fee
}

type recordingPublisher struct {
	mu    sync.Mutex
	tasks []map[string]interface{}
}

func (p *recordingPublisher) Publish(_ string, task map[string]interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tasks = append(p.tasks, task)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, 0, len(p.tasks))
	for _, task := range p.tasks {
		types = append(types, task["type"].(string))
	}
	return types
}

type memoryArchive struct {
	objects map[string][]byte
}

func (a *memoryArchive) UploadFile(key string, body io.Reader, _ string) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	if a.objects == nil {
		a.objects = map[string][]byte{}
	}
	a.objects[key] = data
	return "https://archive.example.com/" + key, nil
}
