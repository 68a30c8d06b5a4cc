package persistent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"lotto-settlement/services/settlement/internal/entity"
	"lotto-settlement/services/settlement/internal/model"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, AutoMigrate(db))
	return db
}

func TestWalletRepository_CreateIfMissingIsIdempotent(t *testing.T) {
	st := NewStore(newTestDB(t))
	repos := st.Repos(context.Background())

	require.NoError(t, repos.Wallets.CreateIfMissing("owner-1", entity.WalletAgent))
	require.NoError(t, repos.Wallets.CreateIfMissing("owner-1", entity.WalletAgent))
	require.NoError(t, repos.Wallets.CreateIfMissing("owner-1", entity.WalletAgentCommission))

	wallets, err := repos.Wallets.ListByOwner("owner-1")
	require.NoError(t, err)
	assert.Len(t, wallets, 2)

	w, err := repos.Wallets.Get("owner-1", entity.WalletAgent)
	require.NoError(t, err)
	assert.True(t, w.Balance.IsZero())
	assert.Equal(t, 1, w.Version)

	_, err = repos.Wallets.Get("owner-1", entity.WalletStaff)
	assert.ErrorIs(t, err, entity.ErrWalletNotFound)
}

func TestWalletRepository_UpdateBalanceDetectsStaleVersion(t *testing.T) {
	st := NewStore(newTestDB(t))
	repos := st.Repos(context.Background())
	require.NoError(t, repos.Wallets.CreateIfMissing("owner-1", entity.WalletStaff))

	first, err := repos.Wallets.Get("owner-1", entity.WalletStaff)
	require.NoError(t, err)
	stale, err := repos.Wallets.Get("owner-1", entity.WalletStaff)
	require.NoError(t, err)

	require.NoError(t, repos.Wallets.UpdateBalance(first, decimal.NewFromInt(50)))
	assert.Equal(t, 2, first.Version)

	err = repos.Wallets.UpdateBalance(stale, decimal.NewFromInt(70))
	assert.ErrorIs(t, err, entity.ErrConflict)

	current, err := repos.Wallets.Get("owner-1", entity.WalletStaff)
	require.NoError(t, err)
	assert.True(t, current.Balance.Equal(decimal.NewFromInt(50)))
}

func TestStore_AtomicRollsBackOnError(t *testing.T) {
	st := NewStore(newTestDB(t))
	ctx := context.Background()
	require.NoError(t, st.Repos(ctx).Wallets.CreateIfMissing("owner-1", entity.WalletStaff))

	boom := errors.New("boom")
	err := st.Atomic(ctx, func(r Repositories) error {
		w, err := r.Wallets.Get("owner-1", entity.WalletStaff)
		if err != nil {
			return err
		}
		if err := r.Wallets.UpdateBalance(w, decimal.NewFromInt(99)); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	w, err := st.Repos(ctx).Wallets.Get("owner-1", entity.WalletStaff)
	require.NoError(t, err)
	assert.True(t, w.Balance.IsZero())
}

func TestStore_AtomicRetriesConflicts(t *testing.T) {
	st := NewStore(newTestDB(t))

	attempts := 0
	err := st.Atomic(context.Background(), func(r Repositories) error {
		attempts++
		if attempts < 2 {
			return entity.ErrConflict
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, attempts)

	attempts = 0
	err = st.Atomic(context.Background(), func(r Repositories) error {
		attempts++
		return entity.ErrConflict
	})
	assert.ErrorIs(t, err, entity.ErrConflict)
	assert.Equal(t, maxAtomicAttempts, attempts)
}

func TestStore_AtomicRetriesDeadlocks(t *testing.T) {
	st := NewStore(newTestDB(t))

	for _, code := range []string{"40P01", "40001"} {
		attempts := 0
		err := st.Atomic(context.Background(), func(r Repositories) error {
			attempts++
			if attempts < 2 {
				return fmt.Errorf("update wallet: %w", &pgconn.PgError{Code: code})
			}
			return nil
		})
		assert.NoError(t, err, code)
		assert.Equal(t, 2, attempts, code)
	}

	attempts := 0
	err := st.Atomic(context.Background(), func(r Repositories) error {
		attempts++
		return &pgconn.PgError{Code: "23505"}
	})
	assert.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestLottoRepository_VersionedUpdate(t *testing.T) {
	st := NewStore(newTestDB(t))
	repos := st.Repos(context.Background())

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	l := &entity.Lotto{
		EventName:       "Weekly",
		StartDate:       start,
		EndDate:         start.Add(7 * 24 * time.Hour),
		TicketPrice:     decimal.NewFromInt(20),
		Currency:        "THB",
		NumbersToSelect: 6,
		GridsPerTicket:  1,
		Status:          entity.LottoPending,
		IsEnabled:       true,
	}
	require.NoError(t, repos.Lottos.Create(l))
	require.NotEmpty(t, l.ID)

	stale := *l
	l.EventName = "Weekly Special"
	l.WinningNumbers = []int{1, 2, 3}
	require.NoError(t, repos.Lottos.Update(l))
	assert.Equal(t, 2, l.Version)

	stale.EventName = "Lost update"
	assert.ErrorIs(t, repos.Lottos.Update(&stale), entity.ErrConflict)

	got, err := repos.Lottos.Get(l.ID)
	require.NoError(t, err)
	assert.Equal(t, "Weekly Special", got.EventName)
	assert.Equal(t, []int{1, 2, 3}, got.WinningNumbers)
	assert.True(t, got.TicketPrice.Equal(decimal.NewFromInt(20)))

	require.NoError(t, repos.Lottos.Delete(l.ID))
	_, err = repos.Lottos.Get(l.ID)
	assert.ErrorIs(t, err, entity.ErrLottoNotFound)
	assert.ErrorIs(t, repos.Lottos.Delete(l.ID), entity.ErrLottoNotFound)
}

func TestParticipationRepository_ListByLottoFiltersStatus(t *testing.T) {
	st := NewStore(newTestDB(t))
	repos := st.Repos(context.Background())

	now := time.Now()
	for i, status := range []entity.ParticipationStatus{entity.ParticipationActive, entity.ParticipationCancelled, entity.ParticipationActive} {
		p := &entity.Participation{
			LottoID:         "lotto-1",
			UserID:          fmt.Sprintf("user-%d", i),
			UserRole:        entity.RoleAgent,
			WalletKind:      entity.WalletAgent,
			SelectedNumbers: []int{1, 2, 3},
			TicketPrice:     decimal.NewFromInt(10),
			PurchaseDate:    now.Add(time.Duration(i) * time.Minute),
			Status:          status,
		}
		require.NoError(t, repos.Participations.Create(p))
	}

	active, err := repos.Participations.ListByLotto("lotto-1", entity.ParticipationActive)
	require.NoError(t, err)
	assert.Len(t, active, 2)

	all, err := repos.Participations.ListByLotto("lotto-1")
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, []int{1, 2, 3}, all[0].SelectedNumbers)

	count, err := repos.Participations.CountByLotto("lotto-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestApprovalRepository_UpsertVoteReplaces(t *testing.T) {
	st := NewStore(newTestDB(t))
	repos := st.Repos(context.Background())

	req := &entity.ApprovalRequest{
		LottoID:     "lotto-1",
		RequestType: entity.RequestPrizeCalculation,
		Status:      entity.ApprovalPending,
		RequestedBy: "staff-1",
		Draw: entity.Draw{
			WinningNumbers:    []int{4, 5, 6},
			PrizeDistribution: []entity.PrizeTier{{Numbers: 3, Amount: decimal.NewFromInt(500)}},
			TicketStats:       entity.MatchingStats{3: 1, 0: 4},
		},
	}
	require.NoError(t, repos.Approvals.Create(req))

	pending, err := repos.Approvals.HasPending("lotto-1")
	require.NoError(t, err)
	assert.True(t, pending)

	require.NoError(t, repos.Approvals.UpsertVote(&entity.ApprovalVote{RequestID: req.ID, ManagerID: "m1", Decision: entity.DecisionReject}))
	require.NoError(t, repos.Approvals.UpsertVote(&entity.ApprovalVote{RequestID: req.ID, ManagerID: "m1", Decision: entity.DecisionApprove, Comment: "changed my mind"}))

	votes, err := repos.Approvals.ListVotes(req.ID)
	require.NoError(t, err)
	require.Len(t, votes, 1)
	assert.Equal(t, entity.DecisionApprove, votes[0].Decision)
	assert.Equal(t, "changed my mind", votes[0].Comment)

	for _, action := range []entity.HistoryAction{entity.HistoryCreated, entity.HistoryApproved, entity.HistoryProcessed} {
		require.NoError(t, repos.Approvals.AppendHistory(&entity.ApprovalHistoryEntry{RequestID: req.ID, Action: action, ActorID: "x"}))
	}
	history, err := repos.Approvals.ListHistory(req.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, entity.HistoryCreated, history[0].Action)
	assert.Equal(t, entity.HistoryProcessed, history[2].Action)

	got, err := repos.Approvals.Get(req.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Draw.TicketStats[3])
	assert.True(t, got.Draw.PrizeFor(3).Equal(decimal.NewFromInt(500)))
}

func TestSettingsRepository_PutGet(t *testing.T) {
	st := NewStore(newTestDB(t))
	repos := st.Repos(context.Background())

	var out map[string]string
	assert.ErrorIs(t, repos.Settings.Get("commission_rates", &out), ErrSettingNotFound)

	require.NoError(t, repos.Settings.Put("commission_rates", map[string]string{"staff_transfer": "2"}, "admin-1"))
	require.NoError(t, repos.Settings.Put("commission_rates", map[string]string{"staff_transfer": "3"}, "admin-1"))

	require.NoError(t, repos.Settings.Get("commission_rates", &out))
	assert.Equal(t, "3", out["staff_transfer"])
}

func TestUserRepository_FindByEmailAndRole(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create(&model.UserModel{ID: "u-1", Email: "Staff@Example.com", Username: "staff", Password: "x", Role: "staff", IsActive: true}).Error)
	require.NoError(t, db.Create(&model.UserModel{ID: "u-2", Email: "agent@example.com", Username: "agent", Password: "x", Role: "agent", IsActive: true}).Error)

	repos := NewStore(db).Repos(context.Background())

	users, err := repos.Users.FindByEmailAndRole("staff@example.com", entity.RoleStaff)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "u-1", users[0].ID)

	users, err = repos.Users.FindByEmailAndRole("staff@example.com", entity.RoleAgent)
	require.NoError(t, err)
	assert.Empty(t, users)

	_, err = repos.Users.GetByID("missing")
	assert.ErrorIs(t, err, entity.ErrUserNotFound)
}
