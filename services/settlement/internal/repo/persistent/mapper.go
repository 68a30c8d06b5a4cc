package persistent

import (
	"lotto-settlement/services/settlement/internal/entity"
	"lotto-settlement/services/settlement/internal/model"
)

func ToWalletEntity(m *model.WalletModel) *entity.Wallet {
	if m == nil {
		return nil
	}

	return &entity.Wallet{
		ID:        m.ID,
		OwnerID:   m.OwnerID,
		Kind:      entity.WalletKind(m.Kind),
		Balance:   m.Balance,
		Version:   m.Version,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func ToWalletModel(e *entity.Wallet) *model.WalletModel {
	if e == nil {
		return nil
	}

	return &model.WalletModel{
		ID:        e.ID,
		OwnerID:   e.OwnerID,
		Kind:      string(e.Kind),
		Balance:   e.Balance,
		Version:   e.Version,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func ToTransactionEntity(m *model.TransactionModel) *entity.Transaction {
	if m == nil {
		return nil
	}

	return &entity.Transaction{
		ID:            m.ID,
		WalletID:      m.WalletID,
		OwnerID:       m.OwnerID,
		WalletKind:    entity.WalletKind(m.WalletKind),
		Type:          entity.TransactionType(m.Type),
		Amount:        m.Amount,
		BalanceBefore: m.BalanceBefore,
		BalanceAfter:  m.BalanceAfter,
		ReferenceType: entity.ReferenceType(m.ReferenceType),
		ReferenceID:   m.ReferenceID,
		Status:        m.Status,
		TransferTo:    m.TransferTo,
		TransferFrom:  m.TransferFrom,
		FeeAmount:     m.FeeAmount,
		Description:   m.Description,
		CreatedAt:     m.CreatedAt,
	}
}

func ToTransactionModel(e *entity.Transaction) *model.TransactionModel {
	if e == nil {
		return nil
	}

	return &model.TransactionModel{
		ID:            e.ID,
		WalletID:      e.WalletID,
		OwnerID:       e.OwnerID,
		WalletKind:    string(e.WalletKind),
		Type:          string(e.Type),
		Amount:        e.Amount,
		BalanceBefore: e.BalanceBefore,
		BalanceAfter:  e.BalanceAfter,
		ReferenceType: string(e.ReferenceType),
		ReferenceID:   e.ReferenceID,
		Status:        e.Status,
		TransferTo:    e.TransferTo,
		TransferFrom:  e.TransferFrom,
		FeeAmount:     e.FeeAmount,
		Description:   e.Description,
		CreatedAt:     e.CreatedAt,
	}
}

func ToTransferEntity(m *model.TransferModel) *entity.Transfer {
	if m == nil {
		return nil
	}

	return &entity.Transfer{
		ID:                 m.ID,
		Direction:          entity.Direction(m.Direction),
		FromOwnerID:        m.FromOwnerID,
		ToOwnerID:          m.ToOwnerID,
		RecipientEmail:     m.RecipientEmail,
		Amount:             m.Amount,
		Fee:                m.Fee,
		TotalDebit:         m.TotalDebit,
		Rate:               m.Rate,
		CommissionOwnerID:  m.CommissionOwnerID,
		CommissionWalletID: m.CommissionWalletID,
		CreatedAt:          m.CreatedAt,
	}
}

func ToTransferModel(e *entity.Transfer) *model.TransferModel {
	if e == nil {
		return nil
	}

	return &model.TransferModel{
		ID:                 e.ID,
		Direction:          string(e.Direction),
		FromOwnerID:        e.FromOwnerID,
		ToOwnerID:          e.ToOwnerID,
		RecipientEmail:     e.RecipientEmail,
		Amount:             e.Amount,
		Fee:                e.Fee,
		TotalDebit:         e.TotalDebit,
		Rate:               e.Rate,
		CommissionOwnerID:  e.CommissionOwnerID,
		CommissionWalletID: e.CommissionWalletID,
		CreatedAt:          e.CreatedAt,
	}
}

func ToLottoEntity(m *model.LottoModel) *entity.Lotto {
	if m == nil {
		return nil
	}

	return &entity.Lotto{
		ID:              m.ID,
		EventName:       m.EventName,
		StartDate:       m.StartDate,
		EndDate:         m.EndDate,
		TicketPrice:     m.TicketPrice,
		Currency:        m.Currency,
		Frequency:       m.Frequency,
		NumbersToSelect: m.NumbersToSelect,
		GridsPerTicket:  m.GridsPerTicket,
		Status:          entity.LottoStatus(m.Status),
		PrizeCalculated: m.PrizeCalculated,
		IsEnabled:       m.IsEnabled,
		WinningNumbers:  m.WinningNumbers,
		CreatedBy:       m.CreatedBy,
		Version:         m.Version,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func ToLottoModel(e *entity.Lotto) *model.LottoModel {
	if e == nil {
		return nil
	}

	return &model.LottoModel{
		ID:              e.ID,
		EventName:       e.EventName,
		StartDate:       e.StartDate,
		EndDate:         e.EndDate,
		TicketPrice:     e.TicketPrice,
		Currency:        e.Currency,
		Frequency:       e.Frequency,
		NumbersToSelect: e.NumbersToSelect,
		GridsPerTicket:  e.GridsPerTicket,
		Status:          string(e.Status),
		PrizeCalculated: e.PrizeCalculated,
		IsEnabled:       e.IsEnabled,
		WinningNumbers:  e.WinningNumbers,
		CreatedBy:       e.CreatedBy,
		Version:         e.Version,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}

func ToParticipationEntity(m *model.ParticipationModel) *entity.Participation {
	if m == nil {
		return nil
	}

	return &entity.Participation{
		ID:                   m.ID,
		LottoID:              m.LottoID,
		UserID:               m.UserID,
		UserRole:             entity.Role(m.UserRole),
		WalletKind:           entity.WalletKind(m.WalletKind),
		SelectedNumbers:      m.SelectedNumbers,
		TicketPrice:          m.TicketPrice,
		Currency:             m.Currency,
		PurchaseDate:         m.PurchaseDate,
		Status:               entity.ParticipationStatus(m.Status),
		LottoEventName:       m.LottoEventName,
		DrawEndDate:          m.DrawEndDate,
		CommissionRate:       m.CommissionRate,
		SubmissionCommission: m.SubmissionCommission,
		IsWinner:             m.IsWinner,
		IsLost:               m.IsLost,
		WinAmount:            m.WinAmount,
		MatchedNumbers:       m.MatchedNumbers,
		CancelledBy:          m.CancelledBy,
		CancelledAt:          m.CancelledAt,
		CancellationFee:      m.CancellationFee,
		RefundAmount:         m.RefundAmount,
		PaidBy:               m.PaidBy,
		PaidAt:               m.PaidAt,
		Version:              m.Version,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
}

func ToParticipationModel(e *entity.Participation) *model.ParticipationModel {
	if e == nil {
		return nil
	}

	return &model.ParticipationModel{
		ID:                   e.ID,
		LottoID:              e.LottoID,
		UserID:               e.UserID,
		UserRole:             string(e.UserRole),
		WalletKind:           string(e.WalletKind),
		SelectedNumbers:      e.SelectedNumbers,
		TicketPrice:          e.TicketPrice,
		Currency:             e.Currency,
		PurchaseDate:         e.PurchaseDate,
		Status:               string(e.Status),
		LottoEventName:       e.LottoEventName,
		DrawEndDate:          e.DrawEndDate,
		CommissionRate:       e.CommissionRate,
		SubmissionCommission: e.SubmissionCommission,
		IsWinner:             e.IsWinner,
		IsLost:               e.IsLost,
		WinAmount:            e.WinAmount,
		MatchedNumbers:       e.MatchedNumbers,
		CancelledBy:          e.CancelledBy,
		CancelledAt:          e.CancelledAt,
		CancellationFee:      e.CancellationFee,
		RefundAmount:         e.RefundAmount,
		PaidBy:               e.PaidBy,
		PaidAt:               e.PaidAt,
		Version:              e.Version,
		CreatedAt:            e.CreatedAt,
		UpdatedAt:            e.UpdatedAt,
	}
}

func toTierEntities(tiers []model.PrizeTierJSON) []entity.PrizeTier {
	out := make([]entity.PrizeTier, len(tiers))
	for i, t := range tiers {
		out[i] = entity.PrizeTier{Numbers: t.Numbers, Amount: t.Amount}
	}
	return out
}

func toTierModels(tiers []entity.PrizeTier) []model.PrizeTierJSON {
	out := make([]model.PrizeTierJSON, len(tiers))
	for i, t := range tiers {
		out[i] = model.PrizeTierJSON{Numbers: t.Numbers, Amount: t.Amount}
	}
	return out
}

func ToPrizeResultEntity(m *model.PrizeResultModel) *entity.PrizeResult {
	if m == nil {
		return nil
	}

	winners := make([]entity.Winner, len(m.Winners))
	for i, w := range m.Winners {
		winners[i] = entity.Winner{
			ParticipationID: w.ParticipationID,
			UserID:          w.UserID,
			MatchedNumbers:  w.MatchedNumbers,
			Prize:           w.Prize,
		}
	}

	return &entity.PrizeResult{
		ID:                m.ID,
		LottoID:           m.LottoID,
		CalculationDate:   m.CalculationDate,
		WinningNumbers:    m.WinningNumbers,
		JackpotAmount:     m.JackpotAmount,
		PrizeDistribution: toTierEntities(m.PrizeDistribution),
		Winners:           winners,
		TicketCount:       m.TicketCount,
		TotalPayout:       m.TotalPayout,
		CalculatedBy:      m.CalculatedBy,
		ApprovalRequestID: m.ApprovalRequestID,
		ArchiveURL:        m.ArchiveURL,
		CreatedAt:         m.CreatedAt,
	}
}

func ToPrizeResultModel(e *entity.PrizeResult) *model.PrizeResultModel {
	if e == nil {
		return nil
	}

	winners := make([]model.WinnerJSON, len(e.Winners))
	for i, w := range e.Winners {
		winners[i] = model.WinnerJSON{
			ParticipationID: w.ParticipationID,
			UserID:          w.UserID,
			MatchedNumbers:  w.MatchedNumbers,
			Prize:           w.Prize,
		}
	}

	return &model.PrizeResultModel{
		ID:                e.ID,
		LottoID:           e.LottoID,
		CalculationDate:   e.CalculationDate,
		WinningNumbers:    e.WinningNumbers,
		JackpotAmount:     e.JackpotAmount,
		PrizeDistribution: toTierModels(e.PrizeDistribution),
		Winners:           winners,
		TicketCount:       e.TicketCount,
		TotalPayout:       e.TotalPayout,
		CalculatedBy:      e.CalculatedBy,
		ApprovalRequestID: e.ApprovalRequestID,
		ArchiveURL:        e.ArchiveURL,
		CreatedAt:         e.CreatedAt,
	}
}

func ToApprovalRequestEntity(m *model.ApprovalRequestModel) *entity.ApprovalRequest {
	if m == nil {
		return nil
	}

	return &entity.ApprovalRequest{
		ID:          m.ID,
		LottoID:     m.LottoID,
		RequestType: entity.RequestType(m.RequestType),
		Draw: entity.Draw{
			WinningNumbers:    m.WinningNumbers,
			JackpotAmount:     m.JackpotAmount,
			PrizeDistribution: toTierEntities(m.PrizeDistribution),
			TicketStats:       entity.MatchingStats(m.TicketStats),
		},
		Status:       entity.ApprovalStatus(m.Status),
		RequestedBy:  m.RequestedBy,
		Processed:    m.Processed,
		ProcessError: m.ProcessError,
		DecidedAt:    m.DecidedAt,
		Version:      m.Version,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func ToApprovalRequestModel(e *entity.ApprovalRequest) *model.ApprovalRequestModel {
	if e == nil {
		return nil
	}

	return &model.ApprovalRequestModel{
		ID:                e.ID,
		LottoID:           e.LottoID,
		RequestType:       string(e.RequestType),
		WinningNumbers:    e.Draw.WinningNumbers,
		JackpotAmount:     e.Draw.JackpotAmount,
		PrizeDistribution: toTierModels(e.Draw.PrizeDistribution),
		TicketStats:       map[int]int(e.Draw.TicketStats),
		Status:            string(e.Status),
		RequestedBy:       e.RequestedBy,
		Processed:         e.Processed,
		ProcessError:      e.ProcessError,
		DecidedAt:         e.DecidedAt,
		Version:           e.Version,
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
	}
}

func ToApprovalVoteEntity(m *model.ApprovalVoteModel) entity.ApprovalVote {
	return entity.ApprovalVote{
		ID:        m.ID,
		RequestID: m.RequestID,
		ManagerID: m.ManagerID,
		Decision:  entity.Decision(m.Decision),
		Comment:   m.Comment,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func ToApprovalHistoryEntity(m *model.ApprovalHistoryModel) entity.ApprovalHistoryEntry {
	return entity.ApprovalHistoryEntry{
		ID:        m.ID,
		RequestID: m.RequestID,
		Action:    entity.HistoryAction(m.Action),
		ActorID:   m.ActorID,
		Comment:   m.Comment,
		CreatedAt: m.CreatedAt,
	}
}

func ToDirectoryUser(m *model.UserModel) *entity.DirectoryUser {
	if m == nil {
		return nil
	}

	return &entity.DirectoryUser{
		ID:       m.ID,
		Email:    m.Email,
		Username: m.Username,
		Role:     entity.Role(m.Role),
		IsActive: m.IsActive,
	}
}
