package persistent

import (
	"errors"
	"time"

	"lotto-settlement/services/settlement/internal/entity"
	"lotto-settlement/services/settlement/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ApprovalRepository interface {
	Create(request *entity.ApprovalRequest) error
	// Get loads a request without its votes and history.
	Get(id string) (*entity.ApprovalRequest, error)
	List(status entity.ApprovalStatus, limit, offset int) ([]*entity.ApprovalRequest, error)
	HasPending(lottoID string) (bool, error)
	Update(request *entity.ApprovalRequest) error

	// UpsertVote stores the manager's vote, replacing any earlier one on the same request.
	UpsertVote(vote *entity.ApprovalVote) error
	ListVotes(requestID string) ([]entity.ApprovalVote, error)
	AppendHistory(entry *entity.ApprovalHistoryEntry) error
	ListHistory(requestID string) ([]entity.ApprovalHistoryEntry, error)
}

type approvalRepository struct {
	conn
}

func (r *approvalRepository) Create(request *entity.ApprovalRequest) error {
	requestModel := ToApprovalRequestModel(request)
	if requestModel.ID == "" {
		requestModel.ID = uuid.New().String()
	}
	requestModel.Version = 1
	if err := r.db.Create(requestModel).Error; err != nil {
		return err
	}
	votes, history := request.Votes, request.History
	*request = *ToApprovalRequestEntity(requestModel)
	request.Votes, request.History = votes, history
	return nil
}

func (r *approvalRepository) Get(id string) (*entity.ApprovalRequest, error) {
	var requestModel model.ApprovalRequestModel
	if err := r.read().Where("id = ?", id).First(&requestModel).Error; err != nil {
		return nil, notFound(err, entity.ErrRequestNotFound)
	}
	return ToApprovalRequestEntity(&requestModel), nil
}

func (r *approvalRepository) List(status entity.ApprovalStatus, limit, offset int) ([]*entity.ApprovalRequest, error) {
	var requestModels []model.ApprovalRequestModel
	query := r.db.Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", string(status))
	}
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	if err := query.Find(&requestModels).Error; err != nil {
		return nil, err
	}

	requests := make([]*entity.ApprovalRequest, len(requestModels))
	for i := range requestModels {
		requests[i] = ToApprovalRequestEntity(&requestModels[i])
	}
	return requests, nil
}

func (r *approvalRepository) HasPending(lottoID string) (bool, error) {
	var count int64
	err := r.db.Model(&model.ApprovalRequestModel{}).
		Where("lotto_id = ? AND status = ?", lottoID, string(entity.ApprovalPending)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *approvalRepository) Update(request *entity.ApprovalRequest) error {
	requestModel := ToApprovalRequestModel(request)
	requestModel.Version = request.Version + 1
	if err := r.saveVersioned(requestModel, request.Version); err != nil {
		return err
	}
	request.Version = requestModel.Version
	request.UpdatedAt = requestModel.UpdatedAt
	return nil
}

func (r *approvalRepository) UpsertVote(vote *entity.ApprovalVote) error {
	var existing model.ApprovalVoteModel
	err := r.db.Where("request_id = ? AND manager_id = ?", vote.RequestID, vote.ManagerID).First(&existing).Error
	switch {
	case err == nil:
		existing.Decision = string(vote.Decision)
		existing.Comment = vote.Comment
		existing.UpdatedAt = time.Now()
		if err := r.db.Save(&existing).Error; err != nil {
			return err
		}
		*vote = ToApprovalVoteEntity(&existing)
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		voteModel := &model.ApprovalVoteModel{
			ID:        uuid.New().String(),
			RequestID: vote.RequestID,
			ManagerID: vote.ManagerID,
			Decision:  string(vote.Decision),
			Comment:   vote.Comment,
		}
		if err := r.db.Create(voteModel).Error; err != nil {
			return err
		}
		*vote = ToApprovalVoteEntity(voteModel)
		return nil
	default:
		return err
	}
}

func (r *approvalRepository) ListVotes(requestID string) ([]entity.ApprovalVote, error) {
	var voteModels []model.ApprovalVoteModel
	if err := r.db.Where("request_id = ?", requestID).Order("created_at").Find(&voteModels).Error; err != nil {
		return nil, err
	}

	votes := make([]entity.ApprovalVote, len(voteModels))
	for i := range voteModels {
		votes[i] = ToApprovalVoteEntity(&voteModels[i])
	}
	return votes, nil
}

func (r *approvalRepository) AppendHistory(entry *entity.ApprovalHistoryEntry) error {
	var last int
	if err := r.db.Model(&model.ApprovalHistoryModel{}).
		Where("request_id = ?", entry.RequestID).
		Select("COALESCE(MAX(sequence), 0)").Scan(&last).Error; err != nil {
		return err
	}

	historyModel := &model.ApprovalHistoryModel{
		ID:        uuid.New().String(),
		RequestID: entry.RequestID,
		Sequence:  last + 1,
		Action:    string(entry.Action),
		ActorID:   entry.ActorID,
		Comment:   entry.Comment,
		CreatedAt: entry.CreatedAt,
	}
	if err := r.db.Create(historyModel).Error; err != nil {
		return err
	}
	*entry = ToApprovalHistoryEntity(historyModel)
	return nil
}

func (r *approvalRepository) ListHistory(requestID string) ([]entity.ApprovalHistoryEntry, error) {
	var historyModels []model.ApprovalHistoryModel
	if err := r.db.Where("request_id = ?", requestID).Order("sequence").Find(&historyModels).Error; err != nil {
		return nil, err
	}

	history := make([]entity.ApprovalHistoryEntry, len(historyModels))
	for i := range historyModels {
		history[i] = ToApprovalHistoryEntity(&historyModels[i])
	}
	return history, nil
}
