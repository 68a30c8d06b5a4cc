package persistent

import (
	"lotto-settlement/services/settlement/internal/entity"
	"lotto-settlement/services/settlement/internal/model"

	"github.com/google/uuid"
)

type ParticipationRepository interface {
	Create(participation *entity.Participation) error
	Get(id string) (*entity.Participation, error)
	// ListByLotto returns the lotto's participations, optionally only those in statuses.
	ListByLotto(lottoID string, statuses ...entity.ParticipationStatus) ([]*entity.Participation, error)
	ListByUser(userID string, limit, offset int) ([]*entity.Participation, error)
	CountByLotto(lottoID string) (int64, error)
	Update(participation *entity.Participation) error
}

type participationRepository struct {
	conn
}

func (r *participationRepository) Create(participation *entity.Participation) error {
	participationModel := ToParticipationModel(participation)
	if participationModel.ID == "" {
		participationModel.ID = uuid.New().String()
	}
	participationModel.Version = 1
	if err := r.db.Create(participationModel).Error; err != nil {
		return err
	}
	*participation = *ToParticipationEntity(participationModel)
	return nil
}

func (r *participationRepository) Get(id string) (*entity.Participation, error) {
	var participationModel model.ParticipationModel
	if err := r.read().Where("id = ?", id).First(&participationModel).Error; err != nil {
		return nil, notFound(err, entity.ErrParticipationNotFound)
	}
	return ToParticipationEntity(&participationModel), nil
}

func (r *participationRepository) ListByLotto(lottoID string, statuses ...entity.ParticipationStatus) ([]*entity.Participation, error) {
	var participationModels []model.ParticipationModel
	query := r.read().Where("lotto_id = ?", lottoID)
	if len(statuses) > 0 {
		values := make([]string, len(statuses))
		for i, s := range statuses {
			values[i] = string(s)
		}
		query = query.Where("status IN ?", values)
	}
	if err := query.Order("purchase_date").Find(&participationModels).Error; err != nil {
		return nil, err
	}
	return toParticipationEntities(participationModels), nil
}

func (r *participationRepository) ListByUser(userID string, limit, offset int) ([]*entity.Participation, error) {
	var participationModels []model.ParticipationModel
	query := r.db.Where("user_id = ?", userID).Order("purchase_date DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	if err := query.Find(&participationModels).Error; err != nil {
		return nil, err
	}
	return toParticipationEntities(participationModels), nil
}

func (r *participationRepository) CountByLotto(lottoID string) (int64, error) {
	var count int64
	if err := r.db.Model(&model.ParticipationModel{}).Where("lotto_id = ?", lottoID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *participationRepository) Update(participation *entity.Participation) error {
	participationModel := ToParticipationModel(participation)
	participationModel.Version = participation.Version + 1
	if err := r.saveVersioned(participationModel, participation.Version); err != nil {
		return err
	}
	participation.Version = participationModel.Version
	participation.UpdatedAt = participationModel.UpdatedAt
	return nil
}

func toParticipationEntities(models []model.ParticipationModel) []*entity.Participation {
	participations := make([]*entity.Participation, len(models))
	for i := range models {
		participations[i] = ToParticipationEntity(&models[i])
	}
	return participations
}
