package persistent

import (
	"lotto-settlement/services/settlement/internal/entity"
	"lotto-settlement/services/settlement/internal/model"

	"github.com/google/uuid"
)

type PrizeResultRepository interface {
	Create(result *entity.PrizeResult) error
	GetByLotto(lottoID string) (*entity.PrizeResult, error)
	SetArchiveURL(id, url string) error
}

type prizeResultRepository struct {
	conn
}

func (r *prizeResultRepository) Create(result *entity.PrizeResult) error {
	resultModel := ToPrizeResultModel(result)
	if resultModel.ID == "" {
		resultModel.ID = uuid.New().String()
	}
	if err := r.db.Create(resultModel).Error; err != nil {
		return err
	}
	*result = *ToPrizeResultEntity(resultModel)
	return nil
}

func (r *prizeResultRepository) GetByLotto(lottoID string) (*entity.PrizeResult, error) {
	var resultModel model.PrizeResultModel
	if err := r.db.Where("lotto_id = ?", lottoID).First(&resultModel).Error; err != nil {
		return nil, notFound(err, entity.ErrResultNotFound)
	}
	return ToPrizeResultEntity(&resultModel), nil
}

func (r *prizeResultRepository) SetArchiveURL(id, url string) error {
	return r.db.Model(&model.PrizeResultModel{}).Where("id = ?", id).Update("archive_url", url).Error
}
