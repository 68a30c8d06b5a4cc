package persistent

import (
	"lotto-settlement/services/settlement/internal/entity"
	"lotto-settlement/services/settlement/internal/model"

	"github.com/google/uuid"
)

type LottoRepository interface {
	Create(lotto *entity.Lotto) error
	Get(id string) (*entity.Lotto, error)
	List() ([]*entity.Lotto, error)
	// ListOpen returns lottos whose status is not yet completed.
	ListOpen() ([]*entity.Lotto, error)
	// Update saves every field if the row is still at lotto.Version and bumps it.
	Update(lotto *entity.Lotto) error
	Delete(id string) error
}

type lottoRepository struct {
	conn
}

func (r *lottoRepository) Create(lotto *entity.Lotto) error {
	lottoModel := ToLottoModel(lotto)
	if lottoModel.ID == "" {
		lottoModel.ID = uuid.New().String()
	}
	lottoModel.Version = 1
	if err := r.db.Create(lottoModel).Error; err != nil {
		return err
	}
	*lotto = *ToLottoEntity(lottoModel)
	return nil
}

func (r *lottoRepository) Get(id string) (*entity.Lotto, error) {
	var lottoModel model.LottoModel
	if err := r.read().Where("id = ?", id).First(&lottoModel).Error; err != nil {
		return nil, notFound(err, entity.ErrLottoNotFound)
	}
	return ToLottoEntity(&lottoModel), nil
}

func (r *lottoRepository) List() ([]*entity.Lotto, error) {
	var lottoModels []model.LottoModel
	if err := r.db.Order("start_date DESC").Find(&lottoModels).Error; err != nil {
		return nil, err
	}
	return toLottoEntities(lottoModels), nil
}

func (r *lottoRepository) ListOpen() ([]*entity.Lotto, error) {
	var lottoModels []model.LottoModel
	if err := r.db.Where("status <> ?", string(entity.LottoCompleted)).Order("start_date").Find(&lottoModels).Error; err != nil {
		return nil, err
	}
	return toLottoEntities(lottoModels), nil
}

func (r *lottoRepository) Update(lotto *entity.Lotto) error {
	lottoModel := ToLottoModel(lotto)
	lottoModel.Version = lotto.Version + 1
	if err := r.saveVersioned(lottoModel, lotto.Version); err != nil {
		return err
	}
	lotto.Version = lottoModel.Version
	lotto.UpdatedAt = lottoModel.UpdatedAt
	return nil
}

func (r *lottoRepository) Delete(id string) error {
	res := r.db.Where("id = ?", id).Delete(&model.LottoModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return entity.ErrLottoNotFound
	}
	return nil
}

func toLottoEntities(models []model.LottoModel) []*entity.Lotto {
	lottos := make([]*entity.Lotto, len(models))
	for i := range models {
		lottos[i] = ToLottoEntity(&models[i])
	}
	return lottos
}
