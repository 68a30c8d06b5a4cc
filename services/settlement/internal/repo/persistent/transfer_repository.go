package persistent

import (
	"lotto-settlement/services/settlement/internal/entity"
	"lotto-settlement/services/settlement/internal/model"

	"github.com/google/uuid"
)

type TransferRepository interface {
	Create(transfer *entity.Transfer) error
	ListByOwner(ownerID string, limit, offset int) ([]*entity.Transfer, error)
}

type transferRepository struct {
	conn
}

func (r *transferRepository) Create(transfer *entity.Transfer) error {
	transferModel := ToTransferModel(transfer)
	if transferModel.ID == "" {
		transferModel.ID = uuid.New().String()
	}
	if err := r.db.Create(transferModel).Error; err != nil {
		return err
	}
	*transfer = *ToTransferEntity(transferModel)
	return nil
}

func (r *transferRepository) ListByOwner(ownerID string, limit, offset int) ([]*entity.Transfer, error) {
	var transferModels []model.TransferModel
	query := r.db.Where("from_owner_id = ? OR to_owner_id = ?", ownerID, ownerID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	if err := query.Find(&transferModels).Error; err != nil {
		return nil, err
	}

	transfers := make([]*entity.Transfer, len(transferModels))
	for i := range transferModels {
		transfers[i] = ToTransferEntity(&transferModels[i])
	}
	return transfers, nil
}
