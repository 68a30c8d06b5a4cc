package persistent

import (
	"lotto-settlement/services/settlement/internal/entity"
	"lotto-settlement/services/settlement/internal/model"

	"github.com/google/uuid"
)

type TransactionRepository interface {
	Create(transaction *entity.Transaction) error
	ListByOwner(ownerID string, limit, offset int) ([]*entity.Transaction, error)
	ListByReference(referenceType entity.ReferenceType, referenceID string) ([]*entity.Transaction, error)
}

type transactionRepository struct {
	conn
}

func (r *transactionRepository) Create(transaction *entity.Transaction) error {
	transactionModel := ToTransactionModel(transaction)
	if transactionModel.ID == "" {
		transactionModel.ID = uuid.New().String()
	}
	if err := r.db.Create(transactionModel).Error; err != nil {
		return err
	}
	*transaction = *ToTransactionEntity(transactionModel)
	return nil
}

func (r *transactionRepository) ListByOwner(ownerID string, limit, offset int) ([]*entity.Transaction, error) {
	var transactionModels []model.TransactionModel
	query := r.db.Where("owner_id = ?", ownerID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	if err := query.Find(&transactionModels).Error; err != nil {
		return nil, err
	}
	return toTransactionEntities(transactionModels), nil
}

func (r *transactionRepository) ListByReference(referenceType entity.ReferenceType, referenceID string) ([]*entity.Transaction, error) {
	var transactionModels []model.TransactionModel
	if err := r.db.Where("reference_type = ? AND reference_id = ?", string(referenceType), referenceID).
		Order("created_at").Find(&transactionModels).Error; err != nil {
		return nil, err
	}
	return toTransactionEntities(transactionModels), nil
}

func toTransactionEntities(models []model.TransactionModel) []*entity.Transaction {
	transactions := make([]*entity.Transaction, len(models))
	for i := range models {
		transactions[i] = ToTransactionEntity(&models[i])
	}
	return transactions
}
