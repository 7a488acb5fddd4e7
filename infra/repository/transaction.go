package repository

import (
	"context"
	"errors"

	"github.com/mwendwa/payrelay/pkg/domain"
	"github.com/mwendwa/payrelay/pkg/dto"
	repo "github.com/mwendwa/payrelay/pkg/repository"
	"gorm.io/gorm"
)

type transactionRepository struct {
	db *gorm.DB
}

// NewTransaction creates a transaction repository using the provided *gorm.DB.
func NewTransaction(db *gorm.DB) repo.Transaction {
	return &transactionRepository{db: db}
}

// Get implements repository.Transaction.
func (r *transactionRepository) Get(
	ctx context.Context,
	id string,
) (*dto.TransactionRead, error) {
	var tx Transaction
	err := r.db.WithContext(ctx).Where("transaction_id = ?", id).First(&tx).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrTransactionNotFound
	}
	if err != nil {
		return nil, err
	}
	return mapModelToRead(&tx), nil
}

// GetByConversationID implements repository.Transaction.
func (r *transactionRepository) GetByConversationID(
	ctx context.Context,
	conversationID string,
) (*dto.TransactionRead, error) {
	var tx Transaction
	err := r.db.WithContext(ctx).Where("conversation_id = ?", conversationID).First(&tx).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrTransactionNotFound
	}
	if err != nil {
		return nil, err
	}
	return mapModelToRead(&tx), nil
}

// Update implements repository.Transaction.
func (r *transactionRepository) Update(
	ctx context.Context,
	id string,
	update dto.TransactionUpdate,
) error {
	updates := mapUpdateDTOToColumns(update)
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(
		ctx,
	).Model(
		&Transaction{},
	).Where(
		"transaction_id = ?",
		id,
	).Updates(
		updates,
	).Error
}

// UpdateByConversationID implements repository.Transaction.
func (r *transactionRepository) UpdateByConversationID(
	ctx context.Context,
	conversationID string,
	update dto.TransactionUpdate,
) error {
	updates := mapUpdateDTOToColumns(update)
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(
		ctx,
	).Model(
		&Transaction{},
	).Where(
		"conversation_id = ?",
		conversationID,
	).Updates(
		updates,
	).Error
}

func mapModelToRead(tx *Transaction) *dto.TransactionRead {
	read := &dto.TransactionRead{
		ID:        tx.TransactionID,
		Status:    domain.Status(tx.Status),
		Amount:    tx.Amount,
		Phone:     tx.Phone,
		CreatedAt: tx.CreatedAt,
	}
	if tx.CheckoutRequestID != nil {
		read.CheckoutRequestID = *tx.CheckoutRequestID
	}
	if tx.ConversationID != nil {
		read.ConversationID = *tx.ConversationID
	}
	if tx.ProviderReceiptID != nil {
		read.ProviderReceiptID = *tx.ProviderReceiptID
	}
	if tx.ProjectID != nil {
		read.ProjectID = *tx.ProjectID
	}
	return read
}

func mapUpdateDTOToColumns(update dto.TransactionUpdate) map[string]any {
	updates := map[string]any{}
	if update.Status != nil {
		updates["status"] = string(*update.Status)
	}
	if update.ConversationID != nil {
		updates["conversation_id"] = *update.ConversationID
	}
	if update.ProviderReceiptID != nil {
		updates["provider_receipt_id"] = *update.ProviderReceiptID
	}
	if update.ResultCode != nil {
		updates["result_code"] = *update.ResultCode
	}
	if update.ResultDesc != nil {
		updates["result_desc"] = *update.ResultDesc
	}
	return updates
}
