// Package repository implements the record-store ports on top of the
// hosted Postgres database via gorm. The collaborator owns the schema;
// these models map only the columns the relay reads and writes.
package repository

import (
	"gorm.io/gorm"
)

// Transaction mirrors the collaborator's transaction table.
type Transaction struct {
	gorm.Model
	TransactionID     string  `gorm:"type:varchar(64);uniqueIndex;column:transaction_id"`
	Status            string  `gorm:"type:varchar(32);not null;default:'pending'"`
	Amount            int64   `gorm:"type:bigint"`
	Phone             string  `gorm:"type:varchar(16)"`
	CheckoutRequestID *string `gorm:"type:varchar(64);column:checkout_request_id;index"`
	ConversationID    *string `gorm:"type:varchar(64);column:conversation_id;index"`
	ProviderReceiptID *string `gorm:"type:varchar(64);column:provider_receipt_id"`
	ResultCode        *int    `gorm:"column:result_code"`
	ResultDesc        *string `gorm:"type:varchar(255);column:result_desc"`
	ProjectID         *string `gorm:"type:varchar(64);column:project_id"`
}

// TableName specifies the table name for the Transaction model.
func (Transaction) TableName() string {
	return "transactions"
}

// Project mirrors the slice of the collaborator's project table the
// relay touches for the completion side effect.
type Project struct {
	gorm.Model
	ProjectID string `gorm:"type:varchar(64);uniqueIndex;column:project_id"`
	Status    string `gorm:"type:varchar(32);not null;default:'active'"`
}

// TableName specifies the table name for the Project model.
func (Project) TableName() string {
	return "projects"
}
