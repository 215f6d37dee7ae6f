package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/ironslayer/parking-management-system/internal/domain/types"
	"github.com/shopspring/decimal"
)

// Payment is created exactly once, as a side effect of session completion,
// and is never updated afterwards. Amount is derived from billing, never
// independently editable.
type Payment struct {
	ID             uuid.UUID           `json:"id"`
	SessionID      uuid.UUID           `json:"session_id"`
	Amount         decimal.Decimal     `json:"amount"`
	Method         types.PaymentMethod `json:"method"`
	Status         types.PaymentStatus `json:"status"`
	TransactionRef string              `json:"transaction_ref"`
	OperatorID     uuid.UUID           `json:"operator_id"`
	ProcessedAt    time.Time           `json:"processed_at"`
}
