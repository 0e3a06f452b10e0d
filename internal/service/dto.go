package service

import (
	"encoding/json"

	"github.com/cassiomorais/connectors/internal/domain/payment"
)

// Controllers convert their HTTP DTOs to these types.

type AuthorizeRequest struct {
	MerchantID          string `validate:"required"`
	Connector           string `validate:"required"`
	PaymentID           string // generated when empty
	Amount              payment.Amount
	PaymentMethod       payment.PaymentMethodData
	CaptureMethod       payment.CaptureMethod
	Email               string `validate:"omitempty,email"`
	Description         string `validate:"max=255"`
	StatementDescriptor string `validate:"max=22"`
}

type CaptureRequest struct {
	MerchantID             string `validate:"required"`
	Connector              string `validate:"required"`
	PaymentID              string
	ConnectorTransactionID string `validate:"required"`
	Amount                 payment.Amount
}

type VoidRequest struct {
	MerchantID             string `validate:"required"`
	Connector              string `validate:"required"`
	PaymentID              string
	ConnectorTransactionID string `validate:"required"`
	CancellationReason     string `validate:"max=255"`
}

type SyncRequest struct {
	MerchantID             string `validate:"required"`
	Connector              string `validate:"required"`
	PaymentID              string
	ConnectorTransactionID string `validate:"required"`
	CaptureMethod          payment.CaptureMethod
}

type RefundRequest struct {
	MerchantID             string `validate:"required"`
	Connector              string `validate:"required"`
	PaymentID              string
	RefundID               string         // generated when empty
	ConnectorTransactionID string         `validate:"required"`
	PaymentAmount          payment.Amount `validate:"-"` // optional, bounds RefundAmount when set
	RefundAmount           payment.Amount
	Reason                 string `validate:"max=255"`
}

type RefundSyncRequest struct {
	MerchantID             string `validate:"required"`
	Connector              string `validate:"required"`
	RefundID               string
	ConnectorTransactionID string
	ConnectorRefundID      string `validate:"required"`
}

// PaymentResult is the outcome of a payment flow. Exactly one of
// ConnectorTransactionID and Error is meaningful.
type PaymentResult struct {
	PaymentID              string
	AttemptID              string
	Connector              string
	Status                 payment.AttemptStatus
	ConnectorTransactionID string
	ConnectorReference     string
	ConnectorMetadata      json.RawMessage
	Error                  *payment.ErrorResponse
}

type RefundResult struct {
	RefundID          string
	Connector         string
	Status            payment.RefundStatus
	ConnectorRefundID string
	Error             *payment.ErrorResponse
}

// ConnectorInfo describes one registered adapter.
type ConnectorInfo struct {
	ID    string
	Flows []payment.Flow
}
