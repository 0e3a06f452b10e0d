package controller

import (
	"encoding/json"

	domainErrors "github.com/cassiomorais/connectors/internal/domain/errors"
	"github.com/cassiomorais/connectors/internal/domain/payment"
	"github.com/cassiomorais/connectors/internal/service"
	"github.com/cassiomorais/connectors/pkg/cards"
	"github.com/cassiomorais/connectors/pkg/masking"
)

// --- Request DTOs ---
// These DTOs handle HTTP/JSON concerns (minor units as integers, validation tags).
// Controllers convert these to service layer DTOs before calling business logic.

type CardRequest struct {
	Number     string `json:"number" validate:"required"`
	ExpMonth   string `json:"exp_month" validate:"required"`
	ExpYear    string `json:"exp_year" validate:"required"`
	CVC        string `json:"cvc" validate:"required"`
	HolderName string `json:"holder_name"`
}

type PaymentMethodRequest struct {
	Type string       `json:"type" validate:"required,oneof=card wallet bank_redirect bank_transfer pay_later crypto"`
	Card *CardRequest `json:"card,omitempty" validate:"required_if=Type card"`
}

// AuthorizePaymentRequest is the body of POST /api/v1/payments.
type AuthorizePaymentRequest struct {
	Connector           string               `json:"connector" validate:"required"`
	PaymentID           string               `json:"payment_id,omitempty" validate:"max=64"`
	Amount              int64                `json:"amount" validate:"required,gt=0"`
	Currency            string               `json:"currency" validate:"required,len=3"`
	CaptureMethod       string               `json:"capture_method,omitempty"`
	PaymentMethod       PaymentMethodRequest `json:"payment_method"`
	Email               string               `json:"email,omitempty" validate:"omitempty,email"`
	Description         string               `json:"description,omitempty"`
	StatementDescriptor string               `json:"statement_descriptor,omitempty"`
}

type CapturePaymentRequest struct {
	PaymentID string `json:"payment_id,omitempty"`
	Amount    int64  `json:"amount" validate:"required,gt=0"`
	Currency  string `json:"currency" validate:"required,len=3"`
}

type VoidPaymentRequest struct {
	PaymentID          string `json:"payment_id,omitempty"`
	CancellationReason string `json:"cancellation_reason,omitempty"`
}

// CreateRefundRequest is the body of POST /api/v1/refunds.
type CreateRefundRequest struct {
	Connector              string `json:"connector" validate:"required"`
	ConnectorTransactionID string `json:"connector_transaction_id" validate:"required"`
	PaymentID              string `json:"payment_id,omitempty"`
	RefundID               string `json:"refund_id,omitempty" validate:"max=64"`
	Amount                 int64  `json:"amount" validate:"required,gt=0"`
	Currency               string `json:"currency" validate:"required,len=3"`
	PaymentAmount          int64  `json:"payment_amount,omitempty" validate:"gte=0"`
	Reason                 string `json:"reason,omitempty"`
}

// --- Response DTOs ---

type PaymentResponse struct {
	PaymentID              string                 `json:"payment_id"`
	AttemptID              string                 `json:"attempt_id"`
	Connector              string                 `json:"connector"`
	Status                 payment.AttemptStatus  `json:"status"`
	ConnectorTransactionID string                 `json:"connector_transaction_id,omitempty"`
	ConnectorReference     string                 `json:"connector_reference,omitempty"`
	ConnectorMetadata      json.RawMessage        `json:"connector_metadata,omitempty"`
	Error                  *payment.ErrorResponse `json:"error,omitempty"`
}

type RefundResponse struct {
	RefundID          string                 `json:"refund_id,omitempty"`
	Connector         string                 `json:"connector"`
	Status            payment.RefundStatus   `json:"status"`
	ConnectorRefundID string                 `json:"connector_refund_id,omitempty"`
	Error             *payment.ErrorResponse `json:"error,omitempty"`
}

type ConnectorResponse struct {
	ID    string         `json:"id"`
	Flows []payment.Flow `json:"flows"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// --- Conversion Helpers ---

func toAmount(minor int64, currency string) (payment.Amount, error) {
	cur, err := payment.ParseCurrency(currency)
	if err != nil {
		return payment.Amount{}, err
	}
	return payment.Amount{Minor: minor, Currency: cur}, nil
}

func (r PaymentMethodRequest) toPaymentMethod() (payment.PaymentMethodData, error) {
	data := payment.PaymentMethodData{Type: payment.PaymentMethodType(r.Type)}
	if r.Card == nil {
		return data, nil
	}
	number, err := cards.NewCardNumber(r.Card.Number)
	if err != nil {
		return payment.PaymentMethodData{}, domainErrors.NewValidationError("payment_method.card.number", err.Error())
	}
	data.Card = &payment.Card{
		Number:     number,
		ExpMonth:   masking.NewSecret(r.Card.ExpMonth),
		ExpYear:    masking.NewSecret(r.Card.ExpYear),
		CVC:        masking.NewSecret(r.Card.CVC),
		HolderName: masking.NewSecret(r.Card.HolderName),
	}
	return data, nil
}

func (r AuthorizePaymentRequest) toService(merchantID string) (service.AuthorizeRequest, error) {
	amount, err := toAmount(r.Amount, r.Currency)
	if err != nil {
		return service.AuthorizeRequest{}, err
	}
	method, err := r.PaymentMethod.toPaymentMethod()
	if err != nil {
		return service.AuthorizeRequest{}, err
	}
	return service.AuthorizeRequest{
		MerchantID:          merchantID,
		Connector:           r.Connector,
		PaymentID:           r.PaymentID,
		Amount:              amount,
		PaymentMethod:       method,
		CaptureMethod:       payment.CaptureMethod(r.CaptureMethod),
		Email:               r.Email,
		Description:         r.Description,
		StatementDescriptor: r.StatementDescriptor,
	}, nil
}

func (r CreateRefundRequest) toService(merchantID string) (service.RefundRequest, error) {
	refundAmount, err := toAmount(r.Amount, r.Currency)
	if err != nil {
		return service.RefundRequest{}, err
	}
	req := service.RefundRequest{
		MerchantID:             merchantID,
		Connector:              r.Connector,
		PaymentID:              r.PaymentID,
		RefundID:               r.RefundID,
		ConnectorTransactionID: r.ConnectorTransactionID,
		RefundAmount:           refundAmount,
		Reason:                 r.Reason,
	}
	if r.PaymentAmount > 0 {
		req.PaymentAmount = payment.Amount{Minor: r.PaymentAmount, Currency: refundAmount.Currency}
	}
	return req, nil
}

func toPaymentResponse(r *service.PaymentResult) PaymentResponse {
	return PaymentResponse{
		PaymentID:              r.PaymentID,
		AttemptID:              r.AttemptID,
		Connector:              r.Connector,
		Status:                 r.Status,
		ConnectorTransactionID: r.ConnectorTransactionID,
		ConnectorReference:     r.ConnectorReference,
		ConnectorMetadata:      r.ConnectorMetadata,
		Error:                  r.Error,
	}
}

func toRefundResponse(r *service.RefundResult) RefundResponse {
	return RefundResponse{
		RefundID:          r.RefundID,
		Connector:         r.Connector,
		Status:            r.Status,
		ConnectorRefundID: r.ConnectorRefundID,
		Error:             r.Error,
	}
}
