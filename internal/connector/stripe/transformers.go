package stripe

import (
	"encoding/json"
	"fmt"

	"github.com/cassiomorais/connectors/internal/connector"
	domainErrors "github.com/cassiomorais/connectors/internal/domain/errors"
	"github.com/cassiomorais/connectors/internal/domain/payment"
	"github.com/cassiomorais/connectors/pkg/masking"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

var validate = validator.New()

// authType is the only credential shape Stripe accepts.
type authType struct {
	apiKey masking.Secret[string]
}

func newAuthType(auth payment.ConnectorAuth) (authType, error) {
	if auth.Type != payment.AuthTypeHeaderKey {
		return authType{}, domainErrors.FailedToObtainAuthType(ConnectorID)
	}
	return authType{apiKey: auth.APIKey}, nil
}

type authorizeRequestCard struct {
	Number         string `json:"number"`
	ExpMonth       string `json:"expMonth"`
	ExpYear        string `json:"expYear"`
	CVC            string `json:"cvc"`
	CardholderName string `json:"cardholderName"`
}

type authorizeRequest struct {
	Amount   string               `json:"amount"`
	Currency payment.Currency     `json:"currency"`
	Card     authorizeRequestCard `json:"card"`
	Captured string               `json:"captured"`
}

func newAuthorizeRequest(data *payment.AuthorizeData, unit payment.CurrencyUnit) (*authorizeRequest, error) {
	method := data.PaymentMethodData
	if method.Type != payment.PaymentMethodCard {
		return nil, domainErrors.NotImplemented(ConnectorID, "payment method")
	}
	if method.Card == nil {
		return nil, domainErrors.MissingRequiredField(ConnectorID, "payment_method_data.card")
	}

	captured, err := isAutoCapture(data.CaptureMethod)
	if err != nil {
		return nil, err
	}

	card := method.Card
	return &authorizeRequest{
		Amount:   data.Amount.Encode(unit),
		Currency: data.Amount.Currency,
		Card: authorizeRequestCard{
			Number:         card.Number.Expose(),
			ExpMonth:       card.ExpMonth.Expose(),
			ExpYear:        card.ExpYear.Expose(),
			CVC:            card.CVC.Expose(),
			CardholderName: card.HolderName.Expose(),
		},
		Captured: fmt.Sprintf("%t", captured),
	}, nil
}

func isAutoCapture(method payment.CaptureMethod) (bool, error) {
	switch method.OrDefault() {
	case payment.CaptureMethodAutomatic:
		return true, nil
	case payment.CaptureMethodManual:
		return false, nil
	default:
		return false, domainErrors.NotSupported(ConnectorID, "capture method "+string(method))
	}
}

type responseCard struct {
	ID             string                 `json:"id"`
	Created        int64                  `json:"created"`
	ObjectType     string                 `json:"objectType"`
	First6         string                 `json:"first6"`
	Last4          string                 `json:"last4"`
	Fingerprint    string                 `json:"fingerprint"`
	ExpMonth       masking.Secret[string] `json:"expMonth"`
	ExpYear        masking.Secret[string] `json:"expYear"`
	CardholderName masking.Secret[string] `json:"cardholderName"`
	Brand          string                 `json:"brand"`
	Type           string                 `json:"type"`
	Country        payment.CountryAlpha2  `json:"country"`
	Issuer         string                 `json:"issuer"`
}

type fraudDetails struct {
	Status string `json:"status"`
}

type avsCheck struct {
	Result string `json:"result"`
}

// chargeResponse is returned by both authorize and payment sync.
type chargeResponse struct {
	ID             string           `json:"id" validate:"required"`
	Created        int64            `json:"created"`
	ObjectType     string           `json:"objectType"`
	Amount         string           `json:"amount"`
	AmountRefunded int64            `json:"amountRefunded"`
	Currency       payment.Currency `json:"currency"`
	Card           responseCard     `json:"card"`
	Captured       string           `json:"captured"`
	Refunded       bool             `json:"refunded"`
	Disputed       bool             `json:"disputed"`
	FraudDetails   fraudDetails     `json:"fraudDetails"`
	AvsCheck       avsCheck         `json:"avsCheck"`
	Status         ChargeStatus     `json:"status" validate:"required"`
	ClientObjectID string           `json:"clientObjectId"`
}

// chargeMetadata is what Stripe's charge reply contributes to
// PaymentsResponseData.ConnectorMetadata. Card data is limited to what is
// safe to store.
type chargeMetadata struct {
	Amount         *int64                `json:"amount,omitempty"`
	Currency       payment.Currency      `json:"currency,omitempty"`
	AmountRefunded int64                 `json:"amount_refunded"`
	Captured       bool                  `json:"captured"`
	Refunded       bool                  `json:"refunded"`
	Disputed       bool                  `json:"disputed"`
	CardBrand      string                `json:"card_brand,omitempty"`
	CardType       string                `json:"card_type,omitempty"`
	CardFirst6     string                `json:"card_first6,omitempty"`
	CardLast4      string                `json:"card_last4,omitempty"`
	CardCountry    payment.CountryAlpha2 `json:"card_country,omitempty"`
	CardIssuer     string                `json:"card_issuer,omitempty"`
	Fingerprint    string                `json:"fingerprint,omitempty"`
	FraudStatus    string                `json:"fraud_status,omitempty"`
	AVSResult      string                `json:"avs_result,omitempty"`
}

func (r *chargeResponse) metadata(unit payment.CurrencyUnit) (json.RawMessage, error) {
	meta := chargeMetadata{
		Currency:       r.Currency,
		AmountRefunded: r.AmountRefunded,
		Captured:       r.Captured == "true",
		Refunded:       r.Refunded,
		Disputed:       r.Disputed,
		CardBrand:      r.Card.Brand,
		CardType:       r.Card.Type,
		CardFirst6:     r.Card.First6,
		CardLast4:      r.Card.Last4,
		CardCountry:    r.Card.Country,
		CardIssuer:     r.Card.Issuer,
		Fingerprint:    r.Card.Fingerprint,
		FraudStatus:    r.FraudDetails.Status,
		AVSResult:      r.AvsCheck.Result,
	}
	// The reply amount is informational; an unreadable one never fails the charge.
	if r.Amount != "" {
		amt, err := payment.ParseAmount(r.Amount, unit, r.Currency)
		if err != nil {
			log.Warn().Err(err).
				Str("connector", ConnectorID).
				Str("charge_id", r.ID).
				Str("amount", r.Amount).
				Msg("omitting unparseable charge amount from metadata")
		} else {
			meta.Amount = &amt.Minor
		}
	}
	return json.Marshal(meta)
}

// withCharge merges a charge reply into a copy of data. Authorize and sync
// share it.
func withCharge[Req any](
	data *payment.RouterData[Req, payment.PaymentsResponseData],
	r *chargeResponse,
	unit payment.CurrencyUnit,
) (*payment.RouterData[Req, payment.PaymentsResponseData], error) {
	res, err := r.paymentsResponse(unit)
	if err != nil {
		return nil, err
	}
	out := data.WithResponse(res)
	out.Status = r.Status.AttemptStatus()
	return out, nil
}

func (r *chargeResponse) paymentsResponse(unit payment.CurrencyUnit) (payment.PaymentsResponseData, error) {
	meta, err := r.metadata(unit)
	if err != nil {
		return payment.PaymentsResponseData{}, err
	}
	return payment.PaymentsResponseData{
		ResourceID:                   r.ID,
		ConnectorMetadata:            meta,
		ConnectorResponseReferenceID: r.ClientObjectID,
	}, nil
}

// ChargeStatus is Stripe's charge state.
type ChargeStatus string

const (
	ChargeStatusSuccessful ChargeStatus = "Successful"
	ChargeStatusFailed     ChargeStatus = "Failed"
	ChargeStatusPending    ChargeStatus = "Pending"
)

var ChargeStatuses = []ChargeStatus{
	ChargeStatusSuccessful,
	ChargeStatusFailed,
	ChargeStatusPending,
}

var chargeStatusTable = map[ChargeStatus]payment.AttemptStatus{
	ChargeStatusSuccessful: payment.AttemptStatusCharged,
	ChargeStatusFailed:     payment.AttemptStatusFailure,
	ChargeStatusPending:    payment.AttemptStatusPending,
}

func (s ChargeStatus) AttemptStatus() payment.AttemptStatus {
	return chargeStatusTable[s]
}

// UnmarshalJSON accepts only statuses present in the mapping table.
func (s *ChargeStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if _, ok := chargeStatusTable[ChargeStatus(raw)]; !ok {
		return fmt.Errorf("unknown charge status %q", raw)
	}
	*s = ChargeStatus(raw)
	return nil
}

type refundRequest struct {
	Amount int64 `json:"amount"`
}

func newRefundRequest(data *payment.RefundsData) *refundRequest {
	return &refundRequest{Amount: data.RefundAmount.Minor}
}

type refundResponse struct {
	ID     string       `json:"id" validate:"required"`
	Status RefundStatus `json:"status" validate:"required"`
}

func (r *refundResponse) toRouterData(
	data *payment.RouterData[payment.RefundsData, payment.RefundsResponseData],
) *payment.RouterData[payment.RefundsData, payment.RefundsResponseData] {
	return data.WithResponse(payment.RefundsResponseData{
		ConnectorRefundID: r.ID,
		RefundStatus:      r.Status.RefundStatus(),
	})
}

// RefundStatus is Stripe's refund state.
type RefundStatus string

const (
	RefundStatusSucceeded  RefundStatus = "Succeeded"
	RefundStatusFailed     RefundStatus = "Failed"
	RefundStatusProcessing RefundStatus = "Processing"
)

var RefundStatuses = []RefundStatus{
	RefundStatusSucceeded,
	RefundStatusFailed,
	RefundStatusProcessing,
}

var refundStatusTable = map[RefundStatus]payment.RefundStatus{
	RefundStatusSucceeded:  payment.RefundStatusSuccess,
	RefundStatusFailed:     payment.RefundStatusFailure,
	RefundStatusProcessing: payment.RefundStatusPending,
}

func (s RefundStatus) RefundStatus() payment.RefundStatus {
	return refundStatusTable[s]
}

func (s *RefundStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if _, ok := refundStatusTable[RefundStatus(raw)]; !ok {
		return fmt.Errorf("unknown refund status %q", raw)
	}
	*s = RefundStatus(raw)
	return nil
}

type errorResponse struct {
	Code    string  `json:"code" validate:"required"`
	Message string  `json:"message" validate:"required"`
	Reason  *string `json:"reason"`
}

func (e *errorResponse) toErrorResponse(statusCode int) payment.ErrorResponse {
	return payment.ErrorResponse{
		StatusCode: statusCode,
		Code:       e.Code,
		Message:    e.Message,
		Reason:     e.Reason,
	}
}

// decode parses body into T and checks its required fields.
func decode[T any](res connector.Response, target string) (*T, error) {
	var v T
	if err := json.Unmarshal(res.Body, &v); err != nil {
		return nil, domainErrors.ResponseDeserializationFailed(ConnectorID, target, err)
	}
	if err := validate.Struct(&v); err != nil {
		return nil, domainErrors.ResponseDeserializationFailed(ConnectorID, target, err)
	}
	return &v, nil
}
