package payment

import "encoding/json"

// RouterData carries one connector call: who is calling, with which
// credentials, the flow's canonical request and, once handled, either the
// flow's response or an ErrorResponse.
type RouterData[Req, Res any] struct {
	Flow          Flow
	MerchantID    string
	Connector     string
	PaymentID     string
	AttemptID     string
	Status        AttemptStatus
	PaymentMethod PaymentMethodType
	ConnectorAuth ConnectorAuth
	Description   string
	Request       Req
	Response      *Res
	Error         *ErrorResponse
}

// WithResponse returns a copy of d carrying res.
func (d RouterData[Req, Res]) WithResponse(res Res) *RouterData[Req, Res] {
	d.Response = &res
	d.Error = nil
	return &d
}

// WithError returns a copy of d carrying e.
func (d RouterData[Req, Res]) WithError(e ErrorResponse) *RouterData[Req, Res] {
	d.Error = &e
	d.Response = nil
	return &d
}

// AuthorizeData is the canonical authorize request.
type AuthorizeData struct {
	Amount              Amount
	PaymentMethodData   PaymentMethodData
	CaptureMethod       CaptureMethod
	Email               string
	StatementDescriptor string
}

type CaptureData struct {
	AmountToCapture        Amount
	ConnectorTransactionID string
}

type CancelData struct {
	ConnectorTransactionID string
	CancellationReason     string
}

// SyncData asks the connector for the current state of a payment.
type SyncData struct {
	ConnectorTransactionID string
	CaptureMethod          CaptureMethod
}

type RefundsData struct {
	RefundID               string
	ConnectorTransactionID string
	ConnectorRefundID      string
	PaymentAmount          Amount
	RefundAmount           Amount
	Reason                 string
}

// PaymentsResponseData is the canonical result of a payment flow.
// ConnectorMetadata is opaque connector output the caller may store.
type PaymentsResponseData struct {
	ResourceID                   string          `json:"resource_id"`
	ConnectorMetadata            json.RawMessage `json:"connector_metadata,omitempty"`
	NetworkTxnID                 string          `json:"network_txn_id,omitempty"`
	ConnectorResponseReferenceID string          `json:"connector_response_reference_id,omitempty"`
}

type RefundsResponseData struct {
	ConnectorRefundID string       `json:"connector_refund_id"`
	RefundStatus      RefundStatus `json:"refund_status"`
}

// ErrorResponse is a processor-reported failure. StatusCode is the transport
// status, the rest comes from the processor body.
type ErrorResponse struct {
	StatusCode int     `json:"status_code"`
	Code       string  `json:"code"`
	Message    string  `json:"message"`
	Reason     *string `json:"reason,omitempty"`
}

// Empty is the payload of flows that carry no data.
type Empty struct{}
