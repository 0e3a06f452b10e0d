// Package connector defines the contract every payment processor adapter
// implements and the pipeline that drives one call through it.
package connector

import (
	"encoding/json"

	"github.com/cassiomorais/connectors/internal/domain/payment"
)

// Common is the part of an adapter shared by all of its flows.
type Common interface {
	ID() string
	ContentType() string
	CurrencyUnit() payment.CurrencyUnit
	BaseURL(settings Settings) string
	// AuthHeaders turns merchant credentials into request headers. Variants
	// the connector does not accept fail with FailedToObtainAuthType.
	AuthHeaders(auth payment.ConnectorAuth) ([]Header, error)
	// BuildErrorResponse decodes the connector's error shape.
	BuildErrorResponse(res Response) (payment.ErrorResponse, error)
}

// Validator holds the checks that run before any request is built.
type Validator interface {
	ValidateCaptureMethod(method payment.CaptureMethod) error
}

// Integration is one flow of one connector. Headers, URL and RequestBody are
// independent; BuildRequest composes them in that order.
type Integration[Req, Res any] interface {
	Method() Method
	Headers(data *payment.RouterData[Req, Res], settings Settings) ([]Header, error)
	URL(data *payment.RouterData[Req, Res], settings Settings) (string, error)
	// RequestBody returns nil for flows that send no body.
	RequestBody(data *payment.RouterData[Req, Res]) (*RequestBody, error)
	// HandleResponse parses a 2xx reply and returns a copy of data carrying
	// the canonical result.
	HandleResponse(data *payment.RouterData[Req, Res], res Response) (*payment.RouterData[Req, Res], error)
	// ErrorResponse parses a non-2xx reply.
	ErrorResponse(res Response) (payment.ErrorResponse, error)
}

// IncomingWebhook extracts data from a connector's webhook payload.
type IncomingWebhook interface {
	WebhookObjectReferenceID(body []byte) (string, error)
	WebhookEventType(body []byte) (string, error)
	WebhookResourceObject(body []byte) (json.RawMessage, error)
}

type (
	AuthorizeIntegration          = Integration[payment.AuthorizeData, payment.PaymentsResponseData]
	CaptureIntegration            = Integration[payment.CaptureData, payment.PaymentsResponseData]
	VoidIntegration               = Integration[payment.CancelData, payment.PaymentsResponseData]
	PSyncIntegration              = Integration[payment.SyncData, payment.PaymentsResponseData]
	RefundIntegration             = Integration[payment.RefundsData, payment.RefundsResponseData]
	RSyncIntegration              = Integration[payment.RefundsData, payment.RefundsResponseData]
	SessionIntegration            = Integration[payment.Empty, payment.Empty]
	AccessTokenIntegration        = Integration[payment.Empty, payment.Empty]
	SetupMandateIntegration       = Integration[payment.Empty, payment.Empty]
	PaymentMethodTokenIntegration = Integration[payment.Empty, payment.Empty]
)

// Connector is a complete adapter: one integration per flow. Flows the
// adapter does not implement return an Unsupported integration.
type Connector interface {
	Common
	Validator
	IncomingWebhook

	Authorize() AuthorizeIntegration
	Capture() CaptureIntegration
	Void() VoidIntegration
	PSync() PSyncIntegration
	Refund() RefundIntegration
	RSync() RSyncIntegration
	Session() SessionIntegration
	AccessToken() AccessTokenIntegration
	SetupMandate() SetupMandateIntegration
	PaymentMethodToken() PaymentMethodTokenIntegration
}

// Capabilities lists the flows c actually implements.
func Capabilities(c Connector) []payment.Flow {
	integrations := map[payment.Flow]any{
		payment.FlowAuthorize:          c.Authorize(),
		payment.FlowCapture:            c.Capture(),
		payment.FlowVoid:               c.Void(),
		payment.FlowPSync:              c.PSync(),
		payment.FlowRefund:             c.Refund(),
		payment.FlowRSync:              c.RSync(),
		payment.FlowSession:            c.Session(),
		payment.FlowAccessToken:        c.AccessToken(),
		payment.FlowSetupMandate:       c.SetupMandate(),
		payment.FlowPaymentMethodToken: c.PaymentMethodToken(),
	}

	flows := make([]payment.Flow, 0, len(integrations))
	for _, flow := range payment.Flows {
		if IsSupported(integrations[flow]) {
			flows = append(flows, flow)
		}
	}
	return flows
}
