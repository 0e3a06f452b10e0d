// Package stripe adapts the Stripe charges dialect to the connector
// contract. Authorize, payment sync, refund and refund sync are implemented;
// every other flow is explicitly unsupported.
package stripe

import (
	"net/url"

	"github.com/cassiomorais/connectors/internal/connector"
	domainErrors "github.com/cassiomorais/connectors/internal/domain/errors"
	"github.com/cassiomorais/connectors/internal/domain/payment"
)

const ConnectorID = "stripe"

type (
	authorizeData = payment.RouterData[payment.AuthorizeData, payment.PaymentsResponseData]
	syncData      = payment.RouterData[payment.SyncData, payment.PaymentsResponseData]
	refundsData   = payment.RouterData[payment.RefundsData, payment.RefundsResponseData]
)

// Stripe is stateless; one value serves every goroutine.
type Stripe struct {
	connector.WebhooksUnsupported
}

func New() *Stripe {
	return &Stripe{WebhooksUnsupported: connector.WebhooksUnsupported{Connector: ConnectorID}}
}

var _ connector.Connector = (*Stripe)(nil)

func (s *Stripe) ID() string { return ConnectorID }

func (s *Stripe) ContentType() string { return connector.ContentTypeJSON }

func (s *Stripe) CurrencyUnit() payment.CurrencyUnit { return payment.CurrencyUnitMinor }

func (s *Stripe) BaseURL(settings connector.Settings) string {
	return settings.BaseURL(ConnectorID)
}

// AuthHeaders sends the raw API key as the Authorization header.
func (s *Stripe) AuthHeaders(auth payment.ConnectorAuth) ([]connector.Header, error) {
	a, err := newAuthType(auth)
	if err != nil {
		return nil, err
	}
	return []connector.Header{connector.MaskedHeader(connector.HeaderAuthorization, a.apiKey.Expose())}, nil
}

func (s *Stripe) BuildErrorResponse(res connector.Response) (payment.ErrorResponse, error) {
	body, err := decode[errorResponse](res, "StripeErrorResponse")
	if err != nil {
		return payment.ErrorResponse{}, err
	}
	return body.toErrorResponse(res.StatusCode), nil
}

func (s *Stripe) ValidateCaptureMethod(method payment.CaptureMethod) error {
	return connector.ValidateCaptureMethod(ConnectorID, method,
		payment.CaptureMethodAutomatic,
		payment.CaptureMethodManual,
	)
}

func (s *Stripe) Authorize() connector.AuthorizeIntegration { return authorize{s} }

func (s *Stripe) PSync() connector.PSyncIntegration { return psync{s} }

func (s *Stripe) Refund() connector.RefundIntegration { return refund{s} }

func (s *Stripe) RSync() connector.RSyncIntegration { return rsync{s} }

func (s *Stripe) Capture() connector.CaptureIntegration {
	return connector.NewUnsupported[payment.CaptureData, payment.PaymentsResponseData](ConnectorID, payment.FlowCapture)
}

func (s *Stripe) Void() connector.VoidIntegration {
	return connector.NewUnsupported[payment.CancelData, payment.PaymentsResponseData](ConnectorID, payment.FlowVoid)
}

func (s *Stripe) Session() connector.SessionIntegration {
	return connector.NewUnsupported[payment.Empty, payment.Empty](ConnectorID, payment.FlowSession)
}

func (s *Stripe) AccessToken() connector.AccessTokenIntegration {
	return connector.NewUnsupported[payment.Empty, payment.Empty](ConnectorID, payment.FlowAccessToken)
}

func (s *Stripe) SetupMandate() connector.SetupMandateIntegration {
	return connector.NewUnsupported[payment.Empty, payment.Empty](ConnectorID, payment.FlowSetupMandate)
}

func (s *Stripe) PaymentMethodToken() connector.PaymentMethodTokenIntegration {
	return connector.NewUnsupported[payment.Empty, payment.Empty](ConnectorID, payment.FlowPaymentMethodToken)
}

// authorize: POST /charges
type authorize struct{ s *Stripe }

func (a authorize) Method() connector.Method { return connector.MethodPost }

func (a authorize) Headers(data *authorizeData, _ connector.Settings) ([]connector.Header, error) {
	return connector.BuildHeaders(a.s, data.ConnectorAuth)
}

func (a authorize) URL(_ *authorizeData, settings connector.Settings) (string, error) {
	return a.s.BaseURL(settings) + "/charges", nil
}

func (a authorize) RequestBody(data *authorizeData) (*connector.RequestBody, error) {
	req, err := newAuthorizeRequest(&data.Request, a.s.CurrencyUnit())
	if err != nil {
		return nil, err
	}
	body, err := connector.JSONBody(req)
	if err != nil {
		return nil, domainErrors.RequestEncodingFailed(ConnectorID, err)
	}
	return body, nil
}

func (a authorize) HandleResponse(data *authorizeData, res connector.Response) (*authorizeData, error) {
	charge, err := decode[chargeResponse](res, "StripeAuthorizeResponse")
	if err != nil {
		return nil, err
	}
	return withCharge(data, charge, a.s.CurrencyUnit())
}

func (a authorize) ErrorResponse(res connector.Response) (payment.ErrorResponse, error) {
	return a.s.BuildErrorResponse(res)
}

// psync: GET /charges/{id}
type psync struct{ s *Stripe }

func (p psync) Method() connector.Method { return connector.MethodGet }

func (p psync) Headers(data *syncData, _ connector.Settings) ([]connector.Header, error) {
	return connector.BuildHeaders(p.s, data.ConnectorAuth)
}

func (p psync) URL(data *syncData, settings connector.Settings) (string, error) {
	id := data.Request.ConnectorTransactionID
	if id == "" {
		return "", domainErrors.MissingRequiredField(ConnectorID, "connector_transaction_id")
	}
	return p.s.BaseURL(settings) + "/charges/" + url.PathEscape(id), nil
}

func (p psync) RequestBody(*syncData) (*connector.RequestBody, error) { return nil, nil }

func (p psync) HandleResponse(data *syncData, res connector.Response) (*syncData, error) {
	charge, err := decode[chargeResponse](res, "StripeAuthorizeResponse")
	if err != nil {
		return nil, err
	}
	return withCharge(data, charge, p.s.CurrencyUnit())
}

func (p psync) ErrorResponse(res connector.Response) (payment.ErrorResponse, error) {
	return p.s.BuildErrorResponse(res)
}

// refund: POST /charges/{id}/refunds
type refund struct{ s *Stripe }

func (r refund) Method() connector.Method { return connector.MethodPost }

func (r refund) Headers(data *refundsData, _ connector.Settings) ([]connector.Header, error) {
	return connector.BuildHeaders(r.s, data.ConnectorAuth)
}

func (r refund) URL(data *refundsData, settings connector.Settings) (string, error) {
	id := data.Request.ConnectorTransactionID
	if id == "" {
		return "", domainErrors.MissingRequiredField(ConnectorID, "connector_transaction_id")
	}
	return r.s.BaseURL(settings) + "/charges/" + url.PathEscape(id) + "/refunds", nil
}

func (r refund) RequestBody(data *refundsData) (*connector.RequestBody, error) {
	body, err := connector.JSONBody(newRefundRequest(&data.Request))
	if err != nil {
		return nil, domainErrors.RequestEncodingFailed(ConnectorID, err)
	}
	return body, nil
}

func (r refund) HandleResponse(data *refundsData, res connector.Response) (*refundsData, error) {
	body, err := decode[refundResponse](res, "StripeRefundResponse")
	if err != nil {
		return nil, err
	}
	return body.toRouterData(data), nil
}

func (r refund) ErrorResponse(res connector.Response) (payment.ErrorResponse, error) {
	return r.s.BuildErrorResponse(res)
}

// rsync: GET /refunds/{id}
type rsync struct{ s *Stripe }

func (r rsync) Method() connector.Method { return connector.MethodGet }

func (r rsync) Headers(data *refundsData, _ connector.Settings) ([]connector.Header, error) {
	return connector.BuildHeaders(r.s, data.ConnectorAuth)
}

func (r rsync) URL(data *refundsData, settings connector.Settings) (string, error) {
	id := data.Request.ConnectorRefundID
	if id == "" {
		return "", domainErrors.MissingRequiredField(ConnectorID, "connector_refund_id")
	}
	return r.s.BaseURL(settings) + "/refunds/" + url.PathEscape(id), nil
}

func (r rsync) RequestBody(*refundsData) (*connector.RequestBody, error) { return nil, nil }

func (r rsync) HandleResponse(data *refundsData, res connector.Response) (*refundsData, error) {
	body, err := decode[refundResponse](res, "StripeRefundResponse")
	if err != nil {
		return nil, err
	}
	return body.toRouterData(data), nil
}

func (r rsync) ErrorResponse(res connector.Response) (payment.ErrorResponse, error) {
	return r.s.BuildErrorResponse(res)
}
