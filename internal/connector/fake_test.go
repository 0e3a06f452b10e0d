package connector

import (
	"context"
	"encoding/json"

	domainErrors "github.com/cassiomorais/connectors/internal/domain/errors"
	"github.com/cassiomorais/connectors/internal/domain/payment"
)

type fakeConnector struct {
	WebhooksUnsupported
	id string
}

func newFakeConnector(id string) *fakeConnector {
	return &fakeConnector{WebhooksUnsupported: WebhooksUnsupported{Connector: id}, id: id}
}

func (f *fakeConnector) ID() string                         { return f.id }
func (f *fakeConnector) ContentType() string                { return ContentTypeJSON }
func (f *fakeConnector) CurrencyUnit() payment.CurrencyUnit { return payment.CurrencyUnitMinor }
func (f *fakeConnector) BaseURL(s Settings) string          { return s.BaseURL(f.id) }

func (f *fakeConnector) AuthHeaders(auth payment.ConnectorAuth) ([]Header, error) {
	if auth.Type != payment.AuthTypeHeaderKey {
		return nil, domainErrors.FailedToObtainAuthType(f.id)
	}
	return []Header{MaskedHeader(HeaderAuthorization, "Bearer "+auth.APIKey.Expose())}, nil
}

func (f *fakeConnector) BuildErrorResponse(res Response) (payment.ErrorResponse, error) {
	var body struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(res.Body, &body); err != nil {
		return payment.ErrorResponse{}, domainErrors.ResponseDeserializationFailed(f.id, "fakeError", err)
	}
	return payment.ErrorResponse{StatusCode: res.StatusCode, Code: body.Code, Message: body.Message}, nil
}

func (f *fakeConnector) ValidateCaptureMethod(m payment.CaptureMethod) error {
	return ValidateCaptureMethod(f.id, m, payment.CaptureMethodAutomatic)
}

func (f *fakeConnector) Authorize() AuthorizeIntegration { return fakeAuthorize{f} }
func (f *fakeConnector) Capture() CaptureIntegration {
	return NewUnsupported[payment.CaptureData, payment.PaymentsResponseData](f.id, payment.FlowCapture)
}
func (f *fakeConnector) Void() VoidIntegration {
	return NewUnsupported[payment.CancelData, payment.PaymentsResponseData](f.id, payment.FlowVoid)
}
func (f *fakeConnector) PSync() PSyncIntegration {
	return NewUnsupported[payment.SyncData, payment.PaymentsResponseData](f.id, payment.FlowPSync)
}
func (f *fakeConnector) Refund() RefundIntegration {
	return NewUnsupported[payment.RefundsData, payment.RefundsResponseData](f.id, payment.FlowRefund)
}
func (f *fakeConnector) RSync() RSyncIntegration {
	return NewUnsupported[payment.RefundsData, payment.RefundsResponseData](f.id, payment.FlowRSync)
}
func (f *fakeConnector) Session() SessionIntegration {
	return NewUnsupported[payment.Empty, payment.Empty](f.id, payment.FlowSession)
}
func (f *fakeConnector) AccessToken() AccessTokenIntegration {
	return NewUnsupported[payment.Empty, payment.Empty](f.id, payment.FlowAccessToken)
}
func (f *fakeConnector) SetupMandate() SetupMandateIntegration {
	return NewUnsupported[payment.Empty, payment.Empty](f.id, payment.FlowSetupMandate)
}
func (f *fakeConnector) PaymentMethodToken() PaymentMethodTokenIntegration {
	return NewUnsupported[payment.Empty, payment.Empty](f.id, payment.FlowPaymentMethodToken)
}

type authorizeData = payment.RouterData[payment.AuthorizeData, payment.PaymentsResponseData]

type fakeAuthorize struct{ c *fakeConnector }

func (a fakeAuthorize) Method() Method { return MethodPost }

func (a fakeAuthorize) Headers(data *authorizeData, _ Settings) ([]Header, error) {
	return BuildHeaders(a.c, data.ConnectorAuth)
}

func (a fakeAuthorize) URL(_ *authorizeData, s Settings) (string, error) {
	return a.c.BaseURL(s) + "/pay", nil
}

func (a fakeAuthorize) RequestBody(data *authorizeData) (*RequestBody, error) {
	return JSONBody(map[string]string{"amount": data.Request.Amount.MinorString()})
}

func (a fakeAuthorize) HandleResponse(data *authorizeData, res Response) (*authorizeData, error) {
	var body struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(res.Body, &body); err != nil {
		return nil, domainErrors.ResponseDeserializationFailed(a.c.id, "fakeResponse", err)
	}
	out := data.WithResponse(payment.PaymentsResponseData{ResourceID: body.ID})
	out.Status = payment.AttemptStatusCharged
	return out, nil
}

func (a fakeAuthorize) ErrorResponse(res Response) (payment.ErrorResponse, error) {
	return a.c.BuildErrorResponse(res)
}

type fakeTransport struct {
	res  *Response
	err  error
	sent []*Request
}

func (t *fakeTransport) Send(_ context.Context, req *Request) (*Response, error) {
	t.sent = append(t.sent, req)
	return t.res, t.err
}

var _ Connector = (*fakeConnector)(nil)
