package stripe

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/cassiomorais/connectors/internal/connector"
	domainErrors "github.com/cassiomorais/connectors/internal/domain/errors"
	"github.com/cassiomorais/connectors/internal/domain/payment"
	"github.com/cassiomorais/connectors/pkg/cards"
	"github.com/cassiomorais/connectors/pkg/masking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xeipuuv/gojsonschema"
)

const testBaseURL = "https://api.stripe.test"

var testSettings = connector.Settings{
	Connectors: map[string]connector.Params{ConnectorID: {BaseURL: testBaseURL + "/"}},
}

type recordingTransport struct {
	res  *connector.Response
	sent []*connector.Request
}

func (t *recordingTransport) Send(_ context.Context, req *connector.Request) (*connector.Response, error) {
	t.sent = append(t.sent, req)
	return t.res, nil
}

func testCard() payment.Card {
	return payment.Card{
		Number:     cards.MustCardNumber("4242424242424242"),
		ExpMonth:   masking.NewSecret("12"),
		ExpYear:    masking.NewSecret("2030"),
		CVC:        masking.NewSecret("123"),
		HolderName: masking.NewSecret("Jane Doe"),
	}
}

func newAuthorize(minor int64, method payment.CaptureMethod) *authorizeData {
	return &authorizeData{
		Flow:          payment.FlowAuthorize,
		Connector:     ConnectorID,
		PaymentID:     "pay_1",
		AttemptID:     "att_1",
		Status:        payment.AttemptStatusStarted,
		PaymentMethod: payment.PaymentMethodCard,
		ConnectorAuth: payment.HeaderKey("sk_test_123"),
		Request: payment.AuthorizeData{
			Amount:            payment.Amount{Minor: minor, Currency: payment.USD},
			PaymentMethodData: payment.CardPayment(testCard()),
			CaptureMethod:     method,
		},
	}
}

func assertMatchesSchema(t *testing.T, schemaFile string, payload []byte) {
	t.Helper()

	schema, err := os.ReadFile(filepath.Join("testdata", schemaFile))
	require.NoError(t, err)

	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schema), gojsonschema.NewBytesLoader(payload))
	require.NoError(t, err)
	for _, e := range result.Errors() {
		t.Errorf("schema violation: %s", e)
	}
	assert.True(t, result.Valid())
}

func TestStripe_Common(t *testing.T) {
	s := New()

	assert.Equal(t, "stripe", s.ID())
	assert.Equal(t, "application/json", s.ContentType())
	assert.Equal(t, payment.CurrencyUnitMinor, s.CurrencyUnit())
	assert.Equal(t, testBaseURL, s.BaseURL(testSettings))
}

func TestStripe_Capabilities(t *testing.T) {
	assert.Equal(t, []payment.Flow{
		payment.FlowAuthorize,
		payment.FlowPSync,
		payment.FlowRefund,
		payment.FlowRSync,
	}, connector.Capabilities(New()))
}

func TestStripe_AuthHeaders(t *testing.T) {
	tests := []struct {
		name    string
		auth    payment.ConnectorAuth
		wantErr bool
	}{
		{name: "header key", auth: payment.HeaderKey("sk_test_123")},
		{name: "body key", auth: payment.BodyKey("a", "b"), wantErr: true},
		{name: "signature key", auth: payment.SignatureKey("a", "b", "c"), wantErr: true},
		{name: "multi auth key", auth: payment.MultiAuthKey("a", "b", "c", "d"), wantErr: true},
		{name: "no key", auth: payment.NoKey(), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers, err := New().AuthHeaders(tt.auth)
			if tt.wantErr {
				assert.ErrorIs(t, err, domainErrors.ErrFailedToObtainAuthType)
				return
			}
			require.NoError(t, err)
			require.Len(t, headers, 1)
			assert.Equal(t, "Authorization", headers[0].Name)
			assert.Equal(t, "sk_test_123", headers[0].Value.Expose())
			assert.True(t, headers[0].Value.IsMasked())
		})
	}
}

func TestStripe_HeadersAreComplete(t *testing.T) {
	s := New()
	auth := payment.HeaderKey("sk_test_123")

	flows := map[string]func() ([]connector.Header, error){
		"authorize": func() ([]connector.Header, error) {
			return s.Authorize().Headers(newAuthorize(500, ""), testSettings)
		},
		"psync": func() ([]connector.Header, error) {
			return s.PSync().Headers(&syncData{ConnectorAuth: auth}, testSettings)
		},
		"refund": func() ([]connector.Header, error) {
			return s.Refund().Headers(&refundsData{ConnectorAuth: auth}, testSettings)
		},
		"rsync": func() ([]connector.Header, error) {
			return s.RSync().Headers(&refundsData{ConnectorAuth: auth}, testSettings)
		},
	}

	for name, build := range flows {
		t.Run(name, func(t *testing.T) {
			headers, err := build()
			require.NoError(t, err)

			var contentTypes, authorizations int
			for _, h := range headers {
				switch h.Name {
				case connector.HeaderContentType:
					contentTypes++
					assert.Equal(t, "application/json", h.Value.String())
				case connector.HeaderAuthorization:
					authorizations++
					assert.Equal(t, masking.Placeholder, h.Value.String())
				}
			}
			assert.Equal(t, 1, contentTypes)
			assert.GreaterOrEqual(t, authorizations, 1)
		})
	}
}

func TestStripe_ValidateCaptureMethod(t *testing.T) {
	tests := []struct {
		method  payment.CaptureMethod
		wantErr bool
	}{
		{method: ""},
		{method: payment.CaptureMethodAutomatic},
		{method: payment.CaptureMethodManual},
		{method: payment.CaptureMethodManualMultiple, wantErr: true},
		{method: payment.CaptureMethodScheduled, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(string(tt.method), func(t *testing.T) {
			err := New().ValidateCaptureMethod(tt.method)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, domainErrors.ErrNotSupported)
			assert.Contains(t, err.Error(), "stripe")

			var ce *domainErrors.ConnectorError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, "stripe", ce.Connector)
		})
	}
}

func TestAuthorize_RequestBody(t *testing.T) {
	tests := []struct {
		name         string
		method       payment.CaptureMethod
		wantCaptured string
	}{
		{name: "unspecified captures", method: "", wantCaptured: "true"},
		{name: "automatic captures", method: payment.CaptureMethodAutomatic, wantCaptured: "true"},
		{name: "manual does not capture", method: payment.CaptureMethodManual, wantCaptured: "false"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := New().Authorize().RequestBody(newAuthorize(500, tt.method))
			require.NoError(t, err)
			assert.Equal(t, "application/json", body.ContentType)

			assertMatchesSchema(t, "authorize_request.schema.json", body.Payload)
			assert.JSONEq(t, `{
				"amount": "500",
				"currency": "USD",
				"card": {
					"number": "4242424242424242",
					"expMonth": "12",
					"expYear": "2030",
					"cvc": "123",
					"cardholderName": "Jane Doe"
				},
				"captured": "`+tt.wantCaptured+`"
			}`, string(body.Payload))
		})
	}
}

func TestAuthorize_RequestBodyRejectsUnsupportedCaptureMethod(t *testing.T) {
	_, err := New().Authorize().RequestBody(newAuthorize(500, payment.CaptureMethodScheduled))
	assert.ErrorIs(t, err, domainErrors.ErrNotSupported)
}

func TestAuthorize_RequestBodyRejectsNonCardMethods(t *testing.T) {
	for _, pm := range payment.PaymentMethodTypes {
		if pm == payment.PaymentMethodCard {
			continue
		}
		t.Run(string(pm), func(t *testing.T) {
			data := newAuthorize(500, "")
			data.Request.PaymentMethodData = payment.PaymentMethodData{Type: pm}

			_, err := New().Authorize().RequestBody(data)
			assert.ErrorIs(t, err, domainErrors.ErrNotImplemented)
			assert.EqualError(t, err, "stripe: payment method not implemented")
		})
	}
}

func TestAuthorize_AmountRoundTrip(t *testing.T) {
	s := New()
	data := newAuthorize(1000, "")

	body, err := s.Authorize().RequestBody(data)
	require.NoError(t, err)

	var sent authorizeRequest
	require.NoError(t, json.Unmarshal(body.Payload, &sent))
	assert.Equal(t, "1000", sent.Amount)

	reply, err := os.ReadFile(filepath.Join("testdata", "charge_response.json"))
	require.NoError(t, err)
	out, err := s.Authorize().HandleResponse(data, connector.Response{StatusCode: 200, Body: reply})
	require.NoError(t, err)

	var meta chargeMetadata
	require.NoError(t, json.Unmarshal(out.Response.ConnectorMetadata, &meta))
	require.NotNil(t, meta.Amount)
	assert.Equal(t, payment.Amount{Minor: 1000, Currency: payment.USD}, payment.Amount{Minor: *meta.Amount, Currency: meta.Currency})
	assert.Equal(t, data.Request.Amount, payment.Amount{Minor: *meta.Amount, Currency: meta.Currency})
}

func TestAuthorize_HandleResponse(t *testing.T) {
	reply, err := os.ReadFile(filepath.Join("testdata", "charge_response.json"))
	require.NoError(t, err)
	data := newAuthorize(1000, "")

	out, err := New().Authorize().HandleResponse(data, connector.Response{StatusCode: 200, Body: reply})
	require.NoError(t, err)

	assert.Equal(t, payment.AttemptStatusCharged, out.Status)
	assert.Equal(t, "ch_1", out.Response.ResourceID)
	assert.Equal(t, "order_42", out.Response.ConnectorResponseReferenceID)
	assert.Nil(t, out.Error)
	assert.Equal(t, "pay_1", out.PaymentID)
	assert.Equal(t, payment.AttemptStatusStarted, data.Status)

	var meta chargeMetadata
	require.NoError(t, json.Unmarshal(out.Response.ConnectorMetadata, &meta))
	assert.Equal(t, "Visa", meta.CardBrand)
	assert.Equal(t, "4242", meta.CardLast4)
	assert.Equal(t, "424242", meta.CardFirst6)
	assert.Equal(t, payment.CountryAlpha2("US"), meta.CardCountry)
	assert.Equal(t, "passed", meta.FraudStatus)
	assert.Equal(t, "match", meta.AVSResult)
	assert.True(t, meta.Captured)
	assert.NotContains(t, string(out.Response.ConnectorMetadata), "Jane Doe")
}

func TestAuthorize_HandleResponseFailures(t *testing.T) {
	tests := []struct {
		name string
		body string
		kind error
	}{
		{name: "not json", body: `<html>`, kind: domainErrors.ErrResponseDeserializationFailed},
		{name: "missing id", body: `{"status":"Successful"}`, kind: domainErrors.ErrResponseDeserializationFailed},
		{name: "unknown status", body: `{"id":"ch_1","status":"Reversed"}`, kind: domainErrors.ErrResponseDeserializationFailed},
		{name: "error shape on 2xx", body: `{"code":"card_declined","message":"declined"}`, kind: domainErrors.ErrResponseDeserializationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New().Authorize().HandleResponse(newAuthorize(500, ""), connector.Response{StatusCode: 200, Body: []byte(tt.body)})
			assert.ErrorIs(t, err, tt.kind)
		})
	}
}

func TestAuthorize_UnreadableAmountKeepsCharge(t *testing.T) {
	for _, amount := range []string{"5.00", "10.5", "five"} {
		t.Run(amount, func(t *testing.T) {
			body := `{"id":"ch_1","status":"Successful","amount":"` + amount + `","currency":"USD","captured":"true"}`

			out, err := New().Authorize().HandleResponse(newAuthorize(500, ""), connector.Response{StatusCode: 200, Body: []byte(body)})
			require.NoError(t, err)

			assert.Equal(t, payment.AttemptStatusCharged, out.Status)
			assert.Equal(t, "ch_1", out.Response.ResourceID)

			var meta chargeMetadata
			require.NoError(t, json.Unmarshal(out.Response.ConnectorMetadata, &meta))
			assert.Nil(t, meta.Amount)
			assert.Equal(t, payment.Currency("USD"), meta.Currency)
			assert.True(t, meta.Captured)
		})
	}
}

func TestAuthorize_DeserializationErrorNamesTarget(t *testing.T) {
	_, err := New().Authorize().HandleResponse(newAuthorize(500, ""), connector.Response{StatusCode: 200, Body: []byte(`{}`)})

	var ce *domainErrors.ConnectorError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "StripeAuthorizeResponse", ce.TargetType)
}

func TestStripe_ErrorResponse(t *testing.T) {
	tests := []struct {
		name    string
		res     connector.Response
		want    payment.ErrorResponse
		wantErr bool
	}{
		{
			name: "with reason",
			res:  connector.Response{StatusCode: 402, Body: []byte(`{"code":"card_declined","message":"Your card was declined","reason":"insufficient_funds"}`)},
			want: payment.ErrorResponse{StatusCode: 402, Code: "card_declined", Message: "Your card was declined", Reason: strPtr("insufficient_funds")},
		},
		{
			name: "without reason",
			res:  connector.Response{StatusCode: 500, Body: []byte(`{"code":"api_error","message":"Internal error"}`)},
			want: payment.ErrorResponse{StatusCode: 500, Code: "api_error", Message: "Internal error"},
		},
		{
			name:    "not the error shape",
			res:     connector.Response{StatusCode: 502, Body: []byte(`Bad Gateway`)},
			wantErr: true,
		},
		{
			name:    "missing message",
			res:     connector.Response{StatusCode: 400, Body: []byte(`{"code":"x"}`)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New().Authorize().ErrorResponse(tt.res)
			if tt.wantErr {
				assert.ErrorIs(t, err, domainErrors.ErrResponseDeserializationFailed)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExecute_ErrorShapeTakesPrecedence(t *testing.T) {
	transport := &recordingTransport{res: &connector.Response{
		StatusCode: 402,
		Body:       []byte(`{"code":"card_declined","message":"Your card was declined"}`),
	}}
	data := newAuthorize(500, "")

	out, err := connector.Execute(context.Background(), transport, New().Authorize(), data, testSettings)
	require.NoError(t, err)

	assert.Nil(t, out.Response)
	require.NotNil(t, out.Error)
	assert.Equal(t, 402, out.Error.StatusCode)
	assert.Equal(t, "card_declined", out.Error.Code)
	assert.Equal(t, payment.AttemptStatusStarted, out.Status)
}

func TestExecute_SuccessStatusWithChargeShapedBodyOnErrorStatus(t *testing.T) {
	reply, err := os.ReadFile(filepath.Join("testdata", "charge_response.json"))
	require.NoError(t, err)
	transport := &recordingTransport{res: &connector.Response{StatusCode: 400, Body: reply}}

	_, err = connector.Execute(context.Background(), transport, New().Authorize(), newAuthorize(500, ""), testSettings)
	assert.ErrorIs(t, err, domainErrors.ErrResponseDeserializationFailed)
}

func TestExecute_AuthorizeEndToEnd(t *testing.T) {
	transport := &recordingTransport{res: &connector.Response{
		StatusCode: 200,
		Body:       []byte(`{"id":"ch_1","status":"Successful","amount":"500","currency":"USD","captured":"true"}`),
	}}

	out, err := connector.Execute(context.Background(), transport, New().Authorize(), newAuthorize(500, payment.CaptureMethodAutomatic), testSettings)
	require.NoError(t, err)

	require.Len(t, transport.sent, 1)
	req := transport.sent[0]
	assert.Equal(t, connector.MethodPost, req.Method)
	assert.Equal(t, testBaseURL+"/charges", req.URL)
	assertMatchesSchema(t, "authorize_request.schema.json", req.Body.Payload)
	assert.JSONEq(t, `{
		"amount": "500",
		"currency": "USD",
		"card": {"number": "4242424242424242", "expMonth": "12", "expYear": "2030", "cvc": "123", "cardholderName": "Jane Doe"},
		"captured": "true"
	}`, string(req.Body.Payload))

	assert.Equal(t, payment.AttemptStatusCharged, out.Status)
	assert.Equal(t, "ch_1", out.Response.ResourceID)
}

func TestPSync(t *testing.T) {
	s := New()
	data := &syncData{
		Flow:          payment.FlowPSync,
		Connector:     ConnectorID,
		Status:        payment.AttemptStatusPending,
		ConnectorAuth: payment.HeaderKey("sk_test_123"),
		Request:       payment.SyncData{ConnectorTransactionID: "ch_1"},
	}
	transport := &recordingTransport{res: &connector.Response{StatusCode: 200, Body: []byte(`{"id":"ch_1","status":"Pending"}`)}}

	out, err := connector.Execute(context.Background(), transport, s.PSync(), data, testSettings)
	require.NoError(t, err)

	req := transport.sent[0]
	assert.Equal(t, connector.MethodGet, req.Method)
	assert.Equal(t, testBaseURL+"/charges/ch_1", req.URL)
	assert.Nil(t, req.Body)
	assert.Equal(t, payment.AttemptStatusPending, out.Status)
	assert.Equal(t, "ch_1", out.Response.ResourceID)
}

func TestPSync_RequiresTransactionID(t *testing.T) {
	_, err := New().PSync().URL(&syncData{}, testSettings)
	assert.ErrorIs(t, err, domainErrors.ErrMissingRequiredField)
}

func newRefund(connectorRefundID string) *refundsData {
	return &refundsData{
		Flow:          payment.FlowRefund,
		Connector:     ConnectorID,
		Status:        payment.AttemptStatusCharged,
		ConnectorAuth: payment.HeaderKey("sk_test_123"),
		Request: payment.RefundsData{
			RefundID:               "ref_1",
			ConnectorTransactionID: "ch_1",
			ConnectorRefundID:      connectorRefundID,
			PaymentAmount:          payment.Amount{Minor: 1000, Currency: payment.USD},
			RefundAmount:           payment.Amount{Minor: 400, Currency: payment.USD},
		},
	}
}

func TestRefund(t *testing.T) {
	transport := &recordingTransport{res: &connector.Response{StatusCode: 200, Body: []byte(`{"id":"re_1","status":"Processing"}`)}}

	out, err := connector.Execute(context.Background(), transport, New().Refund(), newRefund(""), testSettings)
	require.NoError(t, err)

	req := transport.sent[0]
	assert.Equal(t, connector.MethodPost, req.Method)
	assert.Equal(t, testBaseURL+"/charges/ch_1/refunds", req.URL)
	assertMatchesSchema(t, "refund_request.schema.json", req.Body.Payload)
	assert.JSONEq(t, `{"amount":400}`, string(req.Body.Payload))

	assert.Equal(t, "re_1", out.Response.ConnectorRefundID)
	assert.Equal(t, payment.RefundStatusPending, out.Response.RefundStatus)
	assert.Equal(t, payment.AttemptStatusCharged, out.Status)
}

func TestRefund_RequiresTransactionID(t *testing.T) {
	data := newRefund("")
	data.Request.ConnectorTransactionID = ""

	_, err := New().Refund().URL(data, testSettings)
	assert.ErrorIs(t, err, domainErrors.ErrMissingRequiredField)
}

func TestRSync(t *testing.T) {
	transport := &recordingTransport{res: &connector.Response{StatusCode: 200, Body: []byte(`{"id":"re_1","status":"Succeeded"}`)}}

	out, err := connector.Execute(context.Background(), transport, New().RSync(), newRefund("re_1"), testSettings)
	require.NoError(t, err)

	req := transport.sent[0]
	assert.Equal(t, connector.MethodGet, req.Method)
	assert.Equal(t, testBaseURL+"/refunds/re_1", req.URL)
	assert.Nil(t, req.Body)
	assert.Equal(t, payment.RefundStatusSuccess, out.Response.RefundStatus)
}

func TestRSync_RequiresRefundID(t *testing.T) {
	_, err := New().RSync().URL(newRefund(""), testSettings)
	assert.ErrorIs(t, err, domainErrors.ErrMissingRequiredField)
}

func TestUnsupportedFlows(t *testing.T) {
	s := New()

	_, err := s.Capture().Headers(&payment.RouterData[payment.CaptureData, payment.PaymentsResponseData]{}, testSettings)
	assert.ErrorIs(t, err, domainErrors.ErrNotImplemented)

	_, err = s.Void().URL(&payment.RouterData[payment.CancelData, payment.PaymentsResponseData]{}, testSettings)
	assert.ErrorIs(t, err, domainErrors.ErrNotImplemented)

	for _, integ := range []connector.Integration[payment.Empty, payment.Empty]{
		s.Session(), s.AccessToken(), s.SetupMandate(), s.PaymentMethodToken(),
	} {
		_, err := integ.RequestBody(&payment.RouterData[payment.Empty, payment.Empty]{})
		assert.ErrorIs(t, err, domainErrors.ErrNotImplemented)
	}
}

func TestWebhooksNotImplemented(t *testing.T) {
	s := New()

	_, err := s.WebhookObjectReferenceID([]byte(`{}`))
	assert.ErrorIs(t, err, domainErrors.ErrWebhooksNotImplemented)
	_, err = s.WebhookEventType([]byte(`{}`))
	assert.ErrorIs(t, err, domainErrors.ErrWebhooksNotImplemented)
	_, err = s.WebhookResourceObject([]byte(`{}`))
	assert.ErrorIs(t, err, domainErrors.ErrWebhooksNotImplemented)
}

func strPtr(s string) *string { return &s }
