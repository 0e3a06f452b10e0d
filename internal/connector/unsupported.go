package connector

import (
	"encoding/json"

	domainErrors "github.com/cassiomorais/connectors/internal/domain/errors"
	"github.com/cassiomorais/connectors/internal/domain/payment"
)

// Unsupported is the integration for a flow the connector does not
// implement. Every step fails with NotImplemented.
type Unsupported[Req, Res any] struct {
	Connector string
	Flow      payment.Flow
}

func NewUnsupported[Req, Res any](connectorID string, flow payment.Flow) Unsupported[Req, Res] {
	return Unsupported[Req, Res]{Connector: connectorID, Flow: flow}
}

func (u Unsupported[Req, Res]) unsupported() {}

func (u Unsupported[Req, Res]) err() error {
	return domainErrors.NotImplemented(u.Connector, string(u.Flow))
}

func (u Unsupported[Req, Res]) Method() Method { return MethodPost }

func (u Unsupported[Req, Res]) Headers(*payment.RouterData[Req, Res], Settings) ([]Header, error) {
	return nil, u.err()
}

func (u Unsupported[Req, Res]) URL(*payment.RouterData[Req, Res], Settings) (string, error) {
	return "", u.err()
}

func (u Unsupported[Req, Res]) RequestBody(*payment.RouterData[Req, Res]) (*RequestBody, error) {
	return nil, u.err()
}

func (u Unsupported[Req, Res]) HandleResponse(*payment.RouterData[Req, Res], Response) (*payment.RouterData[Req, Res], error) {
	return nil, u.err()
}

func (u Unsupported[Req, Res]) ErrorResponse(Response) (payment.ErrorResponse, error) {
	return payment.ErrorResponse{}, u.err()
}

// IsSupported reports whether integration implements its flow.
func IsSupported(integration any) bool {
	if integration == nil {
		return false
	}
	_, unsupported := integration.(interface{ unsupported() })
	return !unsupported
}

// WebhooksUnsupported is embedded by connectors without webhook support.
type WebhooksUnsupported struct {
	Connector string
}

func (w WebhooksUnsupported) WebhookObjectReferenceID([]byte) (string, error) {
	return "", domainErrors.WebhooksNotImplemented(w.Connector)
}

func (w WebhooksUnsupported) WebhookEventType([]byte) (string, error) {
	return "", domainErrors.WebhooksNotImplemented(w.Connector)
}

func (w WebhooksUnsupported) WebhookResourceObject([]byte) (json.RawMessage, error) {
	return nil, domainErrors.WebhooksNotImplemented(w.Connector)
}
