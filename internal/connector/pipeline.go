package connector

import (
	"context"
	"fmt"

	"github.com/cassiomorais/connectors/internal/domain/payment"
	"github.com/rs/zerolog"
)

// Transport sends an assembled request. It is the only blocking step of a
// connector call and must honour ctx cancellation.
type Transport interface {
	Send(ctx context.Context, req *Request) (*Response, error)
}

// BuildHeaders returns the connector's content type followed by its auth
// headers.
func BuildHeaders(c Common, auth payment.ConnectorAuth) ([]Header, error) {
	authHeaders, err := c.AuthHeaders(auth)
	if err != nil {
		return nil, err
	}
	headers := make([]Header, 0, len(authHeaders)+1)
	headers = append(headers, PlainHeader(HeaderContentType, c.ContentType()))
	return append(headers, authHeaders...), nil
}

// BuildRequest runs headers, url and body in order and assembles the result.
func BuildRequest[Req, Res any](integ Integration[Req, Res], data *payment.RouterData[Req, Res], settings Settings) (*Request, error) {
	headers, err := integ.Headers(data, settings)
	if err != nil {
		return nil, err
	}
	url, err := integ.URL(data, settings)
	if err != nil {
		return nil, err
	}
	body, err := integ.RequestBody(data)
	if err != nil {
		return nil, err
	}

	return NewRequestBuilder().
		Method(integ.Method()).
		URL(url).
		AttachDefaultHeaders().
		Headers(headers).
		Body(body).
		Build(), nil
}

// HandleReply routes a raw reply by status class: 2xx to the success parser,
// anything else to the error parser.
func HandleReply[Req, Res any](integ Integration[Req, Res], data *payment.RouterData[Req, Res], res *Response) (*payment.RouterData[Req, Res], error) {
	if res.IsSuccess() {
		return integ.HandleResponse(data, *res)
	}
	errRes, err := integ.ErrorResponse(*res)
	if err != nil {
		return nil, err
	}
	return data.WithError(errRes), nil
}

// Execute drives one connector call end to end. The returned RouterData
// holds either a Response or an Error; a non-nil error means the call could
// not be built, sent or parsed.
func Execute[Req, Res any](
	ctx context.Context,
	transport Transport,
	integ Integration[Req, Res],
	data *payment.RouterData[Req, Res],
	settings Settings,
) (*payment.RouterData[Req, Res], error) {
	req, err := BuildRequest(integ, data, settings)
	if err != nil {
		return nil, err
	}

	logger := zerolog.Ctx(ctx)
	logger.Debug().
		Str("connector", data.Connector).
		Str("flow", string(data.Flow)).
		Str("method", string(req.Method)).
		Str("url", req.URL).
		Dict("headers", headersDict(req.Headers)).
		Int("body_size", bodySize(req.Body)).
		Msg("sending connector request")

	res, err := transport.Send(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", data.Connector, data.Flow, err)
	}

	logger.Debug().
		Str("connector", data.Connector).
		Str("flow", string(data.Flow)).
		Int("status_code", res.StatusCode).
		Int("body_size", len(res.Body)).
		Msg("received connector response")

	return HandleReply(integ, data, res)
}

func headersDict(headers []Header) *zerolog.Event {
	dict := zerolog.Dict()
	for _, h := range headers {
		dict.Str(h.Name, h.Value.String())
	}
	return dict
}

func bodySize(body *RequestBody) int {
	if body == nil {
		return 0
	}
	return len(body.Payload)
}
