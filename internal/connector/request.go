package connector

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/cassiomorais/connectors/pkg/masking"
)

type Method string

const (
	MethodGet  Method = http.MethodGet
	MethodPost Method = http.MethodPost
)

const (
	HeaderContentType   = "Content-Type"
	HeaderAuthorization = "Authorization"
	HeaderVia           = "Via"

	ContentTypeJSON = "application/json"
	viaValue        = "connectors"
)

// Header is one outgoing header. Credential-bearing values are masked.
type Header struct {
	Name  string
	Value masking.Maskable
}

func PlainHeader(name, value string) Header {
	return Header{Name: name, Value: masking.Plain(value)}
}

func MaskedHeader(name, value string) Header {
	return Header{Name: name, Value: masking.Masked(value)}
}

// RequestBody is an encoded payload and its content type.
type RequestBody struct {
	ContentType string
	Payload     []byte
}

// JSONBody encodes v as JSON.
func JSONBody(v any) (*RequestBody, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return &RequestBody{ContentType: ContentTypeJSON, Payload: payload}, nil
}

// Request is a fully assembled wire request, ready for a Transport.
type Request struct {
	Method  Method
	URL     string
	Headers []Header
	Body    *RequestBody
}

// Header returns the first header named name, case-insensitively.
func (r *Request) Header(name string) (masking.Maskable, bool) {
	for _, h := range r.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value, true
		}
	}
	return masking.Maskable{}, false
}

// RequestBuilder assembles a Request. It performs no encoding of its own.
type RequestBuilder struct {
	req Request
}

func NewRequestBuilder() *RequestBuilder {
	return &RequestBuilder{}
}

func (b *RequestBuilder) Method(m Method) *RequestBuilder {
	b.req.Method = m
	return b
}

func (b *RequestBuilder) URL(url string) *RequestBuilder {
	b.req.URL = url
	return b
}

func (b *RequestBuilder) AttachDefaultHeaders() *RequestBuilder {
	b.req.Headers = append(b.req.Headers, PlainHeader(HeaderVia, viaValue))
	return b
}

func (b *RequestBuilder) Headers(headers []Header) *RequestBuilder {
	b.req.Headers = append(b.req.Headers, headers...)
	return b
}

func (b *RequestBuilder) Body(body *RequestBody) *RequestBuilder {
	b.req.Body = body
	return b
}

func (b *RequestBuilder) Build() *Request {
	req := b.req
	req.Headers = append([]Header(nil), b.req.Headers...)
	return &req
}

// Response is the raw reply handed back by a Transport.
type Response struct {
	StatusCode int
	Body       []byte
	Headers    http.Header
}

// IsSuccess reports a 2xx status.
func (r Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}
