package errors

import (
	"errors"
	"fmt"
)

var (
	// Connector errors
	ErrFailedToObtainAuthType        = errors.New("failed to obtain authentication type")
	ErrRequestEncodingFailed         = errors.New("failed to encode connector request")
	ErrResponseDeserializationFailed = errors.New("failed to deserialize connector response")
	ErrNotImplemented                = errors.New("not implemented")
	ErrNotSupported                  = errors.New("not supported")
	ErrWebhooksNotImplemented        = errors.New("webhooks not implemented for this connector")
	ErrMissingRequiredField          = errors.New("missing required field")
	ErrInvalidDataFormat             = errors.New("invalid data format")

	// Routing errors
	ErrConnectorNotFound    = errors.New("connector not found")
	ErrCredentialsNotFound  = errors.New("connector credentials not found")
	ErrTransportFailed      = errors.New("connector transport failed")
	ErrConnectorUnavailable = errors.New("connector unavailable")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
)

// ConnectorError annotates one of the connector sentinels with the context
// needed to diagnose it without re-running the call.
type ConnectorError struct {
	Kind       error
	Connector  string
	Field      string
	TargetType string
	Value      string
	Feature    string
	Err        error
}

func (e *ConnectorError) Error() string {
	msg := e.Kind.Error()
	switch {
	case errors.Is(e.Kind, ErrNotSupported):
		msg = fmt.Sprintf("%s is not supported by %s", e.Value, e.Connector)
	case errors.Is(e.Kind, ErrNotImplemented):
		msg = fmt.Sprintf("%s not implemented", e.Feature)
	case errors.Is(e.Kind, ErrResponseDeserializationFailed):
		msg = fmt.Sprintf("%s into %s", msg, e.TargetType)
	case e.Field != "":
		msg = fmt.Sprintf("%s: %s", msg, e.Field)
	}
	if e.Connector != "" && !errors.Is(e.Kind, ErrNotSupported) {
		msg = e.Connector + ": " + msg
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *ConnectorError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// FailedToObtainAuthType reports an auth variant the connector does not accept.
func FailedToObtainAuthType(connector string) *ConnectorError {
	return &ConnectorError{Kind: ErrFailedToObtainAuthType, Connector: connector}
}

// RequestEncodingFailed wraps a serialization failure of the request body.
func RequestEncodingFailed(connector string, err error) *ConnectorError {
	return &ConnectorError{Kind: ErrRequestEncodingFailed, Connector: connector, Err: err}
}

// ResponseDeserializationFailed names the type the body failed to decode into.
func ResponseDeserializationFailed(connector, targetType string, err error) *ConnectorError {
	return &ConnectorError{Kind: ErrResponseDeserializationFailed, Connector: connector, TargetType: targetType, Err: err}
}

// NotImplemented reports a feature the connector has not built.
func NotImplemented(connector, feature string) *ConnectorError {
	return &ConnectorError{Kind: ErrNotImplemented, Connector: connector, Feature: feature}
}

// NotSupported reports a configuration value the connector rejects.
func NotSupported(connector, value string) *ConnectorError {
	return &ConnectorError{Kind: ErrNotSupported, Connector: connector, Value: value}
}

func WebhooksNotImplemented(connector string) *ConnectorError {
	return &ConnectorError{Kind: ErrWebhooksNotImplemented, Connector: connector}
}

func MissingRequiredField(connector, field string) *ConnectorError {
	return &ConnectorError{Kind: ErrMissingRequiredField, Connector: connector, Field: field}
}

func InvalidDataFormat(connector, field string, err error) *ConnectorError {
	return &ConnectorError{Kind: ErrInvalidDataFormat, Connector: connector, Field: field, Err: err}
}

// DomainError wraps errors with additional context
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
}

// Unwrap lets callers match any ValidationError against ErrValidationFailed.
func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}
