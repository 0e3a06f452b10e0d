package connector

import (
	"slices"

	domainErrors "github.com/cassiomorais/connectors/internal/domain/errors"
	"github.com/cassiomorais/connectors/internal/domain/payment"
)

// ValidateCaptureMethod accepts method when it, after defaulting, is one of
// supported.
func ValidateCaptureMethod(connectorID string, method payment.CaptureMethod, supported ...payment.CaptureMethod) error {
	resolved := method.OrDefault()
	if slices.Contains(supported, resolved) {
		return nil
	}
	return domainErrors.NotSupported(connectorID, "capture method "+string(resolved))
}
