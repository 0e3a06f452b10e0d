package payment

import (
	"fmt"

	domainErrors "github.com/cassiomorais/connectors/internal/domain/errors"
	"github.com/cassiomorais/connectors/pkg/masking"
)

// AuthType tags the active ConnectorAuth variant.
type AuthType string

const (
	AuthTypeHeaderKey    AuthType = "header_key"
	AuthTypeBodyKey      AuthType = "body_key"
	AuthTypeSignatureKey AuthType = "signature_key"
	AuthTypeMultiAuthKey AuthType = "multi_auth_key"
	AuthTypeNoKey        AuthType = "no_key"
)

// ConnectorAuth holds the merchant credentials for one connector. Only the
// fields of the variant named by Type may be set.
type ConnectorAuth struct {
	Type      AuthType               `json:"auth_type"`
	APIKey    masking.Secret[string] `json:"api_key"`
	Key1      masking.Secret[string] `json:"key1"`
	APISecret masking.Secret[string] `json:"api_secret"`
	Key2      masking.Secret[string] `json:"key2"`
}

func HeaderKey(apiKey string) ConnectorAuth {
	return ConnectorAuth{Type: AuthTypeHeaderKey, APIKey: masking.NewSecret(apiKey)}
}

func BodyKey(apiKey, key1 string) ConnectorAuth {
	return ConnectorAuth{
		Type:   AuthTypeBodyKey,
		APIKey: masking.NewSecret(apiKey),
		Key1:   masking.NewSecret(key1),
	}
}

func SignatureKey(apiKey, key1, apiSecret string) ConnectorAuth {
	return ConnectorAuth{
		Type:      AuthTypeSignatureKey,
		APIKey:    masking.NewSecret(apiKey),
		Key1:      masking.NewSecret(key1),
		APISecret: masking.NewSecret(apiSecret),
	}
}

func MultiAuthKey(apiKey, key1, apiSecret, key2 string) ConnectorAuth {
	return ConnectorAuth{
		Type:      AuthTypeMultiAuthKey,
		APIKey:    masking.NewSecret(apiKey),
		Key1:      masking.NewSecret(key1),
		APISecret: masking.NewSecret(apiSecret),
		Key2:      masking.NewSecret(key2),
	}
}

func NoKey() ConnectorAuth {
	return ConnectorAuth{Type: AuthTypeNoKey}
}

// Validate checks that exactly the fields of the tagged variant are present.
func (a ConnectorAuth) Validate() error {
	var want [4]bool
	switch a.Type {
	case AuthTypeHeaderKey:
		want = [4]bool{true, false, false, false}
	case AuthTypeBodyKey:
		want = [4]bool{true, true, false, false}
	case AuthTypeSignatureKey:
		want = [4]bool{true, true, true, false}
	case AuthTypeMultiAuthKey:
		want = [4]bool{true, true, true, true}
	case AuthTypeNoKey:
	default:
		return domainErrors.NewValidationError("auth_type", fmt.Sprintf("unknown auth type %q", a.Type))
	}

	fields := [4]struct {
		name string
		set  bool
	}{
		{"api_key", a.APIKey.Expose() != ""},
		{"key1", a.Key1.Expose() != ""},
		{"api_secret", a.APISecret.Expose() != ""},
		{"key2", a.Key2.Expose() != ""},
	}
	for i, f := range fields {
		if want[i] && !f.set {
			return domainErrors.NewValidationError(f.name, fmt.Sprintf("required for %s", a.Type))
		}
		if !want[i] && f.set {
			return domainErrors.NewValidationError(f.name, fmt.Sprintf("not allowed for %s", a.Type))
		}
	}
	return nil
}
