package config

import (
	"context"
	"fmt"
	"strings"

	domainErrors "github.com/cassiomorais/connectors/internal/domain/errors"
	"github.com/cassiomorais/connectors/internal/domain/payment"
	"github.com/cassiomorais/connectors/pkg/masking"
)

// CredentialConfig is one merchant's credentials for one connector as they
// appear in the config file. Which keys are set depends on AuthType.
type CredentialConfig struct {
	AuthType  string `mapstructure:"auth_type"`
	APIKey    string `mapstructure:"api_key"`
	Key1      string `mapstructure:"key1"`
	APISecret string `mapstructure:"api_secret"`
	Key2      string `mapstructure:"key2"`
}

// Auth converts the entry into a validated ConnectorAuth. Keys that belong
// to another variant are rejected, not dropped.
func (c CredentialConfig) Auth() (payment.ConnectorAuth, error) {
	auth := payment.ConnectorAuth{
		Type:      payment.AuthType(strings.ToLower(c.AuthType)),
		APIKey:    masking.NewSecret(c.APIKey),
		Key1:      masking.NewSecret(c.Key1),
		APISecret: masking.NewSecret(c.APISecret),
		Key2:      masking.NewSecret(c.Key2),
	}
	if err := auth.Validate(); err != nil {
		return payment.ConnectorAuth{}, err
	}
	return auth, nil
}

// StaticCredentials serves connector credentials loaded from configuration.
type StaticCredentials struct {
	entries map[string]map[string]payment.ConnectorAuth
}

func NewStaticCredentials(raw map[string]map[string]CredentialConfig) (*StaticCredentials, error) {
	entries := make(map[string]map[string]payment.ConnectorAuth, len(raw))
	for merchant, byConnector := range raw {
		m := make(map[string]payment.ConnectorAuth, len(byConnector))
		for id, cred := range byConnector {
			auth, err := cred.Auth()
			if err != nil {
				return nil, fmt.Errorf("credentials for merchant %s connector %s: %w", merchant, id, err)
			}
			m[strings.ToLower(id)] = auth
		}
		entries[strings.ToLower(merchant)] = m
	}
	return &StaticCredentials{entries: entries}, nil
}

func (s *StaticCredentials) Credentials(_ context.Context, merchantID, connectorID string) (payment.ConnectorAuth, error) {
	auth, ok := s.entries[strings.ToLower(merchantID)][strings.ToLower(connectorID)]
	if !ok {
		return payment.ConnectorAuth{}, fmt.Errorf("merchant %s, connector %s: %w", merchantID, connectorID, domainErrors.ErrCredentialsNotFound)
	}
	return auth, nil
}
