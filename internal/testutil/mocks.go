package testutil

import (
	"context"
	"strings"
	"sync"

	"github.com/cassiomorais/connectors/internal/connector"
	domainErrors "github.com/cassiomorais/connectors/internal/domain/errors"
	"github.com/cassiomorais/connectors/internal/domain/payment"
)

// --- Transport Mock ---

// MockTransport is a mock implementation of connector.Transport. Without
// SendFunc it replies with Response, or 200 and an empty body.
type MockTransport struct {
	mu       sync.Mutex
	requests []*connector.Request

	Response *connector.Response
	SendFunc func(ctx context.Context, req *connector.Request) (*connector.Response, error)
}

func (m *MockTransport) Send(ctx context.Context, req *connector.Request) (*connector.Response, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.SendFunc != nil {
		return m.SendFunc(ctx, req)
	}
	if m.Response != nil {
		return m.Response, nil
	}
	return &connector.Response{StatusCode: 200}, nil
}

// Requests returns every request sent so far.
func (m *MockTransport) Requests() []*connector.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*connector.Request(nil), m.requests...)
}

// LastRequest returns the most recent request, or nil.
func (m *MockTransport) LastRequest() *connector.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return nil
	}
	return m.requests[len(m.requests)-1]
}

// --- Credential Store Mock ---

// MockCredentialStore serves credentials from memory.
type MockCredentialStore struct {
	mu      sync.Mutex
	entries map[string]payment.ConnectorAuth

	CredentialsFunc func(ctx context.Context, merchantID, connectorID string) (payment.ConnectorAuth, error)
}

func NewMockCredentialStore() *MockCredentialStore {
	return &MockCredentialStore{entries: make(map[string]payment.ConnectorAuth)}
}

func (m *MockCredentialStore) Add(merchantID, connectorID string, auth payment.ConnectorAuth) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[credentialKey(merchantID, connectorID)] = auth
}

func (m *MockCredentialStore) Credentials(ctx context.Context, merchantID, connectorID string) (payment.ConnectorAuth, error) {
	if m.CredentialsFunc != nil {
		return m.CredentialsFunc(ctx, merchantID, connectorID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	auth, ok := m.entries[credentialKey(merchantID, connectorID)]
	if !ok {
		return payment.ConnectorAuth{}, domainErrors.ErrCredentialsNotFound
	}
	return auth, nil
}

func credentialKey(merchantID, connectorID string) string {
	return strings.ToLower(merchantID) + "/" + strings.ToLower(connectorID)
}
