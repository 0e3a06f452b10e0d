package connector

import (
	"fmt"
	"sort"
	"strings"

	domainErrors "github.com/cassiomorais/connectors/internal/domain/errors"
	"github.com/cassiomorais/connectors/internal/domain/payment"
)

// Registry maps connector ids to adapters. It is built once at start-up and
// never modified, so it is safe to share between goroutines.
type Registry struct {
	connectors map[string]Connector
	ids        []string
}

func NewRegistry(connectors ...Connector) (*Registry, error) {
	r := &Registry{connectors: make(map[string]Connector, len(connectors))}
	for _, c := range connectors {
		id := strings.ToLower(c.ID())
		if id == "" {
			return nil, fmt.Errorf("connector with empty id")
		}
		if _, exists := r.connectors[id]; exists {
			return nil, fmt.Errorf("duplicate connector %q", id)
		}
		r.connectors[id] = c
		r.ids = append(r.ids, id)
	}
	sort.Strings(r.ids)
	return r, nil
}

func (r *Registry) Get(id string) (Connector, error) {
	c, ok := r.connectors[strings.ToLower(id)]
	if !ok {
		return nil, fmt.Errorf("unknown connector %q: %w", id, domainErrors.ErrConnectorNotFound)
	}
	return c, nil
}

// IDs returns the registered ids in sorted order.
func (r *Registry) IDs() []string {
	return append([]string(nil), r.ids...)
}

func (r *Registry) Capabilities(id string) ([]payment.Flow, error) {
	c, err := r.Get(id)
	if err != nil {
		return nil, err
	}
	return Capabilities(c), nil
}

// Supports reports whether connector id implements flow.
func (r *Registry) Supports(id string, flow payment.Flow) bool {
	flows, err := r.Capabilities(id)
	if err != nil {
		return false
	}
	for _, f := range flows {
		if f == flow {
			return true
		}
	}
	return false
}
