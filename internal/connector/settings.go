package connector

import "strings"

// Settings is the per-connector configuration the adapters read.
type Settings struct {
	Connectors map[string]Params `mapstructure:"connectors"`
}

type Params struct {
	BaseURL string `mapstructure:"base_url"`
}

// BaseURL returns the configured base URL for id without a trailing slash.
func (s Settings) BaseURL(id string) string {
	p, ok := s.Connectors[strings.ToLower(id)]
	if !ok {
		return ""
	}
	return strings.TrimRight(p.BaseURL, "/")
}
