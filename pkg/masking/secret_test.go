package masking

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecret_NeverPrintsValue(t *testing.T) {
	s := NewSecret("sk_test_123")

	for _, out := range []string{
		s.String(),
		fmt.Sprintf("%v", s),
		fmt.Sprintf("%+v", s),
		fmt.Sprintf("%#v", s),
		fmt.Sprintf("%s", s),
		fmt.Sprintf("%v", struct{ Key Secret[string] }{s}),
	} {
		assert.NotContains(t, out, "sk_test_123")
		assert.Contains(t, out, Placeholder)
	}
	assert.Equal(t, "sk_test_123", s.Expose())
}

func TestSecret_JSON(t *testing.T) {
	type card struct {
		CVC Secret[string] `json:"cvc"`
	}

	data, err := json.Marshal(card{CVC: NewSecret("123")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"cvc":"`+Placeholder+`"}`, string(data))

	var decoded card
	require.NoError(t, json.Unmarshal([]byte(`{"cvc":"123"}`), &decoded))
	assert.Equal(t, "123", decoded.CVC.Expose())
}

func TestSecret_ZerologInterface(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	logger.Info().
		Interface("secret", NewSecret("sk_live_abc")).
		Interface("nested", struct{ Key Secret[string] }{NewSecret("sk_live_abc")}).
		Msg("x")

	assert.NotContains(t, buf.String(), "sk_live_abc")
	assert.Contains(t, buf.String(), Placeholder)
}

func TestMaskable(t *testing.T) {
	plain := Plain("application/json")
	masked := Masked("sk_live_abc")

	assert.False(t, plain.IsMasked())
	assert.Equal(t, "application/json", plain.String())

	assert.True(t, masked.IsMasked())
	assert.Equal(t, Placeholder, masked.String())
	assert.Equal(t, "sk_live_abc", masked.Expose())

	data, err := json.Marshal(masked)
	require.NoError(t, err)
	assert.Equal(t, `"`+Placeholder+`"`, string(data))
}
