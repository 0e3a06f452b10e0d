package observability

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

func InitLogger(level string, output io.Writer) zerolog.Logger {
	if output == nil {
		output = os.Stdout
	}

	logLevel := parseLogLevel(level)

	return zerolog.New(output).
		Level(logLevel).
		With().
		Timestamp().
		Caller().
		Logger()
}

func parseLogLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

// ForCall returns a logger annotated with the identifiers of one connector
// call. Empty identifiers are omitted.
func ForCall(logger zerolog.Logger, connectorID, flow, paymentID, attemptID string) zerolog.Logger {
	l := logger.With().Str("connector", connectorID).Str("flow", flow)
	if paymentID != "" {
		l = l.Str("payment_id", paymentID)
	}
	if attemptID != "" {
		l = l.Str("attempt_id", attemptID)
	}
	return l.Logger()
}
