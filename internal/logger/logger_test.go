package logger

import (
	"testing"

	"github.com/deppfellow/cosmic-travel/internal/config"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
)

func TestGetPgxTraceLogLevel(t *testing.T) {
	cases := []struct {
		in   zerolog.Level
		want tracelog.LogLevel
	}{
		{zerolog.TraceLevel, tracelog.LogLevelTrace},
		{zerolog.DebugLevel, tracelog.LogLevelDebug},
		{zerolog.InfoLevel, tracelog.LogLevelInfo},
		{zerolog.WarnLevel, tracelog.LogLevelWarn},
		{zerolog.ErrorLevel, tracelog.LogLevelError},
		{zerolog.Disabled, tracelog.LogLevelNone},
	}

	for _, tc := range cases {
		if got := tracelog.LogLevel(GetPgxTraceLogLevel(tc.in)); got != tc.want {
			t.Errorf("GetPgxTraceLogLevel(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestLoggerServiceDisabledWithoutLicense(t *testing.T) {
	cfg := config.DefaultObservabilityConfig()

	ls := NewLoggerService(cfg)
	if ls.GetApplication() != nil {
		t.Fatal("expected nil New Relic application without license key")
	}

	// Shutdown on a disabled service and on a nil service must not panic.
	ls.Shutdown()
	var nilService *LoggerService
	nilService.Shutdown()
}

func TestNewLoggerLevel(t *testing.T) {
	cfg := config.DefaultObservabilityConfig()
	cfg.Logging.Level = "warn"

	l := NewLogger(cfg)
	if l.GetLevel() != zerolog.WarnLevel {
		t.Fatalf("level = %v, want warn", l.GetLevel())
	}
}

func TestWithTraceContextNilTransaction(t *testing.T) {
	base := zerolog.Nop()
	got := WithTraceContext(base, nil)
	if got.GetLevel() != base.GetLevel() {
		t.Fatal("nil transaction must return the logger unchanged")
	}
}
