package logging_test

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/goliatone/go-careassess/pkg/config"
	"github.com/goliatone/go-careassess/pkg/logging"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		cfg     config.LoggingConfig
		enabled zapcore.Level
		muted   zapcore.Level
	}{
		{config.LoggingConfig{Level: "info", Format: "json"}, zapcore.InfoLevel, zapcore.DebugLevel},
		{config.LoggingConfig{Level: "warn", Format: "console"}, zapcore.WarnLevel, zapcore.InfoLevel},
		{config.LoggingConfig{Format: "json"}, zapcore.InfoLevel, zapcore.DebugLevel},
		{logging.Verbose(config.LoggingConfig{Level: "error"}, true), zapcore.DebugLevel, zapcore.Level(-2)},
	}
	for _, tt := range tests {
		t.Run(tt.cfg.Level+"/"+tt.cfg.Format, func(t *testing.T) {
			log, err := logging.New(tt.cfg)
			if err != nil {
				t.Fatalf("new logger: %v", err)
			}
			if !log.Core().Enabled(tt.enabled) {
				t.Fatalf("expected %s to be enabled", tt.enabled)
			}
			if log.Core().Enabled(tt.muted) {
				t.Fatalf("expected %s to be muted", tt.muted)
			}
		})
	}
}

func TestNew_RejectsUnknownLevel(t *testing.T) {
	if _, err := logging.New(config.LoggingConfig{Level: "loud"}); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestNamed_NilLogger(t *testing.T) {
	if logging.Named(nil, "x") == nil {
		t.Fatalf("expected a no-op logger")
	}
	if got := logging.Named(zap.NewNop(), "http"); got == nil {
		t.Fatalf("expected named logger")
	}
}
