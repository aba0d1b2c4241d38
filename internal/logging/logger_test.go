package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		level   string
		visible []string
		hidden  []string
	}{
		{
			level:   "trace",
			visible: []string{"trace message", "debug message", "info message"},
		},
		{
			level:   "debug",
			visible: []string{"debug message", "info message"},
			hidden:  []string{"trace message"},
		},
		{
			level:   "info",
			visible: []string{"info message"},
			hidden:  []string{"trace message", "debug message"},
		},
		{
			level:   "error",
			visible: []string{"error message"},
			hidden:  []string{"info message"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(Config{
				Level:  tt.level,
				Pretty: false,
				Output: &buf,
			})

			logger.Trace().Msg("trace message")
			logger.Debug().Msg("debug message")
			logger.Info().Msg("info message")
			logger.Error().Msg("error message")

			output := buf.String()
			for _, msg := range tt.visible {
				if !strings.Contains(output, msg) {
					t.Errorf("Expected %q to be logged at %s level", msg, tt.level)
				}
			}
			for _, msg := range tt.hidden {
				if strings.Contains(output, msg) {
					t.Errorf("Expected %q to NOT be logged at %s level", msg, tt.level)
				}
			}
		})
	}
}

func TestParseLevel_Unknown(t *testing.T) {
	if got := ParseLevel("loud"); got != zerolog.InfoLevel {
		t.Errorf("Expected info level for unknown name, got %s", got)
	}
}

func TestConfig_Validate(t *testing.T) {
	for _, level := range []string{"", "trace", "debug", "info", "warn", "error"} {
		if err := (Config{Level: level}).Validate(); err != nil {
			t.Errorf("Expected level %q to be valid, got %v", level, err)
		}
	}

	if err := (Config{Level: "verbose"}).Validate(); err == nil {
		t.Error("Expected error for unknown level")
	}
}

func TestNewWithComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithComponent(Config{Level: "info", Output: &buf}, "pipeline")
	logger.Info().Msg("hello")

	if !strings.Contains(buf.String(), `"component":"pipeline"`) {
		t.Errorf("Expected component field in %q", buf.String())
	}
}

func TestNew_Pretty(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "info", Pretty: true, Output: &buf})
	logger.Info().Str("func", "main").Msg("function instrumented")

	output := buf.String()
	if !strings.Contains(output, "function instrumented") || !strings.Contains(output, "func=main") {
		t.Errorf("Unexpected console output %q", output)
	}
}
