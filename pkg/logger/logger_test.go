package logger

import (
	"testing"
)

func TestInit(t *testing.T) {
	tests := []struct {
		name  string
		level string
		env   string
	}{
		{name: "Debug development", level: "debug", env: "development"},
		{name: "Info production", level: "info", env: "production"},
		{name: "Warn", level: "warn", env: "production"},
		{name: "Error", level: "error", env: "production"},
		{name: "Unknown level falls back", level: "verbose", env: "production"},
		{name: "Empty level falls back", level: "", env: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Init(tt.level, tt.env)
			if log == nil {
				t.Fatal("Init() left logger unset")
			}
			Debug("debug line", "level", tt.level)
			Info("info line", "level", tt.level)
		})
	}

	Sync()
}
