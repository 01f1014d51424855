package bootstrap

import (
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/kfurue/notes_mcp/internal/registry"
)

func TestInitializeWithDefaults(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.json")
	t.Setenv("MCP_NOTES_FILE", filepath.Join(dir, "notes.txt"))

	services, cleanup, err := Initialize(configPath)
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	defer cleanup()

	if services.Registry == nil {
		t.Fatal("registry should not be nil")
	}
	if services.Store == nil {
		t.Fatal("store should not be nil")
	}
	if services.Store.Path() != filepath.Join(dir, "notes.txt") {
		t.Errorf("notes path env override not applied: %s", services.Store.Path())
	}
	if services.Telemetry == nil {
		t.Fatal("telemetry client should not be nil")
	}
	if services.Logger == nil {
		t.Fatal("logger should not be nil")
	}
}

func TestInitializeRegistersCapabilities(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("MCP_NOTES_FILE", filepath.Join(dir, "notes.txt"))

	services, cleanup, err := Initialize(filepath.Join(dir, "config.json"))
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	defer cleanup()

	tools := services.Registry.List(registry.KindTool)
	if len(tools) != 4 {
		t.Errorf("expected 4 tools, got %d", len(tools))
	}
	if len(services.Registry.List(registry.KindResource)) != 1 {
		t.Error("expected 1 resource")
	}
	if len(services.Registry.List(registry.KindPrompt)) != 1 {
		t.Error("expected 1 prompt")
	}
}

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name  string
		level string
		want  logrus.Level
	}{
		{name: "debug", level: "debug", want: logrus.DebugLevel},
		{name: "warn", level: "warn", want: logrus.WarnLevel},
		{name: "invalid falls back to info", level: "nope", want: logrus.InfoLevel},
		{name: "empty falls back to info", level: "", want: logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := newLogger(tt.level)
			if log.GetLevel() != tt.want {
				t.Errorf("expected level %v, got %v", tt.want, log.GetLevel())
			}
		})
	}
}
