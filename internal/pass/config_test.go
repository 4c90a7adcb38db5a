package pass

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadPipelineConfigParsesOrderedSteps(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pipeline.toml")
	content := `
[[pipeline]]
name = "dead-code-elimination"

[[pipeline]]
name = "literal-broadcasting-promotion"
[pipeline.options]
max-iterations = 4
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := LoadPipelineConfig(path)
	if err != nil {
		t.Fatalf("LoadPipelineConfig failed: %v", err)
	}
	if len(cfg.Passes) != 2 {
		t.Fatalf("expected 2 pipeline steps, got %d", len(cfg.Passes))
	}
	if cfg.Passes[0].Name != "dead-code-elimination" {
		t.Fatalf("first step name = %q", cfg.Passes[0].Name)
	}
	if cfg.Passes[1].Name != "literal-broadcasting-promotion" {
		t.Fatalf("second step name = %q", cfg.Passes[1].Name)
	}
	if v, ok := cfg.Passes[1].Options["max-iterations"]; !ok || v != int64(4) {
		t.Fatalf("second step options[max-iterations] = %v, want int64(4)", v)
	}
}

func TestLoadPipelineConfigEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.toml")
	if err := os.WriteFile(path, []byte(""), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	cfg, err := LoadPipelineConfig(path)
	if err != nil {
		t.Fatalf("LoadPipelineConfig failed: %v", err)
	}
	if len(cfg.Passes) != 0 {
		t.Fatalf("expected no pipeline steps, got %d", len(cfg.Passes))
	}
}

func TestLoadPipelineConfigRejectsMissingName(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.toml")
	content := "[[pipeline]]\noptions = {}\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if _, err := LoadPipelineConfig(path); err == nil {
		t.Fatalf("LoadPipelineConfig should reject a pipeline entry with no name")
	}
}
