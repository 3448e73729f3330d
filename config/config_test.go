package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultsWithoutFile(t *testing.T) {
	opts, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if opts != Default() {
		t.Fatalf("expected defaults, got %+v", opts)
	}
	if opts.TemplateAlpha != 0.8 || !opts.PencilJitter {
		t.Fatalf("unexpected defaults: %+v", opts)
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rmrender.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
template_alpha = 0.3
template_dir = "/usr/share/remarkable/templates"
pencil_jitter = false
`)
	opts, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if opts.TemplateAlpha != 0.3 {
		t.Fatalf("template_alpha not applied: %+v", opts)
	}
	if opts.PencilJitter {
		t.Fatal("pencil_jitter not applied")
	}
	// Unnamed fields keep their defaults.
	if opts.WidthReduction != Default().WidthReduction {
		t.Fatalf("width_reduction must keep its default, got %g", opts.WidthReduction)
	}
}

func TestInvalidValuesRejected(t *testing.T) {
	for _, body := range []string{
		"template_alpha = 1.5",
		"width_reduction = -2",
		"template_alpha = [1, 2]",
	} {
		path := writeConfig(t, body)
		if _, err := Load(path); err == nil {
			t.Errorf("config %q must be rejected", body)
		}
	}
}

func TestMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err == nil || !strings.Contains(err.Error(), "load config") {
		t.Fatalf("expected load error, got %v", err)
	}
}
