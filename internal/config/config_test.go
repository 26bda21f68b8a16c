package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `
[run]
path-include = ["src/**"]
path-exclude = ["src/vendored/**", "src/app.py:10-20"]
max-workers = 4
output = "out.codetf.json"

[codemods]
exclude = ["url-sandbox"]

[reports]
sarif = ["scan.sarif"]
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := cfg.Run.PathInclude; !reflect.DeepEqual(got, []string{"src/**"}) {
		t.Fatalf("path-include = %v", got)
	}
	if cfg.Run.MaxWorkers != 4 || cfg.Run.Output != "out.codetf.json" {
		t.Fatalf("run section = %+v", cfg.Run)
	}
	if got := cfg.Codemods.Exclude; !reflect.DeepEqual(got, []string{"url-sandbox"}) {
		t.Fatalf("codemod exclude = %v", got)
	}
	if got := cfg.Reports.Sarif; !reflect.DeepEqual(got, []string{"scan.sarif"}) {
		t.Fatalf("sarif = %v", got)
	}
}

func TestLoadRejectsBadInput(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantStr string
	}{
		{
			name:    "unknown key",
			content: "[run]\nworkers = 4\n",
			wantStr: "unknown key",
		},
		{
			name:    "negative workers",
			content: "[run]\nmax-workers = -1\n",
			wantStr: "must not be negative",
		},
		{
			name:    "invalid glob",
			content: "[run]\npath-include = [\"src/[\"]\n",
			wantStr: "invalid path pattern",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeManifest(t, t.TempDir(), tt.content)
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantStr) {
				t.Fatalf("err = %v, want containing %q", err, tt.wantStr)
			}
		})
	}
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[run]\nmax-workers = 2\n")
	nested := filepath.Join(root, "src", "pkg")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	path, ok, err := Find(nested)
	if err != nil || !ok {
		t.Fatalf("find: ok=%v err=%v", ok, err)
	}
	if filepath.Dir(path) != root {
		t.Fatalf("found %q, want under %q", path, root)
	}

	cfg, err := Discover(nested)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if cfg.Run.MaxWorkers != 2 {
		t.Fatalf("max-workers = %d, want 2", cfg.Run.MaxWorkers)
	}
}

func TestDiscoverWithoutManifest(t *testing.T) {
	cfg, err := Discover(t.TempDir())
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if !reflect.DeepEqual(cfg, Config{}) {
		t.Fatalf("cfg = %+v, want zero", cfg)
	}
}
