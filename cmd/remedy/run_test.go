package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadUIMode(t *testing.T) {
	cases := []struct {
		value   string
		want    uiMode
		wantErr bool
	}{
		{"", uiModeAuto, false},
		{"auto", uiModeAuto, false},
		{"ON", uiModeOn, false},
		{" off ", uiModeOff, false},
		{"fancy", "", true},
	}
	for _, tc := range cases {
		got, err := readUIMode(tc.value)
		if tc.wantErr {
			if err == nil {
				t.Errorf("readUIMode(%q): expected error", tc.value)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("readUIMode(%q) = %v, %v; want %v", tc.value, got, err, tc.want)
		}
	}
}

func TestRunCommandDryRunWithReport(t *testing.T) {
	dir := t.TempDir()
	appPath := filepath.Join(dir, "app.py")
	content := "import random\nvalue = random.random()\n"
	if err := os.WriteFile(appPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "result.codetf.json")

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{dir, "--ui", "off", "--dry-run", "--output", out})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("execute: %v\n%s", err, buf.String())
	}

	for _, want := range []string{"dry run", "scanned: 1 files", "changed: 1 files", "report file:"} {
		if !strings.Contains(buf.String(), want) {
			t.Fatalf("output missing %q:\n%s", want, buf.String())
		}
	}

	data, err := os.ReadFile(appPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != content {
		t.Fatalf("dry run modified the file:\n%s", data)
	}

	raw, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	var doc struct {
		Run struct {
			Tool   string `json:"tool"`
			DryRun bool   `json:"dryRun"`
		} `json:"run"`
		Results []struct {
			Codemod string `json:"codemod"`
		} `json:"results"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	if doc.Run.Tool != "remedy" || !doc.Run.DryRun {
		t.Fatalf("run header = %+v", doc.Run)
	}
	if len(doc.Results) == 0 {
		t.Fatal("report has no results")
	}
}
