package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("DUPEDIVE_STATE_DIR", t.TempDir())
	t.Setenv("DUPEDIVE_CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	var out, errOut bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &errOut
	err := app.Run(append([]string{"dupedive"}, args...))
	return out.String(), err
}

func seedTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	same := bytes.Repeat([]byte("a"), 1000)
	for _, name := range []string{"one.bin", "sub/two.bin", "sub/deep/three.bin"} {
		p := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, same, 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "small.bin"), []byte("ab"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "small-copy.bin"), []byte("ab"), 0644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestReportMode(t *testing.T) {
	dir := seedTree(t)
	out, err := runCLI(t, "--no-tui", dir)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, want := range []string{"Found 2 duplicate group(s), 3 duplicate file(s)", "sub/deep/three.bin"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestReportToStdout(t *testing.T) {
	dir := seedTree(t)
	out, err := runCLI(t, "--report", "-", dir)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	var doc struct {
		Summary struct {
			Groups         int `json:"groups"`
			DuplicateFiles int `json:"duplicate_files"`
		} `json:"summary"`
	}
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("--report - did not print a JSON document: %v\n%s", err, out)
	}
	if doc.Summary.Groups != 2 || doc.Summary.DuplicateFiles != 3 {
		t.Errorf("summary = %+v, want 2 groups and 3 duplicate files", doc.Summary)
	}
}

func TestFlagsOverrideConfig(t *testing.T) {
	dir := seedTree(t)
	out, err := runCLI(t, "--no-tui", "--min-size", "100", "--algo", "blake3", dir)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, "Found 1 duplicate group(s), 2 duplicate file(s)") {
		t.Errorf("min-size should leave one group:\n%s", out)
	}
	if strings.Contains(out, "small.bin") {
		t.Errorf("files below --min-size were reported:\n%s", out)
	}
}

func TestDeleteAllDryRun(t *testing.T) {
	dir := seedTree(t)
	out, err := runCLI(t, "--delete-all", "--dry-run", "--keep", "shortest", dir)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, "keeping the shortest path of each group") {
		t.Errorf("missing keep policy line:\n%s", out)
	}
	for _, name := range []string{"one.bin", "sub/two.bin", "sub/deep/three.bin"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("dry run removed %s", name)
		}
	}
}

func TestInvalidArguments(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")
	file := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing dir", []string{missing}, "is not a valid directory"},
		{"file", []string{file}, "is not a valid directory"},
		{"no dir", nil, "DIRECTORY"},
		{"bad keep", []string{"--keep", "largest", t.TempDir()}, "keep"},
		{"bad size", []string{"--min-size", "lots", t.TempDir()}, "--min-size"},
		{"bad algo", []string{"--algo", "crc", t.TempDir()}, "algorithm"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want mention of %q", err, tt.want)
			}
		})
	}
}
