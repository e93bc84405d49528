package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const cascade = "../../pkg/fixture/testdata/cascade.yaml"

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestNewEnv_MetricsFromConfig(t *testing.T) {
	dir := writeConfig(t, "hybrids.yaml", "metrics:\n  enabled: true\n  namespace: cli\n")
	e, err := newEnv(&globalOptions{configDir: dir}, io.Discard)
	if err != nil {
		t.Fatalf("newEnv() error: %v", err)
	}

	if err := runScenario(e, cascade, true); err != nil {
		t.Fatalf("runScenario() error: %v", err)
	}

	families, err := e.registry.Gather()
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, f := range families {
		if f.GetName() == "cli_flushes_total" {
			found = true
		}
	}
	if !found {
		t.Error("cli_flushes_total not gathered")
	}
}

func TestNewEnv_LogLevelOverride(t *testing.T) {
	dir := writeConfig(t, "hybrids.toml", "[log]\nlevel = \"info\"\n")

	if _, err := newEnv(&globalOptions{configDir: dir, logLevel: "loud"}, io.Discard); err == nil {
		t.Error("invalid --log-level should fail validation")
	}
	e, err := newEnv(&globalOptions{configDir: dir, logLevel: "debug"}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if e.cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", e.cfg.Log.Level)
	}
}

func TestTreeCmd(t *testing.T) {
	dir := t.TempDir()
	cmd := treeCmd(&globalOptions{configDir: dir})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--after", cascade})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("tree error: %v", err)
	}
	if !strings.Contains(out.String(), "<child-tag> id=c parent=p") {
		t.Errorf("tree output:\n%s", out.String())
	}
}

func TestVersionCmd(t *testing.T) {
	cmd := versionCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--short"})

	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out.String()) != version {
		t.Errorf("version output = %q", out.String())
	}
}
