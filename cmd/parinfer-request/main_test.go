package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	parinfer "github.com/avrma-forks/parinfer-rust"
	"github.com/avrma-forks/parinfer-rust/request"
)

// setupConfigDir points the command at an empty config directory and
// optionally writes config.toml into it.
func setupConfigDir(t *testing.T, config string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("PARINFER_CONFIG_DIR", dir)
	t.Setenv("PARINFER_LOG_LEVEL", "")
	t.Setenv("PARINFER_LOG_FORMAT", "")
	if config != "" {
		if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(config), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func runCmd(t *testing.T, stdin string, env request.Env, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr, env)
	return code, stdout.String(), stderr.String()
}

func TestTextRequest(t *testing.T) {
	setupConfigDir(t, "")
	code, out, errOut := runCmd(t, "(foo\n", request.MapEnv{}, "-m", "paren")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d: %s", code, errOut)
	}
	var req parinfer.Request
	if err := json.Unmarshal([]byte(out), &req); err != nil {
		t.Fatalf("output is not a request: %v\n%s", err, out)
	}
	if req.Mode != parinfer.ModeParen || req.Text != "(foo\n" {
		t.Errorf("unexpected request %+v", req)
	}
	if !strings.Contains(out, `"changes": []`) {
		t.Errorf("expected indented empty changes, got %s", out)
	}
}

func TestConfigDefaultsApply(t *testing.T) {
	setupConfigDir(t, "[flags]\nmode = \"indent\"\ncomment_char = \"#\"\n")
	code, out, errOut := runCmd(t, "x", request.MapEnv{})
	if code != 0 {
		t.Fatalf("expected exit 0, got %d: %s", code, errOut)
	}
	if !strings.Contains(out, `"mode": "indent"`) || !strings.Contains(out, `"commentChar": "#"`) {
		t.Errorf("expected config defaults, got %s", out)
	}

	code, out, _ = runCmd(t, "x", request.MapEnv{}, "--mode=smart")
	if code != 0 || !strings.Contains(out, `"mode": "smart"`) {
		t.Errorf("expected flag to override config, got %d %s", code, out)
	}
}

func TestInvalidConfigValue(t *testing.T) {
	setupConfigDir(t, "[flags]\nmode = \"fast\"\n")
	code, _, errOut := runCmd(t, "x", request.MapEnv{})
	if code != 2 {
		t.Errorf("expected exit 2, got %d", code)
	}
	if !strings.Contains(errOut, "parinfer: ") || !strings.Contains(errOut, "fast") {
		t.Errorf("unexpected stderr %q", errOut)
	}
}

func TestUnknownFlag(t *testing.T) {
	setupConfigDir(t, "")
	code, out, errOut := runCmd(t, "", request.MapEnv{}, "--bogus")
	if code != 2 {
		t.Errorf("expected exit 2, got %d", code)
	}
	if out != "" || !strings.HasPrefix(errOut, "parinfer: ") {
		t.Errorf("unexpected output %q %q", out, errOut)
	}
}

func TestHelp(t *testing.T) {
	setupConfigDir(t, "")
	t.Setenv("COLUMNS", "200")
	code, out, _ := runCmd(t, "", request.MapEnv{}, "-h")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	for _, want := range []string{"--input-format", "--comment-char", "(default: smart)"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in usage:\n%s", want, out)
		}
	}
}

func TestVersion(t *testing.T) {
	setupConfigDir(t, "")
	code, out, _ := runCmd(t, "", request.MapEnv{}, "--version")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if out != "parinfer-request "+Version+"\n" {
		t.Errorf("unexpected version output %q", out)
	}
}

func TestRepeatedFlag(t *testing.T) {
	setupConfigDir(t, "")
	code, out, errOut := runCmd(t, "x", request.MapEnv{}, "-m", "paren", "-m", "indent")
	if code != 2 {
		t.Errorf("expected exit 2, got %d", code)
	}
	if out != "" || !strings.Contains(errOut, "--mode given more than once") {
		t.Errorf("unexpected output %q %q", out, errOut)
	}
}

func TestPrintSchema(t *testing.T) {
	setupConfigDir(t, "")
	code, out, _ := runCmd(t, "", request.MapEnv{}, "--print-schema")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !json.Valid([]byte(out)) || !strings.Contains(out, `"parinfer request"`) {
		t.Errorf("unexpected schema output %s", out)
	}
}

func TestKakouneRoundTripThroughSnapshot(t *testing.T) {
	setupConfigDir(t, "")
	env := request.MapEnv{
		request.EnvSelection:    "(let [x 1]\n  x",
		request.EnvFiletype:     "guile",
		request.EnvCursorColumn: "3",
		request.EnvCursorLine:   "2",
	}
	code, snapshot, errOut := runCmd(t, "", env, "--dump-env")
	if code != 0 {
		t.Fatalf("dump-env: exit %d: %s", code, errOut)
	}
	path := filepath.Join(t.TempDir(), "kak.env")
	if err := os.WriteFile(path, []byte(snapshot), 0o600); err != nil {
		t.Fatal(err)
	}

	code, out, errOut := runCmd(t, "", request.MapEnv{}, "--input-format=kakoune", "--env-file", path)
	if code != 0 {
		t.Fatalf("env-file: exit %d: %s", code, errOut)
	}
	var req parinfer.Request
	if err := json.Unmarshal([]byte(out), &req); err != nil {
		t.Fatal(err)
	}
	if req.Text != env[request.EnvSelection] {
		t.Errorf("expected selection text, got %q", req.Text)
	}
	if req.Options.CursorX == nil || *req.Options.CursorX != 2 {
		t.Errorf("expected cursorX 2, got %v", req.Options.CursorX)
	}
	if !req.Options.SchemeSexpComment {
		t.Error("expected guile to resolve to scheme defaults")
	}
}

func TestKakouneMissingSelection(t *testing.T) {
	setupConfigDir(t, "")
	code, _, errOut := runCmd(t, "", request.MapEnv{}, "--input-format", "kakoune")
	if code != 2 {
		t.Errorf("expected exit 2, got %d", code)
	}
	if !strings.Contains(errOut, "kak_selection") {
		t.Errorf("expected variable name in %q", errOut)
	}
}

func TestMalformedJSON(t *testing.T) {
	setupConfigDir(t, "")
	code, _, errOut := runCmd(t, "{", request.MapEnv{}, "--input-format", "json")
	if code != 1 {
		t.Errorf("expected exit 1, got %d", code)
	}
	if !strings.Contains(errOut, "failed to decode JSON request") {
		t.Errorf("unexpected stderr %q", errOut)
	}
}

func TestMissingEnvFile(t *testing.T) {
	setupConfigDir(t, "")
	code, _, errOut := runCmd(t, "", request.MapEnv{}, "--input-format", "kakoune", "--env-file", filepath.Join(t.TempDir(), "nope"))
	if code != 1 {
		t.Errorf("expected exit 1, got %d", code)
	}
	if !strings.Contains(errOut, "failed to open") {
		t.Errorf("unexpected stderr %q", errOut)
	}
}

func TestExitCode(t *testing.T) {
	if exitCode(&parinfer.ValidationError{}) != 2 {
		t.Error("expected 2 for validation errors")
	}
	if exitCode(&parinfer.IOError{Operation: "read", Path: "stdin"}) != 1 {
		t.Error("expected 1 for io errors")
	}
}
