package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeConf(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nscb.conf")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestLoadProfilesAndExports(t *testing.T) {
	path := writeConf(t, `
# gaming setup
gaming=-f -W 1920 -H 1080
hidpi="-W 3840 -H 2160"

export GAME_MODE=performance
export MANGOHUD='1'
`)
	conf, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if v, ok := conf.Profile("gaming"); !ok || v != "-f -W 1920 -H 1080" {
		t.Fatalf("gaming=%q ok=%v", v, ok)
	}
	// Surrounding quotes are stripped once.
	if v, _ := conf.Profile("hidpi"); v != "-W 3840 -H 2160" {
		t.Fatalf("hidpi=%q", v)
	}
	if conf.HasProfile("missing") {
		t.Fatal("missing profile reported present")
	}

	exports := conf.Exports()
	want := map[string]string{"GAME_MODE": "performance", "MANGOHUD": "1"}
	if !reflect.DeepEqual(exports, want) {
		t.Fatalf("exports=%v", exports)
	}
}

func TestLoadSkipsMalformedLines(t *testing.T) {
	path := writeConf(t, "no_equals_sign\n=value\ngaming=-f\n")
	conf, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := conf.ProfileNames(); !reflect.DeepEqual(got, []string{"gaming"}) {
		t.Fatalf("profiles=%v", got)
	}
}

func TestProfileArgsShellWords(t *testing.T) {
	path := writeConf(t, `gaming=-f --stats-path '/tmp/stats dir/file'`+"\n")
	conf, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	args, err := conf.ProfileArgs("gaming")
	if err != nil {
		t.Fatalf("ProfileArgs: %v", err)
	}
	want := []string{"-f", "--stats-path", "/tmp/stats dir/file"}
	if !reflect.DeepEqual(args, want) {
		t.Fatalf("args=%v", args)
	}
}

func TestProfileArgsUnknownProfile(t *testing.T) {
	conf, err := Load(writeConf(t, "gaming=-f\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := conf.ProfileArgs("nope"); err == nil {
		t.Fatal("unknown profile should error")
	}
}

func TestLoadRejectsInjectionPatterns(t *testing.T) {
	for _, value := range []string{
		"value; rm -rf /",
		"value && echo hacked",
		"value || exit 1",
		"value `whoami`",
		"value $(whoami)",
		"value ${HOME}",
	} {
		_, err := Load(writeConf(t, "gaming="+value+"\n"))
		if err == nil {
			t.Fatalf("value %q should be rejected", value)
		}
		if !strings.Contains(err.Error(), ":1:") {
			t.Fatalf("error should name the offending line: %v", err)
		}
	}
}

func TestLoadRejectsInvalidExportNames(t *testing.T) {
	for _, name := range []string{"123invalid", "invalid-name", "invalid name"} {
		if _, err := Load(writeConf(t, "export "+name+"=value\n")); err == nil {
			t.Fatalf("export name %q should be rejected", name)
		}
	}
}

func TestLoadRejectsReservedExportNames(t *testing.T) {
	for _, name := range []string{"PATH", "HOME", "USER", "SHELL", "LD_PRELOAD", "NSCB_VAR"} {
		if _, err := Load(writeConf(t, "export "+name+"=value\n")); err == nil {
			t.Fatalf("export name %q should be rejected", name)
		}
	}
}

func TestLoadRejectsInvalidProfileNames(t *testing.T) {
	for _, name := range []string{"invalid name", "invalid/name"} {
		if _, err := Load(writeConf(t, name+"=-f\n")); err == nil {
			t.Fatalf("profile name %q should be rejected", name)
		}
	}
}

func TestLoadRejectsReservedProfileNames(t *testing.T) {
	for _, name := range []string{"help", "HELP", "debug", "test", "config", "export", "env"} {
		if _, err := Load(writeConf(t, name+"=-f\n")); err == nil {
			t.Fatalf("profile name %q should be rejected", name)
		}
	}
}

func TestLoadRejectsLongLines(t *testing.T) {
	line := strings.Repeat("b", maxLineLength+1) + "=value\n"
	if _, err := Load(writeConf(t, line)); err == nil {
		t.Fatal("overlong line should be rejected")
	}
}

func TestLoadRejectsOversizedFile(t *testing.T) {
	content := strings.Repeat("# padding padding padding padding padding\n", (maxConfigSize/42)+2)
	_, err := Load(writeConf(t, content))
	if err == nil || !strings.Contains(err.Error(), "too large") {
		t.Fatalf("oversized file should be rejected, got %v", err)
	}
}

func TestLoadRejectsInvalidUTF8(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nscb.conf")
	if err := os.WriteFile(path, []byte{0xff, 0xfe, 'x', '\n'}, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("invalid UTF-8 should be rejected")
	}
}

func TestFindConfigFileXDGFirst(t *testing.T) {
	xdg := t.TempDir()
	home := t.TempDir()
	if err := os.MkdirAll(filepath.Join(home, ".config"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(xdg, "nscb.conf"), []byte("a=-f\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(home, ".config", "nscb.conf"), []byte("b=-f\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Setenv("HOME", home)

	path, err := FindConfigFile()
	if err != nil {
		t.Fatalf("FindConfigFile: %v", err)
	}
	if path != filepath.Join(xdg, "nscb.conf") {
		t.Fatalf("path=%s", path)
	}
}

func TestFindConfigFileHomeFallback(t *testing.T) {
	home := t.TempDir()
	if err := os.MkdirAll(filepath.Join(home, ".config"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(home, ".config", "nscb.conf"), []byte("a=-f\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", home)

	path, err := FindConfigFile()
	if err != nil {
		t.Fatalf("FindConfigFile: %v", err)
	}
	if path != filepath.Join(home, ".config", "nscb.conf") {
		t.Fatalf("path=%s", path)
	}
}

func TestFindConfigFileMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	if _, err := FindConfigFile(); !errors.Is(err, ErrConfigNotFound) {
		t.Fatalf("err=%v, want ErrConfigNotFound", err)
	}
}
