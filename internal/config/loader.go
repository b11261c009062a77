// internal/config/loader.go

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	configName = "nscb.conf"

	// Limits guard against pathological config files.
	maxConfigSize = 10 << 20 // 10 MiB
	maxLineLength = 10000
)

var ErrConfigNotFound = errors.New("nscb.conf not found in $XDG_CONFIG_HOME or $HOME/.config")

// FindConfigFile locates nscb.conf in the standard search directories:
// $XDG_CONFIG_HOME first, then $HOME/.config.
func FindConfigFile() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		candidate := filepath.Join(xdg, configName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	if home := os.Getenv("HOME"); home != "" {
		candidate := filepath.Join(home, ".config", configName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", ErrConfigNotFound
}

var (
	profileNamePattern = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_.-]*$`)
	exportNamePattern  = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// Profile names that collide with tool vocabulary are rejected regardless
// of case.
var reservedProfileNames = map[string]struct{}{
	"help": {}, "debug": {}, "test": {}, "config": {}, "export": {}, "env": {},
}

// Exports may not clobber variables the tool or the shell depend on; the
// NSCB_ prefix is reserved for the tool's own settings.
var reservedExportNames = map[string]struct{}{
	"PATH": {}, "HOME": {}, "USER": {}, "SHELL": {}, "LD_PRELOAD": {},
}

// Substrings in values associated with command injection. Values are placed
// into a shell command line; anything that could open a second command is
// rejected outright.
var injectionPatterns = []string{";", "&&", "||", "`", "$(", "${"}

// Load parses nscb.conf. Lines are KEY=VALUE profile definitions or
// "export KEY=VALUE" environment exports; blank lines, comments, and lines
// without "=" are skipped. One layer of matching surrounding quotes is
// stripped from values. Any security violation aborts with an error naming
// the offending line.
func Load(path string) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat config %s: %w", path, err)
	}
	if info.Size() > maxConfigSize {
		return nil, fmt.Errorf("config file %s too large: %d bytes (limit %d)", path, info.Size(), maxConfigSize)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("config file %s: invalid UTF-8 encoding", path)
	}

	profiles := map[string]string{}
	exports := map[string]string{}

	for n, raw := range strings.Split(string(data), "\n") {
		lineNum := n + 1
		if len(raw) > maxLineLength {
			return nil, fmt.Errorf("%s:%d: line too long: %d bytes (limit %d)", path, lineNum, len(raw), maxLineLength)
		}
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !strings.Contains(line, "=") {
			continue
		}

		if rest, isExport := strings.CutPrefix(line, "export "); isExport {
			key, value, ok := strings.Cut(rest, "=")
			if !ok {
				continue
			}
			key = strings.TrimSpace(key)
			if key == "" {
				continue
			}
			value = stripQuotes(strings.TrimSpace(value))
			if err := validateExportName(key); err != nil {
				return nil, fmt.Errorf("%s:%d: %w", path, lineNum, err)
			}
			if err := checkInjection(value); err != nil {
				return nil, fmt.Errorf("%s:%d: export %s: %w", path, lineNum, key, err)
			}
			exports[key] = value
			continue
		}

		key, value, _ := strings.Cut(line, "=")
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		value = stripQuotes(strings.TrimSpace(value))
		if err := validateProfileName(key); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, lineNum, err)
		}
		if err := checkInjection(value); err != nil {
			return nil, fmt.Errorf("%s:%d: profile %s: %w", path, lineNum, key, err)
		}
		profiles[key] = value
	}

	return &Config{profiles: profiles, exports: exports}, nil
}

func validateProfileName(name string) error {
	if !profileNamePattern.MatchString(name) {
		return fmt.Errorf("invalid profile name %q", name)
	}
	if _, ok := reservedProfileNames[strings.ToLower(name)]; ok {
		return fmt.Errorf("profile name %q is reserved", name)
	}
	return nil
}

func validateExportName(name string) error {
	if !exportNamePattern.MatchString(name) {
		return fmt.Errorf("invalid environment variable name %q", name)
	}
	if _, ok := reservedExportNames[name]; ok {
		return fmt.Errorf("environment variable name %q is reserved", name)
	}
	if strings.HasPrefix(name, "NSCB_") {
		return fmt.Errorf("invalid environment variable name %q: the NSCB_ prefix is reserved", name)
	}
	return nil
}

func checkInjection(value string) error {
	for _, pattern := range injectionPatterns {
		if strings.Contains(value, pattern) {
			return fmt.Errorf("value contains shell metacharacter %q", pattern)
		}
	}
	return nil
}

// stripQuotes removes one layer of matching surrounding quotes.
func stripQuotes(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
