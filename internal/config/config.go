package config

import (
	"fmt"
	"sort"

	"github.com/google/shlex"
)

// Config holds the parsed contents of nscb.conf: named profiles (flag-list
// strings) and environment exports for the launched application. It is
// immutable after Load.
type Config struct {
	profiles map[string]string
	exports  map[string]string
}

// Profile returns the raw flag-list string for name.
func (c *Config) Profile(name string) (string, bool) {
	v, ok := c.profiles[name]
	return v, ok
}

// HasProfile reports whether name is defined.
func (c *Config) HasProfile(name string) bool {
	_, ok := c.profiles[name]
	return ok
}

// ProfileArgs tokenizes the named profile's value with shell-word
// semantics. Referencing an unknown profile is an error.
func (c *Config) ProfileArgs(name string) ([]string, error) {
	raw, ok := c.Profile(name)
	if !ok {
		return nil, fmt.Errorf("profile %q not found", name)
	}
	args, err := shlex.Split(raw)
	if err != nil {
		return nil, fmt.Errorf("profile %q: %w", name, err)
	}
	return args, nil
}

// ProfileNames returns the defined profile names, sorted.
func (c *Config) ProfileNames() []string {
	names := make([]string, 0, len(c.profiles))
	for name := range c.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Exports returns a copy of the environment export set.
func (c *Config) Exports() map[string]string {
	out := make(map[string]string, len(c.exports))
	for k, v := range c.exports {
		out[k] = v
	}
	return out
}
