package launcher

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// EnvConfig captures every environment-driven setting once at invocation
// start, so the composer's branches stay pure functions of their inputs.
type EnvConfig struct {
	// PreCmd and PostCmd are shell hook commands sequenced around the
	// composed command.
	PreCmd  string
	PostCmd string
	// LDPreload is the caller's LD_PRELOAD value, restored onto the
	// application sub-command when wrapping is active.
	LDPreload string
	// DisableLDPreloadWrap suppresses LD_PRELOAD handling entirely.
	DisableLDPreloadWrap bool
	Debug                bool
}

// CaptureEnv reads the process environment into an EnvConfig. The hook
// variables have a legacy spelling each; the current name wins when both
// are set.
func CaptureEnv() EnvConfig {
	v := viper.New()
	v.AllowEmptyEnv(true)
	_ = v.BindEnv("pre_cmd", "NSCB_PRE_CMD", "NSCB_PRECMD")
	_ = v.BindEnv("post_cmd", "NSCB_POST_CMD", "NSCB_POSTCMD")
	_ = v.BindEnv("debug", "NSCB_DEBUG")
	_ = v.BindEnv("disable_ld_preload_wrap", "NSCB_DISABLE_LD_PRELOAD_WRAP")
	_ = v.BindEnv("faugus_log", "FAUGUS_LOG")
	_ = v.BindEnv("ld_preload", "LD_PRELOAD")

	// A third-party launcher marker disables wrapping unconditionally;
	// the override variable cannot re-enable it.
	disable := isTruthy(v.GetString("disable_ld_preload_wrap")) || v.IsSet("faugus_log")

	return EnvConfig{
		PreCmd:               strings.TrimSpace(v.GetString("pre_cmd")),
		PostCmd:              strings.TrimSpace(v.GetString("post_cmd")),
		LDPreload:            v.GetString("ld_preload"),
		DisableLDPreloadWrap: disable,
		Debug:                isTruthy(v.GetString("debug")),
	}
}

// ldPreloadHandled reports whether the composed command must unset
// LD_PRELOAD for the compositor and restore it for the application.
func (e EnvConfig) ldPreloadHandled() bool {
	return e.LDPreload != "" && !e.DisableLDPreloadWrap
}

func (e EnvConfig) debugf(format string, args ...any) {
	if !e.Debug {
		return
	}
	fmt.Fprintf(os.Stderr, "[DEBUG] "+format+"\n", args...)
}

func isTruthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
