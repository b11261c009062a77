package launcher

import (
	"regexp"
	"sort"
	"strings"
)

// compositorBin is the executable the composed command launches when the
// compositor is not already running.
const compositorBin = "gamescope"

// ComposeCommand builds the exact shell command for one invocation from the
// resolved argument list, the config-provided export set, the captured
// environment, and the compositor-active state. An empty result means there
// is nothing to execute.
func ComposeCommand(args []string, exports map[string]string, env EnvConfig, compositorActive bool) string {
	handleLDPreload := env.ldPreloadHandled()
	env.debugf("compose: args=%v exports=%v active=%v ldPreload=%v",
		args, exports, compositorActive, handleLDPreload)

	if compositorActive {
		return composeActive(args, exports, env, handleLDPreload)
	}
	return composeInactive(args, exports, env, handleLDPreload)
}

// composeInactive launches the compositor, and the application behind the
// separator when one is present.
func composeInactive(args []string, exports map[string]string, env EnvConfig, handleLDPreload bool) string {
	before, after := SplitAtSeparator(args)
	compositor := compositorSegment(before, handleLDPreload)

	if len(after) > 0 {
		app := appSegment(after[1:], exports, env, handleLDPreload)
		return joinSegments(env.PreCmd, compositor+" "+Separator+" "+app, env.PostCmd)
	}
	if len(exports) > 0 {
		// No application to prefix the exports onto; run them as a
		// standalone no-op assignment sequenced before the compositor.
		return joinSegments(env.PreCmd, exportsSegment(exports), compositor, env.PostCmd)
	}
	return joinSegments(env.PreCmd, compositor, env.PostCmd)
}

// composeActive never re-launches the compositor; only the application
// sub-command (or the standalone export assignment) is produced.
func composeActive(args []string, exports map[string]string, env EnvConfig, handleLDPreload bool) string {
	_, after := SplitAtSeparator(args)

	if len(after) > 0 {
		app := appSegment(after[1:], exports, env, handleLDPreload)
		if env.PreCmd == "" && env.PostCmd == "" {
			return app
		}
		return joinSegments(env.PreCmd, app, env.PostCmd)
	}
	if len(exports) > 0 {
		seg := exportsSegment(exports)
		if env.PreCmd == "" && env.PostCmd == "" {
			return seg
		}
		return joinSegments(env.PreCmd, seg, env.PostCmd)
	}
	if env.PreCmd == "" && env.PostCmd == "" {
		return ""
	}
	return joinSegments(env.PreCmd, env.PostCmd)
}

// compositorSegment prefixes the compositor binary with an "unset
// LD_PRELOAD for this child" wrapper when LD_PRELOAD handling is active.
func compositorSegment(flags []string, handleLDPreload bool) string {
	if handleLDPreload {
		return quoteJoin(append([]string{"env", "-u", "LD_PRELOAD", compositorBin}, flags...))
	}
	return quoteJoin(append([]string{compositorBin}, flags...))
}

// appSegment builds the application sub-command. Exports and the restored
// LD_PRELOAD value share a single env wrapper; wrappers are never nested.
func appSegment(appArgs []string, exports map[string]string, env EnvConfig, handleLDPreload bool) string {
	switch {
	case len(exports) > 0:
		parts := append([]string{"env"}, exportAssignments(exports)...)
		if handleLDPreload {
			parts = append(parts, "LD_PRELOAD="+env.LDPreload)
		}
		return quoteJoin(append(parts, appArgs...))
	case handleLDPreload:
		return quoteJoin(append([]string{"env", "LD_PRELOAD=" + env.LDPreload}, appArgs...))
	default:
		return quoteJoin(appArgs)
	}
}

// exportsSegment builds a standalone no-op command that performs the export
// assignments when there is no application to attach them to.
func exportsSegment(exports map[string]string) string {
	parts := append([]string{"env"}, exportAssignments(exports)...)
	return quoteJoin(append(parts, "true"))
}

func exportAssignments(exports map[string]string) []string {
	keys := make([]string, 0, len(exports))
	for k := range exports {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	assignments := make([]string, 0, len(keys))
	for _, k := range keys {
		assignments = append(assignments, k+"="+exports[k])
	}
	return assignments
}

// joinSegments drops empty segments and joins the rest with "; ".
func joinSegments(segments ...string) string {
	kept := segments[:0:0]
	for _, s := range segments {
		if s != "" {
			kept = append(kept, s)
		}
	}
	return strings.Join(kept, "; ")
}

// quoteJoin shell-quotes every token and joins them with single spaces.
func quoteJoin(tokens []string) string {
	quoted := make([]string, len(tokens))
	for i, tok := range tokens {
		quoted[i] = shellQuote(tok)
	}
	return strings.Join(quoted, " ")
}

var shellSafe = regexp.MustCompile(`^[A-Za-z0-9@%+=:,./_-]+$`)

// shellQuote returns a token wrapped so the shell reads it back verbatim.
func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	if shellSafe.MatchString(s) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}
