package launcher

import (
	"fmt"
	"strings"
)

// ParseProfileArgs extracts requested profile names from a raw argument
// list. Three selector syntaxes are supported: repeated "-p NAME" /
// "--profile NAME", "--profile=NAME", and "--profiles=a,b,c" (blank comma
// items skipped). Every other token passes through in rest, order preserved.
func ParseProfileArgs(args []string) (profiles, rest []string, err error) {
	for i := 0; i < len(args); {
		arg := args[i]
		switch {
		case strings.HasPrefix(arg, "--profiles="):
			for _, p := range strings.Split(strings.TrimPrefix(arg, "--profiles="), ",") {
				if p = strings.TrimSpace(p); p != "" {
					profiles = append(profiles, p)
				}
			}
			i++
		case arg == "-p" || arg == "--profile":
			if i+1 >= len(args) {
				return nil, nil, fmt.Errorf("%s requires a value", arg)
			}
			profiles = append(profiles, args[i+1])
			i += 2
		case strings.HasPrefix(arg, "--profile="):
			profiles = append(profiles, strings.TrimPrefix(arg, "--profile="))
			i++
		default:
			rest = append(rest, arg)
			i++
		}
	}
	return profiles, rest, nil
}

// MergeArguments merges a profile argument list with an override argument
// list. Override flags win over profile flags at canonical-identity
// granularity, and display-mode conflict flags on the override side fully
// replace the profile's. Only the portions before the "--" separator
// participate in flag merging; the override's separator and tail always win
// over the profile's.
func MergeArguments(profileArgs, overrideArgs []string) []string {
	pBefore, _ := SplitAtSeparator(profileArgs)
	oBefore, oAfter := SplitAtSeparator(overrideArgs)

	pFlags, pPos := SeparateFlagsAndPositionals(pBefore)
	oFlags, oPos := SeparateFlagsAndPositionals(oBefore)

	out := flagsToArgs(mergeFlags(pFlags, oFlags))
	out = append(out, pPos...)
	out = append(out, oPos...)
	out = append(out, oAfter...)
	return out
}

func mergeFlags(profileFlags, overrideFlags []Flag) []Flag {
	var pConflicts, pOthers, oConflicts, oOthers []Flag
	for _, f := range profileFlags {
		if isConflictFlag(f.Name) {
			pConflicts = append(pConflicts, f)
		} else {
			pOthers = append(pOthers, f)
		}
	}
	for _, f := range overrideFlags {
		if isConflictFlag(f.Name) {
			oConflicts = append(oConflicts, f)
		} else {
			oOthers = append(oOthers, f)
		}
	}

	// Any override conflict flag replaces the profile's, even when the two
	// sides name different members of the conflict set.
	conflicts := pConflicts
	if len(oConflicts) > 0 {
		conflicts = oConflicts
	}

	// Override shadows profile per canonical identity, so a long-form
	// override drops the profile's short spelling of the same flag.
	shadowed := make(map[string]struct{}, len(oOthers))
	for _, f := range oOthers {
		shadowed[canon(f.Name)] = struct{}{}
	}

	merged := make([]Flag, 0, len(conflicts)+len(pOthers)+len(oOthers))
	merged = append(merged, conflicts...)
	for _, f := range pOthers {
		if _, ok := shadowed[canon(f.Name)]; ok {
			continue
		}
		merged = append(merged, f)
	}
	return append(merged, oOthers...)
}

// MergeMultipleProfiles folds an ordered list of flag-lists with
// MergeArguments, so later lists take precedence over earlier ones. Empty
// input yields an empty list; a single list is returned unchanged.
func MergeMultipleProfiles(lists [][]string) []string {
	if len(lists) == 0 {
		return nil
	}
	merged := lists[0]
	for _, next := range lists[1:] {
		merged = MergeArguments(merged, next)
	}
	return merged
}
