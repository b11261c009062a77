package launcher

import "strings"

// Separator marks the boundary between compositor flags and the launched
// application's own argument vector.
const Separator = "--"

// Flag is a compositor flag token paired with the value that followed it,
// if any. The token is kept exactly as the caller spelled it (short or long
// form); canonicalization happens only at comparison time.
type Flag struct {
	Name     string
	Value    string
	HasValue bool
}

// SplitAtSeparator splits args at the first "--" token. before holds
// everything up to the separator; after holds the separator itself plus
// everything following it, or is empty when no separator exists. Nested
// separators are not re-split.
func SplitAtSeparator(args []string) (before, after []string) {
	for i, arg := range args {
		if arg == Separator {
			return args[:i], args[i:]
		}
	}
	return args, nil
}

// SeparateFlagsAndPositionals scans args left to right, classifying each
// token. A token starting with "-" is a flag and consumes the next token as
// its value if that token exists and does not itself start with "-". All
// other tokens are positionals, kept in order.
func SeparateFlagsAndPositionals(args []string) ([]Flag, []string) {
	var flags []Flag
	var positionals []string

	for i := 0; i < len(args); {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			positionals = append(positionals, arg)
			i++
			continue
		}
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			flags = append(flags, Flag{Name: arg, Value: args[i+1], HasValue: true})
			i += 2
		} else {
			flags = append(flags, Flag{Name: arg})
			i++
		}
	}
	return flags, positionals
}

// flagsToArgs flattens flags back into an argument sequence.
func flagsToArgs(flags []Flag) []string {
	var out []string
	for _, f := range flags {
		out = append(out, f.Name)
		if f.HasValue {
			out = append(out, f.Value)
		}
	}
	return out
}
