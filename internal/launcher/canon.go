package launcher

// gamescopeAliases maps short gamescope flags to their canonical long form.
// Used only for identity comparison during merges; output always keeps the
// spelling the user wrote.
var gamescopeAliases = map[string]string{
	"-W":          "--output-width",
	"-H":          "--output-height",
	"-w":          "--nested-width",
	"-h":          "--nested-height",
	"-b":          "--borderless",
	"-C":          "--hide-cursor-delay",
	"-e":          "--steam",
	"-f":          "--fullscreen",
	"-F":          "--filter",
	"-g":          "--grab",
	"-o":          "--nested-unfocused-refresh",
	"-O":          "--prefer-output",
	"-r":          "--nested-refresh",
	"-R":          "--ready-fd",
	"-s":          "--mouse-sensitivity",
	"-T":          "--stats-path",
	"--sharpness": "--fsr-sharpness",
}

// conflictSet holds the canonical identities of the mutually exclusive
// display-mode flags. At most one member may survive a merge.
var conflictSet = map[string]struct{}{
	"--fullscreen": {},
	"--borderless": {},
}

// canon returns the canonical long form of a flag token. Tokens absent from
// the alias table canonicalize to themselves.
func canon(flag string) string {
	if long, ok := gamescopeAliases[flag]; ok {
		return long
	}
	return flag
}

func isConflictFlag(flag string) bool {
	_, ok := conflictSet[canon(flag)]
	return ok
}
