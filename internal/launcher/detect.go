package launcher

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// FindExecutable reports whether name exists on PATH as an executable
// regular file.
func FindExecutable(name string) bool {
	pathVal := os.Getenv("PATH")
	if pathVal == "" {
		return false
	}
	for _, dir := range strings.Split(pathVal, string(os.PathListSeparator)) {
		if dir == "" {
			continue
		}
		if ensureExecutable(filepath.Join(dir, name)) == nil {
			return true
		}
	}
	return false
}

func ensureExecutable(path string) error {
	st, err := os.Stat(path)
	if err != nil {
		return err
	}
	if st.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	if st.Mode()&0o111 == 0 {
		return fmt.Errorf("%s is not executable", path)
	}
	return nil
}

// IsCompositorActive reports whether the session is already running under
// gamescope. The desktop environment variable is checked first; the process
// table is a fallback heuristic.
func IsCompositorActive() bool {
	if os.Getenv("XDG_CURRENT_DESKTOP") == compositorBin {
		return true
	}
	out, err := execCommand("ps", "ax")
	if err != nil {
		return false
	}
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, compositorBin) && !strings.Contains(line, "grep") {
			return true
		}
	}
	return false
}

// execCommand captures combined command output for diagnostic checks.
func execCommand(name string, args ...string) (string, error) {
	cmd := exec.Command(name, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return "", err
	}
	return strings.TrimSpace(out.String()), nil
}
