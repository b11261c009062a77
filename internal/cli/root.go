// internal/cli/root.go

package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nscope/nscb/internal/config"
	"github.com/nscope/nscb/internal/launcher"
)

// childExitCode carries the launched child's exit status out of RunE, which
// can only signal success or tool failure on its own.
var childExitCode int

// rootCmd is the whole CLI surface: profile selectors, gamescope flags, and
// the application argv behind "--". Flag parsing is disabled so unknown
// flags pass through to gamescope untouched.
var rootCmd = &cobra.Command{
	Use:   "nscb [-p profile]... [gamescope flags] [-- application [args...]]",
	Short: "Launch applications through the gamescope compositor using named profiles",
	Long: `nscb composes and runs a gamescope command from named profiles, letting
command-line flags override profile defaults.

Examples:
  nscb -p fullscreen -- /bin/mygame                 # single profile
  nscb --profiles=gaming,hidpi -- /bin/mygame       # multiple profiles
  nscb -p gaming -p hidpi -- /bin/mygame            # multiple profiles
  nscb -p gaming -W 3840 -H 2160 -- /bin/mygame     # profile with overrides

Config file: $XDG_CONFIG_HOME/nscb.conf or $HOME/.config/nscb.conf
Config format: KEY=VALUE profiles (e.g. "gaming=-f -W 1920 -H 1080") and
"export KEY=VALUE" environment exports for the launched application.

Environment hooks: NSCB_PRE_CMD / NSCB_POST_CMD run before and after the
composed command; NSCB_DISABLE_LD_PRELOAD_WRAP=1 disables LD_PRELOAD
isolation; NSCB_DEBUG=1 traces command composition.`,
	DisableFlagParsing: true,
	SilenceUsage:       true,
	SilenceErrors:      true,
	RunE: func(cmd *cobra.Command, args []string) error {
		code, err := run(cmd, args)
		childExitCode = code
		return err
	},
}

// Execute runs the CLI and returns the process exit code: 0 on success or
// help, 1 on any resolution error, otherwise the launched child's own exit
// status.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return 1
	}
	return childExitCode
}

func run(cmd *cobra.Command, args []string) (int, error) {
	if wantsHelp(args) {
		return 0, cmd.Help()
	}

	// Fail before any config loading when the compositor binary is absent.
	if !launcher.FindExecutable("gamescope") {
		return 0, fmt.Errorf("'gamescope' not found in PATH")
	}

	profiles, rest, err := launcher.ParseProfileArgs(args)
	if err != nil {
		return 0, err
	}

	finalArgs := rest
	exports := map[string]string{}
	if len(profiles) > 0 {
		finalArgs, exports, err = resolveProfiles(profiles, rest)
		if err != nil {
			return 0, err
		}
	}

	env := launcher.CaptureEnv()
	active := launcher.IsCompositorActive()

	command := launcher.ComposeCommand(finalArgs, exports, env, active)
	if command == "" {
		return 0, nil
	}

	fmt.Println("Executing:", command)
	return launcher.RunNonBlocking(command)
}

// resolveProfiles loads nscb.conf, tokenizes each requested profile, and
// merges the lists with the caller's overrides appended last so they win.
func resolveProfiles(profiles, overrides []string) ([]string, map[string]string, error) {
	path, err := config.FindConfigFile()
	if err != nil {
		return nil, nil, err
	}
	conf, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}

	lists := make([][]string, 0, len(profiles)+1)
	for _, name := range profiles {
		if !conf.HasProfile(name) {
			return nil, nil, fmt.Errorf("profile %q not found (available: %s)",
				name, strings.Join(conf.ProfileNames(), ", "))
		}
		argv, err := conf.ProfileArgs(name)
		if err != nil {
			return nil, nil, err
		}
		lists = append(lists, argv)
	}
	lists = append(lists, overrides)

	return launcher.MergeMultipleProfiles(lists), conf.Exports(), nil
}

func wantsHelp(args []string) bool {
	if len(args) == 0 {
		return true
	}
	for _, arg := range args {
		if arg == "--help" {
			return true
		}
	}
	return false
}
