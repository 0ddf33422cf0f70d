// =============================================================================
// APT Notes Converter - Version Command
// =============================================================================
//
// COMMAND USAGE:
//   apt-notes version
//   apt-notes --version
//
// Version and BuildDate are stamped at build time:
//   go build -ldflags "-X 'github.com/ginjaninja78/apt-notes/cmd.Version=1.2.0' \
//                      -X 'github.com/ginjaninja78/apt-notes/cmd.BuildDate=2024-06-01'"
//
// An unstamped binary installed with `go install module@version` reports the
// module version recorded in its build info instead.
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Version is the application version, set via ldflags.
var Version = "dev"

// BuildDate is the build date, set via ldflags.
var BuildDate = "unknown"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display the application version",
	Run: func(cmd *cobra.Command, args []string) {
		printVersion(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.Version = resolvedVersion()
}

// resolvedVersion prefers the ldflags value, then the module version from
// the build info.
func resolvedVersion() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return Version
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "apt-notes %s\n", resolvedVersion())
	fmt.Fprintf(w, "  built:  %s\n", BuildDate)
	fmt.Fprintf(w, "  go:     %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
