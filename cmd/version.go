package cmd

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long: `Print detailed version information including:
• Application version
• Go runtime version
• Build information
• Git commit hash (if available)`,
	Run: func(cmd *cobra.Command, args []string) {
		printVersionInfo(cmd.OutOrStdout())
	},
}

// These variables are set at build time using -ldflags
var (
	version   = "dev"     // Semantic version (e.g., "v1.0.0")
	buildDate = "unknown" // Build timestamp
	gitCommit = ""        // Git commit hash
	gitTag    = ""        // Git tag (if building from tag)
	goVersion = runtime.Version()
)

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.Version = version
	rootCmd.SetVersionTemplate("choices version {{.Version}}\n")
}

// printVersionInfo prints comprehensive version information
func printVersionInfo(out io.Writer) {
	fmt.Fprintf(out, "choices version %s\n", version)

	if buildDate != "unknown" {
		fmt.Fprintf(out, "Build date: %s\n", buildDate)
	}

	if gitCommit != "" {
		fmt.Fprintf(out, "Git commit: %s\n", gitCommit)
		if gitTag != "" && gitTag != version {
			fmt.Fprintf(out, "Git tag: %s\n", gitTag)
		}
	}

	fmt.Fprintf(out, "Go version: %s\n", goVersion)

	if info, ok := debug.ReadBuildInfo(); ok {
		fmt.Fprintf(out, "Module: %s\n", info.Main.Path)
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			fmt.Fprintf(out, "Module version: %s\n", info.Main.Version)
		}
	}

	fmt.Fprintf(out, "Platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
}
