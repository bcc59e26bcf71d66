package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alantheprice/choices/pkg/utils"
)

var logLines int

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Print the end of the log file",
	Long:  `Prints the last --lines lines of the log file configured by log_file (default .choices/choices.log).`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := utils.DefaultLogFile
		if activeConfig != nil && activeConfig.LogFile != "" {
			path = activeConfig.LogFile
		}
		return displayLog(cmd.OutOrStdout(), path, logLines)
	},
}

func init() {
	logCmd.Flags().IntVarP(&logLines, "lines", "n", 100, "number of lines to show")
	rootCmd.AddCommand(logCmd)
}

// displayLog writes the last n lines of the file at path.
func displayLog(out io.Writer, path string, n int) error {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(out, "Log file not found at %s. No log entries yet.\n", path)
		return nil
	}
	if err != nil {
		return utils.NewFileSystemError("open log", path, err)
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
		if n > 0 && len(lines) > n {
			lines = lines[1:]
		}
	}
	if err := scanner.Err(); err != nil {
		return utils.NewFileSystemError("read log", path, err)
	}

	if len(lines) == 0 {
		fmt.Fprintln(out, "Log file is empty.")
		return nil
	}
	fmt.Fprintf(out, "Last %d lines of %s:\n", len(lines), path)
	fmt.Fprintln(out, strings.Repeat("=", 80))
	for _, line := range lines {
		fmt.Fprintln(out, line)
	}
	fmt.Fprintln(out, strings.Repeat("=", 80))
	return nil
}
