package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alantheprice/choices/pkg/utils"
)

var ignoreCmd = &cobra.Command{
	Use:   "ignore <pattern>",
	Short: "Add a pattern to .choices/.ignore",
	Long: `Adds a gitignore-style pattern to .choices/.ignore, which is used in addition
to .gitignore when "choices check" looks for item files.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ignoreFile := filepath.Join(".choices", ".ignore")
		added, err := addIgnorePattern(ignoreFile, args[0])
		if err != nil {
			return err
		}
		if added {
			fmt.Fprintf(cmd.OutOrStdout(), "Added '%s' to %s\n", args[0], ignoreFile)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "'%s' is already in %s\n", args[0], ignoreFile)
		}
		return nil
	},
}

// addIgnorePattern appends pattern to the ignore file unless it is already there.
func addIgnorePattern(ignoreFile, pattern string) (bool, error) {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return false, errorf("empty ignore pattern")
	}
	if err := os.MkdirAll(filepath.Dir(ignoreFile), 0755); err != nil {
		return false, utils.NewFileSystemError("create directory", filepath.Dir(ignoreFile), err)
	}

	if f, err := os.Open(ignoreFile); err == nil {
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			if strings.TrimSpace(scanner.Text()) == pattern {
				f.Close()
				return false, nil
			}
		}
		f.Close()
	}

	f, err := os.OpenFile(ignoreFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return false, utils.NewFileSystemError("open", ignoreFile, err)
	}
	defer f.Close()
	if _, err := f.WriteString(pattern + "\n"); err != nil {
		return false, utils.NewFileSystemError("write", ignoreFile, err)
	}
	return true, nil
}

func init() {
	rootCmd.AddCommand(ignoreCmd)
}
