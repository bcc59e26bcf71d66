package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alantheprice/choices/pkg/filediscovery"
	"github.com/alantheprice/choices/pkg/itemfile"
	"github.com/alantheprice/choices/pkg/utils"
)

var (
	checkHidden   bool
	checkMaxFiles int
)

var checkCmd = &cobra.Command{
	Use:   "check [dir]",
	Short: "Round-trip every item file under a directory",
	Long: `Finds *.json, *.yaml and *.yml files below [dir] (default ".") that are not
excluded by .gitignore or .choices/.ignore and round-trips each of them.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := "."
		if len(args) == 1 {
			root = args[0]
		}
		logger := utils.GetLogger()
		res, err := filediscovery.NewFileDiscovery(logger).Discover(&filediscovery.DiscoveryOptions{
			RootPath:      root,
			IncludeHidden: checkHidden,
			MaxFiles:      checkMaxFiles,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		failed := 0
		for _, path := range res.Files {
			rt, err := itemfile.CheckRoundTrip(path)
			switch {
			case err != nil:
				failed++
				logger.LogError(err)
				fmt.Fprintf(out, "ERR   %s: %v\n", path, err)
			case rt.Identical():
				fmt.Fprintf(out, "ok    %s\n", path)
			default:
				failed++
				fmt.Fprintf(out, "DIFF  %s (+%d -%d)\n", path, rt.Additions, rt.Deletions)
			}
		}
		fmt.Fprintf(out, "%d files checked, %d failed\n", len(res.Files), failed)
		if failed > 0 {
			return fmt.Errorf("%d of %d files: %w", failed, len(res.Files), errRoundTripDiffers)
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().BoolVar(&checkHidden, "hidden", false, "include hidden files and directories")
	checkCmd.Flags().IntVar(&checkMaxFiles, "max-files", 0, "stop after this many files (0 = no limit)")
	rootCmd.AddCommand(checkCmd)
}
