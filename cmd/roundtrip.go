package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alantheprice/choices/pkg/itemfile"
)

var errRoundTripDiffers = errors.New("items change when re-serialized")

var roundtripCmd = &cobra.Command{
	Use:   "roundtrip <file>",
	Short: "Check that an item file survives load and save unchanged",
	Long: `Loads <file>, serializes the items back to their compact form and prints a
line diff of the items section. Formatting and comments are ignored. Exits
with an error when the items differ.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := itemfile.CheckRoundTrip(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if rt.Identical() {
			fmt.Fprintf(out, "%s: identical\n", args[0])
			return nil
		}
		fmt.Fprintf(out, "%s: +%d -%d\n%s", args[0], rt.Additions, rt.Deletions, rt.Diff)
		return fmt.Errorf("%s: %w", args[0], errRoundTripDiffers)
	},
}

func init() {
	rootCmd.AddCommand(roundtripCmd)
}
