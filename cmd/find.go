package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alantheprice/choices/pkg/values"
)

var findCmd = &cobra.Command{
	Use:   "find <file> <value>",
	Short: "Look up an item by value and print its label",
	Long: `Finds the first item whose value equals <value>. The value is typed the way
YAML would type it, so "1" matches both the number 1 and the string "1".`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, c, err := loadItems(args[0])
		if err != nil {
			return err
		}
		want := parseScalar(args[1])
		it := c.FindByValue(want)
		if it == nil {
			return errorf("no item with value %q in %s", args[1], args[0])
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", values.ToString(it.Value()), c.DisplayText(want))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(findCmd)
}
