package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alantheprice/choices/pkg/itemvalue"
)

var parseCmd = &cobra.Command{
	Use:   "parse <literal>",
	Short: "Split a value|label literal",
	Long: `Parses <literal> with the configured separator (see --separator) and prints
the resulting value, label and compact form.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		it := itemvalue.New(args[0])
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "value: %v\n", it.Value())
		if it.HasText() {
			fmt.Fprintf(out, "text: %s\n", it.PureText())
		}
		data, err := json.Marshal(it.Data())
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "data: %s\n", data)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
}
