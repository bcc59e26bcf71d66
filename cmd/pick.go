package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alantheprice/choices/pkg/ui"
	"github.com/alantheprice/choices/pkg/values"
)

var (
	pickValues     []string
	pickValuesJSON string
)

var pickCmd = &cobra.Command{
	Use:   "pick <file>",
	Short: "Choose an item interactively",
	Long: `Evaluates the item conditions, then opens a searchable list of the visible
items. Disabled items are listed but cannot be chosen. The chosen value is
printed on stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, c, err := loadItems(args[0])
		if err != nil {
			return err
		}
		vals, err := buildValues(doc.Context, pickValues, pickValuesJSON)
		if err != nil {
			return err
		}
		c.RunConditions(nil, nil, vals, doc.Properties, true)
		c.RunEnabledConditions(nil, vals, doc.Properties, nil)

		items := ui.ItemsFromCollection(c)
		if len(items) == 0 {
			return errorf("no visible items in %s", args[0])
		}
		selected, err := ui.NewDropdown(items, ui.DropdownOptions{
			Prompt:     fmt.Sprintf("Choose from %s", args[0]),
			ShowCounts: true,
		}).Show()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), values.ToString(selected.Value()))
		return nil
	},
}

func init() {
	pickCmd.Flags().StringArrayVar(&pickValues, "values", nil, "name=value pair added to the evaluation context (repeatable)")
	pickCmd.Flags().StringVar(&pickValuesJSON, "values-json", "", "JSON object merged into the evaluation context")
	rootCmd.AddCommand(pickCmd)
}
