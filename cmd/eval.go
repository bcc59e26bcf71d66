package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/alantheprice/choices/pkg/itemvalue"
)

var (
	evalValues     []string
	evalValuesJSON string
	evalEnable     bool
	evalCondition  string
	evalJSON       bool
)

type evalResult struct {
	Visible           []any `json:"visible"`
	Enabled           []any `json:"enabled,omitempty"`
	VisibilityChanged bool  `json:"visibilityChanged"`
	EnablementChanged bool  `json:"enablementChanged"`
}

var evalCmd = &cobra.Command{
	Use:   "eval <file>",
	Short: "Evaluate item conditions",
	Long: `Loads an item file and runs the visibility pass against the document context
overlaid with --values-json and --values name=value pairs. With --enable the
enablement pass runs as well. Items without a condition of their own use
--condition when it is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, c, err := loadItems(args[0])
		if err != nil {
			return err
		}
		vals, err := buildValues(doc.Context, evalValues, evalValuesJSON)
		if err != nil {
			return err
		}

		var shared itemvalue.ConditionRunner
		if evalCondition != "" {
			shared = itemvalue.Compile(evalCondition)
		}
		res := evalResult{Visible: []any{}}
		var visible []*itemvalue.Item
		res.VisibilityChanged = c.RunConditions(&visible, shared, vals, doc.Properties, true)
		for _, it := range visible {
			res.Visible = append(res.Visible, it.Value())
		}
		if evalEnable {
			res.Enabled = []any{}
			res.EnablementChanged = c.RunEnabledConditions(nil, vals, doc.Properties, nil)
			for _, it := range c.Items() {
				if it.IsEnabled() {
					res.Enabled = append(res.Enabled, it.Value())
				}
			}
		}

		out := cmd.OutOrStdout()
		if evalJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}
		printItems(out, c.Items(), termWidth())
		return nil
	},
}

func init() {
	evalCmd.Flags().StringArrayVar(&evalValues, "values", nil, "name=value pair added to the evaluation context (repeatable)")
	evalCmd.Flags().StringVar(&evalValuesJSON, "values-json", "", "JSON object merged into the evaluation context")
	evalCmd.Flags().BoolVar(&evalEnable, "enable", false, "also run the enablement pass")
	evalCmd.Flags().StringVar(&evalCondition, "condition", "", "visibility condition for items without their own")
	evalCmd.Flags().BoolVar(&evalJSON, "json", false, "print the result as JSON")
	rootCmd.AddCommand(evalCmd)
}
