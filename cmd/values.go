package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	valProduct   uint
	valAttribute string
	valRaw       string
	valLocale    string
	valChannel   string
	valValueID   uint
)

var valuesGetCmd = &cobra.Command{
	Use:   "values:get",
	Short: "Show a product's attribute values for a scope",
	Run: func(cmd *cobra.Command, args []string) {
		store, registry, _ := buildStack()
		ctx := context.Background()
		values := store.FetchValues(ctx, valProduct, valLocale, valChannel)
		if len(values) == 0 {
			fmt.Println("No values (or backend unreachable).")
			return
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tATTRIBUTE\tLOCALE\tCHANNEL\tVALUE")
		for _, v := range values {
			code := fmt.Sprintf("#%d", v.AttributeID)
			if def, ok := registry.DefinitionByID(ctx, v.AttributeID); ok {
				code = def.Code
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%v\n", v.ID, code, orDash(v.Locale), orDash(v.Channel), v.Value)
		}
		w.Flush()
	},
}

var valuesSetCmd = &cobra.Command{
	Use:   "values:set",
	Short: "Commit an attribute value for a product scope (create or update)",
	Run: func(cmd *cobra.Command, args []string) {
		store, registry, _ := buildStack()
		ctx := context.Background()
		def, ok := registry.DefinitionByCode(ctx, valAttribute)
		if !ok {
			fmt.Printf("Unknown attribute code: %s\n", valAttribute)
			os.Exit(1)
		}
		defs := registry.FetchDefinitions(ctx)
		saved, outcome, err := store.CreateValue(ctx, def.ID, valRaw, valProduct, valLocale, valChannel, defs)
		if err != nil {
			fmt.Printf("Commit failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Value %d %s: %s=%v (locale=%s channel=%s)\n",
			saved.ID, outcome, def.Code, saved.Value, orDash(saved.Locale), orDash(saved.Channel))
	},
}

var valuesDeleteCmd = &cobra.Command{
	Use:   "values:delete",
	Short: "Delete an attribute value row",
	Run: func(cmd *cobra.Command, args []string) {
		store, _, _ := buildStack()
		if err := store.DeleteValue(context.Background(), valValueID, valProduct); err != nil {
			fmt.Printf("Delete failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Value %d deleted.\n", valValueID)
	},
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func init() {
	valuesGetCmd.Flags().UintVarP(&valProduct, "product", "p", 0, "Product ID (required)")
	valuesGetCmd.MarkFlagRequired("product")
	valuesGetCmd.Flags().StringVar(&valLocale, "locale", "", "Locale code (defaults to org default)")
	valuesGetCmd.Flags().StringVar(&valChannel, "channel", "", "Channel code (defaults to org default)")

	valuesSetCmd.Flags().UintVarP(&valProduct, "product", "p", 0, "Product ID (required)")
	valuesSetCmd.MarkFlagRequired("product")
	valuesSetCmd.Flags().StringVarP(&valAttribute, "attribute", "a", "", "Attribute code (required)")
	valuesSetCmd.MarkFlagRequired("attribute")
	valuesSetCmd.Flags().StringVarP(&valRaw, "value", "v", "", "Raw value (coerced per the attribute's data type)")
	valuesSetCmd.Flags().StringVar(&valLocale, "locale", "", "Locale code")
	valuesSetCmd.Flags().StringVar(&valChannel, "channel", "", "Channel code")

	valuesDeleteCmd.Flags().UintVarP(&valProduct, "product", "p", 0, "Product ID (required)")
	valuesDeleteCmd.MarkFlagRequired("product")
	valuesDeleteCmd.Flags().UintVar(&valValueID, "id", 0, "Value ID (required)")
	valuesDeleteCmd.MarkFlagRequired("id")

	rootCmd.AddCommand(valuesGetCmd, valuesSetCmd, valuesDeleteCmd)
}
