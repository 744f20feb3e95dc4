package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var attributesListCmd = &cobra.Command{
	Use:   "attributes:list",
	Short: "List attribute definitions from the remote store",
	Run: func(cmd *cobra.Command, args []string) {
		_, registry, _ := buildStack()
		defs := registry.FetchDefinitions(context.Background())
		if len(defs) == 0 {
			fmt.Println("No definitions available (backend unreachable or none defined).")
			return
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCODE\tLABEL\tTYPE\tLOCALISABLE\tSCOPABLE")
		for _, d := range defs {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%v\t%v\n", d.ID, d.Code, d.Label, d.DataType, d.IsLocalisable, d.IsScopable)
		}
		w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(attributesListCmd)
}
