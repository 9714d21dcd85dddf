package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"alcyxob/painrelief/internal/anatomy"
	"alcyxob/painrelief/internal/domain"
)

// RegionsCmd returns the regions command
func RegionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "regions",
		Short: "List body regions and their neighbours",
		Long: `List every selectable body region, head to toe, with the regions
the recommender treats as related. Adjacency edges that are not mirrored
are reported at the end.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "REGION\tNAME\tRELATED")
			for _, r := range domain.AllRegions() {
				related := anatomy.RelatedRegions(r)[1:]
				names := make([]string, len(related))
				for i, n := range related {
					names[i] = string(n)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", r, r.DisplayName(), strings.Join(names, ", "))
			}
			if err := w.Flush(); err != nil {
				return err
			}

			pairs := anatomy.AsymmetricPairs()
			fmt.Fprintln(out)
			if len(pairs) == 0 {
				fmt.Fprintln(out, color.GreenString("✓ adjacency is symmetric"))
				return nil
			}
			fmt.Fprintln(out, color.YellowString("⚠ %d asymmetric adjacency edge(s):", len(pairs)))
			for _, p := range pairs {
				fmt.Fprintf(out, "  %s -> %s\n", p.From, p.To)
			}
			return nil
		},
	}
}
