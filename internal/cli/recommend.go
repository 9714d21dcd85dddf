package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"alcyxob/painrelief/internal/domain"
	"alcyxob/painrelief/internal/recommend"
	"alcyxob/painrelief/internal/selection"
)

// RecommendCmd returns the recommend command
func RecommendCmd() *cobra.Command {
	var region string
	var intensity int

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Show exercise recommendations for a region",
		Long: `Run the recommender against the built-in catalog.

Examples:
  painctl recommend --region neck --intensity 3
  painctl recommend --region back_lower --intensity 8`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := domain.ParseRegion(region)
			if err != nil {
				return fmt.Errorf("%w: %q", err, region)
			}
			engine, err := recommend.Default()
			if err != nil {
				return err
			}
			level := selection.Clamp(intensity)
			recs := engine.Recommend(r, level)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s, intensity %s (catalog v%d)\n\n",
				r.DisplayName(), intensityLabel(level), engine.Version())
			if len(recs) == 0 {
				fmt.Fprintln(out, "No recommendations.")
				return nil
			}
			for i, ex := range recs {
				fmt.Fprintf(out, "%d. %s %s\n", i+1, color.New(color.Bold).Sprint(ex.Title), color.New(color.Faint).Sprintf("[%s]", ex.ID))
				fmt.Fprintf(out, "   %s · %s · %s\n", ex.Category, tierLabel(ex.Tier), ex.Duration)
				if ex.Description != "" {
					fmt.Fprintf(out, "   %s\n", ex.Description)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&region, "region", "r", "", "Body region id (see 'painctl regions')")
	cmd.Flags().IntVarP(&intensity, "intensity", "i", selection.DefaultIntensity, "Pain intensity 1-10")
	_ = cmd.MarkFlagRequired("region")

	return cmd
}

func intensityLabel(level int) string {
	switch {
	case level >= recommend.SevereThreshold:
		return color.RedString("%d", level)
	case level >= recommend.ModerateThreshold:
		return color.YellowString("%d", level)
	default:
		return color.GreenString("%d", level)
	}
}

func tierLabel(t domain.SeverityTier) string {
	switch t {
	case domain.TierGentle:
		return color.GreenString("%s", t)
	case domain.TierModerate:
		return color.YellowString("%s", t)
	default:
		return color.RedString("%s", t)
	}
}
