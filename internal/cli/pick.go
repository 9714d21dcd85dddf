package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"alcyxob/painrelief/internal/anatomy"
	"alcyxob/painrelief/internal/interaction"
	"alcyxob/painrelief/internal/platform/logger"
	"alcyxob/painrelief/internal/selection"
)

// PickCmd returns the pick command
func PickCmd() *cobra.Command {
	var x, y, width, height float64

	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Hit-test a screen position against the figure",
		Long: `Cast a ray from the default camera through a screen position and
report the region a click there would select. Coordinates are pixels from
the top-left corner of a width x height viewport.

Examples:
  painctl pick --x 400 --y 120
  painctl pick --x 512 --y 300 --width 1024 --height 768`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			scene, err := anatomy.Build()
			if err != nil {
				return err
			}
			scene.SetViewport(width, height)

			state := selection.New()
			picker := interaction.NewPicker(scene, state, logger.Nop())

			out := cmd.OutOrStdout()
			region, ok := picker.ClickAt(x, y)
			if !ok {
				fmt.Fprintf(out, "(%.0f, %.0f): %s\n", x, y, color.New(color.Faint).Sprint("nothing selectable"))
				return nil
			}
			fmt.Fprintf(out, "(%.0f, %.0f): %s %s\n", x, y,
				color.New(color.FgHiGreen, color.Bold).Sprint(region), color.New(color.Faint).Sprintf("(%s)", region.DisplayName()))
			return nil
		},
	}

	cmd.Flags().Float64Var(&x, "x", 0, "Screen x in pixels")
	cmd.Flags().Float64Var(&y, "y", 0, "Screen y in pixels")
	cmd.Flags().Float64Var(&width, "width", anatomy.DefaultViewportWidth, "Viewport width in pixels")
	cmd.Flags().Float64Var(&height, "height", anatomy.DefaultViewportHeight, "Viewport height in pixels")
	_ = cmd.MarkFlagRequired("x")
	_ = cmd.MarkFlagRequired("y")

	return cmd
}
