package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"alcyxob/painrelief/internal/anatomy"
	"alcyxob/painrelief/internal/render"
)

// MeshCmd returns the mesh command
func MeshCmd() *cobra.Command {
	var pngPath string
	var width, height int

	cmd := &cobra.Command{
		Use:   "mesh",
		Short: "Describe the figure and optionally render it",
		Long: `Print every part of the built figure. With --png the front view is
written to the given file.

Examples:
  painctl mesh
  painctl mesh --png figure.png --width 600 --height 900`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			scene, err := anatomy.Build()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Pose table v%d, %d parts\n\n", scene.Version(), len(scene.Parts()))
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "HANDLE\tNAME\tREGION\tSHAPE\tPOSITION\tVISIBLE")
			for _, p := range scene.Parts() {
				region := string(p.Region)
				if region == "" {
					region = "-"
				}
				visible := "yes"
				if !p.Visible {
					visible = "hidden"
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t(%.2f, %.2f, %.2f)\t%s\n",
					p.Handle, p.Name, region, p.Geometry.Shape,
					p.Position.X, p.Position.Y, p.Position.Z, visible)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if pngPath == "" {
				return nil
			}
			data, err := render.PNG(scene, width, height)
			if err != nil {
				return err
			}
			if err := os.WriteFile(pngPath, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", pngPath, err)
			}
			fmt.Fprintf(out, "\n%s wrote %s (%dx%d)\n", color.GreenString("✓"), pngPath, width, height)
			return nil
		},
	}

	cmd.Flags().StringVar(&pngPath, "png", "", "Write a PNG preview to this file")
	cmd.Flags().IntVar(&width, "width", 400, "Preview width in pixels")
	cmd.Flags().IntVar(&height, "height", 600, "Preview height in pixels")

	return cmd
}
