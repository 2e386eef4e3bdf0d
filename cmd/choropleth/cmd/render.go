package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"edu-choropleth/internal/colorscale"
	"edu-choropleth/internal/page"
	"edu-choropleth/internal/render/rastermap"
	"edu-choropleth/internal/render/svgmap"
	"edu-choropleth/internal/scene"

	"github.com/spf13/cobra"
)

func newRenderCmd(o *options) *cobra.Command {
	var format, out string
	c := &cobra.Command{
		Use:   "render",
		Short: "Render the map to a file or stdout",
		Long:  "Render the choropleth as a standalone SVG (with hover script), a PNG, or an HTML page.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := colorscale.ByName(o.scale)
			if err != nil {
				return err
			}
			snap, err := o.load(cmd.Context())
			if err != nil {
				return err
			}
			s, err := scene.Build(snap, sc, o.viewport())
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			switch format {
			case "svg":
				err = svgmap.Write(&buf, s, svgmap.Options{Standalone: true})
			case "png":
				err = rastermap.Write(&buf, s)
			case "html":
				err = page.Write(&buf, page.View{Scene: s, Scale: sc.Name(), Scales: colorscale.Names(), Version: s.Version})
			default:
				return fmt.Errorf("unknown format %q (svg|png|html)", format)
			}
			if err != nil {
				return err
			}
			var w io.Writer = cmd.OutOrStdout()
			if out != "" && out != "-" {
				if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%d bytes, %d counties, %d unmatched)\n", out, buf.Len(), len(s.Counties), s.Unmatched)
				return nil
			}
			_, err = w.Write(buf.Bytes())
			return err
		},
	}
	c.Flags().StringVarP(&format, "format", "f", "svg", "output format: svg|png|html")
	c.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return c
}
