package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"edu-choropleth/internal/api"
	"edu-choropleth/internal/colorscale"
	"edu-choropleth/internal/hittest"
	"edu-choropleth/internal/scene"

	"github.com/spf13/cobra"
)

func newHoverCmd(o *options) *cobra.Command {
	var leave bool
	c := &cobra.Command{
		Use:   "hover <x> <y>",
		Short: "Simulate a pointer event at canvas coordinates",
		Long:  "Hit-test (x, y) against the rendered counties and print the tooltip state after pointer-enter (and pointer-leave with --leave).",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, errX := strconv.ParseFloat(args[0], 64)
			y, errY := strconv.ParseFloat(args[1], 64)
			if errX != nil || errY != nil {
				return fmt.Errorf("x and y must be numbers")
			}
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
			res := api.HoverQuery(hittest.New(s, hittest.Options{}), x, y, leave)
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}
	c.Flags().BoolVar(&leave, "leave", false, "emit pointer-leave after pointer-enter")
	return c
}
