package cmd

import (
	"strconv"

	"edu-choropleth/internal/colorscale"

	"github.com/spf13/cobra"
)

func newLegendCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "legend",
		Short: "Print the legend swatches of the color scale",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := colorscale.ByName(o.scale)
			if err != nil {
				return err
			}
			printf(cmd, "scale %s\n", sc.Name())
			for _, w := range sc.Swatches() {
				if sc.Continuous() {
					printf(cmd, "%6s%%  %s\n", num(w.Value), w.Hex)
					continue
				}
				printf(cmd, "%6s%% - %s%%  %s\n", num(w.From), num(w.To), w.Hex)
			}
			return nil
		},
	}
}

func num(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
