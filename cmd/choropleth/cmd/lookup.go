package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newLookupCmd(o *options) *cobra.Command {
	var asJSON bool
	c := &cobra.Command{
		Use:   "lookup <fips>",
		Short: "Show the joined education record of a county",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fips, err := strconv.Atoi(args[0])
			if err != nil || fips <= 0 {
				return fmt.Errorf("invalid fips %q", args[0])
			}
			snap, err := o.load(cmd.Context())
			if err != nil {
				return err
			}
			e := snap.Index.Describe(fips)
			if asJSON {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(e)
			}
			st := e.State
			if st == "" {
				st = "-"
			}
			printf(cmd, "%d\t%s\t%s\t%s\n", e.FIPS, e.AreaName, st, e.Percent)
			return nil
		},
	}
	c.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return c
}
