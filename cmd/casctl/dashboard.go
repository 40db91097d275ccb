package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"io.winapps.casportfolio/internal/client"
)

func newDashboardCmd(opts *rootOptions) *cobra.Command {
	var (
		kindFlag string
		query    string
		goal     int
		tz       string
	)

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show counts, streak and monthly goal progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKindFlag(kindFlag)
			if err != nil {
				return err
			}
			s, err := opts.open()
			if err != nil {
				return err
			}

			q := client.DashboardQuery{Kind: kind, Query: query, TZ: tz}
			if cmd.Flags().Changed("goal") {
				q.Goal = &goal
			}
			d, err := s.client.Dashboard(cmd.Context(), q)
			if err != nil {
				return err
			}
			if opts.jsonOut {
				return printJSON(cmd, d)
			}

			out := cmd.OutOrStdout()
			for _, c := range d.Counts {
				fmt.Fprintf(out, "%-18s %d\n", c.Label, c.Count)
			}
			fmt.Fprintf(out, "%-18s %d\n", "Total", d.Total)
			fmt.Fprintf(out, "This month: %d of %d (%d%%)\n", d.MonthCount, d.Goal, d.GoalPercent)
			fmt.Fprintf(out, "Streak: %d day(s)\n", d.Streak)
			for _, b := range d.Timeline {
				fmt.Fprintf(out, "\n%s\n", b.Day)
				for _, e := range b.Entries {
					fmt.Fprintf(out, "  [%s] %s\n", e.Kind, e.Title)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&kindFlag, "kind", "", "Only show one strand in the timeline")
	cmd.Flags().StringVar(&query, "query", "", "Search titles and descriptions")
	cmd.Flags().IntVar(&goal, "goal", 0, "Monthly goal (server default when unset)")
	cmd.Flags().StringVar(&tz, "tz", "", "Time zone for days and months, e.g. Europe/London")
	return cmd
}
