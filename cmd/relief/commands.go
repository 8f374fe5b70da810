package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/relief/api"
	"github.com/katalvlaran/relief/dijkstra"
	"github.com/katalvlaran/relief/distribution"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr != "" {
				a.cfg.Server.Addr = addr
			}
			router := api.NewRouter(api.NewHandler(a.coord, a.log.Named("api")), a.cfg.Metrics, a.registry)
			return api.NewServer(a.cfg.Server, router, a.log).Run(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")

	return cmd
}

func newRouteCmd(a *app) *cobra.Command {
	var closedAt float64
	cmd := &cobra.Command{
		Use:   "route <from> <to>",
		Short: "Print the cheapest route between two zones",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []dijkstra.Option
			if closedAt > 0 {
				opts = append(opts, dijkstra.WithInfEdgeThreshold(closedAt))
			}
			p, err := a.coord.ShortestPath(args[0], args[1], opts...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !p.Found() {
				fmt.Fprintln(out, subtleStyle.Render(fmt.Sprintf("No route from %s to %s", args[0], args[1])))
				return nil
			}
			fmt.Fprintln(out, titleStyle.Render(strings.Join(p.Zones, " → ")))
			fmt.Fprintf(out, "cost %g, %d hops\n", p.Cost, p.Hops())

			return nil
		},
	}
	cmd.Flags().Float64Var(&closedAt, "closed-at", 0, "treat routes with weight at or above this value as closed")

	return cmd
}

func newEvacuateCmd(a *app) *cobra.Command {
	var (
		team  string
		begin int
	)
	cmd := &cobra.Command{
		Use:   "evacuate",
		Short: "Schedule every urgent zone and print the evacuation report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ids, err := a.coord.ScheduleUrgent(nil)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(ids) == 0 {
				fmt.Fprintln(out, subtleStyle.Render(fmt.Sprintf(
					"No zone has priority %d or higher", a.cfg.Evacuation.AutoScheduleThreshold)))
				return nil
			}
			for i := 0; i < begin && i < len(ids); i++ {
				if _, err := a.coord.BeginNext(team); err != nil {
					return err
				}
			}

			fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("Scheduled %d urgent zones", len(ids))))
			fmt.Fprint(out, a.coord.EvacuationReport())

			return nil
		},
	}
	cmd.Flags().StringVar(&team, "team", "", "rescue team for started evacuations (default evacuation.default_team)")
	cmd.Flags().IntVar(&begin, "begin", 0, "start this many evacuations right away")

	return cmd
}

func newDistributeCmd(a *app) *cobra.Command {
	var (
		weighted bool
		resource string
	)
	cmd := &cobra.Command{
		Use:   "distribute <quantity>",
		Short: "Split a quantity of supplies across all zones",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid quantity %q: %w", args[0], err)
			}
			var tree *distribution.Tree
			if resource != "" {
				tree, err = a.coord.DistributeResource(resource, qty, weighted)
			} else {
				tree, err = a.coord.Distribute(qty, weighted)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, tree.Render())
			fmt.Fprint(out, tree.Report())
			if resource != "" {
				for _, s := range a.coord.Resources() {
					if s.Name == resource {
						fmt.Fprintln(out, subtleStyle.Render(fmt.Sprintf("%s: %d of %d units left", s.Name, s.Available, s.Quantity)))
					}
				}
			}

			return nil
		},
	}
	cmd.Flags().BoolVar(&weighted, "weighted", false, "weight shares by zone priority")
	cmd.Flags().StringVar(&resource, "resource", "", "reserve the quantity from this resource's stock first")

	return cmd
}

func newResourcesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "resources",
		Short: "List resource stock and rescue teams",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, titleStyle.Render("Resources"))
			for _, s := range a.coord.Resources() {
				fmt.Fprintf(out, "  %-20s %6d available  %6d in use\n", s.Name, s.Available, s.Used)
			}
			fmt.Fprintln(out, titleStyle.Render("Teams"))
			for _, t := range a.coord.Teams() {
				fmt.Fprintf(out, "  %-20s leader %s, %d members\n", t.Name, t.Leader, len(t.Members))
			}

			return nil
		},
	}
}
