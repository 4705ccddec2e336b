package main

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"gesso/anchors"
	"gesso/core"
	"gesso/paths"
)

type routeInfo struct {
	ID          string         `json:"id"`
	Curve       core.CurveType `json:"curve"`
	Strategy    string         `json:"strategy,omitempty"`
	StartAnchor core.Anchor    `json:"startAnchor"`
	EndAnchor   core.Anchor    `json:"endAnchor"`
	Points      []core.Point   `json:"points"`
	Label       *core.Point    `json:"label,omitempty"`
	Bounds      core.Bounds    `json:"bounds"`
}

func newRouteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "route <file> [connection-id...]",
		Short:   "Print the resolved geometry of connectors",
		GroupID: "geometry",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.loadDocument(args[0])
			if err != nil {
				return err
			}
			only := args[1:]

			var routes []routeInfo
			for _, c := range d.Connections {
				if len(only) > 0 && !slices.Contains(only, c.ID) {
					continue
				}
				r, ok := a.route(c, d)
				if !ok {
					a.logger.Warn("skipping connection with missing shape", "connection", c.ID)
					continue
				}
				routes = append(routes, r)
			}

			out := cmd.OutOrStdout()
			if a.jsonOutput {
				return printJSON(out, routes)
			}
			for _, r := range routes {
				fmt.Fprintf(out, "%s  %s", r.ID, r.Curve)
				if r.Strategy != "" {
					fmt.Fprintf(out, " (%s)", r.Strategy)
				}
				fmt.Fprintf(out, "  %s -> %s\n", r.StartAnchor, r.EndAnchor)
				for _, p := range r.Points {
					fmt.Fprintf(out, "  %s\n", formatPoint(p))
				}
				if r.Label != nil {
					fmt.Fprintf(out, "  label at %s\n", formatPoint(*r.Label))
				}
			}
			return nil
		},
	}
}

func (a *app) route(c core.Connection, lookup anchors.ShapeLookup) (routeInfo, bool) {
	curve, ep, ok := paths.ForConnection(c, lookup)
	if !ok {
		return routeInfo{}, false
	}
	if b, isBezier := curve.(paths.BezierPath); isBezier {
		b.Samples = a.cfg.BezierSamples
		curve = b
	}

	r := routeInfo{
		ID:          c.ID,
		Curve:       c.Curve(),
		StartAnchor: ep.StartAnchor,
		EndAnchor:   ep.EndAnchor,
		Points:      curve.Points(),
		Bounds:      curve.Bounds(),
	}
	if c.Curve() == core.CurveOrthogonal {
		r.Strategy = paths.Orthogonal(ep.Start, ep.StartAnchor, ep.End, ep.EndAnchor).Strategy.String()
	}
	if c.Label != "" {
		p := paths.LabelPoint(curve, c)
		r.Label = &p
	}
	return r, true
}
