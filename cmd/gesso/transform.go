package main

import (
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"gesso/core"
	"gesso/document"
	"gesso/geometry"
	"gesso/history"
	"gesso/idgen"
	"gesso/session"
	"gesso/transform"
)

// flagsFirst is appended to the help of commands that take signed numbers.
// Flag parsing stops at the first argument so "-30" is read as a number.
const flagsFirst = "Flags must come before the file argument."

// rotateArm is how far above the pivot the synthetic rotation drag starts.
const rotateArm = 100

// drag replays a pointer gesture from spec.Start to end through a session
// and applies the result to d.
func (a *app) drag(d *document.Document, spec session.Spec, end core.Point, mods session.Modifiers) (history.Entry, bool, error) {
	s, err := session.Begin(d.State(), spec, nil, session.Options{
		MinSize:       a.cfg.MinSize,
		SnapIncrement: a.cfg.SnapIncrement,
		SnapRadius:    a.cfg.AnchorSnapRadius,
		NewID:         idgen.Func(idgen.PrefixEntry),
		Logger:        a.logger,
	})
	if err != nil {
		return history.Entry{}, false, err
	}
	s.Update(end, mods)
	st, entry, ok := s.End(end)
	d.Apply(st)
	if ok {
		a.logger.Info("applied change", "type", entry.Type, "description", entry.Description)
	}
	return entry, ok, nil
}

func shapesByID(d *document.Document, ids []string) ([]core.Shape, error) {
	var out []core.Shape
	for _, id := range ids {
		s, ok := d.Shape(id)
		if !ok {
			return nil, fmt.Errorf("no shape %q", id)
		}
		out = append(out, s)
	}
	return out, nil
}

func newMoveCmd(a *app) *cobra.Command {
	var (
		write     bool
		constrain bool
	)
	cmd := &cobra.Command{
		Use:     "move [flags] <file> <dx> <dy> <shape-id...>",
		Short:   "Move shapes by a delta",
		Long:    "Move shapes by a delta. " + flagsFirst,
		GroupID: "edit",
		Args:    cobra.MinimumNArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.loadDocument(args[0])
			if err != nil {
				return err
			}
			delta, err := parsePoint(args[1], args[2])
			if err != nil {
				return err
			}
			if _, err := shapesByID(d, args[3:]); err != nil {
				return err
			}
			spec := session.Spec{Kind: session.KindMove, TargetIDs: args[3:]}
			if _, _, err := a.drag(d, spec, delta, session.Modifiers{Shift: constrain}); err != nil {
				return err
			}
			return a.writeDocument(cmd.OutOrStdout(), args[0], d, write)
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the result back to the file")
	cmd.Flags().BoolVarP(&constrain, "constrain", "s", false, "constrain movement to the dominant axis")
	cmd.Flags().SetInterspersed(false)
	return cmd
}

func newResizeCmd(a *app) *cobra.Command {
	var (
		write      bool
		keepAspect bool
		fromCenter bool
	)
	cmd := &cobra.Command{
		Use:   "resize [flags] <file> <shape-id> <handle> <dx> <dy>",
		Short: "Drag a resize handle (nw, n, ne, e, se, s, sw, w) by a delta",
		Long: `Drag a resize handle by a delta. The opposite edge or corner stays fixed
unless --from-center is given. Sizes never drop below min_size.

` + flagsFirst,
		GroupID: "edit",
		Args:    cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.loadDocument(args[0])
			if err != nil {
				return err
			}
			s, ok := d.Shape(args[1])
			if !ok {
				return fmt.Errorf("no shape %q", args[1])
			}
			h, err := core.ParseHandle(args[2])
			if err != nil {
				return err
			}
			delta, err := parsePoint(args[3], args[4])
			if err != nil {
				return err
			}

			start := h.Position(s.Bounds())
			spec := session.Spec{Kind: session.KindResize, TargetIDs: []string{s.ID}, Start: start, Handle: h}
			mods := session.Modifiers{Shift: keepAspect, Alt: fromCenter}
			if _, _, err := a.drag(d, spec, start.Add(delta), mods); err != nil {
				return err
			}
			return a.writeDocument(cmd.OutOrStdout(), args[0], d, write)
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the result back to the file")
	cmd.Flags().BoolVar(&keepAspect, "keep-aspect", false, "keep the starting aspect ratio")
	cmd.Flags().BoolVar(&fromCenter, "from-center", false, "resize symmetrically about the center")
	cmd.Flags().SetInterspersed(false)
	return cmd
}

func newRotateCmd(a *app) *cobra.Command {
	var (
		write bool
		snap  bool
	)
	cmd := &cobra.Command{
		Use:   "rotate [flags] <file> <degrees> <shape-id...>",
		Short: "Rotate a shape about its center, or several about their common center",
		Long: `Rotate a shape about its center, or several about their common center.
Positive angles turn clockwise. ` + flagsFirst,
		GroupID: "edit",
		Args:    cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.loadDocument(args[0])
			if err != nil {
				return err
			}
			deg, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid angle %q: %w", args[1], err)
			}
			members, err := shapesByID(d, args[2:])
			if err != nil {
				return err
			}

			kind := session.KindRotate
			pivot := members[0].Center()
			if len(members) > 1 {
				kind = session.KindGroupRotate
				pivot = transform.GroupBounds(members).Center()
			}
			start := pivot.Add(core.Point{Y: -rotateArm})
			end := geometry.RotatePoint(start, pivot, deg)

			spec := session.Spec{Kind: kind, TargetIDs: args[2:], Start: start}
			if _, _, err := a.drag(d, spec, end, session.Modifiers{Shift: snap}); err != nil {
				return err
			}
			return a.writeDocument(cmd.OutOrStdout(), args[0], d, write)
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the result back to the file")
	cmd.Flags().BoolVar(&snap, "snap", false, "snap the rotation to the configured increment")
	cmd.Flags().SetInterspersed(false)
	return cmd
}

// arrange applies an align or distribute result to d and logs the entry.
func (a *app) arrange(d *document.Document, typ history.EntryType, desc string, updated []core.Shape) {
	before := d.State()
	for i, s := range d.Shapes {
		if j := slices.IndexFunc(updated, func(u core.Shape) bool { return u.ID == s.ID }); j >= 0 {
			d.Shapes[i] = updated[j]
		}
	}
	if entry, ok := history.NewEntry(idgen.Func(idgen.PrefixEntry)(), typ, desc, before, d.State(), time.Now()); ok {
		a.logger.Info("applied change", "type", entry.Type, "description", entry.Description)
	}
}

func newAlignCmd(a *app) *cobra.Command {
	var write bool
	cmd := &cobra.Command{
		Use:     "align <file> <left|center|right|top|middle|bottom> <shape-id...>",
		Short:   "Align shapes to an edge of their combined bounds",
		GroupID: "edit",
		Args:    cobra.MinimumNArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			edge := transform.AlignEdge(args[1])
			switch edge {
			case transform.AlignLeft, transform.AlignCenter, transform.AlignRight,
				transform.AlignTop, transform.AlignMiddle, transform.AlignBottom:
			default:
				return fmt.Errorf("unknown edge %q", args[1])
			}
			d, err := a.loadDocument(args[0])
			if err != nil {
				return err
			}
			members, err := shapesByID(d, args[2:])
			if err != nil {
				return err
			}
			a.arrange(d, history.EntryAlign, "align "+string(edge), transform.Align(members, edge))
			return a.writeDocument(cmd.OutOrStdout(), args[0], d, write)
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the result back to the file")
	return cmd
}

func newDistributeCmd(a *app) *cobra.Command {
	var write bool
	cmd := &cobra.Command{
		Use:     "distribute <file> <horizontal|vertical> <shape-id...>",
		Short:   "Space shapes evenly between the outermost two",
		GroupID: "edit",
		Args:    cobra.MinimumNArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			axis := transform.Axis(args[1])
			if axis != transform.AxisHorizontal && axis != transform.AxisVertical {
				return fmt.Errorf("unknown axis %q", args[1])
			}
			d, err := a.loadDocument(args[0])
			if err != nil {
				return err
			}
			members, err := shapesByID(d, args[2:])
			if err != nil {
				return err
			}
			a.arrange(d, history.EntryDistribute, "distribute "+string(axis), transform.Distribute(members, axis))
			return a.writeDocument(cmd.OutOrStdout(), args[0], d, write)
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the result back to the file")
	return cmd
}
