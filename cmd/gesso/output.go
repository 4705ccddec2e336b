package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"gesso/core"
	"gesso/document"
)

// loadDocument reads and validates a diagram file.
func (a *app) loadDocument(path string) (*document.Document, error) {
	d, err := document.Load(path, document.DefaultIDs())
	if err != nil {
		return nil, err
	}
	if err := document.Validate(d); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	a.logger.Debug("loaded document", "path", path, "shapes", len(d.Shapes), "connections", len(d.Connections))
	return d, nil
}

// writeDocument saves d back to path when write is set, otherwise prints it.
func (a *app) writeDocument(w io.Writer, path string, d *document.Document, write bool) error {
	if !write {
		return document.Encode(w, d)
	}
	if err := document.Save(path, d); err != nil {
		return err
	}
	a.logger.Info("saved document", "path", path)
	return nil
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func formatPoint(p core.Point) string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

func parsePoint(xs, ys string) (core.Point, error) {
	x, err := strconv.ParseFloat(xs, 64)
	if err != nil {
		return core.Point{}, fmt.Errorf("invalid x %q: %w", xs, err)
	}
	y, err := strconv.ParseFloat(ys, 64)
	if err != nil {
		return core.Point{}, fmt.Errorf("invalid y %q: %w", ys, err)
	}
	return core.Point{X: x, Y: y}, nil
}
