// Package document holds the caller-owned diagram state and its JSON file
// format. Waypoints and control points are written exactly as stored,
// relative to their connection's endpoints.
package document

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gesso/core"
	"gesso/history"
)

// Document is a diagram: shapes, connectors, groups and the current
// selection. It is a plain value owned by the caller; the geometry packages
// never hold on to it.
type Document struct {
	Shapes      []core.Shape      `json:"shapes"`
	Connections []core.Connection `json:"connections"`
	Groups      []core.Group      `json:"groups,omitempty"`
	Selection   []string          `json:"-"`
}

// Shape returns shape id. It makes a Document usable as an
// anchors.ShapeLookup.
func (d *Document) Shape(id string) (core.Shape, bool) {
	for _, s := range d.Shapes {
		if s.ID == id {
			return s, true
		}
	}
	return core.Shape{}, false
}

// Connection returns connection id.
func (d *Document) Connection(id string) (core.Connection, bool) {
	for _, c := range d.Connections {
		if c.ID == id {
			return c, true
		}
	}
	return core.Connection{}, false
}

// State snapshots the document for history and sessions.
func (d *Document) State() history.State {
	return history.State{
		Shapes:      d.Shapes,
		Connections: d.Connections,
		Groups:      d.Groups,
		Selection:   d.Selection,
	}.Clone()
}

// Apply replaces the document's collections with st in one step.
func (d *Document) Apply(st history.State) {
	st = st.Clone()
	d.Shapes, d.Connections, d.Groups, d.Selection = st.Shapes, st.Connections, st.Groups, st.Selection
}

// Decode reads a document from JSON.
func Decode(r io.Reader) (*Document, error) {
	var d Document
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("document: decode: %w", err)
	}
	return &d, nil
}

// Encode writes d as indented JSON.
func Encode(w io.Writer, d *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("document: encode: %w", err)
	}
	return nil
}

// Load reads a document file and fills in any missing ids.
func Load(path string, ids IDs) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("document: %w", err)
	}
	defer f.Close()

	d, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	EnsureIDs(d, ids)
	return d, nil
}

// Save writes d to path.
func Save(path string, d *Document) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("document: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("document: %w", err)
	}
	return nil
}
