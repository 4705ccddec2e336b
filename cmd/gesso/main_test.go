package main

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gesso/core"
	"gesso/document"
)

func writeTestDoc(t *testing.T) string {
	t.Helper()
	d := &document.Document{
		Shapes: []core.Shape{
			{ID: "a", X: 0, Y: 0, Width: 100, Height: 50},
			{ID: "b", X: 300, Y: 100, Width: 100, Height: 50},
		},
		Connections: []core.Connection{
			{
				ID:        "c",
				Start:     core.Attached("a", core.AnchorRight),
				End:       core.Attached("b", core.AnchorLeft),
				CurveType: core.CurveOrthogonal,
				Label:     "uses",
			},
		},
	}
	path := filepath.Join(t.TempDir(), "diagram.json")
	if err := document.Save(path, d); err != nil {
		t.Fatalf("save: %v", err)
	}
	return path
}

// run executes the CLI with an isolated config file and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cfg := filepath.Join(t.TempDir(), "config.toml")
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append([]string{"--config", cfg}, args...))
	err := root.Execute()
	return out.String(), err
}

func decodeOutput(t *testing.T, out string) *document.Document {
	t.Helper()
	d, err := document.Decode(strings.NewReader(out))
	if err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	return d
}

func TestRouteJSON(t *testing.T) {
	path := writeTestDoc(t)
	out, err := run(t, "route", path, "--json")
	if err != nil {
		t.Fatalf("route: %v", err)
	}

	var routes []routeInfo
	if err := json.Unmarshal([]byte(out), &routes); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, out)
	}
	if len(routes) != 1 {
		t.Fatalf("got %d routes, want 1", len(routes))
	}
	r := routes[0]
	if r.Strategy != "z-shape" {
		t.Errorf("strategy = %q, want z-shape", r.Strategy)
	}
	want := []core.Point{{X: 100, Y: 25}, {X: 200, Y: 25}, {X: 200, Y: 125}, {X: 300, Y: 125}}
	if len(r.Points) != len(want) {
		t.Fatalf("points = %v, want %v", r.Points, want)
	}
	for i := range want {
		if r.Points[i] != want[i] {
			t.Errorf("point %d = %v, want %v", i, r.Points[i], want[i])
		}
	}
	if r.Label == nil || *r.Label != (core.Point{X: 200, Y: 75}) {
		t.Errorf("label = %v, want (200,75)", r.Label)
	}
}

func TestRouteFilter(t *testing.T) {
	path := writeTestDoc(t)
	out, err := run(t, "route", path, "nope")
	if err != nil {
		t.Fatalf("route: %v", err)
	}
	if out != "" {
		t.Errorf("filtered route printed %q", out)
	}
}

func TestHit(t *testing.T) {
	path := writeTestDoc(t)

	tests := []struct {
		name       string
		args       []string
		shape      string
		connection string
	}{
		{"shape", []string{path, "50", "25"}, "a", ""},
		{"connector", []string{path, "205", "75"}, "", "c"},
		{"zoomed out of reach", []string{"--zoom", "2", path, "205", "75"}, "", ""},
		{"nothing", []string{path, "600", "600"}, "", ""},
		{"negative coordinates", []string{path, "-50", "-20"}, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, append([]string{"hit", "--json"}, tt.args...)...)
			if err != nil {
				t.Fatalf("hit: %v", err)
			}
			var res hitResult
			if err := json.Unmarshal([]byte(out), &res); err != nil {
				t.Fatalf("unmarshal: %v\n%s", err, out)
			}
			if res.Shape != tt.shape || res.Connection != tt.connection {
				t.Errorf("hit = shape %q connection %q, want %q %q", res.Shape, res.Connection, tt.shape, tt.connection)
			}
		})
	}
}

func TestResizeWrite(t *testing.T) {
	path := writeTestDoc(t)
	if _, err := run(t, "resize", "-w", path, "a", "se", "40", "20"); err != nil {
		t.Fatalf("resize: %v", err)
	}
	d, err := document.Load(path, document.IDs{})
	if err != nil {
		t.Fatal(err)
	}
	a, _ := d.Shape("a")
	if a.X != 0 || a.Y != 0 || a.Width != 140 || a.Height != 70 {
		t.Errorf("a = %+v, want 140x70 at origin", a)
	}
}

func TestResizeMinSize(t *testing.T) {
	path := writeTestDoc(t)
	out, err := run(t, "resize", path, "a", "se", "-500", "-500")
	if err != nil {
		t.Fatalf("resize: %v", err)
	}
	a, _ := decodeOutput(t, out).Shape("a")
	if a.Width != 10 || a.Height != 10 || a.X != 0 || a.Y != 0 {
		t.Errorf("a = %+v, want clamped to 10x10 at origin", a)
	}
}

func TestRotate(t *testing.T) {
	path := writeTestDoc(t)

	out, err := run(t, "rotate", path, "30", "a")
	if err != nil {
		t.Fatalf("rotate: %v", err)
	}
	a, _ := decodeOutput(t, out).Shape("a")
	if math.Abs(a.Rotation-30) > 1e-9 {
		t.Errorf("rotation = %v, want 30", a.Rotation)
	}

	out, err = run(t, "rotate", "--snap", path, "37", "a")
	if err != nil {
		t.Fatalf("rotate --snap: %v", err)
	}
	a, _ = decodeOutput(t, out).Shape("a")
	if math.Abs(a.Rotation-30) > 1e-9 {
		t.Errorf("snapped rotation = %v, want 30", a.Rotation)
	}
}

func TestMoveAndAlign(t *testing.T) {
	path := writeTestDoc(t)

	if _, err := run(t, "move", "-w", path, "10", "5", "a", "b"); err != nil {
		t.Fatalf("move: %v", err)
	}
	d, err := document.Load(path, document.IDs{})
	if err != nil {
		t.Fatal(err)
	}
	a, _ := d.Shape("a")
	b, _ := d.Shape("b")
	if a.X != 10 || a.Y != 5 || b.X != 310 || b.Y != 105 {
		t.Errorf("after move a=(%v,%v) b=(%v,%v)", a.X, a.Y, b.X, b.Y)
	}

	out, err := run(t, "align", path, "top", "a", "b")
	if err != nil {
		t.Fatalf("align: %v", err)
	}
	b, _ = decodeOutput(t, out).Shape("b")
	if b.Y != 5 {
		t.Errorf("aligned b.Y = %v, want 5", b.Y)
	}
}

func TestNegativeArguments(t *testing.T) {
	path := writeTestDoc(t)

	out, err := run(t, "move", path, "-10", "-5", "a")
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if a, _ := decodeOutput(t, out).Shape("a"); a.X != -10 || a.Y != -5 {
		t.Errorf("a = (%v,%v), want (-10,-5)", a.X, a.Y)
	}

	out, err = run(t, "rotate", path, "-30", "a")
	if err != nil {
		t.Fatalf("rotate: %v", err)
	}
	if a, _ := decodeOutput(t, out).Shape("a"); math.Abs(a.Rotation-330) > 1e-9 {
		t.Errorf("rotation = %v, want 330", a.Rotation)
	}

	out, err = run(t, "resize", "--from-center", path, "a", "e", "-20", "0")
	if err != nil {
		t.Fatalf("resize: %v", err)
	}
	if a, _ := decodeOutput(t, out).Shape("a"); a.X != 20 || a.Width != 60 {
		t.Errorf("a = %+v, want x 20 width 60", a)
	}
}

func TestArgumentErrors(t *testing.T) {
	path := writeTestDoc(t)
	tests := []struct {
		name string
		args []string
	}{
		{"unknown shape", []string{"move", path, "1", "1", "zzz"}},
		{"bad handle", []string{"resize", path, "a", "middle", "1", "1"}},
		{"bad number", []string{"hit", path, "x", "1"}},
		{"bad edge", []string{"align", path, "diagonal", "a", "b"}},
		{"bad axis", []string{"distribute", path, "z", "a", "b", "a"}},
		{"missing file", []string{"route", filepath.Join(t.TempDir(), "none.json")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestValidateRejectsDanglingConnection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	data := `{"shapes":[{"id":"a","x":0,"y":0,"width":10,"height":10}],
"connections":[{"id":"c","start":{"shapeId":"a","anchor":"right"},"end":{"shapeId":"ghost","anchor":"left"}}]}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := run(t, "validate", path)
	if err == nil || !strings.Contains(err.Error(), "ghost") {
		t.Errorf("validate error = %v, want mention of ghost", err)
	}
}

func TestConfigInitAndShow(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "gesso", "config.toml")

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"--config", cfg, "config", "init"})
	if err := root.Execute(); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if _, err := os.Stat(cfg); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	root = newRootCmd()
	out.Reset()
	root.SetOut(&out)
	root.SetArgs([]string{"--config", cfg, "config", "init"})
	if err := root.Execute(); err == nil {
		t.Error("second init without --force should fail")
	}

	root = newRootCmd()
	out.Reset()
	root.SetOut(&out)
	root.SetArgs([]string{"--config", cfg, "--log-level", "debug", "config", "show"})
	if err := root.Execute(); err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out.String(), `log_level = "debug"`) {
		t.Errorf("show output missing log level override:\n%s", out.String())
	}
}
