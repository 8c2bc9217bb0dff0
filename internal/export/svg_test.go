package export

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/demonsim/internal/demon"
	"github.com/san-kum/demonsim/internal/sim"
	"github.com/san-kum/demonsim/internal/viz"
)

var _ sim.Observer = (*Tracer)(nil)

func TestCanvasToSVG(t *testing.T) {
	c := viz.NewCanvas(2, 1)
	c.SetTagged(0, 0, viz.TagLeft)
	c.Set(3, 3)

	svg := CanvasToSVG(c, viz.ThemeClassic, 4)
	if n := strings.Count(svg, "<circle"); n != 2 {
		t.Errorf("expected 2 dots, got %d", n)
	}
	if !strings.Contains(svg, string(viz.ThemeClassic.Left)) {
		t.Error("left dot should use the left colour")
	}
	if CanvasToSVG(nil, viz.ThemeClassic, 1) != "" {
		t.Error("nil canvas should render nothing")
	}
}

func TestWriteGameSVG(t *testing.T) {
	g, err := demon.NewGame(demon.DefaultOptions(), rand.New(rand.NewSource(3)))
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	trail := []mgl64.Vec2{{0.1, 0.1}, {0.2, 0.2}, {0.3, 0.1}}
	if err := WriteGameSVG(&buf, g, viz.ThemeClassic, 400, trail); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if n := strings.Count(out, "<rect"); n != 7 {
		t.Errorf("expected background plus 6 walls, got %d rects", n)
	}
	if n := strings.Count(out, "<circle"); n != 30 {
		t.Errorf("expected 30 balls, got %d", n)
	}
	if !strings.Contains(out, "M40.0,40.0 L80.0,80.0 L120.0,40.0") {
		t.Error("trail path missing")
	}
}

func TestTracer(t *testing.T) {
	g, err := demon.NewGame(demon.DefaultOptions(), rand.New(rand.NewSource(4)))
	if err != nil {
		t.Fatal(err)
	}

	tr := NewTracer(g.Left(), 0, 10)
	for i := 0; i < 25; i++ {
		tr.OnStep(g.World(), 0)
		if err := g.World().Step(5e-5); err != nil {
			t.Fatal(err)
		}
	}

	if n := len(tr.Path()); n != 3 {
		t.Errorf("expected 3 samples, got %d", n)
	}
}
