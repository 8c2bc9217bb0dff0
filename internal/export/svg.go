package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/demonsim/internal/demon"
	"github.com/san-kum/demonsim/internal/physics"
	"github.com/san-kum/demonsim/internal/viz"
)

// CanvasToSVG converts a Braille canvas to SVG, colouring dots by the tag
// of their cell.
func CanvasToSVG(canvas *viz.Canvas, theme viz.Theme, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2   // 2 sub-pixels per char
	height := float64(canvas.Height) * scale * 4 // 4 sub-pixels per char

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	// Braille dot-to-bit mapping
	pixelMap := [4][2]int{
		{0x01, 0x08},
		{0x02, 0x10},
		{0x04, 0x20},
		{0x40, 0x80},
	}

	dotRadius := scale * 0.4

	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			r := canvas.Grid[row][col]
			if r <= 0x2800 {
				continue
			}
			pattern := int(r - 0x2800)
			fill := theme.Color(canvas.Tags[row][col])

			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4

			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] != 0 {
						cx := baseX + float64(dx)*scale + scale/2
						cy := baseY + float64(dy)*scale + scale/2
						fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\" fill=\"%s\"/>\n", cx, cy, dotRadius, fill)
					}
				}
			}
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// WriteGameSVG draws the current geometry of g as vector shapes on a
// size x size square. Each trail is drawn as a polyline under the balls.
func WriteGameSVG(w io.Writer, g *demon.Game, theme viz.Theme, size int, trails ...[]mgl64.Vec2) error {
	s := float64(size)
	var sb strings.Builder

	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, size, size, size, size)

	walls := g.Walls()
	upper, lower := -1, -1
	if gate := g.Gate(); gate != nil {
		upper, lower = gate.Indices()
	}
	for i := 0; i < walls.Len(); i++ {
		tl, br := walls.Corners(i)
		fill := theme.Wall
		if i == upper || i == lower {
			fill = theme.Gate
		}
		fmt.Fprintf(&sb, "<rect x=\"%.2f\" y=\"%.2f\" width=\"%.2f\" height=\"%.2f\" fill=\"%s\"/>\n",
			tl[0]*s, tl[1]*s, (br[0]-tl[0])*s, (br[1]-tl[1])*s, fill)
	}

	for _, trail := range trails {
		writePath(&sb, trail, s, string(theme.Muted))
	}

	writeCircles(&sb, g.Left(), s, string(theme.Left))
	writeCircles(&sb, g.Right(), s, string(theme.Right))

	sb.WriteString("</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

func writeCircles(sb *strings.Builder, c *physics.Circles, s float64, fill string) {
	fmt.Fprintf(sb, "<g fill=\"%s\">\n", fill)
	for _, p := range c.Positions() {
		fmt.Fprintf(sb, "<circle cx=\"%.2f\" cy=\"%.2f\" r=\"%.2f\"/>\n", p[0]*s, p[1]*s, c.Radius()*s)
	}
	sb.WriteString("</g>\n")
}

func writePath(sb *strings.Builder, points []mgl64.Vec2, s float64, stroke string) {
	if len(points) < 2 {
		return
	}
	fmt.Fprintf(sb, `<path fill="none" stroke="%s" stroke-width="1" d="M`, stroke)
	for i, p := range points {
		if i > 0 {
			sb.WriteString(" L")
		}
		fmt.Fprintf(sb, "%.1f,%.1f", p[0]*s, p[1]*s)
	}
	sb.WriteString("\"/>\n")
}
