// Package viz renders recorded trajectories in the terminal: braille-canvas
// 2-D animation, projected 3-D animation, and a live playback TUI.
package viz

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/san-kum/partikle/internal/particle"
	"github.com/san-kum/partikle/internal/sim"
)

// Viewport is the world-space window mapped onto the canvas.
type Viewport struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

// Number of standard deviations around the mean to keep in view. Outliers
// ejected from the system would otherwise zoom everything else into a dot.
const viewportDevs = 3

// FitViewport computes a square window over the ensemble positions,
// trimming particles farther than viewportDevs standard deviations from the
// mean and padding by particle radius.
func FitViewport(e *particle.Ensemble) Viewport {
	n := e.N
	meanX, meanY := 0.0, 0.0
	for i := 0; i < n; i++ {
		meanX += e.Positions[i*e.Dim]
		meanY += e.Positions[i*e.Dim+1]
	}
	meanX /= float64(n)
	meanY /= float64(n)

	varX, varY := 0.0, 0.0
	for i := 0; i < n; i++ {
		dx := e.Positions[i*e.Dim] - meanX
		dy := e.Positions[i*e.Dim+1] - meanY
		varX += dx * dx
		varY += dy * dy
	}
	sdX := math.Sqrt(varX / float64(n))
	sdY := math.Sqrt(varY / float64(n))

	vp := Viewport{
		MinX: math.Inf(1), MaxX: math.Inf(-1),
		MinY: math.Inf(1), MaxY: math.Inf(-1),
	}
	kept := 0
	for i := 0; i < n; i++ {
		x := e.Positions[i*e.Dim]
		y := e.Positions[i*e.Dim+1]
		if sdX > 0 && math.Abs(x-meanX) > viewportDevs*sdX {
			continue
		}
		if sdY > 0 && math.Abs(y-meanY) > viewportDevs*sdY {
			continue
		}
		r := e.Radii[i]
		vp.MinX = math.Min(vp.MinX, x-r)
		vp.MaxX = math.Max(vp.MaxX, x+r)
		vp.MinY = math.Min(vp.MinY, y-r)
		vp.MaxY = math.Max(vp.MaxY, y+r)
		kept++
	}
	if kept == 0 {
		return Viewport{MinX: -1, MaxX: 1, MinY: -1, MaxY: 1}
	}

	// Equal scale on both axes, centered on the smaller one.
	spanX := vp.MaxX - vp.MinX
	spanY := vp.MaxY - vp.MinY
	if spanX == 0 && spanY == 0 {
		spanX, spanY = 1, 1
	}
	if spanX >= spanY {
		mid := vp.MinY + spanY/2
		vp.MinY = mid - spanX/2
		vp.MaxY = mid + spanX/2
	} else {
		mid := vp.MinX + spanX/2
		vp.MinX = mid - spanY/2
		vp.MaxX = mid + spanY/2
	}
	return vp
}

// RenderFrame draws one 2-D ensemble state onto the canvas.
func RenderFrame(c *Canvas, e *particle.Ensemble, vp Viewport) {
	c.Clear()

	subW := float64(c.Width * 2)
	subH := float64(c.Height * 4)
	spanX := vp.MaxX - vp.MinX
	spanY := vp.MaxY - vp.MinY
	if spanX <= 0 || spanY <= 0 {
		return
	}

	for i := 0; i < e.N; i++ {
		x := e.Positions[i*e.Dim]
		y := e.Positions[i*e.Dim+1]

		sx := int((x - vp.MinX) / spanX * (subW - 1))
		// Canvas rows grow downward.
		sy := int((vp.MaxY - y) / spanY * (subH - 1))

		// Radius in sub-pixels, at least a point.
		pr := int(e.Radii[i] / spanX * subW)
		c.FillCircle(sx, sy, pr)
	}
}

// RenderTrajectory renders every snapshot of a 2-D trajectory to a frame
// string. The viewport is refit per frame, following the animation the
// particles make rather than a fixed window.
func RenderTrajectory(tr sim.Trajectory, width, height int) ([]string, error) {
	if len(tr) == 0 {
		return nil, fmt.Errorf("viz: empty trajectory")
	}
	if tr[0].Ensemble.Dim != 2 {
		return nil, fmt.Errorf("viz: 2-D rendering requires dim 2, got %d", tr[0].Ensemble.Dim)
	}

	c := NewCanvas(width, height)
	frames := make([]string, len(tr))
	for i, snap := range tr {
		RenderFrame(c, snap.Ensemble, FitViewport(snap.Ensemble))
		frames[i] = c.String()
	}
	return frames, nil
}

// WriteFilm dumps rendered frames to a plain-text file, separated by form
// feeds, as a portable stand-in for video export.
func WriteFilm(path string, frames []string) error {
	return os.WriteFile(path, []byte(strings.Join(frames, "\f")), 0644)
}
