package viz

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/partikle/internal/particle"
	"github.com/san-kum/partikle/internal/sim"
)

// Camera projects 3-D ensembles onto the 2-D canvas. Display only; 3-D
// animations are not exported to file.
type Camera struct {
	Eye    mgl64.Vec3
	Center mgl64.Vec3
	Up     mgl64.Vec3
	FOV    float64
}

// NewCamera places the eye on a diagonal at the given distance from the
// origin.
func NewCamera(distance float64) *Camera {
	d := distance / math.Sqrt(3)
	return &Camera{
		Eye:    mgl64.Vec3{d, d, d},
		Center: mgl64.Vec3{0, 0, 0},
		Up:     mgl64.Vec3{0, 1, 0},
		FOV:    math.Pi / 4,
	}
}

// Orbit rotates the eye around the vertical axis through the view center.
func (cam *Camera) Orbit(angle float64) {
	rel := cam.Eye.Sub(cam.Center)
	rot := mgl64.Rotate3DY(angle)
	cam.Eye = cam.Center.Add(rot.Mul3x1(rel))
}

// RenderFrame3D projects each particle through the camera and draws it.
func (cam *Camera) RenderFrame3D(c *Canvas, e *particle.Ensemble) {
	c.Clear()

	subW := c.Width * 2
	subH := c.Height * 4

	view := mgl64.LookAtV(cam.Eye, cam.Center, cam.Up)
	proj := mgl64.Perspective(cam.FOV, float64(subW)/float64(subH), 0.1, 1e6)

	for i := 0; i < e.N; i++ {
		p := mgl64.Vec3{
			e.Positions[i*3],
			e.Positions[i*3+1],
			e.Positions[i*3+2],
		}

		win := mgl64.Project(p, view, proj, 0, 0, subW, subH)
		if win.Z() < 0 || win.Z() > 1 {
			continue
		}

		// Window origin is bottom-left; canvas rows grow downward.
		sx := int(win.X())
		sy := subH - 1 - int(win.Y())

		dist := cam.Eye.Sub(p).Len()
		pr := 0
		if dist > 0 {
			pr = int(e.Radii[i] / dist * float64(subH))
		}
		c.FillCircle(sx, sy, pr)
	}
}

// RenderTrajectory3D renders a 3-D trajectory, auto-placing the camera to
// cover the full extent of the motion.
func RenderTrajectory3D(tr sim.Trajectory, width, height int) ([]string, error) {
	if len(tr) == 0 {
		return nil, fmt.Errorf("viz: empty trajectory")
	}
	if tr[0].Ensemble.Dim != 3 {
		return nil, fmt.Errorf("viz: 3-D rendering requires dim 3, got %d", tr[0].Ensemble.Dim)
	}

	extent := 0.0
	for _, snap := range tr {
		for _, v := range snap.Ensemble.Positions {
			extent = math.Max(extent, math.Abs(v))
		}
	}
	if extent == 0 {
		extent = 1
	}

	cam := NewCamera(extent * 3)
	c := NewCanvas(width, height)
	frames := make([]string, len(tr))
	for i, snap := range tr {
		cam.RenderFrame3D(c, snap.Ensemble)
		frames[i] = c.String()
	}
	return frames, nil
}
