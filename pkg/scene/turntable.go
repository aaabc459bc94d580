package scene

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/harmonica"

	"github.com/taigrr/tinyraster/pkg/math3d"
)

// Turntable spring parameters. Frequency 6 with critical damping settles
// within about one second of spring time without overshoot.
const (
	turntableFrequency = 6.0
	turntableDamping   = 1.0
)

// Turntable orbits the eye around the center about the world Y axis with a
// spring easing, so the motion starts slowly and settles at the sweep angle.
type Turntable struct {
	Frames int
	Sweep  float64 // Radians
}

// NewTurntable creates a turntable from its config.
func NewTurntable(c TurntableConfig) Turntable {
	return Turntable{
		Frames: max(1, c.Frames),
		Sweep:  c.Sweep * math.Pi / 180,
	}
}

// Angles returns the orbit angle for each frame. Frame 0 is always 0. The
// spring is stepped once per frame with a time step of 1/Frames seconds.
func (t Turntable) Angles() []float64 {
	angles := make([]float64, t.Frames)
	if t.Frames == 1 {
		return angles
	}

	spring := harmonica.NewSpring(harmonica.FPS(t.Frames), turntableFrequency, turntableDamping)
	var pos, vel float64
	for i := 1; i < t.Frames; i++ {
		pos, vel = spring.Update(pos, vel, t.Sweep)
		angles[i] = pos
	}
	return angles
}

// Eye rotates eye about center by angle radians around the Y axis.
func Eye(eye, center math3d.Vec3, angle float64) math3d.Vec3 {
	return math3d.RotateY(angle).MulVec3(eye.Sub(center)).Add(center)
}

// FramePath returns path unchanged for single-frame renders and inserts a
// _NNN frame number before the extension otherwise.
func FramePath(path string, frame, frames int) string {
	if frames <= 1 || path == "" {
		return path
	}
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s_%03d%s", strings.TrimSuffix(path, ext), frame, ext)
}
