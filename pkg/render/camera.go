package render

import (
	"errors"
	"fmt"

	"github.com/taigrr/tinyraster/pkg/math3d"
)

// ErrDegenerateCamera is returned when eye and center coincide or up is
// parallel to the viewing direction, leaving no orthonormal basis.
var ErrDegenerateCamera = errors.New("degenerate camera")

const basisEpsilon = 1e-9

// Camera looks from Eye towards Center with Up roughly overhead.
type Camera struct {
	Eye    math3d.Vec3
	Center math3d.Vec3
	Up     math3d.Vec3
}

// NewCamera creates a validated camera.
func NewCamera(eye, center, up math3d.Vec3) (*Camera, error) {
	c := &Camera{Eye: eye, Center: center, Up: up}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks that LookAt can build an orthonormal basis.
func (c *Camera) Validate() error {
	z := c.Eye.Sub(c.Center)
	if z.Len() < basisEpsilon {
		return fmt.Errorf("%w: eye %v equals center", ErrDegenerateCamera, c.Eye)
	}
	if c.Up.Cross(z).Len() <= basisEpsilon*c.Up.Len()*z.Len() {
		return fmt.Errorf("%w: up %v is parallel to eye-center", ErrDegenerateCamera, c.Up)
	}
	return nil
}

// Distance returns |eye - center|.
func (c *Camera) Distance() float64 {
	return c.Eye.Sub(c.Center).Len()
}

// View returns the view matrix.
func (c *Camera) View() math3d.Mat4 {
	return LookAt(c.Eye, c.Center, c.Up)
}

// Projection returns the projection matrix.
func (c *Camera) Projection() math3d.Mat4 {
	return Projection(c.Eye, c.Center)
}

// LookAt builds the view matrix. Its rotation rows are the basis
//
//	z = normalize(eye - center)
//	x = normalize(up × z)
//	y = normalize(z × x)
//
// and its translation column is -center. The caller must ensure up is not
// parallel to eye - center (see Camera.Validate).
func LookAt(eye, center, up math3d.Vec3) math3d.Mat4 {
	z := eye.Sub(center).Normalize()
	x := up.Cross(z).Normalize()
	y := z.Cross(x).Normalize()

	m := math3d.Identity()
	for i := range 3 {
		m.Set(0, i, x.Index(i))
		m.Set(1, i, y.Index(i))
		m.Set(2, i, z.Index(i))
		m.Set(i, 3, -center.Index(i))
	}
	return m
}

// Projection returns the identity with entry (3, 2) set to -1/|eye-center|,
// which folds the perspective divide into w.
func Projection(eye, center math3d.Vec3) math3d.Mat4 {
	m := math3d.Identity()
	m.Set(3, 2, -1/eye.Sub(center).Len())
	return m
}

// Viewport maps the cube [-1,1]³ onto [x, x+w] × [y, y+h] × [0, depth].
func Viewport(x, y, w, h, depth int) math3d.Mat4 {
	m := math3d.Identity()
	m.Set(0, 3, float64(x)+float64(w)/2)
	m.Set(1, 3, float64(y)+float64(h)/2)
	m.Set(2, 3, float64(depth)/2)

	m.Set(0, 0, float64(w)/2)
	m.Set(1, 1, float64(h)/2)
	m.Set(2, 2, float64(depth)/2)
	return m
}
