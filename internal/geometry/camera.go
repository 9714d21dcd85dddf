package geometry

import (
	"errors"
	"math"
)

var (
	// ErrBehindCamera is returned by Project for points that cannot be seen.
	ErrBehindCamera = errors.New("point is behind the camera")
	// ErrDegenerateCamera is returned when a position and target do not
	// define a view direction.
	ErrDegenerateCamera = errors.New("camera position and target do not define a view")
)

// Camera is a perspective camera looking from Position at Target. Screen
// coordinates are pixels with the origin at the top-left of the viewport.
type Camera struct {
	Position Vector3 `json:"position"`
	Target   Vector3 `json:"target"`
	Up       Vector3 `json:"up"`
	FOV      float64 `json:"fov"`    // Vertical field of view in radians
	Width    float64 `json:"width"`  // Viewport width in pixels
	Height   float64 `json:"height"` // Viewport height in pixels
}

// NewCamera creates a camera with a 45 degree vertical field of view.
func NewCamera(position, target Vector3, width, height float64) Camera {
	return Camera{
		Position: position,
		Target:   target,
		Up:       NewVector3(0, 1, 0),
		FOV:      math.Pi / 4,
		Width:    width,
		Height:   height,
	}
}

// WithViewport returns a copy sized to the given viewport.
func (c Camera) WithViewport(width, height float64) Camera {
	c.Width = width
	c.Height = height
	return c
}

// LookAt returns a copy moved to position and aimed at target. The view
// direction may not be parallel to Up.
func (c Camera) LookAt(position, target Vector3) (Camera, error) {
	forward := target.Sub(position)
	length := forward.Length()
	if length <= epsilon || forward.Cross(c.Up).Length() <= epsilon*length {
		return c, ErrDegenerateCamera
	}
	c.Position = position
	c.Target = target
	return c, nil
}

func (c Camera) basis() (forward, right, up Vector3) {
	forward = c.Target.Sub(c.Position).Normalize()
	right = forward.Cross(c.Up).Normalize()
	up = right.Cross(forward)
	return
}

func (c Camera) aspect() float64 {
	if c.Height <= 0 {
		return 1
	}
	return c.Width / c.Height
}

// ScreenToRay converts a pixel position into a world-space pick ray.
func (c Camera) ScreenToRay(x, y float64) Ray {
	forward, right, up := c.basis()
	ndcX := 2*x/c.Width - 1
	ndcY := 1 - 2*y/c.Height
	tanHalf := math.Tan(c.FOV / 2)

	dir := forward.
		Add(right.Mul(ndcX * tanHalf * c.aspect())).
		Add(up.Mul(ndcY * tanHalf))
	return NewRay(c.Position, dir)
}

// Project maps a world point to pixel coordinates. depth is the distance
// along the view axis and is used for painter's ordering.
func (c Camera) Project(p Vector3) (x, y, depth float64, err error) {
	forward, right, up := c.basis()
	v := p.Sub(c.Position)
	depth = v.Dot(forward)
	if depth <= epsilon {
		return 0, 0, depth, ErrBehindCamera
	}
	tanHalf := math.Tan(c.FOV / 2)
	ndcX := v.Dot(right) / (depth * tanHalf * c.aspect())
	ndcY := v.Dot(up) / (depth * tanHalf)
	x = (ndcX + 1) / 2 * c.Width
	y = (1 - ndcY) / 2 * c.Height
	return x, y, depth, nil
}

// PixelsPerUnit returns the on-screen size of one world unit at depth.
func (c Camera) PixelsPerUnit(depth float64) float64 {
	if depth <= epsilon {
		return 0
	}
	return c.Height / (2 * depth * math.Tan(c.FOV/2))
}
