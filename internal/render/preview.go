// Package render draws a flat front-view preview of the figure.
package render

import (
	"bytes"
	"errors"
	"image"
	"math"
	"sort"

	"github.com/fogleman/gg"

	"alcyxob/painrelief/internal/anatomy"
	"alcyxob/painrelief/internal/geometry"
)

const (
	background = "#f5f5f5"
	outline    = "#4a4a4a"

	// Points sampled on each cylinder cap before taking the hull.
	cylinderSegments = 16
	maxDimension     = 4096
)

var ErrInvalidSize = errors.New("invalid preview size")

type point struct{ X, Y float64 }

type shape struct {
	depth  float64
	color  string
	circle *circle
	hull   []point
}

type circle struct{ X, Y, R float64 }

// Image draws the visible parts of scene with their current materials,
// farthest first. The scene camera is resized to width x height.
func Image(scene *anatomy.Scene, width, height int) (image.Image, error) {
	if width <= 0 || height <= 0 || width > maxDimension || height > maxDimension {
		return nil, ErrInvalidSize
	}
	cam := scene.Camera().WithViewport(float64(width), float64(height))

	var shapes []shape
	for _, p := range scene.Parts() {
		if !p.Visible || p.Material.Opacity <= 0 {
			continue
		}
		if s, ok := project(scene, cam, p); ok {
			shapes = append(shapes, s)
		}
	}
	sort.SliceStable(shapes, func(i, j int) bool { return shapes[i].depth > shapes[j].depth })

	dc := gg.NewContext(width, height)
	dc.SetHexColor(background)
	dc.Clear()
	dc.SetLineWidth(1)
	for _, s := range shapes {
		if s.circle != nil {
			dc.DrawCircle(s.circle.X, s.circle.Y, s.circle.R)
		} else {
			dc.NewSubPath()
			for i, pt := range s.hull {
				if i == 0 {
					dc.MoveTo(pt.X, pt.Y)
				} else {
					dc.LineTo(pt.X, pt.Y)
				}
			}
			dc.ClosePath()
		}
		dc.SetHexColor(s.color)
		dc.FillPreserve()
		dc.SetHexColor(outline)
		dc.Stroke()
	}
	return dc.Image(), nil
}

// PNG is Image encoded as PNG.
func PNG(scene *anatomy.Scene, width, height int) ([]byte, error) {
	img, err := Image(scene, width, height)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := gg.NewContextForImage(img).EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func project(scene *anatomy.Scene, cam geometry.Camera, p anatomy.Part) (shape, bool) {
	center := scene.ToWorld(p, geometry.Vector3{})
	cx, cy, depth, err := cam.Project(center)
	if err != nil {
		return shape{}, false
	}
	s := shape{depth: depth, color: p.Material.Color}

	if p.Geometry.Shape == anatomy.ShapeSphere {
		s.circle = &circle{X: cx, Y: cy, R: p.Geometry.Radius * cam.PixelsPerUnit(depth)}
		return s, true
	}

	var pts []point
	for _, local := range outlinePoints(p.Geometry) {
		x, y, _, err := cam.Project(scene.ToWorld(p, local))
		if err != nil {
			return shape{}, false
		}
		pts = append(pts, point{x, y})
	}
	s.hull = convexHull(pts)
	return s, len(s.hull) >= 3
}

// outlinePoints samples the local silhouette of boxes and cylinders.
func outlinePoints(g anatomy.Geometry) []geometry.Vector3 {
	h := g.HalfExtents()
	if g.Shape == anatomy.ShapeCylinder {
		pts := make([]geometry.Vector3, 0, 2*cylinderSegments)
		for i := 0; i < cylinderSegments; i++ {
			a := 2 * math.Pi * float64(i) / cylinderSegments
			x, z := g.Radius*math.Cos(a), g.Radius*math.Sin(a)
			pts = append(pts, geometry.NewVector3(x, h.Y, z), geometry.NewVector3(x, -h.Y, z))
		}
		return pts
	}
	pts := make([]geometry.Vector3, 0, 8)
	for _, sx := range []float64{-1, 1} {
		for _, sy := range []float64{-1, 1} {
			for _, sz := range []float64{-1, 1} {
				pts = append(pts, geometry.NewVector3(sx*h.X, sy*h.Y, sz*h.Z))
			}
		}
	}
	return pts
}

// convexHull is Andrew's monotone chain; the result is counter-clockwise
// without the closing point.
func convexHull(pts []point) []point {
	if len(pts) < 3 {
		return pts
	}
	sorted := append([]point(nil), pts...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].X != sorted[j].X {
			return sorted[i].X < sorted[j].X
		}
		return sorted[i].Y < sorted[j].Y
	})
	cross := func(o, a, b point) float64 {
		return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
	}

	hull := make([]point, 0, 2*len(sorted))
	for _, p := range sorted {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(sorted) - 2; i >= 0; i-- {
		p := sorted[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	return hull[:len(hull)-1]
}
