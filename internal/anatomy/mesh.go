package anatomy

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"sort"

	"alcyxob/painrelief/internal/domain"
	"alcyxob/painrelief/internal/geometry"

	"gopkg.in/yaml.v3"
)

//go:embed pose.yaml
var defaultPose []byte

// Shape names the primitive solid a part is built from.
type Shape string

const (
	ShapeSphere   Shape = "sphere"
	ShapeBox      Shape = "box"
	ShapeCylinder Shape = "cylinder"
)

// MaterialGroup selects the default material of a part.
type MaterialGroup string

const (
	GroupHead  MaterialGroup = "head"
	GroupTorso MaterialGroup = "torso"
	GroupArms  MaterialGroup = "arms"
	GroupLegs  MaterialGroup = "legs"
	GroupProp  MaterialGroup = "prop"
)

// Handle is an opaque reference to a part inside a Scene.
type Handle int

// NoHandle means "no part", e.g. nothing hovered.
const NoHandle Handle = -1

var (
	ErrInvalidPose     = errors.New("invalid pose table")
	ErrDuplicateRegion = errors.New("region appears more than once in pose table")
)

// Geometry describes a primitive in its local frame, centred on the origin.
type Geometry struct {
	Shape  Shape            `json:"shape"`
	Radius float64          `json:"radius,omitempty"`
	Height float64          `json:"height,omitempty"` // cylinder length along local Y
	Size   geometry.Vector3 `json:"size,omitempty"`   // box edge lengths
}

// HalfExtents returns the local axis-aligned half size of the primitive.
func (g Geometry) HalfExtents() geometry.Vector3 {
	switch g.Shape {
	case ShapeSphere:
		return geometry.NewVector3(g.Radius, g.Radius, g.Radius)
	case ShapeCylinder:
		return geometry.NewVector3(g.Radius, g.Height/2, g.Radius)
	default:
		return g.Size.Mul(0.5)
	}
}

func (g Geometry) intersect(local geometry.Ray) (float64, bool) {
	switch g.Shape {
	case ShapeSphere:
		return geometry.IntersectSphere(local, g.Radius)
	case ShapeCylinder:
		return geometry.IntersectCylinder(local, g.Radius, g.Height/2)
	default:
		return geometry.IntersectBox(local, g.Size.Mul(0.5))
	}
}

// Part is one named solid of the figure. Region is empty for props.
type Part struct {
	Handle   Handle            `json:"handle"`
	Name     string            `json:"name"`
	Region   domain.BodyRegion `json:"region,omitempty"`
	Geometry Geometry          `json:"geometry"`
	Position geometry.Vector3  `json:"position"`
	Rotation geometry.Euler    `json:"rotation"`
	Group    MaterialGroup     `json:"group"`
	Visible  bool              `json:"visible"`
	Material Material          `json:"material"`
}

// Scene is the built figure. It is not safe for concurrent use; owners
// serialise access (see service.Tracker).
type Scene struct {
	parts    []Part
	byRegion map[domain.BodyRegion]Handle
	camera   geometry.Camera
	yaw      float64
	version  int
}

type poseVector struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

func (v poseVector) vec() geometry.Vector3 { return geometry.NewVector3(v.X, v.Y, v.Z) }

type poseEntry struct {
	Region   string        `yaml:"region"`
	Name     string        `yaml:"name"`
	Shape    Shape         `yaml:"shape"`
	Radius   float64       `yaml:"radius"`
	Height   float64       `yaml:"height"`
	Size     poseVector    `yaml:"size"`
	Position poseVector    `yaml:"position"`
	Rotation poseVector    `yaml:"rotation"`
	Group    MaterialGroup `yaml:"group"`
	Hidden   bool          `yaml:"hidden"`
}

type poseFile struct {
	Version int `yaml:"version"`
	Camera  struct {
		Position   poseVector `yaml:"position"`
		Target     poseVector `yaml:"target"`
		FOVDegrees float64    `yaml:"fov_degrees"`
	} `yaml:"camera"`
	Parts []poseEntry `yaml:"parts"`
	Props []poseEntry `yaml:"props"`
}

// Default viewport used until a client reports its own size.
const (
	DefaultViewportWidth  = 800
	DefaultViewportHeight = 600
)

// Build constructs the canonical figure from the embedded pose table.
func Build() (*Scene, error) {
	return BuildFrom(defaultPose)
}

// BuildFrom constructs a figure from a pose table in YAML form.
func BuildFrom(data []byte) (*Scene, error) {
	var pf poseFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPose, err)
	}
	if len(pf.Parts) == 0 {
		return nil, fmt.Errorf("%w: no parts", ErrInvalidPose)
	}

	s := &Scene{
		byRegion: make(map[domain.BodyRegion]Handle, len(pf.Parts)),
		version:  pf.Version,
	}
	for _, e := range pf.Parts {
		region, err := domain.ParseRegion(e.Region)
		if err != nil {
			return nil, fmt.Errorf("%w: part %q: %v", ErrInvalidPose, e.Region, err)
		}
		if _, dup := s.byRegion[region]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRegion, region)
		}
		p, err := newPart(Handle(len(s.parts)), string(region), e)
		if err != nil {
			return nil, err
		}
		p.Region = region
		s.byRegion[region] = p.Handle
		s.parts = append(s.parts, p)
	}
	for _, e := range pf.Props {
		if e.Name == "" {
			return nil, fmt.Errorf("%w: prop without name", ErrInvalidPose)
		}
		p, err := newPart(Handle(len(s.parts)), e.Name, e)
		if err != nil {
			return nil, err
		}
		s.parts = append(s.parts, p)
	}

	fov := pf.Camera.FOVDegrees
	if fov <= 0 {
		fov = 45
	}
	s.camera = geometry.NewCamera(pf.Camera.Position.vec(), pf.Camera.Target.vec(), DefaultViewportWidth, DefaultViewportHeight)
	s.camera.FOV = fov * math.Pi / 180

	s.ApplyHighlight(nil, NoHandle, 5)
	return s, nil
}

func newPart(h Handle, name string, e poseEntry) (Part, error) {
	g := Geometry{Shape: e.Shape, Radius: e.Radius, Height: e.Height, Size: e.Size.vec()}
	switch e.Shape {
	case ShapeSphere:
		if g.Radius <= 0 {
			return Part{}, fmt.Errorf("%w: %s: sphere needs a radius", ErrInvalidPose, name)
		}
	case ShapeCylinder:
		if g.Radius <= 0 || g.Height <= 0 {
			return Part{}, fmt.Errorf("%w: %s: cylinder needs radius and height", ErrInvalidPose, name)
		}
	case ShapeBox:
		if g.Size.X <= 0 || g.Size.Y <= 0 || g.Size.Z <= 0 {
			return Part{}, fmt.Errorf("%w: %s: box needs a size", ErrInvalidPose, name)
		}
	default:
		return Part{}, fmt.Errorf("%w: %s: unknown shape %q", ErrInvalidPose, name, e.Shape)
	}
	group := e.Group
	if group == "" {
		group = GroupTorso
	}
	return Part{
		Handle:   h,
		Name:     name,
		Geometry: g,
		Position: e.Position.vec(),
		Rotation: geometry.Euler{X: e.Rotation.X, Y: e.Rotation.Y, Z: e.Rotation.Z},
		Group:    group,
		Visible:  !e.Hidden,
	}, nil
}

// Version is the pose table version the scene was built from.
func (s *Scene) Version() int { return s.version }

// Camera returns the default camera for the figure.
func (s *Scene) Camera() geometry.Camera { return s.camera }

// SetViewport resizes the camera to the client's drawing surface so that
// screen coordinates map onto the same rays the client sees.
func (s *Scene) SetViewport(width, height float64) {
	if width <= 0 || height <= 0 {
		return
	}
	s.camera = s.camera.WithViewport(width, height)
}

// SetCamera moves the camera to position looking at target, e.g. after the
// client orbits round the figure. The viewport and field of view are kept.
func (s *Scene) SetCamera(position, target geometry.Vector3) error {
	cam, err := s.camera.LookAt(position, target)
	if err != nil {
		return err
	}
	s.camera = cam
	return nil
}

// Parts returns a copy of all parts, regions first, in pose table order.
func (s *Scene) Parts() []Part {
	out := make([]Part, len(s.parts))
	copy(out, s.parts)
	return out
}

// Part looks up a part by handle.
func (s *Scene) Part(h Handle) (Part, bool) {
	if h < 0 || int(h) >= len(s.parts) {
		return Part{}, false
	}
	return s.parts[h], true
}

// RegionOf resolves a handle to its region. Props and unknown handles
// report false.
func (s *Scene) RegionOf(h Handle) (domain.BodyRegion, bool) {
	p, ok := s.Part(h)
	if !ok || p.Region == "" {
		return "", false
	}
	return p.Region, true
}

// HandleOf returns the part built for region.
func (s *Scene) HandleOf(region domain.BodyRegion) (Handle, bool) {
	h, ok := s.byRegion[region]
	return h, ok
}

// Yaw is the current rotation of the whole figure about the vertical axis.
func (s *Scene) Yaw() float64 { return s.yaw }

// SetYaw rotates the whole figure. Hit-testing follows the rotation.
func (s *Scene) SetYaw(yaw float64) { s.yaw = yaw }

// ToWorld maps a point in a part's local frame to world space.
func (s *Scene) ToWorld(p Part, local geometry.Vector3) geometry.Vector3 {
	inFigure := p.Rotation.Matrix().Apply(local).Add(p.Position)
	return geometry.RotationY(s.yaw).Apply(inFigure)
}

// Hit is one ray intersection.
type Hit struct {
	Handle   Handle
	Name     string
	Distance float64
}

// Raycast intersects ray with every hit-testable part, visible or not,
// and returns the hits nearest first. Equal distances keep part order.
func (s *Scene) Raycast(ray geometry.Ray) []Hit {
	figure := geometry.RotationY(s.yaw).Transpose()
	origin := figure.Apply(ray.Origin)
	dir := figure.Apply(ray.Direction)

	var hits []Hit
	for _, p := range s.parts {
		inv := p.Rotation.Matrix().Transpose()
		local := geometry.Ray{
			Origin:    inv.Apply(origin.Sub(p.Position)),
			Direction: inv.Apply(dir),
		}
		if d, ok := p.Geometry.intersect(local); ok {
			hits = append(hits, Hit{Handle: p.Handle, Name: p.Name, Distance: d})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
	return hits
}

// FirstHit returns the nearest intersection, if any.
func (s *Scene) FirstHit(ray geometry.Ray) (Hit, bool) {
	hits := s.Raycast(ray)
	if len(hits) == 0 {
		return Hit{}, false
	}
	return hits[0], true
}
