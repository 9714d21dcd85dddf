package geometry

import "math"

// epsilon guards against self-intersection and parallel rays.
const epsilon = 1e-9

// Ray is a half-line starting at Origin. Direction is expected to be unit length.
type Ray struct {
	Origin    Vector3
	Direction Vector3
}

// NewRay builds a ray and normalizes its direction.
func NewRay(origin, direction Vector3) Ray {
	return Ray{Origin: origin, Direction: direction.Normalize()}
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) Vector3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// IntersectSphere returns the nearest non-negative distance at which the
// ray hits a sphere centred at the origin.
func IntersectSphere(r Ray, radius float64) (float64, bool) {
	b := r.Origin.Dot(r.Direction)
	c := r.Origin.Dot(r.Origin) - radius*radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	return nearestNonNegative(-b-sq, -b+sq)
}

// IntersectBox uses the slab method against an origin-centred box with the
// given half extents.
func IntersectBox(r Ray, half Vector3) (float64, bool) {
	tMin, tMax := math.Inf(-1), math.Inf(1)
	origin := [3]float64{r.Origin.X, r.Origin.Y, r.Origin.Z}
	dir := [3]float64{r.Direction.X, r.Direction.Y, r.Direction.Z}
	ext := [3]float64{half.X, half.Y, half.Z}

	for i := 0; i < 3; i++ {
		if math.Abs(dir[i]) < epsilon {
			if origin[i] < -ext[i] || origin[i] > ext[i] {
				return 0, false
			}
			continue
		}
		t1 := (-ext[i] - origin[i]) / dir[i]
		t2 := (ext[i] - origin[i]) / dir[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}
	return nearestNonNegative(tMin, tMax)
}

// IntersectCylinder tests a capped cylinder centred at the origin whose
// axis is Y, spanning y in [-halfHeight, halfHeight].
func IntersectCylinder(r Ray, radius, halfHeight float64) (float64, bool) {
	best := math.Inf(1)
	found := false
	consider := func(t float64) {
		if t >= 0 && t < best {
			best = t
			found = true
		}
	}

	// Side wall: x^2 + z^2 = radius^2.
	a := r.Direction.X*r.Direction.X + r.Direction.Z*r.Direction.Z
	if a > epsilon {
		b := r.Origin.X*r.Direction.X + r.Origin.Z*r.Direction.Z
		c := r.Origin.X*r.Origin.X + r.Origin.Z*r.Origin.Z - radius*radius
		disc := b*b - a*c
		if disc >= 0 {
			sq := math.Sqrt(disc)
			for _, t := range []float64{(-b - sq) / a, (-b + sq) / a} {
				if y := r.Origin.Y + t*r.Direction.Y; y >= -halfHeight && y <= halfHeight {
					consider(t)
				}
			}
		}
	}

	// End caps.
	if math.Abs(r.Direction.Y) > epsilon {
		for _, capY := range []float64{-halfHeight, halfHeight} {
			t := (capY - r.Origin.Y) / r.Direction.Y
			p := r.At(t)
			if p.X*p.X+p.Z*p.Z <= radius*radius {
				consider(t)
			}
		}
	}
	return best, found
}

func nearestNonNegative(t0, t1 float64) (float64, bool) {
	if t0 >= 0 {
		return t0, true
	}
	if t1 >= 0 {
		return t1, true
	}
	return 0, false
}
