package geometry

import (
	"math"
	"testing"
)

func TestIntersectSphere(t *testing.T) {
	r := NewRay(NewVector3(0, 0, 5), NewVector3(0, 0, -1))
	d, ok := IntersectSphere(r, 1)
	if !ok || math.Abs(d-4) > 1e-9 {
		t.Fatalf("expected hit at 4, got %v %v", d, ok)
	}

	miss := NewRay(NewVector3(0, 2, 5), NewVector3(0, 0, -1))
	if _, ok := IntersectSphere(miss, 1); ok {
		t.Error("expected miss above the sphere")
	}

	away := NewRay(NewVector3(0, 0, 5), NewVector3(0, 0, 1))
	if _, ok := IntersectSphere(away, 1); ok {
		t.Error("sphere behind the ray origin must not be hit")
	}
}

func TestIntersectBox(t *testing.T) {
	half := NewVector3(0.5, 1, 0.25)
	r := NewRay(NewVector3(0, 0, 3), NewVector3(0, 0, -1))
	d, ok := IntersectBox(r, half)
	if !ok || math.Abs(d-2.75) > 1e-9 {
		t.Fatalf("expected hit at 2.75, got %v %v", d, ok)
	}

	parallelOutside := NewRay(NewVector3(0.6, 0, 3), NewVector3(0, 0, -1))
	if _, ok := IntersectBox(parallelOutside, half); ok {
		t.Error("expected miss beside the box")
	}
}

func TestIntersectCylinderSideAndCap(t *testing.T) {
	side := NewRay(NewVector3(0, 0, 4), NewVector3(0, 0, -1))
	d, ok := IntersectCylinder(side, 0.5, 1)
	if !ok || math.Abs(d-3.5) > 1e-9 {
		t.Fatalf("expected side hit at 3.5, got %v %v", d, ok)
	}

	top := NewRay(NewVector3(0.1, 5, 0), NewVector3(0, -1, 0))
	d, ok = IntersectCylinder(top, 0.5, 1)
	if !ok || math.Abs(d-4) > 1e-9 {
		t.Fatalf("expected cap hit at 4, got %v %v", d, ok)
	}

	over := NewRay(NewVector3(0, 1.5, 4), NewVector3(0, 0, -1))
	if _, ok := IntersectCylinder(over, 0.5, 1); ok {
		t.Error("expected miss above the cylinder")
	}
}

func TestCameraProjectRoundTrip(t *testing.T) {
	cam := NewCamera(NewVector3(0, 1, 4), NewVector3(0, 1, 0), 800, 600)
	p := NewVector3(-0.3, 0.4, 0.2)

	x, y, depth, err := cam.Project(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if depth <= 0 {
		t.Fatalf("expected positive depth, got %v", depth)
	}

	ray := cam.ScreenToRay(x, y)
	toPoint := p.Sub(cam.Position).Normalize()
	if ray.Direction.Sub(toPoint).Length() > 1e-9 {
		t.Errorf("ray through projected pixel does not pass through point: %v vs %v", ray.Direction, toPoint)
	}

	if _, _, _, err := cam.Project(NewVector3(0, 1, 10)); err != ErrBehindCamera {
		t.Errorf("expected ErrBehindCamera, got %v", err)
	}
}

func TestCameraCenterPixelLooksAtTarget(t *testing.T) {
	cam := NewCamera(NewVector3(0, 1, 4), NewVector3(0, 1, 0), 640, 480)
	ray := cam.ScreenToRay(320, 240)
	want := NewVector3(0, 0, -1)
	if ray.Direction.Sub(want).Length() > 1e-9 {
		t.Errorf("expected %v, got %v", want, ray.Direction)
	}
}

func TestCameraLookAt(t *testing.T) {
	front := NewCamera(NewVector3(0, 1, 3), NewVector3(0, 1, 0), 800, 600)

	rear, err := front.LookAt(NewVector3(0, 1, -3), NewVector3(0, 1, 0))
	if err != nil {
		t.Fatalf("LookAt: %v", err)
	}
	if rear.Width != 800 || rear.Height != 600 || rear.FOV != front.FOV {
		t.Errorf("viewport or fov changed: %+v", rear)
	}
	x, y, _, err := rear.Project(NewVector3(0, 1, 0))
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(x-400) > 1e-6 || math.Abs(y-300) > 1e-6 {
		t.Errorf("target projects to (%v, %v), want the centre", x, y)
	}

	if _, err := front.LookAt(NewVector3(0, 1, 0), NewVector3(0, 1, 0)); err != ErrDegenerateCamera {
		t.Errorf("same point: got %v", err)
	}
	if _, err := front.LookAt(NewVector3(0, 5, 0), NewVector3(0, 1, 0)); err != ErrDegenerateCamera {
		t.Errorf("looking straight down: got %v", err)
	}
}
