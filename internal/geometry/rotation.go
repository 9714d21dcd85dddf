package geometry

import "math"

// Euler is an XYZ rotation in radians, applied X first, then Y, then Z.
type Euler struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
	Z float64 `yaml:"z" json:"z"`
}

// Matrix3 is a row-major 3x3 rotation matrix.
type Matrix3 [3][3]float64

// Identity3 returns the identity rotation.
func Identity3() Matrix3 {
	return Matrix3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

// RotationY returns a rotation about the vertical axis.
func RotationY(angle float64) Matrix3 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Matrix3{{c, 0, s}, {0, 1, 0}, {-s, 0, c}}
}

// Matrix returns the combined rotation Rz * Ry * Rx.
func (e Euler) Matrix() Matrix3 {
	cx, sx := math.Cos(e.X), math.Sin(e.X)
	cy, sy := math.Cos(e.Y), math.Sin(e.Y)
	cz, sz := math.Cos(e.Z), math.Sin(e.Z)
	rx := Matrix3{{1, 0, 0}, {0, cx, -sx}, {0, sx, cx}}
	ry := Matrix3{{cy, 0, sy}, {0, 1, 0}, {-sy, 0, cy}}
	rz := Matrix3{{cz, -sz, 0}, {sz, cz, 0}, {0, 0, 1}}
	return rz.Mul(ry).Mul(rx)
}

// Mul returns m * other.
func (m Matrix3) Mul(other Matrix3) Matrix3 {
	var out Matrix3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = m[i][0]*other[0][j] + m[i][1]*other[1][j] + m[i][2]*other[2][j]
		}
	}
	return out
}

// Apply rotates v.
func (m Matrix3) Apply(v Vector3) Vector3 {
	return Vector3{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

// Transpose is the inverse of a pure rotation.
func (m Matrix3) Transpose() Matrix3 {
	var out Matrix3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = m[j][i]
		}
	}
	return out
}
