package physics

import "math"

// Vec3 is a right-handed 3D vector with Y up.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vec3) Length() float64 {
	return math.Sqrt(v.Dot(v))
}

// HorizontalDistance measures distance to o ignoring the vertical axis.
func (v Vec3) HorizontalDistance(o Vec3) float64 {
	dx := v.X - o.X
	dz := v.Z - o.Z
	return math.Hypot(dx, dz)
}

// Normalized returns the unit vector, or the zero vector for tiny inputs.
func (v Vec3) Normalized() Vec3 {
	length := v.Length()
	if length < 1e-9 {
		return Vec3{}
	}
	return v.Scale(1 / length)
}
