// SPDX-License-Identifier: EPL-2.0

package pose

import "math"

// Vector3 is a point or direction in the shared call space.
// The coordinate frame is right handed: +x right, +y up, -z forward.
type Vector3 struct{ X, Y, Z float64 }

// Vec3 builds a Vector3.
func Vec3(x, y, z float64) Vector3 { return Vector3{x, y, z} }

func (v Vector3) Add(o Vector3) Vector3 { return Vector3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vector3) Sub(o Vector3) Vector3 { return Vector3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vector3) Scale(k float64) Vector3 {
	return Vector3{v.X * k, v.Y * k, v.Z * k}
}
func (v Vector3) Dot(o Vector3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

func (v Vector3) Cross(o Vector3) Vector3 {
	return Vector3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

func (v Vector3) Length() float64 { return math.Sqrt(v.Dot(v)) }

// Normalize returns the unit vector along v. The zero vector stays zero.
func (v Vector3) Normalize() Vector3 {
	l := v.Length()
	if l == 0 {
		return Vector3{}
	}
	return v.Scale(1 / l)
}

// Lerp interpolates linearly towards o.
func (v Vector3) Lerp(o Vector3, p float64) Vector3 {
	return Vector3{
		X: v.X + (o.X-v.X)*p,
		Y: v.Y + (o.Y-v.Y)*p,
		Z: v.Z + (o.Z-v.Z)*p,
	}
}

// Nlerp interpolates linearly and renormalizes; used for direction vectors.
func (v Vector3) Nlerp(o Vector3, p float64) Vector3 {
	return v.Lerp(o, p).Normalize()
}

// Slerp rotates the direction v towards o at constant angular speed.
// Nearly parallel or opposite directions fall back to Nlerp.
func (v Vector3) Slerp(o Vector3, p float64) Vector3 {
	a, b := v.Normalize(), o.Normalize()
	dot := max(-1, min(1, a.Dot(b)))
	theta := math.Acos(dot)
	s := math.Sin(theta)
	if s < 1e-6 {
		return a.Nlerp(b, p)
	}

	wa := math.Sin((1-p)*theta) / s
	wb := math.Sin(p*theta) / s
	return a.Scale(wa).Add(b.Scale(wb)).Normalize()
}

// Equal compares component-wise within eps.
func (v Vector3) Equal(o Vector3, eps float64) bool {
	return math.Abs(v.X-o.X) <= eps && math.Abs(v.Y-o.Y) <= eps && math.Abs(v.Z-o.Z) <= eps
}
