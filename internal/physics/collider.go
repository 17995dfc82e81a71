package physics

import "math"

// Collider is a static piece of arena geometry that spheres rest on or bounce
// off. Colliders only ever push dynamic bodies.
type Collider interface {
	resolve(b *Body, restitution float64)
}

// Floor is a horizontal plane at Height with an optional circular hole
// centred on the origin. Bodies over the hole fall through; that is the
// pickup machines' chute.
type Floor struct {
	Height     float64
	HoleRadius float64
}

func (f Floor) resolve(b *Body, restitution float64) {
	if f.HoleRadius > 0 && math.Hypot(b.Position.X, b.Position.Z) < f.HoleRadius {
		return
	}
	bottom := b.Position.Y - b.Radius
	if bottom >= f.Height {
		return
	}
	b.Position.Y = f.Height + b.Radius
	if b.Velocity.Y < 0 {
		b.Velocity.Y = -b.Velocity.Y * restitution
		if math.Abs(b.Velocity.Y) < restVelocityEpsilon {
			b.Velocity.Y = 0
		}
	}
}

// Walls confines bodies to the square [-HalfExtent, HalfExtent] on X and Z
// while they are above Bottom. Below Bottom the field is open so delivered
// prizes keep falling.
type Walls struct {
	HalfExtent float64
	Bottom     float64
}

func (w Walls) resolve(b *Body, restitution float64) {
	if b.Position.Y < w.Bottom {
		return
	}
	limit := w.HalfExtent - b.Radius
	if limit < 0 {
		limit = 0
	}
	if b.Position.X > limit {
		b.Position.X = limit
		if b.Velocity.X > 0 {
			b.Velocity.X = -b.Velocity.X * restitution
		}
	} else if b.Position.X < -limit {
		b.Position.X = -limit
		if b.Velocity.X < 0 {
			b.Velocity.X = -b.Velocity.X * restitution
		}
	}
	if b.Position.Z > limit {
		b.Position.Z = limit
		if b.Velocity.Z > 0 {
			b.Velocity.Z = -b.Velocity.Z * restitution
		}
	} else if b.Position.Z < -limit {
		b.Position.Z = -limit
		if b.Velocity.Z < 0 {
			b.Velocity.Z = -b.Velocity.Z * restitution
		}
	}
}

// Box is a static axis-aligned block, used for the bridge machine's support
// bars.
type Box struct {
	Min Vec3
	Max Vec3
}

func (x Box) resolve(b *Body, restitution float64) {
	closest := Vec3{
		X: clampFloat(b.Position.X, x.Min.X, x.Max.X),
		Y: clampFloat(b.Position.Y, x.Min.Y, x.Max.Y),
		Z: clampFloat(b.Position.Z, x.Min.Z, x.Max.Z),
	}
	offset := b.Position.Sub(closest)
	dist := offset.Length()
	if dist >= b.Radius || dist < 1e-9 {
		return
	}
	normal := offset.Scale(1 / dist)
	b.Position = b.Position.Add(normal.Scale(b.Radius - dist))
	approach := b.Velocity.Dot(normal)
	if approach < 0 {
		b.Velocity = b.Velocity.Sub(normal.Scale((1 + restitution) * approach))
	}
}

const restVelocityEpsilon = 0.05

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
