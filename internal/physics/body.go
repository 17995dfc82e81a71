package physics

// BodyType selects who integrates a body. Dynamic bodies belong to the world,
// kinematic bodies belong to whoever positions them (the claw), static bodies
// never move.
type BodyType int

const (
	Dynamic BodyType = iota
	Kinematic
	Static
)

func (t BodyType) String() string {
	switch t {
	case Dynamic:
		return "dynamic"
	case Kinematic:
		return "kinematic"
	case Static:
		return "static"
	default:
		return "unknown"
	}
}

// BodyDef captures the spawn parameters for a rigid sphere.
type BodyDef struct {
	Position Vec3
	Velocity Vec3
	Radius   float64
	Mass     float64
	Type     BodyType
}

// Body is a rigid sphere owned by an Engine. Position and Velocity are read
// and written freely between steps; the tick loop is single-threaded so no
// synchronization is required.
type Body struct {
	Position Vec3
	Velocity Vec3
	Radius   float64

	mass     float64
	invMass  float64
	bodyType BodyType
	removed  bool
}

// Type reports the current body type.
func (b *Body) Type() BodyType {
	if b == nil {
		return Static
	}
	return b.bodyType
}

// SetType transfers ownership of the body between the world and an external
// controller. Promoting to Kinematic is how the claw takes a prize out of
// free simulation; demoting back to Dynamic releases it.
func (b *Body) SetType(t BodyType) {
	if b == nil {
		return
	}
	b.bodyType = t
}

// ApplyImpulse adds an instantaneous momentum change at the given point.
// Spheres carry no angular state, so the application point only matters for
// callers that want to document intent.
func (b *Body) ApplyImpulse(impulse, at Vec3) {
	if b == nil || b.bodyType != Dynamic || b.invMass == 0 {
		return
	}
	b.Velocity = b.Velocity.Add(impulse.Scale(b.invMass))
}

// Mass reports the body mass; kinematic and static bodies behave as infinite
// mass during collision resolution regardless of this value.
func (b *Body) Mass() float64 {
	if b == nil {
		return 0
	}
	return b.mass
}
