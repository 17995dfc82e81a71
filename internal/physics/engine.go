package physics

// World is the capability the game core consumes: spawn and remove rigid
// bodies, advance the simulation once per frame, and read poses off the
// returned bodies. The built-in Engine is the only implementation shipped,
// but the machine layer depends on this interface so the simulation backend
// stays swappable.
type World interface {
	AddBody(def BodyDef) *Body
	RemoveBody(b *Body)
	AddCollider(c Collider)
	Step(elapsed float64)
}

// EngineConfig tunes the fixed-substep integrator.
type EngineConfig struct {
	Gravity       float64 // downward acceleration, units/s^2
	SubstepRate   float64 // fixed substep frequency, Hz
	MaxSubsteps   int     // clamp per frame so a stall never spirals
	Restitution   float64 // bounce kept on contact, 0..1
	LinearDamping float64 // per-second velocity decay
}

// DefaultEngineConfig is tuned for arcade cabinet feel: light gravity,
// dead-ish bounces.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Gravity:       9.8,
		SubstepRate:   60,
		MaxSubsteps:   8,
		Restitution:   0.25,
		LinearDamping: 0.4,
	}
}

// Engine is a minimal rigid sphere simulator: gravity, sphere-sphere impulse
// resolution, static arena colliders, and a fixed 1/60 s substep hidden
// behind a single per-frame Step call.
type Engine struct {
	cfg       EngineConfig
	bodies    []*Body
	colliders []Collider
	leftover  float64
}

// NewEngine constructs an engine, normalizing nonsensical config values.
func NewEngine(cfg EngineConfig) *Engine {
	if cfg.SubstepRate <= 0 {
		cfg.SubstepRate = 60
	}
	if cfg.MaxSubsteps <= 0 {
		cfg.MaxSubsteps = 8
	}
	if cfg.Restitution < 0 {
		cfg.Restitution = 0
	}
	if cfg.Restitution > 1 {
		cfg.Restitution = 1
	}
	return &Engine{cfg: cfg}
}

// AddBody registers a sphere and returns its live handle.
func (e *Engine) AddBody(def BodyDef) *Body {
	if e == nil {
		return nil
	}
	radius := def.Radius
	if radius <= 0 {
		radius = 0.5
	}
	mass := def.Mass
	if mass <= 0 {
		mass = 1
	}
	body := &Body{
		Position: def.Position,
		Velocity: def.Velocity,
		Radius:   radius,
		mass:     mass,
		invMass:  1 / mass,
		bodyType: def.Type,
	}
	e.bodies = append(e.bodies, body)
	return body
}

// RemoveBody detaches a body from the simulation. Removing an unknown or
// already-removed body is a no-op.
func (e *Engine) RemoveBody(b *Body) {
	if e == nil || b == nil || b.removed {
		return
	}
	for i, candidate := range e.bodies {
		if candidate == b {
			e.bodies = append(e.bodies[:i], e.bodies[i+1:]...)
			b.removed = true
			return
		}
	}
}

// AddCollider installs a static arena shape.
func (e *Engine) AddCollider(c Collider) {
	if e == nil || c == nil {
		return
	}
	e.colliders = append(e.colliders, c)
}

// BodyCount reports the number of live bodies, for diagnostics.
func (e *Engine) BodyCount() int {
	if e == nil {
		return 0
	}
	return len(e.bodies)
}

// Step advances the simulation by the elapsed wall-clock seconds, internally
// subdividing into fixed substeps. Call it exactly once per frame.
func (e *Engine) Step(elapsed float64) {
	if e == nil || elapsed <= 0 {
		return
	}
	dt := 1 / e.cfg.SubstepRate
	e.leftover += elapsed
	steps := 0
	for e.leftover >= dt && steps < e.cfg.MaxSubsteps {
		e.substep(dt)
		e.leftover -= dt
		steps++
	}
	if steps == e.cfg.MaxSubsteps {
		// Shed the backlog instead of catching up after a stall.
		e.leftover = 0
	}
}

func (e *Engine) substep(dt float64) {
	damping := 1 - e.cfg.LinearDamping*dt
	if damping < 0 {
		damping = 0
	}
	for _, body := range e.bodies {
		if body.bodyType != Dynamic {
			continue
		}
		body.Velocity.Y -= e.cfg.Gravity * dt
		body.Velocity.X *= damping
		body.Velocity.Z *= damping
		body.Position = body.Position.Add(body.Velocity.Scale(dt))
	}
	e.resolvePairs()
	for _, body := range e.bodies {
		if body.bodyType != Dynamic {
			continue
		}
		for _, collider := range e.colliders {
			collider.resolve(body, e.cfg.Restitution)
		}
	}
}

// resolvePairs separates overlapping spheres and exchanges impulses.
// Kinematic bodies act as infinite mass: they push, they are never pushed.
func (e *Engine) resolvePairs() {
	for i := 0; i < len(e.bodies); i++ {
		a := e.bodies[i]
		if a.bodyType == Static {
			continue
		}
		for j := i + 1; j < len(e.bodies); j++ {
			b := e.bodies[j]
			if b.bodyType == Static {
				continue
			}
			if a.bodyType != Dynamic && b.bodyType != Dynamic {
				continue
			}
			e.resolveContact(a, b)
		}
	}
}

func (e *Engine) resolveContact(a, b *Body) {
	offset := b.Position.Sub(a.Position)
	dist := offset.Length()
	minDist := a.Radius + b.Radius
	if dist >= minDist {
		return
	}
	var normal Vec3
	if dist < 1e-9 {
		normal = Vec3{Y: 1}
	} else {
		normal = offset.Scale(1 / dist)
	}

	invA := a.invMass
	invB := b.invMass
	if a.bodyType != Dynamic {
		invA = 0
	}
	if b.bodyType != Dynamic {
		invB = 0
	}
	invSum := invA + invB
	if invSum == 0 {
		return
	}

	penetration := minDist - dist
	a.Position = a.Position.Sub(normal.Scale(penetration * invA / invSum))
	b.Position = b.Position.Add(normal.Scale(penetration * invB / invSum))

	approach := b.Velocity.Sub(a.Velocity).Dot(normal)
	if approach >= 0 {
		return
	}
	impulse := -(1 + e.cfg.Restitution) * approach / invSum
	a.Velocity = a.Velocity.Sub(normal.Scale(impulse * invA))
	b.Velocity = b.Velocity.Add(normal.Scale(impulse * invB))
}

var _ World = (*Engine)(nil)
