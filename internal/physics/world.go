package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/lanyard/internal/integrators"
)

type Settings struct {
	Gravity     mgl64.Vec3
	Timestep    float64
	Interpolate bool
	// Substeps split each fixed step; Iterations are projection passes per substep.
	Substeps   int
	Iterations int
	// MaxStepsPerFrame bounds catch-up after a long frame. Leftover time is dropped.
	MaxStepsPerFrame int

	SleepLinear  float64
	SleepAngular float64
	TimeToSleep  float64

	Integrator integrators.Integrator
}

func DefaultSettings() Settings {
	return Settings{
		Gravity:          mgl64.Vec3{0, -40, 0},
		Timestep:         1.0 / 60.0,
		Interpolate:      true,
		Substeps:         4,
		Iterations:       8,
		MaxStepsPerFrame: 5,
		SleepLinear:      0.1,
		SleepAngular:     0.1,
		TimeToSleep:      2.0,
		Integrator:       integrators.NewSymplecticEuler(),
	}
}

type pair struct{ a, b int }

func pairOf(a, b *Body) pair {
	if a.index > b.index {
		a, b = b, a
	}
	return pair{a.index, b.index}
}

// World steps its bodies at a fixed timestep. It treats all of its bodies as
// one island for sleeping.
type World struct {
	settings Settings
	bodies   []*Body
	joints   []Joint
	joined   map[pair]struct{}

	accumulator float64
	alpha       float64
	time        float64
	steps       int

	sleeping   bool
	sleepTimer float64
}

func NewWorld(s Settings) *World {
	if s.Integrator == nil {
		s.Integrator = integrators.NewSymplecticEuler()
	}
	if s.Substeps < 1 {
		s.Substeps = 1
	}
	if s.Iterations < 1 {
		s.Iterations = 1
	}
	if s.MaxStepsPerFrame < 1 {
		s.MaxStepsPerFrame = 1
	}
	return &World{
		settings: s,
		joined:   make(map[pair]struct{}),
		alpha:    1,
	}
}

func (w *World) Settings() Settings { return w.settings }
func (w *World) Bodies() []*Body    { return w.bodies }
func (w *World) Joints() []Joint    { return w.joints }
func (w *World) Time() float64      { return w.time }
func (w *World) Steps() int         { return w.steps }
func (w *World) IsSleeping() bool   { return w.sleeping }

// Alpha is how far between the last two fixed steps the render clock is.
func (w *World) Alpha() float64 { return w.alpha }

func (w *World) AddBody(b *Body) *Body {
	b.world = w
	b.index = len(w.bodies)
	w.bodies = append(w.bodies, b)
	w.WakeUp()
	return b
}

func (w *World) AddJoint(j Joint) Joint {
	w.joints = append(w.joints, j)
	w.joined[pairOf(j.BodyA(), j.BodyB())] = struct{}{}
	w.WakeUp()
	return j
}

func (w *World) WakeUp() {
	w.sleeping = false
	w.sleepTimer = 0
}

// Step advances the world by frameDelta seconds of wall time, running as many
// whole fixed steps as fit. It returns the number of fixed steps taken.
func (w *World) Step(frameDelta float64) int {
	if frameDelta > 0 {
		w.accumulator += frameDelta
	}
	h := w.settings.Timestep
	n := 0
	for w.accumulator >= h*(1-1e-9) && n < w.settings.MaxStepsPerFrame {
		w.fixedStep(h)
		w.accumulator -= h
		n++
	}
	if n == w.settings.MaxStepsPerFrame && w.accumulator >= h {
		w.accumulator = 0
	}
	if w.accumulator < 0 {
		w.accumulator = 0
	}

	// render transforms lag the physics by up to one step
	w.alpha = 1
	if w.settings.Interpolate {
		w.alpha = mgl64.Clamp(w.accumulator/h, 0, 1)
	}
	return n
}

func (w *World) fixedStep(h float64) {
	w.time += h
	w.steps++

	for _, b := range w.bodies {
		b.renderPosition = b.position
		b.renderRotation = b.rotation
		b.kinematicStart = b.position
	}

	if w.sleeping {
		// kinematic targets wake the island through SetNextKinematicTranslation
		return
	}

	sub := h / float64(w.settings.Substeps)
	for s := 1; s <= w.settings.Substeps; s++ {
		w.integrate(sub, float64(s)/float64(w.settings.Substeps), h)
		for it := 0; it < w.settings.Iterations; it++ {
			w.solveContacts()
			w.solveJoints(it%2 == 1)
		}
		w.deriveVelocities(sub)
	}

	for _, b := range w.bodies {
		if b.bodyType == Kinematic {
			b.hasNext = false
		}
	}
	w.updateSleep(h)
}

func (w *World) integrate(sub, frac, h float64) {
	g := w.settings.Gravity
	for _, b := range w.bodies {
		b.prevPosition = b.position
		b.prevRotation = b.rotation

		switch b.bodyType {
		case Kinematic:
			if b.hasNext {
				b.position = b.kinematicStart.Add(b.nextTranslation.Sub(b.kinematicStart).Mul(frac))
				b.linvel = b.nextTranslation.Sub(b.kinematicStart).Mul(1 / h)
			} else {
				b.linvel = mgl64.Vec3{}
			}
			b.angvel = mgl64.Vec3{}
		case Dynamic:
			b.linvel = b.linvel.Mul(1 / (1 + sub*b.linearDamping))
			b.angvel = b.angvel.Mul(1 / (1 + sub*b.angularDamping))
			b.position, b.linvel = w.settings.Integrator.Step(b.position, b.linvel, g, sub)
			dq := mgl64.Quat{W: 0, V: b.angvel}.Mul(b.rotation).Scale(0.5 * sub)
			b.rotation = b.rotation.Add(dq).Normalize()
		}
	}
}

func (w *World) solveContacts() {
	for i := 0; i < len(w.bodies); i++ {
		a := w.bodies[i]
		if a.collider == nil {
			continue
		}
		for j := i + 1; j < len(w.bodies); j++ {
			b := w.bodies[j]
			if b.collider == nil || (a.bodyType != Dynamic && b.bodyType != Dynamic) {
				continue
			}
			if _, ok := w.joined[pair{i, j}]; ok {
				continue
			}
			solveContact(a, b)
		}
	}
}

// solveJoints alternates direction between passes so corrections travel both
// ways along the chain.
func (w *World) solveJoints(reverse bool) {
	if !reverse {
		for _, j := range w.joints {
			j.solve()
		}
		return
	}
	for i := len(w.joints) - 1; i >= 0; i-- {
		w.joints[i].solve()
	}
}

func (w *World) deriveVelocities(sub float64) {
	for _, b := range w.bodies {
		if b.bodyType != Dynamic {
			continue
		}
		b.linvel = b.position.Sub(b.prevPosition).Mul(1 / sub)
		dq := b.rotation.Mul(b.prevRotation.Conjugate())
		omega := dq.V.Mul(2 / sub)
		if dq.W < 0 {
			omega = omega.Mul(-1)
		}
		b.angvel = omega
	}
}

func (w *World) updateSleep(h float64) {
	lin2 := w.settings.SleepLinear * w.settings.SleepLinear
	ang2 := w.settings.SleepAngular * w.settings.SleepAngular
	quiet := w.settings.TimeToSleep > 0
	for _, b := range w.bodies {
		switch b.bodyType {
		case Dynamic:
			if b.linvel.LenSqr() > lin2 || b.angvel.LenSqr() > ang2 {
				quiet = false
			}
		case Kinematic:
			if b.linvel.LenSqr() > 0 {
				quiet = false
			}
		}
	}
	if !quiet {
		w.sleepTimer = 0
		return
	}
	w.sleepTimer += h
	if w.sleepTimer >= w.settings.TimeToSleep {
		w.sleeping = true
		for _, b := range w.bodies {
			if b.bodyType == Dynamic {
				b.linvel = mgl64.Vec3{}
				b.angvel = mgl64.Vec3{}
			}
		}
	}
}

// KineticEnergy sums translational and rotational energy of dynamic bodies.
func (w *World) KineticEnergy() float64 {
	e := 0.0
	for _, b := range w.bodies {
		if b.bodyType != Dynamic {
			continue
		}
		e += 0.5 * b.mass * b.linvel.LenSqr()
		local := b.rotation.Conjugate().Rotate(b.angvel)
		for i := 0; i < 3; i++ {
			if b.invInertia[i] > 0 {
				e += 0.5 * local[i] * local[i] / b.invInertia[i]
			}
		}
	}
	if math.IsNaN(e) {
		return math.Inf(1)
	}
	return e
}
