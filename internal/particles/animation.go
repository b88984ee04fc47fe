package particles

import "time"

// Animation is one selectable effect: a particle field and, for stars, the
// shooting star layered over it.
type Animation struct {
	Name  string
	count int

	field    *Field
	shooting *Spawner
}

// NewAnimation builds an animation of the given kind with count particles
// over a width x height field. Call Reset before stepping.
func NewAnimation(kind Kind, count int, width, height float64, rng Source) *Animation {
	a := &Animation{
		Name:  kind.String(),
		count: count,
		field: NewField(kind, rng),
	}
	a.field.width, a.field.height = width, height
	if kind == Stars {
		a.shooting = NewSpawner(width, height, rng)
	}
	return a
}

func (a *Animation) Field() *Field { return a.field }

// Spawner returns the shooting star spawner, nil unless the animation is stars.
func (a *Animation) Spawner() *Spawner { return a.shooting }

// Reset repopulates the field and restarts the shooting star schedule.
func (a *Animation) Reset(now time.Duration) {
	w, h := a.field.Bounds()
	a.field.Init(a.count, w, h)
	if a.shooting != nil {
		a.shooting.Resize(w, h)
		a.shooting.Schedule(now)
	}
}

// Step advances the animation by one frame.
func (a *Animation) Step(now time.Duration) {
	a.field.Advance()
	if a.shooting != nil {
		a.shooting.MaybeSpawn(now)
		a.shooting.Advance()
	}
}

func (a *Animation) Draw(s Surface) {
	a.field.Render(s)
	if a.shooting != nil {
		a.shooting.Render(s)
	}
}
