package systems

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/ecosim/components"
)

// Target is a prey candidate visible to predator scans.
// Pos and Vitals point into ECS storage and stay valid until the next
// structural change of the world.
type Target struct {
	Pos    *components.Position
	Vitals *components.Vitals
}

// FindFood returns the index of the nearest uneaten food within vision.
// Ties go to the lowest index. Returns false if no food is visible.
func FindFood(from r2.Vec, vision float64, field *FoodField) (int, bool) {
	best := -1
	bestDist := 0.0
	for i := 0; i < field.Len(); i++ {
		if field.Eaten(i) {
			continue
		}
		d := Distance(from, field.At(i))
		if d > vision {
			continue
		}
		if best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, best >= 0
}

// FindPrey returns the index of the nearest living target within vision.
// Ties go to the lowest index. Returns false if no prey is visible.
func FindPrey(from r2.Vec, vision float64, targets []Target) (int, bool) {
	best := -1
	bestDist := 0.0
	for i := range targets {
		t := &targets[i]
		if !t.Vitals.Alive {
			continue
		}
		d := Distance(from, t.Pos.Vec)
		if d > vision {
			continue
		}
		if best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, best >= 0
}
