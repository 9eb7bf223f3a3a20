// Package systems provides the per-agent behaviours applied by the ecosystem.
// Functions operate on component pointers so they work the same for
// prey and predators.
package systems

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/ecosim/components"
)

// MoveTowards moves pos along the straight line to target by at most speed.
// The move never overshoots: when the target is within reach the position
// is set to the target exactly, so a reached target compares equal.
// A negative speed moves away from target by |speed|. A zero-distance move
// is a no-op.
func MoveTowards(pos *components.Position, speed float64, target r2.Vec) {
	dir := r2.Sub(target, pos.Vec)
	dist := r2.Norm(dir)
	if dist == 0 {
		return
	}
	if speed >= dist {
		pos.Vec = target
		return
	}
	pos.Vec = r2.Add(pos.Vec, r2.Scale(speed/dist, dir))
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b r2.Vec) float64 {
	return r2.Norm(r2.Sub(b, a))
}
