package systems

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/ecosim/components"
)

func TestMoveTowards(t *testing.T) {
	tests := []struct {
		name   string
		from   r2.Vec
		target r2.Vec
		speed  float64
		want   r2.Vec
	}{
		{"reaches target exactly", r2.Vec{}, r2.Vec{X: 3, Y: 4}, 5, r2.Vec{X: 3, Y: 4}},
		{"never overshoots", r2.Vec{}, r2.Vec{X: 3, Y: 4}, 50, r2.Vec{X: 3, Y: 4}},
		{"partial step", r2.Vec{}, r2.Vec{X: 10, Y: 0}, 4, r2.Vec{X: 4, Y: 0}},
		{"diagonal partial", r2.Vec{X: 1, Y: 1}, r2.Vec{X: 7, Y: 9}, 5, r2.Vec{X: 4, Y: 5}},
		{"zero distance no-op", r2.Vec{X: 2, Y: 2}, r2.Vec{X: 2, Y: 2}, 3, r2.Vec{X: 2, Y: 2}},
		{"zero speed no-op", r2.Vec{X: 1, Y: 2}, r2.Vec{X: 5, Y: 5}, 0, r2.Vec{X: 1, Y: 2}},
		{"negative speed backs away", r2.Vec{}, r2.Vec{X: 10, Y: 0}, -2, r2.Vec{X: -2, Y: 0}},
		{"negative speed beyond distance", r2.Vec{X: 1, Y: 0}, r2.Vec{X: 2, Y: 0}, -5, r2.Vec{X: -4, Y: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := components.Position{Vec: tt.from}
			MoveTowards(&pos, tt.speed, tt.target)
			if math.Abs(pos.X-tt.want.X) > 1e-9 || math.Abs(pos.Y-tt.want.Y) > 1e-9 {
				t.Errorf("MoveTowards(%v -> %v, %v) = %v, want %v", tt.from, tt.target, tt.speed, pos.Vec, tt.want)
			}
		})
	}
}

func TestMoveTowards_DistanceBound(t *testing.T) {
	from := r2.Vec{X: -3, Y: 8}
	target := r2.Vec{X: 12, Y: -1}
	before := Distance(from, target)

	for _, speed := range []float64{0.5, 1, 3.3, 7, before, 100} {
		pos := components.Position{Vec: from}
		MoveTowards(&pos, speed, target)

		moved := Distance(from, pos.Vec)
		if moved > speed+1e-9 {
			t.Errorf("speed %v: moved %v, exceeds speed", speed, moved)
		}

		after := Distance(pos.Vec, target)
		want := math.Max(0, before-speed)
		if math.Abs(after-want) > 1e-9 {
			t.Errorf("speed %v: distance after = %v, want %v", speed, after, want)
		}
	}
}
