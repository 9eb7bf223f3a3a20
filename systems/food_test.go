package systems

import (
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestFoodField_RegenerateReplacesAll(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	f := NewFoodField()
	f.Regenerate(rng, 30, 50, 40)
	f.Consume(0)
	f.Consume(5)

	f.Regenerate(rng, 12, 50, 40)
	if f.Len() != 12 || f.Remaining() != 12 {
		t.Fatalf("after regenerate: len=%d remaining=%d, want 12/12", f.Len(), f.Remaining())
	}
	for i := 0; i < f.Len(); i++ {
		p := f.At(i)
		if f.Eaten(i) {
			t.Errorf("slot %d carried over eaten flag", i)
		}
		if p.X < 0 || p.X > 50 || p.Y < 0 || p.Y > 40 {
			t.Errorf("slot %d out of bounds: %v", i, p)
		}
	}
}

func TestFoodField_ConsumeOnce(t *testing.T) {
	f := NewFoodField()
	i := f.Add(r2.Vec{X: 1, Y: 1})
	f.Add(r2.Vec{X: 2, Y: 2})

	if !f.Consume(i) {
		t.Fatal("first consume should succeed")
	}
	if f.Consume(i) {
		t.Error("second consume of the same slot should be a no-op")
	}
	if f.Remaining() != 1 {
		t.Errorf("remaining = %d, want 1", f.Remaining())
	}
	if f.Consume(-1) || f.Consume(99) {
		t.Error("out of range consume should return false")
	}
	if got := f.Positions(); len(got) != 1 || got[0] != (r2.Vec{X: 2, Y: 2}) {
		t.Errorf("positions = %v", got)
	}
}
