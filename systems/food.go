package systems

import (
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"
)

// FoodField holds the food sources for the current generation.
// Each slot is consumed at most once; eaten slots stay in place until the
// next Regenerate so indices remain stable during a phase.
type FoodField struct {
	items     []r2.Vec
	eaten     []bool
	remaining int
}

// NewFoodField creates an empty food field.
func NewFoodField() *FoodField {
	return &FoodField{}
}

// Regenerate discards every food source and samples n fresh positions
// uniformly in [0,width] x [0,height].
func (f *FoodField) Regenerate(rng *rand.Rand, n int, width, height float64) {
	f.Clear()
	for i := 0; i < n; i++ {
		f.Add(r2.Vec{X: rng.Float64() * width, Y: rng.Float64() * height})
	}
}

// Clear removes all food sources.
func (f *FoodField) Clear() {
	f.items = f.items[:0]
	f.eaten = f.eaten[:0]
	f.remaining = 0
}

// Add places a food source and returns its slot index.
func (f *FoodField) Add(p r2.Vec) int {
	f.items = append(f.items, p)
	f.eaten = append(f.eaten, false)
	f.remaining++
	return len(f.items) - 1
}

// Len returns the number of slots, eaten or not.
func (f *FoodField) Len() int {
	return len(f.items)
}

// Remaining returns the number of uneaten food sources.
func (f *FoodField) Remaining() int {
	return f.remaining
}

// At returns the position of slot i.
func (f *FoodField) At(i int) r2.Vec {
	return f.items[i]
}

// Eaten reports whether slot i has been consumed.
func (f *FoodField) Eaten(i int) bool {
	return f.eaten[i]
}

// Consume removes slot i. It returns true only for the first call on a slot;
// consuming an already-eaten or out-of-range slot is a no-op returning false.
func (f *FoodField) Consume(i int) bool {
	if i < 0 || i >= len(f.items) || f.eaten[i] {
		return false
	}
	f.eaten[i] = true
	f.remaining--
	return true
}

// Positions returns a copy of the uneaten food positions.
func (f *FoodField) Positions() []r2.Vec {
	out := make([]r2.Vec, 0, f.remaining)
	for i, p := range f.items {
		if !f.eaten[i] {
			out = append(out, p)
		}
	}
	return out
}
