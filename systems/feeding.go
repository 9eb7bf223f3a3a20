package systems

import "github.com/pthm-cable/ecosim/components"

// ForageOutcome describes what a prey did during its feeding step.
type ForageOutcome uint8

const (
	ForageAte     ForageOutcome = iota // reached and consumed food
	ForageMoved                        // saw food but did not eat it this generation
	ForageStarved                      // no food visible, paid the forage cost
)

// FeedingRule holds prey energy economics.
type FeedingRule struct {
	Gain       float64 // energy per food eaten
	ForageCost float64 // energy lost when no food is visible
}

// Forage runs one prey's feeding step: locate the nearest visible food,
// move toward it, and eat it if the prey now sits exactly on it.
// Aging is not applied here.
func Forage(pos *components.Position, traits *components.Traits, vitals *components.Vitals, field *FoodField, rule FeedingRule) ForageOutcome {
	idx, ok := FindFood(pos.Vec, traits.Vision, field)
	if !ok {
		vitals.Energy -= rule.ForageCost
		return ForageStarved
	}

	food := field.At(idx)
	MoveTowards(pos, traits.Speed, food)
	if pos.Vec == food && field.Consume(idx) {
		vitals.Energy += rule.Gain
		return ForageAte
	}
	return ForageMoved
}
