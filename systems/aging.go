package systems

import (
	"github.com/pthm-cable/ecosim/components"
	"github.com/pthm-cable/ecosim/config"
)

// AgingRule holds the speed/vision decay parameters.
type AgingRule struct {
	DecayOnset  float64 // decay applies while age/lifespan exceeds this
	DecayFactor float64 // multiplier applied to speed and vision per generation
}

// AgingRuleFromConfig builds an AgingRule from the aging config section.
func AgingRuleFromConfig(cfg *config.AgingConfig) AgingRule {
	return AgingRule{DecayOnset: cfg.DecayOnset, DecayFactor: cfg.DecayFactor}
}

// Age advances an agent by one generation.
// Age always increments by one. Once past the decay onset, speed and vision
// compound down by the decay factor every call. The death check runs last,
// so decay and death share the same generation.
func Age(traits *components.Traits, vitals *components.Vitals, rule AgingRule) {
	vitals.Age++

	if float64(vitals.Age)/traits.Lifespan > rule.DecayOnset {
		traits.Speed *= rule.DecayFactor
		traits.Vision *= rule.DecayFactor
	}

	if float64(vitals.Age) >= traits.Lifespan || vitals.Energy <= 0 {
		vitals.Alive = false
	}
}
