package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/ecosim/ecosystem"
)

// GenerationStats holds aggregated statistics for one generation.
type GenerationStats struct {
	Generation int `csv:"generation"`

	// Population counts after the cull
	PreyCount int `csv:"prey"`
	PredCount int `csv:"pred"`

	// Events during the generation
	PreyBirths      int `csv:"prey_births"`
	PredBirths      int `csv:"pred_births"`
	PreyDeaths      int `csv:"prey_deaths"`
	PredDeaths      int `csv:"pred_deaths"`
	PursuitAttempts int `csv:"pursuit_attempts"`
	Kills           int `csv:"kills"`
	PreyStarved     int `csv:"prey_starved"`
	PredStarved     int `csv:"pred_starved"`

	// Food
	FoodSpawned int `csv:"food_spawned"`
	FoodEaten   int `csv:"food_eaten"`

	// Prey trait distribution
	PreySpeed      Summary `csv:"-"`
	PreyVision     Summary `csv:"-"`
	PreyEnergyMean float64 `csv:"prey_energy_mean"`
	PreyAgeMean    float64 `csv:"prey_age_mean"`

	// Predator trait distribution
	PredSpeed      Summary `csv:"-"`
	PredVision     Summary `csv:"-"`
	PredEnergyMean float64 `csv:"pred_energy_mean"`
	PredAgeMean    float64 `csv:"pred_age_mean"`
}

// Summary holds the mean and percentiles of a sample.
type Summary struct {
	Mean, P10, P50, P90 float64
}

// Summarize computes a Summary. Returns zeros for an empty sample.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	return Summary{
		Mean: stat.Mean(sorted, nil),
		P10:  stat.Quantile(0.10, stat.LinInterp, sorted, nil),
		P50:  stat.Quantile(0.50, stat.LinInterp, sorted, nil),
		P90:  stat.Quantile(0.90, stat.LinInterp, sorted, nil),
	}
}

// mean returns the arithmetic mean, or 0 for an empty sample.
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// Compute builds the statistics for a generation from its report and the
// snapshot taken after it.
func Compute(rep ecosystem.StepReport, snap ecosystem.Snapshot) GenerationStats {
	s := GenerationStats{
		Generation:      rep.Generation,
		PreyCount:       len(snap.Prey),
		PredCount:       len(snap.Predators),
		PreyBirths:      rep.Prey.Births,
		PredBirths:      rep.Predators.Births,
		PreyDeaths:      rep.Prey.Deaths,
		PredDeaths:      rep.Predators.Deaths,
		PursuitAttempts: rep.PursuitAttempts,
		Kills:           rep.Kills,
		PreyStarved:     rep.Prey.Starved,
		PredStarved:     rep.Predators.Starved,
		FoodSpawned:     rep.FoodSpawned,
		FoodEaten:       rep.FoodEaten,
	}

	speed, vision, energy, age := columns(snap.Prey)
	s.PreySpeed = Summarize(speed)
	s.PreyVision = Summarize(vision)
	s.PreyEnergyMean = mean(energy)
	s.PreyAgeMean = mean(age)

	speed, vision, energy, age = columns(snap.Predators)
	s.PredSpeed = Summarize(speed)
	s.PredVision = Summarize(vision)
	s.PredEnergyMean = mean(energy)
	s.PredAgeMean = mean(age)

	return s
}

func columns(agents []ecosystem.AgentState) (speed, vision, energy, age []float64) {
	speed = make([]float64, len(agents))
	vision = make([]float64, len(agents))
	energy = make([]float64, len(agents))
	age = make([]float64, len(agents))
	for i, a := range agents {
		speed[i] = a.Speed
		vision[i] = a.Vision
		energy[i] = a.Energy
		age[i] = float64(a.Age)
	}
	return speed, vision, energy, age
}

// LogValue implements slog.LogValuer for structured logging.
func (s GenerationStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("generation", s.Generation),
		slog.Int("prey", s.PreyCount),
		slog.Int("pred", s.PredCount),
		slog.Int("prey_births", s.PreyBirths),
		slog.Int("pred_births", s.PredBirths),
		slog.Int("prey_deaths", s.PreyDeaths),
		slog.Int("pred_deaths", s.PredDeaths),
		slog.Int("pursuit_attempts", s.PursuitAttempts),
		slog.Int("kills", s.Kills),
		slog.Int("food_eaten", s.FoodEaten),
		slog.Float64("prey_speed_mean", s.PreySpeed.Mean),
		slog.Float64("pred_speed_mean", s.PredSpeed.Mean),
		slog.Float64("prey_vision_mean", s.PreyVision.Mean),
		slog.Float64("pred_vision_mean", s.PredVision.Mean),
		slog.Float64("prey_energy_mean", s.PreyEnergyMean),
		slog.Float64("pred_energy_mean", s.PredEnergyMean),
	)
}

// LogStats logs the generation stats using logger, or the default logger if nil.
func (s GenerationStats) LogStats(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("stats",
		"generation", s.Generation,
		"prey", s.PreyCount,
		"pred", s.PredCount,
		"prey_births", s.PreyBirths,
		"pred_births", s.PredBirths,
		"prey_deaths", s.PreyDeaths,
		"pred_deaths", s.PredDeaths,
		"pursuit_attempts", s.PursuitAttempts,
		"kills", s.Kills,
		"food_eaten", s.FoodEaten,
		"prey_speed_mean", s.PreySpeed.Mean,
		"pred_speed_mean", s.PredSpeed.Mean,
		"prey_vision_mean", s.PreyVision.Mean,
		"pred_vision_mean", s.PredVision.Mean,
	)
}

// GenerationStatsCSV is a flat struct for CSV export of generation stats.
type GenerationStatsCSV struct {
	GenerationStats
	PreySpeedMean  float64 `csv:"prey_speed_mean"`
	PreySpeedP10   float64 `csv:"prey_speed_p10"`
	PreySpeedP50   float64 `csv:"prey_speed_p50"`
	PreySpeedP90   float64 `csv:"prey_speed_p90"`
	PreyVisionMean float64 `csv:"prey_vision_mean"`
	PreyVisionP50  float64 `csv:"prey_vision_p50"`
	PredSpeedMean  float64 `csv:"pred_speed_mean"`
	PredSpeedP10   float64 `csv:"pred_speed_p10"`
	PredSpeedP50   float64 `csv:"pred_speed_p50"`
	PredSpeedP90   float64 `csv:"pred_speed_p90"`
	PredVisionMean float64 `csv:"pred_vision_mean"`
	PredVisionP50  float64 `csv:"pred_vision_p50"`
}

// ToCSV converts GenerationStats to a flat CSV-friendly struct.
func (s GenerationStats) ToCSV() GenerationStatsCSV {
	return GenerationStatsCSV{
		GenerationStats: s,
		PreySpeedMean:   s.PreySpeed.Mean,
		PreySpeedP10:    s.PreySpeed.P10,
		PreySpeedP50:    s.PreySpeed.P50,
		PreySpeedP90:    s.PreySpeed.P90,
		PreyVisionMean:  s.PreyVision.Mean,
		PreyVisionP50:   s.PreyVision.P50,
		PredSpeedMean:   s.PredSpeed.Mean,
		PredSpeedP10:    s.PredSpeed.P10,
		PredSpeedP50:    s.PredSpeed.P50,
		PredSpeedP90:    s.PredSpeed.P90,
		PredVisionMean:  s.PredVision.Mean,
		PredVisionP50:   s.PredVision.P50,
	}
}
