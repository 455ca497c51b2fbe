package studyplan

// Config is per-planner, never global. Zero values fall back to defaults.
type Config struct {
	Mode             Mode
	MasteryThreshold float64
	// TopN caps the persisted recommendation list; 0 keeps every concept.
	TopN    int
	Weights Weights
}

func DefaultConfig() Config {
	return Config{
		Mode:             ModeTransitive,
		MasteryThreshold: DefaultMasteryThreshold,
		TopN:             10,
		Weights:          DefaultWeights(),
	}
}

func (c Config) normalized() Config {
	if c.Mode != ModeDirect {
		c.Mode = ModeTransitive
	}
	if c.MasteryThreshold <= MinMastery || c.MasteryThreshold > MaxMastery {
		c.MasteryThreshold = DefaultMasteryThreshold
	}
	if c.TopN < 0 {
		c.TopN = 0
	}
	if c.Weights == (Weights{}) {
		c.Weights = DefaultWeights()
	}
	return c
}
