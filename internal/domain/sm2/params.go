package sm2

// Quality bounds for a review. Quality is the standard SM-2 grade: 0 is a
// complete blackout, 5 a perfect recall. Anything below PassingQuality counts
// as a failed review.
const (
	MinQuality     = 0
	MaxQuality     = 5
	PassingQuality = 3
)

// Params defines all configurable parameters for the scheduling algorithm.
type Params struct {
	// Core limits
	MinEaseFactor     float64
	DefaultEaseFactor float64

	// Fixed intervals for the first two successful repetitions, in days.
	FirstInterval  int
	SecondInterval int

	// Mastery level blend. RepetitionWeight scales the saturating repetition
	// component, EaseWeight the normalized ease component; they sum to 1.
	RepetitionWeight float64
	EaseWeight       float64
}

// ParamsConfig allows overriding the default parameters when creating a new
// Params instance. Zero-valued fields keep their defaults.
type ParamsConfig struct {
	MinEaseFactor     float64
	DefaultEaseFactor float64
	FirstInterval     int
	SecondInterval    int
	RepetitionWeight  float64
	EaseWeight        float64
}

// NewDefaultParams creates a new Params instance with the standard SM-2
// values.
func NewDefaultParams() *Params {
	return &Params{
		MinEaseFactor:     1.3,
		DefaultEaseFactor: 2.5,
		FirstInterval:     1,
		SecondInterval:    6,
		RepetitionWeight:  0.7,
		EaseWeight:        0.3,
	}
}

// NewParams creates a new Params instance with custom configuration.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.MinEaseFactor > 0 {
		params.MinEaseFactor = config.MinEaseFactor
	}
	if config.DefaultEaseFactor > 0 {
		params.DefaultEaseFactor = config.DefaultEaseFactor
	}
	if config.FirstInterval > 0 {
		params.FirstInterval = config.FirstInterval
	}
	if config.SecondInterval > 0 {
		params.SecondInterval = config.SecondInterval
	}
	if config.RepetitionWeight > 0 {
		params.RepetitionWeight = config.RepetitionWeight
	}
	if config.EaseWeight > 0 {
		params.EaseWeight = config.EaseWeight
	}

	return params
}
