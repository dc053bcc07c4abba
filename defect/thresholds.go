package defect

import (
	"fmt"

	"github.com/kbukum/scribe/validation"
)

// Thresholds parameterize the detector.
type Thresholds struct {
	// Texts below either minimum are never flagged.
	MinChars int `yaml:"min_chars" mapstructure:"min_chars" validate:"gte=0"`
	MinWords int `yaml:"min_words" mapstructure:"min_words" validate:"gte=1"`

	// NGramSizes are scanned in order; the first hit wins.
	NGramSizes []int `yaml:"ngram_sizes" mapstructure:"ngram_sizes" validate:"min=1,dive,gte=1"`
	// NGramOccurrences is the total count (including the first) that
	// flags a phrase.
	NGramOccurrences int `yaml:"ngram_occurrences" mapstructure:"ngram_occurrences" validate:"gte=2"`
	PhraseReportChars int `yaml:"phrase_report_chars" mapstructure:"phrase_report_chars" validate:"gte=1"`

	TailFraction    float64 `yaml:"tail_fraction" mapstructure:"tail_fraction" validate:"gt=0,lte=1"`
	TailMinChars    int     `yaml:"tail_min_chars" mapstructure:"tail_min_chars" validate:"gte=0"`
	TailChunkChars  int     `yaml:"tail_chunk_chars" mapstructure:"tail_chunk_chars" validate:"gte=1"`
	TailScanLimit   int     `yaml:"tail_scan_limit" mapstructure:"tail_scan_limit" validate:"gte=1"`
	TailScanStep    int     `yaml:"tail_scan_step" mapstructure:"tail_scan_step" validate:"gte=1"`
	TailOccurrences int     `yaml:"tail_occurrences" mapstructure:"tail_occurrences" validate:"gte=2"`

	SuffixMinChars     int   `yaml:"suffix_min_chars" mapstructure:"suffix_min_chars" validate:"gte=0"`
	SuffixWindow       int   `yaml:"suffix_window" mapstructure:"suffix_window" validate:"gte=1"`
	SuffixLookback     int   `yaml:"suffix_lookback" mapstructure:"suffix_lookback" validate:"gte=1"`
	SuffixProbeLengths []int `yaml:"suffix_probe_lengths" mapstructure:"suffix_probe_lengths" validate:"min=1,dive,gte=1"`
	SuffixReportChars  int   `yaml:"suffix_report_chars" mapstructure:"suffix_report_chars" validate:"gte=1"`

	RepetitionPenalty   float64 `yaml:"repetition_penalty" mapstructure:"repetition_penalty" validate:"gte=0,lte=1"`
	DiversityMinWords   int     `yaml:"diversity_min_words" mapstructure:"diversity_min_words" validate:"gte=0"`
	LowDiversityRatio   float64 `yaml:"low_diversity_ratio" mapstructure:"low_diversity_ratio" validate:"gte=0,lte=1"`
	LowDiversityPenalty float64 `yaml:"low_diversity_penalty" mapstructure:"low_diversity_penalty" validate:"gte=0,lte=1"`
	MidDiversityRatio   float64 `yaml:"mid_diversity_ratio" mapstructure:"mid_diversity_ratio" validate:"gte=0,lte=1"`
	MidDiversityPenalty float64 `yaml:"mid_diversity_penalty" mapstructure:"mid_diversity_penalty" validate:"gte=0,lte=1"`
	// Characters above the Basic Multilingual Plane count as unusual.
	UnusualCharRatio   float64 `yaml:"unusual_char_ratio" mapstructure:"unusual_char_ratio" validate:"gte=0,lte=1"`
	UnusualCharPenalty float64 `yaml:"unusual_char_penalty" mapstructure:"unusual_char_penalty" validate:"gte=0,lte=1"`
}

// DefaultThresholds returns the empirically tuned defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinChars:          50,
		MinWords:          12,
		NGramSizes:        []int{4, 3, 5},
		NGramOccurrences:  3,
		PhraseReportChars: 50,

		TailFraction:    0.25,
		TailMinChars:    40,
		TailChunkChars:  15,
		TailScanLimit:   100,
		TailScanStep:    5,
		TailOccurrences: 3,

		SuffixMinChars:     100,
		SuffixWindow:       50,
		SuffixLookback:     100,
		SuffixProbeLengths: []int{30, 40, 50},
		SuffixReportChars:  30,

		RepetitionPenalty:   0.5,
		DiversityMinWords:   10,
		LowDiversityRatio:   0.3,
		LowDiversityPenalty: 0.3,
		MidDiversityRatio:   0.5,
		MidDiversityPenalty: 0.1,
		UnusualCharRatio:    0.1,
		UnusualCharPenalty:  0.2,
	}
}

// ApplyDefaults fills zero-value fields from DefaultThresholds. Penalties
// and ratios are only defaulted together with the whole struct, since zero
// is a meaningful value for them.
func (t *Thresholds) ApplyDefaults() {
	d := DefaultThresholds()
	if t.MinWords == 0 && t.NGramOccurrences == 0 && len(t.NGramSizes) == 0 {
		*t = d
		return
	}
	if len(t.NGramSizes) == 0 {
		t.NGramSizes = d.NGramSizes
	}
	if len(t.SuffixProbeLengths) == 0 {
		t.SuffixProbeLengths = d.SuffixProbeLengths
	}
	if t.TailFraction == 0 {
		t.TailFraction = d.TailFraction
	}
	if t.TailChunkChars == 0 {
		t.TailChunkChars = d.TailChunkChars
	}
	if t.TailScanStep == 0 {
		t.TailScanStep = d.TailScanStep
	}
}

// Validate checks the thresholds.
func (t *Thresholds) Validate() error {
	if err := validation.Struct(t); err != nil {
		return fmt.Errorf("defect thresholds: %w", err)
	}
	if t.LowDiversityRatio > t.MidDiversityRatio {
		return fmt.Errorf("defect thresholds: low_diversity_ratio must not exceed mid_diversity_ratio")
	}
	return nil
}
