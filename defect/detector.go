package defect

import (
	"strings"
	"unicode/utf8"
)

// Assessment is the verdict for one candidate transcript.
type Assessment struct {
	Score         float64 `json:"quality_score"`
	HasRepetition bool    `json:"has_repetition"`
	// Phrase is the repeated text that triggered detection, truncated.
	Phrase string `json:"phrase,omitempty"`
}

// Detector scores transcripts. It is stateless and safe for concurrent use.
type Detector struct {
	t Thresholds
}

// New creates a Detector with the given thresholds.
func New(t Thresholds) *Detector {
	return &Detector{t: t}
}

// NewDefault creates a Detector with DefaultThresholds.
func NewDefault() *Detector {
	return New(DefaultThresholds())
}

// Assess runs repetition detection once and derives the quality score.
func (d *Detector) Assess(text string) Assessment {
	rep, phrase := d.DetectRepetition(text)
	return Assessment{
		Score:         d.score(text, rep),
		HasRepetition: rep,
		Phrase:        phrase,
	}
}

// QualityScore returns a score in [0,1]; empty text scores 0.
func (d *Detector) QualityScore(text string) float64 {
	rep, _ := d.DetectRepetition(text)
	return d.score(text, rep)
}

// DetectRepetition reports whether text shows a repetition loop and, if
// so, the phrase that gave it away.
func (d *Detector) DetectRepetition(text string) (bool, string) {
	runes := []rune(text)
	if len(runes) < d.t.MinChars {
		return false, ""
	}
	words := strings.Fields(text)
	if len(words) < d.t.MinWords {
		return false, ""
	}

	if phrase, ok := d.repeatedNGram(words); ok {
		return true, phrase
	}
	if chunk, ok := d.tailLoop(runes); ok {
		return true, chunk
	}
	if chunk, ok := d.repeatedSuffix(runes); ok {
		return true, chunk
	}
	return false, ""
}

// repeatedNGram looks for an n-gram that occurs NGramOccurrences times:
// once at its offset and the rest in the text that follows. Offsets stop
// where the remaining words could no longer hold enough copies.
func (d *Detector) repeatedNGram(words []string) (string, bool) {
	need := d.t.NGramOccurrences - 1
	for _, n := range d.t.NGramSizes {
		for i := 0; i < len(words)-n*d.t.NGramOccurrences; i++ {
			phrase := strings.Join(words[i:i+n], " ")
			rest := strings.Join(words[i+n:], " ")
			if strings.Count(rest, phrase) >= need {
				return truncate(phrase, d.t.PhraseReportChars), true
			}
		}
	}
	return "", false
}

// tailLoop scans the last part of the text for a short chunk that repeats
// within it, the signature of a decoder stuck near the end.
func (d *Detector) tailLoop(runes []rune) (string, bool) {
	start := int(float64(len(runes)) * (1 - d.t.TailFraction))
	tail := runes[start:]
	if len(tail) <= d.t.TailMinChars {
		return "", false
	}

	size := d.t.TailChunkChars
	limit := min(len(tail)-2*size, d.t.TailScanLimit)
	tailText := string(tail)
	for i := 0; i < limit; i += d.t.TailScanStep {
		chunk := string(tail[i : i+size])
		if strings.Count(tailText, chunk) >= d.t.TailOccurrences {
			return chunk, true
		}
	}
	return "", false
}

// repeatedSuffix checks whether the start of the final window already
// appears in the text just before it.
func (d *Detector) repeatedSuffix(runes []rune) (string, bool) {
	n := len(runes)
	if n <= d.t.SuffixMinChars || n < d.t.SuffixWindow {
		return "", false
	}
	window := runes[n-d.t.SuffixWindow:]
	lookback := string(runes[max(0, n-d.t.SuffixWindow-d.t.SuffixLookback) : n-d.t.SuffixWindow])

	for _, length := range d.t.SuffixProbeLengths {
		if length > len(window) {
			continue
		}
		chunk := string(window[:length])
		if strings.Contains(lookback, chunk) {
			return truncate(chunk, d.t.SuffixReportChars), true
		}
	}
	return "", false
}

func (d *Detector) score(text string, repetition bool) float64 {
	if text == "" {
		return 0
	}
	score := 1.0
	if repetition {
		score -= d.t.RepetitionPenalty
	}

	words := strings.Fields(text)
	if len(words) > d.t.DiversityMinWords {
		unique := make(map[string]struct{}, len(words))
		for _, w := range words {
			unique[w] = struct{}{}
		}
		ratio := float64(len(unique)) / float64(len(words))
		if ratio < d.t.LowDiversityRatio {
			score -= d.t.LowDiversityPenalty
		} else if ratio < d.t.MidDiversityRatio {
			score -= d.t.MidDiversityPenalty
		}
	}

	var unusual int
	for _, r := range text {
		if r > 0xFFFF {
			unusual++
		}
	}
	if float64(unusual) > float64(utf8.RuneCountInString(text))*d.t.UnusualCharRatio {
		score -= d.t.UnusualCharPenalty
	}

	return max(0, min(1, score))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

var defaultDetector = NewDefault()

// DetectRepetition runs the default detector.
func DetectRepetition(text string) (bool, string) {
	return defaultDetector.DetectRepetition(text)
}

// QualityScore runs the default detector.
func QualityScore(text string) float64 {
	return defaultDetector.QualityScore(text)
}
