package defect

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// words returns "w000 w001 ..." for [from, to).
func words(from, to int) string {
	parts := make([]string, 0, to-from)
	for i := from; i < to; i++ {
		parts = append(parts, fmt.Sprintf("w%03d", i))
	}
	return strings.Join(parts, " ")
}

func TestDetectRepetition_RepeatedPhrase(t *testing.T) {
	text := strings.TrimSpace(strings.Repeat("thank you for watching ", 5))

	rep, phrase := DetectRepetition(text)

	assert.True(t, rep)
	assert.Equal(t, "thank you for watching", phrase)
}

func TestDetectRepetition_UniqueWords(t *testing.T) {
	rep, phrase := DetectRepetition(words(0, 200))

	assert.False(t, rep)
	assert.Empty(t, phrase)
}

func TestDetectRepetition_ShortTextsExempt(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"under char minimum", "again again again again again again again"},
		{"under word minimum", strings.TrimSpace(strings.Repeat("hallelujah ", 8))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep, phrase := DetectRepetition(tt.text)
			assert.False(t, rep)
			assert.Empty(t, phrase)
		})
	}
}

func TestDetectRepetition_TailLoop(t *testing.T) {
	// A single unbroken token looping at the end evades the word scan.
	text := words(0, 30) + " " + strings.Repeat("la", 30)

	rep, chunk := DetectRepetition(text)

	require.True(t, rep)
	assert.Len(t, []rune(chunk), 15)
	assert.Contains(t, strings.Repeat("la", 30), chunk)
}

func TestDetectRepetition_RepeatedSuffix(t *testing.T) {
	echo := "maybe we should circle back to"
	require.Len(t, echo, 30)
	text := words(0, 20) + " " + echo + " " + words(50, 53) + " " + echo + " " + words(100, 104)

	rep, chunk := DetectRepetition(text)

	require.True(t, rep)
	assert.Equal(t, echo, chunk)
}

func TestDetectRepetition_LongPhraseTruncated(t *testing.T) {
	th := DefaultThresholds()
	th.NGramSizes = []int{12}
	th.MinWords = 1
	d := New(th)
	unit := "supercalifragilistic expialidocious antidisestablishmentarianism "
	text := strings.Repeat(unit, 20)

	rep, phrase := d.DetectRepetition(text)

	require.True(t, rep)
	assert.Len(t, []rune(phrase), th.PhraseReportChars)
}

func TestQualityScore(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{"empty", "", 0},
		{"clean", words(0, 200), 1.0},
		{"repetition with low diversity", strings.TrimSpace(strings.Repeat("thank you for watching ", 5)), 0.2},
		{"mid diversity", "one two three four five one two three four five one", 0.9},
		{"low diversity", "a b c a b c a b c a b", 0.7},
		{"unusual characters", "🎵🎵🎵 hello", 0.8},
		{"few words skip diversity", "yes yes yes", 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, QualityScore(tt.text), 1e-9)
		})
	}
}

func TestQualityScore_Clamped(t *testing.T) {
	th := DefaultThresholds()
	th.RepetitionPenalty = 0.9
	th.LowDiversityPenalty = 0.9
	d := New(th)

	score := d.QualityScore(strings.TrimSpace(strings.Repeat("thank you for watching ", 5)))

	assert.Equal(t, 0.0, score)
}

func TestAssess(t *testing.T) {
	a := NewDefault().Assess(strings.TrimSpace(strings.Repeat("thank you for watching ", 5)))

	assert.True(t, a.HasRepetition)
	assert.Equal(t, "thank you for watching", a.Phrase)
	assert.InDelta(t, 0.2, a.Score, 1e-9)
}

func TestThresholds_Defaults(t *testing.T) {
	var th Thresholds
	th.ApplyDefaults()
	assert.Equal(t, DefaultThresholds(), th)
	require.NoError(t, th.Validate())

	partial := Thresholds{MinChars: 10, MinWords: 3, NGramOccurrences: 2}
	partial.ApplyDefaults()
	assert.Equal(t, []int{4, 3, 5}, partial.NGramSizes)
	assert.Equal(t, 10, partial.MinChars)
}

func TestThresholds_Validate(t *testing.T) {
	th := DefaultThresholds()
	th.LowDiversityRatio = 0.6
	assert.Error(t, th.Validate())

	th = DefaultThresholds()
	th.TailFraction = 0
	assert.Error(t, th.Validate())
}
