package summary

import (
	"fmt"
	"strings"
)

// Category values. The model may also answer with any other label; it is
// stored as given.
const (
	CategoryUnknown     = "unknown"
	CategoryPoorQuality = "poor_quality"
)

const systemPrompt = `You are an expert at analyzing audio transcriptions and creating comprehensive, actionable summaries.

RULES:
1. ONLY use information present in the transcript. Do not invent details.
2. If the transcript has errors, is garbled, or unclear, say so explicitly in the summary.
3. Mark unclear passages as [unclear in transcript].
4. Always complete your response. Never stop mid-sentence.
5. Capture every significant point and every action item mentioned.

Return your response as JSON with this structure:
{
  "summary": "Detailed summary, multiple paragraphs if needed.",
  "key_points": ["Every significant point from the transcript"],
  "action_items": ["Every task or action mentioned"],
  "category": "meeting_notes|lecture|interview|discussion|planning|memo|brainstorming|poor_quality|other"
}`

const truncationNote = "\n\n[Note: Summary was truncated due to length limits. Consider splitting the recording into sections.]"

// isEnglish accepts both ISO codes and the language names some providers
// report.
func isEnglish(language string) bool {
	switch strings.ToLower(strings.TrimSpace(language)) {
	case "", "en", "eng", "english":
		return true
	}
	return false
}

func languageNote(language string) string {
	if isEnglish(language) {
		return ""
	}
	return fmt.Sprintf(`IMPORTANT: This transcript is in %s.
- Preserve key terms and proper nouns in their original language
- Provide the summary in English
- If the transcript is unclear, note which parts are uncertain

`, language)
}

func userPrompt(text, language, instructions string) string {
	var b strings.Builder
	b.WriteString(languageNote(language))
	b.WriteString("Transcription:\n\n")
	b.WriteString(text)
	if instructions = strings.TrimSpace(instructions); instructions != "" {
		b.WriteString("\n\nAdditional instructions: ")
		b.WriteString(instructions)
	}
	return b.String()
}
