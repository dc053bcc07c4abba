// Package summary enriches a stored transcription with an LLM-generated
// structured summary: an overview, key points, action items and a content
// category.
//
// The model is asked for JSON. Fenced or prose-wrapped JSON is unwrapped;
// a reply that still does not parse is kept whole as the summary text with
// category "unknown". Replies cut off by the token limit get a visible
// note appended. Enrichment is best effort: Enrich logs failures and never
// returns them.
package summary
