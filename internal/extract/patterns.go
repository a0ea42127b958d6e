package extract

import (
	"regexp"
	"strings"
)

// Lexical heuristics for pulling medication and dosage candidates out of raw
// OCR text. They are a fallback for when AI structuring is unavailable or
// returns something unparseable; the lists are fixed tables, not a parser.

var medicationPatterns = []*regexp.Regexp{
	// Common pharmaceutical suffixes (amoxicillin, atenolol, ...).
	regexp.MustCompile(`(?i)\b[a-z]{2,}(?:cillin|mycin|pril|sartan|olol|pine|zide|statin)\b`),
	// "Tab Paracetamol", "Syrup Benadryl" style prefixed forms; the capture
	// group holds the medication name itself.
	regexp.MustCompile(`(?i)\b(?:Tab|Tablet|Cap|Capsule|Syrup|Injection)\s+([A-Za-z]+(?:\s+[A-Za-z]+)?)\b`),
}

var dosagePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b\d+\s*(?:mg|ml|g|mcg|units?)\b`),
	// Combination forms like "500/125 mg".
	regexp.MustCompile(`(?i)\b\d+/\d+\s*(?:mg|ml|g|mcg)\b`),
}

var suggestionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)try\s+([^.]+)`),
	regexp.MustCompile(`(?i)consider\s+([^.]+)`),
	regexp.MustCompile(`(?i)you\s+(?:should|could|might)\s+([^.]+)`),
}

const maxSuggestions = 3

// Medications returns deduplicated medication-name candidates found in text.
// It never fails; no matches yields an empty list.
func Medications(text string) []string {
	var found []string
	for _, pattern := range medicationPatterns {
		for _, m := range pattern.FindAllStringSubmatch(text, -1) {
			if len(m) > 1 && m[1] != "" {
				found = append(found, m[1])
			} else {
				found = append(found, m[0])
			}
		}
	}
	return Dedupe(found)
}

// Dosages returns deduplicated dosage strings (digits plus a unit) found in
// text.
func Dosages(text string) []string {
	var found []string
	for _, pattern := range dosagePatterns {
		found = append(found, pattern.FindAllString(text, -1)...)
	}
	return Dedupe(found)
}

// Suggestions pulls actionable phrases ("try ...", "consider ...",
// "you should ...") out of a chatbot response, capped at three.
func Suggestions(response string) []string {
	suggestions := []string{}
	for _, pattern := range suggestionPatterns {
		for _, m := range pattern.FindAllStringSubmatch(response, -1) {
			if len(suggestions) >= maxSuggestions {
				return suggestions
			}
			suggestions = append(suggestions, strings.TrimSpace(m[1]))
		}
	}
	return suggestions
}

// Dedupe removes duplicate entries case-insensitively, keeping the first
// occurrence and its original order. Always returns a non-nil slice so
// results serialize as JSON arrays rather than null.
func Dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := []string{}
	for _, item := range items {
		key := strings.ToLower(item)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}
