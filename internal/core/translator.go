package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"medibot/internal/ai"
	"medibot/internal/lang"
)

// Translator performs AI-assisted medical translation and language
// detection. All failures degrade to a result carrying the original text.
type Translator struct {
	gateway TextGenerator
}

func NewTranslator(gateway TextGenerator) *Translator {
	return &Translator{gateway: gateway}
}

// Translate converts text between the two language codes. Empty input is
// rejected before any external call. When the gateway is unavailable or the
// call fails, the result carries a service-unavailable marker with the
// original text so the caller never loses the input.
func (t *Translator) Translate(ctx context.Context, text, sourceLang, targetLang string) *TranslationResult {
	result := &TranslationResult{
		SourceLang: sourceLang,
		TargetLang: targetLang,
	}

	if strings.TrimSpace(text) == "" {
		result.Error = "Empty text provided"
		return result
	}

	sourceName := lang.Name(sourceLang, "English")
	targetName := lang.Name(targetLang, "Hindi (हिंदी)")
	result.SourceName = sourceName
	result.TargetName = targetName

	if !t.gateway.Available() {
		result.Error = "Translation service unavailable"
		result.TranslatedText = fmt.Sprintf("Service unavailable. Original text: %s", text)
		result.NeedsAPIKey = true
		return result
	}

	prompt := ai.TranslationPrompt(text, sourceName, targetName)
	out, err := t.gateway.Generate(ctx, prompt)
	if err != nil {
		result.Error = "Translation failed"
		result.TranslatedText = fmt.Sprintf("Translation service error. Original text: %s", text)
		return result
	}

	// Strip any quotation marks the model wrapped around the translation.
	result.TranslatedText = strings.Trim(out, `"'`)
	result.Confidence = ConfidenceHigh
	result.Timestamp = time.Now().Format(time.RFC3339)
	return result
}

// DetectLanguage returns the language code of text, defaulting to "en" on
// any failure or unrecognized answer. It never errors.
func (t *Translator) DetectLanguage(ctx context.Context, text string) string {
	if !t.gateway.Available() {
		return lang.Default
	}

	out, err := t.gateway.Generate(ctx, ai.DetectLanguagePrompt(text))
	if err != nil {
		return lang.Default
	}

	detected := strings.ToLower(strings.TrimSpace(out))
	if lang.IsSupported(detected) {
		return detected
	}
	return lang.Default
}
