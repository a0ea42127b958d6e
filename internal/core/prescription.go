package core

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"medibot/internal/ai"
	"medibot/internal/extract"
)

const (
	noTextMessage       = "No text could be extracted from the image. Please ensure the image is clear and contains readable text."
	manualReviewNotice  = "AI processing unavailable. Please review the extracted text manually."
	retryMessage        = "Please try again with a clearer image or enter details manually."
	genericErrorMessage = "Failed to process prescription image"
)

// PrescriptionService turns an uploaded prescription image into a structured
// medication record: OCR, then AI structuring, with regex heuristics as the
// fallback. It never propagates a raw error; every outcome is an Extraction.
type PrescriptionService struct {
	gateway TextGenerator
	reader  ImageReader
}

func NewPrescriptionService(gateway TextGenerator, reader ImageReader) *PrescriptionService {
	return &PrescriptionService{gateway: gateway, reader: reader}
}

// Extract runs the full pipeline over the image bytes.
func (s *PrescriptionService) Extract(ctx context.Context, image []byte) *Extraction {
	rawText, err := s.reader.Recognize(ctx, image)
	if err != nil {
		return errorExtraction(fmt.Sprintf("%s: %v", genericErrorMessage, err))
	}

	if strings.TrimSpace(rawText) == "" {
		return &Extraction{
			Error:       noTextMessage,
			RawText:     "",
			Medications: []string{},
			Dosages:     []string{},
			Frequency:   []string{},
			Confidence:  ConfidenceLow,
		}
	}

	if !s.gateway.Available() {
		// Heuristic-only mode: the structuring prompt path is never taken.
		return &Extraction{
			RawText:      rawText,
			Medications:  extract.Medications(rawText),
			Dosages:      extract.Dosages(rawText),
			Frequency:    []string{},
			Instructions: manualReviewNotice,
			Confidence:   ConfidenceMedium,
			NeedsAPIKey:  true,
		}
	}

	response, err := s.gateway.Generate(ctx, ai.StructuringPrompt(rawText))
	if err != nil {
		return errorExtraction(fmt.Sprintf("%s: %v", genericErrorMessage, err))
	}

	outcome := structureResponse(response, rawText)
	if outcome.parsed != nil {
		return outcome.parsed
	}

	// Malformed JSON from the model: keep its text as instructions and let
	// the pattern heuristics fill in medications and dosages.
	return &Extraction{
		RawText:        rawText,
		Medications:    extract.Medications(rawText),
		Dosages:        extract.Dosages(rawText),
		Frequency:      []string{},
		Instructions:   outcome.rawResponse,
		Confidence:     ConfidenceMedium,
		ProcessingTime: time.Now().Format(time.RFC3339),
	}
}

// structuringOutcome is either a parsed record or the raw model text for the
// heuristic fallback, never both.
type structuringOutcome struct {
	parsed      *Extraction
	rawResponse string
}

// structuredPayload mirrors the JSON schema requested by the structuring
// prompt. List fields decode as any so a non-list value from the model can
// be coerced to an empty list instead of failing the whole parse.
type structuredPayload struct {
	Medications  any    `json:"medications"`
	Dosages      any    `json:"dosages"`
	Frequency    any    `json:"frequency"`
	Instructions string `json:"instructions"`
	Duration     string `json:"duration"`
	DoctorName   string `json:"doctor_name"`
	Date         string `json:"date"`
	Confidence   string `json:"confidence"`
}

func structureResponse(response, ocrText string) structuringOutcome {
	cleaned := stripCodeFence(response)

	var payload structuredPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return structuringOutcome{rawResponse: response}
	}

	return structuringOutcome{parsed: &Extraction{
		// Always the real OCR output; the model's echo of it is not trusted.
		RawText:        ocrText,
		Medications:    toStringList(payload.Medications),
		Dosages:        toStringList(payload.Dosages),
		Frequency:      toStringList(payload.Frequency),
		Instructions:   payload.Instructions,
		Duration:       payload.Duration,
		DoctorName:     payload.DoctorName,
		Date:           payload.Date,
		Confidence:     normalizeConfidence(payload.Confidence),
		ProcessingTime: time.Now().Format(time.RFC3339),
	}}
}

// toStringList coerces a decoded JSON value to a deduplicated string list;
// anything that is not a list of strings becomes an empty list.
func toStringList(value any) []string {
	items, ok := value.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return extract.Dedupe(out)
}

// stripCodeFence removes a Markdown code block wrapper if the model added
// one despite the JSON-only instruction.
func stripCodeFence(text string) string {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimSuffix(cleaned, "```")
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(cleaned, "```")
	}
	return strings.TrimSpace(cleaned)
}

func errorExtraction(message string) *Extraction {
	return &Extraction{
		Error:        message,
		RawText:      "",
		Medications:  []string{},
		Dosages:      []string{},
		Frequency:    []string{},
		Instructions: retryMessage,
		Confidence:   ConfidenceLow,
	}
}
