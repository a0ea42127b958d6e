package core

import "context"

// Confidence is the quality indicator attached to AI-derived results.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// normalizeConfidence clamps a model-reported value to the three known
// levels; anything else becomes medium.
func normalizeConfidence(value string) Confidence {
	switch Confidence(value) {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
		return Confidence(value)
	default:
		return ConfidenceMedium
	}
}

// TextGenerator is the AI gateway as seen by the core services.
type TextGenerator interface {
	Available() bool
	Generate(ctx context.Context, prompt string) (string, error)
}

// ImageReader converts an uploaded image to raw text.
type ImageReader interface {
	Recognize(ctx context.Context, image []byte) (string, error)
}

// TranslationResult is built per request and returned to the HTTP layer;
// it is never mutated after construction.
type TranslationResult struct {
	TranslatedText string     `json:"translated_text"`
	SourceLang     string     `json:"source_lang"`
	TargetLang     string     `json:"target_lang"`
	SourceName     string     `json:"source_name,omitempty"`
	TargetName     string     `json:"target_name,omitempty"`
	Confidence     Confidence `json:"confidence,omitempty"`
	Timestamp      string     `json:"timestamp,omitempty"`
	Error          string     `json:"error,omitempty"`
	NeedsAPIKey    bool       `json:"needs_api_key,omitempty"`
}

// ChatResult carries a single chatbot turn. EmergencyDetected is computed
// from the user message alone and is never suppressed by the AI response.
type ChatResult struct {
	Response          string     `json:"response"`
	Language          string     `json:"language"`
	EmergencyDetected bool       `json:"emergency_detected"`
	Suggestions       []string   `json:"suggestions"`
	Confidence        Confidence `json:"confidence,omitempty"`
	Timestamp         string     `json:"timestamp,omitempty"`
	Error             string     `json:"error,omitempty"`
	NeedsAPIKey       bool       `json:"needs_api_key,omitempty"`
}

// Extraction is the structured record produced by the prescription pipeline.
// Medication, dosage and frequency lists are deduplicated and never nil.
type Extraction struct {
	RawText        string     `json:"raw_text"`
	Medications    []string   `json:"medications"`
	Dosages        []string   `json:"dosages"`
	Frequency      []string   `json:"frequency"`
	Instructions   string     `json:"instructions"`
	Duration       string     `json:"duration,omitempty"`
	DoctorName     string     `json:"doctor_name,omitempty"`
	Date           string     `json:"date,omitempty"`
	Confidence     Confidence `json:"confidence"`
	ProcessingTime string     `json:"processing_time,omitempty"`
	Error          string     `json:"error,omitempty"`
	NeedsAPIKey    bool       `json:"needs_api_key,omitempty"`
	ScanID         int64      `json:"scan_id,omitempty"`
}

// VoiceInfo describes text-to-speech capability for a piece of text. The
// service produces no audio itself; synthesis happens in the browser.
type VoiceInfo struct {
	Text            string `json:"text"`
	Language        string `json:"language"`
	VoiceAvailable  bool   `json:"voice_available"`
	SynthesisMethod string `json:"synthesis_method,omitempty"`
}

// SynthesisInfo returns the capability descriptor for browser-native TTS.
func SynthesisInfo(text, language string) *VoiceInfo {
	return &VoiceInfo{
		Text:            text,
		Language:        language,
		VoiceAvailable:  true,
		SynthesisMethod: "browser_native",
	}
}
