package core

import (
	"context"
	"strings"
	"time"

	"medibot/internal/ai"
	"medibot/internal/extract"
	"medibot/internal/lang"
)

// emergencyKeywords is matched case-insensitively against the user message,
// independently of the AI call. Languages without their own list fall back
// to the English one.
var emergencyKeywords = map[string][]string{
	"en": {"emergency", "urgent", "help", "pain", "bleeding", "chest pain", "heart attack", "stroke", "unconscious", "breathing problem", "severe", "critical"},
	"hi": {"आपातकाल", "जरूरी", "मदद", "दर्द", "खून", "सीने में दर्द", "दिल का दौरा", "स्ट्रोक", "बेहोश", "सांस की समस्या", "गंभीर"},
}

// Static fallbacks always carry the 108 emergency guidance so the
// safety-critical part of the answer survives AI outages.
var unavailableResponses = map[string]string{
	"en": "I'm currently unavailable. For medical emergencies, call 108 immediately. For non-urgent care, please consult a healthcare professional.",
	"hi": "मैं अभी उपलब्ध नहीं हूं। चिकित्सा आपातकाल के लिए, तुरंत 108 पर कॉल करें। गैर-जरूरी देखभाल के लिए, कृपया एक स्वास्थ्य पेशेवर से सलाह लें।",
}

var failureResponses = map[string]string{
	"en": "I'm having technical difficulties. For medical emergencies, call 108. For other health concerns, please consult a healthcare professional.",
	"hi": "मुझे तकनीकी समस्या हो रही है। चिकित्सा आपातकाल के लिए 108 पर कॉल करें। अन्य स्वास्थ्य चिंताओं के लिए, कृपया एक स्वास्थ्य पेशेवर से सलाह लें।",
}

// Chatbot answers health questions through the AI gateway and annotates each
// turn with emergency detection and extracted suggestions.
type Chatbot struct {
	gateway TextGenerator
}

func NewChatbot(gateway TextGenerator) *Chatbot {
	return &Chatbot{gateway: gateway}
}

// Respond produces one chatbot turn. priorContext is earlier conversation
// text supplied by the caller; the gateway itself keeps no session state.
func (c *Chatbot) Respond(ctx context.Context, message, language, priorContext string) *ChatResult {
	result := &ChatResult{
		Language:          language,
		Suggestions:       []string{},
		EmergencyDetected: detectEmergency(message, language),
	}

	if strings.TrimSpace(message) == "" {
		result.Response = "Please provide a message for me to respond to."
		result.Error = ErrEmptyInput.Error()
		return result
	}

	if !c.gateway.Available() {
		result.Response = fallbackFor(unavailableResponses, language)
		result.NeedsAPIKey = true
		return result
	}

	out, err := c.gateway.Generate(ctx, ai.ChatPrompt(message, language, priorContext))
	if err != nil {
		result.Response = fallbackFor(failureResponses, language)
		result.Error = err.Error()
		return result
	}

	result.Response = out
	result.Confidence = ConfidenceHigh
	result.Timestamp = time.Now().Format(time.RFC3339)
	// Suggestion extraction is disabled on emergencies; the flag itself is
	// never cleared by the AI result.
	if !result.EmergencyDetected {
		result.Suggestions = extract.Suggestions(out)
	}
	return result
}

func detectEmergency(message, language string) bool {
	keywords, ok := emergencyKeywords[language]
	if !ok {
		keywords = emergencyKeywords[lang.Default]
	}
	lower := strings.ToLower(message)
	for _, keyword := range keywords {
		if strings.Contains(lower, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}

func fallbackFor(responses map[string]string, language string) string {
	if resp, ok := responses[language]; ok {
		return resp
	}
	return responses[lang.Default]
}
