package ai

import (
	"fmt"

	"medibot/internal/lang"
)

// Prompt builders for each AI capability. These are pure functions: no I/O,
// deterministic for identical inputs. The gateway itself keeps no session
// state, so any conversation context must be embedded here by the caller.

const translationGuidelines = `Guidelines:
- Maintain medical accuracy while using simple, clear language
- Use terms that rural and urban users can understand
- Preserve medical terminology context
- If medical terms don't have direct translations, provide explanations
- Ensure cultural sensitivity in medical contexts
- For symptoms, use commonly understood descriptions
- For medications, provide both generic and common names if applicable`

const chatGuidelines = `Guidelines:
- Provide helpful, accurate medical information in simple language
- Always emphasize consulting healthcare professionals for diagnosis and treatment
- Be culturally sensitive and aware of Indian healthcare practices
- For symptoms, provide general guidance but stress professional consultation
- Offer practical home remedies when appropriate, with safety warnings
- Recognize emergency situations and advise immediate medical attention
- Use everyday language that people without medical background can understand
- Be empathetic and supportive in your tone
- Provide step-by-step instructions for basic health queries
- Include relevant dietary and lifestyle suggestions when appropriate`

const structuringGuidelines = `Guidelines:
- Correct common OCR errors in medication names
- Standardize dosage formats
- Extract timing information (morning, evening, after meals, etc.)
- Include any special instructions or warnings
- Mark uncertain extractions with [?] notation`

// TranslationPrompt frames a medical translation request between the two
// named languages and asks for the bare translation as output.
func TranslationPrompt(text, sourceName, targetName string) string {
	return fmt.Sprintf(`You are an expert medical translator specializing in healthcare communication for Indian users.

Task: Translate the following %s text to %s

%s

Text to translate: "%s"

Important: Provide ONLY the translation without explanations, prefixes, or additional text.`,
		sourceName, targetName, translationGuidelines, text)
}

// ChatPrompt frames a healthcare-assistant turn, embedding the response
// language, any prior conversation context, and the user message.
func ChatPrompt(message, language, context string) string {
	var langInstruction string
	switch {
	case language == "hi":
		langInstruction = "Respond in Hindi (Devanagari script) using simple, clear language."
	case language != lang.Default:
		langInstruction = fmt.Sprintf("Respond in %s using simple, clear language.", lang.Name(language, "the user language"))
	default:
		langInstruction = "Respond in English using simple, clear language."
	}

	contextInfo := ""
	if context != "" {
		contextInfo = fmt.Sprintf("Previous conversation context: %s\n\n", context)
	}

	return fmt.Sprintf(`You are MediBot, an AI healthcare assistant designed for Indian users, especially those in rural areas.

%s

%s%s

IMPORTANT: You are not a replacement for professional medical advice. Always recommend consulting qualified healthcare providers.

User message: %s`,
		langInstruction, contextInfo, chatGuidelines, message)
}

// DetectLanguagePrompt asks for a bare two-letter language code.
func DetectLanguagePrompt(text string) string {
	return fmt.Sprintf(`Detect the language of this text and return only the language code (en, hi, ta, te, bn, gu, mr, kn, ml, or, pa, as, ur).

Text: "%s"

Return only the two-letter language code.`, text)
}

// StructuringPrompt asks the model to turn raw OCR text from a prescription
// into a fixed JSON schema, and nothing else.
func StructuringPrompt(rawText string) string {
	return fmt.Sprintf(`You are a medical prescription analyzer. Extract and structure information from this prescription text with high accuracy.

Raw OCR Text:
%s

Extract the following information and return as valid JSON:
{
    "medications": ["list of medication names with proper spelling"],
    "dosages": ["list of dosages with units (mg, ml, etc.)"],
    "frequency": ["how often to take each medication (e.g., twice daily, once daily)"],
    "instructions": "detailed instructions for taking medications",
    "duration": "duration of treatment if mentioned",
    "doctor_name": "prescribing doctor's name if visible",
    "date": "prescription date if visible",
    "confidence": "high/medium/low based on text clarity"
}

%s

Return only valid JSON without any additional text.`, rawText, structuringGuidelines)
}
