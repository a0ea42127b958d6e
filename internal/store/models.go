package store

import "time"

type TranslationRecord struct {
	ID             int64     `json:"id"`
	OriginalText   string    `json:"original_text"`
	TranslatedText string    `json:"translated_text"`
	SourceLanguage string    `json:"source_language"`
	TargetLanguage string    `json:"target_language"`
	Timestamp      time.Time `json:"timestamp"`
}

type ChatRecord struct {
	ID          int64     `json:"id"`
	SessionID   string    `json:"session_id"`
	UserMessage string    `json:"user_message"`
	BotResponse string    `json:"bot_response"`
	Language    string    `json:"language"`
	Timestamp   time.Time `json:"timestamp"`
}

// ScanRecord persists one prescription scan. Medications and Dosages hold
// the extracted lists as JSON strings.
type ScanRecord struct {
	ID            int64     `json:"id"`
	ExtractedText string    `json:"extracted_text"`
	Medications   string    `json:"medications"`
	Dosages       string    `json:"dosages"`
	Instructions  string    `json:"instructions"`
	Timestamp     time.Time `json:"timestamp"`
}

// Reminder is a medication reminder entry. TimeSlots holds the times of day
// as a JSON string. Deletion is a soft deactivate via IsActive.
type Reminder struct {
	ID             int64      `json:"id"`
	MedicationName string     `json:"medication_name"`
	Dosage         string     `json:"dosage"`
	Frequency      string     `json:"frequency"`
	TimeSlots      string     `json:"time_slots"`
	Notes          string     `json:"notes,omitempty"`
	StartDate      time.Time  `json:"start_date"`
	EndDate        *time.Time `json:"end_date,omitempty"` // Nullable
	IsActive       bool       `json:"is_active"`
	CreatedAt      time.Time  `json:"created_at"`
}

// Settings are per-user preferences, keyed by the session user ID.
// SettingsData carries any extra client preferences as a JSON string.
type Settings struct {
	ID                   int64     `json:"id"`
	UserID               string    `json:"user_id"`
	Theme                string    `json:"theme"`
	Language             string    `json:"language"`
	VoiceEnabled         bool      `json:"voice_enabled"`
	NotificationsEnabled bool      `json:"notifications_enabled"`
	SettingsData         string    `json:"settings_data"`
	UpdatedAt            time.Time `json:"updated_at"`
}
