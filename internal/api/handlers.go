package api

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"medibot/internal/core"
	"medibot/internal/lang"
	"medibot/internal/store"
)

// allowedImageExtensions limits prescription uploads to image files.
var allowedImageExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".bmp": true, ".tiff": true,
}

const maxUploadBytes = 10 << 20 // 10 MiB

type APIHandler struct {
	translator    *core.Translator
	chatbot       *core.Chatbot
	prescriptions *core.PrescriptionService
	gateway       core.TextGenerator
	store         *store.SQLiteStore
}

func NewAPIHandler(translator *core.Translator, chatbot *core.Chatbot, prescriptions *core.PrescriptionService, gateway core.TextGenerator, db *store.SQLiteStore) *APIHandler {
	return &APIHandler{
		translator:    translator,
		chatbot:       chatbot,
		prescriptions: prescriptions,
		gateway:       gateway,
		store:         db,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func errorBody(message string) map[string]any {
	return map[string]any{"error": message}
}

func setupRequiredBody(errMsg, detail string) map[string]any {
	return map[string]any{
		"error":       errMsg,
		"needs_setup": true,
		"message":     detail,
	}
}

// sessionValue returns the named session cookie, minting a new UUID and
// setting the cookie when absent.
func sessionValue(w http.ResponseWriter, r *http.Request, name string) string {
	if c, err := r.Cookie(name); err == nil && c.Value != "" {
		return c.Value
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{Name: name, Value: id, Path: "/", HttpOnly: true})
	return id
}

type TranslateRequest struct {
	Text       string `json:"text"`
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang"`
	AutoDetect bool   `json:"auto_detect"`
}

type TranslateResponse struct {
	Success        bool            `json:"success"`
	TranslatedText string          `json:"translated_text"`
	SourceLang     string          `json:"source_lang"`
	TargetLang     string          `json:"target_lang"`
	SourceName     string          `json:"source_name"`
	TargetName     string          `json:"target_name"`
	Confidence     core.Confidence `json:"confidence"`
	VoiceAvailable bool            `json:"voice_available"`
	VoiceSynthesis *core.VoiceInfo `json:"voice_synthesis"`
}

func (h *APIHandler) TranslateHandler(w http.ResponseWriter, r *http.Request) {
	var req TranslateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("Invalid request body"))
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("Text is required"))
		return
	}

	sourceLang := req.SourceLang
	if sourceLang == "" {
		sourceLang = lang.Default
	}
	targetLang := req.TargetLang
	if targetLang == "" {
		targetLang = "hi"
	}

	if req.AutoDetect {
		if detected := h.translator.DetectLanguage(r.Context(), req.Text); detected != sourceLang {
			sourceLang = detected
		}
	}

	result := h.translator.Translate(r.Context(), req.Text, sourceLang, targetLang)
	if result.Error != "" {
		if result.NeedsAPIKey {
			writeJSON(w, http.StatusServiceUnavailable, setupRequiredBody(
				"Translation service requires API key",
				"Please configure GEMINI_API_KEY to enable AI translation"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorBody(result.Error))
		return
	}

	// History persistence is best-effort; a storage failure never fails the
	// translation itself.
	rec := store.TranslationRecord{
		OriginalText:   req.Text,
		TranslatedText: result.TranslatedText,
		SourceLanguage: sourceLang,
		TargetLanguage: targetLang,
	}
	if err := h.store.SaveTranslation(&rec); err != nil {
		log.Printf("Warning: failed to save translation history: %v", err)
	}

	voiceInfo := core.SynthesisInfo(result.TranslatedText, targetLang)
	writeJSON(w, http.StatusOK, TranslateResponse{
		Success:        true,
		TranslatedText: result.TranslatedText,
		SourceLang:     sourceLang,
		TargetLang:     targetLang,
		SourceName:     result.SourceName,
		TargetName:     result.TargetName,
		Confidence:     result.Confidence,
		VoiceAvailable: voiceInfo.VoiceAvailable,
		VoiceSynthesis: voiceInfo,
	})
}

type ChatRequest struct {
	Message  string `json:"message"`
	Language string `json:"language"`
	Context  string `json:"context"`
}

type ChatResponse struct {
	Success           bool            `json:"success"`
	Response          string          `json:"response"`
	Language          string          `json:"language"`
	EmergencyDetected bool            `json:"emergency_detected"`
	Suggestions       []string        `json:"suggestions"`
	Confidence        core.Confidence `json:"confidence"`
	NeedsAPIKey       bool            `json:"needs_api_key,omitempty"`
	VoiceAvailable    bool            `json:"voice_available"`
	VoiceSynthesis    *core.VoiceInfo `json:"voice_synthesis"`
}

func (h *APIHandler) ChatHandler(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("Invalid request body"))
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("Message is required"))
		return
	}
	language := req.Language
	if language == "" {
		language = lang.Default
	}

	sessionID := sessionValue(w, r, "chat_session")

	result := h.chatbot.Respond(r.Context(), req.Message, language, req.Context)
	if result.Error != "" {
		writeJSON(w, http.StatusInternalServerError, errorBody(result.Error))
		return
	}

	rec := store.ChatRecord{
		SessionID:   sessionID,
		UserMessage: req.Message,
		BotResponse: result.Response,
		Language:    language,
	}
	if err := h.store.SaveChat(&rec); err != nil {
		log.Printf("Warning: failed to save chat history: %v", err)
	}

	voiceInfo := core.SynthesisInfo(result.Response, language)
	writeJSON(w, http.StatusOK, ChatResponse{
		Success:           true,
		Response:          result.Response,
		Language:          language,
		EmergencyDetected: result.EmergencyDetected,
		Suggestions:       result.Suggestions,
		Confidence:        result.Confidence,
		NeedsAPIKey:       result.NeedsAPIKey,
		VoiceAvailable:    voiceInfo.VoiceAvailable,
		VoiceSynthesis:    voiceInfo,
	})
}

func (h *APIHandler) ScanPrescriptionHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("No image provided"))
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("No image provided"))
		return
	}
	defer file.Close()

	if header.Filename == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("No image selected"))
		return
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedImageExtensions[ext] {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":   "Invalid file type",
			"message": "Please upload an image file (PNG, JPG, JPEG, GIF, BMP, TIFF)",
		})
		return
	}

	image, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody("Failed to read image"))
		return
	}

	result := h.prescriptions.Extract(r.Context(), image)
	if result.Error != "" {
		writeJSON(w, http.StatusBadRequest, errorBody(result.Error))
		return
	}

	medications, _ := json.Marshal(result.Medications)
	dosages, _ := json.Marshal(result.Dosages)
	rec := store.ScanRecord{
		ExtractedText: result.RawText,
		Medications:   string(medications),
		Dosages:       string(dosages),
		Instructions:  result.Instructions,
	}
	if err := h.store.SaveScan(&rec); err != nil {
		log.Printf("Warning: failed to save prescription scan: %v", err)
	} else {
		result.ScanID = rec.ID
	}

	writeJSON(w, http.StatusOK, result)
}

type DetectLanguageRequest struct {
	Text string `json:"text"`
}

func (h *APIHandler) DetectLanguageHandler(w http.ResponseWriter, r *http.Request) {
	var req DetectLanguageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("Invalid request body"))
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("Text is required"))
		return
	}
	code := h.translator.DetectLanguage(r.Context(), req.Text)
	writeJSON(w, http.StatusOK, map[string]string{"language_code": code})
}

type VoiceSynthesisRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

func (h *APIHandler) VoiceSynthesisHandler(w http.ResponseWriter, r *http.Request) {
	var req VoiceSynthesisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("Invalid request body"))
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("Text is required"))
		return
	}
	language := req.Language
	if language == "" {
		language = lang.Default
	}
	writeJSON(w, http.StatusOK, core.SynthesisInfo(req.Text, language))
}

type CreateReminderRequest struct {
	MedicationName string   `json:"medication_name"`
	Dosage         string   `json:"dosage"`
	Frequency      string   `json:"frequency"`
	TimeSlots      []string `json:"time_slots"`
	Notes          string   `json:"notes"`
}

func (h *APIHandler) CreateReminderHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateReminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("Invalid request body"))
		return
	}

	required := map[string]string{
		"Medication Name": req.MedicationName,
		"Dosage":          req.Dosage,
		"Frequency":       req.Frequency,
	}
	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			writeJSON(w, http.StatusBadRequest, errorBody(field+" is required"))
			return
		}
	}
	if len(req.TimeSlots) == 0 {
		writeJSON(w, http.StatusBadRequest, errorBody("At least one time slot is required"))
		return
	}

	timeSlots, _ := json.Marshal(req.TimeSlots)
	reminder := store.Reminder{
		MedicationName: req.MedicationName,
		Dosage:         req.Dosage,
		Frequency:      req.Frequency,
		TimeSlots:      string(timeSlots),
		Notes:          req.Notes,
	}
	if err := h.store.CreateReminder(&reminder); err != nil {
		log.Printf("Error creating reminder: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error":   "Failed to add reminder",
			"message": "Please check your input and try again",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"message":     "Medication reminder added successfully",
		"reminder_id": reminder.ID,
		"next_dose":   req.TimeSlots[0],
	})
}

func (h *APIHandler) ListRemindersHandler(w http.ResponseWriter, r *http.Request) {
	reminders, err := h.store.GetActiveReminders()
	if err != nil {
		log.Printf("Error listing reminders: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorBody("Failed to list reminders"))
		return
	}
	writeJSON(w, http.StatusOK, reminders)
}

func (h *APIHandler) DeleteReminderHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "reminderID"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("Invalid reminder ID"))
		return
	}
	if err := h.store.DeactivateReminder(id); err != nil {
		if err.Error() == "reminder not found" {
			writeJSON(w, http.StatusNotFound, errorBody(err.Error()))
		} else {
			log.Printf("Error deleting reminder %d: %v", id, err)
			writeJSON(w, http.StatusInternalServerError, errorBody("Failed to delete reminder"))
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Reminder deleted successfully",
	})
}

type SettingsRequest struct {
	Theme                *string        `json:"theme"`
	Language             *string        `json:"language"`
	VoiceEnabled         *bool          `json:"voice_enabled"`
	NotificationsEnabled *bool          `json:"notifications_enabled"`
	SettingsData         map[string]any `json:"settings_data"`
}

func (h *APIHandler) GetSettingsHandler(w http.ResponseWriter, r *http.Request) {
	userID := sessionValue(w, r, "user_session")

	settings, err := h.store.GetSettings(userID)
	if err != nil {
		log.Printf("Error getting settings for user %s: %v", userID, err)
		writeJSON(w, http.StatusInternalServerError, errorBody("Failed to process settings"))
		return
	}
	if settings == nil {
		// Defaults for a user who has never saved settings.
		writeJSON(w, http.StatusOK, map[string]any{
			"theme":                 "light",
			"language":              lang.Default,
			"voice_enabled":         true,
			"notifications_enabled": true,
			"settings_data":         "{}",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"theme":                 settings.Theme,
		"language":              settings.Language,
		"voice_enabled":         settings.VoiceEnabled,
		"notifications_enabled": settings.NotificationsEnabled,
		"settings_data":         settings.SettingsData,
	})
}

func (h *APIHandler) UpdateSettingsHandler(w http.ResponseWriter, r *http.Request) {
	userID := sessionValue(w, r, "user_session")

	var req SettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("Invalid request body"))
		return
	}

	settings, err := h.store.GetSettings(userID)
	if err != nil {
		log.Printf("Error loading settings for user %s: %v", userID, err)
		writeJSON(w, http.StatusInternalServerError, errorBody("Failed to process settings"))
		return
	}
	if settings == nil {
		settings = &store.Settings{
			UserID:               userID,
			Theme:                "light",
			Language:             lang.Default,
			VoiceEnabled:         true,
			NotificationsEnabled: true,
			SettingsData:         "{}",
		}
	}

	if req.Theme != nil {
		settings.Theme = *req.Theme
	}
	if req.Language != nil {
		settings.Language = *req.Language
	}
	if req.VoiceEnabled != nil {
		settings.VoiceEnabled = *req.VoiceEnabled
	}
	if req.NotificationsEnabled != nil {
		settings.NotificationsEnabled = *req.NotificationsEnabled
	}
	if req.SettingsData != nil {
		data, _ := json.Marshal(req.SettingsData)
		settings.SettingsData = string(data)
	}

	if err := h.store.UpsertSettings(settings); err != nil {
		log.Printf("Error saving settings for user %s: %v", userID, err)
		writeJSON(w, http.StatusInternalServerError, errorBody("Failed to process settings"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Settings updated successfully",
	})
}

func (h *APIHandler) OfflineStatusHandler(w http.ResponseWriter, r *http.Request) {
	dbStatus := "online"
	if err := h.store.Ping(); err != nil {
		dbStatus = "offline"
	}

	aiStatus := "limited"
	if h.gateway.Available() {
		aiStatus = "online"
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":          "online",
		"database_status": dbStatus,
		"ai_status":       aiStatus,
		"features_available": map[string]bool{
			"translate":         true,
			"chat":              true,
			"reminders":         dbStatus == "online",
			"prescription_scan": true,
			"voice_synthesis":   true,
		},
	})
}
