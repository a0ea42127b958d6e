package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medibot/internal/ai"
	"medibot/internal/core"
	"medibot/internal/store"
)

type fakeGateway struct {
	available bool
	response  string
}

func (f *fakeGateway) Available() bool { return f.available }

func (f *fakeGateway) Generate(_ context.Context, _ string) (string, error) {
	if !f.available {
		return "", ai.ErrUnavailable
	}
	return f.response, nil
}

type fakeReader struct {
	text string
}

func (f *fakeReader) Recognize(_ context.Context, _ []byte) (string, error) {
	return f.text, nil
}

func newTestRouter(t *testing.T, gateway core.TextGenerator, reader core.ImageReader) http.Handler {
	t.Helper()
	db, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	handler := NewAPIHandler(
		core.NewTranslator(gateway),
		core.NewChatbot(gateway),
		core.NewPrescriptionService(gateway, reader),
		gateway,
		db,
	)
	return NewRouter(handler)
}

func postJSON(t *testing.T, router http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestTranslateHandler_BlankText(t *testing.T) {
	router := newTestRouter(t, &fakeGateway{available: true}, &fakeReader{})

	rec := postJSON(t, router, "/api/translate", map[string]any{"text": "   "})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Text is required", decodeBody(t, rec)["error"])
}

func TestTranslateHandler_NeedsSetup(t *testing.T) {
	router := newTestRouter(t, &fakeGateway{available: false}, &fakeReader{})

	rec := postJSON(t, router, "/api/translate", map[string]any{"text": "I have a fever", "source_lang": "en", "target_lang": "hi"})

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["needs_setup"])
	assert.Contains(t, body["message"], "GEMINI_API_KEY")
}

func TestTranslateHandler_Success(t *testing.T) {
	router := newTestRouter(t, &fakeGateway{available: true, response: "मुझे बुखार है"}, &fakeReader{})

	rec := postJSON(t, router, "/api/translate", map[string]any{"text": "I have a fever", "source_lang": "en", "target_lang": "hi"})

	require.Equal(t, http.StatusOK, rec.Code)
	var body TranslateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "मुझे बुखार है", body.TranslatedText)
	assert.Equal(t, "hi", body.TargetLang)
	assert.True(t, body.VoiceAvailable)
	require.NotNil(t, body.VoiceSynthesis)
	assert.Equal(t, "browser_native", body.VoiceSynthesis.SynthesisMethod)
}

func TestChatHandler_BlankMessage(t *testing.T) {
	router := newTestRouter(t, &fakeGateway{available: true}, &fakeReader{})

	rec := postJSON(t, router, "/api/chat", map[string]any{"message": ""})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatHandler_UnavailableStillServesEmergencyGuidance(t *testing.T) {
	router := newTestRouter(t, &fakeGateway{available: false}, &fakeReader{})

	rec := postJSON(t, router, "/api/chat", map[string]any{"message": "I have severe CHEST PAIN", "language": "en"})

	require.Equal(t, http.StatusOK, rec.Code)
	var body ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.EmergencyDetected)
	assert.True(t, body.NeedsAPIKey)
	assert.Contains(t, body.Response, "108")
}

func TestChatHandler_SetsSessionCookie(t *testing.T) {
	router := newTestRouter(t, &fakeGateway{available: true, response: "Rest well."}, &fakeReader{})

	rec := postJSON(t, router, "/api/chat", map[string]any{"message": "I have a cold", "language": "en"})

	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	var found bool
	for _, c := range cookies {
		if c.Name == "chat_session" && c.Value != "" {
			found = true
		}
	}
	assert.True(t, found, "chat response should set a session cookie")
}

func multipartImage(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func postImage(t *testing.T, router http.Handler, filename string) *httptest.ResponseRecorder {
	t.Helper()
	buf, contentType := multipartImage(t, "image", filename, []byte("fake image bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/scan-prescription", buf)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestScanHandler_InvalidFileType(t *testing.T) {
	router := newTestRouter(t, &fakeGateway{available: true}, &fakeReader{text: "some text"})

	rec := postImage(t, router, "notes.pdf")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid file type", decodeBody(t, rec)["error"])
}

func TestScanHandler_MissingImage(t *testing.T) {
	router := newTestRouter(t, &fakeGateway{available: true}, &fakeReader{})

	buf, contentType := multipartImage(t, "document", "scan.png", []byte("x"))
	req := httptest.NewRequest(http.MethodPost, "/api/scan-prescription", buf)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScanHandler_HeuristicModePersistsScan(t *testing.T) {
	router := newTestRouter(t, &fakeGateway{available: false}, &fakeReader{text: "Tab Amoxicillin 500 mg"})

	rec := postImage(t, router, "prescription.jpg")

	require.Equal(t, http.StatusOK, rec.Code)
	var body core.Extraction
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.NeedsAPIKey)
	assert.Contains(t, body.Medications, "Amoxicillin")
	assert.NotZero(t, body.ScanID, "successful scans are persisted with an ID")
}

func TestScanHandler_NoTextFound(t *testing.T) {
	router := newTestRouter(t, &fakeGateway{available: true}, &fakeReader{text: "  "})

	rec := postImage(t, router, "prescription.jpg")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["error"], "No text could be extracted")
}

func TestDetectLanguageHandler(t *testing.T) {
	router := newTestRouter(t, &fakeGateway{available: true, response: "hi"}, &fakeReader{})

	rec := postJSON(t, router, "/api/detect-language", map[string]any{"text": "नमस्ते"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hi", decodeBody(t, rec)["language_code"])

	rec = postJSON(t, router, "/api/detect-language", map[string]any{"text": " "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVoiceSynthesisHandler(t *testing.T) {
	router := newTestRouter(t, &fakeGateway{available: true}, &fakeReader{})

	rec := postJSON(t, router, "/api/voice-synthesis", map[string]any{"text": "hello", "language": "en"})

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["voice_available"])
	assert.Equal(t, "browser_native", body["synthesis_method"])

	rec = postJSON(t, router, "/api/voice-synthesis", map[string]any{"text": " "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReminderEndpoints(t *testing.T) {
	router := newTestRouter(t, &fakeGateway{available: true}, &fakeReader{})

	// Missing required field
	rec := postJSON(t, router, "/api/reminders", map[string]any{"medication_name": "Amoxicillin"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Missing time slots
	rec = postJSON(t, router, "/api/reminders", map[string]any{
		"medication_name": "Amoxicillin", "dosage": "500 mg", "frequency": "daily",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "At least one time slot is required", decodeBody(t, rec)["error"])

	// Create
	rec = postJSON(t, router, "/api/reminders", map[string]any{
		"medication_name": "Amoxicillin", "dosage": "500 mg", "frequency": "twice_daily",
		"time_slots": []string{"08:00", "20:00"}, "notes": "after food",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	created := decodeBody(t, rec)
	assert.Equal(t, true, created["success"])
	assert.Equal(t, "08:00", created["next_dose"])
	reminderID := int64(created["reminder_id"].(float64))
	require.NotZero(t, reminderID)

	// List
	req := httptest.NewRequest(http.MethodGet, "/api/reminders", nil)
	listRec := httptest.NewRecorder()
	router.ServeHTTP(listRec, req)
	require.Equal(t, http.StatusOK, listRec.Code)
	var reminders []store.Reminder
	require.NoError(t, json.Unmarshal(listRec.Body.Bytes(), &reminders))
	require.Len(t, reminders, 1)
	assert.Equal(t, "Amoxicillin", reminders[0].MedicationName)

	// Delete
	req = httptest.NewRequest(http.MethodDelete, "/api/reminders/1", nil)
	delRec := httptest.NewRecorder()
	router.ServeHTTP(delRec, req)
	assert.Equal(t, http.StatusOK, delRec.Code)

	// Delete again -> not found
	req = httptest.NewRequest(http.MethodDelete, "/api/reminders/1", nil)
	delRec = httptest.NewRecorder()
	router.ServeHTTP(delRec, req)
	assert.Equal(t, http.StatusNotFound, delRec.Code)
}

func TestSettingsEndpoints(t *testing.T) {
	router := newTestRouter(t, &fakeGateway{available: true}, &fakeReader{})

	// Defaults for a fresh session
	req := httptest.NewRequest(http.MethodGet, "/api/settings", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "light", body["theme"])
	assert.Equal(t, "en", body["language"])

	// Update settings, capturing the session cookie
	data, _ := json.Marshal(map[string]any{"theme": "dark", "language": "hi"})
	req = httptest.NewRequest(http.MethodPost, "/api/settings", bytes.NewReader(data))
	postRec := httptest.NewRecorder()
	router.ServeHTTP(postRec, req)
	require.Equal(t, http.StatusOK, postRec.Code)

	var session *http.Cookie
	for _, c := range postRec.Result().Cookies() {
		if c.Name == "user_session" {
			session = c
		}
	}
	require.NotNil(t, session)

	// Read back with the same session
	req = httptest.NewRequest(http.MethodGet, "/api/settings", nil)
	req.AddCookie(session)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	assert.Equal(t, "dark", body["theme"])
	assert.Equal(t, "hi", body["language"])
	assert.Equal(t, true, body["voice_enabled"])
}

func TestOfflineStatusHandler(t *testing.T) {
	router := newTestRouter(t, &fakeGateway{available: false}, &fakeReader{})

	req := httptest.NewRequest(http.MethodGet, "/api/offline-status", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "online", body["status"])
	assert.Equal(t, "online", body["database_status"])
	assert.Equal(t, "limited", body["ai_status"])
	features := body["features_available"].(map[string]any)
	assert.Equal(t, true, features["translate"].(bool))
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t, &fakeGateway{available: true}, &fakeReader{})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "ok"))
}
