package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveTranslation(t *testing.T) {
	s := newTestStore(t)

	rec := TranslationRecord{
		OriginalText:   "I have a fever",
		TranslatedText: "मुझे बुखार है",
		SourceLanguage: "en",
		TargetLanguage: "hi",
	}
	require.NoError(t, s.SaveTranslation(&rec))
	assert.NotZero(t, rec.ID)
	assert.False(t, rec.Timestamp.IsZero())
}

func TestSaveChatAndScan(t *testing.T) {
	s := newTestStore(t)

	chat := ChatRecord{SessionID: "abc", UserMessage: "hi", BotResponse: "hello", Language: "en"}
	require.NoError(t, s.SaveChat(&chat))
	assert.NotZero(t, chat.ID)

	scan := ScanRecord{ExtractedText: "Tab Amoxicillin", Medications: `["Amoxicillin"]`, Dosages: `["500 mg"]`, Instructions: "after meals"}
	require.NoError(t, s.SaveScan(&scan))
	assert.NotZero(t, scan.ID)
}

func TestReminderLifecycle(t *testing.T) {
	s := newTestStore(t)

	reminder := Reminder{
		MedicationName: "Amoxicillin",
		Dosage:         "500 mg",
		Frequency:      "twice_daily",
		TimeSlots:      `["08:00","20:00"]`,
		Notes:          "after food",
	}
	require.NoError(t, s.CreateReminder(&reminder))
	require.NotZero(t, reminder.ID)
	assert.True(t, reminder.IsActive)

	active, err := s.GetActiveReminders()
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Amoxicillin", active[0].MedicationName)
	assert.Equal(t, "after food", active[0].Notes)
	assert.Nil(t, active[0].EndDate)

	require.NoError(t, s.DeactivateReminder(reminder.ID))

	active, err = s.GetActiveReminders()
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestDeactivateReminder_NotFound(t *testing.T) {
	s := newTestStore(t)

	err := s.DeactivateReminder(999)
	require.Error(t, err)
	assert.Equal(t, "reminder not found", err.Error())
}

func TestSettings_MissingUserReturnsNil(t *testing.T) {
	s := newTestStore(t)

	settings, err := s.GetSettings("nobody")
	require.NoError(t, err)
	assert.Nil(t, settings)
}

func TestSettings_UpsertInsertsThenUpdates(t *testing.T) {
	s := newTestStore(t)

	settings := &Settings{
		UserID:               "user-1",
		Theme:                "light",
		Language:             "en",
		VoiceEnabled:         true,
		NotificationsEnabled: true,
		SettingsData:         "{}",
	}
	require.NoError(t, s.UpsertSettings(settings))

	loaded, err := s.GetSettings("user-1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "light", loaded.Theme)

	settings.Theme = "dark"
	settings.Language = "hi"
	require.NoError(t, s.UpsertSettings(settings))

	loaded, err = s.GetSettings("user-1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "dark", loaded.Theme)
	assert.Equal(t, "hi", loaded.Language)
	assert.True(t, loaded.VoiceEnabled)
}
