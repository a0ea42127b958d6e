package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dataSourceName string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err = store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ping reports database reachability; used by the offline-status endpoint.
func (s *SQLiteStore) Ping() error {
	return s.db.Ping()
}

func (s *SQLiteStore) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS translation_history (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        original_text TEXT NOT NULL,
        translated_text TEXT NOT NULL,
        source_language TEXT NOT NULL,
        target_language TEXT NOT NULL,
        timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
    );

    CREATE TABLE IF NOT EXISTS chat_history (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        session_id TEXT NOT NULL,
        user_message TEXT NOT NULL,
        bot_response TEXT NOT NULL,
        language TEXT DEFAULT 'en',
        timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
    );

    CREATE TABLE IF NOT EXISTS prescription_scans (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        extracted_text TEXT NOT NULL,
        medications TEXT,
        dosages TEXT,
        instructions TEXT,
        timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
    );

    CREATE TABLE IF NOT EXISTS medication_reminders (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        medication_name TEXT NOT NULL,
        dosage TEXT NOT NULL,
        frequency TEXT NOT NULL,
        time_slots TEXT NOT NULL,
        notes TEXT,
        start_date DATETIME NOT NULL,
        end_date DATETIME,
        is_active BOOLEAN DEFAULT TRUE,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );

    CREATE TABLE IF NOT EXISTS user_settings (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        user_id TEXT UNIQUE NOT NULL,
        theme TEXT DEFAULT 'light',
        language TEXT DEFAULT 'en',
        voice_enabled BOOLEAN DEFAULT TRUE,
        notifications_enabled BOOLEAN DEFAULT TRUE,
        settings_data TEXT,
        updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );
    `
	_, err := s.db.Exec(schema)
	return err
}

// History methods

func (s *SQLiteStore) SaveTranslation(rec *TranslationRecord) error {
	rec.Timestamp = time.Now()
	res, err := s.db.Exec(
		"INSERT INTO translation_history (original_text, translated_text, source_language, target_language, timestamp) VALUES (?, ?, ?, ?, ?)",
		rec.OriginalText, rec.TranslatedText, rec.SourceLanguage, rec.TargetLanguage, rec.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to insert translation record: %w", err)
	}
	rec.ID, _ = res.LastInsertId()
	return nil
}

func (s *SQLiteStore) SaveChat(rec *ChatRecord) error {
	rec.Timestamp = time.Now()
	res, err := s.db.Exec(
		"INSERT INTO chat_history (session_id, user_message, bot_response, language, timestamp) VALUES (?, ?, ?, ?, ?)",
		rec.SessionID, rec.UserMessage, rec.BotResponse, rec.Language, rec.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to insert chat record: %w", err)
	}
	rec.ID, _ = res.LastInsertId()
	return nil
}

func (s *SQLiteStore) SaveScan(rec *ScanRecord) error {
	rec.Timestamp = time.Now()
	res, err := s.db.Exec(
		"INSERT INTO prescription_scans (extracted_text, medications, dosages, instructions, timestamp) VALUES (?, ?, ?, ?, ?)",
		rec.ExtractedText, rec.Medications, rec.Dosages, rec.Instructions, rec.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to insert scan record: %w", err)
	}
	rec.ID, _ = res.LastInsertId()
	return nil
}

// Reminder methods

func (s *SQLiteStore) CreateReminder(r *Reminder) error {
	now := time.Now()
	if r.StartDate.IsZero() {
		r.StartDate = now
	}
	r.IsActive = true
	r.CreatedAt = now

	stmt, err := s.db.Prepare("INSERT INTO medication_reminders (medication_name, dosage, frequency, time_slots, notes, start_date, end_date, is_active, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare reminder insert: %w", err)
	}
	defer stmt.Close()

	res, err := stmt.Exec(r.MedicationName, r.Dosage, r.Frequency, r.TimeSlots, r.Notes, r.StartDate, r.EndDate, r.IsActive, r.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to execute reminder insert: %w", err)
	}
	r.ID, _ = res.LastInsertId()
	return nil
}

func (s *SQLiteStore) GetActiveReminders() ([]Reminder, error) {
	rows, err := s.db.Query("SELECT id, medication_name, dosage, frequency, time_slots, notes, start_date, end_date, is_active, created_at FROM medication_reminders WHERE is_active = TRUE ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query reminders: %w", err)
	}
	defer rows.Close()

	reminders := []Reminder{}
	for rows.Next() {
		var r Reminder
		var notes sql.NullString
		var endDate sql.NullTime
		if err := rows.Scan(&r.ID, &r.MedicationName, &r.Dosage, &r.Frequency, &r.TimeSlots, &notes, &r.StartDate, &endDate, &r.IsActive, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan reminder row: %w", err)
		}
		if notes.Valid {
			r.Notes = notes.String
		}
		if endDate.Valid {
			r.EndDate = &endDate.Time
		}
		reminders = append(reminders, r)
	}
	return reminders, nil
}

// DeactivateReminder soft-deletes a reminder by clearing its active flag.
func (s *SQLiteStore) DeactivateReminder(id int64) error {
	res, err := s.db.Exec("UPDATE medication_reminders SET is_active = FALSE WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to deactivate reminder: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("reminder not found")
	}
	return nil
}

// Settings methods

func (s *SQLiteStore) GetSettings(userID string) (*Settings, error) {
	var settings Settings
	var data sql.NullString
	err := s.db.QueryRow(
		"SELECT id, user_id, theme, language, voice_enabled, notifications_enabled, settings_data, updated_at FROM user_settings WHERE user_id = ?",
		userID,
	).Scan(&settings.ID, &settings.UserID, &settings.Theme, &settings.Language, &settings.VoiceEnabled, &settings.NotificationsEnabled, &data, &settings.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}
	if data.Valid {
		settings.SettingsData = data.String
	}
	return &settings, nil
}

// UpsertSettings inserts the user's settings row or replaces its fields.
func (s *SQLiteStore) UpsertSettings(settings *Settings) error {
	settings.UpdatedAt = time.Now()
	_, err := s.db.Exec(`
        INSERT INTO user_settings (user_id, theme, language, voice_enabled, notifications_enabled, settings_data, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(user_id) DO UPDATE SET
            theme = excluded.theme,
            language = excluded.language,
            voice_enabled = excluded.voice_enabled,
            notifications_enabled = excluded.notifications_enabled,
            settings_data = excluded.settings_data,
            updated_at = excluded.updated_at`,
		settings.UserID, settings.Theme, settings.Language, settings.VoiceEnabled, settings.NotificationsEnabled, settings.SettingsData, settings.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert settings: %w", err)
	}
	return nil
}
