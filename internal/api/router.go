package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(apiHandler *APIHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)       // Basic request logging
	r.Use(middleware.Recoverer)    // Recover from panics
	r.Use(middleware.StripSlashes) // Ensure consistent path handling

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"ok"}`))
		})

		r.Post("/translate", apiHandler.TranslateHandler)
		r.Post("/chat", apiHandler.ChatHandler)
		r.Post("/scan-prescription", apiHandler.ScanPrescriptionHandler)
		r.Post("/detect-language", apiHandler.DetectLanguageHandler)
		r.Post("/voice-synthesis", apiHandler.VoiceSynthesisHandler)

		r.Get("/reminders", apiHandler.ListRemindersHandler)
		r.Post("/reminders", apiHandler.CreateReminderHandler)
		r.Delete("/reminders/{reminderID}", apiHandler.DeleteReminderHandler)

		r.Get("/settings", apiHandler.GetSettingsHandler)
		r.Post("/settings", apiHandler.UpdateSettingsHandler)

		r.Get("/offline-status", apiHandler.OfflineStatusHandler)
	})

	return r
}
