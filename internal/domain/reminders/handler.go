package reminders

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"medication-tracker/internal/middleware"
	"medication-tracker/internal/platform/metrics"
)

func RegisterRoutes(r chi.Router, svc *Service, namer MedicationNamer, ownerOf func(r *http.Request, medicationID string) (string, error), m *metrics.CoreMetrics) {
	r.Post("/medications/{medicationID}/reminders", createReminderHandler(svc, ownerOf))
	r.Get("/medications/{medicationID}/reminders", listByMedicationHandler(svc, ownerOf))

	r.Route("/reminders", func(rr chi.Router) {
		rr.Get("/pending", listPendingHandler(svc))
		rr.Get("/upcoming", listUpcomingHandler(svc))
		rr.Get("/missed", listMissedHandler(svc))
		rr.Get("/", listByStatusHandler(svc))

		rr.Patch("/{reminderID}", updateReminderHandler(svc))
		rr.Post("/{reminderID}/snooze", snoozeReminderHandler(svc, m))
		rr.Post("/{reminderID}/ack", acknowledgeReminderHandler(svc))

		rr.Post("/dispatch", dispatchHandler(svc, namer, m))
	})
}

type createReminderRequest struct {
	ScheduledTime string `json:"scheduled_time"` // RFC3339
}

type updateReminderRequest struct {
	ScheduledTime *string `json:"scheduled_time"` // RFC3339
	Status        *string `json:"status"`
}

type reminderResponse struct {
	ID            string    `json:"id"`
	MedicationID  string    `json:"medication_id"`
	ScheduledTime time.Time `json:"scheduled_time"`
	Status        string    `json:"status"`
	SnoozeCount   int       `json:"snooze_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// createReminderHandler godoc
// @Summary Crear recordatorio
// @Description Crea un recordatorio en estado scheduled para una medicación propia.
// @Tags reminders
// @Accept json
// @Produce json
// @Param medicationID path string true "ID de la medicación"
// @Param payload body createReminderRequest true "scheduled_time en RFC3339"
// @Success 201 {object} reminderResponse
// @Failure 400 {string} string "invalid json / scheduled_time inválido"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "medication not found"
// @Router /medications/{medicationID}/reminders [post]
func createReminderHandler(svc *Service, ownerOf func(r *http.Request, medicationID string) (string, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		medID := chi.URLParam(r, "medicationID")
		owner, err := ownerOf(r, medID)
		if err != nil {
			http.Error(w, "medication not found", http.StatusNotFound)
			return
		}
		if owner != claims.UserID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		var req createReminderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		t, err := time.Parse(time.RFC3339, req.ScheduledTime)
		if err != nil {
			http.Error(w, "scheduled_time must be RFC3339", http.StatusBadRequest)
			return
		}

		rem, err := svc.Create(r.Context(), CreateInput{
			MedicationID:  medID,
			ScheduledTime: t,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, toReminderResponse(rem))
	}
}

// updateReminderHandler godoc
// @Summary Actualizar recordatorio
// @Description Aplica el patch y reevalúa el estado contra el reloj (scheduled vencido → missed; hora futura → scheduled). Acknowledged no se reevalúa.
// @Tags reminders
// @Accept json
// @Produce json
// @Param reminderID path string true "ID del recordatorio"
// @Param payload body updateReminderRequest true "Campos a actualizar"
// @Success 200 {object} reminderResponse
// @Failure 400 {string} string "invalid json / campos inválidos"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "reminder not found"
// @Router /reminders/{reminderID} [patch]
func updateReminderHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		remID := chi.URLParam(r, "reminderID")
		if _, err := svc.GetByID(r.Context(), remID); err != nil {
			http.Error(w, "reminder not found", http.StatusNotFound)
			return
		}

		var req updateReminderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in := UpdateInput{}
		if req.ScheduledTime != nil {
			t, err := time.Parse(time.RFC3339, *req.ScheduledTime)
			if err != nil {
				http.Error(w, "scheduled_time must be RFC3339", http.StatusBadRequest)
				return
			}
			in.ScheduledTime = &t
		}
		if req.Status != nil {
			st := Status(strings.TrimSpace(*req.Status))
			in.Status = &st
		}

		updated, err := svc.Update(r.Context(), remID, in)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toReminderResponse(updated))
	}
}

// snoozeReminderHandler godoc
// @Summary Snooze de recordatorio
// @Description Corre el recordatorio 10 minutos: status=snoozed, snooze_count+1. Sin tope de snoozes.
// @Tags reminders
// @Produce json
// @Param reminderID path string true "ID del recordatorio"
// @Success 200 {object} reminderResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "reminder not found"
// @Failure 409 {string} string "reminder already acknowledged"
// @Router /reminders/{reminderID}/snooze [post]
func snoozeReminderHandler(svc *Service, m *metrics.CoreMetrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		rem, err := svc.Snooze(r.Context(), chi.URLParam(r, "reminderID"))
		if err != nil {
			switch {
			case errors.Is(err, ErrAlreadyAcknowledged):
				http.Error(w, err.Error(), http.StatusConflict)
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				http.Error(w, "reminder not found", http.StatusNotFound)
			}
			return
		}

		m.ObserveReminderSnoozed()
		writeJSON(w, http.StatusOK, toReminderResponse(rem))
	}
}

// acknowledgeReminderHandler godoc
// @Summary Confirmar recordatorio
// @Description Marca el recordatorio como acknowledged (estado terminal).
// @Tags reminders
// @Produce json
// @Param reminderID path string true "ID del recordatorio"
// @Success 200 {object} reminderResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "reminder not found"
// @Router /reminders/{reminderID}/ack [post]
func acknowledgeReminderHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		rem, err := svc.Acknowledge(r.Context(), chi.URLParam(r, "reminderID"))
		if err != nil {
			http.Error(w, "reminder not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, toReminderResponse(rem))
	}
}

// listPendingHandler godoc
// @Summary Recordatorios pendientes
// @Description Recordatorios debidos ahora y sin resolver (scheduled/snoozed con hora vencida).
// @Tags reminders
// @Produce json
// @Success 200 {array} reminderResponse
// @Failure 401 {string} string "unauthorized"
// @Router /reminders/pending [get]
func listPendingHandler(svc *Service) http.HandlerFunc {
	return listHandler(func(r *http.Request) ([]Reminder, error) {
		return svc.ListPending(r.Context())
	})
}

// listUpcomingHandler godoc
// @Summary Recordatorios próximos
// @Tags reminders
// @Produce json
// @Param before query string true "Límite superior RFC3339"
// @Success 200 {array} reminderResponse
// @Failure 400 {string} string "before inválido"
// @Failure 401 {string} string "unauthorized"
// @Router /reminders/upcoming [get]
func listUpcomingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		before, err := time.Parse(time.RFC3339, r.URL.Query().Get("before"))
		if err != nil {
			http.Error(w, "before must be RFC3339", http.StatusBadRequest)
			return
		}

		items, err := svc.ListUpcoming(r.Context(), before)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, "before must be in the future", http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toReminderResponses(items))
	}
}

// listMissedHandler godoc
// @Summary Recordatorios perdidos
// @Tags reminders
// @Produce json
// @Success 200 {array} reminderResponse
// @Failure 401 {string} string "unauthorized"
// @Router /reminders/missed [get]
func listMissedHandler(svc *Service) http.HandlerFunc {
	return listHandler(func(r *http.Request) ([]Reminder, error) {
		return svc.ListMissed(r.Context())
	})
}

// listByStatusHandler godoc
// @Summary Recordatorios por estado
// @Tags reminders
// @Produce json
// @Param status query string true "scheduled|sent|snoozed|missed|acknowledged"
// @Success 200 {array} reminderResponse
// @Failure 400 {string} string "status inválido"
// @Failure 401 {string} string "unauthorized"
// @Router /reminders [get]
func listByStatusHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		st := Status(strings.TrimSpace(r.URL.Query().Get("status")))
		items, err := svc.ListByStatus(r.Context(), st)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, "unknown status", http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toReminderResponses(items))
	}
}

// listByMedicationHandler godoc
// @Summary Recordatorios por medicación
// @Tags reminders
// @Produce json
// @Param medicationID path string true "ID de la medicación"
// @Success 200 {array} reminderResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "medication not found"
// @Router /medications/{medicationID}/reminders [get]
func listByMedicationHandler(svc *Service, ownerOf func(r *http.Request, medicationID string) (string, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		medID := chi.URLParam(r, "medicationID")
		owner, err := ownerOf(r, medID)
		if err != nil {
			http.Error(w, "medication not found", http.StatusNotFound)
			return
		}
		if owner != claims.UserID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		items, err := svc.ListByMedication(r.Context(), medID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toReminderResponses(items))
	}
}

// dispatchHandler godoc
// @Summary Despachar recordatorios debidos
// @Description Empuja cada recordatorio debido por el canal de notificación y lo marca sent. Pensado para invocarse desde un cron externo; no hay scheduler en el proceso.
// @Tags reminders
// @Produce json
// @Success 200 {object} map[string]int
// @Failure 401 {string} string "unauthorized"
// @Failure 503 {string} string "notifier no configurado"
// @Router /reminders/dispatch [post]
func dispatchHandler(svc *Service, namer MedicationNamer, m *metrics.CoreMetrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		sent, err := svc.DispatchDue(r.Context(), namer)
		if err != nil {
			if errors.Is(err, ErrNotifierNotConfigured) {
				http.Error(w, err.Error(), http.StatusServiceUnavailable)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		m.ObserveRemindersDispatched(sent)
		writeJSON(w, http.StatusOK, map[string]int{"dispatched": sent})
	}
}

func listHandler(list func(r *http.Request) ([]Reminder, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := list(r)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toReminderResponses(items))
	}
}

func toReminderResponses(items []Reminder) []reminderResponse {
	out := make([]reminderResponse, 0, len(items))
	for _, rem := range items {
		out = append(out, toReminderResponse(rem))
	}
	return out
}

func toReminderResponse(rem Reminder) reminderResponse {
	return reminderResponse{
		ID:            rem.ID,
		MedicationID:  rem.MedicationID,
		ScheduledTime: rem.ScheduledTime,
		Status:        string(rem.Status),
		SnoozeCount:   rem.SnoozeCount,
		CreatedAt:     rem.CreatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
