package schedules

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"medication-tracker/internal/middleware"
)

// RegisterRoutes recibe ownerOf (el router lo arma sobre medications.Service)
// para chequear dueño sin crear el ciclo de imports schedules <-> medications.
func RegisterRoutes(r chi.Router, svc *Service, ownerOf func(r *http.Request, medicationID string) (string, error)) {
	r.Get("/medications/{medicationID}/schedules", listByMedicationHandler(svc, ownerOf))
	r.Get("/schedules", listSchedulesHandler(svc))
	r.Patch("/schedules/{scheduleID}", updateScheduleHandler(svc, ownerOf))
	r.Delete("/schedules/{scheduleID}", deleteScheduleHandler(svc, ownerOf))
}

type scheduleResponse struct {
	ID                   string    `json:"id"`
	MedicationID         string    `json:"medication_id"`
	Frequency            string    `json:"frequency"`
	TimeOfDay            string    `json:"time_of_day"`
	DaysOfWeek           string    `json:"days_of_week"`
	CustomFrequencyHours int       `json:"custom_frequency_hours"`
	IsActive             bool      `json:"is_active"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

type updateScheduleRequest struct {
	Frequency            *string `json:"frequency"`
	TimeOfDay            *string `json:"time_of_day"` // "HH:mm:ss"
	DaysOfWeek           *string `json:"days_of_week"`
	CustomFrequencyHours *int    `json:"custom_frequency_hours"`
	IsActive             *bool   `json:"is_active"`
}

// listByMedicationHandler godoc
// @Summary Listar horarios de una medicación
// @Tags schedules
// @Produce json
// @Param medicationID path string true "ID de la medicación"
// @Success 200 {array} scheduleResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "medication not found"
// @Router /medications/{medicationID}/schedules [get]
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
		writeJSON(w, http.StatusOK, toScheduleResponses(items))
	}
}

// listSchedulesHandler godoc
// @Summary Consultar horarios
// @Description Consulta de dominio sobre horarios: ?active=true, ?frequency=once_daily, o ventana ?from=HH:mm:ss&to=HH:mm:ss ([from,to)).
// @Tags schedules
// @Produce json
// @Param active query bool false "Solo horarios activos"
// @Param frequency query string false "Filtrar por frecuencia"
// @Param from query string false "Inicio de ventana HH:mm:ss"
// @Param to query string false "Fin de ventana HH:mm:ss (exclusivo)"
// @Success 200 {array} scheduleResponse
// @Failure 400 {string} string "parámetros inválidos"
// @Failure 401 {string} string "unauthorized"
// @Router /schedules [get]
func listSchedulesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		q := r.URL.Query()

		var (
			items []Schedule
			err   error
		)
		switch {
		case strings.TrimSpace(q.Get("frequency")) != "":
			items, err = svc.ListByFrequency(r.Context(), Frequency(strings.TrimSpace(q.Get("frequency"))))
		case strings.TrimSpace(q.Get("from")) != "" || strings.TrimSpace(q.Get("to")) != "":
			items, err = svc.ListInWindow(r.Context(), strings.TrimSpace(q.Get("from")), strings.TrimSpace(q.Get("to")))
		default:
			items, err = svc.ListActive(r.Context())
		}
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toScheduleResponses(items))
	}
}

// updateScheduleHandler godoc
// @Summary Actualizar horario
// @Description Reemplaza frecuencia/hora/patrón/flag activo y refresca updated_at.
// @Tags schedules
// @Accept json
// @Produce json
// @Param scheduleID path string true "ID del horario"
// @Param payload body updateScheduleRequest true "Campos a actualizar"
// @Success 200 {object} scheduleResponse
// @Failure 400 {string} string "invalid json / campos inválidos"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "schedule not found"
// @Router /schedules/{scheduleID} [patch]
func updateScheduleHandler(svc *Service, ownerOf func(r *http.Request, medicationID string) (string, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		scID := chi.URLParam(r, "scheduleID")
		sc, err := svc.GetByID(r.Context(), scID)
		if err != nil {
			http.Error(w, "schedule not found", http.StatusNotFound)
			return
		}
		if st := checkOwner(r, ownerOf, sc.MedicationID, claims.UserID); st != 0 {
			http.Error(w, http.StatusText(st), st)
			return
		}

		var req updateScheduleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in := UpdateInput{
			TimeOfDay:            req.TimeOfDay,
			DaysOfWeek:           req.DaysOfWeek,
			CustomFrequencyHours: req.CustomFrequencyHours,
			IsActive:             req.IsActive,
		}
		if req.Frequency != nil {
			f := Frequency(strings.TrimSpace(*req.Frequency))
			in.Frequency = &f
		}

		updated, err := svc.Update(r.Context(), scID, in)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toScheduleResponse(updated))
	}
}

// deleteScheduleHandler godoc
// @Summary Eliminar horario
// @Description Borrado permanente (hard delete), sin flag de soft-delete.
// @Tags schedules
// @Param scheduleID path string true "ID del horario"
// @Success 204 {string} string ""
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "schedule not found"
// @Router /schedules/{scheduleID} [delete]
func deleteScheduleHandler(svc *Service, ownerOf func(r *http.Request, medicationID string) (string, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		scID := chi.URLParam(r, "scheduleID")
		sc, err := svc.GetByID(r.Context(), scID)
		if err != nil {
			http.Error(w, "schedule not found", http.StatusNotFound)
			return
		}
		if st := checkOwner(r, ownerOf, sc.MedicationID, claims.UserID); st != 0 {
			http.Error(w, http.StatusText(st), st)
			return
		}

		if err := svc.Delete(r.Context(), scID); err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// checkOwner devuelve 0 si el userID es dueño de la medicación; si no, el
// status HTTP a responder.
func checkOwner(r *http.Request, ownerOf func(r *http.Request, medicationID string) (string, error), medicationID, userID string) int {
	owner, err := ownerOf(r, medicationID)
	if err != nil {
		return http.StatusNotFound
	}
	if owner != userID {
		return http.StatusForbidden
	}
	return 0
}

func toScheduleResponses(items []Schedule) []scheduleResponse {
	out := make([]scheduleResponse, 0, len(items))
	for _, sc := range items {
		out = append(out, toScheduleResponse(sc))
	}
	return out
}

func toScheduleResponse(sc Schedule) scheduleResponse {
	return scheduleResponse{
		ID:                   sc.ID,
		MedicationID:         sc.MedicationID,
		Frequency:            string(sc.Frequency),
		TimeOfDay:            sc.TimeOfDay,
		DaysOfWeek:           sc.DaysOfWeek,
		CustomFrequencyHours: sc.CustomFrequencyHours,
		IsActive:             sc.IsActive,
		CreatedAt:            sc.CreatedAt,
		UpdatedAt:            sc.UpdatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
