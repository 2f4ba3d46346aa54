package medications

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

func RegisterRoutes(r chi.Router, svc *Service, m *metrics.CoreMetrics) {
	r.Route("/medications", func(mr chi.Router) {
		mr.Post("/", createMedicationHandler(svc, m))
		mr.Get("/", listMedicationsHandler(svc))
		mr.Get("/{medicationID}", getMedicationHandler(svc))
		mr.Post("/{medicationID}/discontinue", discontinueMedicationHandler(svc))
	})
}

// createMedicationRequest es el cuerpo para dar de alta una medicación.
type createMedicationRequest struct {
	Name        string  `json:"name"`
	GenericName string  `json:"generic_name"`
	Dosage      float64 `json:"dosage"`
	DosageUnit  string  `json:"dosage_unit" enums:"mg,g,ml,tablet,capsule,drop,other"`

	Frequency            string `json:"frequency"` // opcional
	CustomFrequencyHours *int   `json:"custom_frequency_hours"`
	DaysOfWeek           string `json:"days_of_week"`
	MonthlyDay           *int   `json:"monthly_day"`

	StartDate string `json:"start_date"` // YYYY-MM-DD opcional
}

type medicationResponse struct {
	ID          string  `json:"id"`
	OwnerUserID string  `json:"owner_user_id"`
	Name        string  `json:"name"`
	GenericName string  `json:"generic_name,omitempty"`
	Dosage      float64 `json:"dosage"`
	DosageUnit  string  `json:"dosage_unit"`

	Frequency            string `json:"frequency,omitempty"`
	CustomFrequencyHours *int   `json:"custom_frequency_hours,omitempty"`
	DaysOfWeek           string `json:"days_of_week,omitempty"`
	MonthlyDay           *int   `json:"monthly_day,omitempty"`

	Status    string    `json:"status"`
	StartDate time.Time `json:"start_date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// ScheduleIDs viene solo en la respuesta de creación.
	ScheduleIDs []string `json:"schedule_ids,omitempty"`
}

// createMedicationHandler godoc
// @Summary Crear medicación
// @Description Valida los parámetros de frecuencia, crea la medicación y genera/persiste sus horarios en una sola transacción. Si la validación falla no queda ninguna fila escrita.
// @Tags medications
// @Accept json
// @Produce json
// @Param payload body createMedicationRequest true "Datos de la medicación"
// @Success 201 {object} medicationResponse
// @Failure 400 {string} string "invalid json / parámetros de frecuencia inválidos"
// @Failure 401 {string} string "unauthorized"
// @Router /medications [post]
func createMedicationHandler(svc *Service, m *metrics.CoreMetrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createMedicationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in := CreateInput{
			Name:                 req.Name,
			GenericName:          req.GenericName,
			Dosage:               req.Dosage,
			DosageUnit:           req.DosageUnit,
			Frequency:            req.Frequency,
			CustomFrequencyHours: req.CustomFrequencyHours,
			DaysOfWeek:           req.DaysOfWeek,
			MonthlyDay:           req.MonthlyDay,
		}
		if strings.TrimSpace(req.StartDate) != "" {
			t, err := time.Parse("2006-01-02", req.StartDate)
			if err != nil {
				http.Error(w, "start_date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			in.StartDate = &t
		}

		res, err := svc.Create(r.Context(), claims.UserID, in)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		m.ObserveMedicationCreated()

		resp := toMedicationResponse(res.Medication)
		resp.ScheduleIDs = res.ScheduleIDs
		writeJSON(w, http.StatusCreated, resp)
	}
}

// listMedicationsHandler godoc
// @Summary Listar mis medicaciones
// @Description Lista las medicaciones del usuario autenticado. Con ?active=true devuelve solo las activas.
// @Tags medications
// @Produce json
// @Param active query bool false "Solo medicaciones activas"
// @Success 200 {array} medicationResponse
// @Failure 401 {string} string "unauthorized"
// @Router /medications [get]
func listMedicationsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var (
			items []Medication
			err   error
		)
		if strings.EqualFold(r.URL.Query().Get("active"), "true") {
			items, err = svc.ListActiveByOwner(r.Context(), claims.UserID)
		} else {
			items, err = svc.ListByOwner(r.Context(), claims.UserID)
		}
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]medicationResponse, 0, len(items))
		for _, m := range items {
			out = append(out, toMedicationResponse(m))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// getMedicationHandler godoc
// @Summary Obtener medicación
// @Tags medications
// @Produce json
// @Param medicationID path string true "ID de la medicación"
// @Success 200 {object} medicationResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "medication not found"
// @Router /medications/{medicationID} [get]
func getMedicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		m, err := svc.GetByID(r.Context(), chi.URLParam(r, "medicationID"))
		if err != nil {
			http.Error(w, "medication not found", http.StatusNotFound)
			return
		}
		if m.OwnerUserID != claims.UserID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		writeJSON(w, http.StatusOK, toMedicationResponse(m))
	}
}

// discontinueMedicationHandler godoc
// @Summary Discontinuar medicación
// @Description Marca la medicación como discontinuada; el historial de dosis y recetas se conserva.
// @Tags medications
// @Produce json
// @Param medicationID path string true "ID de la medicación"
// @Success 200 {object} medicationResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "medication not found"
// @Router /medications/{medicationID}/discontinue [post]
func discontinueMedicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		medID := chi.URLParam(r, "medicationID")
		m, err := svc.GetByID(r.Context(), medID)
		if err != nil {
			http.Error(w, "medication not found", http.StatusNotFound)
			return
		}
		if m.OwnerUserID != claims.UserID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		updated, err := svc.Discontinue(r.Context(), medID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toMedicationResponse(updated))
	}
}

func toMedicationResponse(m Medication) medicationResponse {
	return medicationResponse{
		ID:                   m.ID,
		OwnerUserID:          m.OwnerUserID,
		Name:                 m.Name,
		GenericName:          m.GenericName,
		Dosage:               m.Dosage,
		DosageUnit:           string(m.DosageUnit),
		Frequency:            string(m.Frequency),
		CustomFrequencyHours: m.CustomFrequencyHours,
		DaysOfWeek:           m.DaysOfWeek,
		MonthlyDay:           m.MonthlyDay,
		Status:               string(m.Status),
		StartDate:            m.StartDate,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
}

// writeJSON está duplicado a propósito en los handlers de cada módulo para
// no crear helpers compartidos antes de tiempo.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
