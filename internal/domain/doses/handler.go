package doses

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"medication-tracker/internal/middleware"
)

func RegisterRoutes(r chi.Router, svc *Service, ownerOf func(r *http.Request, medicationID string) (string, error)) {
	r.Post("/medications/{medicationID}/doses", createDoseHandler(svc, ownerOf))
	r.Get("/medications/{medicationID}/doses", listByMedicationHandler(svc, ownerOf))
	r.Get("/me/doses/today", listTodayHandler(svc))
	r.Get("/me/doses/missed", listMissedHandler(svc))
	r.Patch("/doses/{doseID}", updateDoseHandler(svc))
}

type createDoseRequest struct {
	ScheduledTime string `json:"scheduled_time"` // RFC3339
}

type updateDoseRequest struct {
	IsTaken       *bool   `json:"is_taken"`
	TakenAt       *string `json:"taken_at"`       // RFC3339
	ScheduledTime *string `json:"scheduled_time"` // RFC3339
}

type doseResponse struct {
	ID            string     `json:"id"`
	MedicationID  string     `json:"medication_id"`
	OwnerUserID   string     `json:"owner_user_id"`
	ScheduledTime time.Time  `json:"scheduled_time"`
	IsTaken       bool       `json:"is_taken"`
	IsMissed      bool       `json:"is_missed"`
	TakenAt       *time.Time `json:"taken_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// createDoseHandler godoc
// @Summary Registrar ocurrencia de dosis
// @Description Da de alta una dosis pendiente (is_taken=false) para un slot concreto.
// @Tags doses
// @Accept json
// @Produce json
// @Param medicationID path string true "ID de la medicación"
// @Param payload body createDoseRequest true "scheduled_time en RFC3339"
// @Success 201 {object} doseResponse
// @Failure 400 {string} string "invalid json / scheduled_time inválido"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "medication not found"
// @Router /medications/{medicationID}/doses [post]
func createDoseHandler(svc *Service, ownerOf func(r *http.Request, medicationID string) (string, error)) http.HandlerFunc {
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

		var req createDoseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		t, err := time.Parse(time.RFC3339, req.ScheduledTime)
		if err != nil {
			http.Error(w, "scheduled_time must be RFC3339", http.StatusBadRequest)
			return
		}

		d, err := svc.Create(r.Context(), CreateInput{
			MedicationID:  medID,
			OwnerUserID:   claims.UserID,
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

		writeJSON(w, http.StatusCreated, toDoseResponse(d))
	}
}

// listTodayHandler godoc
// @Summary Dosis de hoy
// @Description Dosis del usuario con horario dentro del día calendario actual; is_missed viene recalculado contra el reloj.
// @Tags doses
// @Produce json
// @Success 200 {array} doseResponse
// @Failure 401 {string} string "unauthorized"
// @Router /me/doses/today [get]
func listTodayHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListToday(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toDoseResponses(items))
	}
}

// listMissedHandler godoc
// @Summary Dosis perdidas
// @Tags doses
// @Produce json
// @Success 200 {array} doseResponse
// @Failure 401 {string} string "unauthorized"
// @Router /me/doses/missed [get]
func listMissedHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListMissed(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toDoseResponses(items))
	}
}

// listByMedicationHandler godoc
// @Summary Dosis por medicación
// @Tags doses
// @Produce json
// @Param medicationID path string true "ID de la medicación"
// @Success 200 {array} doseResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "medication not found"
// @Router /medications/{medicationID}/doses [get]
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
		writeJSON(w, http.StatusOK, toDoseResponses(items))
	}
}

// updateDoseHandler godoc
// @Summary Actualizar dosis
// @Description Aplica el patch y recalcula is_missed contra el reloj aunque el patch venga vacío.
// @Tags doses
// @Accept json
// @Produce json
// @Param doseID path string true "ID de la dosis"
// @Param payload body updateDoseRequest true "Campos a actualizar"
// @Success 200 {object} doseResponse
// @Failure 400 {string} string "invalid json / fechas inválidas"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "dose not found"
// @Router /doses/{doseID} [patch]
func updateDoseHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		doseID := chi.URLParam(r, "doseID")
		d, err := svc.GetByID(r.Context(), doseID)
		if err != nil {
			http.Error(w, "dose not found", http.StatusNotFound)
			return
		}
		if d.OwnerUserID != claims.UserID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		var req updateDoseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in := UpdateInput{IsTaken: req.IsTaken}
		if req.TakenAt != nil {
			t, err := time.Parse(time.RFC3339, *req.TakenAt)
			if err != nil {
				http.Error(w, "taken_at must be RFC3339", http.StatusBadRequest)
				return
			}
			in.TakenAt = &t
		}
		if req.ScheduledTime != nil {
			t, err := time.Parse(time.RFC3339, *req.ScheduledTime)
			if err != nil {
				http.Error(w, "scheduled_time must be RFC3339", http.StatusBadRequest)
				return
			}
			in.ScheduledTime = &t
		}

		updated, err := svc.Update(r.Context(), doseID, in)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toDoseResponse(updated))
	}
}

func toDoseResponses(items []Dose) []doseResponse {
	out := make([]doseResponse, 0, len(items))
	for _, d := range items {
		out = append(out, toDoseResponse(d))
	}
	return out
}

func toDoseResponse(d Dose) doseResponse {
	return doseResponse{
		ID:            d.ID,
		MedicationID:  d.MedicationID,
		OwnerUserID:   d.OwnerUserID,
		ScheduledTime: d.ScheduledTime,
		IsTaken:       d.IsTaken,
		IsMissed:      d.IsMissed,
		TakenAt:       d.TakenAt,
		CreatedAt:     d.CreatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
