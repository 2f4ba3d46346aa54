package prescriptions

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"medication-tracker/internal/middleware"
)

func RegisterRoutes(r chi.Router, svc *Service, ownerOf func(r *http.Request, medicationID string) (string, error), nameOf func(r *http.Request, medicationID string) (string, error)) {
	r.Post("/medications/{medicationID}/prescriptions", createPrescriptionHandler(svc, ownerOf))
	r.Get("/medications/{medicationID}/prescriptions", listByMedicationHandler(svc, ownerOf))

	r.Route("/prescriptions", func(pr chi.Router) {
		pr.Get("/expiring", listExpiringHandler(svc, ownerOf, nameOf))
		pr.Get("/{prescriptionID}", getPrescriptionHandler(svc, ownerOf))
		pr.Patch("/{prescriptionID}", updatePrescriptionHandler(svc, ownerOf))
		pr.Delete("/{prescriptionID}", deletePrescriptionHandler(svc, ownerOf))
	})
}

type createPrescriptionRequest struct {
	PrescriptionNumber string `json:"prescription_number"`
	PrescriberName     string `json:"prescriber_name"`
	PrescriberContact  string `json:"prescriber_contact"`
	PharmacyName       string `json:"pharmacy_name"`
	PharmacyContact    string `json:"pharmacy_contact"`
	IssueDate          string `json:"issue_date"`  // YYYY-MM-DD
	ExpiryDate         string `json:"expiry_date"` // YYYY-MM-DD
	Notes              string `json:"notes"`
}

type updatePrescriptionRequest struct {
	PrescriptionNumber *string `json:"prescription_number"`
	PrescriberName     *string `json:"prescriber_name"`
	PrescriberContact  *string `json:"prescriber_contact"`
	PharmacyName       *string `json:"pharmacy_name"`
	PharmacyContact    *string `json:"pharmacy_contact"`
	ExpiryDate         *string `json:"expiry_date"` // YYYY-MM-DD
	Status             *string `json:"status" enums:"active,expired,cancelled"`
	Notes              *string `json:"notes"`
}

type prescriptionResponse struct {
	ID                 string    `json:"id"`
	MedicationID       string    `json:"medication_id"`
	PrescriptionNumber string    `json:"prescription_number"`
	PrescriberName     string    `json:"prescriber_name,omitempty"`
	PrescriberContact  string    `json:"prescriber_contact,omitempty"`
	PharmacyName       string    `json:"pharmacy_name,omitempty"`
	PharmacyContact    string    `json:"pharmacy_contact,omitempty"`
	IssueDate          time.Time `json:"issue_date"`
	ExpiryDate         time.Time `json:"expiry_date"`
	Status             string    `json:"status"`
	Notes              string    `json:"notes,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`

	// MedicationName viene solo en el listado de próximos vencimientos.
	MedicationName string `json:"medication_name,omitempty"`
}

// createPrescriptionHandler godoc
// @Summary Crear receta
// @Tags prescriptions
// @Accept json
// @Produce json
// @Param medicationID path string true "ID de la medicación"
// @Param payload body createPrescriptionRequest true "Datos de la receta"
// @Success 201 {object} prescriptionResponse
// @Failure 400 {string} string "invalid json / fechas inválidas"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "medication not found"
// @Router /medications/{medicationID}/prescriptions [post]
func createPrescriptionHandler(svc *Service, ownerOf func(r *http.Request, medicationID string) (string, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		medID := chi.URLParam(r, "medicationID")
		if st := checkOwner(r, ownerOf, medID, claims.UserID); st != 0 {
			http.Error(w, http.StatusText(st), st)
			return
		}

		var req createPrescriptionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		issue, err := time.Parse("2006-01-02", req.IssueDate)
		if err != nil {
			http.Error(w, "issue_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		expiry, err := time.Parse("2006-01-02", req.ExpiryDate)
		if err != nil {
			http.Error(w, "expiry_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		p, err := svc.Create(r.Context(), CreateInput{
			MedicationID:       medID,
			PrescriptionNumber: req.PrescriptionNumber,
			PrescriberName:     req.PrescriberName,
			PrescriberContact:  req.PrescriberContact,
			PharmacyName:       req.PharmacyName,
			PharmacyContact:    req.PharmacyContact,
			IssueDate:          issue,
			ExpiryDate:         expiry,
			Notes:              req.Notes,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, toPrescriptionResponse(p))
	}
}

// listByMedicationHandler godoc
// @Summary Recetas por medicación
// @Tags prescriptions
// @Produce json
// @Param medicationID path string true "ID de la medicación"
// @Success 200 {array} prescriptionResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "medication not found"
// @Router /medications/{medicationID}/prescriptions [get]
func listByMedicationHandler(svc *Service, ownerOf func(r *http.Request, medicationID string) (string, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		medID := chi.URLParam(r, "medicationID")
		if st := checkOwner(r, ownerOf, medID, claims.UserID); st != 0 {
			http.Error(w, http.StatusText(st), st)
			return
		}

		items, err := svc.ListByMedication(r.Context(), medID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toPrescriptionResponses(items))
	}
}

// listExpiringHandler godoc
// @Summary Recetas próximas a vencer
// @Description Recetas del usuario con vencimiento dentro de los próximos N días (default 30), con el nombre de la medicación proyectado en cada fila.
// @Tags prescriptions
// @Produce json
// @Param days query int false "Ventana en días (default 30)"
// @Success 200 {array} prescriptionResponse
// @Failure 400 {string} string "days inválido"
// @Failure 401 {string} string "unauthorized"
// @Router /prescriptions/expiring [get]
func listExpiringHandler(svc *Service, ownerOf func(r *http.Request, medicationID string) (string, error), nameOf func(r *http.Request, medicationID string) (string, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		days := 30
		if raw := strings.TrimSpace(r.URL.Query().Get("days")); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				http.Error(w, "days must be a positive integer", http.StatusBadRequest)
				return
			}
			days = n
		}

		items, err := svc.ListExpiringSoon(r.Context(), days)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		// Se filtra a las medicaciones del usuario y se proyecta el nombre;
		// una medicación que no resuelve se salta sin cortar el listado.
		out := make([]prescriptionResponse, 0, len(items))
		for _, p := range items {
			owner, err := ownerOf(r, p.MedicationID)
			if err != nil || owner != claims.UserID {
				continue
			}
			resp := toPrescriptionResponse(p)
			if name, err := nameOf(r, p.MedicationID); err == nil {
				resp.MedicationName = name
			}
			out = append(out, resp)
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// getPrescriptionHandler godoc
// @Summary Obtener receta
// @Tags prescriptions
// @Produce json
// @Param prescriptionID path string true "ID de la receta"
// @Success 200 {object} prescriptionResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "prescription not found"
// @Router /prescriptions/{prescriptionID} [get]
func getPrescriptionHandler(svc *Service, ownerOf func(r *http.Request, medicationID string) (string, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		p, err := svc.GetByID(r.Context(), chi.URLParam(r, "prescriptionID"))
		if err != nil {
			http.Error(w, "prescription not found", http.StatusNotFound)
			return
		}
		if st := checkOwner(r, ownerOf, p.MedicationID, claims.UserID); st != 0 {
			http.Error(w, http.StatusText(st), st)
			return
		}

		writeJSON(w, http.StatusOK, toPrescriptionResponse(p))
	}
}

// updatePrescriptionHandler godoc
// @Summary Actualizar receta
// @Tags prescriptions
// @Accept json
// @Produce json
// @Param prescriptionID path string true "ID de la receta"
// @Param payload body updatePrescriptionRequest true "Campos a actualizar"
// @Success 200 {object} prescriptionResponse
// @Failure 400 {string} string "invalid json / campos inválidos"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "prescription not found"
// @Router /prescriptions/{prescriptionID} [patch]
func updatePrescriptionHandler(svc *Service, ownerOf func(r *http.Request, medicationID string) (string, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		pID := chi.URLParam(r, "prescriptionID")
		p, err := svc.GetByID(r.Context(), pID)
		if err != nil {
			http.Error(w, "prescription not found", http.StatusNotFound)
			return
		}
		if st := checkOwner(r, ownerOf, p.MedicationID, claims.UserID); st != 0 {
			http.Error(w, http.StatusText(st), st)
			return
		}

		var req updatePrescriptionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in := UpdateInput{
			PrescriptionNumber: req.PrescriptionNumber,
			PrescriberName:     req.PrescriberName,
			PrescriberContact:  req.PrescriberContact,
			PharmacyName:       req.PharmacyName,
			PharmacyContact:    req.PharmacyContact,
			Notes:              req.Notes,
		}
		if req.ExpiryDate != nil {
			t, err := time.Parse("2006-01-02", *req.ExpiryDate)
			if err != nil {
				http.Error(w, "expiry_date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			in.ExpiryDate = &t
		}
		if req.Status != nil {
			st := Status(strings.TrimSpace(*req.Status))
			in.Status = &st
		}

		updated, err := svc.Update(r.Context(), pID, in)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toPrescriptionResponse(updated))
	}
}

// deletePrescriptionHandler godoc
// @Summary Eliminar receta
// @Tags prescriptions
// @Param prescriptionID path string true "ID de la receta"
// @Success 204 {string} string ""
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "prescription not found"
// @Router /prescriptions/{prescriptionID} [delete]
func deletePrescriptionHandler(svc *Service, ownerOf func(r *http.Request, medicationID string) (string, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		pID := chi.URLParam(r, "prescriptionID")
		p, err := svc.GetByID(r.Context(), pID)
		if err != nil {
			http.Error(w, "prescription not found", http.StatusNotFound)
			return
		}
		if st := checkOwner(r, ownerOf, p.MedicationID, claims.UserID); st != 0 {
			http.Error(w, http.StatusText(st), st)
			return
		}

		if err := svc.Delete(r.Context(), pID); err != nil {
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

func toPrescriptionResponses(items []Prescription) []prescriptionResponse {
	out := make([]prescriptionResponse, 0, len(items))
	for _, p := range items {
		out = append(out, toPrescriptionResponse(p))
	}
	return out
}

func toPrescriptionResponse(p Prescription) prescriptionResponse {
	return prescriptionResponse{
		ID:                 p.ID,
		MedicationID:       p.MedicationID,
		PrescriptionNumber: p.PrescriptionNumber,
		PrescriberName:     p.PrescriberName,
		PrescriberContact:  p.PrescriberContact,
		PharmacyName:       p.PharmacyName,
		PharmacyContact:    p.PharmacyContact,
		IssueDate:          p.IssueDate,
		ExpiryDate:         p.ExpiryDate,
		Status:             string(p.Status),
		Notes:              p.Notes,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
