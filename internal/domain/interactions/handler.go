package interactions

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

func RegisterRoutes(r chi.Router, svc *Service, ownerOf func(r *http.Request, medicationID string) (string, error), m *metrics.CoreMetrics) {
	r.Post("/interactions/check", checkInteractionsHandler(svc, m))
	r.Post("/interactions/{interactionID}/ack", acknowledgeInteractionHandler(svc))
	r.Post("/medications/{medicationID}/interactions", recordInteractionHandler(svc, ownerOf))
	r.Get("/medications/{medicationID}/interactions", listByMedicationHandler(svc, ownerOf))
}

type checkInteractionsRequest struct {
	MedicationIDs []string `json:"medication_ids"`
}

type recordInteractionRequest struct {
	InteractingDrugName string `json:"interacting_drug_name"`
	Severity            string `json:"severity" enums:"minor,moderate,major,contraindicated"`
	Description         string `json:"description"`
}

type interactionResponse struct {
	ID                  string    `json:"id"`
	MedicationID        string    `json:"medication_id"`
	InteractingDrugName string    `json:"interacting_drug_name"`
	Severity            string    `json:"severity"`
	Description         string    `json:"description,omitempty"`
	DetectedAt          time.Time `json:"detected_at"`
	IsAcknowledged      bool      `json:"is_acknowledged"`
}

// checkInteractionsHandler godoc
// @Summary Chequear interacciones
// @Description Devuelve la unión deduplicada de interacciones registradas en el set más los cruces por nombre entre sus medicaciones. Con menos de 2 ids la respuesta es una lista vacía.
// @Tags interactions
// @Accept json
// @Produce json
// @Param payload body checkInteractionsRequest true "IDs de medicaciones a cruzar"
// @Success 200 {array} interactionResponse
// @Failure 400 {string} string "invalid json"
// @Failure 401 {string} string "unauthorized"
// @Router /interactions/check [post]
func checkInteractionsHandler(svc *Service, m *metrics.CoreMetrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req checkInteractionsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		found, err := svc.Check(r.Context(), req.MedicationIDs)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		m.ObserveInteractionCheck(len(found))
		writeJSON(w, http.StatusOK, toInteractionResponses(found))
	}
}

// recordInteractionHandler godoc
// @Summary Registrar interacción
// @Description Da de alta un registro de referencia (droga que interactúa + severidad) para una medicación propia.
// @Tags interactions
// @Accept json
// @Produce json
// @Param medicationID path string true "ID de la medicación"
// @Param payload body recordInteractionRequest true "Datos del registro"
// @Success 201 {object} interactionResponse
// @Failure 400 {string} string "invalid json / severidad desconocida"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "medication not found"
// @Router /medications/{medicationID}/interactions [post]
func recordInteractionHandler(svc *Service, ownerOf func(r *http.Request, medicationID string) (string, error)) http.HandlerFunc {
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

		var req recordInteractionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		rec, err := svc.Record(r.Context(), RecordInput{
			MedicationID:        medID,
			InteractingDrugName: req.InteractingDrugName,
			Severity:            req.Severity,
			Description:         req.Description,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, toInteractionResponse(rec))
	}
}

// listByMedicationHandler godoc
// @Summary Interacciones de una medicación
// @Tags interactions
// @Produce json
// @Param medicationID path string true "ID de la medicación"
// @Success 200 {array} interactionResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "medication not found"
// @Router /medications/{medicationID}/interactions [get]
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
		writeJSON(w, http.StatusOK, toInteractionResponses(items))
	}
}

// acknowledgeInteractionHandler godoc
// @Summary Confirmar interacción
// @Description Marca el registro como visto por el usuario; no lo elimina de futuros chequeos.
// @Tags interactions
// @Produce json
// @Param interactionID path string true "ID del registro"
// @Success 200 {object} interactionResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "interaction not found"
// @Router /interactions/{interactionID}/ack [post]
func acknowledgeInteractionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		rec, err := svc.Acknowledge(r.Context(), chi.URLParam(r, "interactionID"))
		if err != nil {
			http.Error(w, "interaction not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, toInteractionResponse(rec))
	}
}

func toInteractionResponses(items []Interaction) []interactionResponse {
	out := make([]interactionResponse, 0, len(items))
	for _, rec := range items {
		out = append(out, toInteractionResponse(rec))
	}
	return out
}

func toInteractionResponse(rec Interaction) interactionResponse {
	return interactionResponse{
		ID:                  rec.ID,
		MedicationID:        rec.MedicationID,
		InteractingDrugName: rec.InteractingDrugName,
		Severity:            string(rec.Severity),
		Description:         rec.Description,
		DetectedAt:          rec.DetectedAt,
		IsAcknowledged:      rec.IsAcknowledged,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
