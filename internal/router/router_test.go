package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"medication-tracker/internal/router"
)

func TestHTTP_EndToEnd_MedicationFlow(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	ownerID := "user-1"
	strangerID := "user-2"

	// 1) Owner crea medicación twice_daily => 2 horarios generados
	medID, scheduleIDs := createMedication(t, ts.URL, ownerID, map[string]any{
		"name":        "Amoxicillin",
		"dosage":      500,
		"dosage_unit": "mg",
		"frequency":   "twice_daily",
	})
	if len(scheduleIDs) != 2 {
		t.Fatalf("expected 2 schedule ids for twice_daily, got %d", len(scheduleIDs))
	}

	// 2) El listado de horarios de la medicación devuelve los mismos 2
	{
		st, body := doReq(t, ts.URL, "GET", "/medications/"+medID+"/schedules", ownerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list schedules, got %d body=%s", st, string(body))
		}
		var items []map[string]any
		_ = json.Unmarshal(body, &items)
		if len(items) != 2 {
			t.Fatalf("expected 2 schedules listed, got %d body=%s", len(items), string(body))
		}
	}

	// 3) Otro usuario no puede ver la medicación
	{
		st, _ := doReq(t, ts.URL, "GET", "/medications/"+medID, strangerID, nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 get medication by stranger, got %d", st)
		}
	}

	// 4) Dosis con horario en el pasado: un PATCH vacío ya la reporta perdida
	doseID := createDose(t, ts.URL, ownerID, medID, time.Now().Add(-2*time.Hour))
	{
		st, body := doReq(t, ts.URL, "PATCH", "/doses/"+doseID, ownerID, map[string]any{})
		if st != http.StatusOK {
			t.Fatalf("expected 200 patch dose, got %d body=%s", st, string(body))
		}
		var resp struct {
			IsTaken  bool `json:"is_taken"`
			IsMissed bool `json:"is_missed"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.IsTaken || !resp.IsMissed {
			t.Fatalf("expected past untaken dose to be missed, body=%s", string(body))
		}
	}

	// 5) Marcarla tomada limpia is_missed
	{
		st, body := doReq(t, ts.URL, "PATCH", "/doses/"+doseID, ownerID, map[string]any{
			"is_taken": true,
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 patch dose taken, got %d body=%s", st, string(body))
		}
		var resp struct {
			IsTaken  bool    `json:"is_taken"`
			IsMissed bool    `json:"is_missed"`
			TakenAt  *string `json:"taken_at"`
		}
		_ = json.Unmarshal(body, &resp)
		if !resp.IsTaken || resp.IsMissed || resp.TakenAt == nil {
			t.Fatalf("expected taken dose with taken_at set, body=%s", string(body))
		}
	}

	// 6) Recordatorio vencido: dos snoozes suman 2 y lo dejan snoozed
	reminderID := createReminder(t, ts.URL, ownerID, medID, time.Now().Add(-30*time.Minute))
	for i := 0; i < 2; i++ {
		st, body := doReq(t, ts.URL, "POST", "/reminders/"+reminderID+"/snooze", ownerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 snooze, got %d body=%s", st, string(body))
		}
	}
	{
		st, body := doReq(t, ts.URL, "GET", "/reminders?status=snoozed", ownerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list snoozed, got %d body=%s", st, string(body))
		}
		var items []struct {
			ID          string `json:"id"`
			SnoozeCount int    `json:"snooze_count"`
		}
		_ = json.Unmarshal(body, &items)
		if len(items) != 1 || items[0].ID != reminderID || items[0].SnoozeCount != 2 {
			t.Fatalf("expected one snoozed reminder with count 2, body=%s", string(body))
		}
	}

	// 7) Ack es terminal: un snooze posterior rebota con 409
	{
		st, body := doReq(t, ts.URL, "POST", "/reminders/"+reminderID+"/ack", ownerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 ack, got %d body=%s", st, string(body))
		}
		st, _ = doReq(t, ts.URL, "POST", "/reminders/"+reminderID+"/snooze", ownerID, nil)
		if st != http.StatusConflict {
			t.Fatalf("expected 409 snooze after ack, got %d", st)
		}
	}

	// 8) Sin canal de notificación configurado, dispatch responde 503
	{
		st, _ := doReq(t, ts.URL, "POST", "/reminders/dispatch", ownerID, nil)
		if st != http.StatusServiceUnavailable {
			t.Fatalf("expected 503 dispatch without notifier, got %d", st)
		}
	}
}

func TestHTTP_CreateMedication_InvalidCustomHoursLeavesNothing(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	ownerID := "user-1"

	// custom con horas en 0 => 400 y ninguna fila escrita
	st, body := doReq(t, ts.URL, "POST", "/medications", ownerID, map[string]any{
		"name":                   "Painkiller",
		"dosage":                 10,
		"dosage_unit":            "ml",
		"frequency":              "custom",
		"custom_frequency_hours": 0,
	})
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400 for custom frequency without hours, got %d body=%s", st, string(body))
	}

	st, body = doReq(t, ts.URL, "GET", "/medications", ownerID, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 list medications, got %d body=%s", st, string(body))
	}
	var items []map[string]any
	_ = json.Unmarshal(body, &items)
	if len(items) != 0 {
		t.Fatalf("expected no medications after failed create, got %d", len(items))
	}
}

func TestHTTP_InteractionCheck_CrossByNameOnce(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	ownerID := "user-1"

	aspirinID, _ := createMedication(t, ts.URL, ownerID, map[string]any{
		"name":        "Aspirin",
		"dosage":      100,
		"dosage_unit": "mg",
	})
	warfarinID, _ := createMedication(t, ts.URL, ownerID, map[string]any{
		"name":        "Warfarin",
		"dosage":      5,
		"dosage_unit": "mg",
	})

	// Registro de referencia en aspirina contra warfarina
	{
		st, body := doReq(t, ts.URL, "POST", "/medications/"+aspirinID+"/interactions", ownerID, map[string]any{
			"interacting_drug_name": "warfarin",
			"severity":              "major",
			"description":           "increased bleeding risk",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 record interaction, got %d body=%s", st, string(body))
		}
	}

	// El chequeo con ambos ids devuelve el hallazgo exactamente una vez
	{
		st, body := doReq(t, ts.URL, "POST", "/interactions/check", ownerID, map[string]any{
			"medication_ids": []string{aspirinID, warfarinID},
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 check, got %d body=%s", st, string(body))
		}
		var items []struct {
			InteractingDrugName string `json:"interacting_drug_name"`
			Severity            string `json:"severity"`
		}
		_ = json.Unmarshal(body, &items)
		if len(items) != 1 {
			t.Fatalf("expected exactly 1 finding, got %d body=%s", len(items), string(body))
		}
		if items[0].Severity != "major" {
			t.Fatalf("expected major severity, got %q", items[0].Severity)
		}
	}

	// Con un solo id no hay nada que cruzar
	{
		st, body := doReq(t, ts.URL, "POST", "/interactions/check", ownerID, map[string]any{
			"medication_ids": []string{aspirinID},
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 check single id, got %d body=%s", st, string(body))
		}
		var items []map[string]any
		_ = json.Unmarshal(body, &items)
		if len(items) != 0 {
			t.Fatalf("expected empty result for single id, got %d", len(items))
		}
	}
}

func createMedication(t *testing.T, baseURL, userID string, payload map[string]any) (string, []string) {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/medications", userID, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create medication, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID          string   `json:"id"`
		ScheduleIDs []string `json:"schedule_ids"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("create medication: missing id body=%s", string(body))
	}
	return resp.ID, resp.ScheduleIDs
}

func createDose(t *testing.T, baseURL, userID, medID string, scheduled time.Time) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/medications/"+medID+"/doses", userID, map[string]any{
		"scheduled_time": scheduled.UTC().Format(time.RFC3339),
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create dose, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("create dose: missing id body=%s", string(body))
	}
	return resp.ID
}

func createReminder(t *testing.T, baseURL, userID, medID string, scheduled time.Time) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/medications/"+medID+"/reminders", userID, map[string]any{
		"scheduled_time": scheduled.UTC().Format(time.RFC3339),
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create reminder, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("create reminder: missing id body=%s", string(body))
	}
	return resp.ID
}

func doReq(t *testing.T, baseURL, method, path, debugUserID string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if debugUserID != "" {
		req.Header.Set("X-Debug-User-ID", debugUserID)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
