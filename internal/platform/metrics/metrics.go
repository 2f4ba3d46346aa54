package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// CoreMetrics expone contadores de los flujos del core de medicación.
type CoreMetrics struct {
	registry *prometheus.Registry

	medicationsCreated  prometheus.Counter
	remindersDispatched prometheus.Counter
	remindersSnoozed    prometheus.Counter
	interactionChecks   *prometheus.CounterVec
}

func NewCoreMetrics() *CoreMetrics {
	m := &CoreMetrics{
		registry: prometheus.NewRegistry(),
		medicationsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "medtrack",
			Name:      "medications_created_total",
			Help:      "Medicaciones creadas (con sus horarios) con éxito",
		}),
		remindersDispatched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "medtrack",
			Name:      "reminders_dispatched_total",
			Help:      "Recordatorios entregados por el canal de notificación",
		}),
		remindersSnoozed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "medtrack",
			Name:      "reminders_snoozed_total",
			Help:      "Acciones de snooze aplicadas",
		}),
		interactionChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medtrack",
			Name:      "interaction_checks_total",
			Help:      "Chequeos de interacciones ejecutados",
		}, []string{"result"}),
	}

	m.registry.MustRegister(
		m.medicationsCreated,
		m.remindersDispatched,
		m.remindersSnoozed,
		m.interactionChecks,
	)
	return m
}

func (m *CoreMetrics) ObserveMedicationCreated() {
	if m == nil {
		return
	}
	m.medicationsCreated.Inc()
}

func (m *CoreMetrics) ObserveRemindersDispatched(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.remindersDispatched.Add(float64(n))
}

func (m *CoreMetrics) ObserveReminderSnoozed() {
	if m == nil {
		return
	}
	m.remindersSnoozed.Inc()
}

// ObserveInteractionCheck registra un chequeo; result es "clean" o "findings".
func (m *CoreMetrics) ObserveInteractionCheck(findings int) {
	if m == nil {
		return
	}
	result := "clean"
	if findings > 0 {
		result = "findings"
	}
	m.interactionChecks.WithLabelValues(result).Inc()
}

// Handler expone el registry en formato Prometheus.
func (m *CoreMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
