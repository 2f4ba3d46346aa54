package router

import (
	"database/sql"
	"net/http"
	"os"
	"time"

	"medication-tracker/internal/adapters/notify/webhook"
	mem "medication-tracker/internal/adapters/storage/memory"
	pg "medication-tracker/internal/adapters/storage/postgres"
	"medication-tracker/internal/domain/doses"
	"medication-tracker/internal/domain/interactions"
	"medication-tracker/internal/domain/medications"
	"medication-tracker/internal/domain/prescriptions"
	"medication-tracker/internal/domain/reminders"
	"medication-tracker/internal/domain/schedules"
	"medication-tracker/internal/middleware"
	"medication-tracker/internal/platform/logger"
	"medication-tracker/internal/platform/metrics"
	"medication-tracker/internal/ports/auth"
	"medication-tracker/internal/ports/notify"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Opcional: canal de notificación para /reminders/dispatch. Si no viene
	// se intenta armar desde REMINDER_WEBHOOK_URL.
	Notifier notify.Notifier

	Logger  logger.Logger
	Metrics *metrics.CoreMetrics
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	m := opts.Metrics
	if m == nil {
		m = metrics.NewCoreMetrics()
	}

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(opts.Logger))

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", m.Handler())

	var (
		medsRepo          medications.Repository
		schedulesRepo     schedules.Repository
		dosesRepo         doses.Repository
		remindersRepo     reminders.Repository
		interactionsRepo  interactions.Repository
		prescriptionsRepo prescriptions.Repository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			}
		}
	}

	if db != nil {
		medsRepo = pg.NewMedicationsRepo(db)
		schedulesRepo = pg.NewSchedulesRepo(db)
		dosesRepo = pg.NewDosesRepo(db)
		remindersRepo = pg.NewRemindersRepo(db)
		interactionsRepo = pg.NewInteractionsRepo(db)
		prescriptionsRepo = pg.NewPrescriptionsRepo(db)
	} else {
		// El repo de medicaciones comparte el de horarios para que el alta
		// medicación+horarios sea todo-o-nada también en memoria.
		memSchedules := mem.NewSchedulesRepo()
		medsRepo = mem.NewMedicationsRepo(memSchedules)
		schedulesRepo = memSchedules
		dosesRepo = mem.NewDosesRepo()
		remindersRepo = mem.NewRemindersRepo()
		interactionsRepo = mem.NewInteractionsRepo()
		prescriptionsRepo = mem.NewPrescriptionsRepo()
	}

	notifier := opts.Notifier
	if notifier == nil {
		if base := os.Getenv("REMINDER_WEBHOOK_URL"); base != "" {
			if wh, err := webhook.New(base, 5*time.Second); err == nil {
				notifier = wh
			}
		}
	}

	// Services por módulo
	medsSvc := medications.NewService(medsRepo)
	schedulesSvc := schedules.NewService(schedulesRepo)
	dosesSvc := doses.NewService(dosesRepo)
	remindersSvc := reminders.NewService(remindersRepo, notifier)
	interactionsSvc := interactions.NewService(interactionsRepo, medsSvc)
	prescriptionsSvc := prescriptions.NewService(prescriptionsRepo)

	// Los módulos satélite chequean dueño vía este closure en lugar de
	// importar medications (evita ciclos).
	ownerOf := func(r *http.Request, medicationID string) (string, error) {
		return medsSvc.OwnerOf(r.Context(), medicationID)
	}
	nameOf := func(r *http.Request, medicationID string) (string, error) {
		return medsSvc.NameOf(r.Context(), medicationID)
	}

	// Rutas por módulo
	medications.RegisterRoutes(r, medsSvc, m)
	schedules.RegisterRoutes(r, schedulesSvc, ownerOf)
	doses.RegisterRoutes(r, dosesSvc, ownerOf)
	reminders.RegisterRoutes(r, remindersSvc, medsSvc, ownerOf, m)
	interactions.RegisterRoutes(r, interactionsSvc, ownerOf, m)
	prescriptions.RegisterRoutes(r, prescriptionsSvc, ownerOf, nameOf)

	return r
}
