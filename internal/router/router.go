package router

import (
	"net/http"

	mem "vet-clinic/internal/adapters/storage/memory"
	"vet-clinic/internal/domain/awards"
	"vet-clinic/internal/domain/billing"
	"vet-clinic/internal/domain/clients"
	"vet-clinic/internal/domain/medicalrecords"
	"vet-clinic/internal/domain/patients"
	"vet-clinic/internal/domain/pets"
	"vet-clinic/internal/middleware"
	"vet-clinic/internal/platform/eventbus"
	"vet-clinic/internal/platform/httpjson"
	"vet-clinic/internal/platform/logger"
	"vet-clinic/internal/ports/auth"

	_ "vet-clinic/docs"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Stores agrupa la persistencia de todos los módulos. Cada campo puede venir de
// un backend distinto (p. ej. Postgres para clients/pets/awards y Mongo para el resto).
type Stores struct {
	Clients        clients.Repository
	Pets           pets.Repository
	Awards         awards.Repository
	Patients       patients.Repository
	Owners         patients.OwnerRepository
	MedicalRecords medicalrecords.Store
	Invoices       billing.InvoiceRepository
	Payments       billing.PaymentRepository
}

// MemoryStores es el backend de dev y tests.
func MemoryStores() Stores {
	return Stores{
		Clients:        mem.NewClientRepo(),
		Pets:           mem.NewPetRepo(),
		Awards:         mem.NewAwardRepo(),
		Patients:       mem.NewPatientRepo(),
		Owners:         mem.NewOwnerRepo(),
		MedicalRecords: mem.NewMedicalRecordStore(),
		Invoices:       mem.NewInvoiceRepo(),
		Payments:       mem.NewPaymentRepo(),
	}
}

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)
	Log          logger.Logger

	// Opcional: sin Stores se usa memoria.
	Stores *Stores

	// Publisher nil => bus en memoria conectado a Dispatcher, la réplica de
	// patients se actualiza en el mismo request.
	Publisher eventbus.Publisher

	// Dispatcher recibe los handlers de patients; lo consume redisbus.Consumer
	// cuando Publisher es Redis.
	Dispatcher *eventbus.Dispatcher
}

func NewRouter(opts Options) http.Handler {
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}

	stores := MemoryStores()
	if opts.Stores != nil {
		stores = *opts.Stores
	}

	dispatcher := opts.Dispatcher
	if dispatcher == nil {
		dispatcher = eventbus.NewDispatcher(log.With(map[string]any{"component": "dispatcher"}))
	}
	pub := opts.Publisher
	if pub == nil {
		bus := eventbus.NewMemoryBus()
		bus.Attach(dispatcher)
		pub = bus
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		httpjson.OK(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// Services por módulo
	clientsSvc := clients.NewService(stores.Clients, pub, log.With(map[string]any{"module": "clients"}))
	petsSvc := pets.NewService(stores.Pets, clientsSvc)
	awardsSvc := awards.NewService(stores.Awards, petsSvc)
	patientsSvc := patients.NewService(stores.Patients, stores.Owners, log.With(map[string]any{"module": "patients"}))
	recordsSvc := medicalrecords.NewService(stores.MedicalRecords, patientsSvc, pub, log.With(map[string]any{"module": "medicalrecords"}))
	billingSvc := billing.NewService(stores.Invoices, stores.Payments, clientsSvc, pub, log.With(map[string]any{"module": "billing"}))

	patients.RegisterEventHandlers(dispatcher, patientsSvc)

	// Rutas por módulo
	clients.RegisterRoutes(r, clientsSvc)
	pets.RegisterRoutes(r, petsSvc)
	awards.RegisterRoutes(r, awardsSvc)
	patients.RegisterRoutes(r, patientsSvc)
	medicalrecords.RegisterRoutes(r, recordsSvc)
	billing.RegisterRoutes(r, billingSvc)

	return r
}
