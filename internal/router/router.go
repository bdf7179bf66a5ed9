package router

import (
	"database/sql"
	"net/http"
	"os"

	mem "animal-shelter/internal/adapters/storage/memory"
	pg "animal-shelter/internal/adapters/storage/postgres"
	"animal-shelter/internal/domain/adoptions"
	"animal-shelter/internal/domain/animals"
	"animal-shelter/internal/domain/volunteering"
	"animal-shelter/internal/middleware"
	"animal-shelter/internal/platform/logger"
	"animal-shelter/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Opcional: logger de requests. Si es nil no se loguea.
	Log logger.Logger
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	if opts.Log != nil {
		r.Use(middleware.RequestLogger(opts.Log))
	}

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	var (
		animalRepo   animals.Repository
		appRepo      adoptions.Repository
		activityRepo volunteering.Repository
		tx           adoptions.Tx
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
		animalRepo = pg.NewAnimalsRepo(db)
		appRepo = pg.NewApplicationsRepo(db)
		activityRepo = pg.NewActivitiesRepo(db)
		tx = pg.NewTx(db)
	} else {
		memAnimals := mem.NewAnimalsRepo()
		memApps := mem.NewApplicationsRepo()
		animalRepo = memAnimals
		appRepo = memApps
		activityRepo = mem.NewActivitiesRepo()
		tx = mem.NewTx(memAnimals, memApps)
	}

	// Services por módulo
	animalsSvc := animals.NewService(animalRepo)
	adoptionsSvc := adoptions.NewService(appRepo, animalRepo, tx)
	volunteeringSvc := volunteering.NewService(activityRepo)

	// Rutas por módulo; adoptionsSvc provee el resumen de solicitudes
	// que el detalle de animal muestra al usuario logueado
	animals.RegisterRoutes(r, animalsSvc, adoptionsSvc)
	adoptions.RegisterRoutes(r, adoptionsSvc)
	volunteering.RegisterRoutes(r, volunteeringSvc)

	return r
}
