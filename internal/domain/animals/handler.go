package animals

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"animal-shelter/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// ApplicationSummary es lo único que el detalle público necesita saber del
// módulo de adopciones (evita el ciclo de imports adoptions -> animals).
type ApplicationSummary struct {
	ID          string
	Status      string
	SubmittedAt time.Time
}

// ApplicationFinder lo implementa el service de adopciones.
type ApplicationFinder interface {
	SummaryForUser(ctx context.Context, animalID, userID string) (ApplicationSummary, bool, error)
}

func RegisterRoutes(r chi.Router, svc *Service, apps ApplicationFinder) {
	r.Route("/animals", func(ar chi.Router) {
		// vistas públicas
		ar.Get("/", listAvailableHandler(svc))
		ar.Get("/search", searchHandler(svc))
		ar.Get("/{animalID}", detailHandler(svc, apps))

		// ingreso de un nuevo animal (staff)
		ar.Post("/", registerHandler(svc))
	})
}

type registerRequest struct {
	Name        string `json:"name"`
	Species     string `json:"species"`
	Breed       string `json:"breed"`
	Color       string `json:"color"`
	Sex         string `json:"sex"`
	BirthDate   string `json:"birth_date"` // YYYY-MM-DD
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	ArrivedAt   string `json:"arrived_at"` // YYYY-MM-DD opcional, default hoy
}

type animalResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Species     string     `json:"species"`
	Breed       string     `json:"breed"`
	Color       string     `json:"color"`
	Sex         string     `json:"sex"`
	BirthDate   time.Time  `json:"birth_date"`
	Description string     `json:"description"`
	ImageURL    string     `json:"image_url"`
	ArrivedAt   time.Time  `json:"arrived_at"`
	AdoptedAt   *time.Time `json:"adopted_at,omitempty"`
	StaffID     string     `json:"staff_id"`
}

type detailResponse struct {
	Animal animalResponse `json:"animal"`

	// Estado de la solicitud del usuario logueado, si existe.
	ExistingApplication *applicationSummaryResponse `json:"existing_application,omitempty"`
}

type applicationSummaryResponse struct {
	ID          string    `json:"id"`
	Status      string    `json:"status"`
	SubmittedAt time.Time `json:"submitted_at"`
}

func listAvailableHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListAvailable(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toAnimalResponses(items))
	}
}

func searchHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f := SearchFilter{
			Species: SpeciesFilter(strings.TrimSpace(r.URL.Query().Get("species"))),
			Age:     AgeBand(strings.TrimSpace(r.URL.Query().Get("age"))),
			Name:    r.URL.Query().Get("q"),
		}

		items, err := svc.Search(r.Context(), f)
		if err != nil {
			if err == ErrInvalidInput {
				http.Error(w, "unknown species or age filter", http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toAnimalResponses(items))
	}
}

func detailHandler(svc *Service, apps ApplicationFinder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		animalID := chi.URLParam(r, "animalID")

		a, err := svc.GetAvailable(r.Context(), animalID)
		if err != nil {
			writeNotification(w, http.StatusNotFound,
				"The animal you're looking for has been adopted or does not exist.", "/animals")
			return
		}

		out := detailResponse{Animal: toAnimalResponse(a)}

		// Si hay usuario logueado, mostramos el estado de su solicitud.
		if claims, ok := middleware.GetClaims(r.Context()); ok && apps != nil {
			if sum, found, err := apps.SummaryForUser(r.Context(), a.ID, claims.UserID); err == nil && found {
				out.ExistingApplication = &applicationSummaryResponse{
					ID:          sum.ID,
					Status:      sum.Status,
					SubmittedAt: sum.SubmittedAt,
				}
			}
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func registerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if !claims.IsStaff {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		bd, err := time.Parse("2006-01-02", strings.TrimSpace(req.BirthDate))
		if err != nil {
			http.Error(w, "birth_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		var arrived *time.Time
		if strings.TrimSpace(req.ArrivedAt) != "" {
			t, err := time.Parse("2006-01-02", strings.TrimSpace(req.ArrivedAt))
			if err != nil {
				http.Error(w, "arrived_at must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			arrived = &t
		}

		a, err := svc.Register(r.Context(), claims.UserID, RegisterInput{
			Name:        req.Name,
			Species:     req.Species,
			Breed:       req.Breed,
			Color:       req.Color,
			Sex:         req.Sex,
			BirthDate:   bd,
			Description: req.Description,
			ImageURL:    req.ImageURL,
			ArrivedAt:   arrived,
		})
		if err != nil {
			if err == ErrInvalidInput {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, toAnimalResponse(a))
	}
}

func toAnimalResponse(a Animal) animalResponse {
	return animalResponse{
		ID:          a.ID,
		Name:        a.Name,
		Species:     string(a.Species),
		Breed:       a.Breed,
		Color:       a.Color,
		Sex:         string(a.Sex),
		BirthDate:   a.BirthDate,
		Description: a.Description,
		ImageURL:    a.ImageURL,
		ArrivedAt:   a.ArrivedAt,
		AdoptedAt:   a.AdoptedAt,
		StaffID:     a.StaffID,
	}
}

func toAnimalResponses(items []Animal) []animalResponse {
	out := make([]animalResponse, 0, len(items))
	for _, a := range items {
		out = append(out, toAnimalResponse(a))
	}
	return out
}

// notification es la versión API del redirect-con-mensaje de la app original:
// el cliente muestra Message y navega a Redirect.
type notification struct {
	Message  string `json:"message"`
	Redirect string `json:"redirect,omitempty"`
}

func writeNotification(w http.ResponseWriter, status int, message, redirect string) {
	writeJSON(w, status, notification{Message: message, Redirect: redirect})
}

// writeJSON está duplicado a propósito en los handlers de cada módulo
// (animals/adoptions/volunteering) para no crear helpers compartidos
// demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
