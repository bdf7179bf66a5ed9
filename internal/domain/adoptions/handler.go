package adoptions

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"animal-shelter/internal/middleware"
	"animal-shelter/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

// Mensajes de usuario heredados de la app original.
const (
	msgAnimalGone       = "The animal you're looking for has been adopted or does not exist."
	msgAnimalGonePost   = "This animal has been adopted! There are plenty of forever friends left, though!"
	msgOneApplication   = "Only one application can be submitted per animal."
	msgSubmitted        = "Thanks for applying to adopt! You can monitor the status of your application(s) here!"
	msgStaffGuardFailed = "Either the animal you're looking for was adopted or doesn't exist, or the application you're looking for isn't there."
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/animals/{animalID}/applications", func(ar chi.Router) {
		// flujo del adoptante
		ar.Post("/", submitHandler(svc))

		// gestor de adopciones (staff)
		ar.Get("/", listForAnimalHandler(svc))
		ar.Get("/{applicationID}", decisionGuardHandler(svc))
		ar.Post("/{applicationID}/approve", approveHandler(svc))
		ar.Post("/{applicationID}/reject", rejectHandler(svc))
		ar.Post("/{applicationID}/revise", reviseHandler(svc))
	})

	r.Get("/me/applications", myApplicationsHandler(svc))

	// tablero staff + borrado administrativo
	r.Get("/applications", listPendingHandler(svc))
	r.Delete("/applications/{applicationID}", deleteHandler(svc))
}

type submitRequest struct {
	Text string `json:"text"`
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

type applicationResponse struct {
	ID          string    `json:"id"`
	AnimalID    string    `json:"animal_id"`
	UserID      string    `json:"user_id"`
	StaffID     string    `json:"staff_id,omitempty"`
	Text        string    `json:"text"`
	Reason      string    `json:"reason,omitempty"`
	Status      string    `json:"status"`
	SubmittedAt time.Time `json:"submitted_at"`
}

type submitResponse struct {
	Application applicationResponse `json:"application"`
	Message     string              `json:"message"`
	Redirect    string              `json:"redirect"`
}

type pendingCountResponse struct {
	AnimalID       string `json:"animal_id"`
	AnimalName     string `json:"animal_name"`
	NumPending     int    `json:"num_pending"`
	ArrivedAt      string `json:"arrived_at"`
	AnimalSpecies  string `json:"animal_species"`
	AnimalImageURL string `json:"animal_image_url"`
}

type animalApplicationsResponse struct {
	AnimalID      string                `json:"animal_id"`
	AnimalName    string                `json:"animal_name"`
	Applications  []applicationResponse `json:"applications"`
	NumPending    int                   `json:"num_applications"`
	Rejections    []applicationResponse `json:"rejections"`
	NumRejections int                   `json:"num_rejections"`
}

type decisionGuardResponse struct {
	AnimalID    string              `json:"animal_id"`
	AnimalName  string              `json:"animal_name"`
	Application applicationResponse `json:"application"`

	// Texto precargado para el formulario de rechazo.
	DefaultRejectionReason string `json:"default_rejection_reason"`
}

func submitHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireUser(w, r)
		if !ok {
			return
		}

		animalID := chi.URLParam(r, "animalID")

		var req submitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		app, err := svc.Submit(r.Context(), claims.UserID, SubmitInput{
			AnimalID: animalID,
			Text:     req.Text,
		})
		if err != nil {
			switch err {
			case ErrNotFound:
				writeNotification(w, http.StatusNotFound, msgAnimalGonePost, "/animals")
			case ErrDuplicate:
				writeNotification(w, http.StatusConflict, msgOneApplication, "/animals/"+animalID)
			case ErrInvalidInput:
				writeNotification(w, http.StatusBadRequest, "application text is required", "")
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusCreated, submitResponse{
			Application: toApplicationResponse(app),
			Message:     msgSubmitted,
			Redirect:    "/me/applications",
		})
	}
}

func myApplicationsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireUser(w, r)
		if !ok {
			return
		}

		items, err := svc.ListByUser(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toApplicationResponses(items))
	}
}

func listPendingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireStaff(w, r); !ok {
			return
		}

		items, err := svc.ListPending(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]pendingCountResponse, 0, len(items))
		for _, pc := range items {
			out = append(out, pendingCountResponse{
				AnimalID:       pc.Animal.ID,
				AnimalName:     pc.Animal.Name,
				NumPending:     pc.Count,
				ArrivedAt:      pc.Animal.ArrivedAt.Format("2006-01-02"),
				AnimalSpecies:  string(pc.Animal.Species),
				AnimalImageURL: pc.Animal.ImageURL,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func listForAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireStaff(w, r); !ok {
			return
		}

		res, err := svc.ListForAnimal(r.Context(), chi.URLParam(r, "animalID"))
		if err != nil {
			writeNotification(w, http.StatusNotFound, msgStaffGuardFailed, "/applications")
			return
		}

		writeJSON(w, http.StatusOK, animalApplicationsResponse{
			AnimalID:      res.Animal.ID,
			AnimalName:    res.Animal.Name,
			Applications:  toApplicationResponses(res.Pending),
			NumPending:    len(res.Pending),
			Rejections:    toApplicationResponses(res.Rejections),
			NumRejections: len(res.Rejections),
		})
	}
}

func decisionGuardHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireStaff(w, r); !ok {
			return
		}

		animal, app, err := svc.GetForDecision(r.Context(),
			chi.URLParam(r, "animalID"), chi.URLParam(r, "applicationID"))
		if err != nil {
			writeNotification(w, http.StatusNotFound, msgStaffGuardFailed, "/applications")
			return
		}

		writeJSON(w, http.StatusOK, decisionGuardResponse{
			AnimalID:               animal.ID,
			AnimalName:             animal.Name,
			Application:            toApplicationResponse(app),
			DefaultRejectionReason: DefaultRejectionReason,
		})
	}
}

func approveHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireStaff(w, r)
		if !ok {
			return
		}

		app, err := svc.Approve(r.Context(), claims.UserID,
			chi.URLParam(r, "animalID"), chi.URLParam(r, "applicationID"))
		if err != nil {
			writeDecisionError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toApplicationResponse(app))
	}
}

func rejectHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireStaff(w, r)
		if !ok {
			return
		}

		var req rejectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		app, err := svc.Reject(r.Context(), claims.UserID,
			chi.URLParam(r, "animalID"), chi.URLParam(r, "applicationID"), req.Reason)
		if err != nil {
			if err == ErrInvalidInput {
				writeNotification(w, http.StatusBadRequest, "rejection reason is required", "")
				return
			}
			writeDecisionError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toApplicationResponse(app))
	}
}

func reviseHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireStaff(w, r)
		if !ok {
			return
		}

		app, err := svc.Revise(r.Context(), claims.UserID,
			chi.URLParam(r, "animalID"), chi.URLParam(r, "applicationID"))
		if err != nil {
			writeDecisionError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toApplicationResponse(app))
	}
}

func deleteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := requireStaff(w, r); !ok {
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "applicationID")); err != nil {
			writeNotification(w, http.StatusNotFound, msgStaffGuardFailed, "/applications")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// writeDecisionError resuelve el soft-fail de las transiciones: nunca un
// fault crudo, siempre mensaje + redirect al tablero staff.
func writeDecisionError(w http.ResponseWriter, err error) {
	switch err {
	case ErrNotFound:
		writeNotification(w, http.StatusNotFound, msgStaffGuardFailed, "/applications")
	case ErrBadState:
		writeNotification(w, http.StatusConflict, "This application was already resolved.", "/applications")
	case ErrInvalidInput:
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func requireUser(w http.ResponseWriter, r *http.Request) (auth.Claims, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return auth.Claims{}, false
	}
	return claims, true
}

func requireStaff(w http.ResponseWriter, r *http.Request) (auth.Claims, bool) {
	claims, ok := requireUser(w, r)
	if !ok {
		return auth.Claims{}, false
	}
	if !claims.IsStaff {
		http.Error(w, "forbidden", http.StatusForbidden)
		return auth.Claims{}, false
	}
	return claims, true
}

func toApplicationResponse(app Application) applicationResponse {
	return applicationResponse{
		ID:          app.ID,
		AnimalID:    app.AnimalID,
		UserID:      app.UserID,
		StaffID:     app.StaffID,
		Text:        app.Text,
		Reason:      app.Reason,
		Status:      string(app.Status),
		SubmittedAt: app.SubmittedAt,
	}
}

func toApplicationResponses(items []Application) []applicationResponse {
	out := make([]applicationResponse, 0, len(items))
	for _, app := range items {
		out = append(out, toApplicationResponse(app))
	}
	return out
}

type notification struct {
	Message  string `json:"message"`
	Redirect string `json:"redirect,omitempty"`
}

func writeNotification(w http.ResponseWriter, status int, message, redirect string) {
	writeJSON(w, status, notification{Message: message, Redirect: redirect})
}

// duplicado a propósito por módulo (ver nota en animals/handler.go)
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
