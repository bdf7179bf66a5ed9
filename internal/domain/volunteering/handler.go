package volunteering

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"animal-shelter/internal/middleware"
	"animal-shelter/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

const (
	msgActivityGone   = "The activity you're looking for is no longer available."
	msgActivityClosed = "This activity is no longer open for signups."
	msgSignedUp       = "You're signed up! Thanks for volunteering!"
	msgAlreadySigned  = "You're already signed up for this activity."
	msgRevoked        = "Your signup has been cancelled."
	msgNotSignedUp    = "You weren't signed up for this activity."
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/volunteering", func(vr chi.Router) {
		vr.Get("/", listUpcomingHandler(svc))
		vr.Get("/{activityID}", detailHandler(svc))

		vr.Post("/", createHandler(svc))
		vr.Post("/{activityID}/signup", signupHandler(svc))
		vr.Post("/{activityID}/revoke", revokeHandler(svc))
		vr.Post("/{activityID}/cancel", cancelHandler(svc))
	})
}

type createRequest struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	Date          string `json:"date"` // YYYY-MM-DD
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	MaxAttendance int    `json:"max_attendance"`
	Type          string `json:"type"`
}

type activityResponse struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Date          time.Time `json:"date"`
	StartTime     string    `json:"start_time"`
	EndTime       string    `json:"end_time"`
	MaxAttendance int       `json:"max_attendance"`
	Type          string    `json:"type"`
	Thumbnail     string    `json:"thumbnail"`
	Cancelled     bool      `json:"cancelled"`
	StaffID       string    `json:"staff_id"`
}

type detailResponse struct {
	Activity    activityResponse `json:"activity"`
	SignedUp    bool             `json:"signed_up"`
	SignupCount int              `json:"signup_count"`
}

func listUpcomingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListUpcoming(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]activityResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toActivityResponse(a))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func detailHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// el detalle es público; si hay usuario, mostramos su estado
		volunteerID := ""
		if claims, ok := middleware.GetClaims(r.Context()); ok {
			volunteerID = claims.UserID
		}

		d, err := svc.Get(r.Context(), chi.URLParam(r, "activityID"), volunteerID)
		if err != nil {
			writeNotification(w, http.StatusNotFound, msgActivityGone, "/volunteering")
			return
		}

		writeJSON(w, http.StatusOK, detailResponse{
			Activity:    toActivityResponse(d.Activity),
			SignedUp:    d.SignedUp,
			SignupCount: d.SignupCount,
		})
	}
}

func createHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireStaff(w, r)
		if !ok {
			return
		}

		var req createRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		date, err := time.Parse("2006-01-02", strings.TrimSpace(req.Date))
		if err != nil {
			http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		a, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			Title:         req.Title,
			Description:   req.Description,
			Date:          date,
			StartTime:     req.StartTime,
			EndTime:       req.EndTime,
			MaxAttendance: req.MaxAttendance,
			Type:          ActivityType(strings.TrimSpace(req.Type)),
		})
		if err != nil {
			if err == ErrInvalidInput {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, toActivityResponse(a))
	}
}

func signupHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireUser(w, r)
		if !ok {
			return
		}

		created, err := svc.SignUp(r.Context(), chi.URLParam(r, "activityID"), claims.UserID)
		if err != nil {
			switch err {
			case ErrNotFound:
				writeNotification(w, http.StatusNotFound, msgActivityGone, "/volunteering")
			case ErrBadState:
				writeNotification(w, http.StatusConflict, msgActivityClosed, "/volunteering")
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		if !created {
			// ya estaba anotado: no-op informativo, no error
			writeNotification(w, http.StatusOK, msgAlreadySigned, "")
			return
		}
		writeNotification(w, http.StatusCreated, msgSignedUp, "")
	}
}

func revokeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireUser(w, r)
		if !ok {
			return
		}

		removed, err := svc.Revoke(r.Context(), chi.URLParam(r, "activityID"), claims.UserID)
		if err != nil {
			if err == ErrNotFound {
				writeNotification(w, http.StatusNotFound, msgActivityGone, "/volunteering")
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		if !removed {
			writeNotification(w, http.StatusOK, msgNotSignedUp, "")
			return
		}
		writeNotification(w, http.StatusOK, msgRevoked, "")
	}
}

func cancelHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireStaff(w, r)
		if !ok {
			return
		}

		a, err := svc.Cancel(r.Context(), claims.UserID, chi.URLParam(r, "activityID"))
		if err != nil {
			if err == ErrNotFound {
				writeNotification(w, http.StatusNotFound, msgActivityGone, "/volunteering")
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toActivityResponse(a))
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

func toActivityResponse(a Activity) activityResponse {
	return activityResponse{
		ID:            a.ID,
		Title:         a.Title,
		Description:   a.Description,
		Date:          a.Date,
		StartTime:     a.StartTime,
		EndTime:       a.EndTime,
		MaxAttendance: a.MaxAttendance,
		Type:          string(a.Type),
		Thumbnail:     a.Thumbnail(),
		Cancelled:     a.Cancelled,
		StaffID:       a.StaffID,
	}
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
