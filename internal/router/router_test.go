package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"animal-shelter/internal/router"
)

func TestHTTP_EndToEnd_AdoptionLifecycle(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	staffID := "staff-1"
	aliceID := "alice"
	bobID := "bob"

	// 1) Staff registra un animal
	animalID := createAnimal(t, ts.URL, staffID, map[string]any{
		"name":       "Fluffy",
		"species":    "cat",
		"breed":      "mixed",
		"sex":        "F",
		"birth_date": "2024-06-01",
	})

	// 2) El detalle público lo muestra sin solicitud previa
	{
		st, body := doReq(t, ts.URL, "GET", "/animals/"+animalID, aliceID, false, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 animal detail, got %d body=%s", st, string(body))
		}
		var resp struct {
			ExistingApplication *struct {
				ID string `json:"id"`
			} `json:"existing_application"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.ExistingApplication != nil {
			t.Fatalf("expected no existing application yet")
		}
	}

	// 3) Alice y Bob aplican
	aliceApp := submitApplication(t, ts.URL, aliceID, animalID, "I have a big yard")
	submitApplication(t, ts.URL, bobID, animalID, "I work from home")

	// 4) Segunda solicitud de Alice => 409 con mensaje
	{
		st, body := doReq(t, ts.URL, "POST", "/animals/"+animalID+"/applications", aliceID, false, map[string]any{
			"text": "again",
		})
		if st != http.StatusConflict {
			t.Fatalf("expected 409 duplicate application, got %d body=%s", st, string(body))
		}
		var resp struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.Message != "Only one application can be submitted per animal." {
			t.Fatalf("unexpected duplicate message %q", resp.Message)
		}
	}

	// 5) El tablero staff muestra 2 pendientes
	{
		st, body := doReq(t, ts.URL, "GET", "/applications", staffID, true, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 pending board, got %d body=%s", st, string(body))
		}
		var resp []struct {
			AnimalID   string `json:"animal_id"`
			NumPending int    `json:"num_pending"`
		}
		_ = json.Unmarshal(body, &resp)
		if len(resp) != 1 || resp[0].NumPending != 2 {
			t.Fatalf("expected 1 animal with 2 pending, got %+v", resp)
		}
	}

	// 6) Un no-staff no puede ver el tablero
	{
		st, _ := doReq(t, ts.URL, "GET", "/applications", aliceID, false, nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 for non-staff, got %d", st)
		}
	}

	// 7) Staff aprueba a Alice
	{
		st, body := doReq(t, ts.URL, "POST", "/animals/"+animalID+"/applications/"+aliceApp+"/approve", staffID, true, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 approve, got %d body=%s", st, string(body))
		}
		var resp struct {
			Status string `json:"status"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.Status != "approved" {
			t.Fatalf("expected approved, got %q", resp.Status)
		}
	}

	// 8) El detalle público ahora responde 404 con mensaje + redirect
	{
		st, body := doReq(t, ts.URL, "GET", "/animals/"+animalID, aliceID, false, nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 after adoption, got %d body=%s", st, string(body))
		}
		var resp struct {
			Message  string `json:"message"`
			Redirect string `json:"redirect"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.Message != "The animal you're looking for has been adopted or does not exist." {
			t.Fatalf("unexpected message %q", resp.Message)
		}
		if resp.Redirect != "/animals" {
			t.Fatalf("unexpected redirect %q", resp.Redirect)
		}
	}

	// 9) Bob quedó rechazado en cascada y lo ve en sus solicitudes
	{
		st, body := doReq(t, ts.URL, "GET", "/me/applications", bobID, false, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 my applications, got %d body=%s", st, string(body))
		}
		var resp []struct {
			Status string `json:"status"`
			Reason string `json:"reason"`
		}
		_ = json.Unmarshal(body, &resp)
		if len(resp) != 1 || resp[0].Status != "rejected" {
			t.Fatalf("expected bob rejected, got %+v", resp)
		}
		if resp[0].Reason == "" {
			t.Fatalf("expected cascade rejection reason")
		}
	}

	// 10) Aplicar al animal adoptado => 404 con mensaje POST
	{
		st, body := doReq(t, ts.URL, "POST", "/animals/"+animalID+"/applications", "carol", false, map[string]any{
			"text": "too late",
		})
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 applying to adopted animal, got %d body=%s", st, string(body))
		}
		var resp struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.Message != "This animal has been adopted! There are plenty of forever friends left, though!" {
			t.Fatalf("unexpected message %q", resp.Message)
		}
	}
}

func TestHTTP_SearchFilters(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	staffID := "staff-1"
	young := time.Now().UTC().AddDate(-1, 0, 0).Format("2006-01-02")
	senior := time.Now().UTC().AddDate(-10, 0, 0).Format("2006-01-02")

	createAnimal(t, ts.URL, staffID, map[string]any{
		"name": "Kitten", "species": "cat", "sex": "F", "birth_date": young,
	})
	createAnimal(t, ts.URL, staffID, map[string]any{
		"name": "OldTurtle", "species": "turtle", "sex": "M", "birth_date": senior,
	})

	{
		st, body := doReq(t, ts.URL, "GET", "/animals/search?species=other&age=senior", "", false, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 search, got %d body=%s", st, string(body))
		}
		var resp []struct {
			Name string `json:"name"`
		}
		_ = json.Unmarshal(body, &resp)
		if len(resp) != 1 || resp[0].Name != "OldTurtle" {
			t.Fatalf("expected only OldTurtle, got %+v", resp)
		}
	}

	// filtro desconocido => 400
	{
		st, _ := doReq(t, ts.URL, "GET", "/animals/search?age=puppy", "", false, nil)
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 for unknown age band, got %d", st)
		}
	}
}

func TestHTTP_VolunteeringFlow(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	staffID := "staff-1"
	volID := "vol-1"

	date := time.Now().UTC().AddDate(0, 0, 7).Format("2006-01-02")

	// 1) Staff crea la actividad
	st, body := doReq(t, ts.URL, "POST", "/volunteering", staffID, true, map[string]any{
		"title":          "Dog Walk",
		"description":    "Walk the dogs around the park",
		"date":           date,
		"start_time":     "10:00",
		"end_time":       "12:00",
		"max_attendance": 10,
		"type":           "dogs",
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create activity, got %d body=%s", st, string(body))
	}
	var created struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &created)
	if created.ID == "" {
		t.Fatalf("create activity: missing id body=%s", string(body))
	}
	activityID := created.ID

	// 2) Signup del voluntario
	{
		st, body := doReq(t, ts.URL, "POST", "/volunteering/"+activityID+"/signup", volID, false, nil)
		if st != http.StatusCreated {
			t.Fatalf("expected 201 signup, got %d body=%s", st, string(body))
		}
	}

	// 3) Re-signup => 200 con mensaje, sin fila nueva
	{
		st, body := doReq(t, ts.URL, "POST", "/volunteering/"+activityID+"/signup", volID, false, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 repeat signup, got %d body=%s", st, string(body))
		}
		var resp struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.Message != "You're already signed up for this activity." {
			t.Fatalf("unexpected message %q", resp.Message)
		}
	}

	// 4) Detalle refleja el signup
	{
		st, body := doReq(t, ts.URL, "GET", "/volunteering/"+activityID, volID, false, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 detail, got %d body=%s", st, string(body))
		}
		var resp struct {
			SignedUp    bool `json:"signed_up"`
			SignupCount int  `json:"signup_count"`
		}
		_ = json.Unmarshal(body, &resp)
		if !resp.SignedUp || resp.SignupCount != 1 {
			t.Fatalf("expected signed_up with count 1, got %+v", resp)
		}
	}

	// 5) Staff cancela: la lista la sigue mostrando con la bandera,
	// pero detalle y signup quedan bloqueados
	{
		st, _ := doReq(t, ts.URL, "POST", "/volunteering/"+activityID+"/cancel", staffID, true, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 cancel, got %d", st)
		}
	}
	{
		st, body := doReq(t, ts.URL, "GET", "/volunteering", "", false, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list, got %d", st)
		}
		var resp []struct {
			ID        string `json:"id"`
			Cancelled bool   `json:"cancelled"`
		}
		_ = json.Unmarshal(body, &resp)
		if len(resp) != 1 || !resp[0].Cancelled {
			t.Fatalf("expected cancelled activity still listed, got %+v", resp)
		}
	}
	{
		st, _ := doReq(t, ts.URL, "GET", "/volunteering/"+activityID, volID, false, nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 detail after cancel, got %d", st)
		}
	}
	{
		st, _ := doReq(t, ts.URL, "POST", "/volunteering/"+activityID+"/signup", "vol-2", false, nil)
		if st != http.StatusConflict {
			t.Fatalf("expected 409 signup after cancel, got %d", st)
		}
	}

	// 6) Revoke sigue funcionando como no-op informativo para otro voluntario
	{
		st, body := doReq(t, ts.URL, "POST", "/volunteering/"+activityID+"/revoke", "vol-2", false, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 revoke no-op, got %d body=%s", st, string(body))
		}
		var resp struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.Message != "You weren't signed up for this activity." {
			t.Fatalf("unexpected message %q", resp.Message)
		}
	}
}

func createAnimal(t *testing.T, baseURL, staffID string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/animals", staffID, true, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create animal, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("create animal: missing id body=%s", string(body))
	}
	return resp.ID
}

func submitApplication(t *testing.T, baseURL, userID, animalID, text string) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/animals/"+animalID+"/applications", userID, false, map[string]any{
		"text": text,
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 submit application, got %d body=%s", st, string(body))
	}

	var resp struct {
		Application struct {
			ID string `json:"id"`
		} `json:"application"`
		Message string `json:"message"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.Application.ID == "" {
		t.Fatalf("submit application: missing id body=%s", string(body))
	}
	if resp.Message != "Thanks for applying to adopt! You can monitor the status of your application(s) here!" {
		t.Fatalf("unexpected submit message %q", resp.Message)
	}
	return resp.Application.ID
}

func doReq(t *testing.T, baseURL, method, path, debugUserID string, staff bool, body any) (int, []byte) {
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
		if staff {
			req.Header.Set("X-Debug-Staff", "true")
		}
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
