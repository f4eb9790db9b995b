package patient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func newTestHandler() (*Handler, *fixture) {
	f := newTestService()
	return NewHandler(f.svc), f
}

func jsonRequest(method, path, body string) (*http.Request, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req, httptest.NewRecorder()
}

func httpStatus(t *testing.T, err error) int {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %T: %v", err, err)
	}
	return he.Code
}

func TestCreatePatientHandler(t *testing.T) {
	h, _ := newTestHandler()
	e := echo.New()

	body := `{"first_name":"John","last_name":"Doe","dob":"1990-05-12T00:00:00Z","contact_info":"john@example.com"}`
	req, rec := jsonRequest(http.MethodPost, "/api/patients", body)
	c := e.NewContext(req, rec)

	if err := h.CreatePatient(c); err != nil {
		t.Fatalf("CreatePatient: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var out []*Response
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(out) != 1 || out[0].FirstName != "John" {
		t.Errorf("expected full patient list in response, got %+v", out)
	}
}

func TestCreatePatientHandlerMissingFields(t *testing.T) {
	h, _ := newTestHandler()
	e := echo.New()

	req, rec := jsonRequest(http.MethodPost, "/api/patients", `{"first_name":"John"}`)
	c := e.NewContext(req, rec)

	err := h.CreatePatient(c)
	if got := httpStatus(t, err); got != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", got)
	}
}

func TestListPatientsHandlerEmptyStore(t *testing.T) {
	h, _ := newTestHandler()
	e := echo.New()

	req, rec := jsonRequest(http.MethodGet, "/api/patients", "")
	c := e.NewContext(req, rec)

	err := h.ListPatients(c)
	if got := httpStatus(t, err); got != http.StatusNotFound {
		t.Errorf("empty store must map to 404, got %d", got)
	}
}

func TestGetPatientHandlerBadID(t *testing.T) {
	h, _ := newTestHandler()
	e := echo.New()

	req, rec := jsonRequest(http.MethodGet, "/api/patients/not-a-uuid", "")
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")

	err := h.GetPatient(c)
	if got := httpStatus(t, err); got != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", got)
	}
}

func TestGetPatientHandlerNotFound(t *testing.T) {
	h, _ := newTestHandler()
	e := echo.New()

	id := "0b906d4a-3f2e-4cbb-9d2a-2b54cbb0f0a1"
	req, rec := jsonRequest(http.MethodGet, "/api/patients/"+id, "")
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id)

	err := h.GetPatient(c)
	if got := httpStatus(t, err); got != http.StatusNotFound {
		t.Errorf("expected 404, got %d", got)
	}
}

func TestUpdatePatientHandlerRejectedUpdate(t *testing.T) {
	h, f := newTestHandler()
	e := echo.New()
	p := f.seedPatient(t)

	// Unchanged last name fails the all-or-nothing contract.
	body := `{"first_name":"Johnny","last_name":"Doe","dob":"1991-06-13T00:00:00Z","contact_info":"jd@example.com"}`
	req, rec := jsonRequest(http.MethodPatch, "/api/patients/"+p.ID.String(), body)
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(p.ID.String())

	err := h.UpdatePatient(c)
	if got := httpStatus(t, err); got != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", got)
	}
}

func TestDeletePatientHandler(t *testing.T) {
	h, f := newTestHandler()
	e := echo.New()
	p := f.seedPatient(t)

	req, rec := jsonRequest(http.MethodDelete, "/api/patients/"+p.ID.String(), "")
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(p.ID.String())

	if err := h.DeletePatient(c); err != nil {
		t.Fatalf("DeletePatient: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
}

func TestScheduleAttendanceHandler(t *testing.T) {
	h, f := newTestHandler()
	e := echo.New()
	p := f.seedPatient(t)

	body := `{"date_of_attendance":"2025-03-01T00:00:00Z"}`
	req, rec := jsonRequest(http.MethodPost, "/api/patients/"+p.ID.String()+"/attendances", body)
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(p.ID.String())

	if err := h.ScheduleAttendance(c); err != nil {
		t.Fatalf("ScheduleAttendance: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var out Attendance
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Attended {
		t.Error("new attendance must start unattended")
	}
}

func TestMarkAttendanceHandlerNotFound(t *testing.T) {
	h, _ := newTestHandler()
	e := echo.New()

	id := "0b906d4a-3f2e-4cbb-9d2a-2b54cbb0f0a1"
	req, rec := jsonRequest(http.MethodPatch, "/api/attendances/"+id, "")
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id)

	err := h.MarkAttendance(c)
	if got := httpStatus(t, err); got != http.StatusNotFound {
		t.Errorf("expected 404, got %d", got)
	}
}

func TestUpdateAssessmentHandlerPartial(t *testing.T) {
	h, f := newTestHandler()
	e := echo.New()
	p := f.seedPatient(t)

	a, err := f.svc.Assess(context.Background(), p.ID, &AssessmentRequest{Title: strPtr("initial"), Points: intPtr(10)})
	if err != nil {
		t.Fatalf("Assess: %v", err)
	}

	req, rec := jsonRequest(http.MethodPatch, "/api/assessments/"+a.ID.String(), `{"title":"follow-up"}`)
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(a.ID.String())

	herr := h.UpdateAssessment(c)
	if got := httpStatus(t, herr); got != http.StatusInternalServerError {
		t.Errorf("partial assessment update must map to 500, got %d", got)
	}
}

func TestFillProgressHandler(t *testing.T) {
	h, f := newTestHandler()
	e := echo.New()
	p := f.seedPatient(t)

	req, rec := jsonRequest(http.MethodPost, "/api/patients/"+p.ID.String()+"/progress", `{"notes":"stable"}`)
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(p.ID.String())

	if err := h.FillProgress(c); err != nil {
		t.Fatalf("FillProgress: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
}
