package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/utec-cloud/incident-hub/internal/auth"
	"github.com/utec-cloud/incident-hub/internal/errs"
	"github.com/utec-cloud/incident-hub/internal/reports"
)

type stubReportService struct {
	submitted  []reports.Submission
	submitErr  error
	getErr     error
	listResult []reports.Report
}

func (s *stubReportService) Submit(_ context.Context, sub reports.Submission) (reports.Report, error) {
	if s.submitErr != nil {
		return reports.Report{}, s.submitErr
	}
	s.submitted = append(s.submitted, sub)
	return reports.Report{
		TenantID:      "utec",
		UUID:          "u-1",
		TipoIncidente: sub.TipoIncidente,
		NivelUrgencia: "media",
		Ubicacion:     sub.Ubicacion,
		TipoUsuario:   sub.TipoUsuario,
		Descripcion:   sub.Descripcion,
		Estado:        "pendiente",
	}, nil
}

func (s *stubReportService) List(_ context.Context, tenantID string) ([]reports.Report, error) {
	if tenantID == "" {
		return nil, errs.Validation("debe enviar tenant_id como query param")
	}
	return s.listResult, nil
}

func (s *stubReportService) Get(_ context.Context, tenantID, id string) (reports.Report, error) {
	if s.getErr != nil {
		return reports.Report{}, s.getErr
	}
	return reports.Report{TenantID: tenantID, UUID: id}, nil
}

func (s *stubReportService) Delete(context.Context, string, string) error { return nil }

type stubAuthService struct {
	loginErr error
}

func (s *stubAuthService) RegisterAdmin(_ context.Context, email, _, nombre string) (auth.Account, error) {
	return auth.Account{Email: email, Nombre: nombre}, nil
}

func (s *stubAuthService) LoginAdmin(_ context.Context, email, _ string) (auth.Account, error) {
	if s.loginErr != nil {
		return auth.Account{}, s.loginErr
	}
	return auth.Account{Email: email, Nombre: "Ana"}, nil
}

func (s *stubAuthService) LoginUsuario(_ context.Context, email, _ string) (auth.Account, error) {
	if s.loginErr != nil {
		return auth.Account{}, s.loginErr
	}
	return auth.Account{Email: email, Nombre: "Ana"}, nil
}

func doRequest(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestCreateReport(t *testing.T) {
	svc := &stubReportService{}
	handler := NewServer(svc, &stubAuthService{}, nil, nil)

	body := `{"tipo_incidente":"fire","ubicacion":"lab3","tipo_usuario":"student","descripcion":"smoke detected"}`
	rec := doRequest(t, handler, http.MethodPost, "/api/v1/reportes", body)

	if got, want := rec.Code, http.StatusCreated; got != want {
		t.Fatalf("status = %d, want %d (body: %s)", got, want, rec.Body)
	}
	var out struct {
		Mensaje string         `json:"mensaje"`
		Reporte reports.Report `json:"reporte"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got, want := out.Reporte.Estado, "pendiente"; got != want {
		t.Fatalf("estado = %q, want %q", got, want)
	}
	if len(svc.submitted) != 1 {
		t.Fatalf("submissions = %d, want 1", len(svc.submitted))
	}
}

func TestCreateReportValidationError(t *testing.T) {
	svc := &stubReportService{submitErr: errs.Validation("faltan campos obligatorios: descripcion")}
	handler := NewServer(svc, &stubAuthService{}, nil, nil)

	rec := doRequest(t, handler, http.MethodPost, "/api/v1/reportes", `{"tipo_incidente":"fire"}`)
	if got, want := rec.Code, http.StatusBadRequest; got != want {
		t.Fatalf("status = %d, want %d (body: %s)", got, want, rec.Body)
	}
	if !strings.Contains(rec.Body.String(), "descripcion") {
		t.Fatalf("error body should name the missing field: %s", rec.Body)
	}
}

func TestListReportsRequiresTenant(t *testing.T) {
	handler := NewServer(&stubReportService{}, &stubAuthService{}, nil, nil)

	rec := doRequest(t, handler, http.MethodGet, "/api/v1/reportes", "")
	if got, want := rec.Code, http.StatusBadRequest; got != want {
		t.Fatalf("status = %d, want %d (body: %s)", got, want, rec.Body)
	}
}

func TestGetReportNotFound(t *testing.T) {
	svc := &stubReportService{getErr: errs.NotFound("el reporte no existe o no pertenece al tenant")}
	handler := NewServer(svc, &stubAuthService{}, nil, nil)

	rec := doRequest(t, handler, http.MethodGet, "/api/v1/reportes/u-404?tenant_id=utec", "")
	if got, want := rec.Code, http.StatusNotFound; got != want {
		t.Fatalf("status = %d, want %d (body: %s)", got, want, rec.Body)
	}
}

func TestLoginRejected(t *testing.T) {
	svc := &stubAuthService{loginErr: errs.Unauthorized("email o contraseña incorrectos")}
	handler := NewServer(&stubReportService{}, svc, nil, nil)

	rec := doRequest(t, handler, http.MethodPost, "/api/v1/auth/admin/login", `{"email":"x@utec.edu.pe","password":"bad"}`)
	if got, want := rec.Code, http.StatusUnauthorized; got != want {
		t.Fatalf("status = %d, want %d (body: %s)", got, want, rec.Body)
	}
}

func TestLoginReturnsToken(t *testing.T) {
	handler := NewServer(&stubReportService{}, &stubAuthService{}, nil, nil)

	rec := doRequest(t, handler, http.MethodPost, "/api/v1/auth/usuario/login", `{"email":"ana@utec.edu.pe","password":"secret1"}`)
	if got, want := rec.Code, http.StatusOK; got != want {
		t.Fatalf("status = %d, want %d (body: %s)", got, want, rec.Body)
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got, want := out.Token, "ana@utec.edu.pe"; got != want {
		t.Fatalf("token = %q, want %q", got, want)
	}
}

func TestDocsPage(t *testing.T) {
	handler := NewServer(&stubReportService{}, &stubAuthService{}, nil, nil)

	rec := doRequest(t, handler, http.MethodGet, "/docs", "")
	if got, want := rec.Code, http.StatusOK; got != want {
		t.Fatalf("status = %d, want %d", got, want)
	}
	if !strings.Contains(rec.Body.String(), "elements-api") {
		t.Fatal("docs page missing api viewer")
	}
}
