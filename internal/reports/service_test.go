package reports

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/utec-cloud/incident-hub/internal/errs"
)

type fakeStore struct {
	puts    []Report
	putErr  error
	records map[string]Report // keyed by tenant/uuid
	getErr  error
	deletes []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[string]Report)}
}

func storeKey(tenantID, id string) string { return tenantID + "/" + id }

func (s *fakeStore) Put(_ context.Context, r Report) error {
	if s.putErr != nil {
		return s.putErr
	}
	s.puts = append(s.puts, r)
	s.records[storeKey(r.TenantID, r.UUID)] = r
	return nil
}

func (s *fakeStore) Get(_ context.Context, tenantID, id string) (Report, error) {
	if s.getErr != nil {
		return Report{}, s.getErr
	}
	r, ok := s.records[storeKey(tenantID, id)]
	if !ok {
		return Report{}, errs.NotFound("el reporte no existe o no pertenece al tenant")
	}
	return r, nil
}

func (s *fakeStore) Delete(_ context.Context, tenantID, id string) error {
	s.deletes = append(s.deletes, storeKey(tenantID, id))
	delete(s.records, storeKey(tenantID, id))
	return nil
}

func (s *fakeStore) ListByTenant(_ context.Context, tenantID string) ([]Report, error) {
	var out []Report
	for _, r := range s.records {
		if r.TenantID == tenantID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *fakeStore) ScanAll(_ context.Context) ([]Report, error) {
	var out []Report
	for _, r := range s.records {
		out = append(out, r)
	}
	return out, nil
}

type fakeNotifier struct {
	notified []Report
}

func (n *fakeNotifier) NotifyNewIncident(_ context.Context, r Report) {
	n.notified = append(n.notified, r)
}

func TestSubmitHappyPath(t *testing.T) {
	store := newFakeStore()
	notifier := &fakeNotifier{}
	svc := NewService(store, notifier, "")

	r, err := svc.Submit(context.Background(), Submission{
		TipoIncidente: "fire",
		Ubicacion:     "lab3",
		TipoUsuario:   "student",
		Descripcion:   "smoke detected",
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if r.UUID == "" {
		t.Fatal("uuid not assigned")
	}
	if got, want := r.TenantID, DefaultTenant; got != want {
		t.Fatalf("tenant = %q, want %q", got, want)
	}
	if got, want := r.NivelUrgencia, DefaultUrgency; got != want {
		t.Fatalf("nivel_urgencia = %q, want %q", got, want)
	}
	if got, want := r.Estado, EstadoPendiente; got != want {
		t.Fatalf("estado = %q, want %q", got, want)
	}

	if len(store.puts) != 1 {
		t.Fatalf("store writes = %d, want 1", len(store.puts))
	}
	if len(notifier.notified) != 1 {
		t.Fatalf("broadcasts = %d, want 1", len(notifier.notified))
	}
	if got, want := notifier.notified[0].UUID, r.UUID; got != want {
		t.Fatalf("broadcast uuid = %q, want %q", got, want)
	}
}

func TestSubmitKeepsExplicitFields(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, &fakeNotifier{}, "")

	r, err := svc.Submit(context.Background(), Submission{
		TenantID:      "otra",
		TipoIncidente: "flood",
		NivelUrgencia: "alta",
		Ubicacion:     "patio",
		TipoUsuario:   "docente",
		Descripcion:   "agua",
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if got, want := r.TenantID, "otra"; got != want {
		t.Fatalf("tenant = %q, want %q", got, want)
	}
	if got, want := r.NivelUrgencia, "alta"; got != want {
		t.Fatalf("nivel_urgencia = %q, want %q", got, want)
	}
}

func TestSubmitMissingFields(t *testing.T) {
	store := newFakeStore()
	notifier := &fakeNotifier{}
	svc := NewService(store, notifier, "")

	_, err := svc.Submit(context.Background(), Submission{
		TipoIncidente: "fire",
		Ubicacion:     "lab3",
		TipoUsuario:   "student",
	})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if got, want := errs.CodeOf(err), errs.CodeValidation; got != want {
		t.Fatalf("error code = %q, want %q", got, want)
	}
	if !strings.Contains(err.Error(), "descripcion") {
		t.Fatalf("error should name the missing field, got %q", err)
	}
	if len(store.puts) != 0 {
		t.Fatalf("store writes = %d, want 0", len(store.puts))
	}
	if len(notifier.notified) != 0 {
		t.Fatalf("broadcasts = %d, want 0", len(notifier.notified))
	}
}

func TestSubmitStorageFailureSkipsBroadcast(t *testing.T) {
	store := newFakeStore()
	store.putErr = errors.New("store down")
	notifier := &fakeNotifier{}
	svc := NewService(store, notifier, "")

	_, err := svc.Submit(context.Background(), Submission{
		TipoIncidente: "fire",
		Ubicacion:     "lab3",
		TipoUsuario:   "student",
		Descripcion:   "smoke",
	})
	if err == nil {
		t.Fatal("expected storage error")
	}
	if got, want := errs.CodeOf(err), errs.CodeStorage; got != want {
		t.Fatalf("error code = %q, want %q", got, want)
	}
	if len(notifier.notified) != 0 {
		t.Fatalf("broadcasts = %d, want 0", len(notifier.notified))
	}
}

func TestListRequiresTenant(t *testing.T) {
	svc := NewService(newFakeStore(), &fakeNotifier{}, "")
	if _, err := svc.List(context.Background(), ""); errs.CodeOf(err) != errs.CodeValidation {
		t.Fatalf("error = %v, want validation error", err)
	}
}

func TestGetUnknownReport(t *testing.T) {
	svc := NewService(newFakeStore(), &fakeNotifier{}, "")
	_, err := svc.Get(context.Background(), "utec", "missing")
	if got, want := errs.CodeOf(err), errs.CodeNotFound; got != want {
		t.Fatalf("error code = %q, want %q", got, want)
	}
}

func TestDeleteChecksExistence(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, &fakeNotifier{}, "")

	if err := svc.Delete(context.Background(), "utec", "missing"); errs.CodeOf(err) != errs.CodeNotFound {
		t.Fatalf("error = %v, want not found", err)
	}
	if len(store.deletes) != 0 {
		t.Fatalf("deletes = %d, want 0", len(store.deletes))
	}

	r := Report{TenantID: "utec", UUID: "u-1", TipoIncidente: "fire"}
	store.records[storeKey("utec", "u-1")] = r
	if err := svc.Delete(context.Background(), "", "u-1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if len(store.deletes) != 1 {
		t.Fatalf("deletes = %d, want 1", len(store.deletes))
	}
}
