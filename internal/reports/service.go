package reports

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/utec-cloud/incident-hub/internal/errs"
)

// Store is the durable report backend. Get and Delete report absent records
// via an errs.CodeNotFound error.
type Store interface {
	Put(ctx context.Context, r Report) error
	Get(ctx context.Context, tenantID, id string) (Report, error)
	Delete(ctx context.Context, tenantID, id string) error
	ListByTenant(ctx context.Context, tenantID string) ([]Report, error)
	ScanAll(ctx context.Context) ([]Report, error)
}

// Notifier pushes a freshly persisted report to connected observers.
// Delivery problems stay inside the notifier; a commit is never undone.
type Notifier interface {
	NotifyNewIncident(ctx context.Context, r Report)
}

// AuditTrail records report lifecycle events for offline review.
type AuditTrail interface {
	Record(event string, r Report)
}

// Service implements the report intake pipeline and the admin CRUD surface.
type Service struct {
	store         Store
	notifier      Notifier
	audit         AuditTrail
	defaultTenant string
}

func NewService(store Store, notifier Notifier, defaultTenant string) *Service {
	if defaultTenant == "" {
		defaultTenant = DefaultTenant
	}
	return &Service{store: store, notifier: notifier, defaultTenant: defaultTenant}
}

// WithAudit enables the audit trail. Auditing is optional and off by default.
func (s *Service) WithAudit(audit AuditTrail) *Service {
	s.audit = audit
	return s
}

// Submit validates, persists and announces a new report. Validation and
// storage failures abort the submission; broadcast failures do not.
func (s *Service) Submit(ctx context.Context, sub Submission) (Report, error) {
	if err := sub.validate(); err != nil {
		return Report{}, err
	}

	r := Report{
		TenantID:      sub.TenantID,
		UUID:          uuid.NewString(),
		TipoIncidente: sub.TipoIncidente,
		NivelUrgencia: sub.NivelUrgencia,
		Ubicacion:     sub.Ubicacion,
		TipoUsuario:   sub.TipoUsuario,
		Descripcion:   sub.Descripcion,
		Estado:        EstadoPendiente,
	}
	if r.TenantID == "" {
		r.TenantID = s.defaultTenant
	}
	if r.NivelUrgencia == "" {
		r.NivelUrgencia = DefaultUrgency
	}

	if err := s.store.Put(ctx, r); err != nil {
		return Report{}, errs.Storage("no se pudo guardar el reporte", err)
	}

	slog.Info("reporte creado", "tenant_id", r.TenantID, "uuid", r.UUID, "tipo_incidente", r.TipoIncidente)

	if s.audit != nil {
		s.audit.Record("creado", r)
	}

	// The record is committed at this point; observers are told best-effort.
	if s.notifier != nil {
		s.notifier.NotifyNewIncident(ctx, r)
	}
	return r, nil
}

// List returns every report for one tenant. The tenant is mandatory here,
// matching the admin listing contract.
func (s *Service) List(ctx context.Context, tenantID string) ([]Report, error) {
	if tenantID == "" {
		return nil, errs.Validation("debe enviar tenant_id como query param")
	}
	items, err := s.store.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, errs.Storage("no se pudieron listar los reportes", err)
	}
	return items, nil
}

// Get fetches a single report scoped to a tenant.
func (s *Service) Get(ctx context.Context, tenantID, id string) (Report, error) {
	if tenantID == "" {
		return Report{}, errs.Validation("debe enviar tenant_id como query param")
	}
	if id == "" {
		return Report{}, errs.Validation("debe enviar uuid en la ruta")
	}
	r, err := s.store.Get(ctx, tenantID, id)
	if err != nil {
		if errs.CodeOf(err) == errs.CodeNotFound {
			return Report{}, err
		}
		return Report{}, errs.Storage("no se pudo obtener el reporte", err)
	}
	return r, nil
}

// Delete removes a report after checking it exists. An empty tenant falls
// back to the service default.
func (s *Service) Delete(ctx context.Context, tenantID, id string) error {
	if tenantID == "" {
		tenantID = s.defaultTenant
	}
	if id == "" {
		return errs.Validation("debe enviar uuid en la ruta")
	}
	if _, err := s.store.Get(ctx, tenantID, id); err != nil {
		if errs.CodeOf(err) == errs.CodeNotFound {
			return err
		}
		return errs.Storage("no se pudo verificar el reporte", err)
	}
	if err := s.store.Delete(ctx, tenantID, id); err != nil {
		return errs.Storage("no se pudo eliminar el reporte", err)
	}
	slog.Info("reporte eliminado", "tenant_id", tenantID, "uuid", id)
	if s.audit != nil {
		s.audit.Record("eliminado", Report{TenantID: tenantID, UUID: id})
	}
	return nil
}
