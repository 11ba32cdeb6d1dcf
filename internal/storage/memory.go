package storage

import (
	"context"
	"sync"

	"github.com/utec-cloud/incident-hub/internal/auth"
	"github.com/utec-cloud/incident-hub/internal/errs"
	"github.com/utec-cloud/incident-hub/internal/realtime"
	"github.com/utec-cloud/incident-hub/internal/reports"
)

// MemoryRegistry is the in-process registry used by tests and redis-less
// development runs. Semantics match RedisRegistry: upsert wins, absent
// deletes are fine, listings are unordered snapshots.
type MemoryRegistry struct {
	mu    sync.RWMutex
	conns map[string]realtime.Connection
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{conns: make(map[string]realtime.Connection)}
}

func (r *MemoryRegistry) Register(_ context.Context, conn realtime.Connection) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[conn.ID] = conn
	return nil
}

func (r *MemoryRegistry) Unregister(_ context.Context, connectionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conns, connectionID)
	return nil
}

func (r *MemoryRegistry) Get(_ context.Context, connectionID string) (realtime.Connection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conn, ok := r.conns[connectionID]
	if !ok {
		return realtime.Connection{}, realtime.ErrConnectionNotFound
	}
	return conn, nil
}

func (r *MemoryRegistry) ListAll(_ context.Context) ([]realtime.Connection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]realtime.Connection, 0, len(r.conns))
	for _, conn := range r.conns {
		out = append(out, conn)
	}
	return out, nil
}

// MemoryReportStore mirrors RedisReportStore on nested maps.
type MemoryReportStore struct {
	mu      sync.RWMutex
	tenants map[string]map[string]reports.Report
}

func NewMemoryReportStore() *MemoryReportStore {
	return &MemoryReportStore{tenants: make(map[string]map[string]reports.Report)}
}

func (s *MemoryReportStore) Put(_ context.Context, r reports.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tenants[r.TenantID] == nil {
		s.tenants[r.TenantID] = make(map[string]reports.Report)
	}
	s.tenants[r.TenantID][r.UUID] = r
	return nil
}

func (s *MemoryReportStore) Get(_ context.Context, tenantID, id string) (reports.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.tenants[tenantID][id]
	if !ok {
		return reports.Report{}, errs.NotFound("el reporte no existe o no pertenece al tenant")
	}
	return r, nil
}

func (s *MemoryReportStore) Delete(_ context.Context, tenantID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tenants[tenantID], id)
	return nil
}

func (s *MemoryReportStore) ListByTenant(_ context.Context, tenantID string) ([]reports.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]reports.Report, 0, len(s.tenants[tenantID]))
	for _, r := range s.tenants[tenantID] {
		out = append(out, r)
	}
	return out, nil
}

func (s *MemoryReportStore) ScanAll(_ context.Context) ([]reports.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []reports.Report{}
	for _, tenant := range s.tenants {
		for _, r := range tenant {
			out = append(out, r)
		}
	}
	return out, nil
}

// MemoryAccountStore mirrors RedisAccountStore.
type MemoryAccountStore struct {
	mu    sync.RWMutex
	kinds map[string]map[string]auth.Account
}

func NewMemoryAccountStore() *MemoryAccountStore {
	return &MemoryAccountStore{kinds: make(map[string]map[string]auth.Account)}
}

func (s *MemoryAccountStore) Put(_ context.Context, kind string, acc auth.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.kinds[kind] == nil {
		s.kinds[kind] = make(map[string]auth.Account)
	}
	s.kinds[kind][acc.Email] = acc
	return nil
}

func (s *MemoryAccountStore) Get(_ context.Context, kind, email string) (auth.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acc, ok := s.kinds[kind][email]
	if !ok {
		return auth.Account{}, errs.NotFound("cuenta no encontrada")
	}
	return acc, nil
}
